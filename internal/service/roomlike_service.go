package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Atelier_Room/internal/repository/mysql"
	"Atelier_Room/internal/repository/redis"

	redisv9 "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// RoomLikeService 点赞：先写库，缓存尽力维护；
// 计数回源重建用短锁挡住惊群，拿不到锁就删计数键降级
type RoomLikeService struct {
	repo      *mysql.RoomLikeRepository
	likeCache *redis.LikeCacheRepository
	lock      *redis.LikeLock
}

func NewRoomLikeService(db *gorm.DB, rdb *redisv9.Client) *RoomLikeService {
	return &RoomLikeService{
		repo:      &mysql.RoomLikeRepository{DB: db},
		likeCache: redis.NewLikeCacheRepository(rdb),
		lock:      &redis.LikeLock{RDB: rdb},
	}
}

func likeToken(userID, roomID uint64) string {
	return fmt.Sprintf("%d-%d-%d", userID, roomID, time.Now().UnixNano())
}

func (s *RoomLikeService) Like(ctx context.Context, userID, roomID uint64) (bool, error) {
	if userID == 0 || roomID == 0 {
		return false, errors.New("invalid id")
	}

	changed, err := s.repo.Like(ctx, userID, roomID)
	if err != nil || !changed {
		if err == nil {
			s.likeCache.WarmIsLiked(ctx, userID, roomID, true)
		}
		return changed, err
	}

	// 集合直接更新，失败忽略；计数冲突时删键交给读侧重建
	_ = s.likeCache.AddLike(ctx, userID, roomID)
	return true, nil
}

func (s *RoomLikeService) Unlike(ctx context.Context, userID, roomID uint64) (bool, error) {
	if userID == 0 || roomID == 0 {
		return false, errors.New("invalid id")
	}
	changed, err := s.repo.Unlike(ctx, userID, roomID)
	if err != nil || !changed {
		if err == nil {
			s.likeCache.WarmIsLiked(ctx, userID, roomID, false)
		}
		return changed, err
	}

	if err := s.likeCache.RemoveLike(ctx, userID, roomID); err != nil {
		_ = s.likeCache.DeleteCount(ctx, roomID)
	}
	return true, nil
}

func (s *RoomLikeService) IsLiked(ctx context.Context, userID, roomID uint64) (bool, error) {
	if userID == 0 || roomID == 0 {
		return false, errors.New("invalid id")
	}
	if b, ok, err := s.likeCache.IsLikedCached(ctx, userID, roomID); err == nil && ok {
		return b, nil
	}
	// 回源 MySQL
	b, err := s.repo.IsLiked(ctx, userID, roomID)
	if err == nil {
		s.likeCache.WarmIsLiked(ctx, userID, roomID, b)
	}
	return b, err
}

// GetCount 先读缓存；miss 时拿短锁回源重建，锁竞争者退避后重读
func (s *RoomLikeService) GetCount(ctx context.Context, userID, roomID uint64) (int64, error) {
	if v, ok, err := s.likeCache.GetLikeCountCached(ctx, roomID); err == nil && ok {
		return v, nil
	}

	token := likeToken(userID, roomID)
	got, _ := s.lock.Acquire(ctx, roomID, token)
	if got {
		defer s.lock.Release(ctx, roomID, token)

		// double check，锁内再读一次
		if v, ok, err := s.likeCache.GetLikeCountCached(ctx, roomID); err == nil && ok {
			return v, nil
		}

		v, err := s.repo.GetLikeCount(ctx, roomID)
		if err != nil {
			return 0, err
		}
		_ = s.likeCache.SetLikeCount(ctx, roomID, v)
		return v, nil
	}

	// 没拿到锁：短暂退避再读缓存，避免全体打库
	time.Sleep(50 * time.Millisecond)
	if v, ok, err := s.likeCache.GetLikeCountCached(ctx, roomID); err == nil && ok {
		return v, nil
	}
	return s.repo.GetLikeCount(ctx, roomID)
}
