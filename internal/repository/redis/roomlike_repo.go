package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	LikeSetTTL  = 24 * time.Hour
	LikeCntTTL  = 24 * time.Hour
	LikeLockTTL = 300 * time.Millisecond

	LikeSetKeyPrefix  = "like:set:room"  // 已点赞某房间的用户ID集合
	LikeCntKeyPrefix  = "like:cnt:room"  // 房间点赞计数缓存
	LikeLockKeyPrefix = "lock:like:room" // 计数重建的短锁
)

// LikeCacheRepository 点赞的读缓存：写库成功后尽力维护，失败交给读侧回源重建
type LikeCacheRepository struct {
	RDB *redis.Client

	likeSetTTL time.Duration
	likeCntTTL time.Duration
}

func NewLikeCacheRepository(rdb *redis.Client) *LikeCacheRepository {
	return &LikeCacheRepository{
		RDB:        rdb,
		likeSetTTL: LikeSetTTL,
		likeCntTTL: LikeCntTTL,
	}
}

func (r *LikeCacheRepository) likeSetKey(roomID uint64) string {
	return fmt.Sprintf("%s:%d", LikeSetKeyPrefix, roomID)
}
func (r *LikeCacheRepository) likeCntKey(roomID uint64) string {
	return fmt.Sprintf("%s:%d", LikeCntKeyPrefix, roomID)
}

func (r *LikeCacheRepository) AddLike(ctx context.Context, userID, roomID uint64) error {
	k := r.likeSetKey(roomID)
	if err := r.RDB.SAdd(ctx, k, userID).Err(); err != nil {
		return err
	}
	_ = r.RDB.Expire(ctx, k, r.likeSetTTL).Err()

	ck := r.likeCntKey(roomID)
	if err := r.RDB.Incr(ctx, ck).Err(); err != nil {
		return err
	}
	_ = r.RDB.Expire(ctx, ck, r.likeCntTTL).Err()
	return nil
}

func (r *LikeCacheRepository) RemoveLike(ctx context.Context, userID, roomID uint64) error {
	k := r.likeSetKey(roomID)
	if err := r.RDB.SRem(ctx, k, userID).Err(); err != nil {
		return err
	}
	ck := r.likeCntKey(roomID)
	// 计数防负：<=0 时不减，留给读侧回源兜底
	return r.RDB.Watch(ctx, func(tx *redis.Tx) error {
		val, err := tx.Get(ctx, ck).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if val <= 0 {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Decr(ctx, ck)
			return nil
		})
		return err
	}, ck)
}

// IsLikedCached 第二个返回值表示集合是否存在（不存在 = 缓存不可用，需回源）
func (r *LikeCacheRepository) IsLikedCached(ctx context.Context, userID, roomID uint64) (bool, bool, error) {
	k := r.likeSetKey(roomID)
	exists, err := r.RDB.Exists(ctx, k).Result()
	if err != nil {
		return false, false, err
	}
	if exists == 0 {
		return false, false, nil
	}
	b, err := r.RDB.SIsMember(ctx, k, userID).Result()
	return b, true, err
}

func (r *LikeCacheRepository) GetLikeCountCached(ctx context.Context, roomID uint64) (int64, bool, error) {
	val, err := r.RDB.Get(ctx, r.likeCntKey(roomID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	return val, true, err
}

// SetLikeCount 回源后的计数回填
func (r *LikeCacheRepository) SetLikeCount(ctx context.Context, roomID uint64, cnt int64) error {
	return r.RDB.Set(ctx, r.likeCntKey(roomID), cnt, r.likeCntTTL).Err()
}

// DeleteCount 降级：并发冲突时删计数键，交给读侧重建
func (r *LikeCacheRepository) DeleteCount(ctx context.Context, roomID uint64) error {
	return r.RDB.Del(ctx, r.likeCntKey(roomID)).Err()
}

// LikeLock 点赞计数重建用的短锁，和成员锁分开，免得互相拖 TTL
type LikeLock struct {
	RDB *redis.Client
}

func (l *LikeLock) key(roomID uint64) string {
	return fmt.Sprintf("%s:%d", LikeLockKeyPrefix, roomID)
}

func (l *LikeLock) Acquire(ctx context.Context, roomID uint64, token string) (bool, error) {
	return l.RDB.SetNX(ctx, l.key(roomID), token, LikeLockTTL).Result()
}

// Release 只释放自己持有的锁
func (l *LikeLock) Release(ctx context.Context, roomID uint64, token string) error {
	_, err := redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
  return redis.call("del", KEYS[1])
else
  return 0
end`).Run(ctx, l.RDB, []string{l.key(roomID)}, token).Result()
	return err
}

// WarmIsLiked 惰性回填集合成员（只在集合已存在时写入）
func (r *LikeCacheRepository) WarmIsLiked(ctx context.Context, userID, roomID uint64, liked bool) {
	k := r.likeSetKey(roomID)
	exists, err := r.RDB.Exists(ctx, k).Result()
	if err != nil || exists == 0 {
		return
	}
	if liked {
		_ = r.RDB.SAdd(ctx, k, userID).Err()
	} else {
		_ = r.RDB.SRem(ctx, k, userID).Err()
	}
}
