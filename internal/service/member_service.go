package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Atelier_Room/internal/model"
	"Atelier_Room/internal/repository/mysql"
	"Atelier_Room/internal/repository/redis"

	redisv9 "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CoreLeaveWindow core 成员只在加入后的这段时间内可离席
const CoreLeaveWindow = 5 * time.Minute

const lockAttempts = 5

// MemberService 成员变更全部串行化到房间锁后面，
// 容量判定（5 core / 45 supporter / 50 总数）才真正成立
type MemberService struct {
	roomRepo   *mysql.RoomRepository
	memberRepo *mysql.RoomMemberRepository
	lock       *redis.RoomLock
}

func NewMemberService(db *gorm.DB, rdb *redisv9.Client) *MemberService {
	return &MemberService{
		roomRepo:   &mysql.RoomRepository{DB: db},
		memberRepo: &mysql.RoomMemberRepository{DB: db},
		lock:       &redis.RoomLock{RDB: rdb},
	}
}

func lockToken(userID uint64) string {
	return fmt.Sprintf("%d-%d", userID, time.Now().UnixNano())
}

func (s *MemberService) openRoom(roomID uint64) (*model.Room, error) {
	room, err := s.roomRepo.FindByID(roomID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	if room.Status != model.RoomStatusOpen {
		return nil, ErrRoomNotOpen
	}
	return room, nil
}

// Join 普通加入：已在籍原样返回；core 未满给 core，否则 supporter
func (s *MemberService) Join(ctx context.Context, userID, roomID uint64) (*model.RoomMember, bool, error) {
	if _, err := s.openRoom(roomID); err != nil {
		return nil, false, err
	}

	token := lockToken(userID)
	if err := s.lock.AcquireWait(ctx, roomID, token, lockAttempts); err != nil {
		return nil, false, err
	}
	defer s.lock.Release(ctx, roomID, token)

	// 拿锁后复核状态，避免和清扫竞争
	if _, err := s.openRoom(roomID); err != nil {
		return nil, false, err
	}
	return s.memberRepo.JoinAuto(roomID, userID, time.Now())
}

// JoinSupporter 明示的 supporter 加入
func (s *MemberService) JoinSupporter(ctx context.Context, userID, roomID uint64) (*model.RoomMember, error) {
	if _, err := s.openRoom(roomID); err != nil {
		return nil, err
	}

	token := lockToken(userID)
	if err := s.lock.AcquireWait(ctx, roomID, token, lockAttempts); err != nil {
		return nil, err
	}
	defer s.lock.Release(ctx, roomID, token)

	if _, err := s.openRoom(roomID); err != nil {
		return nil, err
	}
	return s.memberRepo.JoinSupporter(roomID, userID, time.Now())
}

// RedeemInvite 邀请码兑换：码匹配立即授予 core，同样受 5 席限制
func (s *MemberService) RedeemInvite(ctx context.Context, userID, roomID uint64, code string) (*model.RoomMember, error) {
	room, err := s.openRoom(roomID)
	if err != nil {
		return nil, err
	}
	if !room.InviteEnabled {
		return nil, ErrInviteDisabled
	}
	if code == "" || room.InviteCode != code {
		return nil, ErrInviteCodeMismatch
	}

	token := lockToken(userID)
	if err := s.lock.AcquireWait(ctx, roomID, token, lockAttempts); err != nil {
		return nil, err
	}
	defer s.lock.Release(ctx, roomID, token)

	if _, err := s.openRoom(roomID); err != nil {
		return nil, err
	}
	return s.memberRepo.GrantCore(roomID, userID, nil, time.Now())
}

// Leave 离席：creator 永远不可；core 仅限加入后 5 分钟内；supporter 随时。
// 只打 left_at 时间戳，历史保留
func (s *MemberService) Leave(ctx context.Context, userID, roomID uint64) error {
	if _, err := s.openRoom(roomID); err != nil {
		return err
	}

	token := lockToken(userID)
	if err := s.lock.AcquireWait(ctx, roomID, token, lockAttempts); err != nil {
		return err
	}
	defer s.lock.Release(ctx, roomID, token)

	if _, err := s.openRoom(roomID); err != nil {
		return err
	}

	member, err := s.memberRepo.FindActive(roomID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotMember
	}
	if err != nil {
		return err
	}

	now := time.Now()
	switch member.Role {
	case model.RoleCreator:
		return ErrCreatorCannotLeave
	case model.RoleCore:
		if now.Sub(member.JoinedAt) > CoreLeaveWindow {
			return ErrLeaveWindowClosed
		}
	}
	return s.memberRepo.MarkLeft(member.ID, now)
}

func (s *MemberService) ListMembers(roomID uint64) ([]model.RoomMember, error) {
	if _, err := s.roomRepo.FindByID(roomID); errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoomNotFound
	} else if err != nil {
		return nil, err
	}
	return s.memberRepo.ListActive(roomID)
}
