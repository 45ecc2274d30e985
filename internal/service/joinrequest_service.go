package service

import (
	"context"
	"errors"
	"time"

	"Atelier_Room/internal/model"
	"Atelier_Room/internal/repository/mysql"
	"Atelier_Room/internal/repository/redis"

	redisv9 "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// JoinRequestService 审批制 core 入场的两步流程：申请、房主裁决
type JoinRequestService struct {
	roomRepo   *mysql.RoomRepository
	memberRepo *mysql.RoomMemberRepository
	reqRepo    *mysql.JoinRequestRepository
	lock       *redis.RoomLock
}

func NewJoinRequestService(db *gorm.DB, rdb *redisv9.Client) *JoinRequestService {
	return &JoinRequestService{
		roomRepo:   &mysql.RoomRepository{DB: db},
		memberRepo: &mysql.RoomMemberRepository{DB: db},
		reqRepo:    &mysql.JoinRequestRepository{DB: db},
		lock:       &redis.RoomLock{RDB: rdb},
	}
}

// RequestCore 非成员向开启审批的房间申请 core 席位
func (s *JoinRequestService) RequestCore(userID, roomID uint64) (*model.JoinRequest, error) {
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
	if !room.ApprovalEnabled {
		return nil, ErrApprovalDisabled
	}

	if _, err := s.memberRepo.FindActive(roomID, userID); err == nil {
		return nil, mysql.ErrAlreadyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return s.reqRepo.Create(roomID, userID, model.RoleCore)
}

// Approve 房主批准：先在房间锁内按 5 席授予 core，成功后再落终态。
// 席位满时申请保持 pending，房主可等席位空出后再裁决
func (s *JoinRequestService) Approve(ctx context.Context, approverID, requestID uint64) (*model.RoomMember, error) {
	req, err := s.reqRepo.FindByID(requestID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	if req.Status != model.JoinRequestPending {
		return nil, mysql.ErrRequestDecided
	}

	room, err := s.roomRepo.FindByID(req.RoomID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	if room.OwnerID != approverID {
		return nil, ErrNotOwner
	}
	if room.Status != model.RoomStatusOpen {
		return nil, ErrRoomNotOpen
	}

	token := lockToken(approverID)
	if err := s.lock.AcquireWait(ctx, req.RoomID, token, lockAttempts); err != nil {
		return nil, err
	}
	defer s.lock.Release(ctx, req.RoomID, token)

	now := time.Now()
	member, err := s.memberRepo.GrantCore(req.RoomID, req.UserID, &approverID, now)
	if err != nil {
		return nil, err
	}
	if err := s.reqRepo.Decide(requestID, model.JoinRequestApproved, approverID, now); err != nil {
		return nil, err
	}
	return member, nil
}

// Reject 房主拒绝，终态
func (s *JoinRequestService) Reject(rejecterID, requestID uint64) error {
	req, err := s.reqRepo.FindByID(requestID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRequestNotFound
	}
	if err != nil {
		return err
	}

	room, err := s.roomRepo.FindByID(req.RoomID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRoomNotFound
	}
	if err != nil {
		return err
	}
	if room.OwnerID != rejecterID {
		return ErrNotOwner
	}

	return s.reqRepo.Decide(requestID, model.JoinRequestRejected, rejecterID, time.Now())
}

// ListPending 房主查看待裁决申请
func (s *JoinRequestService) ListPending(ownerID, roomID uint64) ([]model.JoinRequest, error) {
	room, err := s.roomRepo.FindByID(roomID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	if room.OwnerID != ownerID {
		return nil, ErrNotOwner
	}
	return s.reqRepo.ListPendingByRoom(roomID)
}
