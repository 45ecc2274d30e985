package service

import (
	"errors"
	"time"

	"Atelier_Room/internal/model"
	"Atelier_Room/internal/pkg"
	"Atelier_Room/internal/repository/mysql"

	"gorm.io/gorm"
)

const (
	MinHourLimit  = 1
	MaxHourLimit  = 168 // 一周
	InviteCodeLen = 8
)

type RoomService struct {
	repo *mysql.RoomRepository
}

func NewRoomService(db *gorm.DB) *RoomService {
	return &RoomService{
		repo: &mysql.RoomRepository{DB: db},
	}
}

type CreateRoomInput struct {
	Title           string
	Category        string
	IsAdult         bool
	HourLimit       int
	ApprovalEnabled bool
	InviteEnabled   bool
}

// CreateRoom 开房：到期时间 = now + 时限；创建者在同一事务内成为 creator 成员
func (s *RoomService) CreateRoom(userID uint64, in CreateRoomInput) (*model.Room, error) {
	if in.Title == "" {
		return nil, errors.New("title required")
	}
	if in.Category == "" {
		return nil, errors.New("category required")
	}
	if in.HourLimit < MinHourLimit || in.HourLimit > MaxHourLimit {
		return nil, errors.New("invalid hour limit")
	}

	now := time.Now()
	room := &model.Room{
		Title:           in.Title,
		Category:        in.Category,
		IsAdult:         in.IsAdult,
		HourLimit:       in.HourLimit,
		ExpiresAt:       now.Add(time.Duration(in.HourLimit) * time.Hour),
		Status:          model.RoomStatusOpen,
		ApprovalEnabled: in.ApprovalEnabled,
		InviteEnabled:   in.InviteEnabled,
		OwnerID:         userID,
	}

	if in.InviteEnabled {
		code, err := pkg.RandInviteCode(InviteCodeLen)
		if err != nil {
			return nil, err
		}
		room.InviteCode = code
	}

	return s.repo.Create(room, now)
}

func (s *RoomService) GetRoom(id uint64) (*model.Room, error) {
	room, err := s.repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	if room.IsHidden {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

func (s *RoomService) ListRooms(page, size int) ([]model.Room, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}
	offset := (page - 1) * size
	return s.repo.List(offset, size)
}

// CloseRoom 房主显式关房：open → closed，终态
func (s *RoomService) CloseRoom(userID, roomID uint64) error {
	room, err := s.repo.FindByID(roomID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRoomNotFound
	}
	if err != nil {
		return err
	}
	if room.OwnerID != userID {
		return ErrNotOwner
	}
	affected, err := s.repo.UpdateStatus(roomID, model.RoomStatusClosed)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrRoomNotOpen
	}
	return nil
}

// DeleteRoom 房主专用的物理删除，事务内级联
func (s *RoomService) DeleteRoom(userID, roomID uint64) error {
	room, err := s.repo.FindByID(roomID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRoomNotFound
	}
	if err != nil {
		return err
	}
	if room.OwnerID != userID {
		return ErrNotOwner
	}
	return s.repo.DeleteCascade(roomID)
}

// Sweep 到期清扫：把过期的 open 房间批量置为 forced_publish；幂等
func (s *RoomService) Sweep(now time.Time) (int64, error) {
	return s.repo.SweepExpired(now)
}
