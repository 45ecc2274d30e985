package mysql

import (
	"errors"
	"time"

	"Atelier_Room/internal/model"

	"gorm.io/gorm"
)

var (
	ErrRequestPendingExists = errors.New("request already pending")
	ErrRequestDecided       = errors.New("request already decided")
)

type JoinRequestRepository struct {
	DB *gorm.DB
}

// Create 同一 (room,user) 只允许一条 pending
func (r *JoinRequestRepository) Create(roomID, userID uint64, role int) (*model.JoinRequest, error) {
	var req *model.JoinRequest
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.JoinRequest{}).
			Where("room_id = ? AND user_id = ? AND status = ?", roomID, userID, model.JoinRequestPending).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrRequestPendingExists
		}

		req = &model.JoinRequest{
			RoomID: roomID,
			UserID: userID,
			Role:   role,
			Status: model.JoinRequestPending,
		}
		return tx.Create(req).Error
	})
	return req, err
}

func (r *JoinRequestRepository) FindByID(id uint64) (*model.JoinRequest, error) {
	var req model.JoinRequest
	err := r.DB.First(&req, id).Error
	return &req, err
}

// Decide 状态条件更新保证终态：pending 以外命中 0 行
func (r *JoinRequestRepository) Decide(id uint64, status string, decidedBy uint64, now time.Time) error {
	res := r.DB.Model(&model.JoinRequest{}).
		Where("id = ? AND status = ?", id, model.JoinRequestPending).
		Updates(map[string]any{
			"status":     status,
			"decided_by": decidedBy,
			"decided_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRequestDecided
	}
	return nil
}

func (r *JoinRequestRepository) ListPendingByRoom(roomID uint64) ([]model.JoinRequest, error) {
	var list []model.JoinRequest
	err := r.DB.Where("room_id = ? AND status = ?", roomID, model.JoinRequestPending).
		Order("id ASC").Find(&list).Error
	return list, err
}
