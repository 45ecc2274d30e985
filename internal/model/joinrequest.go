package model

import "time"

// 审批状态：决定后不可重开
const (
	JoinRequestPending  = "pending"
	JoinRequestApproved = "approved"
	JoinRequestRejected = "rejected"
)

type JoinRequest struct {
	ID        uint64 `gorm:"primaryKey"`
	RoomID    uint64 `gorm:"not null;index"`
	UserID    uint64 `gorm:"not null;index"`
	Role      int    `gorm:"not null;default:1"` // 申请的角色，目前只有 core
	Status    string `gorm:"size:16;not null;default:'pending';index"`
	DecidedBy *uint64
	DecidedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (JoinRequest) TableName() string {
	return "join_requests"
}
