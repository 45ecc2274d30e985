package model

import "time"

// 房间生命周期状态：open 只能前进到 forced_publish / closed，不可回退
const (
	RoomStatusOpen          = "open"
	RoomStatusForcedPublish = "forced_publish"
	RoomStatusClosed        = "closed"
)

// 成员角色
const (
	RoleSupporter = 0
	RoleCore      = 1
	RoleCreator   = 2
)

// 席位上限：creator+core 共 5 席，supporter 45 席
const (
	CoreSeatLimit      = 5
	SupporterSeatLimit = 45
	TotalSeatLimit     = CoreSeatLimit + SupporterSeatLimit
)

type Room struct {
	ID              uint64 `gorm:"primaryKey"`
	Title           string `gorm:"size:128;not null"`
	Category        string `gorm:"size:32;not null;index"`
	IsAdult         bool   `gorm:"not null;default:false"`
	HourLimit       int    `gorm:"not null"`
	ExpiresAt       time.Time
	Status          string `gorm:"size:16;not null;default:'open';index"`
	ApprovalEnabled bool   `gorm:"not null;default:false"`
	InviteEnabled   bool   `gorm:"not null;default:false"`
	InviteCode      string `gorm:"size:16"`
	LikeCount       int64  `gorm:"not null;default:0"`
	IsHidden        bool   `gorm:"not null;default:false"`
	OwnerID         uint64 `gorm:"not null;index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type RoomMember struct {
	ID         uint64 `gorm:"primaryKey"`
	RoomID     uint64 `gorm:"not null;index;uniqueIndex:uk_room_user"`
	UserID     uint64 `gorm:"not null;index;uniqueIndex:uk_room_user"`
	Role       int    `gorm:"not null;default:0"` // 0=supporter, 1=core, 2=creator
	JoinedAt   time.Time
	LeftAt     *time.Time // null=在籍中
	ApprovedBy *uint64
	ApprovedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (RoomMember) TableName() string {
	return "room_members"
}

// Active 是否为在籍成员
func (m *RoomMember) Active() bool {
	return m.LeftAt == nil
}

type RoomLike struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	RoomID    uint64 `gorm:"not null;index;uniqueIndex:uk_room_like"`
	UserID    uint64 `gorm:"not null;index;uniqueIndex:uk_room_like"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (RoomLike) TableName() string {
	return "room_likes"
}
