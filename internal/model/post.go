package model

import "time"

const (
	PostStatusNormal = 0
	PostStatusHidden = 1 // 运营隐藏，所有读取路径过滤；作者删除是物理删除
)

type Post struct {
	ID             uint64    `gorm:"primaryKey;index:idx_room_time_id,priority:3,sort:desc"`
	RoomID         uint64    `gorm:"not null;index:idx_room_time_id,priority:1"`
	AuthorID       uint64    `gorm:"not null;index:idx_author_time"`
	DisplayName    string    `gorm:"size:32;not null"` // 发帖时的用户名快照
	Content        string    `gorm:"type:text"`
	Status         int       `gorm:"not null;default:0"`
	AttachmentPath string    `gorm:"size:255"` // 对象存储内的路径，不存字节
	CreatedAt      time.Time `gorm:"index:idx_room_time_id,priority:2,sort:desc"`
	UpdatedAt      time.Time
}
