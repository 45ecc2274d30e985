package model

import "time"

const (
	ReportTargetRoom = "room"
	ReportTargetPost = "post"
)

// Report 只追加，审核在外部系统做（经 outbox 投递）
type Report struct {
	ID         uint64 `gorm:"primaryKey"`
	ReporterID uint64 `gorm:"not null;index;uniqueIndex:uk_reporter_target"`
	TargetType string `gorm:"size:8;not null;uniqueIndex:uk_reporter_target"`
	TargetID   uint64 `gorm:"not null;index;uniqueIndex:uk_reporter_target"`
	Reason     string `gorm:"size:500;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Report) TableName() string {
	return "reports"
}

// EventOutbox 事件外发表：report / room_published 事件先落库再异步投递
type EventOutbox struct {
	ID        uint64 `gorm:"primaryKey"`
	EventType string `gorm:"size:24;not null"` // report_created / room_published
	RefID     uint64 `gorm:"not null"`
	Payload   string `gorm:"type:json;not null"`
	Status    int8   `gorm:"not null;default:0;comment:'0=pending,1=sent,2=failed'"`
	Retry     int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (EventOutbox) TableName() string { return "event_outbox" }
