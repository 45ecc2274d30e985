package service

import (
	"fmt"
	"testing"

	"Atelier_Room/internal/model"

	"github.com/alicebob/miniredis/v2"
	redisv9 "github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// 内存 sqlite，单连接避免 :memory: 各连接各一库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&model.User{},
		&model.Room{},
		&model.RoomMember{},
		&model.RoomLike{},
		&model.JoinRequest{},
		&model.Post{},
		&model.Report{},
		&model.EventOutbox{},
	); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return db
}

func newTestRedis(t *testing.T) *redisv9.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redisv9.NewClient(&redisv9.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func seedUser(t *testing.T, db *gorm.DB, name string) *model.User {
	t.Helper()
	u := &model.User{
		Username: name,
		Password: "x",
		Email:    fmt.Sprintf("%s@example.com", name),
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user %s: %v", name, err)
	}
	return u
}

func seedRoom(t *testing.T, db *gorm.DB, ownerID uint64, in CreateRoomInput) *model.Room {
	t.Helper()
	if in.Title == "" {
		in.Title = "测试创作屋"
	}
	if in.Category == "" {
		in.Category = "illustration"
	}
	if in.HourLimit == 0 {
		in.HourLimit = 24
	}
	room, err := NewRoomService(db).CreateRoom(ownerID, in)
	if err != nil {
		t.Fatalf("seed room: %v", err)
	}
	return room
}
