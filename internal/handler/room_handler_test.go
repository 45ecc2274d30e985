package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"Atelier_Room/internal/model"
	"Atelier_Room/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSweepRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&model.Room{}, &model.RoomMember{}, &model.EventOutbox{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	h := NewRoomHandler(service.NewRoomService(db), "test-sweep-key")
	r := gin.New()
	r.GET("/api/internal/sweep", h.Sweep)
	return r, db
}

func TestSweepEndpointRequiresKey(t *testing.T) {
	r, _ := newSweepRouter(t)

	for _, url := range []string{"/api/internal/sweep", "/api/internal/sweep?key=wrong"} {
		req := httptest.NewRequest(http.MethodGet, url, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s status = %d, want 401", url, w.Code)
		}
	}
}

func TestSweepEndpointMarksExpiredRooms(t *testing.T) {
	r, db := newSweepRouter(t)

	rooms := []model.Room{
		{Title: "过期", Category: "c", HourLimit: 1, ExpiresAt: time.Now().Add(-time.Hour), Status: model.RoomStatusOpen, OwnerID: 1},
		{Title: "未到期", Category: "c", HourLimit: 24, ExpiresAt: time.Now().Add(time.Hour), Status: model.RoomStatusOpen, OwnerID: 1},
	}
	for i := range rooms {
		if err := db.Create(&rooms[i]).Error; err != nil {
			t.Fatalf("seed room: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/internal/sweep?key=test-sweep-key", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		OK    bool  `json:"ok"`
		Swept int64 `json:"swept"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.OK || resp.Swept != 1 {
		t.Fatalf("resp = %+v, want ok with swept=1", resp)
	}

	var swept model.Room
	if err := db.First(&swept, rooms[0].ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if swept.Status != model.RoomStatusForcedPublish {
		t.Fatalf("status = %s, want forced_publish", swept.Status)
	}
}
