package service

import (
	"context"
	"errors"
	"testing"

	"Atelier_Room/internal/model"
	"Atelier_Room/internal/repository/mysql"
)

func TestReportCreatesOutboxEvent(t *testing.T) {
	db := newTestDB(t)
	svc := NewReportService(db)

	owner := seedUser(t, db, "owner")
	reporter := seedUser(t, db, "reporter")
	room := seedRoom(t, db, owner.ID, CreateRoomInput{})

	if _, err := svc.Report(reporter.ID, model.ReportTargetRoom, room.ID, "违规内容"); err != nil {
		t.Fatalf("report: %v", err)
	}
	// 同人同目标只收一次
	if _, err := svc.Report(reporter.ID, model.ReportTargetRoom, room.ID, "again"); !errors.Is(err, mysql.ErrDuplicateReport) {
		t.Fatalf("duplicate report err = %v, want ErrDuplicateReport", err)
	}

	if _, err := svc.Report(reporter.ID, model.ReportTargetPost, 99999, "x"); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("report missing post err = %v, want ErrPostNotFound", err)
	}

	var ob model.EventOutbox
	if err := db.Where("event_type = ?", "report_created").First(&ob).Error; err != nil {
		t.Fatalf("outbox row: %v", err)
	}
	if ob.Status != 0 {
		t.Fatalf("outbox status = %d, want pending", ob.Status)
	}
}

func TestOutboxRelayerDrain(t *testing.T) {
	db := newTestDB(t)
	svc := NewReportService(db)

	owner := seedUser(t, db, "owner")
	reporter := seedUser(t, db, "reporter")
	room := seedRoom(t, db, owner.ID, CreateRoomInput{})
	if _, err := svc.Report(reporter.ID, model.ReportTargetRoom, room.ID, "违规内容"); err != nil {
		t.Fatalf("report: %v", err)
	}

	var delivered []string
	relayer := NewOutboxRelayer(db, func(ctx context.Context, ob *model.EventOutbox) error {
		delivered = append(delivered, ob.EventType)
		return nil
	})
	relayer.drainOnce(context.Background())

	if len(delivered) != 1 || delivered[0] != "report_created" {
		t.Fatalf("delivered = %v, want [report_created]", delivered)
	}

	var pending int64
	db.Model(&model.EventOutbox{}).Where("status = ?", 0).Count(&pending)
	if pending != 0 {
		t.Fatalf("pending after drain = %d", pending)
	}

	// 投递完不再重复
	delivered = delivered[:0]
	relayer.drainOnce(context.Background())
	if len(delivered) != 0 {
		t.Fatalf("redelivered = %v", delivered)
	}
}

func TestOutboxRelayerMarksFailed(t *testing.T) {
	db := newTestDB(t)
	svc := NewReportService(db)

	owner := seedUser(t, db, "owner")
	reporter := seedUser(t, db, "reporter")
	room := seedRoom(t, db, owner.ID, CreateRoomInput{})
	if _, err := svc.Report(reporter.ID, model.ReportTargetRoom, room.ID, "违规内容"); err != nil {
		t.Fatalf("report: %v", err)
	}

	relayer := NewOutboxRelayer(db, func(ctx context.Context, ob *model.EventOutbox) error {
		return errors.New("broker down")
	})
	relayer.drainOnce(context.Background())

	var ob model.EventOutbox
	if err := db.First(&ob).Error; err != nil {
		t.Fatalf("outbox row: %v", err)
	}
	if ob.Status != 2 || ob.Retry != 1 {
		t.Fatalf("status=%d retry=%d, want failed with retry 1", ob.Status, ob.Retry)
	}
}
