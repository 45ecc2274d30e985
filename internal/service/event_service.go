package service

import (
	"context"
	"log"
	"time"

	"Atelier_Room/internal/model"
	"Atelier_Room/internal/pkg"
	"Atelier_Room/internal/repository/mysql"

	"gorm.io/gorm"
)

type Sender func(ctx context.Context, ob *model.EventOutbox) error

// OutboxRelayer 定时批量捞 pending 事件投递出去；失败记 retry，成功落 sent
type OutboxRelayer struct {
	repo      *mysql.OutboxRepository
	batchSize int
	interval  time.Duration
	sender    Sender
}

func NewOutboxRelayer(db *gorm.DB, sender Sender) *OutboxRelayer {
	return &OutboxRelayer{
		repo:      &mysql.OutboxRepository{DB: db},
		batchSize: 200,
		interval:  time.Second,
		sender:    sender,
	}
}

func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

func (r *OutboxRelayer) drainOnce(ctx context.Context) {
	rows, err := r.repo.ListPending(ctx, r.batchSize)
	if err != nil {
		log.Printf("outbox query err: %v", err)
		return
	}
	for i := range rows {
		ob := rows[i]
		if err := r.sender(ctx, &ob); err != nil {
			_ = r.repo.MarkFailed(ctx, ob.ID)
			continue
		}
		_ = r.repo.MarkSent(ctx, ob.ID)
	}
}

// KafkaSender 以 ref_id 作分区键投递 outbox 事件
func KafkaSender(producer *pkg.KafkaProducer) Sender {
	return func(ctx context.Context, ob *model.EventOutbox) error {
		return producer.Send(ctx, pkg.MakeKeyFromID(ob.RefID), []byte(ob.Payload))
	}
}

// LogSender 本地跑没有 kafka 时的占位投递
func LogSender(ctx context.Context, ob *model.EventOutbox) error {
	log.Printf("OUTBOX SEND type=%s ref=%d payload=%s", ob.EventType, ob.RefID, ob.Payload)
	return nil
}
