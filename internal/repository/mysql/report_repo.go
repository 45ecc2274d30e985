package mysql

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"Atelier_Room/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrDuplicateReport = errors.New("already reported")

type ReportRepository struct {
	DB *gorm.DB
}

// Create 同一 (reporter, target) 的重复举报靠唯一键拒绝；
// 成功时在同一事务里落一条 outbox 事件，等待 relayer 外发
func (r *ReportRepository) Create(report *model.Report) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "reporter_id"}, {Name: "target_type"}, {Name: "target_id"},
			},
			DoNothing: true,
		}).Create(report)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrDuplicateReport
		}

		payload, _ := json.Marshal(map[string]any{
			"event_time":  time.Now().UTC().Format(time.RFC3339Nano),
			"report_id":   report.ID,
			"reporter":    report.ReporterID,
			"target_type": report.TargetType,
			"target_id":   report.TargetID,
		})
		ob := &model.EventOutbox{
			EventType: "report_created",
			RefID:     report.ID,
			Payload:   string(payload),
		}
		return tx.Create(ob).Error
	})
}

type OutboxRepository struct {
	DB *gorm.DB
}

func (r *OutboxRepository) ListPending(ctx context.Context, batchSize int) ([]model.EventOutbox, error) {
	var list []model.EventOutbox
	if err := r.DB.WithContext(ctx).
		Where("status = 0").
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// MarkFailed 投递失败记一次重试
func (r *OutboxRepository) MarkFailed(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.EventOutbox{}).Where("id = ?", id).
		Updates(map[string]any{"status": 2, "retry": gorm.Expr("retry + 1")}).Error
}

func (r *OutboxRepository) MarkSent(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.EventOutbox{}).Where("id = ?", id).
		Update("status", 1).Error
}
