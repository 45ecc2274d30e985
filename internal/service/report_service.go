package service

import (
	"errors"

	"Atelier_Room/internal/model"
	"Atelier_Room/internal/repository/mysql"

	"gorm.io/gorm"
)

const MaxReportReasonLen = 500

// ReportService 举报只追加，审核在外部系统做；落库同时进 outbox 等待外发
type ReportService struct {
	repo     *mysql.ReportRepository
	roomRepo *mysql.RoomRepository
	postRepo *mysql.PostRepository
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{
		repo:     &mysql.ReportRepository{DB: db},
		roomRepo: &mysql.RoomRepository{DB: db},
		postRepo: &mysql.PostRepository{DB: db},
	}
}

func (s *ReportService) Report(reporterID uint64, targetType string, targetID uint64, reason string) (*model.Report, error) {
	if reason == "" {
		return nil, errors.New("reason required")
	}
	if len(reason) > MaxReportReasonLen {
		return nil, errors.New("reason too long")
	}

	switch targetType {
	case model.ReportTargetRoom:
		if _, err := s.roomRepo.FindByID(targetID); errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		} else if err != nil {
			return nil, err
		}
	case model.ReportTargetPost:
		if _, err := s.postRepo.FindByID(targetID); errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		} else if err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("invalid target type")
	}

	report := &model.Report{
		ReporterID: reporterID,
		TargetType: targetType,
		TargetID:   targetID,
		Reason:     reason,
	}
	if err := s.repo.Create(report); err != nil {
		return nil, err
	}
	return report, nil
}
