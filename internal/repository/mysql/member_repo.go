package mysql

import (
	"errors"
	"time"

	"Atelier_Room/internal/model"

	"gorm.io/gorm"
)

var (
	ErrRoomFull           = errors.New("room is full")
	ErrCoreSeatsFull      = errors.New("core seats are full")
	ErrSupporterSeatsFull = errors.New("supporter seats are full")
	ErrAlreadyMember      = errors.New("already a member")
)

type RoomMemberRepository struct {
	DB *gorm.DB
}

func (r *RoomMemberRepository) FindActive(roomID, userID uint64) (*model.RoomMember, error) {
	var m model.RoomMember
	err := r.DB.Where("room_id = ? AND user_id = ? AND left_at IS NULL", roomID, userID).
		First(&m).Error
	return &m, err
}

// CountActive 按角色统计在籍成员；roles 为空则统计全部
func (r *RoomMemberRepository) CountActive(roomID uint64, roles ...int) (int64, error) {
	return countActive(r.DB, roomID, roles...)
}

func countActive(tx *gorm.DB, roomID uint64, roles ...int) (int64, error) {
	var n int64
	q := tx.Model(&model.RoomMember{}).Where("room_id = ? AND left_at IS NULL", roomID)
	if len(roles) > 0 {
		q = q.Where("role IN ?", roles)
	}
	err := q.Count(&n).Error
	return n, err
}

// upsert 占位行复用：离席后重加入复用同一行（唯一键 room_id+user_id），
// 关注表的 status 翻转同款做法
func upsertMember(tx *gorm.DB, roomID, userID uint64, role int, approvedBy *uint64, now time.Time) (*model.RoomMember, error) {
	var m model.RoomMember
	err := tx.Where("room_id = ? AND user_id = ?", roomID, userID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		m = model.RoomMember{
			RoomID:     roomID,
			UserID:     userID,
			Role:       role,
			JoinedAt:   now,
			ApprovedBy: approvedBy,
		}
		if approvedBy != nil {
			m.ApprovedAt = &now
		}
		if err := tx.Create(&m).Error; err != nil {
			return nil, err
		}
		return &m, nil
	}
	if err != nil {
		return nil, err
	}

	updates := map[string]any{
		"role":      role,
		"joined_at": now,
		"left_at":   nil,
	}
	if approvedBy != nil {
		updates["approved_by"] = *approvedBy
		updates["approved_at"] = now
	}
	if err := tx.Model(&m).Updates(updates).Error; err != nil {
		return nil, err
	}
	m.Role = role
	m.JoinedAt = now
	m.LeftAt = nil
	m.ApprovedBy = approvedBy
	if approvedBy != nil {
		m.ApprovedAt = &now
	}
	return &m, nil
}

// JoinAuto 普通加入：已在籍直接返回原行；满 50 拒绝；core 未满 5 给 core，
// 否则给 supporter。容量判定和落库在同一个事务里，外层由房间锁串行化
func (r *RoomMemberRepository) JoinAuto(roomID, userID uint64, now time.Time) (*model.RoomMember, bool, error) {
	var member *model.RoomMember
	var created bool
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var existing model.RoomMember
		err := tx.Where("room_id = ? AND user_id = ? AND left_at IS NULL", roomID, userID).
			First(&existing).Error
		if err == nil {
			member = &existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		total, err := countActive(tx, roomID)
		if err != nil {
			return err
		}
		if total >= model.TotalSeatLimit {
			return ErrRoomFull
		}

		core, err := countActive(tx, roomID, model.RoleCore, model.RoleCreator)
		if err != nil {
			return err
		}
		role := model.RoleSupporter
		if core < model.CoreSeatLimit {
			role = model.RoleCore
		}

		m, err := upsertMember(tx, roomID, userID, role, nil, now)
		if err != nil {
			return err
		}
		member = m
		created = true
		return nil
	})
	return member, created, err
}

// JoinSupporter 明示的 supporter 加入，45 席上限
func (r *RoomMemberRepository) JoinSupporter(roomID, userID uint64, now time.Time) (*model.RoomMember, error) {
	var member *model.RoomMember
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var existing model.RoomMember
		err := tx.Where("room_id = ? AND user_id = ? AND left_at IS NULL", roomID, userID).
			First(&existing).Error
		if err == nil {
			return ErrAlreadyMember
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		supporters, err := countActive(tx, roomID, model.RoleSupporter)
		if err != nil {
			return err
		}
		if supporters >= model.SupporterSeatLimit {
			return ErrSupporterSeatsFull
		}

		m, err := upsertMember(tx, roomID, userID, model.RoleSupporter, nil, now)
		if err != nil {
			return err
		}
		member = m
		return nil
	})
	return member, err
}

// GrantCore 审批通过 / 邀请码兑换的 core 授予，含 creator 共 5 席
func (r *RoomMemberRepository) GrantCore(roomID, userID uint64, approvedBy *uint64, now time.Time) (*model.RoomMember, error) {
	var member *model.RoomMember
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var existing model.RoomMember
		err := tx.Where("room_id = ? AND user_id = ? AND left_at IS NULL", roomID, userID).
			First(&existing).Error
		if err == nil {
			return ErrAlreadyMember
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		core, err := countActive(tx, roomID, model.RoleCore, model.RoleCreator)
		if err != nil {
			return err
		}
		if core >= model.CoreSeatLimit {
			return ErrCoreSeatsFull
		}

		m, err := upsertMember(tx, roomID, userID, model.RoleCore, approvedBy, now)
		if err != nil {
			return err
		}
		member = m
		return nil
	})
	return member, err
}

// MarkLeft 离席只打时间戳，不删行
func (r *RoomMemberRepository) MarkLeft(id uint64, now time.Time) error {
	return r.DB.Model(&model.RoomMember{}).
		Where("id = ? AND left_at IS NULL", id).
		Update("left_at", now).Error
}

// MarkAllLeftByUser 注销账号时把所有在籍成员身份置为离席
func (r *RoomMemberRepository) MarkAllLeftByUser(userID uint64, now time.Time) error {
	return r.DB.Model(&model.RoomMember{}).
		Where("user_id = ? AND left_at IS NULL", userID).
		Update("left_at", now).Error
}

func (r *RoomMemberRepository) ListActive(roomID uint64) ([]model.RoomMember, error) {
	var list []model.RoomMember
	err := r.DB.Where("room_id = ? AND left_at IS NULL", roomID).
		Order("role DESC, joined_at ASC").Find(&list).Error
	return list, err
}
