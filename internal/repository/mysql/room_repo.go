package mysql

import (
	"encoding/json"
	"time"

	"Atelier_Room/internal/model"

	"gorm.io/gorm"
)

type RoomRepository struct {
	DB *gorm.DB
}

// Create 创建房间并在同一事务内写入 creator 成员
func (r *RoomRepository) Create(room *model.Room, now time.Time) (*model.Room, error) {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(room).Error; err != nil {
			return err
		}

		member := &model.RoomMember{
			RoomID:   room.ID,
			UserID:   room.OwnerID,
			Role:     model.RoleCreator,
			JoinedAt: now,
		}
		return tx.Create(member).Error
	})
	return room, err
}

func (r *RoomRepository) FindByID(id uint64) (*model.Room, error) {
	var room model.Room
	err := r.DB.First(&room, id).Error
	return &room, err
}

// List 列表只出未隐藏的房间
func (r *RoomRepository) List(offset, limit int) ([]model.Room, error) {
	var list []model.Room
	err := r.DB.Where("is_hidden = ?", false).
		Order("id desc").Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}

// UpdateStatus 只允许从 open 前进；返回受影响行数用于判断状态竞争
func (r *RoomRepository) UpdateStatus(id uint64, status string) (int64, error) {
	tx := r.DB.Model(&model.Room{}).
		Where("id = ? AND status = ?", id, model.RoomStatusOpen).
		Update("status", status)
	return tx.RowsAffected, tx.Error
}

// DeleteCascade 一个事务内级联删除帖子、成员、点赞、审批与房间本体；
// 原设计是无保护的逐条删除，中途失败会留下半删状态，这里收进事务
func (r *RoomRepository) DeleteCascade(roomID uint64) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_id = ?", roomID).Delete(&model.Post{}).Error; err != nil {
			return err
		}
		if err := tx.Where("room_id = ?", roomID).Delete(&model.RoomMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("room_id = ?", roomID).Delete(&model.RoomLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("room_id = ?", roomID).Delete(&model.JoinRequest{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Room{}, roomID).Error
	})
}

// SweepExpired 把过期仍 open 的房间批量置为 forced_publish，并为每间写一条
// room_published 事件；全部在一个事务内，重复调用命中 0 行即幂等
func (r *RoomRepository) SweepExpired(now time.Time) (int64, error) {
	var swept int64
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var ids []uint64
		if err := tx.Model(&model.Room{}).
			Where("status = ? AND expires_at <= ?", model.RoomStatusOpen, now).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		res := tx.Model(&model.Room{}).
			Where("id IN ? AND status = ?", ids, model.RoomStatusOpen).
			Update("status", model.RoomStatusForcedPublish)
		if res.Error != nil {
			return res.Error
		}
		swept = res.RowsAffected

		for _, id := range ids {
			payload, _ := json.Marshal(map[string]any{
				"event_time": now.UTC().Format(time.RFC3339Nano),
				"room_id":    id,
			})
			ob := &model.EventOutbox{
				EventType: "room_published",
				RefID:     id,
				Payload:   string(payload),
			}
			if err := tx.Create(ob).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return swept, err
}
