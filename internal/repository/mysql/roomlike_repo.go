package mysql

import (
	"context"
	"errors"

	"Atelier_Room/internal/model"

	"gorm.io/gorm"
)

type RoomLikeRepository struct {
	DB *gorm.DB
}

// Like 幂等点赞：新增时同步加房间聚合计数，重复请求 changed=false
func (r *RoomLikeRepository) Like(ctx context.Context, userID, roomID uint64) (bool, error) {
	var changed bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rl model.RoomLike
		err := tx.Where("user_id = ? AND room_id = ?", userID, roomID).First(&rl).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		rl = model.RoomLike{UserID: userID, RoomID: roomID}
		if err := tx.Create(&rl).Error; err != nil {
			return err
		}
		changed = true
		return tx.Model(&model.Room{}).Where("id = ?", roomID).
			UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error
	})
	return changed, err
}

func (r *RoomLikeRepository) Unlike(ctx context.Context, userID, roomID uint64) (bool, error) {
	var changed bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND room_id = ?", userID, roomID).Delete(&model.RoomLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		changed = true
		// 聚合计数防负
		return tx.Model(&model.Room{}).Where("id = ?", roomID).
			UpdateColumn("like_count", gorm.Expr("CASE WHEN like_count > 0 THEN like_count - 1 ELSE 0 END")).Error
	})
	return changed, err
}

func (r *RoomLikeRepository) IsLiked(ctx context.Context, userID, roomID uint64) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.RoomLike{}).
		Where("user_id = ? AND room_id = ?", userID, roomID).Count(&n).Error
	return n > 0, err
}

func (r *RoomLikeRepository) GetLikeCount(ctx context.Context, roomID uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.RoomLike{}).
		Where("room_id = ?", roomID).Count(&n).Error
	return n, err
}
