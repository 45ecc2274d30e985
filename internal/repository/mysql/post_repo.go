package mysql

import (
	"time"

	"Atelier_Room/internal/model"

	"gorm.io/gorm"
)

type PostRepository struct {
	DB *gorm.DB
}

func (r *PostRepository) Create(post *model.Post) error {
	return r.DB.Create(post).Error
}

// FindByID 不过滤隐藏，权限判断交给上层
func (r *PostRepository) FindByID(id uint64) (*model.Post, error) {
	var post model.Post
	err := r.DB.First(&post, id).Error
	return &post, err
}

func (r *PostRepository) FindVisibleByID(id uint64) (*model.Post, error) {
	var post model.Post
	err := r.DB.First(&post, "id = ? AND status = ?", id, model.PostStatusNormal).Error
	return &post, err
}

// ListByRoom 基础分页，隐藏帖不出现在看板
func (r *PostRepository) ListByRoom(roomID uint64, offset, limit int) ([]model.Post, error) {
	var list []model.Post
	err := r.DB.
		Where("room_id = ? AND status = ?", roomID, model.PostStatusNormal).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, err
}

// ListByRoomCursor 时间游标分页：(created_at, id) 严格游标，深翻页用
func (r *PostRepository) ListByRoomCursor(roomID uint64, lastID uint64, lastCreatedAt time.Time, limit int) ([]model.Post, error) {
	var list []model.Post
	q := r.DB.Where("room_id = ? AND status = ?", roomID, model.PostStatusNormal)
	if !lastCreatedAt.IsZero() {
		q = q.Where("(created_at < ? OR (created_at = ? AND id < ?))", lastCreatedAt, lastCreatedAt, lastID)
	}
	err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&list).Error
	return list, err
}

// HardDeleteByAuthor 作者本人的物理删除；命中行数用于区分无权限
func (r *PostRepository) HardDeleteByAuthor(postID, authorID uint64) (int64, error) {
	res := r.DB.Where("id = ? AND author_id = ?", postID, authorID).Delete(&model.Post{})
	return res.RowsAffected, res.Error
}

// SetStatus 隐藏/恢复的运营标记
func (r *PostRepository) SetStatus(postID uint64, status int) error {
	return r.DB.Model(&model.Post{}).Where("id = ?", postID).Update("status", status).Error
}

func (r *PostRepository) SetAttachment(postID uint64, path string) error {
	return r.DB.Model(&model.Post{}).Where("id = ?", postID).Update("attachment_path", path).Error
}

// RewriteDisplayName 用户名变更/注销时对历史快照的批量改写
func (r *PostRepository) RewriteDisplayName(authorID uint64, name string) error {
	return r.DB.Model(&model.Post{}).
		Where("author_id = ?", authorID).
		UpdateColumn("display_name", name).Error
}
