package mysql

import (
	"Atelier_Room/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("username = ? OR email = ?", username, username).First(&user).Error
	return &user, err
}

func (r *UserRepository) FindByID(id uint64) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var usr model.User
	err := r.DB.Where("email = ?", email).First(&usr).Error
	return &usr, err
}

func (r *UserRepository) UpdatePassword(user *model.User, newPassword string) error {
	return r.DB.Model(user).Update("password", newPassword).Error
}

func (r *UserRepository) UpdateUsername(id uint64, username string) error {
	return r.DB.Model(&model.User{}).Where("id = ?", id).Update("username", username).Error
}

// CountOpenRoomsOwned 注销前检查：还持有 open 房间的 creator 不能注销
func (r *UserRepository) CountOpenRoomsOwned(id uint64) (int64, error) {
	var n int64
	err := r.DB.Model(&model.Room{}).
		Where("owner_id = ? AND status = ?", id, model.RoomStatusOpen).
		Count(&n).Error
	return n, err
}

func (r *UserRepository) Delete(id uint64) error {
	return r.DB.Delete(&model.User{}, id).Error
}
