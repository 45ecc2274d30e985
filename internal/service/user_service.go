package service

import (
	"errors"
	"fmt"
	"time"

	"Atelier_Room/internal/model"
	"Atelier_Room/internal/pkg"
	"Atelier_Room/internal/repository/mysql"
	"Atelier_Room/internal/repository/redis"

	redisv9 "github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	repo       *mysql.UserRepository
	postRepo   *mysql.PostRepository
	memberRepo *mysql.RoomMemberRepository
	rUser      *redis.UserRepository
	emailSvc   *EmailService
}

func NewUserService(db *gorm.DB, rdb *redisv9.Client, emailSvc *EmailService) *UserService {
	return &UserService{
		repo:       &mysql.UserRepository{DB: db},
		postRepo:   &mysql.PostRepository{DB: db},
		memberRepo: &mysql.RoomMemberRepository{DB: db},
		rUser:      &redis.UserRepository{RDB: rdb},
		emailSvc:   emailSvc,
	}
}

func (s *UserService) Register(username, password, email, code string) error {
	ok, err := s.emailSvc.VerifyCode("register", email, code)
	if err != nil || !ok {
		return errors.New("verification failed")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &model.User{
		Username: username,
		Password: string(hash),
		Email:    email,
	}
	return s.repo.Create(user)
}

func (s *UserService) Login(username, password string) (*pkg.Pair, error) {
	user, err := s.repo.FindByUsername(username)
	if err != nil {
		return nil, errors.New("user not found")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, errors.New("invalid password")
	}

	token, err := pkg.GeneratePair(user.ID)
	if err != nil {
		return nil, err
	}
	// 单点登录：最新的 access token 写入 redis
	if err = s.rUser.AddUserToken(user.ID, token.AccessToken); err != nil {
		return nil, err
	}
	return token, nil
}

func (s *UserService) Logout(usrID uint64) error {
	return s.rUser.DeleteUserToken(usrID)
}

func (s *UserService) ResetPassword(email, code, newPassword string) error {
	ok, err := s.emailSvc.VerifyCode("reset", email, code)
	if err != nil || !ok {
		return errors.New("verification failed")
	}

	user, err := s.repo.FindByEmail(email)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(user, string(hash))
}

func (s *UserService) Refresh(refreshToken string) (*pkg.Pair, error) {
	return pkg.Refresh(refreshToken)
}

// ChangePassword 登录态修改密码
func (s *UserService) ChangePassword(usrID uint64, oldPassword, newPassword string) error {
	user, err := s.repo.FindByID(usrID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)) != nil {
		return errors.New("old password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(user, string(hash))
}

// ChangeUsername 改名后批量改写历史帖子的用户名快照（没有联表读取路径）
func (s *UserService) ChangeUsername(usrID uint64, newUsername string) error {
	if newUsername == "" || len(newUsername) > 32 {
		return errors.New("invalid username")
	}
	if err := s.repo.UpdateUsername(usrID, newUsername); err != nil {
		return err
	}
	return s.postRepo.RewriteDisplayName(usrID, newUsername)
}

// DeleteAccount 注销：先匿名化再移除身份。
// 还持有 open 房间的 creator 不能注销（creator 不可离席的另一面）
func (s *UserService) DeleteAccount(usrID uint64) error {
	n, err := s.repo.CountOpenRoomsOwned(usrID)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrOwnsOpenRoom
	}

	anon := fmt.Sprintf("已注销用户%d", usrID)
	if err := s.postRepo.RewriteDisplayName(usrID, anon); err != nil {
		return err
	}
	if err := s.memberRepo.MarkAllLeftByUser(usrID, time.Now()); err != nil {
		return err
	}
	if err := s.rUser.DeleteUserToken(usrID); err != nil {
		return err
	}
	return s.repo.Delete(usrID)
}
