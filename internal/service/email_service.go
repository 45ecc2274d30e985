package service

import (
	"errors"

	"Atelier_Room/internal/pkg"
	"Atelier_Room/internal/repository/redis"

	redisv9 "github.com/redis/go-redis/v9"
)

var emailSubjects = map[string]string{
	"register": "注册验证",
	"reset":    "重置密码",
}

type EmailService struct {
	emailCfg pkg.SMTPConfig
	rds      *redis.EmailRepository
}

func NewEmailService(cfg pkg.SMTPConfig, rdb *redisv9.Client) *EmailService {
	return &EmailService{emailCfg: cfg, rds: &redis.EmailRepository{RDB: rdb}}
}

// SendCode 两阶段：先写 pending 键，邮件发出成功再转 confirmed；
// 确认失败清掉 pending，不给半程状态留口子
func (s *EmailService) SendCode(scope, email string) error {
	subject, ok := emailSubjects[scope]
	if !ok {
		return errors.New("invalid scope")
	}

	code, err := pkg.RandDigits(6)
	if err != nil {
		return err
	}
	if err = s.rds.SetCodePending(scope, email, code); err != nil {
		return err
	}

	html := pkg.EmailCodeHTML(subject, code, redis.DefaultEmailCodeTTL)
	if err = pkg.SendEmail(s.emailCfg, email, subject+"验证码", html); err != nil {
		return err
	}

	if err = s.rds.ConfirmCode(scope, email); err != nil {
		_ = s.rds.DeleteCodePending(scope, email)
		return err
	}
	return nil
}

// VerifyCode 校验成功即一次性删除
func (s *EmailService) VerifyCode(scope, email, code string) (bool, error) {
	val, err := s.rds.GetCode(scope, email)
	if err != nil {
		return false, err
	}
	if val != code {
		return false, nil
	}
	if err = s.rds.DeleteCode(scope, email); err != nil {
		return false, err
	}
	return true, nil
}
