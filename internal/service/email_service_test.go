package service

import (
	"testing"

	"Atelier_Room/internal/pkg"
	rds "Atelier_Room/internal/repository/redis"
)

func TestVerifyCodeTwoPhase(t *testing.T) {
	rdb := newTestRedis(t)
	svc := NewEmailService(pkg.SMTPConfig{}, rdb)
	repo := &rds.EmailRepository{RDB: rdb}

	// pending 阶段的码还不可用
	if err := repo.SetCodePending("register", "a@b.com", "111111"); err != nil {
		t.Fatalf("set pending: %v", err)
	}
	if ok, err := svc.VerifyCode("register", "a@b.com", "111111"); err == nil && ok {
		t.Fatal("pending code should not verify")
	}

	if err := repo.ConfirmCode("register", "a@b.com"); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	ok, err := svc.VerifyCode("register", "a@b.com", "222222")
	if err != nil {
		t.Fatalf("wrong code verify: %v", err)
	}
	if ok {
		t.Fatal("wrong code should not verify")
	}

	ok, err = svc.VerifyCode("register", "a@b.com", "111111")
	if err != nil || !ok {
		t.Fatalf("verify ok=%v err=%v, want true", ok, err)
	}

	// 一次性：用过即删
	if ok, _ := svc.VerifyCode("register", "a@b.com", "111111"); ok {
		t.Fatal("code should be single-use")
	}

	// scope 相互隔离
	if err := repo.SetCodePending("reset", "a@b.com", "333333"); err != nil {
		t.Fatalf("set pending: %v", err)
	}
	if err := repo.ConfirmCode("reset", "a@b.com"); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if ok, _ := svc.VerifyCode("register", "a@b.com", "333333"); ok {
		t.Fatal("reset code should not verify under register scope")
	}
}
