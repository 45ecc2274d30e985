package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"Atelier_Room/internal/model"
	"Atelier_Room/internal/repository/mysql"
)

func TestJoinAssignsCoreThenSupporter(t *testing.T) {
	db := newTestDB(t)
	rdb := newTestRedis(t)
	svc := NewMemberService(db, rdb)

	owner := seedUser(t, db, "owner")
	room := seedRoom(t, db, owner.ID, CreateRoomInput{})
	ctx := context.Background()

	// creator 已占 1 席，还剩 4 个 core 席
	for i := 0; i < model.CoreSeatLimit-1; i++ {
		u := seedUser(t, db, fmt.Sprintf("core%d", i))
		m, created, err := svc.Join(ctx, u.ID, room.ID)
		if err != nil {
			t.Fatalf("join %d: %v", i, err)
		}
		if !created || m.Role != model.RoleCore {
			t.Fatalf("join %d: created=%v role=%d, want core", i, created, m.Role)
		}
	}

	u := seedUser(t, db, "sixth")
	m, _, err := svc.Join(ctx, u.ID, room.ID)
	if err != nil {
		t.Fatalf("sixth join: %v", err)
	}
	if m.Role != model.RoleSupporter {
		t.Fatalf("sixth member role = %d, want supporter", m.Role)
	}
}

func TestJoinAlreadyMemberReturnsExisting(t *testing.T) {
	db := newTestDB(t)
	rdb := newTestRedis(t)
	svc := NewMemberService(db, rdb)

	owner := seedUser(t, db, "owner")
	room := seedRoom(t, db, owner.ID, CreateRoomInput{})
	u := seedUser(t, db, "alice")
	ctx := context.Background()

	first, created, err := svc.Join(ctx, u.ID, room.ID)
	if err != nil || !created {
		t.Fatalf("first join: created=%v err=%v", created, err)
	}
	second, created, err := svc.Join(ctx, u.ID, room.ID)
	if err != nil {
		t.Fatalf("second join: %v", err)
	}
	if created {
		t.Fatal("second join should not create")
	}
	if second.ID != first.ID {
		t.Fatalf("second join returned row %d, want %d", second.ID, first.ID)
	}
}

func TestSupporterSeatCap(t *testing.T) {
	db := newTestDB(t)
	rdb := newTestRedis(t)
	svc := NewMemberService(db, rdb)

	owner := seedUser(t, db, "owner")
	room := seedRoom(t, db, owner.ID, CreateRoomInput{})
	ctx := context.Background()

	for i := 0; i < model.SupporterSeatLimit; i++ {
		u := seedUser(t, db, fmt.Sprintf("sup%d", i))
		if _, err := svc.JoinSupporter(ctx, u.ID, room.ID); err != nil {
			t.Fatalf("supporter join %d: %v", i, err)
		}
	}

	u := seedUser(t, db, "overflow")
	if _, err := svc.JoinSupporter(ctx, u.ID, room.ID); !errors.Is(err, mysql.ErrSupporterSeatsFull) {
		t.Fatalf("46th supporter err = %v, want ErrSupporterSeatsFull", err)
	}
}

func TestTotalSeatCap(t *testing.T) {
	db := newTestDB(t)
	rdb := newTestRedis(t)
	svc := NewMemberService(db, rdb)

	owner := seedUser(t, db, "owner")
	room := seedRoom(t, db, owner.ID, CreateRoomInput{})
	ctx := context.Background()

	// creator + 49 = 满员 50
	for i := 0; i < model.TotalSeatLimit-1; i++ {
		u := seedUser(t, db, fmt.Sprintf("m%d", i))
		if _, _, err := svc.Join(ctx, u.ID, room.ID); err != nil {
			t.Fatalf("join %d: %v", i, err)
		}
	}

	u := seedUser(t, db, "overflow")
	if _, _, err := svc.Join(ctx, u.ID, room.ID); !errors.Is(err, mysql.ErrRoomFull) {
		t.Fatalf("51st join err = %v, want ErrRoomFull", err)
	}
}

func TestJoinRequiresOpenRoom(t *testing.T) {
	db := newTestDB(t)
	rdb := newTestRedis(t)
	svc := NewMemberService(db, rdb)

	owner := seedUser(t, db, "owner")
	room := seedRoom(t, db, owner.ID, CreateRoomInput{})
	if err := NewRoomService(db).CloseRoom(owner.ID, room.ID); err != nil {
		t.Fatalf("close: %v", err)
	}

	u := seedUser(t, db, "late")
	if _, _, err := svc.Join(context.Background(), u.ID, room.ID); !errors.Is(err, ErrRoomNotOpen) {
		t.Fatalf("join closed room err = %v, want ErrRoomNotOpen", err)
	}
}

func TestLeaveRules(t *testing.T) {
	db := newTestDB(t)
	rdb := newTestRedis(t)
	svc := NewMemberService(db, rdb)

	owner := seedUser(t, db, "owner")
	room := seedRoom(t, db, owner.ID, CreateRoomInput{})
	ctx := context.Background()

	if err := svc.Leave(ctx, owner.ID, room.ID); !errors.Is(err, ErrCreatorCannotLeave) {
		t.Fatalf("creator leave err = %v, want ErrCreatorCannotLeave", err)
	}

	core := seedUser(t, db, "core")
	if _, _, err := svc.Join(ctx, core.ID, room.ID); err != nil {
		t.Fatalf("core join: %v", err)
	}
	// 窗口内可走
	if err := svc.Leave(ctx, core.ID, room.ID); err != nil {
		t.Fatalf("core leave within window: %v", err)
	}

	core2 := seedUser(t, db, "core2")
	if _, _, err := svc.Join(ctx, core2.ID, room.ID); err != nil {
		t.Fatalf("core2 join: %v", err)
	}
	stale := time.Now().Add(-CoreLeaveWindow - time.Minute)
	if err := db.Model(&model.RoomMember{}).
		Where("room_id = ? AND user_id = ?", room.ID, core2.ID).
		Update("joined_at", stale).Error; err != nil {
		t.Fatalf("age membership: %v", err)
	}
	if err := svc.Leave(ctx, core2.ID, room.ID); !errors.Is(err, ErrLeaveWindowClosed) {
		t.Fatalf("core leave after window err = %v, want ErrLeaveWindowClosed", err)
	}

	sup := seedUser(t, db, "sup")
	if _, err := svc.JoinSupporter(ctx, sup.ID, room.ID); err != nil {
		t.Fatalf("supporter join: %v", err)
	}
	if err := db.Model(&model.RoomMember{}).
		Where("room_id = ? AND user_id = ?", room.ID, sup.ID).
		Update("joined_at", stale).Error; err != nil {
		t.Fatalf("age membership: %v", err)
	}
	// supporter 不受窗口限制
	if err := svc.Leave(ctx, sup.ID, room.ID); err != nil {
		t.Fatalf("supporter leave: %v", err)
	}

	if err := svc.Leave(ctx, sup.ID, room.ID); !errors.Is(err, ErrNotMember) {
		t.Fatalf("double leave err = %v, want ErrNotMember", err)
	}
}

func TestRejoinReusesRow(t *testing.T) {
	db := newTestDB(t)
	rdb := newTestRedis(t)
	svc := NewMemberService(db, rdb)

	owner := seedUser(t, db, "owner")
	room := seedRoom(t, db, owner.ID, CreateRoomInput{})
	u := seedUser(t, db, "alice")
	ctx := context.Background()

	if _, err := svc.JoinSupporter(ctx, u.ID, room.ID); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := svc.Leave(ctx, u.ID, room.ID); err != nil {
		t.Fatalf("leave: %v", err)
	}
	m, _, err := svc.Join(ctx, u.ID, room.ID)
	if err != nil {
		t.Fatalf("rejoin: %v", err)
	}
	if m.LeftAt != nil {
		t.Fatal("rejoined member should be active")
	}

	var rows int64
	if err := db.Model(&model.RoomMember{}).
		Where("room_id = ? AND user_id = ?", room.ID, u.ID).
		Count(&rows).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if rows != 1 {
		t.Fatalf("member rows = %d, want 1 (行复用)", rows)
	}
}

func TestRedeemInvite(t *testing.T) {
	db := newTestDB(t)
	rdb := newTestRedis(t)
	svc := NewMemberService(db, rdb)

	owner := seedUser(t, db, "owner")
	room := seedRoom(t, db, owner.ID, CreateRoomInput{InviteEnabled: true})
	ctx := context.Background()

	u := seedUser(t, db, "guest")
	if _, err := svc.RedeemInvite(ctx, u.ID, room.ID, "wrongcode"); !errors.Is(err, ErrInviteCodeMismatch) {
		t.Fatalf("wrong code err = %v, want ErrInviteCodeMismatch", err)
	}

	m, err := svc.RedeemInvite(ctx, u.ID, room.ID, room.InviteCode)
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if m.Role != model.RoleCore {
		t.Fatalf("redeemed role = %d, want core", m.Role)
	}

	// core 席满后邀请码也不放行
	for i := 0; i < model.CoreSeatLimit-2; i++ {
		x := seedUser(t, db, fmt.Sprintf("c%d", i))
		if _, err := svc.RedeemInvite(ctx, x.ID, room.ID, room.InviteCode); err != nil {
			t.Fatalf("fill core %d: %v", i, err)
		}
	}
	last := seedUser(t, db, "toolate")
	if _, err := svc.RedeemInvite(ctx, last.ID, room.ID, room.InviteCode); !errors.Is(err, mysql.ErrCoreSeatsFull) {
		t.Fatalf("core full redeem err = %v, want ErrCoreSeatsFull", err)
	}

	noInvite := seedRoom(t, db, owner.ID, CreateRoomInput{Title: "无邀请"})
	if _, err := svc.RedeemInvite(ctx, last.ID, noInvite.ID, "anything"); !errors.Is(err, ErrInviteDisabled) {
		t.Fatalf("invite disabled err = %v, want ErrInviteDisabled", err)
	}
}

func TestListMembersExcludesLeft(t *testing.T) {
	db := newTestDB(t)
	rdb := newTestRedis(t)
	svc := NewMemberService(db, rdb)

	owner := seedUser(t, db, "owner")
	room := seedRoom(t, db, owner.ID, CreateRoomInput{})
	u := seedUser(t, db, "alice")
	ctx := context.Background()

	if _, err := svc.JoinSupporter(ctx, u.ID, room.ID); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := svc.Leave(ctx, u.ID, room.ID); err != nil {
		t.Fatalf("leave: %v", err)
	}

	list, err := svc.ListMembers(room.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].UserID != owner.ID {
		t.Fatalf("active members = %d, want creator only", len(list))
	}

	if _, err := svc.ListMembers(99999); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("missing room err = %v, want ErrRoomNotFound", err)
	}
}
