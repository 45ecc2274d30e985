package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"Atelier_Room/internal/model"
	"Atelier_Room/internal/repository/mysql"
)

func TestRequestCorePreconditions(t *testing.T) {
	db := newTestDB(t)
	rdb := newTestRedis(t)
	svc := NewJoinRequestService(db, rdb)

	owner := seedUser(t, db, "owner")
	noApproval := seedRoom(t, db, owner.ID, CreateRoomInput{Title: "不审批"})
	u := seedUser(t, db, "alice")

	if _, err := svc.RequestCore(u.ID, noApproval.ID); !errors.Is(err, ErrApprovalDisabled) {
		t.Fatalf("no-approval room err = %v, want ErrApprovalDisabled", err)
	}
	if _, err := svc.RequestCore(u.ID, 99999); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("missing room err = %v, want ErrRoomNotFound", err)
	}

	room := seedRoom(t, db, owner.ID, CreateRoomInput{ApprovalEnabled: true})
	if _, err := svc.RequestCore(owner.ID, room.ID); !errors.Is(err, mysql.ErrAlreadyMember) {
		t.Fatalf("member request err = %v, want ErrAlreadyMember", err)
	}

	req, err := svc.RequestCore(u.ID, room.ID)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if req.Status != model.JoinRequestPending {
		t.Fatalf("status = %s, want pending", req.Status)
	}

	// 同一房间同一用户只留一个 pending
	if _, err := svc.RequestCore(u.ID, room.ID); !errors.Is(err, mysql.ErrRequestPendingExists) {
		t.Fatalf("duplicate request err = %v, want ErrRequestPendingExists", err)
	}
}

func TestApproveGrantsCoreAndIsTerminal(t *testing.T) {
	db := newTestDB(t)
	rdb := newTestRedis(t)
	svc := NewJoinRequestService(db, rdb)
	ctx := context.Background()

	owner := seedUser(t, db, "owner")
	stranger := seedUser(t, db, "stranger")
	room := seedRoom(t, db, owner.ID, CreateRoomInput{ApprovalEnabled: true})
	u := seedUser(t, db, "alice")

	req, err := svc.RequestCore(u.ID, room.ID)
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	if _, err := svc.Approve(ctx, stranger.ID, req.ID); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("stranger approve err = %v, want ErrNotOwner", err)
	}

	m, err := svc.Approve(ctx, owner.ID, req.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if m.Role != model.RoleCore {
		t.Fatalf("approved role = %d, want core", m.Role)
	}
	if m.ApprovedBy == nil || *m.ApprovedBy != owner.ID {
		t.Fatal("approved_by not recorded")
	}

	// 裁决是终态
	if _, err := svc.Approve(ctx, owner.ID, req.ID); !errors.Is(err, mysql.ErrRequestDecided) {
		t.Fatalf("re-approve err = %v, want ErrRequestDecided", err)
	}
	if err := svc.Reject(owner.ID, req.ID); !errors.Is(err, mysql.ErrRequestDecided) {
		t.Fatalf("reject after approve err = %v, want ErrRequestDecided", err)
	}
}

func TestApproveWithFullCoreSeatsKeepsRequestPending(t *testing.T) {
	db := newTestDB(t)
	rdb := newTestRedis(t)
	svc := NewJoinRequestService(db, rdb)
	memberSvc := NewMemberService(db, rdb)
	ctx := context.Background()

	owner := seedUser(t, db, "owner")
	room := seedRoom(t, db, owner.ID, CreateRoomInput{ApprovalEnabled: true})
	for i := 0; i < model.CoreSeatLimit-1; i++ {
		x := seedUser(t, db, fmt.Sprintf("c%d", i))
		if _, _, err := memberSvc.Join(ctx, x.ID, room.ID); err != nil {
			t.Fatalf("fill core %d: %v", i, err)
		}
	}

	u := seedUser(t, db, "waiting")
	req, err := svc.RequestCore(u.ID, room.ID)
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	if _, err := svc.Approve(ctx, owner.ID, req.ID); !errors.Is(err, mysql.ErrCoreSeatsFull) {
		t.Fatalf("approve with full seats err = %v, want ErrCoreSeatsFull", err)
	}

	// 席位满时申请保持 pending，等空位再裁决
	got, err := svc.ListPending(owner.ID, room.ID)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(got) != 1 || got[0].ID != req.ID {
		t.Fatalf("pending after failed approve = %d, want the original request", len(got))
	}
}

func TestRejectIsTerminal(t *testing.T) {
	db := newTestDB(t)
	rdb := newTestRedis(t)
	svc := NewJoinRequestService(db, rdb)
	ctx := context.Background()

	owner := seedUser(t, db, "owner")
	room := seedRoom(t, db, owner.ID, CreateRoomInput{ApprovalEnabled: true})
	u := seedUser(t, db, "alice")

	req, err := svc.RequestCore(u.ID, room.ID)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if err := svc.Reject(owner.ID, req.ID); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if _, err := svc.Approve(ctx, owner.ID, req.ID); !errors.Is(err, mysql.ErrRequestDecided) {
		t.Fatalf("approve after reject err = %v, want ErrRequestDecided", err)
	}

	// 被拒后可以再申请
	if _, err := svc.RequestCore(u.ID, room.ID); err != nil {
		t.Fatalf("re-request after reject: %v", err)
	}
}

func TestListPendingOwnerOnly(t *testing.T) {
	db := newTestDB(t)
	rdb := newTestRedis(t)
	svc := NewJoinRequestService(db, rdb)

	owner := seedUser(t, db, "owner")
	stranger := seedUser(t, db, "stranger")
	room := seedRoom(t, db, owner.ID, CreateRoomInput{ApprovalEnabled: true})

	if _, err := svc.ListPending(stranger.ID, room.ID); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("stranger list err = %v, want ErrNotOwner", err)
	}
}
