package service

import "errors"

// 业务错误集中放这里，handler 依 errors.Is 映射状态码
var (
	ErrRoomNotOpen        = errors.New("room is not open")
	ErrRoomNotFound       = errors.New("room not found")
	ErrPostNotFound       = errors.New("post not found")
	ErrRequestNotFound    = errors.New("request not found")
	ErrNotOwner           = errors.New("not the room owner")
	ErrNotMember          = errors.New("not a member")
	ErrNoPermission       = errors.New("no permission")
	ErrCreatorCannotLeave = errors.New("creator cannot leave")
	ErrLeaveWindowClosed  = errors.New("leave window closed")
	ErrApprovalDisabled   = errors.New("approval is disabled for this room")
	ErrInviteDisabled     = errors.New("invite is disabled for this room")
	ErrInviteCodeMismatch = errors.New("invite code mismatch")
	ErrOwnsOpenRoom       = errors.New("account owns an open room")
)
