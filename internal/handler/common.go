package handler

import (
	"errors"
	"net/http"

	"Atelier_Room/internal/middleware"
	"Atelier_Room/internal/repository/mysql"
	"Atelier_Room/internal/repository/redis"
	"Atelier_Room/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// 统一响应包：{ok: true, ...} / {ok: false, error: "..."}
func respondOK(c *gin.Context, payload gin.H) {
	if payload == nil {
		payload = gin.H{}
	}
	payload["ok"] = true
	c.JSON(http.StatusOK, payload)
}

func respondErr(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"ok": false, "error": err.Error()})
}

// statusFor 业务错误到状态码的映射；没认领的都按 400 处理
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrRoomNotFound),
		errors.Is(err, service.ErrPostNotFound),
		errors.Is(err, service.ErrRequestNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound

	case errors.Is(err, service.ErrNotOwner),
		errors.Is(err, service.ErrNoPermission),
		errors.Is(err, service.ErrNotMember),
		errors.Is(err, service.ErrCreatorCannotLeave),
		errors.Is(err, service.ErrLeaveWindowClosed),
		errors.Is(err, service.ErrInviteCodeMismatch):
		return http.StatusForbidden

	case errors.Is(err, mysql.ErrRoomFull),
		errors.Is(err, mysql.ErrCoreSeatsFull),
		errors.Is(err, mysql.ErrSupporterSeatsFull),
		errors.Is(err, mysql.ErrAlreadyMember),
		errors.Is(err, mysql.ErrDuplicateReport),
		errors.Is(err, mysql.ErrRequestPendingExists),
		errors.Is(err, mysql.ErrRequestDecided),
		errors.Is(err, service.ErrRoomNotOpen),
		errors.Is(err, service.ErrRoomNotPublished),
		errors.Is(err, service.ErrOwnsOpenRoom),
		errors.Is(err, redis.ErrRoomBusy):
		return http.StatusConflict

	default:
		return http.StatusBadRequest
	}
}

func currentUserID(c *gin.Context) uint64 {
	v, _ := c.Get(middleware.ContextUserIDKey)
	id, _ := v.(uint64)
	return id
}
