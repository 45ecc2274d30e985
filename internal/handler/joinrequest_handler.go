package handler

import (
	"net/http"
	"strconv"

	"Atelier_Room/internal/service"

	"github.com/gin-gonic/gin"
)

type JoinRequestHandler struct {
	svc *service.JoinRequestService
}

func NewJoinRequestHandler(svc *service.JoinRequestService) *JoinRequestHandler {
	return &JoinRequestHandler{svc: svc}
}

// RequestCore 申请 core 席位（房间需开启审批）
func (h *JoinRequestHandler) RequestCore(c *gin.Context) {
	userID := currentUserID(c)
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	req, err := h.svc.RequestCore(userID, roomID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, gin.H{"request_id": req.ID, "status": req.Status})
}

func requestIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request id"})
		return 0, false
	}
	return id, true
}

func (h *JoinRequestHandler) Approve(c *gin.Context) {
	userID := currentUserID(c)
	reqID, ok := requestIDParam(c)
	if !ok {
		return
	}

	member, err := h.svc.Approve(c.Request.Context(), userID, reqID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, gin.H{"role": member.Role})
}

func (h *JoinRequestHandler) Reject(c *gin.Context) {
	userID := currentUserID(c)
	reqID, ok := requestIDParam(c)
	if !ok {
		return
	}

	if err := h.svc.Reject(userID, reqID); err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, nil)
}

func (h *JoinRequestHandler) ListPending(c *gin.Context) {
	userID := currentUserID(c)
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	list, err := h.svc.ListPending(userID, roomID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, gin.H{"list": list})
}
