package handler

import (
	"net/http"
	"strconv"

	"Atelier_Room/internal/service"

	"github.com/gin-gonic/gin"
)

type MemberHandler struct {
	svc *service.MemberService
}

type InviteRedeemReq struct {
	Code string `json:"code" binding:"required"`
}

func NewMemberHandler(svc *service.MemberService) *MemberHandler {
	return &MemberHandler{svc: svc}
}

func roomIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid room id"})
		return 0, false
	}
	return id, true
}

// Join 普通加入：core 未满给 core，否则 supporter；已在籍原样返回
func (h *MemberHandler) Join(c *gin.Context) {
	userID := currentUserID(c)
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	member, created, err := h.svc.Join(c.Request.Context(), userID, roomID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, gin.H{"role": member.Role, "created": created})
}

func (h *MemberHandler) JoinSupporter(c *gin.Context) {
	userID := currentUserID(c)
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	member, err := h.svc.JoinSupporter(c.Request.Context(), userID, roomID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, gin.H{"role": member.Role})
}

// RedeemInvite 邀请码兑换，直接给 core
func (h *MemberHandler) RedeemInvite(c *gin.Context) {
	userID := currentUserID(c)
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	var req InviteRedeemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid params"})
		return
	}

	member, err := h.svc.RedeemInvite(c.Request.Context(), userID, roomID, req.Code)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, gin.H{"role": member.Role})
}

func (h *MemberHandler) Leave(c *gin.Context) {
	userID := currentUserID(c)
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	if err := h.svc.Leave(c.Request.Context(), userID, roomID); err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, nil)
}

func (h *MemberHandler) List(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	list, err := h.svc.ListMembers(roomID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, gin.H{"list": list})
}
