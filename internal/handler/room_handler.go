package handler

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"time"

	"Atelier_Room/internal/service"

	"github.com/gin-gonic/gin"
)

type RoomHandler struct {
	svc      *service.RoomService
	sweepKey string
}

type RoomCreateReq struct {
	Title           string `json:"title" binding:"required,max=128"`
	Category        string `json:"category" binding:"required,max=32"`
	IsAdult         bool   `json:"is_adult"`
	HourLimit       int    `json:"hour_limit" binding:"required"`
	ApprovalEnabled bool   `json:"approval_enabled"`
	InviteEnabled   bool   `json:"invite_enabled"`
}

func NewRoomHandler(svc *service.RoomService, sweepKey string) *RoomHandler {
	return &RoomHandler{svc: svc, sweepKey: sweepKey}
}

func (h *RoomHandler) Create(c *gin.Context) {
	userID := currentUserID(c)

	var req RoomCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid params"})
		return
	}

	room, err := h.svc.CreateRoom(userID, service.CreateRoomInput{
		Title:           req.Title,
		Category:        req.Category,
		IsAdult:         req.IsAdult,
		HourLimit:       req.HourLimit,
		ApprovalEnabled: req.ApprovalEnabled,
		InviteEnabled:   req.InviteEnabled,
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	payload := gin.H{
		"id":         room.ID,
		"title":      room.Title,
		"status":     room.Status,
		"expires_at": room.ExpiresAt.Format(time.RFC3339),
	}
	// 邀请码只在创建响应里回一次
	if room.InviteEnabled {
		payload["invite_code"] = room.InviteCode
	}
	respondOK(c, payload)
}

func (h *RoomHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid room id"})
		return
	}

	room, err := h.svc.GetRoom(id)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, gin.H{
		"id":               room.ID,
		"title":            room.Title,
		"category":         room.Category,
		"is_adult":         room.IsAdult,
		"hour_limit":       room.HourLimit,
		"expires_at":       room.ExpiresAt.Format(time.RFC3339),
		"status":           room.Status,
		"approval_enabled": room.ApprovalEnabled,
		"invite_enabled":   room.InviteEnabled,
		"like_count":       room.LikeCount,
	})
}

func (h *RoomHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))

	list, err := h.svc.ListRooms(page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "list failed"})
		return
	}
	respondOK(c, gin.H{"list": list})
}

func (h *RoomHandler) Close(c *gin.Context) {
	userID := currentUserID(c)
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	if err := h.svc.CloseRoom(userID, id); err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, nil)
}

func (h *RoomHandler) Delete(c *gin.Context) {
	userID := currentUserID(c)
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	if err := h.svc.DeleteRoom(userID, id); err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, nil)
}

// Sweep 外部调度器触发的到期清扫；共享密钥走 query 参数，不走用户 token
func (h *RoomHandler) Sweep(c *gin.Context) {
	key := c.Query("key")
	if subtle.ConstantTimeCompare([]byte(key), []byte(h.sweepKey)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid sweep key"})
		return
	}

	swept, err := h.svc.Sweep(time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	respondOK(c, gin.H{"swept": swept})
}
