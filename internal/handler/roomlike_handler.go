package handler

import (
	"Atelier_Room/internal/service"

	"github.com/gin-gonic/gin"
)

type RoomLikeHandler struct {
	svc *service.RoomLikeService
}

func NewRoomLikeHandler(svc *service.RoomLikeService) *RoomLikeHandler {
	return &RoomLikeHandler{svc: svc}
}

func (h *RoomLikeHandler) Like(c *gin.Context) {
	uid := currentUserID(c)
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}
	changed, err := h.svc.Like(c.Request.Context(), uid, roomID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, gin.H{"changed": changed})
}

func (h *RoomLikeHandler) Unlike(c *gin.Context) {
	uid := currentUserID(c)
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}
	changed, err := h.svc.Unlike(c.Request.Context(), uid, roomID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, gin.H{"changed": changed})
}

func (h *RoomLikeHandler) IsLiked(c *gin.Context) {
	uid := currentUserID(c)
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}
	liked, err := h.svc.IsLiked(c.Request.Context(), uid, roomID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, gin.H{"liked": liked})
}

func (h *RoomLikeHandler) Count(c *gin.Context) {
	uid := currentUserID(c)
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}
	cnt, err := h.svc.GetCount(c.Request.Context(), uid, roomID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, gin.H{"count": cnt})
}
