package handler

import (
	"net/http"
	"strconv"
	"time"

	"Atelier_Room/internal/service"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	svc *service.PostService
}

type CreatePostReq struct {
	RoomID  uint64 `json:"room_id" binding:"required"`
	Content string `json:"content" binding:"required,max=2000"`
}

func NewPostHandler(svc *service.PostService) *PostHandler {
	return &PostHandler{svc: svc}
}

func (h *PostHandler) Create(c *gin.Context) {
	userID := currentUserID(c)

	var req CreatePostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid params"})
		return
	}

	post, err := h.svc.CreatePost(userID, req.RoomID, req.Content)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, gin.H{"id": post.ID, "display_name": post.DisplayName})
}

// Delete 作者本人的物理删除
func (h *PostHandler) Delete(c *gin.Context) {
	userID := currentUserID(c)
	postID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	if err := h.svc.DeletePost(userID, postID); err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, nil)
}

// Hide / Unhide 房主的运营隐藏开关
func (h *PostHandler) Hide(c *gin.Context) {
	userID := currentUserID(c)
	postID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	if err := h.svc.HidePost(userID, postID); err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, nil)
}

func (h *PostHandler) Unhide(c *gin.Context) {
	userID := currentUserID(c)
	postID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	if err := h.svc.UnhidePost(userID, postID); err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, nil)
}

// ListBoard 看板（优先游标分页，兼容页码）
func (h *PostHandler) ListBoard(c *gin.Context) {
	roomID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || roomID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid room id"})
		return
	}

	lastIDStr := c.Query("last_id")
	lastTSStr := c.Query("last_created_at")

	if lastIDStr != "" || lastTSStr != "" {
		var lastID uint64
		var lastTS time.Time
		if lastIDStr != "" {
			v, e := strconv.ParseUint(lastIDStr, 10, 64)
			if e != nil {
				c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid last_id"})
				return
			}
			lastID = v
		}
		if lastTSStr != "" {
			v, e := strconv.ParseInt(lastTSStr, 10, 64)
			if e != nil {
				c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid last_created_at"})
				return
			}
			lastTS = time.Unix(v, 0)
		}

		size, _ := strconv.Atoi(c.Query("size"))
		list, nextID, nextTS, err := h.svc.ListBoardCursor(roomID, lastID, lastTS, size)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "list failed"})
			return
		}
		respondOK(c, gin.H{
			"list":            list,
			"next_last_id":    nextID,
			"next_created_at": nextTS.Unix(),
		})
		return
	}

	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))

	list, err := h.svc.ListBoard(roomID, page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "list failed"})
		return
	}
	respondOK(c, gin.H{"list": list, "page": page, "size": size})
}
