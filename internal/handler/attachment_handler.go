package handler

import (
	"net/http"
	"strconv"

	"Atelier_Room/internal/service"

	"github.com/gin-gonic/gin"
)

type AttachmentHandler struct {
	svc *service.AttachmentService
}

type SignedURLReq struct {
	PostID  uint64 `json:"post_id" binding:"required"`
	Variant string `json:"variant" binding:"required,oneof=private public"`
}

func NewAttachmentHandler(svc *service.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{svc: svc}
}

// Upload multipart 单图上传；字节直接进对象存储，帖子行只记路径
func (h *AttachmentHandler) Upload(c *gin.Context) {
	userID := currentUserID(c)
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || postID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid post id"})
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "file required"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "file open failed"})
		return
	}
	defer f.Close()

	contentType := fh.Header.Get("Content-Type")
	path, err := h.svc.Upload(c.Request.Context(), userID, postID, fh.Filename, contentType, fh.Size, f)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, gin.H{"path": path})
}

// SignedURL 复核可见性后发限时签名 URL，302 跳转
func (h *AttachmentHandler) SignedURL(c *gin.Context) {
	userID := currentUserID(c)

	var req SignedURLReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid params"})
		return
	}

	url, err := h.svc.SignedURL(c.Request.Context(), userID, req.PostID, req.Variant)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Redirect(http.StatusFound, url)
}
