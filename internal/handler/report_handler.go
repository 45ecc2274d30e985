package handler

import (
	"net/http"

	"Atelier_Room/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	svc *service.ReportService
}

type ReportReq struct {
	TargetType string `json:"target_type" binding:"required,oneof=room post"`
	TargetID   uint64 `json:"target_id" binding:"required"`
	Reason     string `json:"reason" binding:"required,max=500"`
}

func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

func (h *ReportHandler) Create(c *gin.Context) {
	userID := currentUserID(c)

	var req ReportReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid params"})
		return
	}

	report, err := h.svc.Report(userID, req.TargetType, req.TargetID, req.Reason)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, gin.H{"id": report.ID})
}
