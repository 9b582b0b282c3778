package handlers

import (
	"errors"
	"net/http"

	"decisionshub/internal/db"
	"decisionshub/internal/models"
	"decisionshub/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HistoryHandler struct{}

func NewHistoryHandler() *HistoryHandler {
	return &HistoryHandler{}
}

// Get 单条历史快照 (GET /decisions-history/:id)
func (h *HistoryHandler) Get(c *gin.Context) {
	id := paramID(c, "id")
	if id == 0 {
		badID(c)
		return
	}

	var history models.DecisionHistory
	err := db.DB.Where("id = ? AND is_active = ?", id, true).First(&history).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "历史快照不存在或已停用"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询失败"})
		return
	}
	c.JSON(http.StatusOK, history)
}

// Delete 停用历史快照（软删除）(DELETE /decisions-history/:id)
func (h *HistoryHandler) Delete(c *gin.Context) {
	id := paramID(c, "id")
	if id == 0 {
		badID(c)
		return
	}
	if err := services.DeactivateHistory(currentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "历史快照已停用"})
}
