package handlers

import (
	"net/http"

	"decisionshub/internal/db"
	"decisionshub/internal/models"
	"decisionshub/internal/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// userListItem 用户列表项，附带决策统计
type userListItem struct {
	models.User
	DecisionsTaken      int64 `json:"decisions_taken"`      // 已采纳的决策数
	UnacceptedDecisions int64 `json:"unaccepted_decisions"` // 处理中的决策数
}

// List 激活用户列表，带每人的决策统计 (GET /users)
// 键集分页：传 last_id 取下一页，每页 30 条
func (h *UserHandler) List(c *gin.Context) {
	query := db.DB.Model(&models.User{}).Where("users.is_active = ?", true)
	if lastID := c.Query("last_id"); lastID != "" {
		query = query.Where("users.id > ?", lastID)
	}

	var items []userListItem
	err := query.
		Select(`users.*,
			count(decisions.id) FILTER (WHERE decisions.is_active AND decisions.status = 'ready') AS decisions_taken,
			count(decisions.id) FILTER (WHERE decisions.is_active AND decisions.status = 'in_processing') AS unaccepted_decisions`).
		Joins("LEFT JOIN decisions ON decisions.user_id = users.id").
		Group("users.id").
		Order("users.created_at DESC").
		Limit(30).
		Scan(&items).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询失败"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// Deactivate 停用目标账号 (DELETE /users/:id)
func (h *UserHandler) Deactivate(c *gin.Context) {
	id := paramID(c, "id")
	if id == 0 {
		badID(c)
		return
	}
	target, err := services.DeactivateUser(currentUser(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "用户 " + target.Name + " 已停用"})
}

// DeactivateSelf 自助停用 (DELETE /users/account/self)
func (h *UserHandler) DeactivateSelf(c *gin.Context) {
	if err := services.DeactivateSelf(currentUser(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "账号已停用", "action": "logout"})
}

// HardDelete 物理删除目标账号，要求已先软删除 (DELETE /users/:id/hard)
func (h *UserHandler) HardDelete(c *gin.Context) {
	id := paramID(c, "id")
	if id == 0 {
		badID(c)
		return
	}
	if err := services.HardDeleteUser(currentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted", "message": "用户已删除"})
}

// HardDeleteSelf 物理删除自己的账号 (DELETE /users/me/hard)
func (h *UserHandler) HardDeleteSelf(c *gin.Context) {
	if err := services.HardDeleteSelf(currentUser(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted", "message": "账号已删除"})
}

type roleRequest struct {
	Role string `json:"role" binding:"required"`
}

// UpdateRole 调整用户角色，仅限 super_admin (PUT /users/:id/role)
func (h *UserHandler) UpdateRole(c *gin.Context) {
	id := paramID(c, "id")
	if id == 0 {
		badID(c)
		return
	}
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少 role 字段"})
		return
	}
	target, err := services.UpdateUserRole(currentUser(c), id, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "角色已调整为 " + req.Role,
		"user_id": target.ID,
		"name":    target.Name,
	})
}
