package handlers

import (
	"net/http"
	"strconv"

	"decisionshub/internal/middleware"
	"decisionshub/internal/models"
	"decisionshub/internal/services"

	"github.com/gin-gonic/gin"
)

// currentUser 从上下文取已登录用户，AuthRequired 保证存在
func currentUser(c *gin.Context) *models.User {
	u, exists := c.Get(middleware.CheckUserKey)
	if !exists {
		return nil
	}
	return u.(*models.User)
}

// respondError 按错误分类返回 JSON，保留具体原因
func respondError(c *gin.Context, err error) {
	c.JSON(services.HTTPStatus(err), gin.H{"error": err.Error()})
}

// paramID 解析路径里的数字 ID，0 表示非法
func paramID(c *gin.Context, name string) uint {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0
	}
	return uint(id)
}

func badID(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "非法的 ID"})
}
