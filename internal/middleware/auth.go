package middleware

import (
	"net/http"
	"strings"

	"decisionshub/internal/db"
	"decisionshub/internal/models"
	"decisionshub/internal/services"

	"github.com/gin-gonic/gin"
)

const CheckUserKey = "user"

// LoadUser 解析 Bearer token 并把对应的用户放进请求上下文。
// 没带 token 或 token 无效时不拦截，只是不设置用户。这里不按
// is_active 过滤：已停用的账号还要走自助物理删除，激活状态由
// ActiveRequired 或具体 handler 把关。
func LoadUser(tokens *services.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.Next()
			return
		}

		claims, err := tokens.ParseAccessToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.Next()
			return
		}

		var user models.User
		if err := db.DB.First(&user, claims.UserID).Error; err == nil {
			c.Set(CheckUserKey, &user)
		}
		c.Next()
	}
}

// AuthRequired ensures a user is logged in
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(CheckUserKey); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "需要登录"})
			return
		}
		c.Next()
	}
}

// ActiveRequired 拒绝已停用的账号。除自助物理删除外的受保护路由都挂它
func ActiveRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, exists := c.Get(CheckUserKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "需要登录"})
			return
		}
		if !u.(*models.User).IsActive {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "账号已停用"})
			return
		}
		c.Next()
	}
}

// AdminRequired 要求 admin 或 super_admin 角色
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, exists := c.Get(CheckUserKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "需要登录"})
			return
		}
		if !u.(*models.User).IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "需要管理员权限"})
			return
		}
		c.Next()
	}
}
