package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"decisionshub/internal/db"
	"decisionshub/internal/models"
	"decisionshub/internal/router"
	"decisionshub/internal/services"
	"decisionshub/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupServer 起一个挂了全部路由的测试服务，底下是内存 sqlite
func setupServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, gdb.AutoMigrate(
		&models.User{},
		&models.Decision{},
		&models.DecisionVote{},
		&models.DecisionHistory{},
		&models.Comment{},
		&models.CommentVote{},
	))
	db.DB = gdb

	r := gin.New()
	router.RegisterRoutes(r, services.NewTokenManager())
	return r
}

// seedUser 直接写库建用户并签发 access token，绕开注册接口
func seedUser(t *testing.T, name, role string) (*models.User, string) {
	t.Helper()
	hash, err := utils.HashPassword("Secret_123")
	require.NoError(t, err)
	user := models.User{
		Name:     name,
		Email:    fmt.Sprintf("%s@example.com", name),
		Password: hash,
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.DB.Create(&user).Error)

	token, err := services.NewTokenManager().IssueAccessToken(&user)
	require.NoError(t, err)
	return &user, token
}

func seedDecision(t *testing.T, owner *models.User, title string) *models.Decision {
	t.Helper()
	decision := models.Decision{
		Title:    title,
		UserID:   owner.ID,
		Status:   models.DecisionStatusInProcessing,
		IsActive: true,
	}
	require.NoError(t, db.DB.Create(&decision).Error)
	return &decision
}

// dbUpdateInactive 直接把用户标记为停用
func dbUpdateInactive(userID uint) error {
	return db.DB.Model(&models.User{}).Where("id = ?", userID).Update("is_active", false).Error
}

// doJSON 发一个 JSON 请求，token 为空则不带认证头
func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
