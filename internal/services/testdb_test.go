package services

import (
	"fmt"
	"testing"

	"decisionshub/internal/db"
	"decisionshub/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB 用内存 sqlite 替换全局 DB。
// 事务、唯一约束、软删除标记在 sqlite 上行为一致，足够覆盖业务层；
// 全文检索那套 Postgres 专用 SQL 不在业务层里，不受影响。
func setupTestDB(t *testing.T) {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	// 内存库只存在于单个连接上
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
}

func createUser(t *testing.T, name, role string) *models.User {
	t.Helper()
	user := models.User{
		Name:     name,
		Email:    fmt.Sprintf("%s@example.com", name),
		Password: "hash",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.DB.Create(&user).Error)
	return &user
}

func createDecision(t *testing.T, owner *models.User, title string) *models.Decision {
	t.Helper()
	description := "what should we do"
	decision := models.Decision{
		Title:       title,
		Description: &description,
		UserID:      owner.ID,
		Status:      models.DecisionStatusInProcessing,
		IsActive:    true,
	}
	require.NoError(t, db.DB.Create(&decision).Error)
	return &decision
}

func castVote(t *testing.T, user *models.User, decision *models.Decision, isLike bool) {
	t.Helper()
	state, err := SetDecisionVote(user.ID, decision.ID, isLike)
	require.NoError(t, err)
	if isLike {
		require.Equal(t, VoteLiked, state)
	} else {
		require.Equal(t, VoteDisliked, state)
	}
}

func countRows(t *testing.T, model interface{}, cond string, args ...interface{}) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.DB.Model(model).Where(cond, args...).Count(&count).Error)
	return count
}
