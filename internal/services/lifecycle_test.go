package services

import (
	"testing"

	"decisionshub/internal/db"
	"decisionshub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcceptDecision(t *testing.T) {
	setupTestDB(t)
	owner := createUser(t, "owner", models.RoleUser)
	decision := createDecision(t, owner, "Buy snacks")

	castVote(t, createUser(t, "alice", models.RoleUser), decision, true)
	castVote(t, createUser(t, "bob", models.RoleUser), decision, true)
	castVote(t, createUser(t, "carol", models.RoleUser), decision, false)

	require.NoError(t, AcceptDecision(decision.ID))

	var reloaded models.Decision
	require.NoError(t, db.DB.First(&reloaded, decision.ID).Error)
	assert.Equal(t, models.DecisionStatusReady, reloaded.Status)

	var histories []models.DecisionHistory
	require.NoError(t, db.DB.Where("decision_id = ?", decision.ID).Find(&histories).Error)
	require.Len(t, histories, 1)
	assert.Equal(t, "Buy snacks", histories[0].Title)
	assert.True(t, histories[0].IsActive)
}

func TestAcceptDecisionTie(t *testing.T) {
	setupTestDB(t)
	owner := createUser(t, "owner", models.RoleUser)
	decision := createDecision(t, owner, "Buy snacks")

	castVote(t, createUser(t, "alice", models.RoleUser), decision, true)
	castVote(t, createUser(t, "bob", models.RoleUser), decision, true)
	castVote(t, createUser(t, "carol", models.RoleUser), decision, true)
	castVote(t, createUser(t, "dave", models.RoleUser), decision, false)
	castVote(t, createUser(t, "erin", models.RoleUser), decision, false)
	castVote(t, createUser(t, "frank", models.RoleUser), decision, false)

	// 平票算失败
	err := AcceptDecision(decision.ID)
	assert.ErrorIs(t, err, ErrRejected)

	var reloaded models.Decision
	require.NoError(t, db.DB.First(&reloaded, decision.ID).Error)
	assert.Equal(t, models.DecisionStatusInProcessing, reloaded.Status)
	assert.EqualValues(t, 0, countRows(t, &models.DecisionHistory{}, "decision_id = ?", decision.ID))
}

func TestAcceptDecisionAllDislikes(t *testing.T) {
	setupTestDB(t)
	owner := createUser(t, "owner", models.RoleUser)
	decision := createDecision(t, owner, "Buy snacks")

	castVote(t, createUser(t, "alice", models.RoleUser), decision, false)
	castVote(t, createUser(t, "bob", models.RoleUser), decision, false)

	err := AcceptDecision(decision.ID)
	assert.ErrorIs(t, err, ErrRejected)
	assert.EqualValues(t, 0, countRows(t, &models.DecisionHistory{}, "decision_id = ?", decision.ID))
}

func TestAcceptDecisionNoVotes(t *testing.T) {
	setupTestDB(t)
	owner := createUser(t, "owner", models.RoleUser)
	decision := createDecision(t, owner, "Buy snacks")

	// 0:0 也是平票
	err := AcceptDecision(decision.ID)
	assert.ErrorIs(t, err, ErrRejected)
}

func TestAcceptDecisionInactive(t *testing.T) {
	setupTestDB(t)
	owner := createUser(t, "owner", models.RoleUser)
	decision := createDecision(t, owner, "Buy snacks")
	require.NoError(t, DeactivateDecision(owner, decision.ID))

	err := AcceptDecision(decision.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAcceptDecisionAgainSnapshotsAgain(t *testing.T) {
	setupTestDB(t)
	owner := createUser(t, "owner", models.RoleUser)
	decision := createDecision(t, owner, "Buy snacks")
	castVote(t, createUser(t, "alice", models.RoleUser), decision, true)

	require.NoError(t, AcceptDecision(decision.ID))
	require.NoError(t, AcceptDecision(decision.ID))

	assert.EqualValues(t, 2, countRows(t, &models.DecisionHistory{}, "decision_id = ?", decision.ID))
}

func TestUpdateDecisionOwnerOnly(t *testing.T) {
	setupTestDB(t)
	owner := createUser(t, "owner", models.RoleUser)
	admin := createUser(t, "admin", models.RoleAdmin)
	decision := createDecision(t, owner, "Buy snacks")

	title := "Buy fruit"
	_, err := UpdateDecision(admin, decision.ID, DecisionUpdate{Title: &title})
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := UpdateDecision(owner, decision.ID, DecisionUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Buy fruit", updated.Title)
}

func TestUpdateDecisionStatusReadyRunsAcceptance(t *testing.T) {
	setupTestDB(t)
	owner := createUser(t, "owner", models.RoleUser)
	decision := createDecision(t, owner, "Buy snacks")
	castVote(t, createUser(t, "alice", models.RoleUser), decision, true)

	status := models.DecisionStatusReady
	updated, err := UpdateDecision(owner, decision.ID, DecisionUpdate{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.DecisionStatusReady, updated.Status)
	assert.EqualValues(t, 1, countRows(t, &models.DecisionHistory{}, "decision_id = ?", decision.ID))
}

func TestUpdateDecisionRejectedAcceptanceKeepsNothing(t *testing.T) {
	setupTestDB(t)
	owner := createUser(t, "owner", models.RoleUser)
	decision := createDecision(t, owner, "Buy snacks")
	castVote(t, createUser(t, "alice", models.RoleUser), decision, false)

	title := "Buy fruit"
	status := models.DecisionStatusReady
	_, err := UpdateDecision(owner, decision.ID, DecisionUpdate{Title: &title, Status: &status})
	require.ErrorIs(t, err, ErrRejected)

	// 采纳被拒时整个请求回滚，内容改动不落库
	var reloaded models.Decision
	require.NoError(t, db.DB.First(&reloaded, decision.ID).Error)
	assert.Equal(t, "Buy snacks", reloaded.Title)
	assert.Equal(t, models.DecisionStatusInProcessing, reloaded.Status)
	assert.EqualValues(t, 0, countRows(t, &models.DecisionHistory{}, "decision_id = ?", decision.ID))
}

func TestUpdateDecisionDuplicateTitle(t *testing.T) {
	setupTestDB(t)
	owner := createUser(t, "owner", models.RoleUser)
	createDecision(t, owner, "Buy snacks")
	other := createDecision(t, owner, "Buy fruit")

	title := "Buy snacks"
	_, err := UpdateDecision(owner, other.ID, DecisionUpdate{Title: &title})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRollbackDecision(t *testing.T) {
	setupTestDB(t)
	owner := createUser(t, "owner", models.RoleUser)
	decision := createDecision(t, owner, "Buy snacks")
	voter := createUser(t, "alice", models.RoleUser)
	castVote(t, voter, decision, true)

	require.NoError(t, AcceptDecision(decision.ID))

	var history models.DecisionHistory
	require.NoError(t, db.DB.Where("decision_id = ?", decision.ID).First(&history).Error)

	// 采纳后继续编辑，再回滚到快照
	title := "Buy fruit"
	description := "changed my mind"
	_, err := UpdateDecision(owner, decision.ID, DecisionUpdate{Title: &title, Description: &description})
	require.NoError(t, err)

	restored, err := RollbackDecision(owner, decision.ID, history.ID)
	require.NoError(t, err)
	assert.Equal(t, "Buy snacks", restored.Title)
	require.NotNil(t, restored.Description)
	assert.Equal(t, "what should we do", *restored.Description)

	// 状态和票不受回滚影响
	assert.Equal(t, models.DecisionStatusReady, restored.Status)
	likes, _, err := DecisionVoteCounts(db.DB, decision.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, likes)
}

func TestRollbackDecisionInactiveHistory(t *testing.T) {
	setupTestDB(t)
	owner := createUser(t, "owner", models.RoleUser)
	decision := createDecision(t, owner, "Buy snacks")
	castVote(t, createUser(t, "alice", models.RoleUser), decision, true)
	require.NoError(t, AcceptDecision(decision.ID))

	var history models.DecisionHistory
	require.NoError(t, db.DB.Where("decision_id = ?", decision.ID).First(&history).Error)
	require.NoError(t, DeactivateHistory(owner, history.ID))

	_, err := RollbackDecision(owner, decision.ID, history.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRollbackDecisionWrongDecision(t *testing.T) {
	setupTestDB(t)
	owner := createUser(t, "owner", models.RoleUser)
	first := createDecision(t, owner, "Buy snacks")
	second := createDecision(t, owner, "Buy fruit")
	castVote(t, createUser(t, "alice", models.RoleUser), first, true)
	require.NoError(t, AcceptDecision(first.ID))

	var history models.DecisionHistory
	require.NoError(t, db.DB.Where("decision_id = ?", first.ID).First(&history).Error)

	// 快照属于别的决策
	_, err := RollbackDecision(owner, second.ID, history.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeactivateDecisionCascadesHistories(t *testing.T) {
	setupTestDB(t)
	owner := createUser(t, "owner", models.RoleUser)
	decision := createDecision(t, owner, "Buy snacks")
	castVote(t, createUser(t, "alice", models.RoleUser), decision, true)
	require.NoError(t, AcceptDecision(decision.ID))
	require.NoError(t, AcceptDecision(decision.ID))

	require.NoError(t, DeactivateDecision(owner, decision.ID))

	var reloaded models.Decision
	require.NoError(t, db.DB.First(&reloaded, decision.ID).Error)
	assert.False(t, reloaded.IsActive)

	// 快照全部停用但行还在
	assert.EqualValues(t, 2, countRows(t, &models.DecisionHistory{}, "decision_id = ?", decision.ID))
	assert.EqualValues(t, 0, countRows(t, &models.DecisionHistory{},
		"decision_id = ? AND is_active = ?", decision.ID, true))
}

func TestDeactivateDecisionPolicy(t *testing.T) {
	setupTestDB(t)
	adminOwner := createUser(t, "adminowner", models.RoleAdmin)
	admin := createUser(t, "admin", models.RoleAdmin)
	super := createUser(t, "root", models.RoleSuperAdmin)
	stranger := createUser(t, "stranger", models.RoleUser)

	decision := createDecision(t, adminOwner, "Buy snacks")

	// 普通用户碰不了别人的决策
	assert.ErrorIs(t, DeactivateDecision(stranger, decision.ID), ErrForbidden)
	// 管理员碰不了管理员的决策
	assert.ErrorIs(t, DeactivateDecision(admin, decision.ID), ErrForbidden)
	// 超级管理员可以
	require.NoError(t, DeactivateDecision(super, decision.ID))
}

func TestGetDecisionDetail(t *testing.T) {
	setupTestDB(t)
	owner := createUser(t, "owner", models.RoleUser)
	decision := createDecision(t, owner, "Buy snacks")
	castVote(t, createUser(t, "alice", models.RoleUser), decision, true)
	castVote(t, createUser(t, "bob", models.RoleUser), decision, true)
	castVote(t, createUser(t, "carol", models.RoleUser), decision, false)
	require.NoError(t, AcceptDecision(decision.ID))

	detail, histories, err := GetDecisionDetail(decision.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, detail.Like)
	assert.EqualValues(t, 1, detail.Dislike)
	assert.Len(t, histories, 1)
}
