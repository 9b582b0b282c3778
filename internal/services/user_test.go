package services

import (
	"testing"

	"decisionshub/internal/db"
	"decisionshub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeactivateUser(t *testing.T) {
	setupTestDB(t)
	admin := createUser(t, "admin", models.RoleAdmin)
	target := createUser(t, "target", models.RoleUser)

	deactivated, err := DeactivateUser(admin, target.ID)
	require.NoError(t, err)
	assert.Equal(t, target.ID, deactivated.ID)

	var reloaded models.User
	require.NoError(t, db.DB.First(&reloaded, target.ID).Error)
	assert.False(t, reloaded.IsActive)

	// 已停用的账号再停用按未找到处理
	_, err = DeactivateUser(admin, target.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeactivateUserPolicy(t *testing.T) {
	setupTestDB(t)
	admin := createUser(t, "admin", models.RoleAdmin)
	otherAdmin := createUser(t, "admin2", models.RoleAdmin)
	user := createUser(t, "user", models.RoleUser)
	super := createUser(t, "root", models.RoleSuperAdmin)

	_, err := DeactivateUser(admin, otherAdmin.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = DeactivateUser(user, admin.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = DeactivateUser(super, otherAdmin.ID)
	assert.NoError(t, err)
}

func TestHardDeleteUserRequiresDeactivation(t *testing.T) {
	setupTestDB(t)
	admin := createUser(t, "admin", models.RoleAdmin)
	target := createUser(t, "target", models.RoleUser)

	// 还在激活状态：必须先软删除
	err := HardDeleteUser(admin, target.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualValues(t, 1, countRows(t, &models.User{}, "id = ?", target.ID))

	_, err = DeactivateUser(admin, target.ID)
	require.NoError(t, err)

	require.NoError(t, HardDeleteUser(admin, target.ID))
	assert.EqualValues(t, 0, countRows(t, &models.User{}, "id = ?", target.ID))
}

func TestHardDeleteUserNotSelf(t *testing.T) {
	setupTestDB(t)
	super := createUser(t, "root", models.RoleSuperAdmin)
	require.NoError(t, db.DB.Model(super).Update("is_active", false).Error)
	super.IsActive = false

	err := HardDeleteUser(super, super.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestHardDeleteSelf(t *testing.T) {
	setupTestDB(t)
	actor := createUser(t, "actor", models.RoleUser)

	// 激活状态下不允许直接物理删除自己
	err := HardDeleteSelf(actor)
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, DeactivateSelf(actor))
	actor.IsActive = false
	require.NoError(t, HardDeleteSelf(actor))
	assert.EqualValues(t, 0, countRows(t, &models.User{}, "id = ?", actor.ID))
}

func TestUpdateUserRole(t *testing.T) {
	setupTestDB(t)
	super := createUser(t, "root", models.RoleSuperAdmin)
	admin := createUser(t, "admin", models.RoleAdmin)
	target := createUser(t, "target", models.RoleUser)

	_, err := UpdateUserRole(admin, target.ID, models.RoleAdmin)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = UpdateUserRole(super, target.ID, "owner")
	assert.ErrorIs(t, err, ErrValidation)

	updated, err := UpdateUserRole(super, target.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, updated.Role)

	var reloaded models.User
	require.NoError(t, db.DB.First(&reloaded, target.ID).Error)
	assert.Equal(t, models.RoleAdmin, reloaded.Role)
}
