package services

import (
	"errors"
	"fmt"

	"decisionshub/internal/db"
	"decisionshub/internal/models"

	"gorm.io/gorm"
)

func findActiveUser(userID uint) (*models.User, error) {
	var user models.User
	err := db.DB.Where("id = ? AND is_active = ?", userID, true).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: 用户不存在或已停用", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// DeactivateUser 停用目标账号（软删除，可恢复）。
// 权限走 CanModerateUser：管理员只能停用普通用户。
func DeactivateUser(actor *models.User, targetID uint) (*models.User, error) {
	target, err := findActiveUser(targetID)
	if err != nil {
		return nil, err
	}
	if err := CanModerateUser(actor, target); err != nil {
		return nil, err
	}
	if err := db.DB.Model(&models.User{}).
		Where("id = ?", targetID).
		Update("is_active", false).Error; err != nil {
		return nil, err
	}
	return target, nil
}

// DeactivateSelf 自助停用，唯一的自助移除路径
func DeactivateSelf(actor *models.User) error {
	if !actor.IsActive {
		return fmt.Errorf("%w: 账号已是停用状态", ErrValidation)
	}
	return db.DB.Model(&models.User{}).
		Where("id = ?", actor.ID).
		Update("is_active", false).Error
}

// HardDeleteUser 物理删除账号。前提：目标已被软删除；
// 不能删自己（自己的账号走 HardDeleteSelf）。外键级联清掉
// 该用户的决策、投票和评论。
func HardDeleteUser(actor *models.User, targetID uint) error {
	var target models.User
	err := db.DB.Where("id = ? AND is_active = ?", targetID, false).First(&target).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// 还在激活状态的账号查不到，也按未找到处理——必须先软删除
		return fmt.Errorf("%w: 用户不存在或仍处于激活状态", ErrNotFound)
	}
	if err != nil {
		return err
	}
	if err := CanModerateUser(actor, &target); err != nil {
		return err
	}
	if target.ID == actor.ID {
		return fmt.Errorf("%w: 不能删除自己的账号", ErrForbidden)
	}
	return db.DB.Delete(&target).Error
}

// HardDeleteSelf 物理删除自己的账号，要求已先自助停用
func HardDeleteSelf(actor *models.User) error {
	if actor.IsActive {
		return fmt.Errorf("%w: 账号仍在激活状态，请先停用", ErrValidation)
	}
	return db.DB.Delete(&models.User{}, actor.ID).Error
}

// UpdateUserRole 调整用户角色，仅限 super_admin
func UpdateUserRole(actor *models.User, targetID uint, role string) (*models.User, error) {
	if actor.Role != models.RoleSuperAdmin {
		return nil, fmt.Errorf("%w: 只有超级管理员可以调整角色", ErrForbidden)
	}
	switch role {
	case models.RoleUser, models.RoleAdmin, models.RoleSuperAdmin:
	default:
		return nil, fmt.Errorf("%w: 未知角色 %q", ErrValidation, role)
	}
	target, err := findActiveUser(targetID)
	if err != nil {
		return nil, err
	}
	if err := db.DB.Model(&models.User{}).
		Where("id = ?", targetID).
		Update("role", role).Error; err != nil {
		return nil, err
	}
	target.Role = role
	return target, nil
}
