package services

import (
	"fmt"

	"decisionshub/internal/models"
)

// CanModerate 判断 actor 能否处置属于 (ownerID, ownerRole) 的资源。
// 所有删除/停用路径都走这一个判定，避免各接口各写一套：
//   - 本人操作自己的资源总是允许
//   - super_admin 不受所有权限制
//   - admin 只能处置普通用户的资源，碰其他管理员时显式报错而不是静默跳过
//   - user 只能操作自己的资源
func CanModerate(actor *models.User, ownerID uint, ownerRole string) error {
	if actor.ID == ownerID {
		return nil
	}
	switch actor.Role {
	case models.RoleSuperAdmin:
		return nil
	case models.RoleAdmin:
		if ownerRole == models.RoleAdmin || ownerRole == models.RoleSuperAdmin {
			return fmt.Errorf("%w: 管理员只能处置普通用户的内容", ErrForbidden)
		}
		return nil
	default:
		return fmt.Errorf("%w: 只能操作自己的内容", ErrForbidden)
	}
}

// CanModerateUser 判断 actor 能否停用/删除目标账号。
// 与 CanModerate 的区别：账号操作没有"本人"旁路，自助停用走单独接口。
func CanModerateUser(actor *models.User, target *models.User) error {
	switch actor.Role {
	case models.RoleSuperAdmin:
		return nil
	case models.RoleAdmin:
		if target.Role == models.RoleAdmin || target.Role == models.RoleSuperAdmin {
			return fmt.Errorf("%w: 管理员只能处置普通用户", ErrForbidden)
		}
		return nil
	default:
		return fmt.Errorf("%w: 普通用户不能处置账号", ErrForbidden)
	}
}
