package services

import (
	"errors"
	"fmt"

	"decisionshub/internal/db"
	"decisionshub/internal/models"

	"gorm.io/gorm"
)

// AcceptDecision 采纳决策：重新统计当前票数，反对票 >= 赞成票则拒绝
// （平票算失败）。通过时先把当前内容写入历史快照，再把状态置为
// ready，两步在同一个事务里。
//
// 函数只接收决策 ID，自己开事务，不依赖调用方持有的锁或会话，
// 所以同步调用和异步任务走的是同一条路径。对已是 ready 的决策
// 重复采纳会再写一条快照（沿用旧系统的行为，配合至少一次投递的
// 任务队列，重试最多多出一条快照，不会破坏状态）。
func AcceptDecision(decisionID uint) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		return acceptDecision(tx, decisionID)
	})
}

// acceptDecision 采纳的事务体，事务由调用方提供
func acceptDecision(tx *gorm.DB, decisionID uint) error {
	var decision models.Decision
	err := tx.Where("id = ? AND is_active = ?", decisionID, true).First(&decision).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: 决策不存在或已停用", ErrNotFound)
	}
	if err != nil {
		return err
	}

	likes, dislikes, err := DecisionVoteCounts(tx, decisionID)
	if err != nil {
		return err
	}
	if dislikes >= likes {
		return fmt.Errorf("%w: 反对票不少于赞成票 (%d:%d)，决策未通过", ErrRejected, likes, dislikes)
	}

	history := models.DecisionHistory{
		Title:       decision.Title,
		Description: decision.Description,
		ImageURL:    decision.ImageURL,
		DecisionID:  decision.ID,
	}
	if err := tx.Create(&history).Error; err != nil {
		return err
	}
	return tx.Model(&models.Decision{}).
		Where("id = ?", decision.ID).
		Update("status", models.DecisionStatusReady).Error
}

// DecisionUpdate 编辑决策的可选字段，nil 表示不改
type DecisionUpdate struct {
	Title       *string
	Description *string
	ImageURL    *string
	Status      *string
}

// UpdateDecision 编辑决策，仅限作者本人。
// 如果请求把状态写成 ready，内容改动和采纳流程在同一个事务里：
// 采纳被拒时整体回滚，不会只留下半截内容改动。
func UpdateDecision(actor *models.User, decisionID uint, in DecisionUpdate) (*models.Decision, error) {
	var decision models.Decision
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ? AND is_active = ?", decisionID, true).First(&decision).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: 决策不存在或已停用", ErrNotFound)
		}
		if err != nil {
			return err
		}
		if decision.UserID != actor.ID {
			return fmt.Errorf("%w: 只有作者可以编辑决策", ErrForbidden)
		}

		values := map[string]interface{}{}
		if in.Title != nil {
			values["title"] = *in.Title
		}
		if in.Description != nil {
			values["description"] = *in.Description
		}
		if in.ImageURL != nil {
			values["image_url"] = *in.ImageURL
		}
		if len(values) > 0 {
			if err := tx.Model(&decision).Updates(values).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return fmt.Errorf("%w: 已存在同名决策", ErrConflict)
				}
				return err
			}
		}

		if in.Status != nil && *in.Status == models.DecisionStatusReady {
			return acceptDecision(tx, decision.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := db.DB.First(&decision, decision.ID).Error; err != nil {
		return nil, err
	}
	return &decision, nil
}

// RollbackDecision 把历史快照的内容字段拷回决策本身。
// 要求决策和快照都处于激活状态，且快照属于这条决策；
// 只还原 title/description/image_url，状态和票都不动。
func RollbackDecision(actor *models.User, decisionID, historyID uint) (*models.Decision, error) {
	var decision models.Decision
	err := db.DB.Where("id = ? AND is_active = ?", decisionID, true).First(&decision).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: 决策不存在或已停用", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	var owner models.User
	if err := db.DB.First(&owner, decision.UserID).Error; err != nil {
		return nil, err
	}
	if err := CanModerate(actor, owner.ID, owner.Role); err != nil {
		return nil, err
	}

	var history models.DecisionHistory
	err = db.DB.Where("id = ? AND decision_id = ? AND is_active = ?", historyID, decisionID, true).
		First(&history).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: 历史快照不存在或已停用", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if err := db.DB.Model(&decision).Updates(map[string]interface{}{
		"title":       history.Title,
		"description": history.Description,
		"image_url":   history.ImageURL,
	}).Error; err != nil {
		return nil, err
	}

	if err := db.DB.First(&decision, decision.ID).Error; err != nil {
		return nil, err
	}
	return &decision, nil
}

// DeactivateDecision 停用决策（软删除），并在同一事务里把它的全部
// 历史快照一并置为 inactive，行本身都保留。作者或管理员可操作。
func DeactivateDecision(actor *models.User, decisionID uint) error {
	var decision models.Decision
	err := db.DB.Where("id = ? AND is_active = ?", decisionID, true).First(&decision).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: 决策不存在或已停用", ErrNotFound)
	}
	if err != nil {
		return err
	}

	var owner models.User
	if err := db.DB.First(&owner, decision.UserID).Error; err != nil {
		return err
	}
	if err := CanModerate(actor, owner.ID, owner.Role); err != nil {
		return err
	}

	return db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Decision{}).
			Where("id = ?", decisionID).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Model(&models.DecisionHistory{}).
			Where("decision_id = ?", decisionID).
			Update("is_active", false).Error
	})
}

// DeactivateHistory 单独停用一条历史快照，决策作者或管理员可操作
func DeactivateHistory(actor *models.User, historyID uint) error {
	var history models.DecisionHistory
	err := db.DB.Where("id = ? AND is_active = ?", historyID, true).First(&history).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: 历史快照不存在或已停用", ErrNotFound)
	}
	if err != nil {
		return err
	}

	var decision models.Decision
	if err := db.DB.First(&decision, history.DecisionID).Error; err != nil {
		return err
	}
	var owner models.User
	if err := db.DB.First(&owner, decision.UserID).Error; err != nil {
		return err
	}
	if err := CanModerate(actor, owner.ID, owner.Role); err != nil {
		return err
	}

	return db.DB.Model(&models.DecisionHistory{}).
		Where("id = ?", historyID).
		Update("is_active", false).Error
}

// GetDecisionDetail 读取激活的决策，附带票数统计和激活的历史快照
func GetDecisionDetail(decisionID uint) (*models.Decision, []models.DecisionHistory, error) {
	var decision models.Decision
	err := db.DB.Where("id = ? AND is_active = ?", decisionID, true).First(&decision).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("%w: 决策不存在或已停用", ErrNotFound)
	}
	if err != nil {
		return nil, nil, err
	}

	likes, dislikes, err := DecisionVoteCounts(db.DB, decisionID)
	if err != nil {
		return nil, nil, err
	}
	decision.Like = likes
	decision.Dislike = dislikes

	var histories []models.DecisionHistory
	if err := db.DB.Where("decision_id = ? AND is_active = ?", decisionID, true).
		Order("id ASC").Find(&histories).Error; err != nil {
		return nil, nil, err
	}
	return &decision, histories, nil
}
