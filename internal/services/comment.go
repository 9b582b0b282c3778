package services

import (
	"errors"
	"fmt"
	"strings"

	"decisionshub/internal/db"
	"decisionshub/internal/models"

	"gorm.io/gorm"
)

// CreateComment 发表评论。决策必须存在且激活；回复时父评论必须是
// 同一决策下的激活评论。(user_id, decision_id) 唯一键沿用旧库约束，
// 同一用户对同一决策只能留一条评论，撞键按冲突返回。
func CreateComment(userID, decisionID uint, parentID *uint, text string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: 评论内容不能为空", ErrValidation)
	}

	var decision models.Decision
	err := db.DB.Where("id = ? AND is_active = ?", decisionID, true).First(&decision).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: 决策不存在或已停用", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if parentID != nil {
		var parent models.Comment
		err := db.DB.Where("id = ? AND decision_id = ? AND status = ?", *parentID, decisionID, true).
			First(&parent).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: 父评论不存在或已删除", ErrNotFound)
		}
		if err != nil {
			return nil, err
		}
	}

	comment := models.Comment{
		Text:       text,
		DecisionID: decisionID,
		UserID:     userID,
		ParentID:   parentID,
	}
	if err := db.DB.Create(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: 该决策下已有你的评论", ErrConflict)
		}
		return nil, err
	}
	return &comment, nil
}

func findComment(commentID uint, status bool) (*models.Comment, *models.User, error) {
	var comment models.Comment
	err := db.DB.Where("id = ? AND status = ?", commentID, status).First(&comment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("%w: 评论不存在", ErrNotFound)
	}
	if err != nil {
		return nil, nil, err
	}
	var author models.User
	if err := db.DB.First(&author, comment.UserID).Error; err != nil {
		return nil, nil, err
	}
	return &comment, &author, nil
}

// UpdateCommentText 修改评论内容，仅限作者本人，且评论未被删除
func UpdateCommentText(actor *models.User, commentID uint, text string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: 评论内容不能为空", ErrValidation)
	}
	comment, _, err := findComment(commentID, true)
	if err != nil {
		return nil, err
	}
	if comment.UserID != actor.ID {
		return nil, fmt.Errorf("%w: 只能修改自己的评论", ErrForbidden)
	}
	if err := db.DB.Model(comment).Update("text", text).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment 软删除评论（status=false），作者或按策略放行的管理员
func DeleteComment(actor *models.User, commentID uint) error {
	comment, author, err := findComment(commentID, true)
	if err != nil {
		return err
	}
	if err := CanModerate(actor, author.ID, author.Role); err != nil {
		return err
	}
	return db.DB.Model(&models.Comment{}).
		Where("id = ?", comment.ID).
		Update("status", false).Error
}

// HardDeleteComment 物理删除评论，前提是已被软删除。
// 评论的投票由外键级联一起清掉。
func HardDeleteComment(actor *models.User, commentID uint) error {
	comment, author, err := findComment(commentID, false)
	if err != nil {
		return err
	}
	if err := CanModerate(actor, author.ID, author.Role); err != nil {
		return err
	}
	return db.DB.Delete(&models.Comment{}, comment.ID).Error
}
