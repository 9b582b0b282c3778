package services

import (
	"errors"
	"fmt"

	"decisionshub/internal/db"
	"decisionshub/internal/models"

	"gorm.io/gorm"
)

// VoteState 一次投票调用后的结果状态
type VoteState string

const (
	VoteLiked    VoteState = "liked"
	VoteDisliked VoteState = "disliked"
	VoteRemoved  VoteState = "removed" // 同向再投即取消
)

func voteState(isLike bool) VoteState {
	if isLike {
		return VoteLiked
	}
	return VoteDisliked
}

// SetDecisionVote 对决策投票，切换语义：
//  1. 没投过 -> 按请求方向创建
//  2. 已投同向 -> 删除（取消投票）
//  3. 已投反向 -> 原地翻转
//
// 整个读-改-写在一个事务里完成。并发下第二个 INSERT 会撞
// (user_id, decision_id) 唯一键，按"票已存在"处理而不是报错。
func SetDecisionVote(userID, decisionID uint, isLike bool) (VoteState, error) {
	var decision models.Decision
	if err := db.DB.Where("id = ? AND is_active = ?", decisionID, true).First(&decision).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: 决策不存在或已停用", ErrNotFound)
		}
		return "", err
	}

	var state VoteState
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var vote models.DecisionVote
		err := tx.Where("user_id = ? AND decision_id = ?", userID, decisionID).First(&vote).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			vote = models.DecisionVote{UserID: userID, DecisionID: decisionID, IsLike: isLike}
			if err := tx.Create(&vote).Error; err != nil {
				if !errors.Is(err, gorm.ErrDuplicatedKey) {
					return err
				}
				// 并发下别的请求先插入了，重读后按已有票处理
				if err := tx.Where("user_id = ? AND decision_id = ?", userID, decisionID).First(&vote).Error; err != nil {
					return err
				}
				return toggleDecisionVote(tx, &vote, isLike, &state)
			}
			state = voteState(isLike)
			return nil
		}
		if err != nil {
			return err
		}
		return toggleDecisionVote(tx, &vote, isLike, &state)
	})
	if err != nil {
		return "", err
	}
	return state, nil
}

func toggleDecisionVote(tx *gorm.DB, vote *models.DecisionVote, isLike bool, state *VoteState) error {
	if vote.IsLike == isLike {
		if err := tx.Delete(vote).Error; err != nil {
			return err
		}
		*state = VoteRemoved
		return nil
	}
	if err := tx.Model(vote).Update("is_like", isLike).Error; err != nil {
		return err
	}
	*state = voteState(isLike)
	return nil
}

// SetCommentVote 对评论投票，算法与 SetDecisionVote 相同
func SetCommentVote(userID, commentID uint, isLike bool) (VoteState, error) {
	var comment models.Comment
	if err := db.DB.Where("id = ? AND status = ?", commentID, true).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: 评论不存在或已删除", ErrNotFound)
		}
		return "", err
	}

	var state VoteState
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var vote models.CommentVote
		err := tx.Where("user_id = ? AND comment_id = ?", userID, commentID).First(&vote).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			vote = models.CommentVote{UserID: userID, CommentID: commentID, IsLike: isLike}
			if err := tx.Create(&vote).Error; err != nil {
				if !errors.Is(err, gorm.ErrDuplicatedKey) {
					return err
				}
				if err := tx.Where("user_id = ? AND comment_id = ?", userID, commentID).First(&vote).Error; err != nil {
					return err
				}
				return toggleCommentVote(tx, &vote, isLike, &state)
			}
			state = voteState(isLike)
			return nil
		}
		if err != nil {
			return err
		}
		return toggleCommentVote(tx, &vote, isLike, &state)
	})
	if err != nil {
		return "", err
	}
	return state, nil
}

func toggleCommentVote(tx *gorm.DB, vote *models.CommentVote, isLike bool, state *VoteState) error {
	if vote.IsLike == isLike {
		if err := tx.Delete(vote).Error; err != nil {
			return err
		}
		*state = VoteRemoved
		return nil
	}
	if err := tx.Model(vote).Update("is_like", isLike).Error; err != nil {
		return err
	}
	*state = voteState(isLike)
	return nil
}

// DecisionVoteCounts 统计决策当前的赞成/反对票数
func DecisionVoteCounts(tx *gorm.DB, decisionID uint) (likes, dislikes int64, err error) {
	if err = tx.Model(&models.DecisionVote{}).
		Where("decision_id = ? AND is_like = ?", decisionID, true).Count(&likes).Error; err != nil {
		return
	}
	err = tx.Model(&models.DecisionVote{}).
		Where("decision_id = ? AND is_like = ?", decisionID, false).Count(&dislikes).Error
	return
}

// CommentVoteCounts 统计评论当前的赞成/反对票数
func CommentVoteCounts(tx *gorm.DB, commentID uint) (likes, dislikes int64, err error) {
	if err = tx.Model(&models.CommentVote{}).
		Where("comment_id = ? AND is_like = ?", commentID, true).Count(&likes).Error; err != nil {
		return
	}
	err = tx.Model(&models.CommentVote{}).
		Where("comment_id = ? AND is_like = ?", commentID, false).Count(&dislikes).Error
	return
}
