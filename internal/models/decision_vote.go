package models

import (
	"time"
)

// DecisionVote 决策投票 - 每个用户对同一决策最多一票，只保留当前立场
type DecisionVote struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_user_decision_vote" json:"user_id"`
	User       User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	DecisionID uint      `gorm:"not null;uniqueIndex:idx_user_decision_vote" json:"decision_id"`
	Decision   Decision  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	IsLike     bool      `gorm:"not null" json:"is_like"`
	CreatedAt  time.Time `json:"created_at"`
}
