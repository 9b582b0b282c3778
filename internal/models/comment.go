package models

import (
	"time"
)

type Comment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Text       string    `gorm:"type:text;not null" json:"text"`
	DecisionID uint      `gorm:"not null;uniqueIndex:idx_user_decision_comment" json:"decision_id"`
	Decision   Decision  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_user_decision_comment" json:"user_id"`
	User       User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	ParentID   *uint     `gorm:"index" json:"parent_id"` // Nullable for top-level comments
	Parent     *Comment  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Status     bool      `gorm:"default:true;not null" json:"status"` // 软删除标记
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// 非数据库字段，用于查询时填充
	Like    int64 `gorm:"-" json:"like"`
	Dislike int64 `gorm:"-" json:"dislike"`
}
