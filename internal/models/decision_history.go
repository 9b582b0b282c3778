package models

import (
	"time"
)

// DecisionHistory 决策历史快照 - 采纳时拷贝内容字段，创建后不再修改。
// is_active 独立于父决策，可单独停用。
type DecisionHistory struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:100;not null" json:"title"`
	Description *string   `gorm:"type:text" json:"description"`
	ImageURL    *string   `gorm:"size:255" json:"image_url"`
	DecisionID  uint      `gorm:"not null;index" json:"decision_id"`
	Decision    Decision  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	IsActive    bool      `gorm:"default:true;not null" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName 与旧库表名保持一致
func (DecisionHistory) TableName() string {
	return "decision_history"
}
