package models

import (
	"time"
)

// 决策状态
const (
	DecisionStatusInProcessing = "in_processing"
	DecisionStatusReady        = "ready"
)

// Decision 决策模型 - 用户发起的提案，经投票后可被采纳
type Decision struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:100;uniqueIndex;not null" json:"title"`
	Description *string   `gorm:"type:text" json:"description"`
	ImageURL    *string   `gorm:"size:255" json:"image_url"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	User        User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Status      string    `gorm:"size:20;default:'in_processing';not null" json:"status"` // in_processing, ready
	IsActive    bool      `gorm:"default:true;not null" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// tsv 是数据库生成列（标题+描述的全文检索向量），应用侧只读。
	// 列本身和 GIN 索引在 db.Init 里用原生 SQL 创建，AutoMigrate 跳过。
	TSV string `gorm:"->;-:migration;column:tsv" json:"-"`

	// 非数据库字段，用于查询时填充
	Like            int64  `gorm:"-" json:"like"`
	Dislike         int64  `gorm:"-" json:"dislike"`
	DescriptionHTML string `gorm:"-" json:"description_html,omitempty"`
}
