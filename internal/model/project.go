package model

import (
	"time"
)

// Project 项目模型：一个 App 及其各商店的落地链接
// 一个短码对应一组 iOS / Android / 兜底 URL
type Project struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	UserID      uint      `gorm:"index" json:"user_id"`
	AppName     string    `gorm:"size:100;not null" json:"app_name"`
	IOSURL      string    `gorm:"type:text;not null" json:"ios_url"`
	AndroidURL  string    `gorm:"type:text;not null" json:"android_url"`
	FallbackURL string    `gorm:"type:text" json:"fallback_url"` // 桌面/其它平台的兜底地址，可为空
	ShortCode   string    `gorm:"size:10;uniqueIndex;not null" json:"short_code"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Clicks []Click `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// TableName 指定表名
func (Project) TableName() string {
	return "projects"
}
