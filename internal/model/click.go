package model

import (
	"time"
)

// Click 点击记录：每次重定向写一条，只增不改
// 不保存原始 IP，只保存单向哈希
type Click struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	ProjectID      uint      `gorm:"not null;index" json:"project_id"`
	Platform       string    `gorm:"size:10;index" json:"platform"` // ios / android / other
	DeviceFamily   string    `gorm:"size:100" json:"device_family"`
	OSFamily       string    `gorm:"size:100" json:"os_family"`
	OSVersion      string    `gorm:"size:50" json:"os_version"`
	Browser        string    `gorm:"size:100" json:"browser"`
	BrowserVersion string    `gorm:"size:50" json:"browser_version"`
	IPHash         string    `gorm:"size:64" json:"ip_hash"`
	Country        string    `gorm:"size:100" json:"country"` // GeoIP 未接入，暂存 Unknown
	City           string    `gorm:"size:100" json:"city"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Click) TableName() string {
	return "clicks"
}
