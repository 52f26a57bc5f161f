package points

import "time"

// UserStats 는 사용자별 누적 통계 행이다.
type UserStats struct {
	UserID        string    `gorm:"primaryKey;size:64" json:"userId"`
	TotalPoints   int       `gorm:"not null;default:0" json:"totalPoints"`
	CarbonSavedKg float64   `gorm:"not null;default:0" json:"carbonSavedKg"`
	ItemsRecycled int       `gorm:"not null;default:0" json:"itemsRecycled"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// TableName 은 gorm 테이블명을 고정한다.
func (UserStats) TableName() string { return "user_stats" }

// EcoAction 은 적립 이력 원장 행이다. 집계는 UserStats 가 담당한다.
type EcoAction struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        string    `gorm:"size:64;index" json:"userId"`
	Category      string    `gorm:"size:16" json:"category"`
	ItemName      string    `gorm:"size:128" json:"itemName"`
	Points        int       `gorm:"not null" json:"points"`
	CarbonSavedKg float64   `gorm:"not null" json:"carbonSavedKg"`
	CreatedAt     time.Time `json:"createdAt"`
}

// TableName 은 gorm 테이블명을 고정한다.
func (EcoAction) TableName() string { return "eco_actions" }
