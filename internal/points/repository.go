package points

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/park285/ecofy-server-go/internal/analysis"
	"github.com/park285/ecofy-server-go/internal/storage"
)

// Repository 는 포인트 적립과 통계 조회를 담당한다.
type Repository struct {
	db     *storage.Provider
	logger *slog.Logger
}

// NewRepository 는 포인트 저장소를 생성한다.
func NewRepository(db *storage.Provider, logger *slog.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// ActionRecord 는 적립 결과다. 적립 후의 레벨 상태를 함께 담는다.
type ActionRecord struct {
	Action EcoAction `json:"action"`
	Stats  UserStats `json:"stats"`
	Level  LevelInfo `json:"level"`
}

// RecordAction 는 처리 행위 하나를 원장에 적고 누적 통계를 갱신한다.
func (r *Repository) RecordAction(
	ctx context.Context,
	userID string,
	category analysis.Category,
	itemName string,
) (*ActionRecord, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, errors.New("user id is empty")
	}

	db, err := r.db.Get(ctx)
	if err != nil {
		return nil, err
	}

	reward := RewardFor(category)
	action := EcoAction{
		UserID:        userID,
		Category:      string(category),
		ItemName:      strings.TrimSpace(itemName),
		Points:        reward.Points,
		CarbonSavedKg: reward.CarbonSavedKg,
	}

	stats := UserStats{
		UserID:        userID,
		TotalPoints:   reward.Points,
		CarbonSavedKg: reward.CarbonSavedKg,
		ItemsRecycled: 1,
		UpdatedAt:     time.Now(),
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&action).Error; err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"total_points":    gorm.Expr("user_stats.total_points + EXCLUDED.total_points"),
				"carbon_saved_kg": gorm.Expr("user_stats.carbon_saved_kg + EXCLUDED.carbon_saved_kg"),
				"items_recycled":  gorm.Expr("user_stats.items_recycled + EXCLUDED.items_recycled"),
				"updated_at":      gorm.Expr("EXCLUDED.updated_at"),
			}),
		}).Create(&stats).Error
	})
	if err != nil {
		return nil, err
	}

	current, err := r.GetStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ActionRecord{
		Action: action,
		Stats:  *current,
		Level:  CalculateLevel(current.TotalPoints),
	}, nil
}

// GetStats 는 사용자 누적 통계를 조회한다. 기록이 없으면 0으로 채운 행을 반환한다.
func (r *Repository) GetStats(ctx context.Context, userID string) (*UserStats, error) {
	db, err := r.db.Get(ctx)
	if err != nil {
		return nil, err
	}

	var row UserStats
	result := db.Where("user_id = ?", userID).First(&row)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return &UserStats{UserID: userID}, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &row, nil
}

// GetLevel 는 사용자의 현재 레벨 상태를 조회한다.
func (r *Repository) GetLevel(ctx context.Context, userID string) (*LevelInfo, error) {
	stats, err := r.GetStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	level := CalculateLevel(stats.TotalPoints)
	return &level, nil
}

// LeaderboardEntry 는 순위표 한 행이다.
type LeaderboardEntry struct {
	Rank        int     `json:"rank"`
	UserID      string  `json:"userId"`
	TotalPoints int     `json:"totalPoints"`
	Level       int     `json:"level"`
	Title       string  `json:"title"`
	CarbonSaved float64 `json:"carbonSavedKg"`
}

// Leaderboard 는 포인트 상위 N명을 조회한다.
func (r *Repository) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	db, err := r.db.Get(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	var rows []UserStats
	if err := db.Order("total_points desc, user_id asc").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		info := CalculateLevel(row.TotalPoints)
		entries = append(entries, LeaderboardEntry{
			Rank:        i + 1,
			UserID:      row.UserID,
			TotalPoints: row.TotalPoints,
			Level:       info.Level,
			Title:       info.Title,
			CarbonSaved: row.CarbonSavedKg,
		})
	}
	return entries, nil
}

// RecentActions 는 사용자의 최근 적립 이력을 조회한다.
func (r *Repository) RecentActions(ctx context.Context, userID string, limit int) ([]EcoAction, error) {
	db, err := r.db.Get(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var rows []EcoAction
	err = db.Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
