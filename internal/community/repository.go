// Package community 는 팁/챌린지/친구 컬렉션의 저장소다.
// 본 서버는 소유자가 아니라 얇은 CRUD 창구만 제공한다.
package community

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/park285/ecofy-server-go/internal/storage"
)

// 입력 검증 에러.
var (
	ErrEmptyUserID    = errors.New("community: user id is empty")
	ErrEmptyTitle     = errors.New("community: title is empty")
	ErrEmptyContent   = errors.New("community: content is empty")
	ErrSelfFriend     = errors.New("community: cannot befriend yourself")
	ErrUnknownStatus  = errors.New("community: unknown friend request status")
	ErrChallengeEnded = errors.New("community: challenge already ended")
)

// Repository 는 커뮤니티 컬렉션 DB 접근을 담당한다.
type Repository struct {
	db     *storage.Provider
	logger *slog.Logger
}

// NewRepository 는 커뮤니티 저장소를 생성한다.
func NewRepository(db *storage.Provider, logger *slog.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// CreateTip 은 팁을 등록한다.
func (r *Repository) CreateTip(ctx context.Context, userID, title, content string) (*Tip, error) {
	userID = strings.TrimSpace(userID)
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	switch {
	case userID == "":
		return nil, ErrEmptyUserID
	case title == "":
		return nil, ErrEmptyTitle
	case content == "":
		return nil, ErrEmptyContent
	}

	db, err := r.db.Get(ctx)
	if err != nil {
		return nil, err
	}

	tip := Tip{UserID: userID, Title: title, Content: content}
	if err := db.Create(&tip).Error; err != nil {
		return nil, err
	}
	return &tip, nil
}

// RecentTips 는 최신 팁 목록을 조회한다.
func (r *Repository) RecentTips(ctx context.Context, limit int) ([]Tip, error) {
	db, err := r.db.Get(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var rows []Tip
	if err := db.Order("created_at desc").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// LikeTip 은 팁 좋아요 수를 1 올린다.
func (r *Repository) LikeTip(ctx context.Context, tipID uint) error {
	db, err := r.db.Get(ctx)
	if err != nil {
		return err
	}

	result := db.Model(&Tip{}).
		Where("id = ?", tipID).
		UpdateColumn("likes", gorm.Expr("likes + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ActiveChallenges 는 아직 끝나지 않은 챌린지를 조회한다.
func (r *Repository) ActiveChallenges(ctx context.Context) ([]Challenge, error) {
	db, err := r.db.Get(ctx)
	if err != nil {
		return nil, err
	}

	var rows []Challenge
	err = db.Where("ends_at > ?", time.Now()).
		Order("starts_at asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// JoinChallenge 는 챌린지에 참여시킨다. 중복 참여는 조용히 넘어간다.
func (r *Repository) JoinChallenge(ctx context.Context, challengeID uint, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ErrEmptyUserID
	}

	db, err := r.db.Get(ctx)
	if err != nil {
		return err
	}

	var challenge Challenge
	if err := db.First(&challenge, challengeID).Error; err != nil {
		return err
	}
	if time.Now().After(challenge.EndsAt) {
		return ErrChallengeEnded
	}

	member := ChallengeMember{ChallengeID: challengeID, UserID: userID}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&member).Error
}

// SendFriendRequest 는 친구 요청을 만든다. 이미 있으면 기존 행을 반환한다.
func (r *Repository) SendFriendRequest(ctx context.Context, fromUserID, toUserID string) (*FriendRequest, error) {
	fromUserID = strings.TrimSpace(fromUserID)
	toUserID = strings.TrimSpace(toUserID)
	if fromUserID == "" || toUserID == "" {
		return nil, ErrEmptyUserID
	}
	if fromUserID == toUserID {
		return nil, ErrSelfFriend
	}

	db, err := r.db.Get(ctx)
	if err != nil {
		return nil, err
	}

	req := FriendRequest{FromUserID: fromUserID, ToUserID: toUserID, Status: FriendPending}
	err = db.Clauses(clause.OnConflict{DoNothing: true}).Create(&req).Error
	if err != nil {
		return nil, err
	}
	if req.ID == 0 {
		var existing FriendRequest
		err = db.Where("from_user_id = ? AND to_user_id = ?", fromUserID, toUserID).
			First(&existing).Error
		if err != nil {
			return nil, err
		}
		return &existing, nil
	}
	return &req, nil
}

// RespondFriendRequest 는 받은 요청의 상태를 바꾼다. 수신자만 응답할 수 있다.
func (r *Repository) RespondFriendRequest(ctx context.Context, requestID uint, userID, status string) error {
	if status != FriendAccepted && status != FriendRejected {
		return ErrUnknownStatus
	}

	db, err := r.db.Get(ctx)
	if err != nil {
		return err
	}

	result := db.Model(&FriendRequest{}).
		Where("id = ? AND to_user_id = ? AND status = ?", requestID, userID, FriendPending).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Friends 는 수락된 친구의 사용자 ID 목록을 조회한다.
func (r *Repository) Friends(ctx context.Context, userID string) ([]string, error) {
	db, err := r.db.Get(ctx)
	if err != nil {
		return nil, err
	}

	var rows []FriendRequest
	err = db.Where("status = ? AND (from_user_id = ? OR to_user_id = ?)",
		FriendAccepted, userID, userID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	friends := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.FromUserID == userID {
			friends = append(friends, row.ToUserID)
		} else {
			friends = append(friends, row.FromUserID)
		}
	}
	return friends, nil
}

// PendingRequests 는 사용자가 받은 대기중 요청을 조회한다.
func (r *Repository) PendingRequests(ctx context.Context, userID string) ([]FriendRequest, error) {
	db, err := r.db.Get(ctx)
	if err != nil {
		return nil, err
	}

	var rows []FriendRequest
	err = db.Where("to_user_id = ? AND status = ?", userID, FriendPending).
		Order("created_at asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
