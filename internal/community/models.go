package community

import "time"

// Tip 은 사용자가 공유한 친환경 팁이다.
type Tip struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"size:64;index" json:"userId"`
	Title     string    `gorm:"size:128;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Likes     int       `gorm:"not null;default:0" json:"likes"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName 은 gorm 테이블명을 고정한다.
func (Tip) TableName() string { return "community_tips" }

// Challenge 는 기간이 정해진 공동 챌린지다.
type Challenge struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"size:128;not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	TargetPoints int       `gorm:"not null;default:0" json:"targetPoints"`
	StartsAt     time.Time `json:"startsAt"`
	EndsAt       time.Time `json:"endsAt"`
	CreatedAt    time.Time `json:"createdAt"`
}

// TableName 은 gorm 테이블명을 고정한다.
func (Challenge) TableName() string { return "community_challenges" }

// ChallengeMember 는 챌린지 참여 행이다. (ChallengeID, UserID) 는 유일하다.
type ChallengeMember struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ChallengeID uint      `gorm:"not null;uniqueIndex:idx_challenge_member" json:"challengeId"`
	UserID      string    `gorm:"size:64;not null;uniqueIndex:idx_challenge_member" json:"userId"`
	JoinedAt    time.Time `gorm:"autoCreateTime" json:"joinedAt"`
}

// TableName 은 gorm 테이블명을 고정한다.
func (ChallengeMember) TableName() string { return "community_challenge_members" }

// 친구 요청 상태.
const (
	FriendPending  = "pending"
	FriendAccepted = "accepted"
	FriendRejected = "rejected"
)

// FriendRequest 는 친구 요청 행이다.
type FriendRequest struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FromUserID string    `gorm:"size:64;not null;uniqueIndex:idx_friend_pair" json:"fromUserId"`
	ToUserID   string    `gorm:"size:64;not null;uniqueIndex:idx_friend_pair" json:"toUserId"`
	Status     string    `gorm:"size:16;not null;default:pending" json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// TableName 은 gorm 테이블명을 고정한다.
func (FriendRequest) TableName() string { return "community_friend_requests" }
