package community

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/park285/ecofy-server-go/internal/storage"
)

// DB 없이도 입력 검증은 동작해야 한다. 검증은 연결 시도보다 먼저 일어난다.
func testRepo() *Repository {
	return NewRepository(storage.NewProvider(nil, slog.New(slog.DiscardHandler)), slog.New(slog.DiscardHandler))
}

func TestCreateTipValidation(t *testing.T) {
	r := testRepo()
	ctx := context.Background()

	tests := []struct {
		name    string
		userID  string
		title   string
		content string
		wantErr error
	}{
		{"empty user", "", "title", "content", ErrEmptyUserID},
		{"empty title", "u1", "  ", "content", ErrEmptyTitle},
		{"empty content", "u1", "title", "", ErrEmptyContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.CreateTip(ctx, tt.userID, tt.title, tt.content)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSendFriendRequestValidation(t *testing.T) {
	r := testRepo()
	ctx := context.Background()

	if _, err := r.SendFriendRequest(ctx, "u1", "u1"); !errors.Is(err, ErrSelfFriend) {
		t.Fatalf("self request err = %v, want ErrSelfFriend", err)
	}
	if _, err := r.SendFriendRequest(ctx, "", "u2"); !errors.Is(err, ErrEmptyUserID) {
		t.Fatalf("empty from err = %v, want ErrEmptyUserID", err)
	}
}

func TestRespondFriendRequestStatusValidation(t *testing.T) {
	r := testRepo()

	err := r.RespondFriendRequest(context.Background(), 1, "u1", "maybe")
	if !errors.Is(err, ErrUnknownStatus) {
		t.Fatalf("err = %v, want ErrUnknownStatus", err)
	}
}

func TestJoinChallengeValidation(t *testing.T) {
	r := testRepo()

	err := r.JoinChallenge(context.Background(), 1, "  ")
	if !errors.Is(err, ErrEmptyUserID) {
		t.Fatalf("err = %v, want ErrEmptyUserID", err)
	}
}
