package entity

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserBeforeSave_HashesPassword(t *testing.T) {
	user := &User{Email: "student@mit.edu", Password: "secret123"}

	err := user.BeforeSave(nil)
	require.NoError(t, err)

	assert.NotEqual(t, "secret123", user.Password, "plaintext must never survive BeforeSave")
	assert.True(t, strings.HasPrefix(user.Password, "$2"), "expected a bcrypt hash, got %q", user.Password)
	assert.True(t, user.CheckPassword("secret123"))
	assert.False(t, user.CheckPassword("wrong-password"))
}

func TestUserBeforeSave_DoesNotDoubleHash(t *testing.T) {
	user := &User{Email: "student@mit.edu", Password: "secret123"}
	require.NoError(t, user.BeforeSave(nil))

	hashed := user.Password
	require.NoError(t, user.BeforeSave(nil))

	assert.Equal(t, hashed, user.Password, "an already-hashed password must pass through unchanged")
	assert.True(t, user.CheckPassword("secret123"))
}

func TestUserBeforeSave_EmptyPassword(t *testing.T) {
	user := &User{Email: "student@mit.edu"}
	require.NoError(t, user.BeforeSave(nil))
	assert.Empty(t, user.Password)
}

func TestUserBeforeCreate_AssignsID(t *testing.T) {
	user := &User{}
	require.NoError(t, user.BeforeCreate(nil))
	assert.NotEmpty(t, user.ID)

	existing := &User{ID: "fixed-id"}
	require.NoError(t, existing.BeforeCreate(nil))
	assert.Equal(t, "fixed-id", existing.ID)
}

func TestHasLiveVerificationToken(t *testing.T) {
	now := time.Now()
	token := "abc123"
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	tests := []struct {
		name   string
		token  *string
		expiry *time.Time
		want   bool
	}{
		{name: "live token", token: &token, expiry: &future, want: true},
		{name: "expired token", token: &token, expiry: &past, want: false},
		{name: "no token", token: nil, expiry: &future, want: false},
		{name: "no expiry", token: &token, expiry: nil, want: false},
		{name: "nothing pending", token: nil, expiry: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{VerificationToken: tt.token, VerificationTokenExpiry: tt.expiry}
			assert.Equal(t, tt.want, u.HasLiveVerificationToken(now))
		})
	}
}
