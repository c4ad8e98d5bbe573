package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTMaker_GenerateAndParseToken_ValidCases(t *testing.T) {
	secretKey := "test_secret_key_1234567890"
	tokenTTL := 15 * time.Minute
	maker := NewJWTMaker(secretKey, tokenTTL)

	tests := []struct {
		name    string
		email   string
		role    string
		userUID string
	}{
		{
			name:    "admin user",
			email:   "admin@brainbooster.test",
			role:    "ADMIN",
			userUID: "6cfc6716-8907-4b28-a6a7-0f7e1a0b1111",
		},
		{
			name:    "student",
			email:   "student@example.com",
			role:    "STUDENT",
			userUID: "6cfc6716-8907-4b28-a6a7-0f7e1a0b2222",
		},
		{
			name:    "teacher",
			email:   "teacher@example.com",
			role:    "TEACHER",
			userUID: "6cfc6716-8907-4b28-a6a7-0f7e1a0b3333",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := maker.GenerateToken(tt.email, tt.role, tt.userUID)
			require.NoError(t, err)
			assert.NotEmpty(t, token)

			claims, err := maker.ParseToken(token)
			require.NoError(t, err)

			assert.Equal(t, tt.email, claims.Email)
			assert.Equal(t, tt.role, claims.Role)
			assert.Equal(t, tt.userUID, claims.UserUID)
			assert.WithinDuration(t, time.Now(), claims.IssuedAt.Time, time.Second)
			assert.WithinDuration(t, time.Now().Add(tokenTTL), claims.ExpiresAt.Time, time.Second)
		})
	}
}

func TestJWTMaker_ParseToken_InvalidTokens(t *testing.T) {
	maker := NewJWTMaker("test_secret_key_1234567890", 15*time.Minute)

	tests := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{
			name: "garbage token",
			token: func(_ *testing.T) string {
				return "not.a.token"
			},
		},
		{
			name: "token signed with different secret",
			token: func(t *testing.T) string {
				other := NewJWTMaker("another_secret_key", 15*time.Minute)
				token, err := other.GenerateToken("user@example.com", "STUDENT", "uid")
				require.NoError(t, err)
				return token
			},
		},
		{
			name: "expired token",
			token: func(t *testing.T) string {
				expired := NewJWTMaker("test_secret_key_1234567890", -time.Minute)
				token, err := expired.GenerateToken("user@example.com", "STUDENT", "uid")
				require.NoError(t, err)
				return token
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := maker.ParseToken(tt.token(t))
			require.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}
