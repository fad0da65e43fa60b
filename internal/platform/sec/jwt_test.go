// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/sunday/internal/platform/sec"
)

func signToken(t *testing.T, key *rsa.PrivateKey, issuer, userID string, ttl time.Duration) string {
	t.Helper()
	now := time.Now()
	claims := sec.AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
		Role:   string(sec.RoleMember),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return signed
}

/*
TestVerifyToken covers valid, expired and foreign-issuer tokens.
*/
func TestVerifyToken(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	verifier := sec.NewTokenVerifierFromKey(&key.PublicKey, "sunday.app")

	t.Run("valid", func(t *testing.T) {
		claims, err := verifier.VerifyToken(signToken(t, key, "sunday.app", "creator-1", time.Hour))
		require.NoError(t, err)
		assert.Equal(t, "creator-1", claims.UserID)
	})

	t.Run("expired", func(t *testing.T) {
		_, err := verifier.VerifyToken(signToken(t, key, "sunday.app", "creator-1", -time.Minute))
		assert.Error(t, err)
	})

	t.Run("wrong_issuer", func(t *testing.T) {
		_, err := verifier.VerifyToken(signToken(t, key, "elsewhere", "creator-1", time.Hour))
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := verifier.VerifyToken("not-a-token")
		assert.Error(t, err)
	})
}

/*
TestUserRole_AtLeast checks the role ordering.
*/
func TestUserRole_AtLeast(t *testing.T) {
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleModerator))
	assert.True(t, sec.RoleMember.AtLeast(sec.RoleMember))
	assert.False(t, sec.RoleMember.AtLeast(sec.RoleAdmin))
	assert.False(t, sec.UserRole("guest").AtLeast(sec.RoleMember))
}
