/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/jobly/models"
	"github.com/tomoncle/jobly/types"
	"golang.org/x/crypto/bcrypt"
)

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	tok, err := tokens.Create(&models.User{Username: "u1", IsAdmin: true})
	require.NoError(t, err)

	claims, err := tokens.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Username)
	assert.True(t, claims.IsAdmin)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestTokenWithoutTTLNeverExpires(t *testing.T) {
	tokens := NewTokens("secret", 0)
	tok, err := tokens.Create(&models.User{Username: "u1"})
	require.NoError(t, err)

	tokens.now = func() time.Time { return time.Now().Add(24 * 365 * time.Hour) }
	claims, err := tokens.Parse(tok)
	require.NoError(t, err)
	assert.Nil(t, claims.ExpiresAt)
	assert.False(t, claims.IsAdmin)
}

func TestTokenRejected(t *testing.T) {
	tokens := NewTokens("secret", time.Minute)
	tok, err := tokens.Create(&models.User{Username: "u1"})
	require.NoError(t, err)

	_, err = NewTokens("other", time.Minute).Parse(tok)
	assert.Error(t, err, "wrong secret")

	tokens.now = func() time.Time { return time.Now().Add(time.Hour) }
	_, err = tokens.Parse(tok)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	_, err = tokens.Parse("not.a.token")
	assert.Error(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Username: "u1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = tokens.Parse(none)
	assert.Error(t, err, "alg none")

	_, err = NewTokens("", 0).Create(&models.User{Username: "u1"})
	assert.Error(t, err)
}

func TestTokenWithoutUsername(t *testing.T) {
	tokens := NewTokens("secret", 0)
	tok, err := tokens.Create(&models.User{})
	require.NoError(t, err)
	_, err = tokens.Parse(tok)
	assert.Error(t, err)
}

func TestContextClaims(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := WithClaims(context.Background(), &Claims{Username: "u1"})
	c, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "u1", c.Username)
}

func TestPasswords(t *testing.T) {
	hash, err := HashPassword("password1", bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2a$"))
	assert.True(t, CheckPassword(hash, "password1"))
	assert.False(t, CheckPassword(hash, "password2"))
	assert.False(t, CheckPassword("garbage", "password1"))

	hash, err = HashPassword("pw", 1)
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestHashPasswordTooLong(t *testing.T) {
	_, err := HashPassword(strings.Repeat("é", 40), bcrypt.MinCost)
	require.Error(t, err)
	assert.Equal(t, 400, types.StatusOf(err))

	_, err = HashPassword(strings.Repeat("a", 72), bcrypt.MinCost)
	assert.NoError(t, err)
}
