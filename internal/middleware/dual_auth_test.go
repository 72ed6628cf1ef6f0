package middleware

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/pennywise/pennywise-backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func newDualAuth(userID uuid.UUID, withJWT bool) *DualAuthMiddleware {
	apiAuth := NewAPITokenAuthMiddleware(&MockAPITokenValidator{token: &domain.APIToken{ID: uuid.New(), UserID: userID, Scope: domain.ScopeReadWrite}})
	if !withJWT {
		return NewDualAuthMiddleware(nil, apiAuth)
	}
	jwtAuth := newAuthMiddleware(
		&fakeJWTValidator{token: "jwt-ok", subject: "auth0|ada"},
		&mockUserProvider{users: map[string]uuid.UUID{"auth0|ada": userID}},
	)
	return NewDualAuthMiddleware(jwtAuth, apiAuth)
}

func TestDualAuth_Authenticate(t *testing.T) {
	userID := uuid.New()
	dual := newDualAuth(userID, true)

	tests := []struct {
		name        string
		header      string
		wantStatus  int
		wantAPIAuth bool
	}{
		{"jwt", "Bearer jwt-ok", http.StatusOK, false},
		{"api token", "Bearer pw_abc", http.StatusOK, true},
		{"bare api token", "pw_abc", http.StatusOK, true},
		{"forged jwt", "Bearer jwt-forged", http.StatusUnauthorized, false},
		{"missing header", "", http.StatusUnauthorized, false},
		{"garbage", "Token abc", http.StatusUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, c, called := runMiddleware(dual.Authenticate(), tt.header)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantStatus == http.StatusOK, called)
			if called {
				assert.Equal(t, userID, GetUserID(c))
				assert.Equal(t, tt.wantAPIAuth, IsAPITokenAuth(c))
			}
		})
	}
}

func TestDualAuth_WithoutAuth0OnlyAcceptsAPITokens(t *testing.T) {
	dual := newDualAuth(uuid.New(), false)

	rec, _, called := runMiddleware(dual.Authenticate(), "Bearer pw_abc")
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _, called = runMiddleware(dual.Authenticate(), "Bearer jwt-ok")
	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "not configured")
}

func TestDualAuth_JWTOnly_RejectsAPIToken(t *testing.T) {
	dual := newDualAuth(uuid.New(), true)

	rec, _, called := runMiddleware(dual.JWTOnly(), "Bearer pw_abc")
	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "session authentication")

	rec, _, called = runMiddleware(dual.JWTOnly(), "Bearer jwt-ok")
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDualAuth_JWTIdentityOnly(t *testing.T) {
	jwtAuth := newAuthMiddleware(
		&fakeJWTValidator{token: "jwt-new", subject: "auth0|new"},
		&mockUserProvider{users: map[string]uuid.UUID{}},
	)
	dual := NewDualAuthMiddleware(jwtAuth, nil)

	rec, c, called := runMiddleware(dual.JWTIdentityOnly(), "Bearer jwt-new")
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "auth0|new", GetAuth0ID(c))

	rec, _, called = runMiddleware(dual.JWTOnly(), "Bearer jwt-new")
	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDualAuth_ResolveUser(t *testing.T) {
	userID := uuid.New()
	ctx := context.Background()

	dual := newDualAuth(userID, true)
	got, err := dual.ResolveUser(ctx, "pw_abc")
	assert.NoError(t, err)
	assert.Equal(t, userID, got)

	got, err = dual.ResolveUser(ctx, "jwt-ok")
	assert.NoError(t, err)
	assert.Equal(t, userID, got)

	_, err = dual.ResolveUser(ctx, "jwt-forged")
	assert.Error(t, err)

	_, err = newDualAuth(userID, false).ResolveUser(ctx, "jwt-ok")
	assert.True(t, errors.Is(err, ErrSessionAuthDisabled))

	revoked := NewDualAuthMiddleware(nil, NewAPITokenAuthMiddleware(&MockAPITokenValidator{err: domain.ErrAPITokenNotFound}))
	_, err = revoked.ResolveUser(ctx, "pw_gone")
	assert.True(t, errors.Is(err, domain.ErrAPITokenNotFound))
}
