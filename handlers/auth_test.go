package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Nerzal/gocloak/v13"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kova98/adwatch.api/models"
)

type fakeKeycloak struct {
	decodeErr error
	info      *gocloak.UserInfo
	infoErr   error
}

func (f *fakeKeycloak) DecodeAccessToken(ctx context.Context, accessToken, realm string) (*jwt.Token, *jwt.MapClaims, error) {
	if f.decodeErr != nil {
		return nil, nil, f.decodeErr
	}
	return &jwt.Token{Valid: true}, &jwt.MapClaims{}, nil
}

func (f *fakeKeycloak) GetUserInfo(ctx context.Context, accessToken, realm string) (*gocloak.UserInfo, error) {
	return f.info, f.infoErr
}

func validUser() *gocloak.UserInfo {
	return &gocloak.UserInfo{
		Sub:               gocloak.StringP("4b1c5e2a-0000-4000-8000-000000000001"),
		Email:             gocloak.StringP("analyst@example.com"),
		PreferredUsername: gocloak.StringP(""),
	}
}

func TestAuthenticate(t *testing.T) {
	h := NewAuthHandler(&fakeKeycloak{info: validUser()}, "adwatch")

	res := h.Authenticate(context.Background(), "Bearer token")

	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, models.Principal{
		Subject: "4b1c5e2a-0000-4000-8000-000000000001",
		Name:    "analyst",
		Email:   "analyst@example.com",
	}, res.Body)
}

func TestAuthenticate_Rejections(t *testing.T) {
	ok := NewAuthHandler(&fakeKeycloak{info: validUser()}, "adwatch")
	assert.Equal(t, http.StatusUnauthorized, ok.Authenticate(context.Background(), "").Code)
	assert.Equal(t, http.StatusUnauthorized, ok.Authenticate(context.Background(), "Basic abc").Code)

	invalid := NewAuthHandler(&fakeKeycloak{decodeErr: errors.New("expired")}, "adwatch")
	assert.Equal(t, http.StatusUnauthorized, invalid.Authenticate(context.Background(), "Bearer token").Code)

	missing := NewAuthHandler(&fakeKeycloak{}, "adwatch")
	assert.Equal(t, http.StatusUnauthorized, missing.Authenticate(context.Background(), "Bearer token").Code)

	failing := NewAuthHandler(&fakeKeycloak{infoErr: errors.New("keycloak down")}, "adwatch")
	assert.Equal(t, http.StatusInternalServerError, failing.Authenticate(context.Background(), "Bearer token").Code)
}

func TestPrivate_PassesPrincipal(t *testing.T) {
	h := NewAuthHandler(&fakeKeycloak{info: validUser()}, "adwatch")
	var seen models.Principal
	inner := func(w http.ResponseWriter, r *http.Request) Result {
		seen, _ = PrincipalFrom(r.Context())
		return Ok(nil)
	}

	r := httptest.NewRequest("GET", "/keywords", nil)
	r.Header.Set("Authorization", "Bearer token")
	res := h.Private(inner)(httptest.NewRecorder(), r)

	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "analyst", seen.Name)

	res = h.Private(inner)(httptest.NewRecorder(), httptest.NewRequest("GET", "/keywords", nil))
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestPrivate_NilHandlerIsOpen(t *testing.T) {
	var h *AuthHandler
	called := false
	inner := func(w http.ResponseWriter, r *http.Request) Result {
		called = true
		_, ok := PrincipalFrom(r.Context())
		assert.False(t, ok)
		return Ok(nil)
	}

	res := h.Private(inner)(httptest.NewRecorder(), httptest.NewRequest("GET", "/keywords", nil))

	assert.Equal(t, http.StatusOK, res.Code)
	assert.True(t, called)
}
