package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/Nerzal/gocloak/v13"
	"github.com/golang-jwt/jwt/v5"

	"github.com/kova98/adwatch.api/models"
)

// TokenIntrospector is the subset of the Keycloak client used to validate
// bearer tokens. *gocloak.GoCloak implements it.
type TokenIntrospector interface {
	DecodeAccessToken(ctx context.Context, accessToken, realm string) (*jwt.Token, *jwt.MapClaims, error)
	GetUserInfo(ctx context.Context, accessToken, realm string) (*gocloak.UserInfo, error)
}

type AuthHandler struct {
	keycloak TokenIntrospector
	realm    string
}

func NewAuthHandler(keycloak TokenIntrospector, realm string) *AuthHandler {
	return &AuthHandler{
		keycloak: keycloak,
		realm:    realm,
	}
}

// Authenticate validates the bearer token and returns Ok(models.Principal).
func (h *AuthHandler) Authenticate(ctx context.Context, authHeader string) Result {
	if authHeader == "" {
		return Unauthorized("Missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return Unauthorized("Invalid authorization header format")
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")

	if _, _, err := h.keycloak.DecodeAccessToken(ctx, token, h.realm); err != nil {
		return Unauthorized("Invalid token")
	}

	userInfo, err := h.keycloak.GetUserInfo(ctx, token, h.realm)
	if err != nil {
		return InternalError(err, "Failed to get user info")
	}
	if userInfo == nil || userInfo.Sub == nil {
		return Unauthorized("User not found")
	}

	p := models.Principal{Subject: *userInfo.Sub}
	if userInfo.Email != nil {
		p.Email = *userInfo.Email
	}
	// If preferred_username is empty, use the part before the @ in the email
	if userInfo.PreferredUsername != nil && *userInfo.PreferredUsername != "" {
		p.Name = *userInfo.PreferredUsername
	} else {
		p.Name = strings.Split(p.Email, "@")[0]
	}

	return Ok(p)
}

// Private wraps handler so it only runs for authenticated callers. A nil
// AuthHandler leaves the route open.
func (h *AuthHandler) Private(handler Handler) Handler {
	return func(w http.ResponseWriter, r *http.Request) Result {
		if h == nil {
			return handler(w, r)
		}
		res := h.Authenticate(r.Context(), r.Header.Get("Authorization"))
		if res.Code != http.StatusOK {
			return res
		}
		ctx := context.WithValue(r.Context(), principalKey{}, res.Body.(models.Principal))
		return handler(w, r.WithContext(ctx))
	}
}

type principalKey struct{}

func PrincipalFrom(ctx context.Context) (models.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(models.Principal)
	return p, ok
}
