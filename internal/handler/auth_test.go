package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/aloft-stays/internal/config"
	"github.com/iliyamo/aloft-stays/internal/handler/mocks"
	"github.com/iliyamo/aloft-stays/internal/logging"
	"github.com/iliyamo/aloft-stays/internal/model"
	"github.com/iliyamo/aloft-stays/internal/repository"
	"github.com/iliyamo/aloft-stays/internal/utils"
)

var authCfg = config.Config{JWTSecret: "test-secret", AccessTTLMin: 15, RefreshTTLDays: 7, BcryptCost: 4}

func newAuth() (*AuthHandler, *mocks.MockUserStore, *mocks.MockTokenStore) {
	users := new(mocks.MockUserStore)
	tokens := new(mocks.MockTokenStore)
	return NewAuthHandler(authCfg, users, tokens, logging.Discard()), users, tokens
}

func TestRegisterDefaultsToGuest(t *testing.T) {
	h, users, tokens := newAuth()
	users.On("Create", mock.Anything, "new@example.com", "longenough", model.RoleGuest, 4).Return(uint64(3), nil)
	tokens.On("StoreRefresh", mock.Anything, uint64(3), mock.AnythingOfType("string"), mock.Anything).Return(nil)

	c, rec := newContext(http.MethodPost, "/v1/auth/register", `{"email":"New@Example.com","password":"longenough","role":"ADMIN"}`, 0)
	assert.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	user := decode(t, rec)["user"].(map[string]interface{})
	assert.Equal(t, "GUEST", user["role"])
	assert.Equal(t, "new@example.com", user["email"])
	users.AssertExpectations(t)
	tokens.AssertExpectations(t)
}

func TestRegisterHostAndConflicts(t *testing.T) {
	h, users, tokens := newAuth()
	users.On("Create", mock.Anything, "host@example.com", "longenough", model.RoleHost, 4).Return(uint64(0), repository.ErrEmailExists)

	c, rec := newContext(http.MethodPost, "/v1/auth/register", `{"email":"host@example.com","password":"longenough","role":"host"}`, 0)
	assert.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	tokens.AssertNotCalled(t, "StoreRefresh", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	c, rec = newContext(http.MethodPost, "/v1/auth/register", `{"email":"host@example.com","password":"short"}`, 0)
	assert.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "password must be at least 8", errorOf(t, rec))
}

func TestLogin(t *testing.T) {
	hash, err := utils.HashPassword("longenough", 4)
	require.NoError(t, err)

	tests := []struct {
		name   string
		user   model.User
		err    error
		pass   string
		status int
	}{
		{"ok", model.User{ID: 3, Email: "a@example.com", PasswordHash: hash, Role: model.RoleHost, IsActive: true}, nil, "longenough", http.StatusOK},
		{"wrong password", model.User{ID: 3, PasswordHash: hash, IsActive: true}, nil, "nope-nope", http.StatusUnauthorized},
		{"inactive", model.User{ID: 3, PasswordHash: hash, IsActive: false}, nil, "longenough", http.StatusUnauthorized},
		{"unknown", model.User{}, repository.ErrUserNotFound, "longenough", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, users, tokens := newAuth()
			users.On("GetByEmail", mock.Anything, "a@example.com").Return(tt.user, tt.err)
			tokens.On("StoreRefresh", mock.Anything, uint64(3), mock.Anything, mock.Anything).Return(nil).Maybe()

			c, rec := newContext(http.MethodPost, "/v1/auth/login", `{"email":"a@example.com","password":"`+tt.pass+`"}`, 0)
			assert.NoError(t, h.Login(c))
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				body := decode(t, rec)
				assert.NotEmpty(t, body["access"].(map[string]interface{})["token"])
				assert.NotEmpty(t, body["refresh"].(map[string]interface{})["token"])
			}
		})
	}
}

func TestRefreshRotates(t *testing.T) {
	h, users, tokens := newAuth()
	hash := utils.HashRefreshRaw("raw-token")
	tokens.On("ValidateRefresh", mock.Anything, hash).Return(uint64(3), nil)
	tokens.On("RevokeByHash", mock.Anything, hash).Return(nil)
	tokens.On("StoreRefresh", mock.Anything, uint64(3), mock.Anything, mock.Anything).Return(nil)
	users.On("GetByID", mock.Anything, uint64(3)).Return(model.User{ID: 3, Email: "a@example.com", Role: model.RoleGuest}, nil)

	c, rec := newContext(http.MethodPost, "/v1/auth/refresh", `{"refresh_token":"raw-token"}`, 0)
	assert.NoError(t, h.Refresh(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	tokens.AssertExpectations(t)
}

func TestLogoutModes(t *testing.T) {
	h, _, tokens := newAuth()
	access, err := utils.NewAccessToken(authCfg.JWTSecret, 3, model.RoleGuest, 5)
	require.NoError(t, err)
	tokens.On("RevokeAllForUser", mock.Anything, uint64(3)).Return(nil)

	c, rec := newContext(http.MethodPost, "/v1/auth/logout", "", 0)
	c.Request().Header.Set("Authorization", "Bearer "+access.Token)
	assert.NoError(t, h.Logout(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	tokens.AssertExpectations(t)

	c, rec = newContext(http.MethodPost, "/v1/auth/logout", "", 0)
	assert.NoError(t, h.Logout(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMe(t *testing.T) {
	h, users, _ := newAuth()
	users.On("GetByID", mock.Anything, uint64(7)).Return(model.User{ID: 7, Email: "g@example.com", Role: model.RoleGuest}, nil)

	c, rec := newContext(http.MethodGet, "/v1/me", "", 7)
	assert.NoError(t, h.Me(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":7,"email":"g@example.com","role":"GUEST"}`, rec.Body.String())
}
