package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/table-reservation/internal/config"
	"github.com/iliyamo/table-reservation/internal/middleware"
	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/repository"
	"github.com/iliyamo/table-reservation/internal/utils"
)

type memStaff struct{ users []model.StaffUser }

func (m *memStaff) GetByEmail(_ context.Context, email string) (model.StaffUser, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.StaffUser{}, repository.ErrNotFound
}

func (m *memStaff) GetByID(_ context.Context, id uint64) (model.StaffUser, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return model.StaffUser{}, repository.ErrNotFound
}

type memSessions struct{ active map[string]uint64 }

func (m *memSessions) StoreRefresh(_ context.Context, userID uint64, hash string, _ time.Time) error {
	m.active[hash] = userID
	return nil
}

func (m *memSessions) ValidateRefresh(_ context.Context, hash string) (uint64, error) {
	id, ok := m.active[hash]
	if !ok {
		return 0, repository.ErrNotFound
	}
	return id, nil
}

func (m *memSessions) RevokeByHash(_ context.Context, hash string) error {
	delete(m.active, hash)
	return nil
}

func (m *memSessions) RevokeAllForUser(_ context.Context, userID uint64) error {
	for k, v := range m.active {
		if v == userID {
			delete(m.active, k)
		}
	}
	return nil
}

func authServer(t *testing.T) (*echo.Echo, *memSessions) {
	t.Helper()
	hash, err := utils.HashPassword("pa55word", 4)
	require.NoError(t, err)
	users := &memStaff{users: []model.StaffUser{
		{ID: 1, Email: "host@example.com", PasswordHash: hash, Role: model.RoleStaff, IsActive: true},
		{ID: 2, Email: "gone@example.com", PasswordHash: hash, Role: model.RoleStaff, IsActive: false},
	}}
	sessions := &memSessions{active: map[string]uint64{}}
	cfg := config.Config{JWTSecret: "secret", AccessTTLMin: 5, RefreshTTLDays: 1}
	h := NewAuthHandler(cfg, users, sessions)

	e := echo.New()
	e.POST("/v1/auth/login", h.Login)
	e.POST("/v1/auth/refresh", h.Refresh)
	authed := e.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	authed.POST("/auth/logout", h.Logout)
	authed.GET("/me", h.Me)
	return e, sessions
}

func TestLoginRefreshLogout(t *testing.T) {
	e, sessions := authServer(t)

	assert.Equal(t, http.StatusUnauthorized,
		serve(e, http.MethodPost, "/v1/auth/login", `{"email":"host@example.com","password":"nope"}`).Code)
	assert.Equal(t, http.StatusUnauthorized,
		serve(e, http.MethodPost, "/v1/auth/login", `{"email":"gone@example.com","password":"pa55word"}`).Code)
	assert.Equal(t, http.StatusBadRequest,
		serve(e, http.MethodPost, "/v1/auth/login", `{"email":""}`).Code)

	rec := serve(e, http.MethodPost, "/v1/auth/login", `{"email":" Host@Example.com ","password":"pa55word"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var login authResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	assert.Equal(t, model.RoleStaff, login.User.Role)
	require.Len(t, sessions.active, 1)

	rec = serve(e, http.MethodPost, "/v1/auth/refresh", `{"refresh_token":"`+login.Refresh.Token+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var refreshed authResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &refreshed))
	assert.NotEqual(t, login.Refresh.Token, refreshed.Refresh.Token)

	// The old token was rotated out.
	assert.Equal(t, http.StatusUnauthorized,
		serve(e, http.MethodPost, "/v1/auth/refresh", `{"refresh_token":"`+login.Refresh.Token+`"}`).Code)

	req := func(method, path string) *http.Request {
		r, _ := http.NewRequest(method, path, nil)
		r.Header.Set("Authorization", "Bearer "+refreshed.Access.Token)
		return r
	}
	me := serveReq(e, req(http.MethodGet, "/v1/me"))
	require.Equal(t, http.StatusOK, me.Code)
	assert.JSONEq(t, `{"user_id":1,"role":"STAFF"}`, me.Body.String())

	out := serveReq(e, req(http.MethodPost, "/v1/auth/logout"))
	assert.Equal(t, http.StatusNoContent, out.Code)
	assert.Empty(t, sessions.active)
}
