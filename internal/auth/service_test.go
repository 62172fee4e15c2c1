package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	users map[string]*User
}

func (m *mockRepository) GetByUsername(_ context.Context, username string) (*User, error) {
	u, ok := m.users[username]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (m *mockRepository) Get(_ context.Context, id int64) (*User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	repo := &mockRepository{users: map[string]*User{
		"aziz": {ID: 1, Username: "aziz", FullName: "Aziz K.", PasswordHash: hash, Role: RoleCashier, IsActive: true},
		"olim": {ID: 2, Username: "olim", FullName: "Olim R.", PasswordHash: hash, Role: RoleAdmin, IsActive: false},
	}}
	return NewService(repo, "test-secret", time.Hour)
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc := newTestService(t)

	token, user, err := svc.Login(context.Background(), "aziz", "s3cret")
	require.NoError(t, err)
	require.Equal(t, int64(1), user.ID)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	require.Equal(t, int64(1), claims.UserID)
	require.Equal(t, RoleCashier, claims.Role)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.Login(context.Background(), "aziz", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), "nobody", "s3cret")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.Login(context.Background(), "olim", "s3cret")
	require.ErrorIs(t, err, ErrInactive)
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	svc := newTestService(t)
	token, _, err := svc.Login(context.Background(), "aziz", "s3cret")
	require.NoError(t, err)

	other := NewService(&mockRepository{users: map[string]*User{}}, "other-secret", time.Hour)
	_, err = other.Verify(token)
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRequireAuthMiddleware(t *testing.T) {
	svc := newTestService(t)
	mw := &Middleware{Service: svc}

	var gotClaims *Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	mw.RequireAuth(next).ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	token, _, err := svc.Login(context.Background(), "aziz", "s3cret")
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	mw.RequireAuth(next).ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, gotClaims)
	require.Equal(t, "aziz", gotClaims.Username)
}

func TestRequireRole(t *testing.T) {
	svc := newTestService(t)
	mw := &Middleware{Service: svc}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	guarded := mw.RequireRole(RoleAdmin)(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(ContextWithClaims(req.Context(), &Claims{UserID: 1, Role: RoleCashier}))
	rec := httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(ContextWithClaims(req.Context(), &Claims{UserID: 2, Role: RoleAdmin}))
	rec = httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
}
