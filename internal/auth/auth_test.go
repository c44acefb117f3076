package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qcreports/internal/models"
	"qcreports/internal/store"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	s := NewSigner("0123456789abcdef", time.Hour)
	tok, c, exp, err := s.Sign("user-1", []string{models.RollAdmin})
	require.NoError(t, err)
	assert.NotEmpty(t, c.JWTID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	got, err := s.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, c, got)
	assert.True(t, got.HasRole(models.RollAdmin))
	assert.False(t, got.HasRole(models.RollUser))
	assert.True(t, got.IsAdmin())
}

func TestVerifyRejects(t *testing.T) {
	s := NewSigner("0123456789abcdef", time.Hour)
	tok, _, _, err := s.Sign("user-1", nil)
	require.NoError(t, err)

	_, err = NewSigner("another-secret-key", time.Hour).Verify(tok)
	assert.Error(t, err, "wrong key")

	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = s.Verify(tok)
	assert.Error(t, err, "expired")

	_, err = s.Verify("not.a.token")
	assert.Error(t, err)
}

func TestHasher(t *testing.T) {
	h := Hasher{Cost: 4}
	hash, err := h.Hash("s3cret!")
	require.NoError(t, err)
	assert.NoError(t, CheckPassword(hash, "s3cret!"))
	assert.Error(t, CheckPassword(hash, "S3cret!"))
}

func protected(t *testing.T, role string) (http.Handler, *Signer, *store.MemSessions) {
	t.Helper()
	signer := NewSigner("0123456789abcdef", time.Hour)
	sessions := store.NewMemSessions()
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(Subject(r.Context())))
	})
	var h http.Handler = final
	if role != "" {
		h = RequireRole(role)(h)
	}
	return JWTAuth(signer, sessions)(h), signer, sessions
}

func call(h http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, signer *Signer, sessions *store.MemSessions, roles ...string) (string, Claims) {
	t.Helper()
	tok, c, exp, err := signer.Sign("user-1", roles)
	require.NoError(t, err)
	require.NoError(t, sessions.Create(context.Background(), &models.Session{JTI: c.JWTID, UserID: "user-1", ExpiresAt: exp}))
	return tok, c
}

func TestJWTAuthNeedsLiveSession(t *testing.T) {
	h, signer, sessions := protected(t, "")

	assert.Equal(t, http.StatusUnauthorized, call(h, "").Code)
	assert.Equal(t, http.StatusUnauthorized, call(h, "garbage").Code)

	orphan, _, _, err := signer.Sign("user-1", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, call(h, orphan).Code, "no session row")

	tok, c := login(t, signer, sessions)
	rec := call(h, tok)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", rec.Body.String())

	require.NoError(t, sessions.Revoke(context.Background(), c.JWTID, time.Now()))
	assert.Equal(t, http.StatusUnauthorized, call(h, tok).Code)
}

func TestRequireRole(t *testing.T) {
	h, signer, sessions := protected(t, models.RollAdmin)

	userTok, _ := login(t, signer, sessions, models.RollUser)
	assert.Equal(t, http.StatusForbidden, call(h, userTok).Code)

	adminTok, _ := login(t, signer, sessions, models.RollAdmin)
	assert.Equal(t, http.StatusOK, call(h, adminTok).Code)
}
