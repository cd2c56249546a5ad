package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/ace-TI85/dev-connector/internal/api/types"
	"github.com/ace-TI85/dev-connector/internal/token"
)

func authedHandler(t *testing.T, want uuid.UUID) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, want, GetUserID(r.Context()))
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMissingToken(t *testing.T) {
	tokens := token.NewService([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	h := Auth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a token")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/auth", nil))

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	var resp types.APIResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	require.Equal(t, "missing_credential", resp.Error.Code)
}

func TestAuthInvalidToken(t *testing.T) {
	tokens := token.NewService([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	h := Auth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with a bad token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/auth", nil)
	req.Header.Set(TokenHeader, "garbage")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	var resp types.APIResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "invalid_credential", resp.Error.Code)
}

func TestAuthValidToken(t *testing.T) {
	tokens := token.NewService([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	userID := uuid.New()
	raw, err := tokens.Issue(userID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/auth", nil)
	req.Header.Set(TokenHeader, raw)
	rr := httptest.NewRecorder()
	Auth(tokens)(authedHandler(t, userID)).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
}
