package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/ace-TI85/dev-connector/internal/api/types"
	"github.com/ace-TI85/dev-connector/internal/token"
	appErr "github.com/ace-TI85/dev-connector/pkg/errors"
)

// TokenHeader is the request header carrying the identity token.
const TokenHeader = "x-auth-token"

type userKeyType string

const UserIDKey userKeyType = "user_id"

// Auth is the gate in front of every protected route: it resolves the
// x-auth-token header to a caller id or short-circuits with 401 before any
// resource mutation runs. It never touches the store.
func Auth(tokens *token.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(TokenHeader)
			if raw == "" {
				unauthorized(w, appErr.CodeMissingCredential, "No token, authorisation denied")
				return
			}
			userID, err := tokens.Verify(raw)
			if err != nil {
				unauthorized(w, appErr.CodeInvalidCredential, "Token is not valid")
				return
			}
			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID returns the caller id attached by Auth, or uuid.Nil on public routes.
func GetUserID(ctx context.Context) uuid.UUID {
	if v := ctx.Value(UserIDKey); v != nil {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

func unauthorized(w http.ResponseWriter, code appErr.Code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(types.APIResponse{
		Success: false,
		Error:   &types.APIError{Code: string(code), Message: msg},
	})
}
