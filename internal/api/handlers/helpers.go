package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/ace-TI85/dev-connector/internal/api/middleware"
	"github.com/ace-TI85/dev-connector/internal/api/types"
	appErr "github.com/ace-TI85/dev-connector/pkg/errors"
	"github.com/ace-TI85/dev-connector/pkg/logger"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: data})
}

// writeAppError maps an error to its stable status+code pair. Internal and
// store failures are logged with full context and surfaced as a generic
// message so no persistence detail leaks to the caller.
func writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	status := types.StatusForCode(appErr.CodeOf(err))
	if status >= http.StatusInternalServerError {
		logger.L().Error("request failed",
			zap.String("id", middleware.GetRequestID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeJSON(w, status, types.APIResponse{
			Success: false,
			Error:   &types.APIError{Code: string(appErr.CodeOf(err)), Message: "Server error"},
		})
		return
	}
	writeJSON(w, status, types.APIResponse{Success: false, Error: types.FromAppError(err)})
}

// writeAppErrorStatus is writeAppError with a forced status, for the profile
// reads that historically answer 400 instead of 404.
func writeAppErrorStatus(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, types.APIResponse{Success: false, Error: types.FromAppError(err)})
}

func writeValidationErrors(w http.ResponseWriter, errs []types.FieldError) {
	writeJSON(w, http.StatusBadRequest, types.APIResponse{Success: false, Errors: errs})
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, types.APIResponse{
		Success: false,
		Error:   &types.APIError{Code: string(appErr.CodeInvalid), Message: msg},
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeBadRequest(w, "invalid json")
		return false
	}
	return true
}
