package types

import (
	"net/http"

	appErr "github.com/ace-TI85/dev-connector/pkg/errors"
)

func FromAppError(err error) *APIError {
	if err == nil {
		return nil
	}
	code := string(appErr.CodeUnknown)
	if e, ok := err.(*appErr.AppError); ok {
		code = string(e.Code)
		return &APIError{Code: code, Message: e.Message}
	}
	return &APIError{Code: code, Message: err.Error()}
}

// StatusForCode maps a stable error code to the HTTP status the API has
// always spoken. Conflicts (already liked / not liked) and duplicate
// registration come back as 400, ownership failures as 401.
func StatusForCode(code appErr.Code) int {
	switch code {
	case appErr.CodeInvalid, appErr.CodeAlreadyExists, appErr.CodeConflict:
		return http.StatusBadRequest
	case appErr.CodeMissingCredential, appErr.CodeInvalidCredential, appErr.CodeUnauthorized, appErr.CodeForbidden:
		return http.StatusUnauthorized
	case appErr.CodeNotFound:
		return http.StatusNotFound
	case appErr.CodeUnavailable, appErr.CodeDeadline:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
