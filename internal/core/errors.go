package core

import "errors"

// Error codes reported to connections.
const (
	ErrCodeMissingToken = "missing_token"
	ErrCodeInvalidToken = "invalid_token"
	ErrCodeUserNotFound = "user_not_found"

	ErrCodeRoomNotFound = "room_not_found"
	ErrCodeNotInRoom    = "not_in_room"
	ErrCodeEmptyMessage = "empty_message"

	ErrCodeMessageNotSaved    = "message_not_saved"
	ErrCodeHistoryUnavailable = "history_unavailable"
)

// Credential failures a TokenVerifier may return. The coordinator reports
// them to the requesting connection only and performs no state change.
var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
	ErrUserNotFound = errors.New("user not found")
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}

// authCodeFor maps a verifier failure to its wire code.
func authCodeFor(err error) string {
	switch {
	case errors.Is(err, ErrMissingToken):
		return ErrCodeMissingToken
	case errors.Is(err, ErrUserNotFound):
		return ErrCodeUserNotFound
	default:
		return ErrCodeInvalidToken
	}
}
