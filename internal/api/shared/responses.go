package shared

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/topster/topster-api/internal/platform/logger"
	"github.com/topster/topster-api/internal/redact"
)

// RootResponse is the envelope of every JSON response. Empty fields are omitted.
type RootResponse struct {
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Stable response codes. Clients switch on these, never on messages.
const (
	CodeDuplicateUsername         = "USER-001"
	CodeDuplicateEmail            = "USER-002"
	CodeUserNotFound              = "USER-003"
	CodeInvalidCredentials        = "USER-004"
	CodeInvalidVerificationCode   = "USER-005"
	CodeInvalidRefreshToken       = "USER-006"
	CodeMissingToken              = "AUTH-001"
	CodeInvalidToken              = "AUTH-002"
	CodeExpiredToken              = "AUTH-003"
	CodeOAuthExchangeFailed       = "OAUTH-001"
	CodeMalformedProviderResponse = "OAUTH-002"
	CodeUnknownProvider           = "OAUTH-003"
	CodeInvalidRequest            = "COMMON-001"
	CodeValidation                = "COMMON-002"
	CodeInternal                  = "COMMON-500"
)

// ResponseOption defines a function to customize response behavior.
type ResponseOption func(*responseOptions)

// responseOptions holds configurable options for error responses.
type responseOptions struct {
	elevateLogLevel bool
}

// WithElevatedLogLevel returns a ResponseOption that raises 4xx errors to WARN level
// instead of the default DEBUG level.
func WithElevatedLogLevel() ResponseOption {
	return func(opts *responseOptions) {
		opts.elevateLogLevel = true
	}
}

// RespondWithJSON writes a JSON response with the given status code and data.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode JSON response", "error", err)
	}
}

// RespondWithData writes a RootResponse carrying message and data.
func RespondWithData(w http.ResponseWriter, r *http.Request, status int, message string, data interface{}) {
	RespondWithJSON(w, r, status, RootResponse{Message: message, Data: data})
}

// RespondWithError writes a RootResponse error with the given code and message.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	logger.FromContext(r.Context()).Debug("sending error response",
		"status_code", status,
		"code", code,
		"message", message,
		"path", r.URL.Path,
		"method", r.Method)

	RespondWithJSON(w, r, status, RootResponse{Code: code, Message: message})
}

// RespondWithErrorAndLog writes an error envelope and logs the detailed error.
// Only the safe message is sent to the client; the error is redacted before logging.
//
// Log level strategy:
// - 5xx errors: Always logged at ERROR level
// - 4xx errors: By default logged at DEBUG level
// - 429 Too Many Requests: Logged at WARN level
//
// WithElevatedLogLevel() raises other 4xx errors to WARN.
func RespondWithErrorAndLog(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	code string,
	userMessage string,
	err error,
	opts ...ResponseOption,
) {
	logAttrs := []slog.Attr{
		slog.String("trace_id", GetTraceID(r.Context())),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status_code", status),
		slog.String("code", code),
		slog.String("user_message", userMessage),
	}

	if err != nil {
		logAttrs = append(logAttrs,
			slog.String("error", redact.Error(err)),
			slog.String("error_type", fmt.Sprintf("%T", err)))
	}

	responseOpts := responseOptions{}
	for _, opt := range opts {
		opt(&responseOpts)
	}

	logLevel := slog.LevelDebug
	switch {
	case status >= http.StatusInternalServerError:
		logLevel = slog.LevelError
	case status == http.StatusTooManyRequests:
		logLevel = slog.LevelWarn
	case responseOpts.elevateLogLevel && status >= http.StatusBadRequest:
		logLevel = slog.LevelWarn
	}

	logger.FromContext(r.Context()).LogAttrs(r.Context(), logLevel, "API error response", logAttrs...)

	RespondWithJSON(w, r, status, RootResponse{Code: code, Message: userMessage})
}
