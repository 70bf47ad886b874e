// Package redact removes credentials and personal data from strings before
// they are logged. Error messages in this service can carry session tokens,
// OAuth authorization codes, provider client secrets, connection strings and
// email addresses; none of those may reach log output.
package redact

import "regexp"

// Placeholders substituted for redacted content.
const (
	RedactionPlaceholder          = "[REDACTED]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedJWTPlaceholder        = "[REDACTED_JWT]"
	RedactedEmailPlaceholder      = "[REDACTED_EMAIL]"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// rules are applied in order; earlier rules take precedence over the more
// generic ones that follow.
var rules = []rule{
	// Userinfo in postgres:// and redis:// connection strings
	{regexp.MustCompile(`(?i)\b(postgres|postgresql|redis|rediss)://[^@\s/]+@`), RedactedCredentialPlaceholder},

	// Signed session tokens
	{regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`), RedactedJWTPlaceholder},

	// Opaque bearer credentials such as provider access tokens
	{regexp.MustCompile(`(?i)\b(bearer)\s+[A-Za-z0-9\-._~+/]+=*`), "$1 " + RedactionPlaceholder},

	// OAuth2 form and query parameters
	{
		regexp.MustCompile(`(?i)\b(code|client_secret|access_token|refresh_token|id_token)=[^&\s"]+`),
		"$1=" + RedactionPlaceholder,
	},

	// The same fields inside JSON bodies
	{
		regexp.MustCompile(`(?i)"(access_token|refresh_token|id_token|client_secret|password)"\s*:\s*"[^"]*"`),
		`"$1":"` + RedactionPlaceholder + `"`,
	},

	// password=..., pwd: ...
	{regexp.MustCompile(`(?i)(password|passwd|pwd)([=:\s]?['"]?)[^'"&\s]{3,}`), RedactedCredentialPlaceholder},

	// Generic key/secret/token assignments
	{
		regexp.MustCompile(`(?i)(api[_-]?key|secret|token)(\s*[:=]\s*['"]?)[A-Za-z0-9_\-.~+/]{8,}`),
		RedactedKeyPlaceholder,
	},

	// Email addresses
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), RedactedEmailPlaceholder},

	// Stack trace fragments
	{regexp.MustCompile(`(?:goroutine \d+|panic:)[\s\S]*?(\n\t.*)+`), "[STACK_TRACE_REDACTED]"},

	// SQL statements
	{
		regexp.MustCompile(
			`(?i)\b(SELECT|INSERT|UPDATE|DELETE)\b[\s\w,*()$]+\b(?:FROM|INTO|SET)\b(?:[\s\w,*()='"$]+)?`,
		),
		"[REDACTED_SQL]",
	},

	// File system paths
	{regexp.MustCompile(`(/[\w.-]+){2,}`), RedactedPathPlaceholder},
}

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.replacement)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
