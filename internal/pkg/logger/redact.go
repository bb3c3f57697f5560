package logger

import "strings"

// RedactEmail masks an email address for safe logging.
// "john.doe@example.com" → "jo***@example.com"
// Short local parts (≤2 chars) are fully masked: "ab@example.com" → "***@example.com"
func RedactEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return "***@***"
	}
	name := parts[0]
	if len(name) > 2 {
		return name[:2] + "***@" + parts[1]
	}
	return "***@" + parts[1]
}

// RedactToken masks a credential, keeping only a short prefix so log lines
// from the same session can still be correlated.
// "Bearer tok_abc123" → "Bearer tok_***", "tok_abc123" → "tok_***"
func RedactToken(token string) string {
	const scheme = "Bearer "
	if strings.HasPrefix(token, scheme) {
		return scheme + RedactToken(strings.TrimPrefix(token, scheme))
	}
	if len(token) <= 4 {
		return "***"
	}
	return token[:4] + "***"
}
