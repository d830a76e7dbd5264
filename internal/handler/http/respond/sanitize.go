package respond

import (
	"regexp"
)

var (
	// Signed JWTs start with the base64url form of {"alg": and carry two
	// more dot-separated segments. Errors that echo an Authorization
	// header must not leak the token into logs.
	jwtPattern = regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`)

	// Database password pattern (inside a DSN)
	dbPasswordPattern = regexp.MustCompile(`://([^:]+):([^@]+)@`)
)

// SanitizeError returns the error message with credentials masked.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()

	msg = jwtPattern.ReplaceAllString(msg, "eyJ****")
	msg = dbPasswordPattern.ReplaceAllString(msg, "://$1:****@")

	return msg
}
