package globals

import "os"

var JwtSecret = []byte(secretFromEnv())

func secretFromEnv() string {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return s
	}
	return "roteiro-dev-secret"
}

// Context keys
type ContextKey string

const UsernameKey ContextKey = "username"

// SessionCookie is the name of the session cookie issued on login.
const SessionCookie = "sessao"
