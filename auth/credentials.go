package auth

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// The app has a fixed credential list, no registration. ROTEIRO_USERS holds
// comma-separated user:secret pairs; a secret starting with "$2" is a bcrypt
// hash, anything else is compared literally (constant time).
type Credentials struct {
	secrets map[string]string
}

func ParseCredentials(raw string) (*Credentials, error) {
	secrets := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, secret, ok := strings.Cut(pair, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" || secret == "" {
			return nil, fmt.Errorf("malformed credential entry %q", pair)
		}
		secrets[name] = secret
	}
	if len(secrets) == 0 {
		return nil, fmt.Errorf("no credentials configured")
	}
	return &Credentials{secrets: secrets}, nil
}

// Verify checks a username/password pair against the list.
func (c *Credentials) Verify(username, password string) bool {
	secret, ok := c.secrets[username]
	if !ok {
		return false
	}
	if strings.HasPrefix(secret, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(secret), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(secret), []byte(password)) == 1
}

func (c *Credentials) Has(username string) bool {
	_, ok := c.secrets[username]
	return ok
}
