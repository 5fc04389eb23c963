package auth

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
)

// EnsureSecret returns the configured signing secret, or generates a random
// one for this process lifetime when none is set. Generated secrets do not
// survive a restart: every issued token dies with the process. Fine for
// development, wrong for production.
func EnsureSecret(configured string, log *slog.Logger) []byte {
	if configured != "" {
		return []byte(configured)
	}
	buf := make([]byte, 64)
	if _, err := rand.Read(buf); err != nil {
		panic("auth: cannot generate signing secret: " + err.Error())
	}
	log.Warn("JWT_SECRET is not set; using a temporary generated secret, tokens will not survive a restart")
	return []byte(hex.EncodeToString(buf))
}
