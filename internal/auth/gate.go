// Package auth implements the password gate for the admin view.
package auth

import (
	"strings"

	"golang.org/x/crypto/bcrypt"

	"cardforge/internal/infra/logging"
)

// Gate verifies the shared admin secret. It only ever holds a bcrypt hash;
// a plaintext secret is hashed once at construction and discarded.
type Gate struct {
	hash []byte
}

// New builds a Gate from the configured secret. passwordHash wins when both
// are set. A plaintext password that already looks like a bcrypt hash is used
// as the hash directly. With neither set the gate is disabled and a startup
// warning is logged; that is not a crash.
func New(password, passwordHash string) *Gate {
	switch {
	case passwordHash != "":
		return &Gate{hash: []byte(passwordHash)}
	case looksLikeBcrypt(password):
		logging.Info("admin password appears to already be a bcrypt hash; using it as the hash")
		return &Gate{hash: []byte(password)}
	case password != "":
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			logging.Error("failed to hash admin password; admin login disabled", "error", err)
			return &Gate{}
		}
		logging.Info("hashed admin password in memory; set admin.password_hash for permanent storage")
		return &Gate{hash: h}
	default:
		logging.Warn("no admin password or password hash configured; admin login disabled")
		return &Gate{}
	}
}

// Enabled reports whether a secret is configured.
func (g *Gate) Enabled() bool {
	return len(g.hash) > 0
}

// Verify compares password against the stored hash. A disabled gate never
// verifies.
func (g *Gate) Verify(password string) bool {
	if !g.Enabled() {
		return false
	}
	return bcrypt.CompareHashAndPassword(g.hash, []byte(password)) == nil
}

func looksLikeBcrypt(s string) bool {
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}
