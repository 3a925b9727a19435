package handler

import (
	"crypto/subtle"
	"encoding/hex"
	"net/http"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/gauravMishra08/MKBBbilling/internal/domain/auth"
)

// APIKeyHeader carries the client's API key on guarded routes.
const APIKeyHeader = "X-API-Key"

// SecurityGuard authenticates mutating requests via HMAC-SHA256 hashed API
// keys. With an empty pepper the guard is disabled and passes everything
// through, which is the expected state for a single-user install on
// localhost.
type SecurityGuard struct {
	apikeys auth.Repository
	pepper  []byte
}

// NewSecurityGuard creates a SecurityGuard with the given API key
// repository and HMAC pepper.
func NewSecurityGuard(apikeys auth.Repository, pepper []byte) *SecurityGuard {
	return &SecurityGuard{
		apikeys: apikeys,
		pepper:  pepper,
	}
}

// Wrap guards next with API key authentication. The presented key is
// hashed, looked up, and compared in constant time to prevent timing
// side-channels.
func (s *SecurityGuard) Wrap(next http.Handler) http.Handler {
	if len(s.pepper) == 0 {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(APIKeyHeader)
		if key == "" {
			writeError(w, r, http.StatusUnauthorized, "missing API key")
			return
		}

		hash := auth.HashKey(key, s.pepper)
		info, err := s.apikeys.FindByHash(r.Context(), hash)
		if err != nil {
			zctx.From(r.Context()).Debug("API key lookup failed", zap.Error(err))
			writeError(w, r, http.StatusUnauthorized, "unauthorized")
			return
		}

		// The stored hash could differ from what we computed if the
		// repository returns a stale row.
		computed, err := hex.DecodeString(hash)
		if err != nil {
			writeError(w, r, http.StatusUnauthorized, "unauthorized")
			return
		}
		stored, err := hex.DecodeString(info.KeyHash)
		if err != nil {
			writeError(w, r, http.StatusUnauthorized, "unauthorized")
			return
		}
		if subtle.ConstantTimeCompare(computed, stored) != 1 {
			writeError(w, r, http.StatusUnauthorized, "unauthorized")
			return
		}

		next.ServeHTTP(w, r)
	})
}
