package bridge

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// authorize validates the upgrade request's bearer token when auth is
// enabled. The token comes from the Authorization header or, for
// clients that cannot set headers on WebSocket dials, a token query
// parameter.
func (s *Server) authorize(r *http.Request) error {
	if !s.config.Auth.Enabled {
		return nil
	}

	tokenStr := ""
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		tokenStr = strings.TrimPrefix(h, "Bearer ")
	} else {
		tokenStr = r.URL.Query().Get("token")
	}
	if tokenStr == "" {
		return fmt.Errorf("missing bearer token")
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		return []byte(s.config.Auth.Secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return fmt.Errorf("invalid token")
	}
	return nil
}
