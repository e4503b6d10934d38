package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"

	"github.com/myloggi/internal/apipaths"
)

// routeGuard redirects on the configured paths based on the token cookie:
// signed-in users are kept off the sign-in and sign-up pages, everyone else
// is sent to sign-in. Unlisted paths pass through untouched.
func (s *Server) routeGuard() gin.HandlerFunc {
	matched := make(map[string]struct{}, len(s.config.Guard.Paths))
	for _, p := range s.config.Guard.Paths {
		matched[p] = struct{}{}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if _, ok := matched[path]; !ok {
			c.Next()
			return
		}

		hasToken := s.hasValidToken(c)
		authPage := path == apipaths.SignIn || path == apipaths.SignUp

		if hasToken && authPage {
			c.Redirect(http.StatusFound, apipaths.Home)
			c.Abort()
			return
		}
		if !hasToken && !authPage {
			c.Redirect(http.StatusFound, apipaths.SignIn)
			c.Abort()
			return
		}

		c.Next()
	}
}

// hasValidToken reports whether the token cookie is present. With an upstream
// secret configured the token must also verify; a bad one is cleared.
func (s *Server) hasValidToken(c *gin.Context) bool {
	tokenStr := s.tokenFromCookie(c)
	if tokenStr == "" {
		return false
	}

	secret := s.config.Guard.UpstreamJWTSecret
	if secret == "" {
		return true
	}

	_, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		s.logger.InfoContext(c.Request.Context(), "discarding invalid token cookie", "error", err)
		s.clearTokenCookie(c)
		return false
	}
	return true
}
