package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/myloggi/internal/constants"
)

// setTokenCookie stores the account token as a Secure, SameSite=Strict session cookie
func (s *Server) setTokenCookie(c *gin.Context, value string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     s.config.Cookie.TokenName,
		Value:    value,
		Path:     "/",
		Domain:   s.config.Cookie.Domain,
		Secure:   s.config.Cookie.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func (s *Server) clearTokenCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     s.config.Cookie.TokenName,
		Value:    "",
		Path:     "/",
		Domain:   s.config.Cookie.Domain,
		MaxAge:   -1,
		Secure:   s.config.Cookie.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func (s *Server) tokenFromCookie(c *gin.Context) string {
	value, err := c.Cookie(s.config.Cookie.TokenName)
	if err != nil {
		return ""
	}
	return value
}

// deviceID returns the browser's remember-me id. With create set a missing
// or malformed id is replaced by a new one.
func (s *Server) deviceID(c *gin.Context, create bool) string {
	if value, err := c.Cookie(constants.DeviceCookie); err == nil {
		if _, err := uuid.Parse(value); err == nil {
			return value
		}
	}
	if !create {
		return ""
	}

	id := uuid.NewString()
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     constants.DeviceCookie,
		Value:    id,
		Path:     "/",
		Domain:   s.config.Cookie.Domain,
		MaxAge:   constants.DeviceCookieMaxAge,
		Secure:   s.config.Cookie.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
