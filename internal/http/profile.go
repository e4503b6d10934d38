package http

import (
	"github.com/gin-gonic/gin"
	"github.com/go-pkgz/auth/token"
	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"

	"github.com/myloggi/internal/domain"
)

// setProfile writes the signed profile cookie for user
func (s *Server) setProfile(c *gin.Context, user *domain.User) error {
	if user == nil {
		return nil
	}

	claims := token.Claims{
		StandardClaims: jwt.StandardClaims{
			Id:     uuid.NewString(),
			Issuer: profileIssuer,
		},
		User: &token.User{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		},
	}

	_, err := s.profileTokens.Set(c.Writer, claims)
	return err
}

// currentUser reads the signed-in user from the profile cookie; nil when absent or invalid
func (s *Server) currentUser(c *gin.Context) *domain.User {
	claims, _, err := s.profileTokens.Get(c.Request)
	if err != nil || claims.User == nil {
		return nil
	}
	return &domain.User{
		ID:    claims.User.ID,
		Name:  claims.User.Name,
		Email: claims.User.Email,
	}
}

func (s *Server) clearProfile(c *gin.Context) {
	s.profileTokens.Reset(c.Writer)
}
