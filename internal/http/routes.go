package http

import (
	"github.com/gin-gonic/gin"

	"github.com/myloggi/internal/apipaths"
	"github.com/myloggi/internal/ratelimit"
)

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	// Health check endpoint (outside the guard)
	s.engine.GET(apipaths.Health, s.health)

	s.engine.StaticFS("/assets", staticFiles())

	pages := s.engine.Group("/")
	pages.Use(s.routeGuard())
	{
		s.setupAuthRoutes(pages)
		s.setupDashboardRoutes(pages)
	}

	s.engine.NoRoute(s.notFound)
}

func (s *Server) setupAuthRoutes(rg *gin.RouterGroup) {
	limited := ratelimit.Middleware(s.limiter, ratelimit.ClientIP, s.logger)

	rg.GET(apipaths.SignIn, s.showSignIn)
	rg.POST(apipaths.SignIn, limited, s.signIn)

	rg.GET(apipaths.SignUp, s.showSignUp)
	rg.POST(apipaths.SignUp, limited, s.signUp)

	rg.GET(apipaths.OTP, s.showOTP)
	rg.POST(apipaths.OTP, limited, s.verifyOTP)

	rg.GET(apipaths.ForgotPassword, s.showForgetPassword)
	rg.POST(apipaths.ForgotPassword, limited, s.forgetPassword)

	rg.GET(apipaths.NewPassword, s.showNewPassword)
	rg.POST(apipaths.NewPassword, limited, s.newPassword)

	rg.POST(apipaths.Logout, s.logout)
}

func (s *Server) setupDashboardRoutes(rg *gin.RouterGroup) {
	rg.GET(apipaths.Home, s.dashboardPage("Dashboard", "home"))
	rg.GET(apipaths.Profile, s.dashboardPage("Profile", "profile"))
	rg.GET(apipaths.Settings, s.dashboardPage("Settings", "settings"))
	rg.GET(apipaths.ProtectedPage, s.dashboardPage("Protected Page", "protected"))
}
