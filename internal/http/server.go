package http

import (
	"context"
	"embed"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/go-pkgz/auth/token"

	"github.com/myloggi/internal/cleanup"
	"github.com/myloggi/internal/config"
	"github.com/myloggi/internal/constants"
	"github.com/myloggi/internal/ratelimit"
	"github.com/myloggi/internal/service"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// Server wraps the HTTP server
type Server struct {
	config        *config.Config
	engine        *gin.Engine
	httpServer    *http.Server
	authService   *service.AuthService
	remember      *service.RememberService
	profileTokens *token.Service
	limiter       *ratelimit.Store
	cleanup       CleanupStatus
	logger        *slog.Logger
}

// CleanupStatus reports the remember-me purge runs shown by the health check
type CleanupStatus interface {
	LastResult() (cleanup.CleanupResult, bool)
	GetSummary() (int, int, int64)
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, authService *service.AuthService, remember *service.RememberService, logger *slog.Logger) *Server {
	// Set Gin mode based on environment
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	// Middleware - order matters
	engine.Use(requestIDMiddleware())
	engine.Use(securityHeadersMiddleware())
	engine.Use(cacheControlMiddleware())
	engine.Use(loggerMiddleware(logger))
	engine.Use(bodyLimitMiddleware(maxBodySize))
	engine.Use(sessions.Sessions(constants.SessionCookie, newSessionStore(cfg)))

	// Request body size limit
	engine.MaxMultipartMemory = maxBodySize

	engine.SetHTMLTemplate(template.Must(template.New("").ParseFS(templatesFS, "templates/*.html")))

	server := &Server{
		config:        cfg,
		engine:        engine,
		authService:   authService,
		remember:      remember,
		profileTokens: newProfileTokenService(cfg),
		limiter:       ratelimit.NewStore(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		logger:        logger,
	}

	// Configure server with timeouts
	server.httpServer = &http.Server{
		Addr:           cfg.ServerAddress,
		Handler:        engine,
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,
		IdleTimeout:    idleTimeout,
		MaxHeaderBytes: 1 << 20, // 1MB max header size
	}

	// Setup routes
	server.setupRoutes()

	return server
}

// newSessionStore builds the cookie store holding the multi-page flow state
func newSessionStore(cfg *config.Config) sessions.Store {
	store := cookie.NewStore([]byte(cfg.Session.Secret))
	store.Options(sessions.Options{
		Path:     "/",
		Domain:   cfg.Cookie.Domain,
		MaxAge:   constants.FlowSessionMaxAge,
		Secure:   cfg.Cookie.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return store
}

// newProfileTokenService signs the profile cookie that carries the signed-in user
func newProfileTokenService(cfg *config.Config) *token.Service {
	return token.NewService(token.Opts{
		SecretReader: token.SecretFunc(func(string) (string, error) {
			return cfg.Session.ProfileSecret, nil
		}),
		TokenDuration:  constants.ProfileTokenDuration,
		CookieDuration: constants.ProfileTokenDuration,
		Issuer:         profileIssuer,
		JWTCookieName:  constants.ProfileCookie,
		SecureCookies:  cfg.Cookie.Secure,
		SameSite:       http.SameSiteStrictMode,
		DisableXSRF:    true, // plain form posts, no XSRF header
	})
}

const (
	profileIssuer = "myloggi"
	maxBodySize   = 1 << 20          // 1MB max request body
	readTimeout   = 30 * time.Second // 30s for reading request
	writeTimeout  = 60 * time.Second // covers one upstream call at the default API timeout
	idleTimeout   = 120 * time.Second
)

// SetCleanupStatus makes the health check report remember-me purge runs
func (s *Server) SetCleanupStatus(status CleanupStatus) {
	s.cleanup = status
}

// Handler exposes the gin engine
func (s *Server) Handler() http.Handler {
	return s.engine
}

// StartBackground starts background housekeeping tied to ctx
func (s *Server) StartBackground(ctx context.Context) {
	s.limiter.StartJanitor(ctx)
}

// Run starts the HTTP server; it returns http.ErrServerClosed after Shutdown
func (s *Server) Run() error {
	s.logger.Info("server listening", "address", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// staticFiles returns the embedded assets rooted at static/
func staticFiles() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
