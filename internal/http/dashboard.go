package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	tmplDashboard = "dashboard.html"
	tmplError     = "error.html"
)

// dashboardPage renders one page of the dashboard shell
func (s *Server) dashboardPage(title, active string) gin.HandlerFunc {
	return func(c *gin.Context) {
		f := flow(c)
		flash := f.PopFlash()
		s.saveFlow(c, f)

		c.HTML(http.StatusOK, tmplDashboard, DashboardPageData{
			Title:  title,
			Active: active,
			Flash:  flash,
			User:   s.currentUser(c),
		})
	}
}

// health reports liveness and, when wired, the remember-me purge history
func (s *Server) health(c *gin.Context) {
	resp := gin.H{
		"status":  "healthy",
		"service": "myloggi",
	}

	if s.cleanup != nil {
		succeeded, failed, removed := s.cleanup.GetSummary()
		status := gin.H{
			"runs_succeeded": succeeded,
			"runs_failed":    failed,
			"removed":        removed,
		}
		if last, ok := s.cleanup.LastResult(); ok {
			status["last_run"] = last
		}
		resp["cleanup"] = status
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) notFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, tmplError, ErrorPageData{
		Title:   "Page not found",
		Message: "The page you are looking for does not exist.",
	})
}
