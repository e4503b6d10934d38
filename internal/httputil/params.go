package httputil

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// OTPBoxes collects the per-digit OTP inputs named prefix-0 .. prefix-(n-1).
// A single combined field named prefix wins when it is posted.
func OTPBoxes(c *gin.Context, prefix string, n int) []string {
	if combined := strings.TrimSpace(c.PostForm(prefix)); combined != "" {
		return strings.Split(combined, "")
	}

	boxes := make([]string, n)
	for i := range boxes {
		boxes[i] = strings.TrimSpace(c.PostForm(fmt.Sprintf("%s-%d", prefix, i)))
	}
	return boxes
}

// IsChecked reports whether a checkbox was submitted as checked
func IsChecked(c *gin.Context, name string) bool {
	switch strings.ToLower(strings.TrimSpace(c.PostForm(name))) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}
