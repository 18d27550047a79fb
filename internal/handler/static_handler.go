package handler

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// SPAHandler serves the built single-page application. Unknown paths fall
// back to index.html so client-side routes resolve.
type SPAHandler struct {
	dir string
}

// NewSPAHandler creates a handler serving files from dir.
func NewSPAHandler(dir string) *SPAHandler {
	return &SPAHandler{dir: dir}
}

// Serve is installed as the router's NoRoute handler.
func (h *SPAHandler) Serve(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		c.JSON(http.StatusNotFound, ErrorBody{Error: "not found"})
		return
	}
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.Status(http.StatusMethodNotAllowed)
		return
	}

	clean := path.Clean("/" + c.Request.URL.Path)
	file := filepath.Join(h.dir, filepath.FromSlash(clean))
	if info, err := os.Stat(file); err == nil && !info.IsDir() {
		c.File(file)
		return
	}

	index := filepath.Join(h.dir, "index.html")
	if _, err := os.Stat(index); err != nil {
		c.JSON(http.StatusNotFound, ErrorBody{Error: "not found"})
		return
	}
	c.File(index)
}
