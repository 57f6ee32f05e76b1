package ui

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
)

//go:embed docs/api.md
var apiDoc []byte

// handleDocs serves the API reference rendered from the embedded markdown
func (s *Server) handleDocs(c *gin.Context) {
	html := markdown.ToHTML(apiDoc, nil, nil)
	c.Data(http.StatusOK, "text/html; charset=utf-8", html)
}
