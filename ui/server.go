package ui

import (
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"packetstruct/app"
	"packetstruct/internal/errors"

	"github.com/gin-gonic/gin"
)

// Upload size cap; structure sheets are small, anything larger is a
// mistake.
const maxUploadSize = 50 * 1024 * 1024

// Server exposes the packet structure API
type Server struct {
	router  *gin.Engine
	service *app.StructureService
}

// NewServer creates the API server and registers its routes
func NewServer(service *app.StructureService) *Server {
	s := &Server{
		router:  gin.Default(),
		service: service,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleDocs)
	s.router.POST("/uploadExcel", s.handleUploadExcel)
	s.router.GET("/getCurrentStructure", s.handleGetCurrentStructure)
	s.router.GET("/getAllStructureMetadata", s.handleGetAllStructureMetadata)
	s.router.POST("/getStructureByName", s.handleGetStructureByName)
	s.router.POST("/changeCurrentStructure", s.handleChangeCurrentStructure)
	s.router.GET("/getStructureSummary", s.handleGetStructureSummary)
}

// Router returns the underlying handler, for tests
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the server on the given address
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}

// handleUploadExcel accepts a multipart .xlsx upload, spools it to a temp
// file and runs the upload pipeline.
func (s *Server) handleUploadExcel(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".xlsx") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only .xlsx files are supported"})
		return
	}

	if header.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds the 50MB upload limit"})
		return
	}

	tmp, err := os.CreateTemp("", "packetstruct-*.xlsx")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store uploaded file"})
		return
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store uploaded file"})
		return
	}
	tmp.Close()

	collectionName, err := s.service.UploadWorkbook(c.Request.Context(), tmpPath)
	if err != nil {
		log.Printf("[Server] Upload of %q failed: %v", header.Filename, err)
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	log.Printf("[Server] Upload of %q stored as %q", header.Filename, collectionName)
	c.JSON(http.StatusOK, gin.H{"message": "File processed successfully"})
}

func (s *Server) handleGetCurrentStructure(c *gin.Context) {
	docs, err := s.service.CurrentStructure(c.Request.Context())
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (s *Server) handleGetAllStructureMetadata(c *gin.Context) {
	entries, err := s.service.AllMetadata(c.Request.Context())
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}

type structureNameRequest struct {
	StructureName string `json:"structureName" binding:"required"`
}

func (s *Server) handleGetStructureByName(c *gin.Context) {
	var req structureNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "structureName is required"})
		return
	}

	docs, err := s.service.StructureByName(c.Request.Context(), req.StructureName)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, docs)
}

type structureIDRequest struct {
	StructureID string `json:"structureId" binding:"required"`
}

func (s *Server) handleChangeCurrentStructure(c *gin.Context) {
	var req structureIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "structureId is required"})
		return
	}

	if err := s.service.ChangeCurrent(c.Request.Context(), req.StructureID); err != nil {
		// Existing clients expect every change-current failure,
		// not-found included, as a 500.
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Current structure changed successfully"})
}

func (s *Server) handleGetStructureSummary(c *gin.Context) {
	summary, err := s.service.CurrentSummary(c.Request.Context())
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// statusForError maps application error codes onto HTTP statuses
func statusForError(err error) int {
	switch errors.GetCode(err) {
	case errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeValidationError:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
