// Package server exposes the upload web surface: a single-page form,
// batch processing of the uploaded workbook, and per-session artifact
// downloads.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/UnknownOlympus/waypoint/internal/kml"
	"github.com/UnknownOlympus/waypoint/internal/models"
	"github.com/UnknownOlympus/waypoint/internal/spreadsheet"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

//go:embed templates/*.html
var templatesFS embed.FS

// allowedExtensions lists the accepted upload file types.
var allowedExtensions = map[string]bool{".xlsx": true, ".xls": true}

// BatchRunner resolves an ordered sequence of rows into a batch result.
type BatchRunner interface {
	Run(ctx context.Context, rows []models.Row) models.BatchResult
}

// Server handles the upload form, batch processing and downloads.
type Server struct {
	runner         BatchRunner  // Pipeline that resolves the uploaded rows
	log            *slog.Logger // Logger for request handling
	downloadDir    string       // Persistent folder for produced artifacts
	maxUploadBytes int64        // Upload size limit
	metricsHandler http.Handler // Prometheus scrape handler
	engine         *gin.Engine
}

// New creates the Server and registers its routes. maxUploadMB bounds
// the accepted upload size; metricsHandler serves GET /metrics.
func New(
	runner BatchRunner,
	log *slog.Logger,
	downloadDir string,
	maxUploadMB int64,
	metricsHandler http.Handler,
) *Server {
	const bytesPerMB = 1 << 20

	srv := &Server{
		runner:         runner,
		log:            log,
		downloadDir:    downloadDir,
		maxUploadBytes: maxUploadMB * bytesPerMB,
		metricsHandler: metricsHandler,
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.MaxMultipartMemory = srv.maxUploadBytes
	engine.SetHTMLTemplate(template.Must(template.New("").ParseFS(templatesFS, "templates/*.html")))

	engine.GET("/", srv.handleIndex)
	engine.POST("/process", srv.handleProcess)
	engine.GET("/download/:session/:filename", srv.handleDownload)
	engine.GET("/healthz", srv.handleHealthz)
	engine.GET("/metrics", gin.WrapH(metricsHandler))

	srv.engine = engine
	return srv
}

// Handler returns the underlying HTTP handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves HTTP on the given port until the context is canceled, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context, port int) error {
	const (
		readTimeout     = 30 * time.Second
		writeTimeout    = 5 * time.Minute // batch resolution happens inside the request
		shutdownTimeout = 10 * time.Second
	)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.engine,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	s.log.InfoContext(ctx, "Upload server started", "port", port)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down upload server: %w", err)
		}
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("upload server failed: %w", err)
		}
		return nil
	}
}

func (s *Server) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{})
}

// handleProcess accepts one uploaded workbook, resolves its rows and
// publishes both artifacts into a fresh session folder. Artifacts are
// written to a scratch directory first and only copied to the download
// folder on full success, so a failed batch never leaves partial output.
func (s *Server) handleProcess(c *gin.Context) {
	ctx := c.Request.Context()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		s.renderError(c, http.StatusBadRequest, "No file uploaded")
		return
	}
	if fileHeader.Filename == "" {
		s.renderError(c, http.StatusBadRequest, "No file selected")
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedExtensions[ext] {
		s.renderError(c, http.StatusBadRequest, "Invalid file type. Please upload an Excel file (.xlsx or .xls)")
		return
	}
	if fileHeader.Size > s.maxUploadBytes {
		s.renderError(c, http.StatusBadRequest, "File too large")
		return
	}

	tempDir, err := os.MkdirTemp("", "venues-*")
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to create scratch directory", "error", err)
		s.renderError(c, http.StatusInternalServerError, "Error processing file")
		return
	}
	defer os.RemoveAll(tempDir)

	inputName := filepath.Base(fileHeader.Filename)
	inputPath := filepath.Join(tempDir, inputName)
	if err = c.SaveUploadedFile(fileHeader, inputPath); err != nil {
		s.log.ErrorContext(ctx, "Failed to save upload", "error", err)
		s.renderError(c, http.StatusInternalServerError, "Error processing file")
		return
	}

	rows, err := spreadsheet.Read(inputPath)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to read uploaded workbook", "file", inputName, "error", err)
		s.renderError(c, http.StatusBadRequest, fmt.Sprintf("Error processing file: %v", err))
		return
	}

	results := s.runner.Run(ctx, rows)

	baseName := strings.TrimSuffix(inputName, ext)
	excelName := baseName + "_output.xlsx"
	kmlName := baseName + ".kml"

	excelPath := filepath.Join(tempDir, excelName)
	kmlPath := filepath.Join(tempDir, kmlName)

	if err = spreadsheet.Write(excelPath, rows, results); err != nil {
		s.log.ErrorContext(ctx, "Failed to write spreadsheet artifact", "error", err)
		s.renderError(c, http.StatusInternalServerError, "Error processing file")
		return
	}
	if err = kml.Write(kmlPath, rows, results); err != nil {
		s.log.ErrorContext(ctx, "Failed to write placemark artifact", "error", err)
		s.renderError(c, http.StatusInternalServerError, "Error processing file")
		return
	}

	sessionID := uuid.NewString()
	sessionDir := filepath.Join(s.downloadDir, sessionID)
	if err = os.MkdirAll(sessionDir, 0o755); err != nil {
		s.log.ErrorContext(ctx, "Failed to create session folder", "error", err)
		s.renderError(c, http.StatusInternalServerError, "Error processing file")
		return
	}

	if err = copyFile(excelPath, filepath.Join(sessionDir, excelName)); err == nil {
		err = copyFile(kmlPath, filepath.Join(sessionDir, kmlName))
	}
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to publish artifacts", "error", err)
		os.RemoveAll(sessionDir)
		s.renderError(c, http.StatusInternalServerError, "Error processing file")
		return
	}

	s.log.InfoContext(ctx, "Batch processed",
		"file", inputName, "rows", len(rows), "session", sessionID)

	c.HTML(http.StatusOK, "result.html", gin.H{
		"SessionID": sessionID,
		"ExcelFile": excelName,
		"KMLFile":   kmlName,
	})
}

func (s *Server) handleDownload(c *gin.Context) {
	session := c.Param("session")
	filename := c.Param("filename")

	// Path traversal guard: both segments must be plain names.
	if session != filepath.Base(session) || filename != filepath.Base(filename) ||
		strings.Contains(session, "..") || strings.Contains(filename, "..") {
		c.String(http.StatusBadRequest, "Invalid download path")
		return
	}

	path := filepath.Join(s.downloadDir, session, filename)
	if _, err := os.Stat(path); err != nil {
		c.String(http.StatusNotFound, "Error: File not found")
		return
	}

	c.FileAttachment(path, filename)
}

func (s *Server) handleHealthz(c *gin.Context) {
	if err := os.MkdirAll(s.downloadDir, 0o755); err != nil {
		c.String(http.StatusServiceUnavailable, "download folder unavailable")
		return
	}
	c.String(http.StatusOK, "OK")
}

func (s *Server) renderError(c *gin.Context, status int, message string) {
	c.HTML(status, "index.html", gin.H{"Error": message})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err = io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}

	return out.Close()
}
