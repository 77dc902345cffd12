package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/spacesedan/sentiflow-vader/internal/batch"
	"github.com/spacesedan/sentiflow-vader/internal/models"
	"github.com/spacesedan/sentiflow-vader/internal/report"
	"github.com/spacesedan/sentiflow-vader/internal/sentiment"
	"github.com/spacesedan/sentiflow-vader/internal/tabular"
)

const (
	REQUEST_ID_HEADER = "X-Request-ID"
	FORMAT_JSON       = "json"
)

type Classifier interface {
	Classify(ctx context.Context, text string) (models.ClassificationRecord, error)
}

type BatchProcessor interface {
	Process(ctx context.Context, dataset *tabular.Dataset, column string, progress batch.ProgressFunc) (*models.BatchResult, error)
}

type Server struct {
	Classifier        Classifier
	Processor         BatchProcessor
	TranslatorHealthy *atomic.Bool
	MaxUploadBytes    int64
}

func NewServer(classifier Classifier, processor BatchProcessor, translatorHealthy *atomic.Bool, maxUploadBytes int64) *Server {
	if translatorHealthy == nil {
		translatorHealthy = &atomic.Bool{}
	}
	return &Server{
		Classifier:        classifier,
		Processor:         processor,
		TranslatorHealthy: translatorHealthy,
		MaxUploadBytes:    maxUploadBytes,
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), requestLogger())
	r.MaxMultipartMemory = s.MaxUploadBytes

	r.GET("/healthz", s.Health)

	v1 := r.Group("/v1")
	v1.POST("/classify", s.Classify)
	v1.POST("/batch", s.Batch)

	return r
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(REQUEST_ID_HEADER)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(REQUEST_ID_HEADER, id)
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("[HTTPServer] Request handled",
			slog.String("request_id", c.GetString("request_id")),
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("elapsed", time.Since(start)))
	}
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":             "ok",
		"translator_healthy": s.TranslatorHealthy.Load(),
	})
}

type ClassifyRequest struct {
	Text string `json:"text"`
}

func (s *Server) Classify(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: expected a JSON body with a text field"})
		return
	}

	record, err := s.Classifier.Classify(c.Request.Context(), req.Text)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

type BatchResponse struct {
	Rows         int                      `json:"rows"`
	TextColumn   string                   `json:"text_column"`
	Distribution models.LabelDistribution `json:"distribution"`
	FailedRows   []int                    `json:"failed_rows"`
	Results      []models.RowResult       `json:"results"`
	Agreement    *report.Agreement        `json:"agreement,omitempty"`
}

func (s *Server) Batch(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.MaxUploadBytes)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(c, err)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: a multipart file field named file is required"})
		return
	}

	column := strings.TrimSpace(c.PostForm("column"))
	if column == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: column is required"})
		return
	}

	format := strings.ToLower(c.DefaultPostForm("format", FORMAT_JSON))
	var exportFormat tabular.Format
	if format != FORMAT_JSON {
		exportFormat, err = tabular.ParseFormat(format)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("cannot open upload: %v", err)})
		return
	}
	defer f.Close()

	dataset, err := tabular.Parse(header.Filename, f)
	if err != nil {
		s.writeError(c, err)
		return
	}

	requestID := c.GetString("request_id")
	result, err := s.Processor.Process(c.Request.Context(), dataset, column, progressLogger(requestID))
	if err != nil {
		s.writeError(c, err)
		return
	}

	var agreement *report.Agreement
	if manual := strings.TrimSpace(c.PostForm("manual_column")); manual != "" {
		agreement, err = report.Compare(result, manual)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	if format == FORMAT_JSON {
		c.JSON(http.StatusOK, BatchResponse{
			Rows:         result.Len(),
			TextColumn:   result.TextColumn,
			Distribution: result.Distribution,
			FailedRows:   result.FailedRows,
			Results:      result.Results,
			Agreement:    agreement,
		})
		return
	}

	payload, err := tabular.Export(result, exportFormat)
	if err != nil {
		slog.Error("[HTTPServer] Export failed",
			slog.String("request_id", requestID),
			slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export results"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exportFormat.FileName()))
	c.Data(http.StatusOK, exportFormat.MIMEType(), payload)
}

// progressLogger logs at most once per tenth of the batch.
func progressLogger(requestID string) batch.ProgressFunc {
	next := 0.1
	return func(fraction float64) {
		if fraction < next && fraction < 1.0 {
			return
		}
		for next <= fraction {
			next += 0.1
		}
		slog.Debug("[HTTPServer] Batch progress",
			slog.String("request_id", requestID),
			slog.Float64("progress", fraction))
	}
}

func (s *Server) writeError(c *gin.Context, err error) {
	var (
		invalid  *sentiment.InvalidInputError
		parseErr *tabular.ParseError
		tooLarge *http.MaxBytesError
	)

	switch {
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &parseErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.As(err, &tooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
	case sentiment.IsScorerUnavailable(err):
		slog.Error("[HTTPServer] Scorer unavailable",
			slog.String("request_id", c.GetString("request_id")),
			slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusRequestTimeout, gin.H{"error": err.Error()})
	default:
		slog.Error("[HTTPServer] Request failed",
			slog.String("request_id", c.GetString("request_id")),
			slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
