// Package api exposes the fact-checking service over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/athenahq/athena/internal/factcheck"
	"github.com/athenahq/athena/internal/inference"
	"github.com/athenahq/athena/internal/model"
	"github.com/athenahq/athena/internal/platform"
	"github.com/athenahq/athena/internal/store"
	"github.com/athenahq/athena/internal/watermark"
)

// responseCollection is the document collection holding processed
// query responses, keyed by query id.
const responseCollection = "query_responses"

// Server wires the HTTP routes to the service layer.
type Server struct {
	factcheck *factcheck.Service
	analyzer  inference.Analyzer
	watermark *watermark.Engine
	store     store.Store
	kv        platform.KeyValueStore
	bus       platform.MessageBus
	topic     string
	engine    *gin.Engine
}

// NewServer builds the router. The document store and message bus are
// optional; when nil, responses are not archived and query events are
// not published.
func NewServer(svc *factcheck.Service, analyzer inference.Analyzer, wm *watermark.Engine, st store.Store, kv platform.KeyValueStore, bus platform.MessageBus, topic string) *Server {
	s := &Server{
		factcheck: svc,
		analyzer:  analyzer,
		watermark: wm,
		store:     st,
		kv:        kv,
		bus:       bus,
		topic:     topic,
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(), corsMiddleware())

	engine.GET("/", s.handleRoot)
	engine.GET("/healthz", s.handleHealth)

	apiGroup := engine.Group("/api")
	{
		apiGroup.POST("/factcheck/query", s.handleFactCheckQuery)
		apiGroup.GET("/factcheck/query/:id", s.handleGetQueryResponse)
		apiGroup.POST("/misinformation/analyze", s.handleAnalyze)
		apiGroup.POST("/watermark/embed", s.handleWatermarkEmbed)
		apiGroup.POST("/watermark/verify", s.handleWatermarkVerify)
		apiGroup.POST("/watermark/extract", s.handleWatermarkExtract)
		apiGroup.GET("/sources", s.handleListSources)
	}

	s.engine = engine
	return s
}

// Handler returns the http.Handler for serving or testing.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run starts the HTTP server and shuts it down cleanly when ctx is
// canceled.
func (s *Server) Run(ctx context.Context, address string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              address,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("http server listening", zap.String("address", address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	zap.L().Info("http server shutting down")
	return srv.Shutdown(shutdownCtx)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		zap.L().Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)))
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to Athena API"})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type factCheckRequest struct {
	Content        string `json:"content" binding:"required"`
	ContentType    string `json:"content_type" binding:"required"`
	OriginalFormat string `json:"original_format"`
	UserID         string `json:"user_id"`
}

func (s *Server) handleFactCheckQuery(c *gin.Context) {
	var req factCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := s.factcheck.ProcessQuery(c.Request.Context(), factcheck.Request{
		Content:        req.Content,
		ContentType:    model.ContentType(req.ContentType),
		OriginalFormat: req.OriginalFormat,
		UserID:         req.UserID,
	})
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, factcheck.ErrEmptyContent),
			errors.Is(err, factcheck.ErrUnsupportedContentType):
			status = http.StatusBadRequest
		case errors.Is(err, factcheck.ErrExtractionFailed):
			status = http.StatusUnprocessableEntity
		case errors.Is(err, factcheck.ErrSearchFailed):
			status = http.StatusBadGateway
		}
		zap.L().Warn("fact check failed", zap.Error(err))
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	s.publishQueryEvent(c.Request.Context(), resp)
	s.archiveResponse(c.Request.Context(), resp)
	c.JSON(http.StatusOK, resp)
}

// archiveResponse records the response in the document store so it can
// be fetched later by query id. Failures are logged, never surfaced.
func (s *Server) archiveResponse(ctx context.Context, resp *model.QueryResponse) {
	if s.kv == nil {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return
	}
	if err := s.kv.SetDocument(ctx, responseCollection, resp.QueryID, doc); err != nil {
		zap.L().Warn("response archive failed",
			zap.String("query_id", resp.QueryID),
			zap.Error(err))
	}
}

func (s *Server) handleGetQueryResponse(c *gin.Context) {
	if s.kv == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "query response archive not configured"})
		return
	}
	id := c.Param("id")
	doc, err := s.kv.GetDocument(c.Request.Context(), responseCollection, id)
	if err != nil {
		zap.L().Error("response lookup failed", zap.String("query_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "response lookup failed"})
		return
	}
	if doc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "query response not found"})
		return
	}
	c.JSON(http.StatusOK, doc)
}

// publishQueryEvent notifies downstream consumers about a processed
// query. Failures are logged, never surfaced to the caller.
func (s *Server) publishQueryEvent(ctx context.Context, resp *model.QueryResponse) {
	if s.bus == nil || s.topic == "" {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if _, err := s.bus.Publish(ctx, s.topic, platform.Message{
		Data: data,
		Attributes: map[string]string{
			"query_id": resp.QueryID,
			"status":   string(resp.VerificationStatus),
		},
	}); err != nil {
		zap.L().Warn("query event publish failed",
			zap.String("query_id", resp.QueryID),
			zap.Error(err))
	}
}

type analyzeRequest struct {
	Text    string            `json:"text" binding:"required"`
	Context map[string]string `json:"context"`
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	analysis, err := s.analyzer.Analyze(c.Request.Context(), req.Text, req.Context)
	if err != nil {
		zap.L().Warn("analysis failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, analysis)
}

type watermarkEmbedRequest struct {
	Content  string            `json:"content" binding:"required"`
	Metadata map[string]string `json:"metadata"`
}

func (s *Server) handleWatermarkEmbed(c *gin.Context) {
	var req watermarkEmbedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"watermarked_content": s.watermark.Embed(req.Content, req.Metadata),
	})
}

type watermarkVerifyRequest struct {
	Content   string `json:"content" binding:"required"`
	Watermark string `json:"watermark" binding:"required"`
}

func (s *Server) handleWatermarkVerify(c *gin.Context) {
	var req watermarkVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.watermark.Verify(req.Content, req.Watermark))
}

type watermarkExtractRequest struct {
	Content string `json:"content" binding:"required"`
}

func (s *Server) handleWatermarkExtract(c *gin.Context) {
	var req watermarkExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.watermark.Extract(req.Content))
}

func (s *Server) handleListSources(c *gin.Context) {
	activeOnly := c.DefaultQuery("active", "true") == "true"
	sources, err := s.store.ListCredibleSources(c.Request.Context(), activeOnly)
	if err != nil {
		zap.L().Error("listing sources failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "listing sources failed"})
		return
	}
	if sources == nil {
		sources = []model.CredibleSource{}
	}
	c.JSON(http.StatusOK, gin.H{"sources": sources})
}
