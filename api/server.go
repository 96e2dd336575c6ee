// Package api exposes the generation pipeline over HTTP.
package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"clipforge/kafkax"
	"clipforge/script"
)

// GenerateFunc runs one generation attempt and returns the final artifact path.
type GenerateFunc func(ctx context.Context, sc *script.Script) (string, error)

// Server accepts generation requests. With a producer configured, requests
// are enqueued for workers; otherwise they run in-process asynchronously.
type Server struct {
	generate GenerateFunc
	producer *kafkax.Producer
}

func NewServer(generate GenerateFunc, producer *kafkax.Producer) *Server {
	return &Server{generate: generate, producer: producer}
}

// Router constructs the gin engine with registered routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", s.handleHealth)
	r.POST("/api/generate", s.handleGenerate)
	return r
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) handleGenerate(c *gin.Context) {
	var sc script.Script
	if err := c.ShouldBindJSON(&sc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload: " + err.Error()})
		return
	}
	if err := sc.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if s.producer != nil {
		if err := s.producer.Enqueue(sc.SafeName(), &sc); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to enqueue request: " + err.Error()})
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"status": "queued", "video_name": sc.VideoName})
		return
	}

	go func() {
		if _, err := s.generate(context.Background(), &sc); err != nil {
			log.Error().Err(err).Str("video", sc.VideoName).Msg("generation failed")
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{"status": "started", "video_name": sc.VideoName})
}
