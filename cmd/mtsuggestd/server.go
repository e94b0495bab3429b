// Command mtsuggestd serves the suggestion pipeline over HTTP: a JSON API
// for programmatic callers and a static HTML page for interactive use.
package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/translatewiki/mtsuggest"
)

// Server wires one Pipeline to an HTTP surface.
type Server struct {
	pipeline     *mtsuggest.Pipeline
	sourceLocale string
	log          zerolog.Logger
}

func NewServer(pipeline *mtsuggest.Pipeline, defaultSourceLocale string, log zerolog.Logger) *Server {
	return &Server{pipeline: pipeline, sourceLocale: defaultSourceLocale, log: log}
}

// Router builds the gin.Engine: POST /api/translate, GET / (static), and
// GET /healthz for liveness, alongside the API per convention.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", s.handleHealthz)
	r.GET("/", s.handleIndex)
	r.POST("/api/translate", s.handleTranslate)

	return r
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexHTML))
}

type translateRequest struct {
	Message        string `json:"message" binding:"required"`
	TargetLanguage string `json:"target_language" binding:"required"`
	Key            string `json:"key"`
}

type translateResponse struct {
	Translated string `json:"translated"`
	Source     string `json:"source"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleTranslate performs exactly one Suggest call per request, per the
// documented API contract.
func (s *Server) handleTranslate(c *gin.Context) {
	requestID := uuid.New().String()
	log := s.log.With().Str("request_id", requestID).Logger()

	var req translateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("malformed request body")
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	key := req.Key
	if key == "" {
		key = "message"
	}

	suggestion, err := s.pipeline.Suggest(c.Request.Context(), s.sourceLocale, req.TargetLanguage, key, req.Message)
	if err != nil {
		log.Warn().Err(err).Str("target_language", req.TargetLanguage).Msg("suggest failed")
		c.JSON(statusForError(err), errorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, translateResponse{
		Translated: suggestion.Wikitext,
		Source:     req.Message,
	})
}

// statusForError maps a pipeline failure to an HTTP status: 400 for
// malformed input or an unsupported locale (the caller's fault), 500 for
// everything else (provider/network/internal failures).
func statusForError(err error) int {
	var merr *mtsuggest.Error
	if errors.As(err, &merr) {
		switch merr.Kind {
		case mtsuggest.KindParseError, mtsuggest.KindExpansionBound, mtsuggest.KindInvalidLocale:
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>mtsuggest</title></head>
<body>
<h1>mtsuggest</h1>
<p>POST a wikitext message to <code>/api/translate</code> to get an MT-assisted suggestion:</p>
<pre>{"message": "Hello, $1!", "target_language": "fr"}</pre>
</body>
</html>
`
