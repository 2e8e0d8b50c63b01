package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"uploadai/internal/logging"
	"uploadai/internal/metrics"
	"uploadai/internal/repository"
	"uploadai/internal/utils"
	"uploadai/internal/videos"

	"github.com/gin-gonic/gin"
)

// multipartOverhead is the body allowance for part headers and boundaries
// on top of the file size limit.
const multipartOverhead = 1 << 20

// Handler serves the HTTP API.
type Handler struct {
	videos         *videos.Service
	prompts        repository.PromptRepository
	maxUploadBytes int64
	metrics        *metrics.Metrics
	logger         logging.Logger
}

func NewHandler(
	videoService *videos.Service,
	prompts repository.PromptRepository,
	maxUploadBytes int64,
	m *metrics.Metrics,
	logger logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.NopLogger
	}

	return &Handler{
		videos:         videoService,
		prompts:        prompts,
		maxUploadBytes: maxUploadBytes,
		metrics:        m,
		logger:         logger,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.Use(CORSMiddleware())
	r.Use(h.metrics.Middleware())

	r.GET("/health", h.healthCheck)
	r.GET("/metrics", gin.WrapH(h.metrics.Handler()))

	r.GET("/prompts", h.listPrompts)
	r.POST("/videos", h.createVideo)
	r.GET("/videos/:id", h.getVideo)
	r.POST("/videos/:id/transcription", h.createTranscription)
	r.POST("/ai/complete", h.generateCompletion)
}

// CORSMiddleware allows every origin and answers preflight requests.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (h *Handler) healthCheck(c *gin.Context) {
	utils.Success(c, gin.H{
		"status":  "ok",
		"service": "upload-ai",
	})
}

func (h *Handler) listPrompts(c *gin.Context) {
	prompts, err := h.prompts.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list prompts", "error", err)
		utils.FromError(c, err)
		return
	}

	utils.Success(c, gin.H{"prompts": prompts})
}

// createVideo streams the first file part of a multipart body to disk.
func (h *Handler) createVideo(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartOverhead)

	reader, err := c.Request.MultipartReader()
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "Missing file input.")
		return
	}

	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			utils.Error(c, http.StatusBadRequest, "Missing file input.")
			return
		}
		if err != nil {
			h.writeUploadError(c, err)
			return
		}

		if part.FileName() == "" {
			part.Close()
			continue
		}

		video, err := h.videos.CreateVideo(c.Request.Context(), part.FileName(), part)
		part.Close()
		if err != nil {
			h.writeUploadError(c, err)
			return
		}

		utils.Success(c, gin.H{"video": video})
		return
	}
}

func (h *Handler) writeUploadError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		utils.Error(c, http.StatusBadRequest, fmt.Sprintf("file size exceeds %dMB limit", h.maxUploadBytes/(1024*1024)))
		return
	}

	h.logger.Warn("Upload rejected", "error", err)
	utils.FromError(c, err)
}

func (h *Handler) getVideo(c *gin.Context) {
	video, err := h.videos.GetVideo(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Success(c, gin.H{"video": video})
}

type transcriptionRequest struct {
	Prompt string `json:"prompt"`
}

// createTranscription resolves the video before reading the body, so an
// unknown id is a 404 whatever the payload.
func (h *Handler) createTranscription(c *gin.Context) {
	if _, err := h.videos.GetVideo(c.Request.Context(), c.Param("id")); err != nil {
		utils.FromError(c, err)
		return
	}

	var req transcriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	text, err := h.videos.Transcribe(c.Request.Context(), c.Param("id"), req.Prompt)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Success(c, gin.H{"transcription": text})
}

type completionRequest struct {
	VideoID  string `json:"videoId" binding:"required"`
	Template string `json:"template" binding:"required"`
}

func (h *Handler) generateCompletion(c *gin.Context) {
	var req completionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "videoId and template are required")
		return
	}

	completion, err := h.videos.Complete(c.Request.Context(), req.VideoID, req.Template)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Success(c, gin.H{"completion": completion})
}
