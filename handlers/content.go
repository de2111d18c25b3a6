package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smartedu/smartedu/backend/go-services/internal/apperrors"
	"github.com/smartedu/smartedu/backend/go-services/internal/content"
	"github.com/smartedu/smartedu/backend/go-services/internal/generation"
	"github.com/smartedu/smartedu/backend/go-services/internal/storage"
	"github.com/smartedu/smartedu/backend/go-services/pkg/logger"
	"github.com/smartedu/smartedu/backend/go-services/pkg/metrics"
	"github.com/smartedu/smartedu/backend/go-services/pkg/middleware"
)

// Kind bundles what differs between the notes and assignments route groups:
// the prompt wording, how a raw completion becomes a stored body, how an
// edited body is checked at the boundary, and how a body renders to PDF.
type Kind struct {
	Name     string // metrics label and export filename prefix
	Path     string // route group path, e.g. "/notes"
	Prompt   func(topic, audience string) string
	Produce  func(raw string) (json.RawMessage, error)
	Validate func(body json.RawMessage) error
	Render   func(w io.Writer, topic string, body json.RawMessage) error
}

// ContentHandler serves one document kind. Both kinds share the same handler
// code; only the Kind binding differs.
type ContentHandler struct {
	kind    Kind
	svc     *content.Service
	gen     generation.Client
	archive *storage.ExportArchive // optional, nil disables archiving
}

// Register mounts the route group. The share lookup is public; everything
// else sits behind the auth middleware.
func (h *ContentHandler) Register(api *gin.RouterGroup, auth gin.HandlerFunc) {
	g := api.Group(h.kind.Path)
	g.GET("/share/:link", h.Share)

	p := g.Group("", auth)
	p.POST("", h.Create)
	p.PUT("/:id", h.Edit)
	p.GET("/:id/download", h.Download)
	p.POST("/:id/versions", h.SaveVersion)
	p.GET("/:id/versions", h.ListVersions)
	p.PUT("/:id/tags", h.AddTags)
	p.POST("/search", h.Search)
}

type createRequest struct {
	Topic    string `json:"topic" binding:"required"`
	Grouping string `json:"grouping"` // folder or university label
	Context  string `json:"context"`  // optional audience hint for the prompt
}

type editRequest struct {
	Body json.RawMessage `json:"body" binding:"required"`
}

type tagsRequest struct {
	Tags []string `json:"tags" binding:"required"`
}

// Create runs the full generation pipeline: prompt, completion call, split,
// store write. A failed completion call never reaches the store.
func (h *ContentHandler) Create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ownerID := c.GetString(middleware.ContextUserID)

	audience := req.Context
	if audience == "" {
		audience = req.Grouping
	}
	raw, err := h.gen.Complete(c.Request.Context(), h.kind.Prompt(req.Topic, audience))
	if err != nil {
		logger.Errorf("%s generation failed (topic=%q): %v", h.kind.Name, req.Topic, err)
		metrics.GenerationRequests.WithLabelValues(h.kind.Name, "generation_failed").Inc()
		writeError(c, err)
		return
	}
	body, err := h.kind.Produce(raw)
	if err != nil {
		logger.Errorf("%s completion unparseable (topic=%q): %v", h.kind.Name, req.Topic, err)
		metrics.GenerationRequests.WithLabelValues(h.kind.Name, "malformed").Inc()
		writeError(c, err)
		return
	}
	doc, err := h.svc.Create(c.Request.Context(), ownerID, req.Topic, req.Grouping, body)
	if err != nil {
		logger.Errorf("%s store write failed (topic=%q): %v", h.kind.Name, req.Topic, err)
		metrics.GenerationRequests.WithLabelValues(h.kind.Name, "store_error").Inc()
		writeError(c, err)
		return
	}
	metrics.GenerationRequests.WithLabelValues(h.kind.Name, "success").Inc()
	c.JSON(http.StatusCreated, doc)
}

// Edit replaces the live body. The version history is not touched.
func (h *ContentHandler) Edit(c *gin.Context) {
	id := c.Param("id")
	var req editRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.kind.Validate(req.Body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	doc, err := h.svc.EditBody(c.Request.Context(), id, req.Body)
	if err != nil {
		logger.Errorf("%s edit failed (id=%s): %v", h.kind.Name, id, err)
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// Download renders the stored body to PDF. The document is loaded and rendered
// into a buffer before any byte is written, so an unknown id or a corrupt body
// yields a JSON error, never a truncated byte stream.
func (h *ContentHandler) Download(c *gin.Context) {
	id := c.Param("id")
	doc, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := h.kind.Render(&buf, doc.Topic, doc.Body); err != nil {
		logger.Errorf("%s export failed (id=%s): %v", h.kind.Name, id, err)
		writeError(c, err)
		return
	}
	metrics.PDFExports.WithLabelValues(h.kind.Name).Inc()

	if h.archive != nil {
		if key, err := h.archive.StorePDF(c.Request.Context(), h.kind.Name, doc.ID, buf.Bytes()); err != nil {
			logger.Warnf("export archive upload failed (id=%s): %v", id, err)
		} else {
			logger.Debugf("export archived at %s", key)
		}
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.kind.Name+"-"+doc.ID+".pdf"))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// SaveVersion snapshots the current body and returns the full version list.
func (h *ContentHandler) SaveVersion(c *gin.Context) {
	id := c.Param("id")
	versions, err := h.svc.SaveVersion(c.Request.Context(), id)
	if err != nil {
		logger.Errorf("%s saveVersion failed (id=%s): %v", h.kind.Name, id, err)
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"versions": versions})
}

func (h *ContentHandler) ListVersions(c *gin.Context) {
	id := c.Param("id")
	versions, err := h.svc.ListVersions(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"versions": versions})
}

// AddTags unions the request tags into the document's tag set.
func (h *ContentHandler) AddTags(c *gin.Context) {
	id := c.Param("id")
	var req tagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	doc, err := h.svc.AddTags(c.Request.Context(), id, req.Tags)
	if err != nil {
		logger.Errorf("%s addTags failed (id=%s): %v", h.kind.Name, id, err)
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// Search returns documents tagged with every requested tag.
func (h *ContentHandler) Search(c *gin.Context) {
	var req tagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	docs, err := h.svc.FindByTags(c.Request.Context(), req.Tags)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

// Share is the public secondary lookup by shareable link.
func (h *ContentHandler) Share(c *gin.Context) {
	doc, err := h.svc.GetByLink(c.Request.Context(), c.Param("link"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// writeError maps a service error to its transport status. Known error kinds
// expose their message; anything else gets a generic body.
func writeError(c *gin.Context, err error) {
	status := apperrors.Status(err)
	msg := err.Error()
	if status == http.StatusInternalServerError && !knownInternal(err) {
		msg = "internal server error"
	}
	c.JSON(status, gin.H{"error": msg})
}

func knownInternal(err error) bool {
	return errors.Is(err, apperrors.ErrGenerationFailed) ||
		errors.Is(err, apperrors.ErrMalformedGeneration) ||
		errors.Is(err, apperrors.ErrCorruptContent)
}
