package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/schiefeling-archiv/archiv-backend/internal/auth"
	"github.com/schiefeling-archiv/archiv-backend/internal/documents/domain"
	"github.com/schiefeling-archiv/archiv-backend/internal/documents/service"
)

type Handler struct {
	svc *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) browse(c *gin.Context) {
	q := service.BrowseQuery{
		Section:    c.Query("section"),
		SearchTerm: c.Query("search"),
		Tags:       splitTags(c.Query("tags")),
		YearStart:  intQuery(c, "year_start"),
		YearEnd:    intQuery(c, "year_end"),
	}

	docs, err := h.svc.Browse(c.Request.Context(), auth.CurrentIdentity(c), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "documents": docs})
}

func (h *Handler) manage(c *gin.Context) {
	q := service.ManageQuery{
		Section:    c.Query("section"),
		SearchTerm: c.Query("search"),
		Tags:       splitTags(c.Query("tags")),
		Status:     c.Query("status"),
	}

	docs, err := h.svc.Manage(c.Request.Context(), auth.CurrentIdentity(c), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "documents": docs})
}

func (h *Handler) upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "file is required"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "cannot read uploaded file"})
		return
	}
	defer f.Close()

	req := service.UploadRequest{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Body:        f,

		Title:       c.PostForm("title"),
		Date:        c.PostForm("date"),
		Description: c.PostForm("description"),
		Section:     c.PostForm("section"),
		Tags:        splitTags(c.PostForm("tags")),
		Status:      domain.Status(c.PostForm("status")),
	}

	doc, err := h.svc.Upload(c.Request.Context(), auth.CurrentIdentity(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "document": doc})
}

type statusReq struct {
	Status string `json:"status"`
}

func (h *Handler) updateStatus(c *gin.Context) {
	var req statusReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	err := h.svc.UpdateStatus(c.Request.Context(), auth.CurrentIdentity(c), c.Param("id"), domain.Status(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type tagsReq struct {
	Tags []string `json:"tags"`
}

func (h *Handler) updateTags(c *gin.Context) {
	var req tagsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	err := h.svc.UpdateTags(c.Request.Context(), auth.CurrentIdentity(c), c.Param("id"), req.Tags)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) download(c *gin.Context) {
	url, err := h.svc.DownloadURL(c.Request.Context(), auth.CurrentIdentity(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "url": url})
}

// Tags serves the fixed tag vocabulary.
func Tags(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "tags": domain.Vocabulary()})
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "forbidden"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "document not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
	}
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func intQuery(c *gin.Context, key string) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return v
}
