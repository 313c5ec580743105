package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smartboard-dev/smartboard/internal/filter"
	"github.com/smartboard-dev/smartboard/internal/logger"
	"github.com/smartboard-dev/smartboard/internal/models"
	"github.com/smartboard-dev/smartboard/internal/refresher"
	"github.com/smartboard-dev/smartboard/internal/store"
	"github.com/smartboard-dev/smartboard/internal/utils"
)

const legacyDateLayout = "2006-01-02"

type NoticeRequest struct {
	Title          string `json:"title" binding:"required"`
	Description    string `json:"description" binding:"required"`
	Priority       string `json:"priority" binding:"required"`
	Status         string `json:"status"`
	AttachmentPath string `json:"attachment_path"`
}

// NoticeSummary is the row shape the list views render. Date carries the
// legacy single-timestamp semantics: the last time the row was touched.
type NoticeSummary struct {
	ID             uint   `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Priority       string `json:"priority"`
	Status         string `json:"status"`
	Date           string `json:"date"`
	CreatedAt      string `json:"created_at"`
	PublishedBy    string `json:"published_by"`
	AttachmentPath string `json:"attachment_path,omitempty"`
}

func summarize(n *models.Notice) NoticeSummary {
	return NoticeSummary{
		ID:             n.ID,
		Title:          n.Title,
		Description:    n.Description,
		Priority:       n.Priority,
		Status:         n.Status,
		Date:           n.UpdatedAt.Format(legacyDateLayout),
		CreatedAt:      n.CreatedAt.Format(time.RFC3339),
		PublishedBy:    n.PublishedBy,
		AttachmentPath: n.AttachmentPath,
	}
}

func summarizeAll(rows []models.Notice) []NoticeSummary {
	out := make([]NoticeSummary, 0, len(rows))
	for i := range rows {
		out = append(out, summarize(&rows[i]))
	}
	return out
}

// bindFilter reads the shared filter dimensions from query parameters.
func bindFilter(ctx *gin.Context) filter.Spec {
	return filter.Spec{
		Query:    ctx.Query("q"),
		Status:   ctx.Query("status"),
		Priority: ctx.Query("priority"),
	}
}

type NoticeHandler struct {
	notices *store.NoticeStore
	board   *refresher.Refresher
}

func NewNoticeHandler(notices *store.NoticeStore, board *refresher.Refresher) *NoticeHandler {
	return &NoticeHandler{notices: notices, board: board}
}

// ListNotices returns every notice, newest first, filtered by the q/status/
// priority query parameters.
func (h *NoticeHandler) ListNotices(ctx *gin.Context) {
	rows, err := h.notices.ListAll()

	if err != nil {
		logger.Log.WithError(err).Error("Failed to list notices")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve notices"})
		return
	}

	ctx.JSON(http.StatusOK, summarizeAll(filter.Apply(rows, bindFilter(ctx))))
}

func (h *NoticeHandler) GetNotice(ctx *gin.Context) {
	id, err := utils.GetNoticeID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	notice, err := h.notices.GetByID(id)

	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Notice not found"})
		} else {
			logger.Log.WithError(err).Error("Failed to fetch notice")
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve notice"})
		}
		return
	}

	ctx.JSON(http.StatusOK, summarize(notice))
}

func (h *NoticeHandler) CreateNotice(ctx *gin.Context) {
	fields, ok := h.bindFields(ctx)
	if !ok {
		return
	}

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	notice := models.Notice{
		Title:          fields.Title,
		Description:    fields.Description,
		Priority:       fields.Priority,
		Status:         fields.Status,
		PublishedBy:    currentUser.Username,
		AttachmentPath: fields.AttachmentPath,
	}

	if err := h.notices.Create(&notice); err != nil {
		logger.Log.WithError(err).Error("Failed to create notice")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create notice"})
		return
	}

	h.board.Refresh()
	ctx.JSON(http.StatusCreated, summarize(&notice))
}

func (h *NoticeHandler) UpdateNotice(ctx *gin.Context) {
	id, err := utils.GetNoticeID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields, ok := h.bindFields(ctx)
	if !ok {
		return
	}

	notice, err := h.notices.Update(id, fields)

	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Notice not found"})
		} else {
			logger.Log.WithError(err).Error("Failed to update notice")
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notice"})
		}
		return
	}

	h.board.Refresh()
	ctx.JSON(http.StatusOK, summarize(notice))
}

func (h *NoticeHandler) DeleteNotice(ctx *gin.Context) {
	id, err := utils.GetNoticeID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deleted, err := h.notices.Delete(id)

	if err != nil {
		logger.Log.WithError(err).Error("Failed to delete notice")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete notice"})
		return
	}

	if !deleted {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Notice not found"})
		return
	}

	h.board.Refresh()
	ctx.Status(http.StatusNoContent)
}

// bindFields validates the request body against the write-path rules:
// required title and description after trimming, enumerated priority and
// status. Status defaults to Pending, matching the add-notice form.
func (h *NoticeHandler) bindFields(ctx *gin.Context) (store.NoticeFields, bool) {
	var req NoticeRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return store.NoticeFields{}, false
	}

	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)

	if title == "" || description == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Title and description are required"})
		return store.NoticeFields{}, false
	}

	if !models.ValidPriority(req.Priority) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Priority must be High, Medium or Low"})
		return store.NoticeFields{}, false
	}

	status := req.Status
	if status == "" {
		status = models.StatusPending
	}

	if !models.ValidStatus(status) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Status must be Pending, Approved or Draft"})
		return store.NoticeFields{}, false
	}

	return store.NoticeFields{
		Title:          title,
		Description:    description,
		Priority:       req.Priority,
		Status:         status,
		AttachmentPath: req.AttachmentPath,
	}, true
}
