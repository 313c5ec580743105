package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smartboard-dev/smartboard/internal/models"
	"github.com/smartboard-dev/smartboard/internal/refresher"
	"github.com/smartboard-dev/smartboard/internal/utils"
)

// BoardHandler serves the public browse views from the refresher snapshot,
// so end users see a row set at most one refresh interval old without
// hitting the store on every request.
type BoardHandler struct {
	board *refresher.Refresher
}

func NewBoardHandler(board *refresher.Refresher) *BoardHandler {
	return &BoardHandler{board: board}
}

// ListBoard returns the published notices (Approved or Active), filtered by
// the same q/status/priority parameters the admin views use.
func (h *BoardHandler) ListBoard(ctx *gin.Context) {
	rows := h.board.Visible(bindFilter(ctx))

	published := make([]models.Notice, 0, len(rows))
	for i := range rows {
		if rows[i].Published() {
			published = append(published, rows[i])
		}
	}

	ctx.JSON(http.StatusOK, gin.H{
		"notices":        summarizeAll(published),
		"last_refreshed": h.board.LastRefreshed().Format(time.RFC3339),
	})
}

// GetBoardNotice serves the public detail view. Unpublished notices are
// indistinguishable from missing ones.
func (h *BoardHandler) GetBoardNotice(ctx *gin.Context) {
	id, err := utils.GetNoticeID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	for _, notice := range h.board.Snapshot() {
		if notice.ID == id && notice.Published() {
			ctx.JSON(http.StatusOK, summarize(&notice))
			return
		}
	}

	ctx.JSON(http.StatusNotFound, gin.H{"error": "Notice not found"})
}

// RefreshBoard is the manual refresh: reload now and reset the automatic
// countdown.
func (h *BoardHandler) RefreshBoard(ctx *gin.Context) {
	h.board.Refresh()

	ctx.JSON(http.StatusOK, gin.H{
		"message":        "Board refreshed",
		"last_refreshed": h.board.LastRefreshed().Format(time.RFC3339),
	})
}
