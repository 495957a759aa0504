package api

import (
	"errors"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sindico-backend/internal/ledger"
	"sindico-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	svc     *ledger.Service
	store   store.Store
	webpush *webpush.Options
	logger  *zap.Logger
}

// NewHandler creates a new API handler. webpushOptions may be nil when push
// notifications are disabled.
func NewHandler(svc *ledger.Service, s store.Store, webpushOptions *webpush.Options, logger *zap.Logger) *Handler {
	return &Handler{
		svc:     svc,
		store:   s,
		webpush: webpushOptions,
		logger:  logger,
	}
}

// renderError maps the ledger error taxonomy onto HTTP statuses:
// validation 400, not found 404, exhausted protocol conflicts 409 and
// anything else 500.
func (h *Handler) renderError(c *gin.Context, err error) {
	var verr *ledger.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Msg})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "occurrence not found"})
	case errors.Is(err, store.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "could not allocate a unique protocol, please retry"})
	default:
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
