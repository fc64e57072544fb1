package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/riskibarqy/court-spotter/internal/platform/logging"
	"github.com/riskibarqy/court-spotter/internal/usecase"
)

type SyncRunner interface {
	RunSyncCycle(ctx context.Context, asOf time.Time) (usecase.SyncReport, error)
}

type CourtCatalogSyncer interface {
	SyncPlaytomicCourts(ctx context.Context) (usecase.CourtCatalogReport, error)
}

type Handler struct {
	syncRunner  SyncRunner
	courtSyncer CourtCatalogSyncer
	metrics     http.Handler
	logger      *logging.Logger
	now         func() time.Time
}

// NewHandler builds the ops handler. A nil metrics handler disables /metrics.
func NewHandler(syncRunner SyncRunner, courtSyncer CourtCatalogSyncer, metrics http.Handler, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		syncRunner:  syncRunner,
		courtSyncer: courtSyncer,
		metrics:     metrics,
		logger:      logger.Named("httpapi"),
		now:         time.Now,
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.metrics == nil {
		http.NotFound(w, r)
		return
	}
	h.metrics.ServeHTTP(w, r)
}
