package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/court-spotter/internal/usecase"
)

const maxJobRequestBytes = 4 << 10

type syncJobRequest struct {
	AsOf string `json:"asOf"`
}

// RunSyncJob runs one availability sync cycle inline and returns its report.
func (h *Handler) RunSyncJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncJob")
	defer span.End()

	if h.syncRunner == nil {
		writeError(ctx, w, fmt.Errorf("%w: sync service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	asOf, err := h.decodeSyncJobAsOf(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	report, err := h.syncRunner.RunSyncCycle(ctx, asOf)
	if err != nil {
		h.logger.WarnContext(ctx, "run sync job failed", "as_of", asOf, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, report)
}

func (h *Handler) RunCourtCatalogJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunCourtCatalogJob")
	defer span.End()

	if h.courtSyncer == nil {
		writeError(ctx, w, fmt.Errorf("%w: court catalog service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	report, err := h.courtSyncer.SyncPlaytomicCourts(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "run court catalog job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, report)
}

// decodeSyncJobAsOf reads the optional {"asOf": RFC3339} body; an empty body means now.
func (h *Handler) decodeSyncJobAsOf(r *http.Request) (time.Time, error) {
	now := h.now().UTC()
	if r.Body == nil {
		return now, nil
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxJobRequestBytes))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: read request body: %v", usecase.ErrInvalidInput, err)
	}
	if strings.TrimSpace(string(raw)) == "" {
		return now, nil
	}

	var req syncJobRequest
	if err := sonic.Unmarshal(raw, &req); err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid json body: %v", usecase.ErrInvalidInput, err)
	}
	if strings.TrimSpace(req.AsOf) == "" {
		return now, nil
	}

	asOf, err := time.Parse(time.RFC3339, strings.TrimSpace(req.AsOf))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: asOf must be RFC3339: %v", usecase.ErrInvalidInput, err)
	}
	return asOf.UTC(), nil
}
