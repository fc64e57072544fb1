package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /metrics", handler.Metrics)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/sync", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncJob)))
	mux.Handle("POST /v1/internal/jobs/courts-sync", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunCourtCatalogJob)))
}
