package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/pools", handler.ListPools)
	mux.HandleFunc("GET /v1/pools/{poolID}", handler.GetPool)
	mux.HandleFunc("GET /v1/pools/{poolID}/games/{week}", handler.ListPoolWeekGames)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	registerAuthorizedPoolRoutes(mux, handler, verifier)
	registerAuthorizedRequestRoutes(mux, handler, verifier)
	registerAuthorizedEntryRoutes(mux, handler, verifier)
	registerAuthorizedPickRoutes(mux, handler, verifier)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/bootstrap", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunBootstrapJob)))
	mux.Handle("POST /v1/internal/jobs/sync-schedule", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncScheduleJob)))
	mux.Handle("POST /v1/internal/jobs/sync-results", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncResultsJob)))
}

func registerAuthorizedPoolRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/pools", RequireAuth(verifier, RequireAdmin(http.HandlerFunc(handler.CreatePool))))
	mux.Handle("PUT /v1/pools/{poolID}/status", RequireAuth(verifier, RequireAdmin(http.HandlerFunc(handler.UpdatePoolStatus))))
	mux.Handle("GET /v1/pools/{poolID}/entries", RequireAuth(verifier, http.HandlerFunc(handler.ListPoolEntries)))
	mux.Handle("POST /v1/internal/sync/schedule", RequireAuth(verifier, RequireAdmin(http.HandlerFunc(handler.RunSyncScheduleDirect))))
}

func registerAuthorizedRequestRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/pools/{poolID}/requests", RequireAuth(verifier, http.HandlerFunc(handler.CreateRequest)))
	mux.Handle("GET /v1/pools/{poolID}/requests", RequireAuth(verifier, RequireAdmin(http.HandlerFunc(handler.ListPoolRequests))))
	mux.Handle("GET /v1/requests", RequireAuth(verifier, http.HandlerFunc(handler.ListMyRequests)))
	mux.Handle("GET /v1/requests/{requestID}", RequireAuth(verifier, http.HandlerFunc(handler.GetRequest)))
	mux.Handle("PUT /v1/requests/{requestID}/payment", RequireAuth(verifier, http.HandlerFunc(handler.ConfirmRequestPayment)))
	mux.Handle("PUT /v1/requests/{requestID}/approve", RequireAuth(verifier, RequireAdmin(http.HandlerFunc(handler.ApproveRequest))))
	mux.Handle("PUT /v1/requests/{requestID}/reject", RequireAuth(verifier, RequireAdmin(http.HandlerFunc(handler.RejectRequest))))
}

func registerAuthorizedEntryRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/entries", RequireAuth(verifier, http.HandlerFunc(handler.ListMyEntries)))
	mux.Handle("GET /v1/entries/{entryID}", RequireAuth(verifier, http.HandlerFunc(handler.GetEntry)))
	mux.Handle("GET /v1/entries/{entryID}/picks", RequireAuth(verifier, http.HandlerFunc(handler.ListEntryPicks)))
}

func registerAuthorizedPickRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/entries/{entryID}/{entryNumber}/picks/{week}", RequireAuth(verifier, http.HandlerFunc(handler.GetPick)))
	mux.Handle("PUT /v1/entries/{entryID}/{entryNumber}/picks/{week}", RequireAuth(verifier, http.HandlerFunc(handler.PutPick)))
	mux.Handle("PATCH /v1/entries/{entryID}/{entryNumber}/picks/{week}", RequireAuth(verifier, http.HandlerFunc(handler.PatchPick)))
	mux.Handle("DELETE /v1/entries/{entryID}/{entryNumber}/picks/{week}", RequireAuth(verifier, http.HandlerFunc(handler.DeletePick)))
}
