package api

import (
	"net/http"

	"claims-api/internal/api/handlers"
	"claims-api/internal/middleware"
	"claims-api/internal/services"

	"github.com/gorilla/mux"
)

type RouterDeps struct {
	AuthService    services.AuthService
	ClaimHandler   *handlers.ClaimHandler
	ReportHandler  *handlers.ReportHandler
	QuotaHandler   *handlers.QuotaHandler
	CompanyHandler *handlers.CompanyHandler
	ProfileHandler *handlers.ProfileHandler
	ReportsAPIKey  string
}

func SetupRoutes(deps RouterDeps) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	}).Methods("GET")

	// Anonymous report surface, gated by the shared service key. Visibility
	// is decided by each claim's is_public flag, not its ACL.
	reports := router.PathPrefix("/reports").Subrouter()
	reports.Use(middleware.PublicAPIKeyMiddleware(deps.ReportsAPIKey))
	reports.HandleFunc("/{id}", deps.ReportHandler.GetReport).Methods("GET")

	// Authenticated API
	apiRouter := router.PathPrefix("/api/v1").Subrouter()
	apiRouter.Use(middleware.AuthMiddleware(deps.AuthService))

	apiRouter.HandleFunc("/claims", deps.ClaimHandler.CreateClaim).Methods("POST")
	apiRouter.HandleFunc("/claims", deps.ClaimHandler.ListClaims).Methods("GET")
	apiRouter.HandleFunc("/claims/{id}", deps.ClaimHandler.GetClaim).Methods("GET")
	apiRouter.HandleFunc("/claims/{id}/damage-details", deps.ClaimHandler.AddDamageDetail).Methods("POST")
	apiRouter.HandleFunc("/claims/{id}/vehicle-verification", deps.ClaimHandler.AddVehicleVerification).Methods("POST")
	apiRouter.HandleFunc("/claims/{id}/assessment", deps.ClaimHandler.AddAssessment).Methods("POST")
	apiRouter.HandleFunc("/claims/{id}/visibility", deps.ClaimHandler.SetVisibility).Methods("PUT")
	apiRouter.HandleFunc("/claims/{id}/assign", deps.ClaimHandler.AssignTeam).Methods("POST")
	apiRouter.HandleFunc("/claims/{id}/evaluate", deps.ClaimHandler.Evaluate).Methods("POST")

	apiRouter.HandleFunc("/quota", deps.QuotaHandler.GetQuota).Methods("GET")
	apiRouter.HandleFunc("/companies", deps.CompanyHandler.ListCompanies).Methods("GET")
	apiRouter.HandleFunc("/profile", deps.ProfileHandler.GetProfile).Methods("GET")
	apiRouter.HandleFunc("/profile", deps.ProfileHandler.UpdateProfile).Methods("PUT")

	return router
}
