package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"claims-api/internal/api"
	"claims-api/internal/api/handlers"
	"claims-api/internal/config"
	"claims-api/internal/database"
	"claims-api/internal/repository"
	"claims-api/internal/services"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	// Initialize database connection
	db, err := database.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Get underlying *sql.DB instance for connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("Failed to get underlying *sql.DB instance:", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}

	reportsAPIKey := os.Getenv("REPORTS_API_KEY")
	if reportsAPIKey == "" {
		log.Fatal("REPORTS_API_KEY environment variable is required")
	}

	analysisURL := os.Getenv("ANALYSIS_API_URL")
	if analysisURL == "" {
		log.Fatal("ANALYSIS_API_URL environment variable is required")
	}

	// Cache is optional; the report path degrades to direct reads without it.
	cacheConfig := config.NewCacheConfig()
	var cache services.CacheService
	if redisCache, err := services.NewRedisCacheService(cacheConfig); err != nil {
		log.Printf("Warning: cache disabled: %v", err)
	} else {
		cache = redisCache
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	quotaRepo := repository.NewQuotaRepository(db)
	claimRepo := repository.NewClaimRepository(db)
	companyRepo := repository.NewCompanyRepository(db)

	// Initialize services
	planLimits := config.NewPlanLimitConfig()
	authService := services.NewAuthService(jwtSecret)
	quotaService := services.NewQuotaService(quotaRepo, planLimits)
	claimService := services.NewClaimService(claimRepo, companyRepo, cache)
	reportService := services.NewReportService(claimRepo, cache, cacheConfig.ReportTTL)
	companyService := services.NewCompanyService(companyRepo)
	profileService := services.NewProfileService(userRepo)
	analyzer := services.NewHTTPAnalyzer(analysisURL)
	evaluationService := services.NewEvaluationService(claimRepo, quotaService, analyzer, cache)

	// Initialize router
	router := api.SetupRoutes(api.RouterDeps{
		AuthService:    authService,
		ClaimHandler:   handlers.NewClaimHandler(claimService, evaluationService),
		ReportHandler:  handlers.NewReportHandler(reportService),
		QuotaHandler:   handlers.NewQuotaHandler(quotaService),
		CompanyHandler: handlers.NewCompanyHandler(companyService),
		ProfileHandler: handlers.NewProfileHandler(profileService),
		ReportsAPIKey:  reportsAPIKey,
	})

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins: []string{"http://localhost:3000"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-CSRF-Token",
		},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	})

	// Create server with timeouts
	srv := &http.Server{
		Handler:      corsMiddleware.Handler(router),
		Addr:         ":" + getPort(),
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	// Start server
	log.Printf("Server starting on port %s...", getPort())
	log.Fatal(srv.ListenAndServe())
}

func getPort() string {
	port := os.Getenv("PORT")
	if port == "" {
		port = "5050"
	}
	return port
}
