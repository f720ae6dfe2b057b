package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"growshare/internal/api"
	"growshare/internal/config"
	"growshare/internal/modules/admin"
	"growshare/internal/modules/advisor"
	"growshare/internal/modules/chat"
	"growshare/internal/modules/farmers"
	"growshare/internal/modules/growth"
	"growshare/internal/modules/listings"
	"growshare/internal/modules/orders"
	"growshare/internal/modules/payments"
	"growshare/internal/modules/users"
	"growshare/internal/notify"
	emailSvc "growshare/pkg/email"
	"growshare/pkg/llm"
	"growshare/pkg/storage"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

func main() {
	// 1. --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	e := echo.New()

	// 2. --- Middleware ---
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:5173", cfg.ClientOrigin},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// 3. --- Database Connection ---
	dbConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Unable to parse database configuration: %v", err)
	}

	dbPool, err := pgxpool.NewWithConfig(context.Background(), dbConfig)
	if err != nil {
		log.Fatalf("Unable to create connection pool: %v", err)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(context.Background()); err != nil {
		log.Fatalf("Unable to ping database: %v", err)
	}
	e.Logger.Info("Successfully connected to the database!")

	// 4. --- Shared Services ---
	templateManager, err := emailSvc.NewTemplateManager()
	if err != nil {
		log.Fatalf("Failed to parse email templates: %v", err)
	}

	var emailer emailSvc.ServiceInterface
	if cfg.EmailFrom != "" {
		sesSender, err := emailSvc.NewSESV2Sender(context.Background(), cfg.AWSRegion, cfg.EmailFrom)
		if err != nil {
			log.Fatalf("Failed to initialize SES sender: %v", err)
		}
		emailer = sesSender
	} else {
		// Without EMAIL_FROM the platform still runs; notifications are logged.
		emailer = emailSvc.LogSender{}
	}

	var uploader storage.Uploader
	if cfg.UploadsBucket != "" {
		s3Uploader, err := storage.NewS3Uploader(context.Background(), cfg.AWSRegion, cfg.UploadsBucket, cfg.UploadsBaseURL)
		if err != nil {
			log.Fatalf("Failed to initialize S3 uploader: %v", err)
		}
		uploader = s3Uploader
	}

	llmClient := llm.NewClient(cfg.LLMGatewayURL, cfg.LLMAPIKey, cfg.LLMModel)

	googleOAuthConfig := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}

	// The notification dispatcher delivers order lifecycle emails off the
	// request path.
	dispatcherCtx, stopDispatcher := context.WithCancel(context.Background())
	defer stopDispatcher()
	dispatcher := notify.NewDispatcher(notify.NewResolver(dbPool), emailer, templateManager)
	go dispatcher.Run(dispatcherCtx)

	// 5. --- Dependency Injection (Wiring everything up) ---
	// --- Users Module ---
	userRepo := users.NewRepository(dbPool)
	userService := users.NewService(userRepo, emailer, templateManager, cfg.JWTSecret, cfg.ClientOrigin, googleOAuthConfig)
	userHandler := users.NewHandler(userService)

	// --- Farmers Module ---
	farmerRepo := farmers.NewRepository(dbPool)
	farmerService := farmers.NewService(farmerRepo)
	farmerHandler := farmers.NewHandler(farmerService)

	// --- Listings Module ---
	listingRepo := listings.NewRepository(dbPool)
	listingService := listings.NewService(listingRepo, farmerRepo)
	listingHandler := listings.NewHandler(listingService)

	// --- Orders Module ---
	orderRepo := orders.NewRepository(dbPool)
	orderService := orders.NewService(orderRepo, listingRepo, farmerRepo, dispatcher)
	orderHandler := orders.NewHandler(orderService)

	// --- Payments Module ---
	paymentRepo := payments.NewRepository(dbPool)
	paymentService := payments.NewService(paymentRepo, orderService)
	paymentHandler := payments.NewHandler(paymentService)

	// --- Growth Module ---
	growthRepo := growth.NewRepository(dbPool)
	growthService := growth.NewService(growthRepo, orderRepo, farmerRepo, uploader, orders.IsTerminal)
	growthHandler := growth.NewHandler(growthService)

	// --- Chat Module ---
	chatHub := chat.NewHub()
	chatRepo := chat.NewRepository(dbPool)
	chatService := chat.NewService(chatRepo, farmerRepo, chatHub)
	chatHandler := chat.NewHandler(chatService, chatHub)

	// --- Admin Module ---
	adminRepo := admin.NewRepository(dbPool)
	adminService := admin.NewService(adminRepo, userService)
	adminHandler := admin.NewHandler(adminService)

	// --- Advisor Module ---
	advisorService := advisor.NewService(llmClient, adminService)
	advisorHandler := advisor.NewHandler(advisorService)

	// 6. --- Initialize Router ---
	api.SetupRoutes(e,
		userHandler,
		farmerHandler,
		listingHandler,
		orderHandler,
		paymentHandler,
		growthHandler,
		chatHandler,
		advisorHandler,
		adminHandler,
		cfg.JWTSecret,
	)

	// 7. --- Start Server with graceful shutdown logic ---
	go func() {
		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal("shutting down the server an error occurred:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	stopDispatcher()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Fatal("Server forced to shutdown:", err)
	}
	log.Println("Server exiting")
}
