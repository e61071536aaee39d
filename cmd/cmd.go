package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"samaj-backend/internal/config"
	"samaj-backend/internal/handlers"
	"samaj-backend/internal/middleware"
	"samaj-backend/internal/repository"
	"samaj-backend/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	if cfg.Database.AutoMigrate {
		if err := repository.Migrate(cfg.Database.MigrateURL()); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply migrations")
		}
		log.Info().Msg("Database migrations applied")
	}

	// Connect to database
	db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	householdRepo := repository.NewHouseholdRepository(db)
	matrimonyRepo := repository.NewMatrimonyRepository(db)
	chatRepo := repository.NewChatRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	businessRepo := repository.NewBusinessRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	trustRepo := repository.NewTrustRepository(db)
	noticeRepo := repository.NewNoticeRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	// Initialize services
	wsHub := services.NewWSHub()
	pusher, err := services.NewPusher(cfg.APNs)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create push client")
	}
	storageService, err := services.NewStorageService(context.Background(), cfg.AWS)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create storage service")
	}

	userService := services.NewUserService(userRepo, cfg.JWT.Secret, cfg.Admin.Mobiles)
	chatService := services.NewChatService(chatRepo, wsHub)
	familyNotifier := services.NewFamilyNotifier(householdRepo, userRepo, matrimonyRepo, notificationRepo, wsHub, pusher)
	matrimonyService := services.NewMatrimonyService(matrimonyRepo, chatService, familyNotifier, wsHub)
	notificationService := services.NewNotificationService(notificationRepo)
	householdService := services.NewHouseholdService(householdRepo, userService)
	businessService := services.NewBusinessService(businessRepo, userService)
	studentService := services.NewStudentService(studentRepo)
	trustService := services.NewTrustService(trustRepo, userService)
	noticeService := services.NewNoticeService(noticeRepo, userService)
	paymentService := services.NewPaymentService(paymentRepo, userService, cfg.PhonePe)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	householdHandler := handlers.NewHouseholdHandler(householdService)
	matrimonyHandler := handlers.NewMatrimonyHandler(matrimonyService)
	chatHandler := handlers.NewChatHandler(chatService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	businessHandler := handlers.NewBusinessHandler(businessService)
	studentHandler := handlers.NewStudentHandler(studentService)
	trustHandler := handlers.NewTrustHandler(trustService)
	noticeHandler := handlers.NewNoticeHandler(noticeService)
	uploadHandler := handlers.NewUploadHandler(storageService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	wsHandler := handlers.NewWebSocketHandler(wsHub, userService, chatService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/auth/register", userHandler.Register)
		r.Post("/auth/login", userHandler.Login)
		r.Post("/auth/forgot-password", userHandler.ForgotPassword)
		r.Post("/auth/reset-password", userHandler.ResetPassword)
		r.Post("/payments/webhook", paymentHandler.Webhook)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(userService))

			r.Get("/me", userHandler.GetMe)
			r.Patch("/me", userHandler.UpdateMe)
			r.Put("/me/push-token", userHandler.UpdatePushToken)

			r.Get("/households", householdHandler.List)
			r.Post("/households", householdHandler.Create)
			r.Get("/households/{household_id}", householdHandler.Get)
			r.Delete("/households/{household_id}", householdHandler.Delete)
			r.Post("/households/{household_id}/members", householdHandler.AddMember)
			r.Delete("/members/{member_id}", householdHandler.RemoveMember)

			r.Get("/matrimony/profiles", matrimonyHandler.ListProfiles)
			r.Get("/matrimony/profiles/{user_id}", matrimonyHandler.GetProfile)
			r.Get("/matrimony/profile", matrimonyHandler.GetMyProfile)
			r.Put("/matrimony/profile", matrimonyHandler.SaveMyProfile)
			r.Delete("/matrimony/profile", matrimonyHandler.DeleteMyProfile)
			r.Get("/matrimony/requests", matrimonyHandler.ListReceived)
			r.Post("/matrimony/requests", matrimonyHandler.SendRequest)
			r.Post("/matrimony/requests/{request_id}/accept", matrimonyHandler.AcceptRequest)
			r.Post("/matrimony/requests/{request_id}/reject", matrimonyHandler.RejectRequest)
			r.Get("/matrimony/connections", matrimonyHandler.ListConnections)
			r.Post("/matrimony/connections/{user_id}/chat", matrimonyHandler.StartChat)

			r.Get("/chat/rooms", chatHandler.ListRooms)
			r.Get("/chat/rooms/{room_id}/messages", chatHandler.ListMessages)
			r.Post("/chat/rooms/{room_id}/messages", chatHandler.SendMessage)
			r.Post("/chat/rooms/{room_id}/read", chatHandler.MarkRead)
			r.Get("/chat/rooms/{room_id}/presence", chatHandler.Presence)

			r.Get("/notifications", notificationHandler.List)
			r.Post("/notifications/read", notificationHandler.MarkAllRead)

			r.Get("/businesses", businessHandler.List)
			r.Post("/businesses", businessHandler.Create)
			r.Get("/businesses/{business_id}", businessHandler.Get)
			r.Put("/businesses/{business_id}", businessHandler.Update)
			r.Delete("/businesses/{business_id}", businessHandler.Delete)

			r.Get("/students", studentHandler.List)
			r.Post("/students", studentHandler.Create)

			r.Get("/trust/events", trustHandler.ListEvents)
			r.Post("/trust/events", trustHandler.CreateEvent)
			r.Post("/trust/registrations", trustHandler.Register)
			r.Get("/trust/weddings", trustHandler.ListWeddings)
			r.Post("/trust/weddings", trustHandler.RegisterWedding)
			r.Post("/trust/suggestions", trustHandler.Suggest)
			r.Get("/trust/fund-stats", trustHandler.FundStats)
			r.Put("/trust/fund-stats", trustHandler.UpdateFundStats)

			r.Get("/notices", noticeHandler.List)
			r.Post("/notices", noticeHandler.Post)
			r.Post("/notices/read", noticeHandler.MarkRead)
			r.Get("/notices/unread", noticeHandler.UnreadCount)

			r.Post("/uploads", uploadHandler.CreateUpload)

			r.Post("/payments/initiate", paymentHandler.Initiate)
			r.Get("/payments", paymentHandler.History)
			r.Get("/premium", paymentHandler.Premium)
		})
	})

	// WebSocket route
	r.Get("/ws", wsHandler.HandleWebSocket)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// Hijacked WebSocket connections are not closed by Shutdown
	wsHub.Close()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
