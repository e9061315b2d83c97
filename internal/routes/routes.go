package routes

import (
	"github.com/ArminNeyrizi/TherapyChatBack/internal/config"
	"github.com/ArminNeyrizi/TherapyChatBack/internal/handlers"
	"github.com/ArminNeyrizi/TherapyChatBack/internal/middleware"
	"github.com/ArminNeyrizi/TherapyChatBack/internal/realtime"
	"github.com/ArminNeyrizi/TherapyChatBack/internal/repository"
	"github.com/ArminNeyrizi/TherapyChatBack/internal/services"
	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool) error {
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	therapistRepo := repository.NewTherapistRepository(db)
	chatSessionRepo := repository.NewChatSessionRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	var storageService services.StorageService
	if cfg.SupabaseURL != "" && cfg.SupabaseBucket != "" && cfg.SupabaseServiceKey != "" {
		storageService = services.NewSupabaseStorageService(cfg.SupabaseURL, cfg.SupabaseBucket, cfg.SupabaseServiceKey)
	}

	authHandler := handlers.NewAuthHandler(db, userRepo, profileRepo, cfg.JWTSecret)
	profileService := services.NewProfileService(profileRepo)
	profileHandler := handlers.NewProfileHandler(profileService, profileRepo, storageService)
	matchmakingService := services.NewMatchmakingService(therapistRepo)
	therapistHandler := handlers.NewTherapistHandler(therapistRepo, matchmakingService)
	appointmentService := services.NewAppointmentService(db, appointmentRepo, userRepo)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentService)
	chatHub := realtime.NewHub()
	go chatHub.Run()
	chatService := services.NewChatService(chatSessionRepo, messageRepo, therapistRepo, chatHub)
	chatHandler := handlers.NewChatHandler(chatService, chatHub, cfg.JWTSecret)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", middleware.AuthRequired(cfg.JWTSecret), authHandler.Me)

	authProtected := api.Group("/v1", middleware.AuthRequired(cfg.JWTSecret))

	profile := authProtected.Group("/profile")
	profile.Get("", profileHandler.GetProfile)
	profile.Put("", profileHandler.UpdateProfile)
	profile.Post("/avatar", profileHandler.UploadAvatar)

	therapists := authProtected.Group("/therapists")
	therapists.Get("", therapistHandler.ListTherapists)
	therapists.Get("/recommended", therapistHandler.GetRecommendedTherapists)
	therapists.Get("/:id", therapistHandler.GetTherapistDetail)

	appointments := authProtected.Group("/appointments")
	appointments.Post("/book", appointmentHandler.BookAppointment)
	appointments.Get("", appointmentHandler.ListAppointments)
	appointments.Get("/:id", appointmentHandler.GetAppointment)
	appointments.Put("/:id/status", appointmentHandler.UpdateStatus)

	sessions := authProtected.Group("/chat/sessions")
	sessions.Post("/resolve", chatHandler.ResolveSession)
	sessions.Get("/:id/messages", chatHandler.GetMessages)
	sessions.Post("/:id/messages", chatHandler.SendMessage)

	api.Use("/v1/ws", chatHandler.WebSocketAuth)
	api.Get("/v1/ws", websocket.New(chatHandler.HandleWebSocket))

	return registerDocsRoutes(app, cfg)
}
