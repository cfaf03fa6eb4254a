// File: cmd/server/app.go
package main

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/iyunix/go-easyemail/internal/config"
	"github.com/iyunix/go-easyemail/internal/crypto"
	"github.com/iyunix/go-easyemail/internal/database"
	"github.com/iyunix/go-easyemail/internal/handlers"
	"github.com/iyunix/go-easyemail/internal/middleware"
	"github.com/iyunix/go-easyemail/internal/repository/chat"
	"github.com/iyunix/go-easyemail/internal/repository/contact"
	"github.com/iyunix/go-easyemail/internal/repository/credential"
	"github.com/iyunix/go-easyemail/internal/repository/message"
	"github.com/iyunix/go-easyemail/internal/repository/user"
	"github.com/iyunix/go-easyemail/internal/services"
	"github.com/iyunix/go-easyemail/internal/services/ai"
	"github.com/iyunix/go-easyemail/internal/services/draft"
	"github.com/iyunix/go-easyemail/internal/services/mail"
)

// Application aggregates all services and handlers
type Application struct {
	Config      *config.Config
	Logger      services.Logger
	DB          *gorm.DB
	Gateway     *ai.Gateway
	Engine      *draft.Engine
	Sender      *draft.SendGateway
	ChatService *services.ChatService
	ChatHandler *handlers.ChatHandler
}

// Provider functions

func ProvideOAuthSettings(cfg *config.Config) mail.OAuthSettings {
	return mail.OAuthSettings{
		GoogleClientID:        cfg.GoogleClientID,
		GoogleClientSecret:    cfg.GoogleClientSecret,
		MicrosoftClientID:     cfg.MicrosoftClientID,
		MicrosoftClientSecret: cfg.MicrosoftClientSecret,
		MicrosoftTenant:       cfg.MicrosoftTenant,
	}
}

// BuildApplication wires repositories, services and handlers from cfg.
func BuildApplication(cfg *config.Config, logger services.Logger) (*Application, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}

	cipher, err := crypto.NewCipher(cfg.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cipher: %w", err)
	}

	// --- Repositories ---
	userRepo := user.NewGormUserRepository(db)
	chatRepo := chat.NewChatRepository(db)
	messageRepo := message.NewMessageRepository(db)
	contactRepo := contact.NewContactRepository(db)
	credentialRepo := credential.NewCredentialRepository(db)

	// --- Services ---
	gateway, err := ai.NewGatewayFromConfig(cfg.AI(), &http.Client{}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize AI gateway: %w", err)
	}

	renderer, err := mail.NewRenderer(cfg.EmailWatermark)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize email renderer: %w", err)
	}
	mailers := mail.NewFactory(ProvideOAuthSettings(cfg), logger)

	resolver := draft.NewContactResolver(contactRepo)
	store := draft.NewConversationStore(chatRepo, messageRepo, cipher, resolver)
	locks := draft.NewThreadLocks()

	engine, err := draft.NewEngine(draft.DefaultConfig(), gateway, chatRepo, store, resolver,
		credentialRepo, userRepo, mail.TextExtractor{}, locks, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize draft engine: %w", err)
	}

	sender, err := draft.NewSendGateway(chatRepo, credentialRepo, resolver, cipher, mailers, renderer, locks, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize send gateway: %w", err)
	}

	chatService, err := services.NewChatService(chatRepo, messageRepo, store, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize chat service: %w", err)
	}

	return &Application{
		Config:      cfg,
		Logger:      logger,
		DB:          db,
		Gateway:     gateway,
		Engine:      engine,
		Sender:      sender,
		ChatService: chatService,
		ChatHandler: handlers.NewChatHandler(engine, sender, chatService, logger),
	}, nil
}

// Router builds the HTTP surface. Everything under /api requires a requester.
func (app *Application) Router() *mux.Router {
	accessLog := zerolog.Nop()
	if zl, ok := app.Logger.(*services.ProductionLogger); ok {
		accessLog = zl.Zerolog()
	}

	r := mux.NewRouter()
	r.Use(middleware.RecoverPanic(app.Logger))
	r.Use(middleware.RequestLogger(accessLog))

	r.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.NewJWTMiddleware([]byte(app.Config.JWTSecretKey), app.Logger))
	app.ChatHandler.Register(api)

	return r
}

// Close releases the database connection pool.
func (app *Application) Close() error {
	sqlDB, err := app.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
