package app

import (
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/sendmenow/sendmenow/internal/config"
	"github.com/sendmenow/sendmenow/internal/db"
	"github.com/sendmenow/sendmenow/internal/mail"
	"github.com/sendmenow/sendmenow/internal/repository"
	"github.com/sendmenow/sendmenow/internal/service"
	"github.com/sendmenow/sendmenow/internal/storage"
)

type App struct {
	Cfg            *config.Config
	DB             *sqlx.DB
	EmailTransport *mail.SMTPTransport
	AuthService    *service.AuthService
	MessageService *service.MessageService
	LegalService   *service.LegalService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	tokenRepository := repository.NewResetTokenRepository(database)
	messageRepository := repository.NewMessageRepository(database)

	// Photo cache storage
	photoStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}

	// Upload staging area for multipart requests
	err = os.MkdirAll(cfg.UploadDir, 0o755)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %v", err)
	}

	// Email
	transport := mail.NewSMTPTransport(mail.SMTPConfig{
		Host:     cfg.EmailHost,
		Port:     cfg.EmailPort,
		Secure:   cfg.EmailSecure,
		User:     cfg.EmailUser,
		Password: cfg.EmailPassword,
		From:     cfg.EmailFrom,
	})
	mailer := mail.NewMailer(transport, cfg.IsDevelopment())

	// Services
	authService := service.NewAuthService(
		userRepository,
		tokenRepository,
		mailer,
		cfg.JWTSecret,
		cfg.JWTExpiry,
		cfg.TokenPasswordResetExpiry,
		cfg.FrontendURL,
	)
	messageService := service.NewMessageService(messageRepository, userRepository, photoStorage, mailer)
	legalService := service.NewLegalService(cfg.ContentPath)

	return &App{
		Cfg:            cfg,
		DB:             database,
		EmailTransport: transport,
		AuthService:    authService,
		MessageService: messageService,
		LegalService:   legalService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
