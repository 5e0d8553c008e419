package routes

import (
	"io/fs"
	"net/http"

	"github.com/sendmenow/sendmenow/internal/app"
	"github.com/sendmenow/sendmenow/internal/handler"
	"github.com/sendmenow/sendmenow/internal/middleware"
	"github.com/sendmenow/sendmenow/web"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	user := handler.NewUserHandler(app.AuthService)
	password := handler.NewPasswordHandler(app.AuthService)
	message := handler.NewMessageHandler(app.MessageService, app.Cfg.UploadDir, app.Cfg.MaxUploadSize)
	health := handler.NewHealthHandler(app.DB, app.EmailTransport.Status(), app.Cfg.IsProduction())
	legal := handler.NewLegalHandler(app.LegalService)
	qr := handler.NewQRHandler()

	mux := http.NewServeMux()

	// Accounts
	mux.HandleFunc("POST /api/users", user.Register)
	mux.HandleFunc("POST /api/login", user.Login)

	// Password reset
	mux.HandleFunc("POST /api/forgot-password", password.Forgot)
	mux.HandleFunc("POST /api/reset-password", password.Reset)

	// Messages
	mux.HandleFunc("POST /api/send-photo", message.SendPhoto)
	mux.HandleFunc("GET /api/received-messages", message.Inbox)
	mux.HandleFunc("GET /api/message-photo/{id}", message.Photo)

	// Diagnostics
	mux.HandleFunc("GET /api/health", health.Health)
	mux.HandleFunc("GET /api/email-config", health.EmailConfig)

	// Content
	mux.HandleFunc("GET /api/terms", legal.Terms)
	mux.HandleFunc("GET /api/profile-qr", qr.ProfileQR)

	// Web client
	sub, _ := fs.Sub(web.StaticFS, "static")
	mux.Handle("GET /", http.FileServer(http.FS(sub)))

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.CORS(app.Cfg.FrontendURL, app.Cfg.IsDevelopment()),
		middleware.RequestLogging,
	)
}
