package server

import (
	"net/http"

	"github.com/dimitrije/lockbox-api/internal/apidoc"
	"github.com/dimitrije/lockbox-api/internal/config"
	"github.com/dimitrije/lockbox-api/internal/database"
	"github.com/dimitrije/lockbox-api/internal/handlers"
	authmw "github.com/dimitrije/lockbox-api/internal/middleware"
	"github.com/dimitrije/lockbox-api/internal/services"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
	"github.com/rs/zerolog"
)

// Services bundles everything the HTTP layer depends on.
type Services struct {
	Auth      *services.AuthService
	Sessions  *services.SessionService
	TwoFactor *services.TwoFactorService
	Vault     *services.VaultService
	Transfer  *services.TransferService
}

// NewServices wires the service graph over db.
func NewServices(cfg *config.Config, db *database.DB, log zerolog.Logger) *Services {
	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.SessionTTL)
	hasher := services.NewPasswordHasher(cfg.BcryptCost)
	userService := services.NewUserService(db)
	twoFactorService := services.NewTwoFactorService(userService, cfg.TOTPIssuer)
	vaultService := services.NewVaultService(db)

	return &Services{
		Auth:      services.NewAuthService(userService, hasher, jwtService, twoFactorService, cfg.LoginMaxAttempts, log),
		Sessions:  services.NewSessionService(db, jwtService),
		TwoFactor: twoFactorService,
		Vault:     vaultService,
		Transfer:  services.NewTransferService(db, vaultService, log),
	}
}

// Router is the drift application as seen by main and the integration tests.
type Router interface {
	http.Handler
	Run(addr string) error
}

func NewRouter(cfg *config.Config, db *database.DB, svc *Services, log zerolog.Logger) Router {
	authHandler := handlers.NewAuthHandler(cfg, svc.Auth, svc.Sessions, log)
	twoFactorHandler := handlers.NewTwoFactorHandler(svc.TwoFactor, log)
	vaultHandler := handlers.NewVaultHandler(svc.Vault, log)
	transferHandler := handlers.NewTransferHandler(svc.Transfer, log)
	healthHandler := handlers.NewHealthHandler(db)
	docsHandler := handlers.NewDocsHandler(apidoc.MustLoad())

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())
	app.Use(authmw.RequestLogger(log))

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/signup", authHandler.Signup)
	auth.Post("/login", authHandler.Login)

	logout := api.Group("")
	logout.Use(authmw.OptionalAuth(svc.Sessions))
	logout.Post("/auth/logout", authHandler.Logout)

	protected := api.Group("")
	protected.Use(authmw.Auth(svc.Sessions, log))

	protected.Get("/auth/me", authHandler.Me)

	protected.Post("/auth/2fa/setup", twoFactorHandler.Setup)
	protected.Post("/auth/2fa/verify", twoFactorHandler.Verify)
	protected.Post("/auth/2fa/disable", twoFactorHandler.Disable)

	protected.Get("/vault", vaultHandler.List)
	protected.Post("/vault", vaultHandler.Create)
	protected.Post("/vault/export", transferHandler.Export)
	protected.Post("/vault/import", transferHandler.Import)
	protected.Put("/vault/:id", vaultHandler.Update)
	protected.Delete("/vault/:id", vaultHandler.Delete)

	api.Get("/health", healthHandler.Health)
	api.Get("/openapi.json", docsHandler.OpenAPI)

	return app
}
