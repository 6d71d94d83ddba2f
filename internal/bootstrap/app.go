package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"docgate-backend/internal/admin"
	"docgate-backend/internal/documents"
	"docgate-backend/internal/identity"
	"docgate-backend/internal/passwordreset"
	"docgate-backend/internal/profiles"
	"docgate-backend/internal/shared/config"
	"docgate-backend/internal/shared/server"
	"docgate-backend/internal/shared/storage/db"
	"docgate-backend/internal/shared/storage/object"
	localstore "docgate-backend/internal/shared/storage/object/local"
	s3store "docgate-backend/internal/shared/storage/object/s3"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	Verifier identity.Verifier

	ProfilesRepo  profiles.Repo
	DocumentsRepo documents.Repo

	ProfilesService  *profiles.Service
	DocumentsService *documents.Service
	ResetService     *passwordreset.Service
	AdminService     *admin.Service

	ProfileHandler  *profiles.Handler
	ResetHandler    *passwordreset.Handler
	DocumentHandler *documents.Handler
	AdminHandler    *admin.Handler
}

// BuildOverrides lets callers swap external dependencies, mainly in tests.
type BuildOverrides struct {
	Verifier identity.Verifier
	Updater  identity.CredentialUpdater
	Sender   passwordreset.Sender
	Store    object.ObjectStore
}

// Build prepares shared dependencies and the router.
func Build(cfg config.Config) (*App, error) {
	return BuildWith(cfg, BuildOverrides{})
}

// BuildWith is Build with dependency overrides applied.
func BuildWith(cfg config.Config, overrides BuildOverrides) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store := overrides.Store
	if store == nil {
		store, err = buildStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
	}

	verifier, updater, err := buildIdentityClient(cfg, overrides)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:   cfg,
		DB:       sqlDB,
		Store:    store,
		Verifier: verifier,
	}

	buildServices(app, updater, overrides.Sender)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		Verifier:        app.Verifier,
		Gate:            app.ProfilesService,
		ProfileHandler:  app.ProfileHandler,
		ResetHandler:    app.ResetHandler,
		DocumentHandler: app.DocumentHandler,
		AdminHandler:    app.AdminHandler,
		DB:              app.DB,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: migrations failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildIdentityClient(cfg config.Config, overrides BuildOverrides) (identity.Verifier, identity.CredentialUpdater, error) {
	if overrides.Verifier != nil || overrides.Updater != nil {
		if overrides.Verifier == nil || overrides.Updater == nil {
			return nil, nil, fmt.Errorf("verifier and updater overrides must be set together")
		}
		return overrides.Verifier, overrides.Updater, nil
	}

	if strings.TrimSpace(cfg.AuthProviderURL) == "" {
		if !isDevLike(cfg.Env) {
			return nil, nil, fmt.Errorf("AUTH_PROVIDER_URL is required")
		}
		log.Printf("bootstrap: AUTH_PROVIDER_URL empty; credential checks will fail until it is set")
		return unconfiguredProvider{}, unconfiguredProvider{}, nil
	}

	client, err := identity.NewHTTPClient(cfg.AuthProviderURL, cfg.AuthServiceKey)
	if err != nil {
		return nil, nil, err
	}
	return client, client, nil
}

// unconfiguredProvider stands in when no provider URL is set. Every
// call fails upstream, which surfaces as 401s with a logged cause.
type unconfiguredProvider struct{}

func (unconfiguredProvider) VerifyToken(ctx context.Context, bearer string) (identity.Identity, error) {
	return identity.Identity{}, fmt.Errorf("%w: provider url not configured", identity.ErrUpstream)
}

func (unconfiguredProvider) UpdateCredential(ctx context.Context, id identity.ID, newPassword string) error {
	return fmt.Errorf("%w: provider url not configured", identity.ErrUpstream)
}

func buildServices(app *App, updater identity.CredentialUpdater, sender passwordreset.Sender) {
	var profilesRepo profiles.Repo
	var documentsRepo documents.Repo

	if app.DB != nil {
		profilesRepo = &profiles.PGRepo{DB: app.DB}
		documentsRepo = &documents.PGRepo{DB: app.DB}
	} else {
		memProfiles := profiles.NewMemoryRepo()
		profilesRepo = memProfiles
		documentsRepo = documents.NewMemoryRepo(func(ctx context.Context, owner identity.ID) (string, string, identity.Role, error) {
			p, err := memProfiles.GetByID(ctx, owner)
			if err != nil {
				return "", "", "", err
			}
			return p.Email, p.FullName, p.Role, nil
		})
	}

	profileSvc := profiles.NewService(profilesRepo)
	docSvc := documents.NewService(documentsRepo, app.Store)

	if sender == nil {
		sender = buildSender(app.Config)
	}
	resetSvc := passwordreset.NewService(profileSvc, updater, sender, app.Config.OTPTTL)
	adminSvc := admin.NewService(docSvc, profileSvc)

	app.ProfilesRepo = profilesRepo
	app.DocumentsRepo = documentsRepo
	app.ProfilesService = profileSvc
	app.DocumentsService = docSvc
	app.ResetService = resetSvc
	app.AdminService = adminSvc
	app.ProfileHandler = profiles.NewHandler(profileSvc)
	app.ResetHandler = passwordreset.NewHandler(resetSvc)
	app.DocumentHandler = documents.NewHandler(docSvc)
	app.AdminHandler = admin.NewHandler(adminSvc)
}

func buildSender(cfg config.Config) passwordreset.Sender {
	if cfg.OTPSender == "smtp" && cfg.SMTPHost != "" {
		return &passwordreset.SMTPSender{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		}
	}
	return passwordreset.LogSender{}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
