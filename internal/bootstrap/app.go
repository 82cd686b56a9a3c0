package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/access"
	"jobboard-backend/internal/applications"
	googleauth "jobboard-backend/internal/auth"
	"jobboard-backend/internal/companies"
	"jobboard-backend/internal/opportunities"
	"jobboard-backend/internal/resumes"
	"jobboard-backend/internal/services/health"
	"jobboard-backend/internal/shared/config"
	"jobboard-backend/internal/shared/metrics"
	"jobboard-backend/internal/shared/server"
	"jobboard-backend/internal/shared/storage/db"
	"jobboard-backend/internal/shared/storage/object"
	localstore "jobboard-backend/internal/shared/storage/object/local"
	s3store "jobboard-backend/internal/shared/storage/object/s3"
	"jobboard-backend/internal/shared/telemetry"
	"jobboard-backend/internal/users"
)

// App holds shared dependencies and the assembled router.
type App struct {
	Config  config.Config
	Router  *gin.Engine
	DB      *sql.DB
	Store   object.ObjectStore
	Metrics *metrics.Registry
	Access  *access.Evaluator

	UsersService         *users.Service
	CompaniesService     *companies.Service
	OpportunitiesService *opportunities.Service
	ApplicationsService  *applications.Service
	ResumesService       *resumes.Service
}

type repos struct {
	users         users.Repo
	companies     companies.Repo
	opportunities opportunities.Repo
	applications  applications.Repo
	resumes       resumes.Repo
}

// Build connects storage, wires services and mounts routes.
func Build(cfg config.Config) (*App, error) {
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:  cfg,
		DB:      sqlDB,
		Store:   store,
		Metrics: metrics.New(),
	}
	app.buildServices()
	app.Router = server.NewRouter(server.RouterDeps{
		Config:             cfg,
		Metrics:            app.Metrics,
		Store:              store,
		Health:             health.NewService(sqlDB),
		UserHandler:        users.NewHandler(app.UsersService),
		CompanyHandler:     companies.NewHandler(app.CompaniesService),
		OpportunityHandler: opportunities.NewHandler(app.OpportunitiesService),
		ApplicationHandler: applications.NewHandler(app.ApplicationsService),
		ResumeHandler:      resumes.NewHandler(app.ResumesService),
		GoogleAuth: googleauth.NewGoogleService(
			cfg.GoogleClientID,
			cfg.GoogleClientSecret,
			cfg.GoogleRedirectURL,
			cfg.UIRedirectURL,
			app.UsersService,
		),
		DevTokens: googleauth.NewDevTokenHandler(app.UsersService),
	})
	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			telemetry.Info("bootstrap.memory_repos", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.Options(cfg.DB))
	if err == nil {
		err = db.RunMigrations(ctx, sqlDB)
	}
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.memory_repos", map[string]any{"reason": "database unavailable", "error": err.Error()})
			if sqlDB != nil {
				sqlDB.Close()
			}
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func (app *App) buildServices() {
	var r repos
	if app.DB != nil {
		r = pgRepos(app.DB)
	} else {
		r = memoryRepos()
	}

	resolver := access.NewResolver()
	resolver.Register(r.users, access.KindUser)
	resolver.Register(r.companies, access.KindCompany, access.KindReview, access.KindQuestion, access.KindAnswer)
	resolver.Register(r.opportunities, access.KindOpportunity, access.KindSaved)
	resolver.Register(r.applications, access.KindApplication)
	resolver.Register(r.resumes, access.KindResume, access.KindWorkExperience, access.KindAcademicExperience, access.KindLanguage)
	app.Access = &access.Evaluator{Resolver: resolver, Observe: app.Metrics.ObserveDecision}

	app.UsersService = users.NewService(r.users, app.Access)
	app.CompaniesService = &companies.Service{
		Repo:         r.companies,
		Access:       app.Access,
		Store:        app.Store,
		MediaBaseURL: app.Config.MediaBaseURL,
	}
	app.OpportunitiesService = &opportunities.Service{Repo: r.opportunities, Access: app.Access}
	app.ApplicationsService = &applications.Service{
		Repo:          r.applications,
		Access:        app.Access,
		Profiles:      app.UsersService,
		Opportunities: app.OpportunitiesService,
	}
	app.ResumesService = &resumes.Service{Repo: r.resumes, Access: app.Access}
}

// pgRepos relies on ON DELETE CASCADE for dependent rows.
func pgRepos(sqlDB *sql.DB) repos {
	return repos{
		users:         &users.PGRepo{DB: sqlDB},
		companies:     &companies.PGRepo{DB: sqlDB},
		opportunities: &opportunities.PGRepo{DB: sqlDB},
		applications:  &applications.PGRepo{DB: sqlDB},
		resumes:       &resumes.PGRepo{DB: sqlDB},
	}
}

// memoryRepos links the in-process repositories so that deletes cascade the
// way the foreign keys do in Postgres.
func memoryRepos() repos {
	userRepo := users.NewMemoryRepo()
	companyRepo := companies.NewMemoryRepo()
	oppRepo := opportunities.NewMemoryRepo()
	resumeRepo := resumes.NewMemoryRepo()
	appRepo := applications.NewMemoryRepo(oppRepo, resumeRepo)

	companyRepo.Cascade = oppRepo
	oppRepo.Companies = companyRepo
	oppRepo.Applicants = appRepo
	oppRepo.Cascade = appRepo
	resumeRepo.Cascade = appRepo

	return repos{
		users:         userRepo,
		companies:     companyRepo,
		opportunities: oppRepo,
		applications:  appRepo,
		resumes:       resumeRepo,
	}
}
