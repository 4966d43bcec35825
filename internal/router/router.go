package router

import (
	"database/sql"
	"net/http"
	"os"

	mem "care-access/internal/adapters/storage/memory"
	pg "care-access/internal/adapters/storage/postgres"
	_ "care-access/docs"
	"care-access/internal/domain/monitoring"
	"care-access/internal/domain/permissions"
	"care-access/internal/domain/profiles"
	"care-access/internal/middleware"
	"care-access/internal/ports/auth"
	"care-access/internal/ports/capabilities"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Capabilities puede ser nil: sin resolver no se gatea la creación de requests.
	Capabilities capabilities.CapabilitiesResolver

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	var (
		permsRepo      permissions.Repository
		profilesRepo   profiles.Repository
		monitoringRepo monitoring.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			}
		}
	}

	if db != nil {
		permsRepo = pg.NewPermissionsRepo(db)
		profilesRepo = pg.NewProfilesRepo(db)
		monitoringRepo = pg.NewMonitoringRepo(db)
	} else {
		permsRepo = mem.NewPermissionsRepo()
		profilesRepo = mem.NewProfilesRepo()
		monitoringRepo = mem.NewMonitoringRepo()
	}

	// Services por módulo
	permsSvc := permissions.NewService(permsRepo)
	profilesSvc := profiles.NewService(profilesRepo)
	monitoringSvc := monitoring.NewService(monitoringRepo)

	// Rutas por módulo
	permissions.RegisterRoutes(r, permsSvc, opts.Capabilities)
	profiles.RegisterRoutes(r, profilesSvc, permsSvc)
	monitoring.RegisterRoutes(r, monitoringSvc, profilesSvc, permsSvc)

	return r
}
