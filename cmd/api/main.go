package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"

	appanalytics "github.com/jhoicas/Inventario-hotel/internal/application/analytics"
	"github.com/jhoicas/Inventario-hotel/internal/application/auth"
	"github.com/jhoicas/Inventario-hotel/internal/application/entry"
	"github.com/jhoicas/Inventario-hotel/internal/application/inventory"
	"github.com/jhoicas/Inventario-hotel/internal/application/ports"
	"github.com/jhoicas/Inventario-hotel/internal/application/report"
	"github.com/jhoicas/Inventario-hotel/internal/application/usecase"
	"github.com/jhoicas/Inventario-hotel/internal/domain/ledger"
	"github.com/jhoicas/Inventario-hotel/internal/domain/repository"
	infraai "github.com/jhoicas/Inventario-hotel/internal/infrastructure/ai"
	"github.com/jhoicas/Inventario-hotel/internal/infrastructure/memory"
	"github.com/jhoicas/Inventario-hotel/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/Inventario-hotel/internal/infrastructure/pdf"
	"github.com/jhoicas/Inventario-hotel/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/Inventario-hotel/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/Inventario-hotel/internal/interfaces/http"
	"github.com/jhoicas/Inventario-hotel/pkg/config"
	"github.com/jhoicas/Inventario-hotel/pkg/logger"
)

// stores almacenes según STORE_DRIVER.
type stores struct {
	inventory repository.InventoryStore
	catalog   repository.CatalogStore
	users     repository.UserRepository
	close     func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("store", cfg.App.StoreDriver).
		Str("sessions", cfg.Session.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st := openStores(ctx, cfg, log)
	defer st.close()

	ids := ledger.UUIDSource{}
	reg := prometheus.NewRegistry()
	prom := metrics.New(reg)

	inv := inventory.NewService(st.inventory, ids, prom, log.Component("inventory"))
	if err := inv.Reload(ctx); err != nil {
		log.Fatal().Err(err).Msg("carga inicial del inventario")
	}

	catalogUC := usecase.NewCatalogUseCase(st.catalog, ids)
	userUC := usecase.NewUserUseCase(st.users, ids, log.Component("users"))
	if cfg.Admin.Password != "" {
		created, err := userUC.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password)
		if err != nil {
			log.Fatal().Err(err).Msg("crear administrador inicial")
		}
		if created {
			log.Warn().Str("username", cfg.Admin.Username).Msg("administrador inicial creado; cambia la contraseña")
		}
	}

	sessions, closeSessions := openSessions(ctx, cfg, log)
	defer closeSessions()
	entrySvc := entry.NewService(sessions, inv, catalogUC, ids, log.Component("entry"))

	authUC := auth.NewAuthUseCase(st.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	dashboardUC := appanalytics.NewDashboardUseCase(inv, catalogUC)
	aiUC := usecase.NewAIUseCase(newLLM(cfg.AI, log), inv)
	stockReport := report.NewStockReportUseCase(inv, infrapdf.NewMarotoPDFGenerator(), cfg.App.Name)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log, prom))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "Inventario Hotel API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		Inventory:   inv,
		Entries:     entrySvc,
		CatalogUC:   catalogUC,
		UserUC:      userUC,
		AuthUC:      authUC,
		DashboardUC: dashboardUC,
		AIUC:        aiUC,
		StockReport: stockReport,
		Metrics:     prom.Handler(),
		ServiceName: cfg.App.Name,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) stores {
	if cfg.App.StoreDriver == config.DriverMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		return stores{
			inventory: memory.NewInventoryStore(),
			catalog:   memory.NewCatalogStore(),
			users:     memory.NewUserRepository(),
			close:     func() {},
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migración del esquema")
		}
	}
	return stores{
		inventory: postgres.NewInventoryStore(pool),
		catalog:   postgres.NewCatalogStore(pool),
		users:     postgres.NewUserRepository(pool),
		close:     pool.Close,
	}
}

func openSessions(ctx context.Context, cfg *config.Config, log *logger.Logger) (entry.SessionStore, func()) {
	ttl := cfg.Session.TTL
	if cfg.Session.Driver != config.DriverRedis {
		return memory.NewSessionStore(ttl), func() {}
	}
	client, err := infraredis.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
	}
	return infraredis.NewSessionStore(client, ttl), func() { _ = client.Close() }
}

// newLLM elige el proveedor de IA. Sin clave devuelve nil y el análisis responde 503.
func newLLM(cfg config.AIConfig, log *logger.Logger) ports.LLMService {
	switch cfg.Provider {
	case "anthropic":
		if cfg.AnthropicAPIKey != "" {
			return infraai.NewAnthropicService(cfg.AnthropicAPIKey, cfg.AnthropicModel)
		}
	case "gemini", "":
		if cfg.GeminiAPIKey != "" {
			return infraai.NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiModel)
		}
	default:
		log.Warn().Str("provider", cfg.Provider).Msg("proveedor de IA desconocido")
		return nil
	}
	log.Warn().Str("provider", cfg.Provider).Msg("análisis IA deshabilitado: falta la API key")
	return nil
}
