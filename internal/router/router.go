package router

import (
	"time"

	"afiliados/internal/config"
	"afiliados/internal/handler"
	"afiliados/internal/middleware"
	"afiliados/internal/model"
	"afiliados/internal/repository"
	"afiliados/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis.
// resumenes receives group statement jobs; the worker.Dispatcher satisfies it.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, resumenes service.ResumenEnqueuer) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigins...))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(rdb, "api", 1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	socioRepo := repository.NewSocioRepository(db)
	grupoRepo := repository.NewGrupoRepository(db)
	bajaRepo := repository.NewBajaRepository(db)
	catalogoRepo := repository.NewCatalogoRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	afiliadoSvc := service.NewAfiliadoService(socioRepo)
	grupoSvc := service.NewGrupoService(grupoRepo, resumenes)
	bajaSvc := service.NewBajaService(bajaRepo)
	catalogoSvc := service.NewCatalogoService(catalogoRepo, rdb, cfg.CatalogoCacheTTL)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	afiliadosH := handler.NewAfiliadosHandler(afiliadoSvc, bajaSvc)
	gruposH := handler.NewGruposHandler(grupoSvc)
	catalogosH := handler.NewCatalogosHandler(catalogoSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(rdb), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes: every business endpoint needs an access token.
	todos := middleware.RequireRole(model.RolAdministrador, model.RolOperador)
	soloAdmin := middleware.RequireRole(model.RolAdministrador)

	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	{
		gp := v1.Group("/group-premium", todos)
		{
			gp.GET("", gruposH.Calcular)
			gp.POST("/draft", gruposH.Borrador)
			gp.POST("/statement", gruposH.Resumen)
		}

		// Reads for every role; writes and bajas for administrador only.
		// ultimo-numero is registered before :numero so it is not shadowed.
		v1.GET("/afiliados", todos, afiliadosH.Listar)
		v1.GET("/afiliados/ultimo-numero", todos, afiliadosH.UltimoNumero)
		v1.GET("/afiliados/:numero", todos, afiliadosH.Obtener)
		afi := v1.Group("/afiliados", soloAdmin)
		{
			afi.POST("", afiliadosH.Crear)
			afi.PUT("/:numero", afiliadosH.Actualizar)
			afi.POST("/:numero/baja", afiliadosH.Baja)
		}

		cat := v1.Group("/catalogos", todos)
		{
			cat.GET("/planes", catalogosH.Planes)
			cat.GET("/zonas", catalogosH.Zonas)
			cat.DELETE("/cache", soloAdmin, catalogosH.Invalidar)
		}

		v1.POST("/usuarios", soloAdmin, usuariosH.Crear)
	}

	// Swagger UI only outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
