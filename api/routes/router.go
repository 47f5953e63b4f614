// api/routes/router.go
package routes

import (
	"fmt"
	"net/http"
	"time"

	"popupzone/api/docs"
	"popupzone/internal/notifications"
	"popupzone/internal/placement"
	"popupzone/internal/shared/config"
	"popupzone/internal/shared/database"
	"popupzone/internal/shared/middleware"
	"popupzone/internal/storage/memory"
	"popupzone/internal/zones"
	"popupzone/pkg/cache"
	"popupzone/pkg/lock"
	"popupzone/pkg/logger"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Router holds all route dependencies
type Router struct {
	config    *config.Config
	db        *database.DB
	log       *logger.Logger
	publisher notifications.Publisher

	uow      placement.UnitOfWork
	zoneRepo zones.Repository
	locker   lock.Locker
}

// NewRouter picks the storage and lock backends the configuration asks for.
func NewRouter(cfg *config.Config, db *database.DB, publisher notifications.Publisher, log *logger.Logger) (*Router, error) {
	r := &Router{
		config:    cfg,
		db:        db,
		log:       log,
		publisher: publisher,
	}

	if cfg.UsesMemoryStorage() {
		store := memory.NewStore()
		r.uow = store
		r.zoneRepo = store.Zones()
		log.Info("Using in-memory storage")
	} else {
		if db.PostgreSQL == nil {
			return nil, fmt.Errorf("storage driver %q needs a PostgreSQL connection", cfg.Storage.Driver)
		}
		r.uow = placement.NewGormUnitOfWork(db.PostgreSQL)
		r.zoneRepo = zones.NewRepository(db.PostgreSQL)
	}

	locker, err := r.buildLocker()
	if err != nil {
		return nil, err
	}
	r.locker = locker
	return r, nil
}

func (r *Router) buildLocker() (lock.Locker, error) {
	switch r.config.Lock.Backend {
	case config.LockBackendRedis:
		locker, err := lock.NewRedisLocker(r.db.Redis, lock.Options{
			Timeout:    r.config.Lock.Timeout,
			Expiry:     r.config.Lock.Expiry,
			RetryDelay: r.config.Lock.RetryDelay,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to build redis locker: %w", err)
		}
		r.log.Info("Using distributed cell locks", "expiry", r.config.Lock.Expiry.String())
		return locker, nil
	case config.LockBackendMemory, "":
		return lock.NewKeyedMutex(r.config.Lock.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown lock backend %q", r.config.Lock.Backend)
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)
	r.setupSwaggerRoutes(engine)

	auth := middleware.JWTAuthWithConfig(r.config)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupZoneRoutes(api, auth)
		r.setupPlacementRoutes(api, auth)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "popupzone-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "popupzone-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":       "operational",
			"api_version":  r.config.APIVersion,
			"storage":      r.config.Storage.Driver,
			"lock_backend": r.config.Lock.Backend,
			"redis":        r.db.Redis != nil,
			"timestamp":    time.Now(),
		})
	})
}

func (r *Router) setupSwaggerRoutes(engine *gin.Engine) {
	docs.SwaggerInfo.BasePath = r.config.GetAPIBasePath()
	docs.SwaggerInfo.Version = r.config.APIVersion
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// setupZoneRoutes configures zone administration routes
func (r *Router) setupZoneRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	zoneService := zones.NewService(r.zoneRepo)
	zoneController := zones.NewController(zoneService)

	zones.SetupZoneRoutes(rg, zoneController, auth)
}

// setupPlacementRoutes configures placement requests and the approval queue
func (r *Router) setupPlacementRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	opts := placement.Options{
		Policy: placement.Policy{
			MaxSpanDays:     r.config.Placement.MaxSpanDays,
			RejectPastDates: r.config.Placement.RejectPastDates,
		},
		LockTimeout:   r.config.Lock.Timeout,
		QueueCacheTTL: r.config.Placement.QueueCacheTTL,
		Publisher:     r.publisher,
		Logger:        r.log,
	}
	if r.db.Redis != nil {
		opts.Cache = cache.NewService(r.db.Redis)
	}

	placementService := placement.NewService(r.uow, r.locker, opts)
	placementController := placement.NewController(placementService)

	placement.SetupPlacementRoutes(rg, placementController, auth)
}
