package bootstrap

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/textboard/textboard-backend/config"
	httpapi "github.com/textboard/textboard-backend/internal/api/http"
	"github.com/textboard/textboard-backend/internal/api/http/middleware"
	"github.com/textboard/textboard-backend/internal/auth"
	"github.com/textboard/textboard-backend/internal/callable"
	"github.com/textboard/textboard-backend/internal/comments"
	"github.com/textboard/textboard-backend/internal/ratelimit"
	"github.com/textboard/textboard-backend/internal/storage"
	"github.com/textboard/textboard-backend/internal/texts"
	"github.com/textboard/textboard-backend/internal/workspace"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	Cfg         *config.Config
	DB          storage.Pool
	Redis       *redis.Client
	Verifier    auth.IdentityVerifier
	Gate        *workspace.Gate
	Log         *zap.Logger
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(dep.Log))

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = dep.Cfg.Server.AllowedOrigins
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "X-Request-Id")
	r.Use(cors.New(corsCfg))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	textRepo := texts.NewRepo(dep.DB)
	commentRepo := comments.NewRepo(dep.DB)

	registry := callable.NewRegistry(dep.Log)
	texts.NewHandler(textRepo, dep.Gate, dep.Log).Register(registry)
	comments.NewHandler(commentRepo, dep.Gate, dep.Log).Register(registry)

	limiter := ratelimit.New(dep.Cfg.RateLimit.PerSecond, dep.Cfg.RateLimit.Burst)

	api := r.Group("/api")
	api.Use(auth.Middleware(dep.Verifier))
	api.Use(ratelimit.Middleware(limiter))
	api.POST("/callable/:name", registry.Dispatch)

	return r
}
