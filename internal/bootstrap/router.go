package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	httpapi "github.com/airavata-tech/portfolio-api/internal/api/http"
	"github.com/airavata-tech/portfolio-api/internal/api/http/middleware"
	cataloghttp "github.com/airavata-tech/portfolio-api/internal/catalog/http"
	"github.com/airavata-tech/portfolio-api/internal/catalog/service"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	Driver         string
	CORSOrigins    []string
	APIKey         string
	WriteRateLimit float64
	WriteRateBurst int
	Catalog        *service.CatalogService
	Logger         *zap.Logger
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(dep.Logger))
	r.Use(cors.New(corsConfig(dep.CORSOrigins)))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Driver, dep.Catalog)
	healthHandler.RegisterRoutes(r)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	cataloghttp.New(dep.Catalog).Register(api,
		middleware.APIKey(dep.APIKey),
		middleware.RateLimit(dep.WriteRateLimit, dep.WriteRateBurst),
	)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.HeaderAPIKey, middleware.HeaderRequestID},
		ExposeHeaders: []string{middleware.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}

	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}
