package bootstrap

import (
	"time"

	"cloud.google.com/go/firestore"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/schiefeling-archiv/archiv-backend/internal/api/http"
	"github.com/schiefeling-archiv/archiv-backend/internal/api/http/middleware"
	"github.com/schiefeling-archiv/archiv-backend/internal/auth"
	dochttp "github.com/schiefeling-archiv/archiv-backend/internal/documents/http"
	docrepo "github.com/schiefeling-archiv/archiv-backend/internal/documents/repository"
	docservice "github.com/schiefeling-archiv/archiv-backend/internal/documents/service"
	menuhttp "github.com/schiefeling-archiv/archiv-backend/internal/menu/http"
	menurepo "github.com/schiefeling-archiv/archiv-backend/internal/menu/repository"
	menuservice "github.com/schiefeling-archiv/archiv-backend/internal/menu/service"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
	MaxUploadBytes int64

	Store    *firestore.Client
	Files    docservice.FileStore
	Verifier auth.TokenVerifier
	Cache    *redis.Client // nil disables the menu cache
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     dep.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-Id"},
		ExposeHeaders:    []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RequestID())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Store)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")
	api.Use(auth.OptionalUser(dep.Verifier))
	api.Use(middleware.RateLimit(dep.RateLimitRPS, dep.RateLimitBurst))

	api.GET("/tags", dochttp.Tags)

	var menuStore menurepo.Store = menurepo.NewFirestoreRepo(dep.Store)
	if dep.Cache != nil {
		menuStore = menurepo.NewCachedStore(menuStore, dep.Cache)
	}
	menuSvc := menuservice.NewService(menuStore)
	menuhttp.Register(api.Group("/menu"), menuSvc,
		auth.RequireUser(dep.Verifier), auth.RequireAdmin())

	docSvc := docservice.NewService(
		docrepo.NewFirestoreRepo(dep.Store), dep.Files, dep.MaxUploadBytes)
	dochttp.Register(api.Group("/documents"), docSvc,
		auth.RequireUser(dep.Verifier),
		auth.RequireUser(dep.Verifier), auth.RequireAdmin())

	return r
}
