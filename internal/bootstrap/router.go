package bootstrap

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/nebula-db/nebula-backend/config"
	"github.com/nebula-db/nebula-backend/internal/accesslist"
	accesshttp "github.com/nebula-db/nebula-backend/internal/accesslist/http"
	httpapi "github.com/nebula-db/nebula-backend/internal/api/http"
	"github.com/nebula-db/nebula-backend/internal/api/http/middleware"
	"github.com/nebula-db/nebula-backend/internal/atlas"
	"github.com/nebula-db/nebula-backend/internal/inspection"
	insphttp "github.com/nebula-db/nebula-backend/internal/inspection/http"
	"github.com/nebula-db/nebula-backend/internal/provisioning"
	provhttp "github.com/nebula-db/nebula-backend/internal/provisioning/http"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	Config      *config.Config
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.RequestIDMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins: dep.Config.Server.AllowedOrigins,
		AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "X-Request-Id"},
	}))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version)
	healthHandler.RegisterRoutes(r)

	client := atlas.NewClient(dep.Config.Atlas)

	provHandler := provhttp.New(provisioning.NewService(client, provisioning.DefaultRetryPolicy()))
	provHandler.Register(r)

	inspHandler := insphttp.New(inspection.NewService(client))
	inspHandler.Register(r)

	accessHandler := accesshttp.New(accesslist.NewService(client))
	accessHandler.Register(r)

	return r
}
