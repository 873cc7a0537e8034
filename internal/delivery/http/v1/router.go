package v1

import (
	"fmt"
	"net/http"
	"portfolio-contact-api/config"
	"portfolio-contact-api/internal/delivery/http/middleware"
	"portfolio-contact-api/internal/delivery/http/response"
	"portfolio-contact-api/internal/domain"
	"portfolio-contact-api/internal/usecase"
	"portfolio-contact-api/pkg/logger"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

const (
	APIPrefix  = "/api/v1"
	DocsPrefix = "/docs"
	// DocsPath is advertised by the root endpoint.
	DocsPath = DocsPrefix + "/index.html"
)

type RouterDeps struct {
	ContactUC domain.ContactUsecase
	HealthUC  usecase.HealthUsecase
	Config    *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.AllowedOrigins)) // CORS must be first!
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.FromContext(c.Request.Context()).Error("Panic recovered", zap.Any("panic", recovered), zap.Stack("stack"))
		response.Error(c, http.StatusInternalServerError, fmt.Sprintf("Internal server error: %v", recovered), nil)
		c.Abort()
	}))
	r.Use(middleware.SecurityHeadersMiddleware(DocsPrefix))
	r.Use(middleware.ErrorHandler())

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "Not Found", nil)
	})

	// Service metadata and liveness
	NewHealthHandler(r, deps.HealthUC)

	// Swagger
	r.GET(DocsPrefix+"/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group(APIPrefix)
	NewContactHandler(api, deps.ContactUC)

	return r
}
