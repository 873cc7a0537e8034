package v1

import (
	"net/http"
	"portfolio-contact-api/internal/usecase"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	healthUC usecase.HealthUsecase
}

// NewHealthHandler registers the service metadata and liveness endpoints at the root.
func NewHealthHandler(r gin.IRoutes, healthUC usecase.HealthUsecase) {
	handler := &HealthHandler{healthUC: healthUC}

	r.GET("/", handler.Root)
	r.GET("/health", handler.Health)
}

// Root returns the service name, version and docs location.
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, h.healthUC.Info(c.Request.Context()))
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.healthUC.Check(c.Request.Context()))
}
