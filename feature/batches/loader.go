package batches

import (
	"time"

	"corescan-portal/core/walker"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the batches feature. db may carry an unmigrated
// schema; callers run Migrate separately when they own the store.
func NewFeature(db *gorm.DB, w *walker.Walker, logger *zap.Logger, cacheTTL time.Duration) *Feature {
	svc := NewService(NewStore(db), w, logger, cacheTTL)
	h := NewHandler(svc)
	return &Feature{service: svc, handler: h}
}

// Service exposes the underlying service for CLI use.
func (f *Feature) Service() *Service {
	return f.service
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "batches"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
