package batches

import (
	"corescan-portal/core/logger"
	"corescan-portal/core/utils"
	"corescan-portal/core/validate"
	"corescan-portal/feature/batches/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for batch records and share operations.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the batch routes. Static paths come before the
// :id parameter routes so they are matched first.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/batches")
	group.Get("/", h.HandleListBatches)
	group.Post("/", h.HandleCreateBatch)
	group.Get("/stats", h.HandleDashboard)
	group.Get("/anomalies", h.HandleAnomalies)
	group.Get("/remote", h.HandleRemoteBatches)
	group.Get("/images", h.HandleImages)
	group.Get("/cache", h.HandleCacheStats)
	group.Delete("/cache", h.HandleInvalidateCache)
	group.Post("/sync", h.HandleSync)
	group.Get("/:id", h.HandleGetBatch)
	group.Put("/:id", h.HandleUpdateBatch)
	group.Delete("/:id", h.HandleDeleteBatch)
	group.Post("/:id/validate", h.HandleValidateBatch)
}

// HandleListBatches returns batches newest first, optionally filtered by
// status and bounded by limit/offset.
func (h *Handler) HandleListBatches(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	batches, err := h.service.ListBatches(
		c.Query("status"),
		utils.ToInt(c.Query("limit")),
		utils.ToInt(c.Query("offset")),
	)
	if err != nil {
		l.Error("Batch listing failed", zap.Error(err))
		return internalError(c, err)
	}
	return c.JSON(batches)
}

// HandleCreateBatch records a new batch from a JSON body.
func (h *Handler) HandleCreateBatch(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var batch models.Batch
	if err := c.BodyParser(&batch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid batch payload",
		})
	}
	if batch.HoleID == "" || batch.Machine == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "hole_id and machine are required",
		})
	}

	if err := h.service.CreateBatch(&batch); err != nil {
		l.Error("Batch creation failed", zap.Error(err))
		return internalError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(batch)
}

// HandleGetBatch returns one batch with its scan evidence.
func (h *Handler) HandleGetBatch(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	batch, err := h.service.GetBatch(uint(utils.ToInt(c.Params("id"))))
	if err != nil {
		l.Error("Batch lookup failed", zap.Error(err))
		return internalError(c, err)
	}
	if batch == nil {
		return notFound(c)
	}
	return c.JSON(batch)
}

// HandleUpdateBatch saves edits to an existing batch.
func (h *Handler) HandleUpdateBatch(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	id := uint(utils.ToInt(c.Params("id")))
	batch, err := h.service.GetBatch(id)
	if err != nil {
		l.Error("Batch lookup failed", zap.Error(err))
		return internalError(c, err)
	}
	if batch == nil {
		return notFound(c)
	}

	if err := c.BodyParser(batch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid batch payload",
		})
	}
	batch.ID = id

	if err := h.service.UpdateBatch(batch); err != nil {
		l.Error("Batch update failed", zap.Error(err))
		return internalError(c, err)
	}
	return c.JSON(batch)
}

// HandleDeleteBatch removes a batch and its evidence.
func (h *Handler) HandleDeleteBatch(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	id := uint(utils.ToInt(c.Params("id")))
	batch, err := h.service.GetBatch(id)
	if err != nil {
		l.Error("Batch lookup failed", zap.Error(err))
		return internalError(c, err)
	}
	if batch == nil {
		return notFound(c)
	}

	if err := h.service.DeleteBatch(id); err != nil {
		l.Error("Batch deletion failed", zap.Error(err))
		return internalError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleValidateBatch reconciles one batch against the remote share.
func (h *Handler) HandleValidateBatch(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	result, err := h.service.ValidateBatch(c.Context(), uint(utils.ToInt(c.Params("id"))))
	if err != nil {
		l.Error("Batch validation failed", zap.Error(err))
		return internalError(c, err)
	}
	if result == nil {
		return notFound(c)
	}
	return c.JSON(result)
}

// HandleSync records pending batches for unseen hole+machine pairs found
// on the share.
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.SyncFromShare(c.Context())
	if err != nil {
		l.Error("Share synchronization failed", zap.Error(err))
		return internalError(c, err)
	}
	return c.JSON(report)
}

// HandleDashboard returns the summary stats.
func (h *Handler) HandleDashboard(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	stats, err := h.service.Dashboard()
	if err != nil {
		l.Error("Dashboard stats failed", zap.Error(err))
		return internalError(c, err)
	}
	return c.JSON(stats)
}

// HandleAnomalies returns locally detectable data-entry problems.
func (h *Handler) HandleAnomalies(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	anomalies, err := h.service.Anomalies()
	if err != nil {
		l.Error("Anomaly sweep failed", zap.Error(err))
		return internalError(c, err)
	}
	if anomalies == nil {
		anomalies = []validate.Anomaly{}
	}
	return c.JSON(anomalies)
}

// HandleRemoteBatches returns the cached full share scan.
func (h *Handler) HandleRemoteBatches(c *fiber.Ctx) error {
	return c.JSON(h.service.RemoteBatches(c.Context()))
}

// HandleImages returns the cached share-wide image sweep. The extension
// defaults to png.
func (h *Handler) HandleImages(c *fiber.Ctx) error {
	ext := c.Query("ext", "png")
	return c.JSON(h.service.Images(c.Context(), ext))
}

// HandleCacheStats snapshots both caches.
func (h *Handler) HandleCacheStats(c *fiber.Ctx) error {
	return c.JSON(h.service.CacheStats())
}

// HandleInvalidateCache drops one cache key, or everything without a key.
func (h *Handler) HandleInvalidateCache(c *fiber.Ctx) error {
	h.service.InvalidateCache(c.Query("key"))
	return c.JSON(fiber.Map{"invalidated": true})
}

func internalError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "batch not found",
	})
}
