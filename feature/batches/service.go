package batches

import (
	"context"
	"time"

	"corescan-portal/core/cache"
	"corescan-portal/core/validate"
	"corescan-portal/core/walker"
	"corescan-portal/feature/batches/models"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Cache keys. The stats cache and the share cache are independent
// instances, so keys never collide across them.
const (
	keyDashboard     = "dashboard"
	keyRemoteBatches = "remote_batches"
	keyImagesPrefix  = "images:"
)

// DashboardStats is the summary view over the record store.
type DashboardStats struct {
	Total       int64          `json:"total_batches"`
	Pending     int64          `json:"pending"`
	Validated   int64          `json:"validated"`
	Discrepancy int64          `json:"discrepancy"`
	ByMachine   []MachineCount `json:"batches_by_machine"`
	Recent      []models.Batch `json:"recent_batches"`
}

// SyncReport summarizes one share synchronization pass.
type SyncReport struct {
	// Created is the number of new pending batches recorded.
	Created int `json:"created"`

	// Seen is the number of distinct hole+machine pairs found on the share.
	Seen int `json:"seen"`

	// Partial mirrors the underlying scan: true when branches were skipped.
	Partial bool `json:"partial"`

	// Warnings carries the skipped-branch explanations.
	Warnings []string `json:"warnings,omitempty"`
}

// Service wires the record store, the share walker, the reconciliation
// engine and the two caches together. Share results and dashboard stats
// live in separate cache instances so a slow scan never blocks a stats
// read; concurrent scan misses are coalesced through a singleflight group
// so at most one walker sweep is in flight per key.
type Service struct {
	store      *Store
	walker     *walker.Walker
	validator  *validate.Validator
	statsCache *cache.Cache
	shareCache *cache.Cache
	flight     singleflight.Group
	logger     *zap.Logger
}

// NewService creates the batches service. ttl bounds both caches; zero or
// negative selects the cache default.
func NewService(store *Store, w *walker.Walker, logger *zap.Logger, ttl time.Duration) *Service {
	return &Service{
		store:      store,
		walker:     w,
		validator:  validate.New(),
		statsCache: cache.New(ttl),
		shareCache: cache.New(ttl),
		logger:     logger,
	}
}

// Dashboard returns the summary stats, cached.
func (s *Service) Dashboard() (*DashboardStats, error) {
	if v, ok := s.statsCache.Get(keyDashboard); ok {
		stats := v.(DashboardStats)
		return &stats, nil
	}

	stats := DashboardStats{}
	var err error
	if stats.Total, err = s.store.Count(); err != nil {
		return nil, err
	}
	if stats.Pending, err = s.store.CountByStatus(models.StatusPending); err != nil {
		return nil, err
	}
	if stats.Validated, err = s.store.CountByStatus(models.StatusValidated); err != nil {
		return nil, err
	}
	if stats.Discrepancy, err = s.store.CountByStatus(models.StatusDiscrepancy); err != nil {
		return nil, err
	}
	if stats.ByMachine, err = s.store.CountByMachine(); err != nil {
		return nil, err
	}
	if stats.Recent, err = s.store.List("", 10, 0); err != nil {
		return nil, err
	}

	s.statsCache.Set(keyDashboard, stats)
	return &stats, nil
}

// ListBatches returns batches newest first, optionally filtered by status.
func (s *Service) ListBatches(status string, limit, offset int) ([]models.Batch, error) {
	return s.store.List(status, limit, offset)
}

// GetBatch returns one batch with its scan evidence, or nil when absent.
func (s *Service) GetBatch(id uint) (*models.Batch, error) {
	batch, err := s.store.Get(id)
	if err != nil || batch == nil {
		return batch, err
	}
	if batch.ScanData, err = s.store.ScanDataForBatch(id); err != nil {
		return nil, err
	}
	return batch, nil
}

// CreateBatch records a new batch. An unset batch number is assigned the
// next free one, and the status always starts at pending.
func (s *Service) CreateBatch(batch *models.Batch) error {
	if batch.BatchNumber == 0 {
		number, err := s.store.NextBatchNumber()
		if err != nil {
			return err
		}
		batch.BatchNumber = number
	}
	batch.Status = models.StatusPending
	if batch.ScanDate.IsZero() {
		batch.ScanDate = time.Now().UTC()
	}
	if err := s.store.Create(batch); err != nil {
		return err
	}
	s.statsCache.Invalidate(keyDashboard)
	return nil
}

// UpdateBatch saves an edited batch.
func (s *Service) UpdateBatch(batch *models.Batch) error {
	if err := s.store.Update(batch); err != nil {
		return err
	}
	s.statsCache.Invalidate(keyDashboard)
	return nil
}

// DeleteBatch removes a batch and its evidence.
func (s *Service) DeleteBatch(id uint) error {
	if err := s.store.Delete(id); err != nil {
		return err
	}
	s.statsCache.Invalidate(keyDashboard)
	return nil
}

// RemoteBatches returns the full share scan, cached and coalesced: cache
// hits are served under the cache lock only, and concurrent misses share a
// single walker sweep instead of each hitting the share.
func (s *Service) RemoteBatches(ctx context.Context) walker.ScanResult {
	if v, ok := s.shareCache.Get(keyRemoteBatches); ok {
		return v.(walker.ScanResult)
	}

	v, _, _ := s.flight.Do(keyRemoteBatches, func() (any, error) {
		res := s.walker.ScanForBatches(ctx)
		s.shareCache.Set(keyRemoteBatches, res)
		return res, nil
	})
	return v.(walker.ScanResult)
}

// Images returns the share-wide image sweep for one extension, cached and
// coalesced like RemoteBatches.
func (s *Service) Images(ctx context.Context, extension string) walker.ImageScan {
	key := keyImagesPrefix + extension
	if v, ok := s.shareCache.Get(key); ok {
		return v.(walker.ImageScan)
	}

	v, _, _ := s.flight.Do(key, func() (any, error) {
		res := s.walker.ScanForImages(ctx, extension)
		s.shareCache.Set(key, res)
		return res, nil
	})
	return v.(walker.ImageScan)
}

// ValidateBatch reconciles one batch against the share. The remote
// evidence found for the batch is persisted as scan data rows, the
// reconciliation verdict is stored on the batch itself and the batch moves
// to validated or discrepancy. Returns nil when the batch does not exist.
func (s *Service) ValidateBatch(ctx context.Context, id uint) (*validate.ValidationResult, error) {
	batch, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, nil
	}

	scan := s.walker.ListBatchesForHole(ctx, batch.HoleID, "")
	candidates := validate.FilterCandidates(scan.Records, batch.Record())

	rows := make([]models.ScanData, 0, len(candidates))
	for _, rec := range candidates {
		rows = append(rows, models.ScanDataFromRemote(batch.ID, rec))
	}
	if err := s.store.SaveScanData(rows); err != nil {
		return nil, err
	}

	// An empty partial scan means the share never answered; that is
	// "nothing returned", not "returned empty".
	data := validate.Records(candidates)
	if scan.Partial && len(scan.Records) == 0 {
		data = validate.Absent()
	}
	result := s.validator.ValidateBatch(batch.Record(), data)

	now := time.Now().UTC()
	batch.ValidationNotes = result.Message
	batch.ValidatedAt = &now
	if result.HasDiscrepancies {
		batch.Status = models.StatusDiscrepancy
	} else {
		batch.Status = models.StatusValidated
	}
	if err := s.store.Update(batch); err != nil {
		return nil, err
	}
	s.statsCache.Invalidate(keyDashboard)

	s.logger.Info("Batch validated",
		zap.Uint("batch_id", batch.ID),
		zap.String("hole_id", batch.HoleID),
		zap.String("status", batch.Status),
		zap.Int("evidence_rows", len(rows)))
	return &result, nil
}

// SyncFromShare scans the whole share and records a pending batch for
// every hole+machine pair not yet known to the store. The fresh scan also
// replaces the cached share result.
func (s *Service) SyncFromShare(ctx context.Context) (*SyncReport, error) {
	scan := s.walker.ScanForBatches(ctx)
	s.shareCache.Set(keyRemoteBatches, scan)

	report := &SyncReport{Partial: scan.Partial, Warnings: scan.Warnings}
	seen := make(map[[2]string]bool)
	for _, rec := range scan.Records {
		if rec.HoleID == "" || rec.Machine == "" {
			continue
		}
		key := [2]string{rec.HoleID, rec.Machine}
		if seen[key] {
			continue
		}
		seen[key] = true
		report.Seen++

		exists, err := s.store.Exists(rec.HoleID, rec.Machine)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}

		number, err := s.store.NextBatchNumber()
		if err != nil {
			return nil, err
		}
		batch := models.Batch{
			BatchNumber:  number,
			HoleID:       rec.HoleID,
			Machine:      rec.Machine,
			OperatorName: "Auto-detected",
			ScanDate:     parseScanDate(rec.ScanDate),
			DepthFrom:    depthOrZero(rec.DepthFrom),
			DepthTo:      depthOrZero(rec.DepthTo),
			Notes:        "Detected automatically on the remote share",
			Status:       models.StatusPending,
		}
		if err := s.store.Create(&batch); err != nil {
			return nil, err
		}
		report.Created++
	}

	if report.Created > 0 {
		s.statsCache.Invalidate(keyDashboard)
	}
	s.logger.Info("Share synchronization finished",
		zap.Int("seen", report.Seen),
		zap.Int("created", report.Created),
		zap.Bool("partial", report.Partial))
	return report, nil
}

// Anomalies sweeps every recorded batch for local data-entry problems.
func (s *Service) Anomalies() ([]validate.Anomaly, error) {
	batches, err := s.store.All()
	if err != nil {
		return nil, err
	}
	records := make([]validate.BatchRecord, 0, len(batches))
	for _, b := range batches {
		records = append(records, b.Record())
	}
	return s.validator.DetectAnomalies(records), nil
}

// CacheStats snapshots both caches.
func (s *Service) CacheStats() map[string]cache.Stats {
	return map[string]cache.Stats{
		"stats": s.statsCache.GetStats(),
		"share": s.shareCache.GetStats(),
	}
}

// InvalidateCache drops one key from both caches, or everything when the
// key is empty.
func (s *Service) InvalidateCache(key string) {
	if key == "" {
		s.statsCache.Clear()
		s.shareCache.Clear()
		return
	}
	s.statsCache.Invalidate(key)
	s.shareCache.Invalidate(key)
}

// SchemaCheck returns required batch columns missing from the store.
func (s *Service) SchemaCheck() ([]string, error) {
	return s.store.MissingColumns()
}

// scanDateLayouts are tried in order against marker timestamps.
var scanDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseScanDate(raw string) time.Time {
	for _, layout := range scanDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Now().UTC()
}

func depthOrZero(d *float64) float64 {
	if d == nil {
		return 0
	}
	return *d
}
