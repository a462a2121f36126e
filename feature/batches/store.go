package batches

import (
	"errors"
	"fmt"

	"corescan-portal/core/database"
	"corescan-portal/feature/batches/models"

	"gorm.io/gorm"
)

// requiredColumns are the batch table fields the portal reads. Checked at
// startup so a schema drift in the shared record store fails loudly instead
// of as silent zero values.
var requiredColumns = []string{
	"id", "batch_number", "hole_id", "machine", "operator_name",
	"scan_date", "depth_from", "depth_to", "status",
}

// MachineCount is the number of batches recorded against one machine.
type MachineCount struct {
	Machine string `json:"machine"`
	Count   int64  `json:"count"`
}

// Store is the gorm-backed access layer for batch records and their scan
// evidence.
type Store struct {
	db *gorm.DB
}

// NewStore creates a store over an established database connection.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the batch tables.
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(&models.Batch{}, &models.ScanData{}); err != nil {
		return fmt.Errorf("failed to migrate batch tables: %w", err)
	}
	return nil
}

// MissingColumns returns required batch columns absent from the table.
func (s *Store) MissingColumns() ([]string, error) {
	return database.MissingColumns(s.db, models.Batch{}.TableName(), requiredColumns)
}

// Count returns the total number of batches.
func (s *Store) Count() (int64, error) {
	var n int64
	err := s.db.Model(&models.Batch{}).Count(&n).Error
	return n, err
}

// CountByStatus returns the number of batches in one lifecycle state.
func (s *Store) CountByStatus(status string) (int64, error) {
	var n int64
	err := s.db.Model(&models.Batch{}).Where("status = ?", status).Count(&n).Error
	return n, err
}

// CountByMachine returns per-machine batch counts.
func (s *Store) CountByMachine() ([]MachineCount, error) {
	var counts []MachineCount
	err := s.db.Model(&models.Batch{}).
		Select("machine, count(id) as count").
		Group("machine").
		Order("machine").
		Scan(&counts).Error
	return counts, err
}

// List returns batches newest first, optionally filtered by status.
// A non-positive limit returns everything.
func (s *Store) List(status string, limit, offset int) ([]models.Batch, error) {
	query := s.db.Model(&models.Batch{}).Order("created_at desc")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	var batches []models.Batch
	err := query.Find(&batches).Error
	return batches, err
}

// All returns every batch, unordered.
func (s *Store) All() ([]models.Batch, error) {
	var batches []models.Batch
	err := s.db.Find(&batches).Error
	return batches, err
}

// Get returns one batch by id, or nil when it does not exist.
func (s *Store) Get(id uint) (*models.Batch, error) {
	var batch models.Batch
	if err := s.db.First(&batch, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &batch, nil
}

// Exists reports whether a batch is already recorded for the hole+machine
// pair, the identity key used by share synchronization.
func (s *Store) Exists(holeID, machine string) (bool, error) {
	var n int64
	err := s.db.Model(&models.Batch{}).
		Where("hole_id = ? AND machine = ?", holeID, machine).
		Count(&n).Error
	return n > 0, err
}

// NextBatchNumber returns one past the highest recorded batch number.
func (s *Store) NextBatchNumber() (int, error) {
	var max int
	err := s.db.Model(&models.Batch{}).
		Select("coalesce(max(batch_number), 0)").
		Scan(&max).Error
	return max + 1, err
}

// Create inserts a new batch.
func (s *Store) Create(batch *models.Batch) error {
	if err := s.db.Create(batch).Error; err != nil {
		return fmt.Errorf("failed to create batch: %w", err)
	}
	return nil
}

// Update saves every field of an existing batch.
func (s *Store) Update(batch *models.Batch) error {
	if err := s.db.Save(batch).Error; err != nil {
		return fmt.Errorf("failed to update batch %d: %w", batch.ID, err)
	}
	return nil
}

// Delete removes a batch and its scan evidence.
func (s *Store) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("batch_id = ?", id).Delete(&models.ScanData{}).Error; err != nil {
			return fmt.Errorf("failed to delete scan data for batch %d: %w", id, err)
		}
		if err := tx.Delete(&models.Batch{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete batch %d: %w", id, err)
		}
		return nil
	})
}

// SaveScanData appends evidence rows.
func (s *Store) SaveScanData(rows []models.ScanData) error {
	if len(rows) == 0 {
		return nil
	}
	if err := s.db.Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to save scan data: %w", err)
	}
	return nil
}

// ScanDataForBatch returns the evidence rows attached to one batch.
func (s *Store) ScanDataForBatch(batchID uint) ([]models.ScanData, error) {
	var rows []models.ScanData
	err := s.db.Where("batch_id = ?", batchID).Order("id").Find(&rows).Error
	return rows, err
}
