package models

import (
	"encoding/json"
	"time"

	"corescan-portal/core/validate"
	"corescan-portal/core/walker"
)

// Batch lifecycle states.
const (
	StatusPending     = "pending"
	StatusValidated   = "validated"
	StatusDiscrepancy = "discrepancy"
)

// ScanData provenance values.
const (
	SourceManual = "manual"
	SourceShare  = "share"
)

// Batch is one operator-recorded core scan batch.
type Batch struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	BatchNumber     int        `gorm:"index" json:"batch_number"`
	HoleID          string     `gorm:"size:100;not null;index" json:"hole_id"`
	Machine         string     `gorm:"size:50;not null;index" json:"machine"`
	OperatorName    string     `gorm:"size:100;not null" json:"operator_name"`
	ScanDate        time.Time  `json:"scan_date"`
	DepthFrom       float64    `gorm:"not null" json:"depth_from"`
	DepthTo         float64    `gorm:"not null" json:"depth_to"`
	Notes           string     `gorm:"type:text" json:"notes"`
	Status          string     `gorm:"size:20;default:pending;index" json:"status"`
	ValidationNotes string     `gorm:"type:text" json:"validation_notes"`
	ValidatedAt     *time.Time `json:"validated_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	ScanData []ScanData `gorm:"constraint:OnDelete:CASCADE" json:"scan_data,omitempty"`
}

// TableName overrides the table name.
func (Batch) TableName() string {
	return "batches"
}

// Record projects the batch onto the plain comparison slice the
// reconciliation engine consumes.
func (b Batch) Record() validate.BatchRecord {
	return validate.BatchRecord{
		ID:          b.ID,
		BatchNumber: b.BatchNumber,
		HoleID:      b.HoleID,
		Machine:     b.Machine,
		DepthFrom:   b.DepthFrom,
		DepthTo:     b.DepthTo,
	}
}

// ScanData is one piece of scan evidence attached to a batch, either
// entered manually or captured from the remote share during validation.
type ScanData struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	BatchID     uint      `gorm:"not null;index" json:"batch_id"`
	Source      string    `gorm:"size:20;not null" json:"source"`
	FilePath    string    `gorm:"size:500" json:"file_path"`
	DepthFrom   *float64  `json:"depth_from"`
	DepthTo     *float64  `json:"depth_to"`
	ScanQuality string    `gorm:"size:50" json:"scan_quality"`
	FileSize    int64     `json:"file_size"`
	Metadata    string    `gorm:"type:text" json:"metadata"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName overrides the table name.
func (ScanData) TableName() string {
	return "scan_data"
}

// ScanDataFromRemote converts a walker record into an evidence row for the
// given batch. Unrecognized marker fields travel along as a JSON blob.
func ScanDataFromRemote(batchID uint, rec walker.RemoteRecord) ScanData {
	row := ScanData{
		BatchID:     batchID,
		Source:      SourceShare,
		FilePath:    rec.Path,
		DepthFrom:   rec.DepthFrom,
		DepthTo:     rec.DepthTo,
		ScanQuality: rec.Quality,
		FileSize:    rec.FileSize,
	}
	if row.ScanQuality == "" {
		row.ScanQuality = "unknown"
	}
	if len(rec.Metadata) > 0 {
		if blob, err := json.Marshal(rec.Metadata); err == nil {
			row.Metadata = string(blob)
		}
	}
	return row
}
