package validate

import "corescan-portal/core/walker"

// BatchRecord is the slice of a locally recorded batch that validation
// needs. The record store owns the full entity; only plain data crosses
// into this package.
type BatchRecord struct {
	// ID is the numeric identifier of the batch.
	ID uint

	// BatchNumber is the operator-facing sequential number.
	BatchNumber int

	// HoleID is the drill hole identifier.
	HoleID string

	// Machine is the scanning machine name.
	Machine string

	// DepthFrom is the recorded starting depth in meters.
	DepthFrom float64

	// DepthTo is the recorded ending depth in meters.
	DepthTo float64
}

// ValidationResult is the output of a single batch-vs-remote comparison.
type ValidationResult struct {
	// BatchID echoes the validated batch identifier.
	BatchID uint `json:"batch_id"`

	// BatchNumber echoes the operator-facing batch number.
	BatchNumber int `json:"batch_number"`

	// HasDiscrepancies is true iff Discrepancies is non-empty.
	HasDiscrepancies bool `json:"has_discrepancies"`

	// Discrepancies lists each detected disagreement.
	Discrepancies []string `json:"discrepancies"`

	// Message is the human-readable summary.
	Message string `json:"message"`
}

// ExistenceCheck is the output of the generic "does this data exist and is
// it usable" probe, run before any comparison. It distinguishes "nothing
// returned at all" (no connectivity) from "returned but semantically empty".
type ExistenceCheck struct {
	// Exists is true when anything was returned at all, even empty.
	Exists bool `json:"exists"`

	// Valid is true when the data exists and is non-empty.
	Valid bool `json:"valid"`

	// Message describes the probe outcome.
	Message string `json:"message"`

	// Count is the number of elements found.
	Count int `json:"count"`
}

// Anomaly flags a suspicious batch found by a local sweep, independent of
// any remote comparison.
type Anomaly struct {
	// BatchID is the offending batch.
	BatchID uint `json:"batch_id"`

	// Type is the anomaly class: invalid_depth_range or unusual_depth_range.
	Type string `json:"type"`

	// Message describes the anomaly.
	Message string `json:"message"`
}

// Anomaly types reported by DetectAnomalies.
const (
	AnomalyInvalidDepthRange = "invalid_depth_range"
	AnomalyUnusualDepthRange = "unusual_depth_range"
)

// Dataset is an explicit tagged union over the three shapes of remote
// evidence a caller can hold: a collection of records, a single bare
// record, or nothing at all. The shape is decided by the caller at the
// type level instead of inspected at runtime.
type Dataset struct {
	kind    datasetKind
	records []walker.RemoteRecord
	single  walker.RemoteRecord
}

type datasetKind int

const (
	datasetAbsent datasetKind = iota
	datasetRecords
	datasetSingle
)

// Absent is a dataset for "nothing returned at all".
func Absent() Dataset {
	return Dataset{kind: datasetAbsent}
}

// Records wraps a collection of remote records. A nil slice still counts
// as an existing, empty collection.
func Records(records []walker.RemoteRecord) Dataset {
	return Dataset{kind: datasetRecords, records: records}
}

// Single wraps one bare remote record.
func Single(record walker.RemoteRecord) Dataset {
	return Dataset{kind: datasetSingle, single: record}
}

// IsAbsent reports whether no data was returned at all.
func (d Dataset) IsAbsent() bool {
	return d.kind == datasetAbsent
}

// Records returns the dataset as a flat collection, promoting a single
// bare record to a singleton.
func (d Dataset) Records() []walker.RemoteRecord {
	switch d.kind {
	case datasetRecords:
		return d.records
	case datasetSingle:
		return []walker.RemoteRecord{d.single}
	default:
		return nil
	}
}
