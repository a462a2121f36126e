package validate

import (
	"fmt"
	"math"
	"strings"

	"corescan-portal/core/walker"
)

// DefaultTolerance is the maximum absolute depth difference, in meters,
// before two depth values are considered non-matching.
const DefaultTolerance = 0.1

// MaxPlausibleSpan is the largest depth span, in meters, a single batch
// can plausibly cover; anything above it is almost certainly a data-entry
// error.
const MaxPlausibleSpan = 1000.0

// Validator compares locally recorded batches against remote evidence and
// explains any disagreement. A reconciliation mismatch is not an error; it
// is the expected, reportable output.
type Validator struct {
	// Tolerance is the absolute depth comparison tolerance in meters.
	Tolerance float64
}

// New creates a Validator with the default tolerance.
func New() *Validator {
	return &Validator{Tolerance: DefaultTolerance}
}

// Matches reports whether a remote record is a candidate match for a batch:
// same hole identifier and same machine name. Historical field-name aliases
// are already normalized when the record is constructed.
func Matches(record walker.RemoteRecord, batch BatchRecord) bool {
	return record.HoleID == batch.HoleID && record.Machine == batch.Machine
}

// FilterCandidates keeps the records that are candidate matches for the batch.
func FilterCandidates(records []walker.RemoteRecord, batch BatchRecord) []walker.RemoteRecord {
	candidates := make([]walker.RemoteRecord, 0, len(records))
	for _, r := range records {
		if Matches(r, batch) {
			candidates = append(candidates, r)
		}
	}
	return candidates
}

// ValidateBatch decides whether a batch and its remote evidence agree.
// When the evidence does not even qualify as valid, that is the single
// reported discrepancy and no further checks run. Otherwise every candidate
// record is scanned for a confirmed depth match within the tolerance;
// records whose own depths are unknown never confirm nor contradict.
func (v *Validator) ValidateBatch(batch BatchRecord, data Dataset) ValidationResult {
	result := ValidationResult{
		BatchID:       batch.ID,
		BatchNumber:   batch.BatchNumber,
		Discrepancies: []string{},
	}

	check := v.VerifyDataExists(data, "remote batch data")
	if !check.Valid {
		result.Discrepancies = append(result.Discrepancies, "no remote data found for this batch")
		return finalize(result)
	}

	if !v.depthRangesMatch(batch, data.Records()) {
		result.Discrepancies = append(result.Discrepancies, "depth ranges do not match")
	}
	return finalize(result)
}

// ValidateOperation is the legacy comparison: depth agreement plus a
// volume-of-evidence check estimating one file per meter of core scanned.
func (v *Validator) ValidateOperation(batch BatchRecord, data Dataset) ValidationResult {
	result := ValidationResult{
		BatchID:       batch.ID,
		BatchNumber:   batch.BatchNumber,
		Discrepancies: []string{},
	}

	check := v.VerifyDataExists(data, "remote operation data")
	if !check.Valid {
		result.Discrepancies = append(result.Discrepancies, "no remote data found for this batch")
		return finalize(result)
	}

	records := data.Records()
	if !v.depthRangesMatch(batch, records) {
		result.Discrepancies = append(result.Discrepancies, "depth ranges do not match")
	}

	expected := expectedFileCount(batch)
	actual := len(records)
	if math.Abs(float64(expected-actual)) > 1 {
		result.Discrepancies = append(result.Discrepancies,
			fmt.Sprintf("file count mismatch: expected %d, found %d", expected, actual))
	}
	return finalize(result)
}

// VerifyDataExists probes remote evidence before comparison. A collection
// always exists, even empty, and is valid only when non-empty; a single
// record exists and is valid when it carries any field at all; absent data
// is neither.
func (v *Validator) VerifyDataExists(data Dataset, label string) ExistenceCheck {
	if data.IsAbsent() {
		return ExistenceCheck{
			Message: fmt.Sprintf("%s: nothing returned", label),
		}
	}

	records := data.Records()
	count := len(records)
	if count == 1 && records[0].IsEmpty() {
		return ExistenceCheck{
			Exists:  true,
			Message: fmt.Sprintf("%s: record is empty", label),
			Count:   0,
		}
	}
	if count == 0 {
		return ExistenceCheck{
			Exists:  true,
			Message: fmt.Sprintf("%s: no records found", label),
		}
	}
	return ExistenceCheck{
		Exists:  true,
		Valid:   true,
		Message: fmt.Sprintf("%s: %d record(s) found", label, count),
		Count:   count,
	}
}

// DetectAnomalies sweeps a batch collection for locally detectable
// data-entry problems: inverted depth intervals and implausibly large spans.
func (v *Validator) DetectAnomalies(batches []BatchRecord) []Anomaly {
	var anomalies []Anomaly
	for _, b := range batches {
		if b.DepthFrom >= b.DepthTo {
			anomalies = append(anomalies, Anomaly{
				BatchID: b.ID,
				Type:    AnomalyInvalidDepthRange,
				Message: fmt.Sprintf("invalid depth range: %.2f >= %.2f", b.DepthFrom, b.DepthTo),
			})
		}
		if b.DepthTo-b.DepthFrom > MaxPlausibleSpan {
			anomalies = append(anomalies, Anomaly{
				BatchID: b.ID,
				Type:    AnomalyUnusualDepthRange,
				Message: fmt.Sprintf("unusually large depth range: %.2fm", b.DepthTo-b.DepthFrom),
			})
		}
	}
	return anomalies
}

// depthRangesMatch reports whether any record confirms the batch's depth
// interval within the tolerance. Records with unknown depths (including
// the zero/zero convention) are skipped: they never contradict, but they
// never confirm either.
func (v *Validator) depthRangesMatch(batch BatchRecord, records []walker.RemoteRecord) bool {
	for _, r := range records {
		if !r.DepthKnown() {
			continue
		}
		if math.Abs(*r.DepthFrom-batch.DepthFrom) <= v.Tolerance &&
			math.Abs(*r.DepthTo-batch.DepthTo) <= v.Tolerance {
			return true
		}
	}
	return false
}

// expectedFileCount estimates roughly one evidence file per meter of core.
func expectedFileCount(batch BatchRecord) int {
	n := int(math.Floor(batch.DepthTo - batch.DepthFrom))
	if n < 1 {
		return 1
	}
	return n
}

func finalize(result ValidationResult) ValidationResult {
	result.HasDiscrepancies = len(result.Discrepancies) > 0
	if result.HasDiscrepancies {
		result.Message = "Discrepancies found: " + strings.Join(result.Discrepancies, "; ")
	} else {
		result.Message = "Validation successful: data is consistent"
	}
	return result
}
