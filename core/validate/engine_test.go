package validate

import (
	"testing"

	"corescan-portal/core/walker"

	"github.com/stretchr/testify/assert"
)

func fptr(f float64) *float64 { return &f }

func remoteRecord(hole, machine string, from, to float64) walker.RemoteRecord {
	return walker.RemoteRecord{
		HoleID:    hole,
		Machine:   machine,
		DepthFrom: fptr(from),
		DepthTo:   fptr(to),
	}
}

func TestValidateBatch_Consistent(t *testing.T) {
	v := New()
	batch := BatchRecord{ID: 1, BatchNumber: 7, HoleID: "DDH-001", Machine: "OREX-01", DepthFrom: 0.0, DepthTo: 100.5}

	data := Records([]walker.RemoteRecord{
		remoteRecord("DDH-001", "OREX-01", 0.0, 100.5),
	})

	result := v.ValidateBatch(batch, data)
	assert.False(t, result.HasDiscrepancies)
	assert.Empty(t, result.Discrepancies)
	assert.Contains(t, result.Message, "consistent")
	assert.Equal(t, uint(1), result.BatchID)
	assert.Equal(t, 7, result.BatchNumber)
}

func TestValidateBatch_WithinTolerance(t *testing.T) {
	v := New()
	batch := BatchRecord{ID: 1, HoleID: "DDH-001", Machine: "OREX-01", DepthFrom: 10.0, DepthTo: 20.0}

	tests := []struct {
		name     string
		from, to float64
		ok       bool
	}{
		{"exact", 10.0, 20.0, true},
		{"within tolerance", 10.05, 19.95, true},
		{"from beyond tolerance", 10.2, 20.0, false},
		{"to beyond tolerance", 10.0, 20.2, false},
		{"both beyond tolerance", 8.0, 22.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := Records([]walker.RemoteRecord{
				remoteRecord("DDH-001", "OREX-01", tt.from, tt.to),
			})
			result := v.ValidateBatch(batch, data)
			if tt.ok {
				assert.False(t, result.HasDiscrepancies)
			} else {
				assert.True(t, result.HasDiscrepancies)
				assert.Equal(t, []string{"depth ranges do not match"}, result.Discrepancies)
			}
		})
	}
}

func TestValidateBatch_DepthChangeFlagsDiscrepancy(t *testing.T) {
	v := New()
	batch := BatchRecord{ID: 3, HoleID: "DDH-001", Machine: "OREX-01", DepthFrom: 0.0, DepthTo: 100.5}

	result := v.ValidateBatch(batch, Records([]walker.RemoteRecord{
		remoteRecord("DDH-001", "OREX-01", 0.0, 105.0),
	}))
	assert.True(t, result.HasDiscrepancies)
	assert.Contains(t, result.Message, "depth ranges do not match")
}

func TestValidateBatch_NoRemoteData(t *testing.T) {
	v := New()
	batch := BatchRecord{ID: 2, HoleID: "DDH-001", Machine: "OREX-01", DepthFrom: 0, DepthTo: 50}

	for _, data := range []Dataset{Absent(), Records(nil), Records([]walker.RemoteRecord{})} {
		result := v.ValidateBatch(batch, data)
		assert.True(t, result.HasDiscrepancies)
		// The existence gate stops further checks: exactly one discrepancy
		assert.Len(t, result.Discrepancies, 1)
		assert.Contains(t, result.Discrepancies[0], "no remote data")
	}
}

func TestValidateBatch_SingleRecordPromoted(t *testing.T) {
	v := New()
	batch := BatchRecord{ID: 4, HoleID: "DDH-002", Machine: "OREX-02", DepthFrom: 5.0, DepthTo: 15.0}

	result := v.ValidateBatch(batch, Single(remoteRecord("DDH-002", "OREX-02", 5.0, 15.0)))
	assert.False(t, result.HasDiscrepancies)
}

func TestValidateBatch_ZeroZeroDepthsNeverConfirm(t *testing.T) {
	v := New()
	batch := BatchRecord{ID: 5, HoleID: "DDH-001", Machine: "OREX-01", DepthFrom: 0.0, DepthTo: 0.0}

	// Remote depths zero/zero mean "unknown": they cannot confirm even a
	// batch recorded as zero/zero.
	result := v.ValidateBatch(batch, Records([]walker.RemoteRecord{
		remoteRecord("DDH-001", "OREX-01", 0.0, 0.0),
	}))
	assert.True(t, result.HasDiscrepancies)

	// But a later record with real depths still confirms the match.
	batch.DepthTo = 10.0
	result = v.ValidateBatch(batch, Records([]walker.RemoteRecord{
		remoteRecord("DDH-001", "OREX-01", 0.0, 0.0),
		remoteRecord("DDH-001", "OREX-01", 0.0, 10.0),
	}))
	assert.False(t, result.HasDiscrepancies)
}

func TestValidateOperation_FileCount(t *testing.T) {
	v := New()
	// 10m of core: expect ~10 files, tolerate 9-11
	batch := BatchRecord{ID: 6, HoleID: "DDH-001", Machine: "OREX-01", DepthFrom: 0.0, DepthTo: 10.0}

	records := make([]walker.RemoteRecord, 0, 9)
	for i := 0; i < 9; i++ {
		records = append(records, remoteRecord("DDH-001", "OREX-01", 0.0, 10.0))
	}
	result := v.ValidateOperation(batch, Records(records))
	assert.False(t, result.HasDiscrepancies)

	result = v.ValidateOperation(batch, Records(records[:3]))
	assert.True(t, result.HasDiscrepancies)
	assert.Contains(t, result.Message, "expected 10, found 3")
}

func TestValidateOperation_ExpectedCountFloor(t *testing.T) {
	v := New()
	// Sub-meter batches still expect at least one file
	batch := BatchRecord{ID: 7, HoleID: "DDH-001", Machine: "OREX-01", DepthFrom: 0.0, DepthTo: 0.4}

	result := v.ValidateOperation(batch, Records([]walker.RemoteRecord{
		remoteRecord("DDH-001", "OREX-01", 0.0, 0.4),
	}))
	assert.False(t, result.HasDiscrepancies)
}

func TestVerifyDataExists(t *testing.T) {
	v := New()

	t.Run("absent", func(t *testing.T) {
		check := v.VerifyDataExists(Absent(), "data")
		assert.False(t, check.Exists)
		assert.False(t, check.Valid)
		assert.Equal(t, 0, check.Count)
	})

	t.Run("empty collection", func(t *testing.T) {
		check := v.VerifyDataExists(Records([]walker.RemoteRecord{}), "data")
		assert.True(t, check.Exists)
		assert.False(t, check.Valid)
		assert.Equal(t, 0, check.Count)
	})

	t.Run("non-empty collection", func(t *testing.T) {
		check := v.VerifyDataExists(Records([]walker.RemoteRecord{
			remoteRecord("DDH-001", "OREX-01", 0, 1),
		}), "data")
		assert.True(t, check.Exists)
		assert.True(t, check.Valid)
		assert.Equal(t, 1, check.Count)
	})

	t.Run("single record", func(t *testing.T) {
		check := v.VerifyDataExists(Single(remoteRecord("DDH-001", "OREX-01", 0, 1)), "data")
		assert.True(t, check.Exists)
		assert.True(t, check.Valid)
		assert.Equal(t, 1, check.Count)
	})

	t.Run("single empty record", func(t *testing.T) {
		check := v.VerifyDataExists(Single(walker.RemoteRecord{}), "data")
		assert.True(t, check.Exists)
		assert.False(t, check.Valid)
	})
}

func TestFilterCandidates(t *testing.T) {
	batch := BatchRecord{HoleID: "DDH-001", Machine: "OREX-01"}
	records := []walker.RemoteRecord{
		remoteRecord("DDH-001", "OREX-01", 0, 1),
		remoteRecord("DDH-001", "OREX-02", 0, 1),
		remoteRecord("DDH-002", "OREX-01", 0, 1),
	}

	candidates := FilterCandidates(records, batch)
	assert.Len(t, candidates, 1)
	assert.Equal(t, "OREX-01", candidates[0].Machine)
}

func TestDetectAnomalies(t *testing.T) {
	v := New()
	batches := []BatchRecord{
		{ID: 1, DepthFrom: 0, DepthTo: 100},     // fine
		{ID: 2, DepthFrom: 50, DepthTo: 50},     // inverted (degenerate)
		{ID: 3, DepthFrom: 100, DepthTo: 20},    // inverted
		{ID: 4, DepthFrom: 0, DepthTo: 1500},    // implausible span
		{ID: 5, DepthFrom: 2000, DepthTo: 1000}, // inverted, span negative
	}

	anomalies := v.DetectAnomalies(batches)
	assert.Len(t, anomalies, 4)

	byBatch := map[uint][]string{}
	for _, a := range anomalies {
		byBatch[a.BatchID] = append(byBatch[a.BatchID], a.Type)
	}
	assert.NotContains(t, byBatch, uint(1))
	assert.Equal(t, []string{AnomalyInvalidDepthRange}, byBatch[2])
	assert.Equal(t, []string{AnomalyInvalidDepthRange}, byBatch[3])
	assert.Equal(t, []string{AnomalyUnusualDepthRange}, byBatch[4])
	assert.Equal(t, []string{AnomalyInvalidDepthRange}, byBatch[5])
}
