package walker

import "time"

// RemoteRecord is one unit of batch evidence gathered from the remote share.
// Records are rebuilt on every scan and never persisted directly; they are
// either cached transiently or folded into a discrepancy report.
type RemoteRecord struct {
	// HoleID is the drill hole identifier, e.g. "DDH-001".
	HoleID string `json:"hole_id"`

	// Machine is the scanning machine that produced the evidence.
	Machine string `json:"machine"`

	// DepthFrom is the starting depth in meters. Nil when the marker file
	// omitted the field or it failed to parse.
	DepthFrom *float64 `json:"depth_from,omitempty"`

	// DepthTo is the ending depth in meters. Nil when absent or unparseable.
	DepthTo *float64 `json:"depth_to,omitempty"`

	// Quality is the scan quality tag reported by the machine.
	Quality string `json:"quality,omitempty"`

	// ScanDate is the raw scan timestamp string from the marker file.
	ScanDate string `json:"scan_date,omitempty"`

	// BatchTo is the depth value embedded in the batch directory name,
	// kept verbatim, e.g. "100.5" for a directory named "batch-100.5".
	BatchTo string `json:"batch_to,omitempty"`

	// Path is the originating marker file path on the share.
	Path string `json:"file_path"`

	// FileSize is the marker file size in bytes.
	FileSize int64 `json:"file_size,omitempty"`

	// ModTime is the last modification time of the marker file, when known.
	ModTime time.Time `json:"mod_time,omitempty"`

	// Metadata holds marker fields with no dedicated slot.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// DepthKnown reports whether the record carries a usable depth interval.
// Both depths at exactly zero means "depth unknown", not a zero-length
// interval, so such records neither confirm nor contradict a comparison.
func (r RemoteRecord) DepthKnown() bool {
	if r.DepthFrom == nil || r.DepthTo == nil {
		return false
	}
	return *r.DepthFrom != 0 || *r.DepthTo != 0
}

// IsEmpty reports whether the record carries no usable fields at all.
func (r RemoteRecord) IsEmpty() bool {
	return r.HoleID == "" && r.Machine == "" &&
		r.DepthFrom == nil && r.DepthTo == nil &&
		r.Quality == "" && r.ScanDate == "" && len(r.Metadata) == 0
}

// ScanResult is the outcome of a best-effort share enumeration.
// A single bad directory never aborts a scan; the skipped branch is
// recorded as a warning and Partial is raised so callers know the
// result may be incomplete.
type ScanResult struct {
	// Records are the successfully gathered remote records.
	Records []RemoteRecord `json:"records"`

	// Warnings describes every branch that had to be skipped.
	Warnings []string `json:"warnings,omitempty"`

	// Partial is true when any branch was skipped, meaning a discrepancy
	// report built from this result cannot be trusted as complete.
	Partial bool `json:"partial"`
}

// ImageRecord describes one evidence image found on the share.
type ImageRecord struct {
	// Filename is the base name of the image file.
	Filename string `json:"filename"`

	// FullPath is the complete path of the file on the share.
	FullPath string `json:"full_path"`

	// FolderPath is the immediate parent folder of the file.
	FolderPath string `json:"folder_path"`

	// PathParts is the ordered list of path segments, filename last.
	PathParts []string `json:"path_parts"`

	// FileSize is the file size in bytes.
	FileSize int64 `json:"file_size"`

	// HoleName is the segment preceding the batch token, or the parent
	// folder name for files outside the batch/sample convention.
	HoleName string `json:"hole_name"`

	// BatchNumber is the number from a batch-<n> path segment, "N/A" if none.
	BatchNumber string `json:"batch_number"`

	// SampleNumber is the number from a sample-<n> path segment, "N/A" if none.
	SampleNumber string `json:"sample_number"`

	// DisplayName is a synthesized human-readable label.
	DisplayName string `json:"display_name"`
}

// ImageScan is the outcome of a full-tree image sweep.
type ImageScan struct {
	// Images are the matching files, sorted by hole, batch, then sample.
	Images []ImageRecord `json:"images"`

	// Warnings describes listing failures encountered mid-sweep.
	Warnings []string `json:"warnings,omitempty"`

	// Partial is true when the sweep may not cover the whole tree.
	Partial bool `json:"partial"`
}
