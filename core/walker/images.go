package walker

import (
	"context"
	"fmt"
	"math"
	"path"
	"regexp"
	"sort"
	"strings"

	"corescan-portal/core/utils"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// UnknownNumber marks an image with no detected batch or sample token.
const UnknownNumber = "N/A"

var (
	batchToken  = regexp.MustCompile(`(?i)^batch-([0-9]+(?:\.[0-9]+)?)$`)
	sampleToken = regexp.MustCompile(`(?i)^sample-([0-9]+)$`)
)

// ScanForImages walks the entire share collecting every file matching the
// given extension (case-insensitive). Each match is enriched by pattern
// matching its path segments against batch-<number> and sample-<number>
// tokens; files outside the convention are still included with the parent
// folder name as a fallback label, so the sweep is total over the tree.
// Output is sorted by hole name, then batch number, then sample number,
// with undetected numbers at the end of their sort key.
func (w *Walker) ScanForImages(ctx context.Context, extension string) ImageScan {
	res := ImageScan{Images: []ImageRecord{}}
	if !w.Connect(ctx) {
		res.Warnings = append(res.Warnings, "remote share unreachable")
		res.Partial = true
		return res
	}
	defer w.Disconnect()

	suffix := "." + strings.ToLower(strings.TrimPrefix(extension, "."))
	for obj := range w.client.ListObjects(ctx, w.share, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("image sweep interrupted: %v", obj.Err))
			res.Partial = true
			w.logger.Warn("Image sweep listing failed", zap.Error(obj.Err))
			continue
		}
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}
		if !strings.EqualFold(path.Ext(obj.Key), suffix) {
			continue
		}
		res.Images = append(res.Images, newImageRecord(obj))
	}

	sortImages(res.Images)
	return res
}

func newImageRecord(obj minio.ObjectInfo) ImageRecord {
	parts := strings.Split(obj.Key, "/")
	rec := ImageRecord{
		Filename:     parts[len(parts)-1],
		FullPath:     obj.Key,
		FolderPath:   path.Dir(obj.Key),
		PathParts:    parts,
		FileSize:     obj.Size,
		BatchNumber:  UnknownNumber,
		SampleNumber: UnknownNumber,
	}

	for i, seg := range parts[:len(parts)-1] {
		if m := batchToken.FindStringSubmatch(seg); m != nil {
			rec.BatchNumber = m[1]
			if i > 0 {
				rec.HoleName = parts[i-1]
			}
			continue
		}
		if m := sampleToken.FindStringSubmatch(seg); m != nil {
			rec.SampleNumber = m[1]
		}
	}

	if rec.BatchNumber != UnknownNumber {
		rec.DisplayName = fmt.Sprintf("%s - Batch %s - Sample %s",
			rec.HoleName, rec.BatchNumber, rec.SampleNumber)
	} else {
		// Fallback label for files outside the batch/sample convention.
		rec.HoleName = path.Base(rec.FolderPath)
		rec.DisplayName = fmt.Sprintf("%s - %s", rec.HoleName, rec.Filename)
	}
	return rec
}

func sortImages(images []ImageRecord) {
	sort.Slice(images, func(i, j int) bool {
		a, b := images[i], images[j]
		if a.HoleName != b.HoleName {
			return a.HoleName < b.HoleName
		}
		if av, bv := sortValue(a.BatchNumber), sortValue(b.BatchNumber); av != bv {
			return av < bv
		}
		if av, bv := sortValue(a.SampleNumber), sortValue(b.SampleNumber); av != bv {
			return av < bv
		}
		return a.FullPath < b.FullPath
	})
}

// sortValue maps a detected number to its numeric order, pushing
// undetected ones past every real value.
func sortValue(number string) float64 {
	if number == UnknownNumber {
		return math.Inf(1)
	}
	return utils.ToFloat(number)
}
