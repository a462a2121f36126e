package walker

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"corescan-portal/core/share"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// MarkerFilename is the conventional marker file describing one batch.
const MarkerFilename = "depth.txt"

// Walker browses the remote share and extracts typed records from marker
// files and path naming conventions. It holds no state between calls: every
// operation probes the share, does its work, and tears the session down,
// success or failure. Remote faults are recovered here and surfaced as
// empty results plus warnings, never as propagated errors, because the
// share's availability is outside this system's control.
type Walker struct {
	client  share.Client
	share   string
	base    string
	timeout time.Duration
	logger  *zap.Logger
}

// New creates a Walker over the configured share.
func New(client share.Client, cfg share.Config, logger *zap.Logger) *Walker {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 5
	}
	return &Walker{
		client:  client,
		share:   cfg.Share,
		base:    strings.Trim(cfg.BasePath, "/"),
		timeout: time.Duration(timeout) * time.Second,
		logger:  logger,
	}
}

// Connect probes the share under the configured timeout. It returns false
// on any failure after logging it; a failed probe is never retried within
// the call, retry and backoff are a caller concern.
func (w *Walker) Connect(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	exists, err := w.client.BucketExists(ctx, w.share)
	if err != nil {
		w.logger.Warn("Share connection failed",
			zap.String("share", w.share), zap.Error(err))
		return false
	}
	if !exists {
		w.logger.Warn("Share not found", zap.String("share", w.share))
		return false
	}
	return true
}

// Disconnect tears down the session. The underlying client is stateless,
// so this is a no-op, but it is kept so call sites pair every Connect with
// an explicit teardown on every exit path. Safe to call when not connected.
func (w *Walker) Disconnect() {}

// ListBatchesForHole returns the remote records for one hole. With a
// non-empty depthTo it reads exactly one marker at
// {base}/{holeID}/batch-{depthTo}/depth.txt, returning an empty result if
// absent; otherwise it enumerates every batch-* directory under the hole.
func (w *Walker) ListBatchesForHole(ctx context.Context, holeID, depthTo string) ScanResult {
	res := ScanResult{Records: []RemoteRecord{}}
	if !w.Connect(ctx) {
		return w.unreachable(res)
	}
	defer w.Disconnect()

	if depthTo != "" {
		rec, err := w.readBatchDir(ctx, holeID, "batch-"+depthTo)
		if err != nil {
			w.logger.Debug("No marker file for batch",
				zap.String("hole_id", holeID),
				zap.String("depth_to", depthTo), zap.Error(err))
			return res
		}
		res.Records = append(res.Records, rec)
		return res
	}

	records, warnings := w.batchesForHole(ctx, holeID)
	res.Records = append(res.Records, records...)
	res.Warnings = append(res.Warnings, warnings...)
	res.Partial = len(res.Warnings) > 0
	return res
}

// ScanForBatches is the full-tree discovery: every hole directory under the
// base path, every batch-* subdirectory under each, one marker file per
// batch. This is the expensive operation the cache exists to protect. A
// single bad directory is skipped with a warning and enumeration continues.
func (w *Walker) ScanForBatches(ctx context.Context) ScanResult {
	res := ScanResult{Records: []RemoteRecord{}}
	if !w.Connect(ctx) {
		return w.unreachable(res)
	}
	defer w.Disconnect()

	prefix := w.base + "/"
	for obj := range w.client.ListObjects(ctx, w.share, minio.ListObjectsOptions{Prefix: prefix, Recursive: false}) {
		if obj.Err != nil {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("listing holes under %s: %v", w.base, obj.Err))
			w.logger.Warn("Hole listing failed", zap.String("base", w.base), zap.Error(obj.Err))
			continue
		}
		if !strings.HasSuffix(obj.Key, "/") {
			continue
		}
		holeID := path.Base(strings.TrimSuffix(obj.Key, "/"))

		records, warnings := w.batchesForHole(ctx, holeID)
		res.Records = append(res.Records, records...)
		res.Warnings = append(res.Warnings, warnings...)
	}
	res.Partial = len(res.Warnings) > 0
	return res
}

// FetchFile downloads one remote file into an in-memory buffer.
// Returns nil on any failure.
func (w *Walker) FetchFile(ctx context.Context, filePath string) *bytes.Buffer {
	if !w.Connect(ctx) {
		return nil
	}
	defer w.Disconnect()

	data, err := w.readFile(ctx, filePath)
	if err != nil {
		w.logger.Warn("File fetch failed", zap.String("path", filePath), zap.Error(err))
		return nil
	}
	return bytes.NewBuffer(data)
}

// batchesForHole enumerates batch-* directories under one hole and reads
// each marker file, assuming an established session. Failed batch
// directories are reported as warnings, not errors.
func (w *Walker) batchesForHole(ctx context.Context, holeID string) ([]RemoteRecord, []string) {
	var (
		records  []RemoteRecord
		warnings []string
	)
	prefix := path.Join(w.base, holeID) + "/"
	for obj := range w.client.ListObjects(ctx, w.share, minio.ListObjectsOptions{Prefix: prefix, Recursive: false}) {
		if obj.Err != nil {
			warnings = append(warnings,
				fmt.Sprintf("listing batches for hole %s: %v", holeID, obj.Err))
			w.logger.Warn("Batch listing failed",
				zap.String("hole_id", holeID), zap.Error(obj.Err))
			continue
		}
		if !strings.HasSuffix(obj.Key, "/") {
			continue
		}
		dirName := path.Base(strings.TrimSuffix(obj.Key, "/"))
		if !strings.HasPrefix(dirName, "batch-") {
			continue
		}

		rec, err := w.readBatchDir(ctx, holeID, dirName)
		if err != nil {
			warnings = append(warnings,
				fmt.Sprintf("reading marker for %s/%s: %v", holeID, dirName, err))
			w.logger.Warn("Marker read failed",
				zap.String("hole_id", holeID),
				zap.String("batch_dir", dirName), zap.Error(err))
			continue
		}
		records = append(records, rec)
	}
	return records, warnings
}

// readBatchDir reads and parses the marker file of one batch directory.
func (w *Walker) readBatchDir(ctx context.Context, holeID, dirName string) (RemoteRecord, error) {
	markerPath := path.Join(w.base, holeID, dirName, MarkerFilename)
	data, err := w.readFile(ctx, markerPath)
	if err != nil {
		return RemoteRecord{}, err
	}

	rec := RecordFromFields(ParseMarker(data), holeID, markerPath)
	rec.BatchTo = strings.TrimPrefix(dirName, "batch-")
	rec.FileSize = int64(len(data))
	return rec, nil
}

func (w *Walker) readFile(ctx context.Context, filePath string) ([]byte, error) {
	obj, err := w.client.GetObject(ctx, w.share, filePath, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (w *Walker) unreachable(res ScanResult) ScanResult {
	res.Warnings = append(res.Warnings, "remote share unreachable")
	res.Partial = true
	return res
}
