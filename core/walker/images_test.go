package walker

import (
	"context"
	"errors"
	"testing"

	"corescan-portal/core/share/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func TestWalker_ScanForImages(t *testing.T) {
	logger := zap.NewNop()

	t.Run("collects and enriches matching files", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "pond").Return(true, nil)
		client.On("ListObjects", mock.Anything, "pond", mock.Anything).
			Return(objectChan(
				minio.ObjectInfo{Key: "incoming/Orexplore/MACHINE1/DDH-007/batch-42.0/sample-3/scan.png", Size: 2048},
				minio.ObjectInfo{Key: "incoming/Orexplore/misc/readme.txt"},
				minio.ObjectInfo{Key: "loose/photo.PNG", Size: 10},
			))

		w := New(client, testConfig(), logger)
		res := w.ScanForImages(context.Background(), "png")

		assert.False(t, res.Partial)
		if !assert.Len(t, res.Images, 2) {
			return
		}

		// Enriched record from the batch/sample naming convention
		scan := res.Images[0]
		assert.Equal(t, "scan.png", scan.Filename)
		assert.Equal(t, "DDH-007", scan.HoleName)
		assert.Equal(t, "42.0", scan.BatchNumber)
		assert.Equal(t, "3", scan.SampleNumber)
		assert.Equal(t, "DDH-007 - Batch 42.0 - Sample 3", scan.DisplayName)
		assert.Equal(t, int64(2048), scan.FileSize)

		// Extension match is case-insensitive; tokenless paths fall back
		// to the parent folder label
		photo := res.Images[1]
		assert.Equal(t, "photo.PNG", photo.Filename)
		assert.Equal(t, UnknownNumber, photo.BatchNumber)
		assert.Equal(t, UnknownNumber, photo.SampleNumber)
		assert.Equal(t, "loose", photo.HoleName)
		assert.Equal(t, "loose - photo.PNG", photo.DisplayName)
	})

	t.Run("unreachable share yields empty partial result", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "pond").Return(false, errors.New("dial timeout"))

		w := New(client, testConfig(), logger)
		res := w.ScanForImages(context.Background(), "png")

		assert.True(t, res.Partial)
		assert.Empty(t, res.Images)
	})

	t.Run("listing error is a warning, not a failure", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "pond").Return(true, nil)
		client.On("ListObjects", mock.Anything, "pond", mock.Anything).
			Return(objectChan(
				minio.ObjectInfo{Key: "a/batch-1.0/sample-1/x.png"},
				minio.ObjectInfo{Err: errors.New("connection reset")},
			))

		w := New(client, testConfig(), logger)
		res := w.ScanForImages(context.Background(), ".png")

		assert.True(t, res.Partial)
		assert.Len(t, res.Images, 1)
		assert.NotEmpty(t, res.Warnings)
	})
}

func TestNewImageRecord(t *testing.T) {
	rec := newImageRecord(minio.ObjectInfo{
		Key:  "incoming/Orexplore/MACHINE1/DDH-007/batch-42.0/sample-3/scan.png",
		Size: 512,
	})

	assert.Equal(t, "incoming/Orexplore/MACHINE1/DDH-007/batch-42.0/sample-3", rec.FolderPath)
	assert.Equal(t, []string{"incoming", "Orexplore", "MACHINE1", "DDH-007", "batch-42.0", "sample-3", "scan.png"}, rec.PathParts)
	// Hole is the segment immediately before the batch token
	assert.Equal(t, "DDH-007", rec.HoleName)
	assert.Equal(t, "42.0", rec.BatchNumber)
	assert.Equal(t, "3", rec.SampleNumber)
}

func TestSortImages(t *testing.T) {
	images := []ImageRecord{
		{HoleName: "DDH-001", BatchNumber: "2", SampleNumber: "1", FullPath: "b"},
		{HoleName: "DDH-001", BatchNumber: UnknownNumber, SampleNumber: UnknownNumber, FullPath: "c"},
		{HoleName: "DDH-001", BatchNumber: "1", SampleNumber: "1", FullPath: "a"},
		{HoleName: "DDH-001", BatchNumber: "1", SampleNumber: "10", FullPath: "d"},
		{HoleName: "AAA-900", BatchNumber: "9", SampleNumber: "1", FullPath: "e"},
	}

	sortImages(images)

	// Holes alphabetically, then batch and sample numerically,
	// undetected numbers last
	assert.Equal(t, "e", images[0].FullPath)
	assert.Equal(t, "a", images[1].FullPath)
	assert.Equal(t, "d", images[2].FullPath)
	assert.Equal(t, "b", images[3].FullPath)
	assert.Equal(t, "c", images[4].FullPath)
}
