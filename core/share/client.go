package share

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Client defines the read-only interface over the remote share.
// The share is browsed, never written: scanning machines own its contents.
type Client interface {
	// BucketExists checks if the share exists and is reachable.
	BucketExists(ctx context.Context, share string) (bool, error)
	// ListObjects lists entries under a prefix of the share.
	ListObjects(ctx context.Context, share string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
	// GetObject downloads a file from the share.
	GetObject(ctx context.Context, share, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
}

// NewClient creates a new client for the remote share based on the configuration.
func NewClient(cfg Config) (Client, error) {
	// The client expects an endpoint without scheme
	endpoint := strings.TrimPrefix(cfg.Endpoint, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")

	// Ensure timeout defaults if not set
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 5
	}
	timeoutDuration := time.Duration(timeout) * time.Second

	// Create custom transport with strict timeouts
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeoutDuration, // Connection setup timeout
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeoutDuration, // TLS Handshake timeout
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeoutDuration, // Wait for first response byte timeout
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    cfg.UseSSL,
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create share client: %w", err)
	}
	// The client connects lazily; reachability is probed per call by the
	// walker's Connect, under the transport timeouts above.

	return &clientWrapper{Client: client}, nil
}

type clientWrapper struct {
	*minio.Client
}

func (c *clientWrapper) GetObject(ctx context.Context, share, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	return c.Client.GetObject(ctx, share, objectName, opts)
}
