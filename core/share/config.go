package share

// Config holds configuration for the remote share connection.
type Config struct {
	// Endpoint is the URL of the file server exposing the share.
	Endpoint string `mapstructure:"endpoint" default:"localhost:9000"`
	// AccessKey is the access key ID for authentication.
	AccessKey string `mapstructure:"access_key" default:""`
	// SecretKey is the secret access key for authentication.
	SecretKey string `mapstructure:"secret_key" default:""`
	// Domain is the authentication domain, kept for operator reference.
	Domain string `mapstructure:"domain" default:"WORKGROUP"`
	// UseSSL indicates whether to use SSL/TLS for connections.
	UseSSL bool `mapstructure:"use_ssl" default:"false"`
	// Share is the name of the share where scanning machines deposit files.
	Share string `mapstructure:"share" default:"pond"`
	// BasePath is the directory under the share holding hole directories.
	BasePath string `mapstructure:"base_path" default:"incoming/Orexplore"`
	// TimeoutSeconds is the connection timeout in seconds.
	// The share is an external dependency that may be unreachable, so this
	// stays short: a dead host must degrade a request, not hang it.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"5"`
	// CacheTTLSeconds is the time-to-live for cached share scan results.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" default:"30"`
}
