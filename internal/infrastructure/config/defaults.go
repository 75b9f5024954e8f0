package config

import "time"

const (
	DefaultHTTPPort        = "8080"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultFeedInterval    = 30 * time.Second
	DefaultPGMaxConns      = 5
	DefaultPGMinConns      = 1
	DefaultBoltOpenTimeout = 2 * time.Second
	DefaultSourceTimeout   = 4 * time.Second
)
