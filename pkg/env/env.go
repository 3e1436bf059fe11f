package env

import "os"

// Variables read outside of pkg/config because they are needed before config loads.
const (
	LogFormat   = "LOG_FORMAT"
	ServiceName = "FARMBATCH_SERVICE_NAME"
)

// Get returns the value of the given environment variable or a fallback.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
