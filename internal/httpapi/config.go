package httpapi

// maxUploadBytes caps the whole ask request body, file included.
// Default is 200 MiB.
var maxUploadBytes int64 = 200 << 20

// SetMaxUploadBytes configures the request body limit for ask endpoints.
func SetMaxUploadBytes(n int64) {
	if n <= 0 {
		maxUploadBytes = 200 << 20
		return
	}
	maxUploadBytes = n
}

// multipartMemory is how much of a multipart body is kept in memory before
// spilling file parts to disk.
const multipartMemory = 32 << 20

// CORS configuration (opt-in). If disabled, no CORS middleware is added.
var (
	corsEnabled        bool
	corsAllowedOrigins []string
	corsAllowedMethods []string
	corsAllowedHeaders []string
)

// SetCORSOptions configures CORS behavior for the HTTP server.
func SetCORSOptions(enabled bool, origins, methods, headers []string) {
	corsEnabled = enabled
	corsAllowedOrigins = append([]string(nil), origins...)
	corsAllowedMethods = append([]string(nil), methods...)
	corsAllowedHeaders = append([]string(nil), headers...)
}
