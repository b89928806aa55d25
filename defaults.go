package filegate

import "time"

const (
	defaultMaxMemoryUsage  = 256 << 20 // 256 MiB
	defaultMaxEntries      = 10_000
	defaultMaxFileSize     = 10 << 20 // 10 MiB
	defaultTTL             = 30 * time.Minute
	defaultSweepInterval   = 5 * time.Minute
	defaultReadConcurrency = 10
)

// DefaultAllowedExtensions is the extension allow-list applied when Options
// leaves AllowedExtensions nil: common source and text formats, plus the
// empty extension so extensionless config files (Makefile, LICENSE, dotless
// scripts) stay readable.
var DefaultAllowedExtensions = []string{
	"", ".c", ".cc", ".cfg", ".conf", ".cpp", ".css", ".go", ".h", ".hpp",
	".html", ".ini", ".java", ".js", ".json", ".jsx", ".md", ".py", ".rb",
	".rs", ".sh", ".sql", ".toml", ".ts", ".tsx", ".txt", ".xml", ".yaml",
	".yml",
}

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
