package config

import "time"

// Default runtime limits and guardrails for the aircraft registry dashboard.
// These values are conservative and can be overridden via environment
// variables (AERODASH_*) or CLI flags. They are referenced by internal/runtime
// and the dashboard handlers.

const (
	// Concurrency
	DefaultMaxConcurrentRequests = 16
	DefaultMaxConcurrentLoads    = 4

	// Display limits
	DefaultPreviewRowLimit = 10 // First 10 rows of the selected sheet
	DefaultTopN            = 10
	MinTopN                = 5
	MaxTopN                = 30
	TopNStep               = 5

	// Density chart shape
	DefaultHistogramBins = 50
	DefaultKDEPoints     = 200
)

const (
	// Timeouts
	DefaultOperationTimeout      = 30 * time.Second
	DefaultAcquireRequestTimeout = 2 * time.Second
	DefaultShutdownTimeout       = 5 * time.Second

	// Sheet cache
	DefaultSheetCacheTTL = 10 * time.Minute
)

// Column vocabulary of the source registry workbook. The registry is published
// with German headers; columns may appear in any order and extra columns are
// ignored.
const (
	ColManufacturer = "Hersteller"
	ColModel        = "Herstellerbezeichnung"
	ColMass         = "höchstzulässige Abflugmasse (kg)"
)

const (
	// HeaderRow is the 1-based row carrying column names. Registry sheets put a
	// title line in row 1 and the header in row 2.
	HeaderRow = 2

	// CompositeLabelSeparator joins manufacturer and model for combined grouping.
	CompositeLabelSeparator = " - "

	// UnknownGroupLabel buckets rows with a blank grouping value.
	UnknownGroupLabel = "Unknown"
)
