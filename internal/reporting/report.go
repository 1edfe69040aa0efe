package reporting

import (
	"time"

	"curve-lab/internal/domain"
	"curve-lab/internal/metrics"
)

// Report compares every stored run.
type Report struct {
	GeneratedAt time.Time
	Runs        []RunRow        // best total return first
	Best        *domain.Results // full results of Runs[0]
}

// RunRow is one stored run with its consistency check.
type RunRow struct {
	metrics.RunSummary
	Verified    bool
	VerifyError string
}
