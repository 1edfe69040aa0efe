package lookup

import (
	"errors"

	"curve-lab/internal/domain"
)

// ErrNoPriceData is returned when a series has no samples.
var ErrNoPriceData = errors.New("no price data available")

// Kind classifies how a price was obtained.
type Kind int

// Resolution kinds.
const (
	Unresolved Kind = iota // no usable price
	Resolved               // nearest sample in the series
	Default                // series empty, launch initial price or configured default
)

func (k Kind) String() string {
	switch k {
	case Resolved:
		return "resolved"
	case Default:
		return "default"
	}
	return "unresolved"
}

// Resolution is the outcome of a price lookup.
type Resolution struct {
	Price float64
	Kind  Kind
}

// OK reports whether a usable price was found.
func (r Resolution) OK() bool {
	return r.Kind != Unresolved
}

// Source maps the resolution onto the position price source it produces.
func (r Resolution) Source() domain.PriceSource {
	if r.Kind == Default {
		return domain.PriceSourceDefault
	}
	return domain.PriceSourceSample
}

// NearestPrice returns the price of the sample closest in time to target.
// Ties go to the earlier sample in slice order.
// Returns ErrNoPriceData if the series is empty.
func NearestPrice(target int64, points []domain.PricePoint) (float64, error) {
	if len(points) == 0 {
		return 0, ErrNoPriceData
	}

	best := 0
	bestDiff := absDiff(points[0].TimestampMs, target)
	for i := 1; i < len(points); i++ {
		if d := absDiff(points[i].TimestampMs, target); d < bestDiff {
			best, bestDiff = i, d
		}
	}
	return points[best].Price, nil
}

// ResolvePrice looks up a launch's price at target.
// An empty series falls back to the launch's initial price, then to defaultPrice.
// Non-positive prices are never returned as resolved.
func ResolvePrice(launch *domain.LaunchRecord, target int64, defaultPrice float64) Resolution {
	price, err := NearestPrice(target, launch.PriceHistory)
	if errors.Is(err, ErrNoPriceData) {
		switch {
		case launch.InitialPrice > 0:
			return Resolution{Price: launch.InitialPrice, Kind: Default}
		case defaultPrice > 0:
			return Resolution{Price: defaultPrice, Kind: Default}
		}
		return Resolution{Kind: Unresolved}
	}
	if price <= 0 {
		return Resolution{Kind: Unresolved}
	}
	return Resolution{Price: price, Kind: Resolved}
}

func absDiff(a, b int64) int64 {
	if a > b {
		return a - b
	}
	return b - a
}
