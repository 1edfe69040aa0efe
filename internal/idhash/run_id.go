package idhash

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"curve-lab/internal/domain"
)

// runNamespace scopes run IDs so they never collide with other name-based UUIDs.
var runNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("curve-lab/backtest-run"))

// ComputeRunID derives a name-based UUID (v5) from everything that determines
// a run's output: the config, the window bounds and the launch count.
// Identical inputs always produce the same ID.
func ComputeRunID(cfg domain.BacktestConfig, fromMs, toMs int64, launches int) (string, error) {
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}

	name := fmt.Sprintf("%s|%d|%d|%d", cfgJSON, fromMs, toMs, launches)
	return uuid.NewSHA1(runNamespace, []byte(name)).String(), nil
}
