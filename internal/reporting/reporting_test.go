package reporting

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"curve-lab/internal/backtest"
	"curve-lab/internal/domain"
	"curve-lab/internal/optimize"
	"curve-lab/internal/storage/memory"
)

const minute = int64(60_000)

func sampleResults() *domain.Results {
	return &domain.Results{
		RunID:    "run-1",
		StartMs:  1705314000000,
		EndMs:    1705314600000,
		Launches: 3,
		PerformanceSummary: domain.PerformanceSummary{
			StartingCapitalSOL: 10,
			EndingCapitalSOL:   10.2,
			TotalPnLSOL:        0.2,
			TotalReturnPct:     2.0,
			TotalTrades:        2,
			WinningTrades:      1,
			LosingTrades:       1,
			WinRate:            50,
			AvgWinPct:          60,
			AvgLossPct:         -40,
			LargestWinPct:      60,
			LargestLossPct:     -40,
			SharpeRatio:        1.2345,
			ProfitFactor:       1.5,
			MaxDrawdownPct:     3.9215686,
			AvgHoldTimeMinutes: 1,
		},
		Positions: []*domain.SimPosition{
			{
				PositionID: "p1", Mint: "UP", Symbol: "UP", Status: domain.PositionClosed,
				EntryTimeMs: 0, EntryPrice: 1, EntryAmountSOL: 1,
				ExitTimeMs: minute, ExitPrice: 1.6, ExitAmountSOL: 1.6,
				ExitReason: domain.ExitReasonTakeProfit, ExitDetail: "Take profit at 60.0%",
				ExitPriceSource: domain.PriceSourceSample,
				PnLSOL:          0.6, PnLPct: 60, HoldTimeMinutes: 1,
			},
			{
				PositionID: "p2", Mint: "DOWN", Symbol: "DOWN, INC", Status: domain.PositionClosed,
				EntryTimeMs: 0, EntryPrice: 1, EntryAmountSOL: 1,
				ExitTimeMs: minute, ExitPrice: 0.6, ExitAmountSOL: 0.6,
				ExitReason: domain.ExitReasonStopLoss, ExitDetail: "Stop loss at -40.0%",
				ExitPriceSource: domain.PriceSourceFallback,
				PnLSOL:          -0.4, PnLPct: -40, HoldTimeMinutes: 1,
			},
		},
	}
}

func TestRenderText_Golden(t *testing.T) {
	want, err := os.ReadFile("testdata/report.golden")
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}

	got := RenderText(sampleResults())
	if got != string(want) {
		t.Errorf("RenderText mismatch\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestRenderText_EmptyRun(t *testing.T) {
	r := &domain.Results{
		PerformanceSummary: domain.PerformanceSummary{StartingCapitalSOL: 10, EndingCapitalSOL: 10},
	}
	got := RenderText(r)

	for _, line := range []string{
		"Starting Capital:    10.00 SOL",
		"Total P&L:           +0.0000 SOL",
		"Total Return:        +0.0%",
		"Winning Trades:      0 (0.0%)",
		"Profit Factor:       0.00x",
		"Avg Hold Time:       0 minutes",
	} {
		if !strings.Contains(got, line) {
			t.Errorf("empty run report missing %q", line)
		}
	}
}

func TestRenderPositionsCSV(t *testing.T) {
	open := &domain.SimPosition{
		PositionID: "p3", Mint: "OPEN", Symbol: "OPEN", Status: domain.PositionOpen,
		EntryTimeMs: 5000, EntryPrice: 0.5, EntryAmountSOL: 1,
	}
	positions := append(sampleResults().Positions, open)

	lines := strings.Split(strings.TrimSpace(RenderPositionsCSV(positions)), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + 3 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "position_id,mint,symbol,status,") {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if want := "p1,UP,UP,CLOSED,0,1,1,60000,1.6,1.6,take_profit,sample,0.6,60.00,1"; lines[1] != want {
		t.Errorf("row 1 = %q, want %q", lines[1], want)
	}
	if !strings.Contains(lines[2], `"DOWN, INC"`) {
		t.Errorf("symbol with comma not quoted: %s", lines[2])
	}
	if want := "p3,OPEN,OPEN,OPEN,5000,0.5,1,,,,,,,,"; lines[3] != want {
		t.Errorf("open row = %q, want %q", lines[3], want)
	}
}

func TestRenderPositionsTable(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderPositionsTable(&buf, sampleResults().Positions); err != nil {
		t.Fatalf("RenderPositionsTable: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Take profit at 60.0%", "Stop loss at -40.0% (fallback)", "+0.6000", "-40.0%", "1.60000000"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestRenderGridMarkdown(t *testing.T) {
	cfg := domain.DefaultBacktestConfig()
	results := []optimize.Result{
		{Index: 1, Config: cfg, Results: sampleResults(), Score: 2},
	}

	md := RenderGridMarkdown(results, optimize.ObjectiveReturn)
	if !strings.Contains(md, "Objective: return | Combinations: 1") {
		t.Errorf("missing header line:\n%s", md)
	}
	if !strings.Contains(md, "| 1 | 100 | 30 | 15 | 60 | 0.10 | 2 | 50.0% | +2.0% | 1.23 | 1.50 | 2.0000 |") {
		t.Errorf("unexpected row:\n%s", md)
	}
}

// storeRuns saves two engine runs and one run whose summary was tampered with.
func storeRuns(t *testing.T) *memory.ResultStore {
	t.Helper()
	ctx := context.Background()

	e := backtest.NewEngine()
	e.Load([]domain.LaunchRecord{
		{
			Mint: "RISE", Symbol: "RISE", InitialLiquiditySOL: 10,
			PriceHistory: []domain.PricePoint{
				{TimestampMs: 0, Price: 1.0},
				{TimestampMs: 10 * minute, Price: 1.3},
				{TimestampMs: 20 * minute, Price: 1.6},
			},
		},
		{Mint: "T1", TimestampMs: 10 * minute},
		{Mint: "T2", TimestampMs: 20 * minute},
	})

	store := memory.NewResultStore()
	for _, tp := range []float64{25, 50} {
		cfg := domain.DefaultBacktestConfig()
		cfg.Mode = domain.ModeOptimistic
		cfg.ExecutionDelayMs = 0
		cfg.Strategy.BuyAmountSOL = 1
		cfg.Strategy.MinInitialLiquiditySOL = 5
		cfg.Strategy.TakeProfitPct = tp

		res, err := e.Run(cfg, backtest.Window{})
		if err != nil {
			t.Fatalf("run tp=%v: %v", tp, err)
		}
		if err := store.SaveRun(ctx, res); err != nil {
			t.Fatalf("save tp=%v: %v", tp, err)
		}
		if tp == 25 {
			bad := *res
			bad.RunID = "tampered"
			bad.EndingCapitalSOL += 1
			bad.TotalReturnPct = -1
			if err := store.SaveRun(ctx, &bad); err != nil {
				t.Fatalf("save tampered: %v", err)
			}
		}
	}
	return store
}

func TestGenerator_Generate(t *testing.T) {
	store := storeRuns(t)
	fixed := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	report, err := NewGenerator(store).WithClock(func() time.Time { return fixed }).Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if len(report.Runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(report.Runs))
	}
	if got := report.Runs[0].Summary.TotalReturnPct; got < 5.999 || got > 6.001 {
		t.Errorf("best run return = %v, want 6", got)
	}
	if report.Best == nil || report.Best.RunID != report.Runs[0].RunID {
		t.Errorf("best run not loaded")
	}
	if !report.Runs[0].Verified || !report.Runs[1].Verified {
		t.Errorf("engine runs should verify")
	}
	last := report.Runs[2]
	if last.RunID != "tampered" || last.Verified {
		t.Errorf("tampered run should rank last and fail verification, got %+v", last)
	}

	md := RenderMarkdown(report)
	for _, want := range []string{
		"# Backtest Run Comparison",
		"Generated: 2024-01-15T12:00:00Z",
		"Runs: 3",
		"### Verification Failures",
		"- tampered:",
		"## Best Run",
		"Total Return:        +6.0%",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestGenerator_NoRuns(t *testing.T) {
	_, err := NewGenerator(memory.NewResultStore()).Generate(context.Background())
	if !errors.Is(err, ErrNoRuns) {
		t.Errorf("expected ErrNoRuns, got %v", err)
	}
}
