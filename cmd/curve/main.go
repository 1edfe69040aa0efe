// Command curve inspects pump.fun bonding curve accounts and prices trades
// against them.
//
// Usage:
//
//	curve decode  --data <base64 account>
//	curve quote   [--data <base64>] --sol 1.5 | --tokens 1000000
//	curve optimal [--data <base64>] --max-impact 5
//	curve pda     --mint <base58 mint>
//	curve encode  [--virtual-sol N] [--virtual-tokens N] [--real-sol N] [--real-tokens N] [--supply N] [--complete]
//
// Without --data the launch-time reserves of a fresh curve are used.
package main

import (
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"

	"curve-lab/internal/curve"
	"curve-lab/internal/pumpfun"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, w io.Writer) error {
	if len(args) == 0 {
		return errors.New("expected a subcommand: decode, quote, optimal, pda, encode")
	}

	cmd, rest := args[0], args[1:]
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	data := fs.String("data", "", "Base64 bonding curve account data")

	switch cmd {
	case "decode":
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *data == "" {
			return errors.New("--data is required")
		}
		snap, err := pumpfun.DecodeBase64(*data)
		if err != nil {
			return err
		}
		return printSnapshot(w, snap)

	case "quote":
		sol := fs.Float64("sol", 0, "SOL to spend (buy)")
		tokens := fs.Float64("tokens", 0, "Whole tokens to sell")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		snap, err := snapshotFrom(*data)
		if err != nil {
			return err
		}
		switch {
		case *sol > 0 && *tokens > 0:
			return errors.New("use either --sol or --tokens")
		case *sol > 0:
			return printBuy(w, snap, *sol)
		case *tokens > 0:
			return printSell(w, snap, *tokens)
		}
		return errors.New("--sol or --tokens is required")

	case "optimal":
		maxImpact := fs.Float64("max-impact", curve.DefaultMaxPriceImpactPct, "Maximum price impact in percent")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		snap, err := snapshotFrom(*data)
		if err != nil {
			return err
		}
		lamports, err := snap.OptimalBuyAmount(*maxImpact)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Max impact:     %.2f%%\n", *maxImpact)
		fmt.Fprintf(w, "Optimal buy:    %s SOL\n", curve.LamportsToSOL(uint64(math.Max(0, lamports))).StringFixed(6))
		return nil

	case "encode":
		fresh := curve.InitialSnapshot()
		vsol := fs.Uint64("virtual-sol", fresh.VirtualSOLReserves, "Virtual SOL reserves in lamports")
		vtok := fs.Uint64("virtual-tokens", fresh.VirtualTokenReserves, "Virtual token reserves in base units")
		rsol := fs.Uint64("real-sol", fresh.RealSOLReserves, "Real SOL reserves in lamports")
		rtok := fs.Uint64("real-tokens", fresh.RealTokenReserves, "Real token reserves in base units")
		supply := fs.Uint64("supply", fresh.TokenTotalSupply, "Token total supply in base units")
		complete := fs.Bool("complete", false, "Mark the curve as migrated")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		raw := pumpfun.EncodeBondingCurve(curve.ReserveSnapshot{
			VirtualSOLReserves:   *vsol,
			VirtualTokenReserves: *vtok,
			RealSOLReserves:      *rsol,
			RealTokenReserves:    *rtok,
			TokenTotalSupply:     *supply,
			Complete:             *complete,
		})
		fmt.Fprintln(w, base64.StdEncoding.EncodeToString(raw))
		return nil

	case "pda":
		mint := fs.String("mint", "", "Token mint address")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		addr, bump, err := pumpfun.BondingCurveAddress(*mint)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Bonding curve:  %s\n", addr)
		fmt.Fprintf(w, "Bump:           %d\n", bump)
		return nil
	}

	return fmt.Errorf("unknown subcommand %q", cmd)
}

func snapshotFrom(data string) (curve.ReserveSnapshot, error) {
	if data == "" {
		return curve.InitialSnapshot(), nil
	}
	return pumpfun.DecodeBase64(data)
}

// solPerToken converts a raw lamports-per-base-unit price to SOL per whole token.
func solPerToken(price float64) float64 {
	return price * math.Pow10(curve.TokenDecimals) / curve.LamportsPerSOL
}

func printSnapshot(w io.Writer, s curve.ReserveSnapshot) error {
	fmt.Fprintf(w, "Virtual SOL:    %s\n", curve.LamportsToSOL(s.VirtualSOLReserves).StringFixed(4))
	fmt.Fprintf(w, "Virtual tokens: %s\n", curve.TokensToUI(float64(s.VirtualTokenReserves)).StringFixed(0))
	fmt.Fprintf(w, "Real SOL:       %s\n", curve.LamportsToSOL(s.RealSOLReserves).StringFixed(4))
	fmt.Fprintf(w, "Real tokens:    %s\n", curve.TokensToUI(float64(s.RealTokenReserves)).StringFixed(0))
	fmt.Fprintf(w, "Complete:       %t\n", s.Complete)
	fmt.Fprintf(w, "Migration:      %.1f%%\n", s.MigrationProgress()*100)

	// a completed curve has no price; report the state without one
	if s.Complete {
		return nil
	}
	price, err := s.Price()
	if err != nil {
		return err
	}
	mc, err := s.MarketCapSOL()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Price:          %.10f SOL/token\n", solPerToken(price))
	fmt.Fprintf(w, "Market cap:     %s SOL\n", curve.LamportsToSOL(uint64(mc)).StringFixed(2))
	return nil
}

func printBuy(w io.Writer, s curve.ReserveSnapshot, sol float64) error {
	q, err := s.Buy(float64(curve.SOLToLamports(sol)))
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "SOL in:         %s\n", curve.LamportsToSOL(uint64(q.SOLUsed)).StringFixed(6))
	fmt.Fprintf(w, "Tokens out:     %s\n", curve.TokensToUI(q.TokensOut).StringFixed(2))
	fmt.Fprintf(w, "Avg price:      %.10f SOL/token\n", solPerToken(q.AvgPrice))
	fmt.Fprintf(w, "Price impact:   %.2f%%\n", q.PriceImpactPct)
	if q.Exhausted {
		fmt.Fprintln(w, "Curve exhausted: real token reserves cap the fill")
	}
	return nil
}

func printSell(w io.Writer, s curve.ReserveSnapshot, tokens float64) error {
	q, err := s.Sell(tokens * math.Pow10(curve.TokenDecimals))
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Tokens in:      %s\n", curve.TokensToUI(q.TokensUsed).StringFixed(2))
	fmt.Fprintf(w, "SOL out:        %s\n", curve.LamportsToSOL(uint64(q.SOLOut)).StringFixed(6))
	fmt.Fprintf(w, "Price impact:   %.2f%%\n", q.PriceImpactPct)
	if q.Exhausted {
		fmt.Fprintln(w, "Curve exhausted: real SOL reserves cap the fill")
	}
	return nil
}
