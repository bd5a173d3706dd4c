package handlers

import (
	"database/sql"
	"fmt"
	"io"
	"math"
	"text/tabwriter"
	"time"

	"QuantResearch/internal/models"
	"QuantResearch/internal/services/risk"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// BuildRecord rounds a metrics bundle into its persisted form. Sharpe keeps
// 3 places and is NULL when undefined. Drawdown is rounded as a fraction to
// 4 places, then stored as a percent.
func BuildRecord(runID uuid.UUID, ticker string, start, end time.Time, strategyName string, m risk.MetricsBundle) models.BacktestResult {
	record := models.BacktestResult{
		RunID:        runID,
		Ticker:       ticker,
		StartDate:    start,
		EndDate:      end,
		StrategyName: strategyName,
		FinalEquity:  round(m.FinalEquity, 4),
		MaxDrawdown:  decimal.NewFromFloat(m.MaxDrawdown).Round(4).Mul(hundred).InexactFloat64(),
		TotalReturn:  round(m.TotalReturnPct, 2),
		WinRate:      round(m.WinRatePct, 2),
		NumTrades:    m.NumTrades,
	}
	if risk.IsDefined(m.SharpeRatio) {
		record.SharpeRatio = sql.NullFloat64{Float64: round(m.SharpeRatio, 3), Valid: true}
	}
	return record
}

func round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// WriteTable prints one line per ticker and strategy followed by failures
func WriteTable(w io.Writer, report *BatchReport) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "TICKER\tSTRATEGY\tSHARPE\tMAX DD %\tRETURN %\tWIN %\tTRADES\tFINAL EQUITY")
	for _, t := range report.Tickers {
		for _, s := range t.Strategies {
			if s.Err != nil {
				fmt.Fprintf(tw, "%s\t%s\terror: %v\n", t.Ticker, s.Strategy, s.Err)
				continue
			}
			r := BuildRecord(report.RunID, t.Ticker, t.Start, t.End, s.Strategy, s.Metrics)
			sharpe := "n/a"
			if r.SharpeRatio.Valid {
				sharpe = fmt.Sprintf("%.3f", r.SharpeRatio.Float64)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%.2f\t%.2f\t%d\t%.4f\n",
				t.Ticker, s.Strategy, sharpe, r.MaxDrawdown, r.TotalReturn, r.WinRate, r.NumTrades, r.FinalEquity)
		}
	}
	for _, f := range report.Failures {
		fmt.Fprintf(tw, "%s\t-\tfailed: %v\n", f.Ticker, f.Err)
	}

	return tw.Flush()
}
