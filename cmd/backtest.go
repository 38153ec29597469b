package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang-statarb/internal/backtest"
	"golang-statarb/internal/dto"

	"github.com/spf13/cobra"
)

var (
	backtestTickerA string
	backtestTickerB string
	backtestStart   string
	backtestEnd     string
	backtestCSV     string
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Backtest one pair over the full sample",
	Run:   runBacktestCmd,
}

func init() {
	backtestCmd.Flags().StringVar(&backtestTickerA, "ticker-a", "", "first leg ticker")
	backtestCmd.Flags().StringVar(&backtestTickerB, "ticker-b", "", "second leg ticker")
	backtestCmd.Flags().StringVar(&backtestStart, "start", "", "start date YYYY-MM-DD")
	backtestCmd.Flags().StringVar(&backtestEnd, "end", "", "end date YYYY-MM-DD")
	backtestCmd.Flags().StringVar(&backtestCSV, "csv", "", "write the daily ledger to this CSV file")
	_ = backtestCmd.MarkFlagRequired("ticker-a")
	_ = backtestCmd.MarkFlagRequired("ticker-b")
}

func runBacktestCmd(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	services, cleanup := newCLIServices(ctx)
	defer cleanup()

	resp, err := services.BacktestService.RunBacktest(ctx, dto.BacktestRequest{
		TickerA: backtestTickerA,
		TickerB: backtestTickerB,
		Start:   backtestStart,
		End:     backtestEnd,
	})
	if err != nil {
		log.Fatalf("Backtest failed: %v", err)
	}

	fmt.Printf("Pair %s-%s over %d days\n", resp.TickerA, resp.TickerB, resp.Days)
	fmt.Printf("  alpha=%.4f beta=%.4f adf_p=%.4f stationary=%v\n",
		resp.Alpha, resp.Beta, resp.ADFPValue, resp.Stationary)
	if resp.JohansenRank != nil {
		fmt.Printf("  johansen_rank=%d\n", *resp.JohansenRank)
	}
	printSummary(resp.Summary)

	if backtestCSV != "" {
		writeLedgerCSV(backtestCSV, resp.Ledger)
	}
}

func printSummary(s backtest.Summary) {
	fmt.Printf("  sharpe=%.2f ann_return=%.2f%% ann_vol=%.2f%% max_dd=%.2f%% hit_rate=%.1f%%\n",
		s.Sharpe, s.AnnReturn*100, s.AnnVol*100, s.MaxDrawdown*100, s.HitRate*100)
}

func writeLedgerCSV(path string, rows []backtest.Row) {
	f, err := os.Create(path)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", path, err)
	}
	defer f.Close()

	ledger := backtest.Ledger{Rows: rows}
	if err := ledger.WriteCSV(f); err != nil {
		log.Fatalf("Failed to write ledger CSV: %v", err)
	}
	fmt.Printf("Ledger written to %s\n", path)
}
