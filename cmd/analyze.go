package cmd

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"

	"golang-statarb/internal/dto"
	"golang-statarb/internal/repository"
	"golang-statarb/internal/service"

	"github.com/spf13/cobra"
)

var (
	analyzeTickers []string
	analyzeStart   string
	analyzeEnd     string
	analyzeTopN    int
	analyzeCSV     string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Screen the universe and rank cointegrated pairs by backtest Sharpe",
	Run:   runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringSliceVar(&analyzeTickers, "tickers", nil, "tickers to screen (defaults to the configured universe)")
	analyzeCmd.Flags().StringVar(&analyzeStart, "start", "", "start date YYYY-MM-DD")
	analyzeCmd.Flags().StringVar(&analyzeEnd, "end", "", "end date YYYY-MM-DD")
	analyzeCmd.Flags().IntVar(&analyzeTopN, "top", 0, "max candidates to backtest")
	analyzeCmd.Flags().StringVar(&analyzeCSV, "csv", "", "write the ranked results table to this CSV file")
}

func runAnalyze(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	services, cleanup := newCLIServices(ctx)
	defer cleanup()

	resp, err := services.AnalysisService.Analyze(ctx, dto.AnalyzeRequest{
		Tickers: analyzeTickers,
		Start:   analyzeStart,
		End:     analyzeEnd,
		TopN:    analyzeTopN,
	})
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	printAnalysis(resp)

	if analyzeCSV != "" {
		writeResultsCSV(analyzeCSV, resp.Results)
	}
}

func writeResultsCSV(path string, results []dto.PairResult) {
	f, err := os.Create(path)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	header := []string{"ticker_a", "ticker_b", "rho", "alpha", "beta", "adf_pvalue", "half_life_days", "sharpe", "ann_return", "ann_vol", "max_drawdown", "hit_rate"}
	if err := cw.Write(header); err != nil {
		log.Fatalf("Failed to write results CSV: %v", err)
	}
	for _, r := range results {
		halfLife := ""
		if r.HalfLifeDays != nil {
			halfLife = strconv.FormatFloat(*r.HalfLifeDays, 'g', -1, 64)
		}
		rec := []string{
			r.TickerA,
			r.TickerB,
			strconv.FormatFloat(r.Rho, 'g', -1, 64),
			strconv.FormatFloat(r.Alpha, 'g', -1, 64),
			strconv.FormatFloat(r.Beta, 'g', -1, 64),
			strconv.FormatFloat(r.ADFPValue, 'g', -1, 64),
			halfLife,
			strconv.FormatFloat(r.Summary.Sharpe, 'g', -1, 64),
			strconv.FormatFloat(r.Summary.AnnReturn, 'g', -1, 64),
			strconv.FormatFloat(r.Summary.AnnVol, 'g', -1, 64),
			strconv.FormatFloat(r.Summary.MaxDrawdown, 'g', -1, 64),
			strconv.FormatFloat(r.Summary.HitRate, 'g', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			log.Fatalf("Failed to write results CSV: %v", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		log.Fatalf("Failed to write results CSV: %v", err)
	}
	fmt.Printf("Results written to %s\n", path)
}

func printAnalysis(resp *dto.AnalyzeResponse) {
	fmt.Printf("Analyzed %s to %s, %d candidates screened\n\n", resp.Start, resp.End, resp.Candidates)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PAIR\tRHO\tBETA\tADF P\tHALF-LIFE\tSHARPE\tANN RET\tMAX DD\tHIT RATE")
	for _, r := range resp.Results {
		halfLife := "-"
		if r.HalfLifeDays != nil {
			halfLife = fmt.Sprintf("%.1fd", *r.HalfLifeDays)
		}
		fmt.Fprintf(w, "%s-%s\t%.3f\t%.3f\t%.4f\t%s\t%.2f\t%.2f%%\t%.2f%%\t%.1f%%\n",
			r.TickerA, r.TickerB, r.Rho, r.Beta, r.ADFPValue, halfLife,
			r.Summary.Sharpe, r.Summary.AnnReturn*100, r.Summary.MaxDrawdown*100, r.Summary.HitRate*100)
	}
	w.Flush()

	if len(resp.Skipped) > 0 {
		fmt.Printf("\nSkipped %d pairs:\n", len(resp.Skipped))
		for _, r := range resp.Skipped {
			fmt.Printf("  %s-%s: %s\n", r.TickerA, r.TickerB, r.SkipReason)
		}
	}
	fmt.Printf("\nBest pair: %s\n", resp.BestPair)
}

// newCLIServices builds the service graph without a database connection.
func newCLIServices(ctx context.Context) (*service.Service, func()) {
	appDep, err := NewAppDependency(ctx, false)
	if err != nil {
		log.Fatalf("Failed to create app dependency: %v", err)
	}
	repo, err := repository.NewRepository(appDep.cfg, appDep.cache, nil, appDep.log)
	if err != nil {
		log.Fatalf("Failed to create repository: %v", err)
	}
	return service.NewService(appDep.cfg, appDep.log, repo), func() {
		_ = appDep.Close()
	}
}
