package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"golang-statarb/internal/dto"

	"github.com/spf13/cobra"
)

var (
	wfTickerA   string
	wfTickerB   string
	wfStart     string
	wfEnd       string
	wfTrainDays int
	wfTestDays  int
	wfCSV       string
)

var walkforwardCmd = &cobra.Command{
	Use:   "walkforward",
	Short: "Validate one pair on rolling out-of-sample segments",
	Run:   runWalkForwardCmd,
}

func init() {
	walkforwardCmd.Flags().StringVar(&wfTickerA, "ticker-a", "", "first leg ticker")
	walkforwardCmd.Flags().StringVar(&wfTickerB, "ticker-b", "", "second leg ticker")
	walkforwardCmd.Flags().StringVar(&wfStart, "start", "", "start date YYYY-MM-DD")
	walkforwardCmd.Flags().StringVar(&wfEnd, "end", "", "end date YYYY-MM-DD")
	walkforwardCmd.Flags().IntVar(&wfTrainDays, "train-days", 0, "train window length (defaults to config)")
	walkforwardCmd.Flags().IntVar(&wfTestDays, "test-days", 0, "test window length (defaults to config)")
	walkforwardCmd.Flags().StringVar(&wfCSV, "csv", "", "write the concatenated ledger to this CSV file")
	_ = walkforwardCmd.MarkFlagRequired("ticker-a")
	_ = walkforwardCmd.MarkFlagRequired("ticker-b")
}

func runWalkForwardCmd(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	services, cleanup := newCLIServices(ctx)
	defer cleanup()

	resp, err := services.BacktestService.RunWalkForward(ctx, dto.WalkForwardRequest{
		TickerA:   wfTickerA,
		TickerB:   wfTickerB,
		Start:     wfStart,
		End:       wfEnd,
		TrainDays: wfTrainDays,
		TestDays:  wfTestDays,
	})
	if err != nil {
		log.Fatalf("Walk-forward failed: %v", err)
	}

	fmt.Printf("Pair %s-%s, %d out-of-sample days across %d segments\n",
		resp.TickerA, resp.TickerB, resp.Days, len(resp.Segments))
	printSummary(resp.Summary)
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SEGMENT\tALPHA\tBETA\tADF P\tSTATIONARY\tTEST DAYS")
	for _, seg := range resp.Segments {
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.4f\t%v\t%d\n",
			seg.Label, seg.Alpha, seg.Beta, seg.PValue, seg.Stationary, seg.TestDays)
	}
	w.Flush()

	if wfCSV != "" {
		writeLedgerCSV(wfCSV, resp.Ledger)
	}
}
