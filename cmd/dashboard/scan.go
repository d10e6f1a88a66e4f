package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"RSIDashboard/internal/config"
	"RSIDashboard/internal/model"
	"RSIDashboard/internal/notifier"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7C3AED"))

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#3B82F6")).
		Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	buyStyle    = cellStyle.Foreground(lipgloss.Color("#10B981")).Bold(true)
	reduceStyle = cellStyle.Foreground(lipgloss.Color("#EF4444")).Bold(true)
	dcaStyle    = cellStyle.Foreground(lipgloss.Color("#F59E0B"))
	errorStyle  = cellStyle.Foreground(lipgloss.Color("#6B7280")).Italic(true)
)

var scanHeaders = []string{
	"Coin", "Current Price", "Spot Macro Trend",
	model.SpotMacro.Column(), model.SwingMacro.Column(), model.Micro.Column(),
	"Spot Entry", "Position Status",
}

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run the pipeline once and print the signal table",
		Long: `Run the full pipeline once and print the results.
Example: dashboard scan --coins BTC,ETH,SOL`,
		RunE: func(cmd *cobra.Command, args []string) error {
			coins, _ := cmd.Flags().GetString("coins")
			return runScan(cmd, coins)
		},
	}
	cmd.Flags().String("coins", "", "Comma separated coins (configured list if empty)")
	return cmd
}

func runScan(cmd *cobra.Command, coinList string) error {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	coins := cfg.Coins
	if coinList != "" {
		coins = config.SplitList(coinList)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipeline, err := newPipeline(cfg, log, nil)
	if err != nil {
		return err
	}
	res := pipeline.Run(ctx, coins)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render("📊 Crypto RSI Dashboard"))
	fmt.Fprintln(out, renderTable(res.Records))
	sentiment := "Unavailable"
	if res.Sentiment.Known() {
		sentiment = fmt.Sprintf("%d (%s)", *res.Sentiment.Value, res.Sentiment.Classification)
	}
	fmt.Fprintf(out, "Fear & Greed: %s | %d ok, %d errors in %s\n",
		sentiment, res.Summary.Succeeded, res.Summary.Failed, res.Summary.Duration.Round(time.Millisecond))
	return nil
}

func renderTable(records []model.Record) string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		if !r.OK() {
			rows = append(rows, []string{r.Failure.Coin, r.Failure.Error, "", "", "", "", "", ""})
			continue
		}
		s := r.Signal
		rows = append(rows, []string{
			s.Coin,
			s.CurrentPrice,
			string(s.Trend),
			notifier.FormatRSI(s.SpotMacroRSI),
			notifier.FormatRSI(s.SwingMacroRSI),
			notifier.FormatRSI(s.MicroRSI),
			string(s.Entry),
			string(s.Position),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6"))).
		Headers(scanHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow || row < 0 || row >= len(records) {
				return headerStyle
			}
			r := records[row]
			if !r.OK() {
				return errorStyle
			}
			switch {
			case col == 6 && r.Signal.Entry == model.EntryBuy:
				return buyStyle
			case col == 7 && r.Signal.Position == model.PositionReduce:
				return reduceStyle
			case col == 7 && r.Signal.Position == model.PositionDCA:
				return dcaStyle
			}
			return cellStyle
		})
	return t.Render()
}
