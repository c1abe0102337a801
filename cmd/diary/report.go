package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hanseolabs/diaryd/internal/i18n"
	"github.com/hanseolabs/diaryd/internal/journal"
	"github.com/hanseolabs/diaryd/internal/report"
)

// reportCmd generates templated reports from saved entries
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate reports from your journal",
}

// reportMonthCmd renders the monthly report
var reportMonthCmd = &cobra.Command{
	Use:   "month [YYYY-MM]",
	Short: "Generate the monthly report",
	Long: `Generate the monthly report for the given month, or the current month
when omitted.

Examples:
  diary report month
  diary report month 2025-03`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReportMonth,
}

// reportLifeCmd renders the autobiography draft
var reportLifeCmd = &cobra.Command{
	Use:   "life",
	Short: "Generate an autobiography draft",
	Long: `Generate an autobiography draft covering the trailing months window, or
an explicit date range when both bounds are given.

Examples:
  diary report life
  diary report life --months 6
  diary report life --start 2025-01-01 --end 2025-06-30`,
	RunE: runReportLife,
}

var (
	lifeMonths int
	lifeStart  string
	lifeEnd    string
)

func init() {
	reportLifeCmd.Flags().IntVar(&lifeMonths, "months", 12, "trailing window in months")
	reportLifeCmd.Flags().StringVar(&lifeStart, "start", "", "range start (YYYY-MM-DD)")
	reportLifeCmd.Flags().StringVar(&lifeEnd, "end", "", "range end (YYYY-MM-DD)")
	reportCmd.AddCommand(reportMonthCmd)
	reportCmd.AddCommand(reportLifeCmd)
}

func runReportMonth(cmd *cobra.Command, args []string) error {
	month := time.Now()
	if len(args) == 1 {
		parsed, err := time.Parse("2006-01", args[0])
		if err != nil {
			return fmt.Errorf("invalid month %q, expected YYYY-MM", args[0])
		}
		month = parsed
	}

	entries, locale, err := loadEntries()
	if err != nil {
		return err
	}

	printReport(report.New().Monthly(entries, month, locale))
	return nil
}

func runReportLife(cmd *cobra.Command, args []string) error {
	opts := report.Options{Months: lifeMonths}
	if lifeStart != "" && lifeEnd != "" {
		start, err := time.Parse("2006-01-02", lifeStart)
		if err != nil {
			return fmt.Errorf("invalid start %q, expected YYYY-MM-DD", lifeStart)
		}
		end, err := time.Parse("2006-01-02", lifeEnd)
		if err != nil {
			return fmt.Errorf("invalid end %q, expected YYYY-MM-DD", lifeEnd)
		}
		opts.Start = &start
		opts.End = &end
	} else if lifeStart != "" || lifeEnd != "" {
		return fmt.Errorf("--start and --end must be given together")
	}

	entries, locale, err := loadEntries()
	if err != nil {
		return err
	}

	printReport(report.New().Autobiography(entries, locale, opts))
	return nil
}

func loadEntries() ([]journal.Entry, i18n.Locale, error) {
	kv, err := openKV()
	if err != nil {
		return nil, "", fmt.Errorf("failed to open data dir %s: %w", dataDir, err)
	}
	locale, err := resolveLocale(kv)
	if err != nil {
		return nil, "", err
	}
	entries, err := journal.NewStore(kv, locale).List()
	if err != nil {
		return nil, "", err
	}
	return entries, locale, nil
}

func printReport(r report.Report) {
	fmt.Println(r.Title)
	fmt.Println(r.Subtitle)
	fmt.Println()
	fmt.Println(r.Body)
}
