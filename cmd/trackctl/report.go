package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/zelrazel/tracktechfit-sub001/internal/db"
	"github.com/zelrazel/tracktechfit-sub001/internal/locale"
	"github.com/zelrazel/tracktechfit-sub001/internal/service"
	"github.com/zelrazel/tracktechfit-sub001/internal/workout"
)

type reportOptions struct {
	period   string
	month    string
	week     string
	language string
	asJSON   bool
}

func newReportCmd(opts *rootOptions) *cobra.Command {
	ro := &reportOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the workout history for a period",
		Example: `  trackctl report --period monthly --month 2025-04
  trackctl report --period weekly --week 2025-03-30 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.OutOrStdout(), opts, ro)
		},
	}

	cmd.Flags().StringVar(&ro.period, "period", string(workout.PeriodAll), "all, monthly or weekly")
	cmd.Flags().StringVar(&ro.month, "month", "", "month to report (2006-01)")
	cmd.Flags().StringVar(&ro.week, "week", "", "week start date (2006-01-02, a Sunday)")
	cmd.Flags().StringVar(&ro.language, "lang", locale.LanguageEnglish, "label language (en, zh)")
	cmd.Flags().BoolVar(&ro.asJSON, "json", false, "print the overview as JSON")
	return cmd
}

func runReport(out io.Writer, opts *rootOptions, ro *reportOptions) error {
	period, err := workout.ParsePeriod(ro.period)
	if err != nil {
		return err
	}

	cfg := opts.appConfig()
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	sel, err := workout.ParseSelection(ro.month, ro.week, loc)
	if err != nil {
		return err
	}

	if err := db.Init(cfg.DatabasePath); err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if sqlDB, err := db.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	catalog, err := workout.LoadCatalogFile(cfg.CatalogPath)
	if err != nil {
		return err
	}

	logger := opts.logger()
	workouts := service.NewWorkoutService(db.DB, catalog, logger)
	history := service.NewHistoryService(workouts, logger).WithLocation(loc)

	overview, err := history.Overview(service.HistoryQuery{Period: period, Selection: sel})
	if err != nil {
		return err
	}

	if ro.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(overview)
	}
	return printOverview(out, overview, ro.language)
}

func printOverview(out io.Writer, overview *service.HistoryOverview, language string) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintf(w, "Period:\t%s\n", overview.Period)
	if overview.Selection.HasMonth() {
		fmt.Fprintf(w, "Month:\t%s\n", locale.MonthLabel(language, overview.Selection.Year, overview.Selection.Month))
	}
	if overview.Selection.HasWeek() {
		fmt.Fprintf(w, "Week:\t%s\n", locale.WeekLabel(language, overview.Selection.WeekStart, overview.Selection.WeekEnd()))
	}
	fmt.Fprintf(w, "Completed:\t%d of %d (%d pending, %d orphaned)\n",
		overview.Summary.Completed, overview.Summary.Total, overview.Summary.Pending, overview.Summary.Orphaned)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "DATE\tCATEGORY\tTARGET\tEXERCISE\tSETS\tREPS\tWEIGHT")
	for _, entry := range overview.Entries {
		date := ""
		if d := entry.EffectiveDate(); !d.IsZero() {
			date = d.Format(workout.WeekKeyLayout)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\n",
			date, entry.Category, entry.Target, entry.ExerciseName, entry.Sets, entry.Reps, entry.Weight)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Categories:\t%s\n", formatBuckets(overview.Categories, language))
	fmt.Fprintf(w, "Targets:\t%s\n", formatBuckets(overview.Targets, language))
	return w.Flush()
}

func formatBuckets(buckets []workout.Bucket, language string) string {
	parts := make([]string, 0, len(buckets))
	for _, bucket := range buckets {
		if bucket.Placeholder {
			parts = append(parts, locale.BucketLabel(language, bucket.Label))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%d", locale.BucketLabel(language, bucket.Label), bucket.Count))
	}
	return strings.Join(parts, ", ")
}
