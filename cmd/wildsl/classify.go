package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"wildsl/internal/config"
	"wildsl/internal/model"
	"wildsl/internal/schedule"
)

func newClassifyCmd(getConf func() *config.Config) *cobra.Command {
	var (
		at       string
		category string
	)
	cmd := &cobra.Command{
		Use:       "classify [events|projects]",
		Short:     "Print the upcoming and past listings as the site would show them",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"events", "projects"},
		RunE: func(cmd *cobra.Command, args []string) error {
			conf := getConf()
			kind := "events"
			if len(args) == 1 {
				kind = args[0]
			}

			loader, classifier, err := openContent(conf)
			if err != nil {
				return err
			}

			var ref time.Time
			if at != "" {
				ref, err = classifier.ParseDate(at)
				if err != nil {
					return fmt.Errorf("--at: %w", err)
				}
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			var entries []model.Entry
			switch kind {
			case "projects":
				classifier = classifier.WithPolicy(conf.ProjectsPolicy())
				entries, _ = loader.Projects(ctx)
			default:
				classifier = classifier.WithPolicy(conf.EventsPolicy())
				entries, _ = loader.Events(ctx)
			}
			return printListing(cmd.OutOrStdout(), classifier, entries, ref, category)
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "Reference date (YYYY-MM-DD); defaults to today")
	cmd.Flags().StringVar(&category, "category", "", "Only show entries in this category")
	return cmd
}

func printListing(w io.Writer, c *schedule.Classifier, entries []model.Entry, ref time.Time, category string) error {
	if ref.IsZero() {
		ref = c.Now()
	}
	part := c.Classify(entries, ref)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "reference\t%s (%s)\n", c.Midnight(ref).Format(time.DateOnly), c.Location())
	fmt.Fprintf(tw, "categories\t%s\n", strings.Join(schedule.Categories(entries), ", "))

	sections := []struct {
		name    string
		entries []model.Entry
		dir     schedule.Direction
	}{
		{"UPCOMING", schedule.FilterCategory(part.Upcoming, category), c.Policy().Upcoming},
		{"PAST", schedule.FilterCategory(part.Past, category), c.Policy().Past},
	}
	for _, sec := range sections {
		fmt.Fprintf(tw, "\n%s (%d, %s)\n", sec.name, len(sec.entries), sec.dir)
		for _, e := range sec.entries {
			anchor := "-"
			if a, ok := c.Anchor(e); ok {
				anchor = a.Format(time.DateOnly)
			}
			mark := ""
			if c.IsToday(e, ref) {
				mark = "today"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", anchor, e.ID, e.Title, e.Category, mark)
		}
	}
	return tw.Flush()
}
