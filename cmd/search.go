package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/intelligrit/room-index/internal/campus"
	"github.com/intelligrit/room-index/internal/model"
	"github.com/intelligrit/room-index/internal/search"
	"github.com/spf13/cobra"
)

var (
	searchDay  string
	searchFrom string
	searchTo   string
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "List rooms that are free at a given time",
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := readIndex()
		if err != nil {
			return err
		}

		if searchDay == "" {
			searchDay = time.Now().Format(model.DayKeyFormat)
		}
		if _, err := time.Parse(model.DayKeyFormat, searchDay); err != nil {
			return fmt.Errorf("invalid day %q, expected YYYY-MM-DD", searchDay)
		}

		from, err := campus.ParseClock(searchFrom)
		if err != nil {
			return err
		}
		q := search.Query{Day: searchDay, From: from}
		if searchTo != "" {
			if q.To, err = campus.ParseClock(searchTo); err != nil {
				return err
			}
			q.HasTo = true
		}

		rooms, err := search.Search(idx, q)
		if err != nil {
			return err
		}

		if len(rooms) == 0 {
			fmt.Println("No free rooms found.")
			return nil
		}

		for _, r := range rooms {
			info := []string{}
			if r.Building != nil {
				info = append(info, *r.Building)
			}
			if r.Capacity != nil {
				info = append(info, fmt.Sprintf("%d seats", *r.Capacity))
			}
			fmt.Printf("%-20s %s-%s  %s\n", r.Room,
				campus.FormatClock(r.Match.Start()), campus.FormatClock(r.Match.End()),
				strings.Join(info, ", "))
			logger.Debug("room availability", "room", r.Room, "spans", formatSpans(r.Available))
		}

		return nil
	},
}

func formatSpans(spans []model.Span) string {
	parts := make([]string, len(spans))
	for i, s := range spans {
		parts[i] = campus.FormatClock(s.Start()) + "-" + campus.FormatClock(s.End())
	}
	return strings.Join(parts, " ")
}

func init() {
	searchCmd.Flags().StringVar(&searchDay, "day", "", "Day to search (YYYY-MM-DD, default today)")
	searchCmd.Flags().StringVar(&searchFrom, "from", "", "Start time (HH:MM)")
	searchCmd.Flags().StringVar(&searchTo, "to", "", "Optional end time (HH:MM); rooms must be free until then")
	_ = searchCmd.MarkFlagRequired("from")
	rootCmd.AddCommand(searchCmd)
}
