package cmd

import (
	"fmt"

	"github.com/intelligrit/room-index/internal/campus"
	"github.com/intelligrit/room-index/internal/store"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Summarise an index file",
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := readIndex()
		if err != nil {
			return err
		}

		s, err := store.New()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.LoadIndex(idx); err != nil {
			return fmt.Errorf("loading index: %w", err)
		}

		days, err := s.DaySummaries()
		if err != nil {
			return fmt.Errorf("summarising days: %w", err)
		}
		buildings, err := s.BuildingSummaries()
		if err != nil {
			return fmt.Errorf("summarising buildings: %w", err)
		}

		fmt.Printf("Index Status\n")
		fmt.Printf("============\n")
		fmt.Printf("Built:     %s\n", idx.Version)
		fmt.Printf("Range:     %s .. %s\n", idx.Range.Start, idx.Range.End)
		fmt.Printf("Buildings: %d\n", len(idx.Buildings))
		fmt.Printf("Rooms:     %d\n", len(idx.Rooms))
		fmt.Printf("Days:      %d\n", len(days))

		full := len(idx.Rooms) * campus.BookingWindow().Minutes()
		if len(days) > 0 {
			fmt.Printf("\nPer-Day Availability\n")
			fmt.Printf("--------------------\n")
			for _, d := range days {
				fmt.Printf("  %s  free rooms: %4d  free minutes: %7d / %d\n",
					d.Day, d.FreeRooms, d.FreeMinutes, full)
			}
		}

		if len(buildings) > 0 {
			fmt.Printf("\nPer-Building Breakdown\n")
			fmt.Printf("----------------------\n")
			for _, b := range buildings {
				name := b.Building
				if name == "" {
					name = "(unknown)"
				}
				fmt.Printf("  %-40s  rooms: %3d  seats: %5d\n", name, b.Rooms, b.Seats)
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
