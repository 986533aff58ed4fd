package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/intelligrit/room-index/internal/aggregator"
	"github.com/intelligrit/room-index/internal/scraper"
	"github.com/intelligrit/room-index/internal/store"
	"github.com/spf13/cobra"
)

var (
	scrapeQuick  bool
	scrapeOutput string
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape both sites and write a fresh index (rate-limited)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("output") {
			scrapeOutput = indexPath
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		runID := uuid.NewString()
		client := scraper.NewClient(scraper.Options{
			UserAgent:  cfg.Scrape.UserAgent,
			Timeout:    cfg.Scrape.RequestTimeout(),
			MaxRetries: cfg.Scrape.MaxRetries,
			Delay:      cfg.Scrape.RequestDelay(),
			Logger:     logger.With("run", runID),
		})

		asm := &aggregator.Assembler{
			Fetcher:      client,
			CatalogueURL: cfg.Scrape.CatalogueURL,
			DirectoryURL: cfg.Scrape.DirectoryURL,
			Extras: aggregator.Extras{
				IgnoreRooms: cfg.Extra.IgnoreRooms,
				Buildings:   cfg.Extra.Buildings,
				Capacities:  cfg.Extra.Capacities,
			},
			Quick:  scrapeQuick,
			RunID:  runID,
			Logger: logger,
		}

		if scrapeQuick {
			fmt.Println("Quick mode: only a few buildings, rooms and courses are scraped.")
		}
		fmt.Printf("Scraping (run %s)...\n", runID)

		stats, err := runScrape(ctx, asm, scrapeOutput)
		printStats(stats, client.Requests())
		if err != nil {
			return err
		}

		fmt.Printf("Index written to %s\n", scrapeOutput)
		return nil
	},
}

// runScrape assembles a fresh index and writes it to path. Nothing is written
// when the run fails, so an existing index at path is kept.
func runScrape(ctx context.Context, asm *aggregator.Assembler, path string) (*aggregator.Stats, error) {
	idx, stats, err := asm.Assemble(ctx)
	if err != nil {
		return stats, fmt.Errorf("scraping: %w", err)
	}

	if err := store.WriteIndexFile(path, idx); err != nil {
		return stats, fmt.Errorf("saving index: %w", err)
	}
	return stats, nil
}

func printStats(s *aggregator.Stats, httpRequests int) {
	fmt.Printf("\nStatistics\n")
	fmt.Printf("==========\n")
	fmt.Printf("Requests:          %d (%d HTTP attempts)\n", s.Requests, httpRequests)
	fmt.Printf("Buildings:         %d (+%d extra)\n", s.Buildings, s.ExtraBuildings)
	fmt.Printf("Directory rooms:   %d (+%d extra)\n", s.DirectoryRooms, s.ExtraRooms)
	fmt.Printf("Catalogue rooms:   %d (%d incomplete)\n", s.CatalogueRooms, s.IncompleteRooms)
	fmt.Printf("Courses:           %d (%d duplicates)\n", s.Courses, s.DuplicateCourses)
	fmt.Printf("Bookings:          %d (%d ignored)\n", s.Bookings, s.IgnoredBookings)
	fmt.Printf("Unknown rooms:     %d\n", len(s.UnknownRooms))
	for _, name := range s.UnknownRooms {
		fmt.Printf("  %s\n", name)
	}
	fmt.Printf("Days:              %d (%d without bookings)\n", s.Days, s.FreeDays)
	if s.Range != nil {
		fmt.Printf("Range:             %s .. %s\n", s.Range.Start, s.Range.End)
	}
}

func init() {
	scrapeCmd.Flags().BoolVar(&scrapeQuick, "quick", false, "Scrape only a small sample (for testing)")
	scrapeCmd.Flags().StringVarP(&scrapeOutput, "output", "o", "", "Where to write the index (defaults to --index)")
	rootCmd.AddCommand(scrapeCmd)
}
