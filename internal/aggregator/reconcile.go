package aggregator

import (
	"time"

	"github.com/intelligrit/room-index/internal/campus"
	"github.com/intelligrit/room-index/internal/model"
	"github.com/intelligrit/room-index/internal/splittree"
)

// Reconcile replaces the booked spans of every room on every day from first
// to last (inclusive) with its free spans within the booking window.
// Rooms without bookings become free for the whole window. Free spans that
// are exactly one of the well-known breaks are dropped, as they are too short
// to be booked on their own.
func Reconcile(avail model.Availability, first, last time.Time, rooms int) {
	window := campus.BookingWindow()

	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		key := day.Format(model.DayKeyFormat)
		cell := avail[key]
		if cell == nil {
			cell = make(map[int][]model.Span, rooms)
			avail[key] = cell
		}

		for id := 0; id < rooms; id++ {
			free := splittree.Split(window, cell[id])
			kept := free[:0]
			for _, s := range free {
				if !campus.IsBreak(s) {
					kept = append(kept, s)
				}
			}
			cell[id] = kept
		}
	}
}
