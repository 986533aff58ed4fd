// Package search answers free-room queries against a finished index.
package search

import (
	"errors"
	"sort"
	"strconv"

	"github.com/intelligrit/room-index/internal/campus"
	"github.com/intelligrit/room-index/internal/model"
)

// ErrUnbookable is returned for queries whose times lie outside the bookable window.
var ErrUnbookable = errors.New("queried interval is not bookable")

// Query asks for rooms free on Day (a model.DayKeyFormat key) at From, or
// from From until To when HasTo is set. Times are minutes since midnight.
type Query struct {
	Day   string
	From  int
	To    int
	HasTo bool
}

// FreeRoom is one search hit. Capacity and Building are nil when unknown.
type FreeRoom struct {
	Room      string       `json:"room"`
	Capacity  *int         `json:"capacity"`
	Building  *string      `json:"building"`
	Match     model.Span   `json:"match"`
	Available []model.Span `json:"available"`
}

// Search returns the rooms matching q, longest remaining availability first.
// A day missing from the index yields no rooms.
func Search(idx *model.Index, q Query) ([]FreeRoom, error) {
	rooms, ok := idx.Available[q.Day]
	if !ok {
		return []FreeRoom{}, nil
	}

	window := campus.BookingWindow()
	if !bookable(window, q.From) || (q.HasTo && !bookable(window, q.To)) {
		return nil, ErrUnbookable
	}

	result := []FreeRoom{}

	// a day without room entries is free everywhere
	if len(rooms) == 0 {
		for _, id := range sortedIDs(idx.Rooms) {
			result = append(result, freeRoom(idx, id, 0, []model.Span{window}))
		}
	}

	for _, id := range sortedIDs(rooms) {
		spans := rooms[id]
		if i := matchSpan(spans, q); i >= 0 {
			result = append(result, freeRoom(idx, id, i, spans))
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i].Match, result[j].Match
		if a.End() != b.End() {
			return a.End() > b.End()
		}
		return a.Start() < b.Start()
	})

	return result, nil
}

func bookable(window model.Span, minute int) bool {
	return minute >= window.Start() && minute <= window.End()
}

func matchSpan(spans []model.Span, q Query) int {
	for i, s := range spans {
		if q.HasTo {
			if q.From >= s.Start() && q.To <= s.End() {
				return i
			}
		} else if q.From >= s.Start() && q.From < s.End() {
			return i
		}
	}
	return -1
}

func freeRoom(idx *model.Index, id, match int, spans []model.Span) FreeRoom {
	room, ok := idx.Rooms[id]
	if !ok {
		room = model.Room{Name: strconv.Itoa(id), Building: model.Absent, Capacity: model.Absent}
	}

	fr := FreeRoom{
		Room:      room.Name,
		Match:     spans[match],
		Available: spans,
	}
	if room.Capacity != model.Absent {
		c := room.Capacity
		fr.Capacity = &c
	}
	if b, ok := idx.Buildings[room.Building]; ok && room.Building != model.Absent {
		name := b.Name
		fr.Building = &name
	}
	return fr
}

func sortedIDs[V any](m map[int]V) []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
