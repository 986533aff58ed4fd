package model

import "time"

// Absent marks a missing building reference or capacity in the index.
const Absent = -1

// DayKeyFormat is the layout of the day keys in Index.Available.
const DayKeyFormat = "2006-01-02"

// Building is a scraped campus building. The scraped records below only live
// during a run and are never serialized.
type Building struct {
	Name string
	URL  string
}

// CatalogueRoom is a bookable room listed by the course catalogue search form.
type CatalogueRoom struct {
	Name        string
	CatalogueID string
}

// DirectoryRoom is a room listed on a building page of the campus directory.
// Capacity and BuildingID are Absent when unknown.
type DirectoryRoom struct {
	Name       string
	Capacity   int
	BuildingID int
}

// Course identifies one catalogue entry. Two courses are equal iff all three ids are equal.
type Course struct {
	ClassID   string
	GroupID   string
	DetailsID string
}

// Booking is one scheduled reservation of a room. From and To are minutes since midnight.
type Booking struct {
	RoomName string
	Day      time.Time
	From     int
	To       int
}

// Span is a closed-open interval [Span[0], Span[1]) of minutes since midnight.
type Span [2]int

// Start returns the inclusive lower bound.
func (s Span) Start() int { return s[0] }

// End returns the exclusive upper bound.
func (s Span) End() int { return s[1] }

// Minutes returns the length of the span.
func (s Span) Minutes() int { return s[1] - s[0] }

// Room is a merged room record. Building and Capacity are Absent when unknown.
type Room struct {
	Name     string `json:"name"`
	Building int    `json:"building"`
	Capacity int    `json:"capacity"`
}

// BuildingEntry is a building as stored in the index.
type BuildingEntry struct {
	Name string `json:"name"`
}

// Range is the inclusive span of days covered by an index, as RFC 3339 timestamps.
type Range struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Availability maps day key -> room id -> spans.
type Availability map[string]map[int][]Span

// Index is the artifact produced by a scrape run.
type Index struct {
	Version   string                `json:"version"`
	Range     Range                 `json:"range"`
	Buildings map[int]BuildingEntry `json:"buildings"`
	Rooms     map[int]Room          `json:"rooms"`
	Available Availability          `json:"available"`
}
