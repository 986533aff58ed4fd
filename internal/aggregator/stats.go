package aggregator

import "github.com/intelligrit/room-index/internal/model"

// Stats are the counters of one scrape run. They describe the run and do not
// influence the produced index.
type Stats struct {
	RunID            string       `json:"run_id"`
	Requests         int          `json:"requests"`
	Buildings        int          `json:"buildings"`
	ExtraBuildings   int          `json:"extra_buildings"`
	ExtraRooms       int          `json:"extra_rooms"`
	DirectoryRooms   int          `json:"directory_rooms"`
	CatalogueRooms   int          `json:"catalogue_rooms"`
	IncompleteRooms  int          `json:"incomplete_rooms"`
	Courses          int          `json:"courses"`
	DuplicateCourses int          `json:"duplicate_courses"`
	Bookings         int          `json:"bookings"`
	IgnoredBookings  int          `json:"ignored_bookings"`
	UnknownRooms     []string     `json:"unknown_rooms"`
	Days             int          `json:"days"`
	FreeDays         int          `json:"free_days"`
	Range            *model.Range `json:"range,omitempty"`
}
