package scraper

import (
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/intelligrit/room-index/internal/campus"
	"github.com/intelligrit/room-index/internal/canon"
	"github.com/intelligrit/room-index/internal/model"
)

// bookingDateLayout is the DD.MM.YY date format of the course details page.
const bookingDateLayout = "02.01.06"

var timeRangeRe = regexp.MustCompile(`^(\d{1,2}:\d{2})\s*[–-]\s*(\d{1,2}:\d{2})$`)

// ParseBookings extracts the room bookings from a course details page.
// Only rows with four cells are bookings; others are col-spanning notes.
// Dates are interpreted in loc.
func ParseBookings(doc *goquery.Document, loc *time.Location) ([]model.Booking, error) {
	var (
		bookings []model.Booking
		err      error
	)

	rows := doc.Find("table.subinfo > tbody > tr table > tbody").ChildrenFiltered("tr")
	rows.EachWithBreak(func(i int, tr *goquery.Selection) bool {
		if i == 0 {
			return true // header
		}
		tds := tr.ChildrenFiltered("td")
		if tds.Length() != 4 {
			return true
		}

		var b model.Booking
		b, err = parseBookingRow(
			strings.TrimSpace(tds.Eq(1).Text()),
			strings.TrimSpace(tds.Eq(2).Text()),
			tds.Eq(3).Text(),
			loc,
		)
		if err != nil {
			return false
		}
		bookings = append(bookings, b)
		return true
	})
	if err != nil {
		return nil, err
	}

	return bookings, nil
}

func parseBookingRow(date, times, room string, loc *time.Location) (model.Booking, error) {
	day, err := time.ParseInLocation(bookingDateLayout, date, loc)
	if err != nil {
		return model.Booking{}, extractionErrorf("bookings", "invalid date %q", date)
	}

	m := timeRangeRe.FindStringSubmatch(times)
	if m == nil {
		return model.Booking{}, extractionErrorf("bookings", "invalid time range %q", times)
	}
	from, err := campus.ParseClock(m[1])
	if err != nil {
		return model.Booking{}, extractionErrorf("bookings", "%v", err)
	}
	to, err := campus.ParseClock(m[2])
	if err != nil {
		return model.Booking{}, extractionErrorf("bookings", "%v", err)
	}

	return model.Booking{
		RoomName: canon.CleanName(room),
		Day:      day,
		From:     from,
		To:       to,
	}, nil
}
