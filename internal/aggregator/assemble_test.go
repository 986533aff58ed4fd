package aggregator

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/intelligrit/room-index/internal/model"
	"github.com/intelligrit/room-index/internal/scraper"
)

const (
	testDirectory = "http://directory.test"
	testCatalogue = "http://catalogue.test"
)

// fakeFetcher serves canned pages by URL.
type fakeFetcher struct {
	pages map[string]string
	calls []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (*goquery.Document, error) {
	f.calls = append(f.calls, url)
	html, ok := f.pages[url]
	if !ok {
		return nil, &scraper.TransientError{URL: url, StatusCode: 404}
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

func buildingsPage(entries ...[2]string) string {
	var b strings.Builder
	b.WriteString("<html><body><ul>")
	for _, e := range entries {
		fmt.Fprintf(&b, `<li class="stripe_element"><div><h3>%s</h3><a class="stripe_btn" href="%s">More</a></div></li>`, e[0], e[1])
	}
	b.WriteString("</ul></body></html>")
	return b.String()
}

func buildingPage(rows ...[3]string) string {
	var b strings.Builder
	b.WriteString(`<html><body><div class="content_container"><div class="text"><div class="body"><table class="contenttable">`)
	b.WriteString("<tr><th>Room</th><th>Number</th><th>Seats</th></tr>")
	for _, r := range rows {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td>%s</td></tr>", r[0], r[1], r[2])
	}
	b.WriteString("</table></div></div></div></body></html>")
	return b.String()
}

func searchPage(rooms ...string) string {
	var b strings.Builder
	b.WriteString(`<html><body><select id="room"><option value="all">All</option>`)
	for _, r := range rooms {
		fmt.Fprintf(&b, `<option value="%s">%s</option>`, r, r)
	}
	b.WriteString("</select></body></html>")
	return b.String()
}

func resultsPage(courses ...model.Course) string {
	if len(courses) == 0 {
		return "<html><body><p>No courses found.</p></body></html>"
	}
	var b strings.Builder
	b.WriteString(`<html><body><div class="contentcell"><table><tbody><tr><th>Course</th></tr>`)
	for _, c := range courses {
		fmt.Fprintf(&b, `<tr><td><a href="details.action?courseclassid=%s&amp;coursegroupid=%s&amp;showdetails=%s">x</a></td></tr>`,
			c.ClassID, c.GroupID, c.DetailsID)
	}
	b.WriteString("</tbody></table></div></body></html>")
	return b.String()
}

func detailsPage(rows ...[3]string) string {
	var b strings.Builder
	b.WriteString(`<html><body><table class="subinfo"><tbody><tr><td><table><tbody>`)
	b.WriteString("<tr><th>Day</th><th>Date</th><th>Time</th><th>Room</th></tr>")
	for _, r := range rows {
		fmt.Fprintf(&b, "<tr><td>Mo</td><td>%s</td><td>%s</td><td>%s</td></tr>", r[0], r[1], r[2])
	}
	b.WriteString("</tbody></table></td></tr></tbody></table></body></html>")
	return b.String()
}

var (
	courseA = model.Course{ClassID: "1", GroupID: "10", DetailsID: "100"}
	courseB = model.Course{ClassID: "2", GroupID: "20", DetailsID: "200"}
	courseC = model.Course{ClassID: "3", GroupID: "30", DetailsID: "300"}
)

func testSite() map[string]string {
	sp1 := "/en/campus/the-jku-campus/buildings/science-park-1/"
	kepler := "/en/campus/the-jku-campus/buildings/kepler/"

	site := make(map[string]string)
	site[scraper.BuildingsURL(testDirectory)] = buildingsPage(
		[2]string{"Science Park 1", sp1},
		[2]string{"Kepler Building", kepler},
	)
	site[scraper.BuildingURL(testDirectory, sp1)] = buildingPage(
		[3]string{"Lecture Hall 1", "HS 1 (SP1)", "650"},
		[3]string{"Seminar room", "S2 Z74", "40"},
	)
	site[scraper.BuildingURL(testDirectory, kepler)] = buildingPage(
		[3]string{"Seminar room", "K 269D", "30"},
	)

	site[scraper.SearchPageURL(testCatalogue)] = searchPage("HS 1", "S2 Z74", "K 269D", "MT 128")
	site[scraper.SearchResultsURL(testCatalogue, "HS 1")] = resultsPage(courseA, courseB)
	site[scraper.SearchResultsURL(testCatalogue, "S2 Z74")] = resultsPage(courseA)
	site[scraper.SearchResultsURL(testCatalogue, "K 269D")] = resultsPage()
	site[scraper.SearchResultsURL(testCatalogue, "MT 128")] = resultsPage(courseC)

	site[scraper.CourseDetailsURL(testCatalogue, courseA)] = detailsPage(
		[3]string{"05.10.20", "10:15 – 11:45", "HS 1"},
		[3]string{"05.10.20", "08:30 – 10:00", "S2  Z74"},
	)
	site[scraper.CourseDetailsURL(testCatalogue, courseB)] = detailsPage(
		[3]string{"07.10.20", "12:00 – 13:30", "hs1"},
		[3]string{"07.10.20", "12:00 – 13:30", "Unknown Room 9"},
		[3]string{"07.10.20", "12:00 – 13:30", "Online Meeting"},
	)
	site[scraper.CourseDetailsURL(testCatalogue, courseC)] = detailsPage()
	return site
}

func testAssembler(pages map[string]string) (*Assembler, *fakeFetcher) {
	f := &fakeFetcher{pages: pages}
	return &Assembler{
		Fetcher:      f,
		CatalogueURL: testCatalogue,
		DirectoryURL: testDirectory,
		Extras:       Extras{IgnoreRooms: []string{"online"}},
		RunID:        "test-run",
		Location:     time.UTC,
		Now:          func() time.Time { return time.Date(2020, 10, 1, 12, 0, 0, 0, time.UTC) },
	}, f
}

func TestAssemble(t *testing.T) {
	a, f := testAssembler(testSite())

	idx, stats, err := a.Assemble(context.Background())
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	if idx.Version != "2020-10-01T12:00:00Z" {
		t.Errorf("unexpected version %q", idx.Version)
	}
	if idx.Range != (model.Range{Start: "2020-10-05T00:00:00Z", End: "2020-10-07T23:59:59Z"}) {
		t.Errorf("unexpected range %+v", idx.Range)
	}

	wantBuildings := map[int]model.BuildingEntry{0: {Name: "Science Park 1"}, 1: {Name: "Kepler Building"}}
	if !reflect.DeepEqual(idx.Buildings, wantBuildings) {
		t.Errorf("unexpected buildings %+v", idx.Buildings)
	}

	wantRooms := map[int]model.Room{
		0: {Name: "HS 1", Building: 0, Capacity: 650},
		1: {Name: "S2 Z74", Building: 0, Capacity: 40},
		2: {Name: "K 269D", Building: 1, Capacity: 30},
		3: {Name: "MT 128", Building: model.Absent, Capacity: model.Absent},
	}
	if !reflect.DeepEqual(idx.Rooms, wantRooms) {
		t.Errorf("unexpected rooms %+v", idx.Rooms)
	}

	full := []model.Span{{510, 1365}}
	wantAvail := model.Availability{
		"2020-10-05": {
			0: {{510, 615}, {705, 1365}},
			1: {{600, 1365}},
			2: full,
			3: full,
		},
		"2020-10-06": {0: full, 1: full, 2: full, 3: full},
		"2020-10-07": {
			0: {{510, 720}, {810, 1365}},
			1: full,
			2: full,
			3: full,
		},
	}
	if !reflect.DeepEqual(idx.Available, wantAvail) {
		t.Errorf("unexpected availability:\n got %v\nwant %v", idx.Available, wantAvail)
	}

	if stats.RunID != "test-run" {
		t.Errorf("expected run id to be kept, got %q", stats.RunID)
	}
	if stats.Requests != len(f.calls) {
		t.Errorf("expected %d requests, got %d", len(f.calls), stats.Requests)
	}
	if stats.Buildings != 2 || stats.DirectoryRooms != 3 || stats.CatalogueRooms != 4 {
		t.Errorf("unexpected scrape counts %+v", stats)
	}
	if stats.IncompleteRooms != 1 {
		t.Errorf("expected 1 incomplete room, got %d", stats.IncompleteRooms)
	}
	if stats.Courses != 3 || stats.DuplicateCourses != 1 {
		t.Errorf("expected 3 unique and 1 duplicate course, got %d and %d", stats.Courses, stats.DuplicateCourses)
	}
	if stats.Bookings != 5 || stats.IgnoredBookings != 2 {
		t.Errorf("expected 5 bookings with 2 ignored, got %d and %d", stats.Bookings, stats.IgnoredBookings)
	}
	if !reflect.DeepEqual(stats.UnknownRooms, []string{"Unknown Room 9"}) {
		t.Errorf("unexpected unknown rooms %v", stats.UnknownRooms)
	}
	if stats.Days != 2 || stats.FreeDays != 1 {
		t.Errorf("expected 2 days and 1 free day, got %d and %d", stats.Days, stats.FreeDays)
	}
}

func TestAssemble_UnknownRoomNotIndexed(t *testing.T) {
	a, _ := testAssembler(testSite())

	idx, _, err := a.Assemble(context.Background())
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	for _, r := range idx.Rooms {
		if strings.Contains(r.Name, "Unknown") {
			t.Fatalf("unknown room %q ended up in the index", r.Name)
		}
	}
	if len(idx.Available["2020-10-07"]) != len(idx.Rooms) {
		t.Errorf("expected one entry per known room, got %d", len(idx.Available["2020-10-07"]))
	}
}

func TestAssemble_Extras(t *testing.T) {
	a, _ := testAssembler(testSite())
	a.Extras.Buildings = map[string][]string{
		"Management Tower": {"MT  128"},
		"Kepler Building":  {"S2 Z74"},
	}
	a.Extras.Capacities = map[string]int{"mt 128": 120, "Lab 7": 12}

	idx, stats, err := a.Assemble(context.Background())
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	if idx.Buildings[2].Name != "Management Tower" {
		t.Errorf("expected extra building with id 2, got %+v", idx.Buildings)
	}
	if got := idx.Rooms[3]; got.Building != 2 || got.Capacity != 120 {
		t.Errorf("expected MT 128 in building 2 with 120 seats, got %+v", got)
	}
	if got := idx.Rooms[1]; got.Building != 1 || got.Capacity != 40 {
		t.Errorf("expected curated building for S2 Z74, got %+v", got)
	}
	if stats.ExtraBuildings != 1 || stats.ExtraRooms != 2 {
		t.Errorf("expected 1 extra building and 2 extra rooms, got %d and %d", stats.ExtraBuildings, stats.ExtraRooms)
	}
	if stats.IncompleteRooms != 0 {
		t.Errorf("expected no incomplete rooms, got %d", stats.IncompleteRooms)
	}
	if len(idx.Rooms) != 4 {
		t.Errorf("directory-only rooms must not become rooms, got %d rooms", len(idx.Rooms))
	}
}

func TestAssemble_NoDays(t *testing.T) {
	site := testSite()
	site[scraper.CourseDetailsURL(testCatalogue, courseA)] = detailsPage()
	site[scraper.CourseDetailsURL(testCatalogue, courseB)] = detailsPage(
		[3]string{"07.10.20", "12:00 – 13:30", "Unknown Room 9"},
	)
	a, _ := testAssembler(site)

	idx, stats, err := a.Assemble(context.Background())
	if !errors.Is(err, ErrNoDays) {
		t.Fatalf("expected ErrNoDays, got %v", err)
	}
	if idx != nil {
		t.Error("expected no index on failure")
	}
	if stats.IgnoredBookings != 1 {
		t.Errorf("expected ignored booking to be counted, got %d", stats.IgnoredBookings)
	}
}

func TestAssemble_NoBuildings(t *testing.T) {
	site := testSite()
	site[scraper.BuildingsURL(testDirectory)] = "<html><body></body></html>"
	a, _ := testAssembler(site)

	if _, _, err := a.Assemble(context.Background()); !errors.Is(err, ErrNoBuildings) {
		t.Fatalf("expected ErrNoBuildings, got %v", err)
	}
}

func TestAssemble_NoCatalogueRooms(t *testing.T) {
	site := testSite()
	site[scraper.SearchPageURL(testCatalogue)] = searchPage()
	a, _ := testAssembler(site)

	if _, _, err := a.Assemble(context.Background()); !errors.Is(err, ErrNoRooms) {
		t.Fatalf("expected ErrNoRooms, got %v", err)
	}
}

func TestAssemble_FetchFailureAborts(t *testing.T) {
	site := testSite()
	delete(site, scraper.CourseDetailsURL(testCatalogue, courseB))
	a, _ := testAssembler(site)

	_, _, err := a.Assemble(context.Background())
	var te *scraper.TransientError
	if !errors.As(err, &te) {
		t.Fatalf("expected the fetch error to abort the run, got %v", err)
	}
}

func TestAssemble_MalformedCourseAborts(t *testing.T) {
	site := testSite()
	site[scraper.SearchResultsURL(testCatalogue, "K 269D")] = resultsPage(model.Course{ClassID: "9", GroupID: "", DetailsID: "900"})
	a, _ := testAssembler(site)

	_, _, err := a.Assemble(context.Background())
	var ee *scraper.ExtractionError
	if !errors.As(err, &ee) {
		t.Fatalf("expected ExtractionError, got %v", err)
	}
}

func TestAssemble_Quick(t *testing.T) {
	site := testSite()
	var courses []model.Course
	for i := 0; i < quickCourses+5; i++ {
		c := model.Course{ClassID: fmt.Sprint(i), GroupID: "g", DetailsID: fmt.Sprint(1000 + i)}
		courses = append(courses, c)
		site[scraper.CourseDetailsURL(testCatalogue, c)] = detailsPage(
			[3]string{"05.10.20", "12:00 – 13:30", "K 269D"},
		)
	}
	site[scraper.SearchResultsURL(testCatalogue, "K 269D")] = resultsPage(courses...)

	a, f := testAssembler(site)
	a.Quick = true
	if _, _, err := a.Assemble(context.Background()); err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	details := 0
	for _, u := range f.calls {
		if strings.Contains(u, "lvaregistrationlist") {
			details++
		}
	}
	if details != quickCourses {
		t.Errorf("expected %d course detail requests in quick mode, got %d", quickCourses, details)
	}
}

func TestAssemble_DuplicateCatalogueRoomKeepsLastListing(t *testing.T) {
	site := testSite()
	site[scraper.SearchPageURL(testCatalogue)] = searchPage("HS 1", "S2 Z74", "K 269D", "MT 128", "hs 1")
	site[scraper.SearchResultsURL(testCatalogue, "hs 1")] = resultsPage(courseA, courseB)
	delete(site, scraper.SearchResultsURL(testCatalogue, "HS 1"))
	a, f := testAssembler(site)

	idx, stats, err := a.Assemble(context.Background())
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	if len(idx.Rooms) != 4 {
		t.Fatalf("expected 4 rooms, got %d", len(idx.Rooms))
	}
	if want := (model.Room{Name: "hs 1", Building: 0, Capacity: 650}); idx.Rooms[0] != want {
		t.Errorf("expected room 0 to be %+v, got %+v", want, idx.Rooms[0])
	}
	if stats.CatalogueRooms != 5 {
		t.Errorf("expected 5 scraped catalogue rooms, got %d", stats.CatalogueRooms)
	}
	for _, u := range f.calls {
		if u == scraper.SearchResultsURL(testCatalogue, "HS 1") {
			t.Error("expected courses to be looked up with the later catalogue id")
		}
	}
}
