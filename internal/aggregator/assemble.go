package aggregator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/intelligrit/room-index/internal/canon"
	"github.com/intelligrit/room-index/internal/model"
	"github.com/intelligrit/room-index/internal/scraper"
)

// Quick mode limits per stage.
const (
	quickBuildings = 7
	quickRooms     = 7
	quickCourses   = 12
)

var (
	// ErrNoBuildings is returned when the directory lists no buildings.
	ErrNoBuildings = errors.New("no buildings found")
	// ErrNoRooms is returned when either room source lists no rooms.
	ErrNoRooms = errors.New("no rooms found")
	// ErrNoDays is returned when no booking of a known room was scraped.
	ErrNoDays = errors.New("0 days have been scraped")
)

// Extras is manually curated metadata patching gaps in the directory.
type Extras struct {
	// IgnoreRooms are substrings of booking room names that are known to be
	// irrelevant. Such bookings are still dropped but not reported as unknown.
	IgnoreRooms []string
	// Buildings maps a building name to room names located in it.
	Buildings map[string][]string
	// Capacities maps a room name to its capacity.
	Capacities map[string]int
}

// Assembler runs the scrape pipeline and builds the index.
type Assembler struct {
	Fetcher      scraper.Fetcher
	CatalogueURL string
	DirectoryURL string
	Extras       Extras
	Quick        bool
	RunID        string
	Logger       *slog.Logger
	// Location is used to interpret booking dates. Defaults to time.Local.
	Location *time.Location
	// Now returns the build time. Defaults to time.Now.
	Now func() time.Time

	stats  *Stats
	logger *slog.Logger
}

// Assemble scrapes both sites and returns the finished index. The returned
// statistics are valid even when an error is returned.
func (a *Assembler) Assemble(ctx context.Context) (*model.Index, *Stats, error) {
	a.init()

	idx, err := a.assemble(ctx)
	if err != nil {
		a.logger.Error("scraping failed", "err", err)
		return nil, a.stats, err
	}
	a.logger.Info("scraping successful")
	return idx, a.stats, nil
}

func (a *Assembler) init() {
	if a.RunID == "" {
		a.RunID = uuid.NewString()
	}
	if a.Location == nil {
		a.Location = time.Local
	}
	if a.Now == nil {
		a.Now = time.Now
	}
	base := a.Logger
	if base == nil {
		base = slog.Default()
	}
	a.logger = base.With("run", a.RunID)
	a.stats = &Stats{RunID: a.RunID, UnknownRooms: []string{}}
}

func (a *Assembler) fetch(ctx context.Context, url string) (*goquery.Document, error) {
	a.stats.Requests++
	doc, err := a.Fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	return doc, nil
}

func (a *Assembler) assemble(ctx context.Context) (*model.Index, error) {
	idx := &model.Index{
		Version:   a.Now().Format(time.RFC3339),
		Buildings: make(map[int]model.BuildingEntry),
		Rooms:     make(map[int]model.Room),
	}

	buildings, err := a.scrapeBuildings(ctx)
	if err != nil {
		return nil, err
	}

	dir, buildings, err := a.scrapeDirectory(ctx, buildings)
	if err != nil {
		return nil, err
	}
	for id, b := range buildings {
		idx.Buildings[id] = model.BuildingEntry{Name: b.Name}
	}

	arena, catalogue, err := a.scrapeCatalogueRooms(ctx, dir)
	if err != nil {
		return nil, err
	}
	for id, r := range arena.rooms {
		idx.Rooms[id] = r
	}

	courses, err := a.scrapeCourses(ctx, catalogue)
	if err != nil {
		return nil, err
	}

	avail, days, err := a.scrapeBookings(ctx, courses, arena)
	if err != nil {
		return nil, err
	}

	if len(days) == 0 {
		return nil, ErrNoDays
	}
	first, last := days[0], days[len(days)-1]
	idx.Range = model.Range{
		Start: first.Format(time.RFC3339),
		End:   endOfDay(last).Format(time.RFC3339),
	}
	a.stats.Days = len(days)
	a.stats.Range = &idx.Range

	Reconcile(avail, first, last, arena.len())
	a.stats.FreeDays = len(avail) - len(days)
	idx.Available = avail

	return idx, nil
}

// scrapeBuildings returns the buildings in directory order; a building's id is its position.
func (a *Assembler) scrapeBuildings(ctx context.Context) ([]model.Building, error) {
	doc, err := a.fetch(ctx, scraper.BuildingsURL(a.DirectoryURL))
	if err != nil {
		return nil, err
	}

	buildings := scraper.ParseBuildings(doc)
	if len(buildings) == 0 {
		return nil, ErrNoBuildings
	}

	a.stats.Buildings = len(buildings)
	names := make([]string, len(buildings))
	for i, b := range buildings {
		names[i] = b.Name
	}
	a.logger.Info("scraped buildings", "count", len(buildings))
	a.logger.Debug("building names", "names", names)
	return buildings, nil
}

// scrapeDirectory collects the directory rooms of every building and applies
// the extra metadata. Extra buildings are appended to buildings.
func (a *Assembler) scrapeDirectory(ctx context.Context, buildings []model.Building) (directory, []model.Building, error) {
	dir := make(directory)

	for i, b := range buildings {
		if a.Quick && i >= quickBuildings {
			break
		}

		doc, err := a.fetch(ctx, scraper.BuildingURL(a.DirectoryURL, b.URL))
		if err != nil {
			return nil, nil, err
		}

		rooms := scraper.ParseDirectoryRooms(doc, i)
		if len(rooms) == 0 {
			a.logger.Warn("no rooms found for building", "building", b.Name, "progress", progress(i, len(buildings)))
		} else {
			a.logger.Debug("found rooms for building", "building", b.Name, "count", len(rooms), "progress", progress(i, len(buildings)))
		}
		for _, r := range rooms {
			dir.put(r)
		}
		a.stats.DirectoryRooms += len(rooms)
	}

	buildings = a.applyExtras(dir, buildings)

	if len(dir) == 0 {
		return nil, nil, fmt.Errorf("campus directory: %w", ErrNoRooms)
	}
	return dir, buildings, nil
}

// applyExtras patches the directory with the curated metadata. Curated
// values replace scraped ones.
func (a *Assembler) applyExtras(dir directory, buildings []model.Building) []model.Building {
	buildingIDs := make(map[string]int, len(buildings))
	for id, b := range buildings {
		if _, ok := buildingIDs[b.Name]; !ok {
			buildingIDs[b.Name] = id
		}
	}

	for _, name := range sortedKeys(a.Extras.Buildings) {
		id, ok := buildingIDs[name]
		if !ok {
			id = len(buildings)
			buildings = append(buildings, model.Building{Name: name})
			buildingIDs[name] = id
			a.stats.ExtraBuildings++
		}
		for _, roomName := range a.Extras.Buildings[name] {
			r, ok := dir.get(roomName)
			if !ok {
				r = model.DirectoryRoom{Name: canon.CleanName(roomName), Capacity: model.Absent}
				a.stats.ExtraRooms++
			}
			r.BuildingID = id
			dir.put(r)
		}
	}

	for _, roomName := range sortedKeys(a.Extras.Capacities) {
		r, ok := dir.get(roomName)
		if !ok {
			r = model.DirectoryRoom{Name: canon.CleanName(roomName), BuildingID: model.Absent}
			a.stats.ExtraRooms++
		}
		r.Capacity = a.Extras.Capacities[roomName]
		dir.put(r)
	}

	if a.stats.ExtraBuildings > 0 || a.stats.ExtraRooms > 0 {
		a.logger.Info("applied extra metadata", "buildings", a.stats.ExtraBuildings, "rooms", a.stats.ExtraRooms)
	}
	return buildings
}

// scrapeCatalogueRooms merges the bookable rooms with the directory metadata.
// The returned catalogue rooms are indexed by room id.
func (a *Assembler) scrapeCatalogueRooms(ctx context.Context, dir directory) (*roomArena, []model.CatalogueRoom, error) {
	doc, err := a.fetch(ctx, scraper.SearchPageURL(a.CatalogueURL))
	if err != nil {
		return nil, nil, err
	}

	scraped := scraper.ParseCatalogueRooms(doc)
	if len(scraped) == 0 {
		return nil, nil, fmt.Errorf("course catalogue: %w", ErrNoRooms)
	}
	a.stats.CatalogueRooms = len(scraped)
	a.logger.Info("scraped bookable rooms", "count", len(scraped))

	arena := newRoomArena()
	var (
		catalogue  []model.CatalogueRoom
		incomplete []string
	)
	for _, cr := range scraped {
		room := model.Room{Name: cr.Name, Building: model.Absent, Capacity: model.Absent}
		if dr, ok := dir.get(cr.Name); ok {
			room.Building = dr.BuildingID
			room.Capacity = dr.Capacity
		}

		// a later listing of the same room wins, the id stays with the first
		id, added := arena.add(room)
		if !added {
			a.logger.Debug("duplicate bookable room", "room", cr.Name, "replaces", catalogue[id].Name)
			arena.replace(id, room)
			catalogue[id] = cr
			continue
		}
		catalogue = append(catalogue, cr)

		if room.Building == model.Absent || room.Capacity == model.Absent {
			incomplete = append(incomplete, room.Name)
		}
	}

	a.stats.IncompleteRooms = len(incomplete)
	if len(incomplete) > 0 {
		a.logger.Warn("rooms without building or capacity information",
			"count", len(incomplete), "rooms", incomplete)
	}
	return arena, catalogue, nil
}

func (a *Assembler) scrapeCourses(ctx context.Context, catalogue []model.CatalogueRoom) (*courseSet, error) {
	set := newCourseSet()

	for i, room := range catalogue {
		if a.Quick && i >= quickRooms {
			break
		}

		doc, err := a.fetch(ctx, scraper.SearchResultsURL(a.CatalogueURL, room.CatalogueID))
		if err != nil {
			return nil, err
		}
		courses, err := scraper.ParseCourses(doc)
		if err != nil {
			return nil, fmt.Errorf("room %q: %w", room.Name, err)
		}

		if len(courses) == 0 {
			a.logger.Warn("no courses found for room", "room", room.Name, "progress", progress(i, len(catalogue)))
		} else {
			a.logger.Debug("scraped courses for room", "room", room.Name, "count", len(courses), "progress", progress(i, len(catalogue)))
		}
		for _, c := range courses {
			set.add(c)
		}
	}

	a.stats.Courses = set.len()
	a.stats.DuplicateCourses = set.duplicates()
	a.logger.Info("scraped courses", "count", set.len(), "duplicates", set.duplicates())
	return set, nil
}

// scrapeBookings collects the booked spans per day and room and returns the
// distinct booked days in ascending order.
func (a *Assembler) scrapeBookings(ctx context.Context, courses *courseSet, arena *roomArena) (model.Availability, []time.Time, error) {
	avail := make(model.Availability)
	days := make(map[string]time.Time)
	unknown := make(map[string]struct{})

	list := courses.courses()
	for i, c := range list {
		if a.Quick && i >= quickCourses {
			break
		}

		doc, err := a.fetch(ctx, scraper.CourseDetailsURL(a.CatalogueURL, c))
		if err != nil {
			return nil, nil, err
		}
		bookings, err := scraper.ParseBookings(doc, a.Location)
		if err != nil {
			return nil, nil, fmt.Errorf("course %s: %w", c.DetailsID, err)
		}

		if len(bookings) == 0 {
			a.logger.Warn("no bookings found for course", "course", c.DetailsID, "progress", progress(i, len(list)))
		} else {
			a.logger.Debug("scraped bookings for course", "course", c.DetailsID, "count", len(bookings), "progress", progress(i, len(list)))
		}
		a.stats.Bookings += len(bookings)

		for _, b := range bookings {
			id, ok := arena.lookup(b.RoomName)
			if !ok {
				a.stats.IgnoredBookings++
				if !a.ignored(b.RoomName) {
					if _, seen := unknown[b.RoomName]; !seen {
						unknown[b.RoomName] = struct{}{}
						a.logger.Warn("room is unknown, ignoring booking", "room", b.RoomName)
					}
				}
				continue
			}

			key := b.Day.Format(model.DayKeyFormat)
			cell := avail[key]
			if cell == nil {
				cell = make(map[int][]model.Span)
				avail[key] = cell
				days[key] = time.Date(b.Day.Year(), b.Day.Month(), b.Day.Day(), 0, 0, 0, 0, a.Location)
			}
			cell[id] = append(cell[id], model.Span{b.From, b.To})
		}
	}

	a.stats.UnknownRooms = sortedKeys(unknown)

	sorted := make([]time.Time, 0, len(days))
	for _, d := range days {
		sorted = append(sorted, d)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })
	return avail, sorted, nil
}

// ignored reports whether name contains one of the curated junk substrings.
func (a *Assembler) ignored(name string) bool {
	key := canon.Name(name)
	for _, s := range a.Extras.IgnoreRooms {
		if s = canon.Name(s); s != "" && strings.Contains(key, s) {
			return true
		}
	}
	return false
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

func progress(i, n int) string {
	return fmt.Sprintf("%d%%", (i+1)*100/max(n, 1))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
