package scraper

import (
	"regexp"
	"strconv"

	"github.com/PuerkitoBio/goquery"
	"github.com/intelligrit/room-index/internal/canon"
	"github.com/intelligrit/room-index/internal/model"
)

var (
	lectureHallRe    = regexp.MustCompile(`(?:HS|Hörsaal|Lecture Hall) (\d+)`)
	leadingIntegerRe = regexp.MustCompile(`^\s*(\d+)`)
)

// ParseCatalogueRooms extracts the bookable rooms from the options of the
// catalogue search form. The first option ("all rooms") is skipped.
func ParseCatalogueRooms(doc *goquery.Document) []model.CatalogueRoom {
	var rooms []model.CatalogueRoom

	doc.Find("select#room > option").Each(func(i int, opt *goquery.Selection) {
		if i == 0 {
			return
		}
		name := canon.CleanName(opt.Text())
		id, ok := opt.Attr("value")
		if !ok {
			id = opt.Text()
		}
		if name == "" {
			return
		}
		rooms = append(rooms, model.CatalogueRoom{Name: name, CatalogueID: id})
	})

	return rooms
}

// ParseDirectoryRooms extracts rooms from the room tables of a building page.
// Only rows with exactly three cells (description, room, capacity) are considered.
// Lecture halls are abbreviated to "HS <n>".
func ParseDirectoryRooms(doc *goquery.Document, buildingID int) []model.DirectoryRoom {
	var rooms []model.DirectoryRoom

	doc.Find("div.content_container > div.text > div.body > table.contenttable").Each(func(_ int, table *goquery.Selection) {
		table.Find("tr").Each(func(i int, tr *goquery.Selection) {
			if i == 0 {
				return // header
			}
			tds := tr.ChildrenFiltered("td")
			if tds.Length() != 3 {
				return
			}

			name := tds.Eq(1).Text()
			if m := lectureHallRe.FindStringSubmatch(tds.Eq(0).Text()); m != nil {
				name = "HS " + m[1]
			}
			name = canon.CleanName(name)
			if name == "" {
				return
			}

			rooms = append(rooms, model.DirectoryRoom{
				Name:       name,
				Capacity:   parseCapacity(tds.Eq(2).Text()),
				BuildingID: buildingID,
			})
		})
	})

	return rooms
}

// parseCapacity reads the leading integer of s, or model.Absent if there is none.
func parseCapacity(s string) int {
	m := leadingIntegerRe.FindStringSubmatch(s)
	if m == nil {
		return model.Absent
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return model.Absent
	}
	return n
}
