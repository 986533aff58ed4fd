package scraper

import (
	"net/url"
	"strings"

	"github.com/intelligrit/room-index/internal/model"
)

const (
	buildingsPath  = "/en/campus/the-jku-campus/buildings/"
	searchPagePath = "/kusss/coursecatalogue-start.action?showFilters=true"

	searchResultsPath = "/kusss/coursecatalogue-searchlvareg.action?sortParam0courses=lvaName&asccourses=true" +
		"&showFilters=true&lvasearch=&direct=true&lvaName=&abhart=all&organisationalHint=&lastname=&firstname=" +
		"&lvaNr=&klaId=&type=all&curriculumContentKey=all&orgid=Alle&language=all&day=all&timefrom=all&timeto=all" +
		"&room="
	courseDetailsPath = "/kusss/lvaregistrationlist.action"
)

// BuildingsURL is the directory page listing all buildings.
func BuildingsURL(directoryBase string) string {
	return strings.TrimRight(directoryBase, "/") + buildingsPath
}

// BuildingURL resolves a building href against the directory base.
func BuildingURL(directoryBase, href string) string {
	base, err := url.Parse(strings.TrimRight(directoryBase, "/") + "/")
	if err != nil {
		return directoryBase + href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return directoryBase + href
	}
	return base.ResolveReference(ref).String()
}

// SearchPageURL is the catalogue search form holding the bookable room list.
func SearchPageURL(catalogueBase string) string {
	return strings.TrimRight(catalogueBase, "/") + searchPagePath
}

// SearchResultsURL lists the courses held in one catalogue room.
func SearchResultsURL(catalogueBase, catalogueID string) string {
	return strings.TrimRight(catalogueBase, "/") + searchResultsPath + url.QueryEscape(catalogueID)
}

// CourseDetailsURL is the page listing all bookings of one course.
func CourseDetailsURL(catalogueBase string, c model.Course) string {
	q := url.Values{}
	q.Set("coursegroupid", c.GroupID)
	q.Set("showdetails", c.DetailsID)
	q.Set("abhart", "all")
	q.Set("courseclassid", c.ClassID)
	return strings.TrimRight(catalogueBase, "/") + courseDetailsPath + "?" + q.Encode()
}
