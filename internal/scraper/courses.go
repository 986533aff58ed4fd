package scraper

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/intelligrit/room-index/internal/model"
)

// ParseCourses extracts the courses linked from a catalogue search result page.
// A page without a result table yields no courses. A course link lacking any
// of its three identifiers is an ExtractionError.
func ParseCourses(doc *goquery.Document) ([]model.Course, error) {
	var (
		courses []model.Course
		err     error
	)

	rows := doc.Find("div.contentcell > table > tbody").Last().ChildrenFiltered("tr")
	rows.EachWithBreak(func(i int, tr *goquery.Selection) bool {
		if i == 0 {
			return true // header
		}
		href, ok := tr.ChildrenFiltered("td").First().Find("a").First().Attr("href")
		if !ok {
			return true
		}

		var c model.Course
		c, err = parseCourseHref(strings.TrimSpace(href))
		if err != nil {
			return false
		}
		courses = append(courses, c)
		return true
	})
	if err != nil {
		return nil, err
	}

	return courses, nil
}

func parseCourseHref(href string) (model.Course, error) {
	_, query, _ := strings.Cut(href, "?")
	params, err := url.ParseQuery(query)
	if err != nil {
		return model.Course{}, extractionErrorf("courses", "malformed course link %q: %v", href, err)
	}

	c := model.Course{
		ClassID:   params.Get("courseclassid"),
		GroupID:   params.Get("coursegroupid"),
		DetailsID: params.Get("showdetails"),
	}
	if c.ClassID == "" || c.GroupID == "" || c.DetailsID == "" {
		return model.Course{}, extractionErrorf("courses",
			"parameters courseclassid, coursegroupid and showdetails are required in %q", href)
	}
	return c, nil
}
