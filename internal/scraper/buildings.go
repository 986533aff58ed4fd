package scraper

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/intelligrit/room-index/internal/canon"
	"github.com/intelligrit/room-index/internal/model"
)

var leadingNumberRe = regexp.MustCompile(`^\d+\s+`)

// ParseBuildings extracts the buildings from the directory's building list.
// Entries that do not link to a building page are skipped.
func ParseBuildings(doc *goquery.Document) []model.Building {
	var buildings []model.Building

	doc.Find("li.stripe_element > div").Each(func(_ int, div *goquery.Selection) {
		href, ok := div.ChildrenFiltered("a.stripe_btn").First().Attr("href")
		if !ok {
			return
		}
		href = strings.TrimSpace(href)
		if !strings.Contains(href, "/buildings/") && !strings.Contains(href, "/gebaeude/") {
			return
		}

		name := canon.CleanName(ownText(div.ChildrenFiltered("h3").First()))
		name = leadingNumberRe.ReplaceAllString(name, "")
		if name == "" {
			return
		}

		buildings = append(buildings, model.Building{Name: name, URL: href})
	})

	return buildings
}

// ownText concatenates the text nodes directly inside sel, ignoring nested elements.
func ownText(sel *goquery.Selection) string {
	var b strings.Builder
	sel.Contents().Each(func(_ int, c *goquery.Selection) {
		if goquery.NodeName(c) == "#text" {
			b.WriteString(c.Text())
		}
	})
	return b.String()
}
