// Package listing reads the published listing pages of a dataset and reconciles them with its registry
package listing

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/travigo/timetable-sheets/pkg/dataimporter/datasets"
	"github.com/travigo/timetable-sheets/pkg/util"
	"golang.org/x/exp/slices"
	"golang.org/x/net/html/charset"
	resty "gopkg.in/resty.v1"
)

// ScrapeAnchors returns the documents linked from anchors whose href starts with prefix and ends in .pdf
func ScrapeAnchors(reader io.Reader, prefix string) ([]string, error) {
	document, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, err
	}

	selector := fmt.Sprintf(`a[href^=%q][href$=".pdf"]`, prefix)

	var identifiers []string
	document.Find(selector).Each(func(i int, selection *goquery.Selection) {
		href, _ := selection.Attr("href")
		identifiers = append(identifiers, strings.TrimPrefix(href, prefix))
	})

	return sortedUnique(identifiers), nil
}

// ScrapeQuoted returns the documents named in single quoted '<prefix>....pdf' literals anywhere in the page,
// which is how the school timetable page lists them inside its scripts
func ScrapeQuoted(reader io.Reader, prefix string) ([]string, error) {
	page, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	pattern := regexp.MustCompile(`'` + regexp.QuoteMeta(prefix) + `([^'\s]*\.pdf)'`)

	var identifiers []string
	for _, match := range pattern.FindAllSubmatch(page, -1) {
		identifiers = append(identifiers, string(match[1]))
	}

	return sortedUnique(identifiers), nil
}

// Fetch downloads a listing page, decodes it to UTF-8 and scrapes it according to its kind
func Fetch(ctx context.Context, client *resty.Client, page datasets.ListingPage) ([]string, error) {
	response, err := client.R().SetContext(ctx).Get(page.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch listing %s: %w", page.URL, err)
	}
	if response.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("fetch listing %s: %s", page.URL, response.Status())
	}

	reader, err := charset.NewReader(bytes.NewReader(response.Body()), response.Header().Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("decode listing %s: %w", page.URL, err)
	}

	return Scrape(reader, page)
}

func Scrape(reader io.Reader, page datasets.ListingPage) ([]string, error) {
	switch page.Kind {
	case datasets.ListingKindAnchors:
		return ScrapeAnchors(reader, page.Prefix)
	case datasets.ListingKindQuoted:
		return ScrapeQuoted(reader, page.Prefix)
	default:
		return nil, fmt.Errorf("unknown listing kind %q", page.Kind)
	}
}

func sortedUnique(identifiers []string) []string {
	unique := util.UniqueStrings(identifiers)
	if unique == nil {
		return []string{}
	}

	slices.Sort(unique)
	return unique
}
