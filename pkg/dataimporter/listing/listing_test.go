package listing

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/timetable-sheets/pkg/dataimporter/datasets"
	resty "gopkg.in/resty.v1"
)

const downloadPage = `<html><body>
<ul>
  <li><a href="/grafice/13a.pdf">Linia 13 tur</a></li>
  <li><a href="/grafice/13b.pdf">Linia 13 retur</a></li>
  <li><a href="/grafice/13a.pdf">Linia 13 tur (duplicat)</a></li>
  <li><a href="/grafice/33.pdf">Linia 33</a></li>
  <li><a href="/harta/retea.pdf">Harta</a></li>
  <li><a href="/grafice/index.html">Toate</a></li>
</ul>
</body></html>`

const schoolPage = `<html><head><script>
var grafice = ['/grafice/e1a.pdf', '/grafice/e1b.pdf'];
openSheet('/grafice/e6a.pdf'); openSheet('/grafice/e1a.pdf');
</script></head><body><a href='/grafice/e2a.html'>E2</a></body></html>`

func TestScrapeAnchors(t *testing.T) {
	identifiers, err := ScrapeAnchors(strings.NewReader(downloadPage), "/grafice/")
	require.NoError(t, err)
	assert.Equal(t, []string{"13a.pdf", "13b.pdf", "33.pdf"}, identifiers)

	identifiers, err = ScrapeAnchors(strings.NewReader("<html></html>"), "/grafice/")
	require.NoError(t, err)
	assert.Empty(t, identifiers)
}

func TestScrapeQuoted(t *testing.T) {
	identifiers, err := ScrapeQuoted(strings.NewReader(schoolPage), "/grafice/")
	require.NoError(t, err)
	assert.Equal(t, []string{"e1a.pdf", "e1b.pdf", "e6a.pdf"}, identifiers)
}

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=windows-1250")
		// "Staţia" with the windows-1250 encoding of ţ
		w.Write(bytes.Replace([]byte(downloadPage), []byte("Harta"), []byte("Sta\xfeia"), 1))
	}))
	defer server.Close()

	identifiers, err := Fetch(context.Background(), resty.New(), datasets.ListingPage{
		URL:    server.URL + "/download.html",
		Kind:   datasets.ListingKindAnchors,
		Prefix: "/grafice/",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"13a.pdf", "13b.pdf", "33.pdf"}, identifiers)

	_, err = Scrape(strings.NewReader(downloadPage), datasets.ListingPage{Kind: "sitemap"})
	assert.Error(t, err)
}

func TestCompare(t *testing.T) {
	dataset := datasets.DataSet{
		Documents:          []string{"13a.pdf", "13b.pdf", "e1a.pdf", "e1b.pdf"},
		FrequencyDocuments: []string{"33.pdf"},
		BrokenDocuments:    []string{"e6a.pdf"},
	}

	report := Compare(dataset, []string{"13a.pdf", "13b.pdf", "33.pdf"}, []string{"e1a.pdf", "e1b.pdf", "e6a.pdf"})

	assert.False(t, report.Changed)
	require.Len(t, report.Comparisons, 4)

	assert.Equal(t, []string{"e1a.pdf", "e1b.pdf"}, report.Comparisons[0].LeftOnly)
	assert.Empty(t, report.Comparisons[0].RightOnly)
	assert.Equal(t, []string{"13a.pdf", "13b.pdf"}, report.Comparisons[1].LeftOnly)
	assert.Equal(t, []string{"e1a.pdf", "e1b.pdf"}, report.Comparisons[2].LeftOnly)
	assert.Equal(t, []string{"13a.pdf", "13b.pdf"}, report.Comparisons[2].RightOnly)
	assert.True(t, report.Comparisons[3].Empty())
}

func TestCompareChanged(t *testing.T) {
	dataset := datasets.DataSet{
		Documents:       []string{"13a.pdf", "13b.pdf"},
		BrokenDocuments: []string{"e6a.pdf"},
	}

	report := Compare(dataset, []string{"13a.pdf", "13b.pdf", "m46.pdf"}, []string{})
	assert.True(t, report.Changed)
	assert.Equal(t, []string{"m46.pdf"}, report.Comparisons[3].RightOnly)

	// a broken link that is no longer published is a change too
	report = Compare(dataset, []string{"13a.pdf", "13b.pdf"}, nil)
	assert.True(t, report.Changed)
	assert.True(t, report.Comparisons[3].Empty())

	var output bytes.Buffer
	require.NoError(t, report.Write(&output))
	assert.Contains(t, output.String(), "Comparing known with anchor listing\n")
	assert.Contains(t, output.String(), "\tquoted listing unique: \n")
}

func TestReconcile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")

		switch r.URL.Path {
		case "/download.html":
			w.Write([]byte(downloadPage))
		case "/grafice_scoala.html":
			w.Write([]byte(schoolPage))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	dataset := datasets.DataSet{
		Identifier:         "ro-ratt-timetables",
		Documents:          []string{"13a.pdf", "13b.pdf", "e1a.pdf", "e1b.pdf"},
		FrequencyDocuments: []string{"33.pdf"},
		BrokenDocuments:    []string{"e6a.pdf"},
		ListingPages: []datasets.ListingPage{
			{URL: server.URL + "/download.html", Kind: datasets.ListingKindAnchors, Prefix: "/grafice/"},
			{URL: server.URL + "/grafice_scoala.html", Kind: datasets.ListingKindQuoted, Prefix: "/grafice/"},
		},
	}

	report, err := Reconcile(context.Background(), resty.New(), dataset)
	require.NoError(t, err)

	assert.False(t, report.Changed)
	require.Len(t, report.Comparisons, 4)
	assert.True(t, report.Comparisons[3].Empty())

	dataset.ListingPages[1].URL = server.URL + "/missing.html"
	_, err = Reconcile(context.Background(), resty.New(), dataset)
	assert.Error(t, err)
}
