package listing

import (
	"fmt"
	"io"
	"strings"

	"github.com/travigo/timetable-sheets/pkg/dataimporter/datasets"
	"golang.org/x/exp/slices"
)

// Difference is what each side of one comparison has that the other lacks
type Difference struct {
	Left      string
	Right     string
	LeftOnly  []string
	RightOnly []string
}

func (d Difference) Empty() bool {
	return len(d.LeftOnly) == 0 && len(d.RightOnly) == 0
}

type Report struct {
	Comparisons []Difference

	// Set when the published documents are not exactly the known, frequency and broken documents
	Changed bool
}

type stringSet map[string]struct{}

func newStringSet(values ...[]string) stringSet {
	set := stringSet{}
	for _, list := range values {
		for _, value := range list {
			set[value] = struct{}{}
		}
	}

	return set
}

func (s stringSet) minus(other stringSet) []string {
	var difference []string
	for value := range s {
		if _, exists := other[value]; !exists {
			difference = append(difference, value)
		}
	}

	slices.Sort(difference)
	return difference
}

func (s stringSet) values() []string {
	values := make([]string, 0, len(s))
	for value := range s {
		values = append(values, value)
	}

	return values
}

func (s stringSet) without(other ...[]string) stringSet {
	remove := newStringSet(other...)

	result := stringSet{}
	for value := range s {
		if _, exists := remove[value]; !exists {
			result[value] = struct{}{}
		}
	}

	return result
}

func (s stringSet) equal(other stringSet) bool {
	if len(s) != len(other) {
		return false
	}

	for key := range s {
		if _, exists := other[key]; !exists {
			return false
		}
	}

	return true
}

func difference(leftName string, left stringSet, rightName string, right stringSet) Difference {
	return Difference{
		Left:      leftName,
		Right:     rightName,
		LeftOnly:  left.minus(right),
		RightOnly: right.minus(left),
	}
}

// Compare checks the documents a dataset knows about against the anchor and quoted listings. Frequency sheets
// and known broken links are left out of the listings before comparing.
func Compare(dataset datasets.DataSet, anchors []string, quoted []string) Report {
	known := newStringSet(dataset.Documents)
	allPublished := newStringSet(anchors, quoted)
	allKnown := newStringSet(dataset.Documents, dataset.FrequencyDocuments, dataset.BrokenDocuments)

	anchorSet := newStringSet(anchors).without(dataset.BrokenDocuments, dataset.FrequencyDocuments)
	quotedSet := newStringSet(quoted).without(dataset.BrokenDocuments, dataset.FrequencyDocuments)
	published := newStringSet(anchorSet.values(), quotedSet.values())

	return Report{
		Comparisons: []Difference{
			difference("known", known, "anchor listing", anchorSet),
			difference("known", known, "quoted listing", quotedSet),
			difference("quoted listing", quotedSet, "anchor listing", anchorSet),
			difference("known", known, "published", published),
		},
		Changed: !allPublished.equal(allKnown),
	}
}

func (r Report) Write(writer io.Writer) error {
	for _, comparison := range r.Comparisons {
		lines := []string{
			fmt.Sprintf("Comparing %s with %s", comparison.Left, comparison.Right),
			fmt.Sprintf("\t%s unique: %s", comparison.Left, strings.Join(comparison.LeftOnly, ", ")),
			fmt.Sprintf("\t%s unique: %s", comparison.Right, strings.Join(comparison.RightOnly, ", ")),
		}

		for _, line := range lines {
			if _, err := fmt.Fprintln(writer, line); err != nil {
				return err
			}
		}
	}

	return nil
}
