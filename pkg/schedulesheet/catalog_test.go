package schedulesheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalogIsSpam(t *testing.T) {
	catalog := DefaultCatalog()

	assert.True(t, catalog.IsSpam(catalog.SpamLines[0]))
	assert.True(t, catalog.IsSpam(catalog.SpamLines[1]))
	assert.False(t, catalog.IsSpam(" "+catalog.SpamLines[0]))
	assert.False(t, catalog.IsSpam(catalog.SpamLines[1]+" "))
	assert.False(t, catalog.IsSpam(""))
}

func TestCatalogClassifyHeader(t *testing.T) {
	catalog := DefaultCatalog()

	tests := []struct {
		name     string
		line     string
		expected LabelSet
	}{
		{
			name:     "workdays and non-working days",
			line:     "ZILE LUCRĂTOARE ZILE NELUCRĂTOARE",
			expected: catalog.LabelSets[0],
		},
		{
			name:     "singular day labels",
			line:     "ZI LUCRĂTOARE ZI NELUCRATOARE",
			expected: catalog.LabelSets[1],
		},
		{
			name:     "three classes",
			line:     "ZILE LUCRĂTOARE SAMBATA DUMINICA",
			expected: catalog.LabelSets[2],
		},
		{
			name:     "monday to saturday",
			line:     "LUNI-SAMBATA DUMINICA",
			expected: catalog.LabelSets[3],
		},
		{
			name:     "decomposed diacritics",
			line:     "ZILE LUCRA\u0306TOARE ZILE NELUCRA\u0306TOARE",
			expected: catalog.LabelSets[0],
		},
		{
			name:     "first matching set wins",
			line:     "ZILE LUCRĂTOARE ZILE NELUCRĂTOARE SAMBATA DUMINICA",
			expected: catalog.LabelSets[0],
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			labelSet, found := catalog.ClassifyHeader(NormaliseWhitespace(test.line))

			assert.True(t, found)
			assert.Equal(t, test.expected, labelSet)
		})
	}

	_, found := catalog.ClassifyHeader("Linia 33 - Statia Catedrala")
	assert.False(t, found)

	_, found = catalog.ClassifyHeader("ZILE LUCRĂTOARE")
	assert.False(t, found)
}

func TestNormaliseWhitespace(t *testing.T) {
	assert.Equal(t, "ZILE LUCRĂTOARE ZILE NELUCRĂTOARE", NormaliseWhitespace("   ZILE   LUCRĂTOARE\t\tZILE NELUCRĂTOARE   "))
	assert.Equal(t, "", NormaliseWhitespace(" \t "))
	assert.Equal(t, "Ă", NormaliseWhitespace("A\u0306"))
}
