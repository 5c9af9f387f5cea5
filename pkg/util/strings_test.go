package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniqueStrings(t *testing.T) {
	assert.Equal(t,
		[]string{"13a.pdf", "21b.pdf"},
		UniqueStrings([]string{"13a.pdf", "", " e6a.pdf", "21b.pdf ", "13a.pdf"}, "e6a.pdf"),
	)
	assert.Nil(t, UniqueStrings([]string{"e6a.pdf"}, "e6a.pdf"))
	assert.Nil(t, UniqueStrings(nil))
}

func TestGetEnvironmentInt(t *testing.T) {
	t.Setenv("TRAVIGO_TEST_INT", "7")
	assert.Equal(t, 7, GetEnvironmentInt("TRAVIGO_TEST_INT", 4))

	t.Setenv("TRAVIGO_TEST_INT", "seven")
	assert.Equal(t, 4, GetEnvironmentInt("TRAVIGO_TEST_INT", 4))

	t.Setenv("TRAVIGO_TEST_INT", "-1")
	assert.Equal(t, 4, GetEnvironmentInt("TRAVIGO_TEST_INT", 4))
}
