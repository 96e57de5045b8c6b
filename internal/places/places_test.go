package places

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearch(t *testing.T) {
	results := Search("Mỹ Đình")
	assert.Len(t, results, 1)
	assert.Equal(t, "BX Mỹ Đình", results[0].ShortName)
	assert.Contains(t, results[0].URI, "google.com/maps/search/")
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	assert.Equal(t, Search("sa pa"), Search("SA PA"))
	assert.NotEmpty(t, Search("sa pa"))
}

func TestSearchMatchesShortName(t *testing.T) {
	results := Search("Hồ Gươm")
	assert.NotEmpty(t, results)
}

func TestSearchCapsResults(t *testing.T) {
	// Every entry mentions a province or city, so a broad query hits many.
	results := Search("bến xe")
	assert.Len(t, results, maxSuggestions)
}

func TestSearchEmptyQuery(t *testing.T) {
	assert.Empty(t, Search(""))
	assert.Empty(t, Search("   "))
}

func TestSearchNoMatch(t *testing.T) {
	assert.Empty(t, Search("paris"))
}
