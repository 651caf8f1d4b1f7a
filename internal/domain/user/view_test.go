package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToggleSort_SameColumnTwiceFlipsDirection(t *testing.T) {
	v := DefaultViewState(ModeTable)

	v.ToggleSort(SortName)
	assert.Equal(t, SortName, v.SortField)
	assert.Equal(t, Asc, v.SortDirection)

	v.ToggleSort(SortName)
	assert.Equal(t, Desc, v.SortDirection)

	v.ToggleSort(SortName)
	assert.Equal(t, Asc, v.SortDirection)
}

func TestToggleSort_DifferentColumnResetsToAscending(t *testing.T) {
	v := DefaultViewState(ModeTable)
	v.ToggleSort(SortID)
	assert.Equal(t, Desc, v.SortDirection)

	v.ToggleSort(SortCompany)
	assert.Equal(t, SortCompany, v.SortField)
	assert.Equal(t, Asc, v.SortDirection)
}

func TestToggleSort_UnknownColumnIgnored(t *testing.T) {
	v := DefaultViewState(ModeTable)
	v.ToggleSort(SortField("password"))

	assert.Equal(t, SortID, v.SortField)
	assert.Equal(t, Asc, v.SortDirection)
}

func TestDefaultViewState(t *testing.T) {
	v := DefaultViewState("")
	assert.Equal(t, ModeTable, v.Mode)
	assert.False(t, v.ModeChosen)
	assert.Empty(t, v.Search)
}

func TestSetModeAndSearch(t *testing.T) {
	v := DefaultViewState(ModeTable)
	v.SetMode(ModeCards)
	v.SetSearch("bret")

	assert.Equal(t, ModeCards, v.Mode)
	assert.True(t, v.ModeChosen)
	assert.Equal(t, "bret", v.Search)

	v.ClearSearch()
	assert.Empty(t, v.Search)
}

func TestParsers(t *testing.T) {
	f, ok := ParseSortField(" Company ")
	assert.True(t, ok)
	assert.Equal(t, SortCompany, f)

	_, ok = ParseSortField("address")
	assert.False(t, ok)

	assert.Equal(t, Desc, ParseSortDirection("DESC"))
	assert.Equal(t, Asc, ParseSortDirection("sideways"))

	m, ok := ParseViewMode("cards")
	assert.True(t, ok)
	assert.Equal(t, ModeCards, m)

	_, ok = ParseViewMode("grid")
	assert.False(t, ok)
}
