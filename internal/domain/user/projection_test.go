package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter(t *testing.T) {
	users := sampleUsers()

	tests := []struct {
		name     string
		term     string
		expected []int64
	}{
		{name: "empty term keeps all", term: "", expected: []int64{1, 2, 3, 10}},
		{name: "name match ignores case", term: "LEANNE", expected: []int64{1}},
		{name: "email match", term: "melissa.tv", expected: []int64{2}},
		{name: "company match", term: "romaguera", expected: []int64{1, 3}},
		{name: "no match", term: "nobody-here-xyz", expected: []int64{}},
		{name: "username is not searched", term: "Antonette", expected: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ids(Filter(users, tt.term)))
		})
	}
}

func TestFilter_DoesNotAliasInput(t *testing.T) {
	users := sampleUsers()
	out := Filter(users, "")
	out[0].Name = "changed"

	assert.Equal(t, "Leanne Graham", users[0].Name)
}

func TestSort(t *testing.T) {
	tests := []struct {
		name     string
		field    SortField
		dir      SortDirection
		expected []int64
	}{
		{name: "id asc is numeric", field: SortID, dir: Asc, expected: []int64{1, 2, 3, 10}},
		{name: "id desc", field: SortID, dir: Desc, expected: []int64{10, 3, 2, 1}},
		{name: "name asc ignores case", field: SortName, dir: Asc, expected: []int64{3, 2, 1, 10}},
		{name: "name desc", field: SortName, dir: Desc, expected: []int64{10, 1, 2, 3}},
		{name: "company uses company name, empty first", field: SortCompany, dir: Asc, expected: []int64{10, 2, 1, 3}},
		{name: "username asc", field: SortUsername, dir: Asc, expected: []int64{2, 1, 3, 10}},
		{name: "unknown falls back to id", field: SortField("bogus"), dir: Asc, expected: []int64{1, 2, 3, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := sampleUsers()
			Sort(users, tt.field, tt.dir)
			assert.Equal(t, tt.expected, ids(users))
		})
	}
}

func TestSort_Stable(t *testing.T) {
	users := []User{
		{ID: 5, Name: "same"},
		{ID: 2, Name: "SAME"},
		{ID: 9, Name: "Same"},
	}
	Sort(users, SortName, Asc)
	assert.Equal(t, []int64{5, 2, 9}, ids(users))
}

func TestProject(t *testing.T) {
	users := sampleUsers()
	view := ViewState{Search: "romaguera", SortField: SortName, SortDirection: Desc}

	got := Project(users, view)

	assert.Equal(t, []int64{1, 3}, ids(got))
	assert.Equal(t, []int64{1, 2, 3, 10}, ids(users), "input order must be preserved")
}

func TestProject_NoMatchIsEmpty(t *testing.T) {
	got := Project(sampleUsers(), ViewState{Search: "qqqqq", SortField: SortID, SortDirection: Asc})
	assert.Empty(t, got)
}
