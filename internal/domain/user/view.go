package user

import "strings"

// SortField names a sortable column of the user list.
type SortField string

// Sortable columns. SortCompany is virtual and sorts by Company.Name.
const (
	SortID       SortField = "id"
	SortName     SortField = "name"
	SortUsername SortField = "username"
	SortEmail    SortField = "email"
	SortPhone    SortField = "phone"
	SortWebsite  SortField = "website"
	SortCompany  SortField = "company"
)

// SortDirection is ascending or descending.
type SortDirection string

const (
	Asc  SortDirection = "asc"
	Desc SortDirection = "desc"
)

// ViewMode selects how the list is rendered.
type ViewMode string

const (
	ModeTable ViewMode = "table"
	ModeCards ViewMode = "cards"
)

var sortFields = map[SortField]bool{
	SortID: true, SortName: true, SortUsername: true, SortEmail: true,
	SortPhone: true, SortWebsite: true, SortCompany: true,
}

// ParseSortField returns the sort field named by s and whether it is known.
func ParseSortField(s string) (SortField, bool) {
	f := SortField(strings.ToLower(strings.TrimSpace(s)))
	return f, sortFields[f]
}

// ParseSortDirection returns Desc for "desc" (any case) and Asc otherwise.
func ParseSortDirection(s string) SortDirection {
	if strings.EqualFold(strings.TrimSpace(s), string(Desc)) {
		return Desc
	}
	return Asc
}

// ParseViewMode returns the view mode named by s and whether it is known.
func ParseViewMode(s string) (ViewMode, bool) {
	switch ViewMode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeTable:
		return ModeTable, true
	case ModeCards:
		return ModeCards, true
	}
	return "", false
}

// ViewState is the per-session presentation state of the user list.
type ViewState struct {
	Search        string        `json:"search"`
	SortField     SortField     `json:"sort_field"`
	SortDirection SortDirection `json:"sort_direction"`
	Mode          ViewMode      `json:"mode"`
	ModeChosen    bool          `json:"mode_chosen"` // set once the operator picked a mode explicitly
}

// DefaultViewState sorts by id ascending with no search term.
func DefaultViewState(mode ViewMode) ViewState {
	if mode == "" {
		mode = ModeTable
	}
	return ViewState{
		SortField:     SortID,
		SortDirection: Asc,
		Mode:          mode,
	}
}

// ToggleSort applies a click on a column header: the same column flips the
// direction, a different column becomes the sort key in ascending order.
// Unknown columns leave the state untouched.
func (v *ViewState) ToggleSort(field SortField) {
	if !sortFields[field] {
		return
	}
	if v.SortField == field {
		if v.SortDirection == Asc {
			v.SortDirection = Desc
		} else {
			v.SortDirection = Asc
		}
		return
	}
	v.SortField = field
	v.SortDirection = Asc
}

// SetMode switches between table and cards and remembers the choice.
func (v *ViewState) SetMode(mode ViewMode) {
	v.Mode = mode
	v.ModeChosen = true
}

// SetSearch stores the search term as typed.
func (v *ViewState) SetSearch(term string) {
	v.Search = term
}

// ClearSearch empties the search term.
func (v *ViewState) ClearSearch() {
	v.Search = ""
}
