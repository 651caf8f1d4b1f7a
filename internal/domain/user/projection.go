package user

import (
	"cmp"
	"slices"
	"strings"
)

// Project derives the displayed list: users matching the search term, sorted
// by the view's sort field and direction. The input slice is not modified.
func Project(users []User, view ViewState) []User {
	out := Filter(users, view.Search)
	Sort(out, view.SortField, view.SortDirection)
	return out
}

// Filter keeps users whose name, email or company name contains term,
// ignoring case. An empty term keeps everyone. The result is a new slice.
func Filter(users []User, term string) []User {
	out := make([]User, 0, len(users))
	if term == "" {
		return append(out, users...)
	}

	needle := strings.ToLower(term)
	for _, u := range users {
		if matches(u, needle) {
			out = append(out, u)
		}
	}
	return out
}

func matches(u User, needle string) bool {
	return strings.Contains(strings.ToLower(u.Name), needle) ||
		strings.Contains(strings.ToLower(u.Email), needle) ||
		(u.Company.Name != "" && strings.Contains(strings.ToLower(u.Company.Name), needle))
}

// Sort orders users in place. Numeric fields compare numerically, string
// fields compare case-insensitively. Equal keys keep their relative order.
func Sort(users []User, field SortField, dir SortDirection) {
	if !sortFields[field] {
		field = SortID
	}

	slices.SortStableFunc(users, func(a, b User) int {
		c := compareBy(a, b, field)
		if dir == Desc {
			return -c
		}
		return c
	})
}

func compareBy(a, b User, field SortField) int {
	if field == SortID {
		return cmp.Compare(a.ID, b.ID)
	}
	return cmp.Compare(strings.ToLower(sortKey(a, field)), strings.ToLower(sortKey(b, field)))
}

func sortKey(u User, field SortField) string {
	switch field {
	case SortName:
		return u.Name
	case SortUsername:
		return u.Username
	case SortEmail:
		return u.Email
	case SortPhone:
		return u.Phone
	case SortWebsite:
		return u.Website
	case SortCompany:
		return u.Company.Name
	}
	return ""
}
