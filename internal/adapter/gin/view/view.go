package view

import (
	"embed"
	"html/template"
	"io/fs"
	"net/url"
	"strings"

	domain "user-console/internal/domain/user"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Templates parses the console pages with their helper functions.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs()).ParseFS(templateFS, "templates/*.html")
}

// Static returns the stylesheet directory served under /static.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Funcs returns the helpers available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"sortIndicator": SortIndicator,
		"sortURL":       SortURL,
		"ariaSort":      AriaSort,
		"fieldError":    FieldError,
		"websiteHref":   WebsiteHref,
		"columns":       func() []Column { return Columns },
	}
}

// Column is one sortable column of the users table.
type Column struct {
	Field domain.SortField
	Label string
}

// Columns lists the table columns in display order.
var Columns = []Column{
	{domain.SortID, "ID"},
	{domain.SortName, "Name"},
	{domain.SortUsername, "Username"},
	{domain.SortEmail, "Email"},
	{domain.SortPhone, "Phone"},
	{domain.SortWebsite, "Website"},
	{domain.SortCompany, "Company"},
}

// SortIndicator is the arrow next to the active sort column.
func SortIndicator(v domain.ViewState, field domain.SortField) string {
	if v.SortField != field {
		return ""
	}
	if v.SortDirection == domain.Desc {
		return "▼"
	}
	return "▲"
}

// AriaSort is the aria-sort attribute value of a column header.
func AriaSort(v domain.ViewState, field domain.SortField) string {
	if v.SortField != field {
		return "none"
	}
	if v.SortDirection == domain.Desc {
		return "descending"
	}
	return "ascending"
}

// SortURL is the link a column header follows to toggle its sort.
func SortURL(field domain.SortField) string {
	return "/users?sort=" + url.QueryEscape(string(field))
}

// FieldError returns the message for one form field, if any.
func FieldError(errs map[string]string, field string) string {
	if errs == nil {
		return ""
	}
	return errs[field]
}

// WebsiteHref turns a bare host into an absolute link. Anything that is not
// http(s) after that is dropped.
func WebsiteHref(site string) template.URL {
	site = strings.TrimSpace(site)
	if site == "" {
		return ""
	}
	if !strings.HasPrefix(site, "http://") && !strings.HasPrefix(site, "https://") {
		site = "http://" + site
	}
	u, err := url.Parse(site)
	if err != nil || u.Host == "" {
		return ""
	}
	return template.URL(u.String())
}
