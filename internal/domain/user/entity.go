package user

import "unicode"

// User represents a person record of the remote users directory.
type User struct {
	ID       int64   `json:"id"`       // ID is server-assigned and never edited by the console
	Name     string  `json:"name"`     // Name is the full name of the user
	Username string  `json:"username"` // Username is the login handle
	Email    string  `json:"email"`    // Email is the contact address
	Phone    string  `json:"phone"`
	Website  string  `json:"website"`
	Address  Address `json:"address"`
	Company  Company `json:"company"`
}

// Address is the optional postal address of a user.
type Address struct {
	Street  string `json:"street"`
	Suite   string `json:"suite"`
	City    string `json:"city"`
	Zipcode string `json:"zipcode"`
}

// Company is the optional employer of a user.
type Company struct {
	Name string `json:"name"`
}

// Initial returns the upper-cased first letter of the name, used as avatar text.
func (u User) Initial() string {
	for _, r := range u.Name {
		return string(unicode.ToUpper(r))
	}
	return "?"
}
