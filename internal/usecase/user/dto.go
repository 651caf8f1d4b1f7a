package user

import (
	domain "user-console/internal/domain/user"
)

// UserInput is the editable part of a user as submitted by a form or the
// JSON API. ID is deliberately absent: it is assigned remotely and never edited.
type UserInput struct {
	Name        string `validate:"required"`
	Username    string `validate:"required"`
	Email       string `validate:"required,email_pattern"`
	Phone       string `validate:"phone_chars"`
	Website     string `validate:"omitempty,website_url"`
	Street      string
	Suite       string
	City        string
	Zipcode     string
	CompanyName string
}

// InputFromUser fills a UserInput with the current values of u.
func InputFromUser(u domain.User) UserInput {
	return UserInput{
		Name:        u.Name,
		Username:    u.Username,
		Email:       u.Email,
		Phone:       u.Phone,
		Website:     u.Website,
		Street:      u.Address.Street,
		Suite:       u.Address.Suite,
		City:        u.Address.City,
		Zipcode:     u.Address.Zipcode,
		CompanyName: u.Company.Name,
	}
}

// toUser builds the domain user carrying id.
func (in UserInput) toUser(id int64) domain.User {
	return domain.User{
		ID:       id,
		Name:     in.Name,
		Username: in.Username,
		Email:    in.Email,
		Phone:    in.Phone,
		Website:  in.Website,
		Address: domain.Address{
			Street:  in.Street,
			Suite:   in.Suite,
			City:    in.City,
			Zipcode: in.Zipcode,
		},
		Company: domain.Company{Name: in.CompanyName},
	}
}

// CreateUserRequest represents the request payload for creating a new user.
type CreateUserRequest struct {
	UserInput
}

// UpdateUserRequest represents the request payload for updating an existing user.
type UpdateUserRequest struct {
	ID int64
	UserInput
}

// ListUsersRequest carries the list page interactions. Every field is
// optional; zero values leave the session's view state unchanged.
type ListUsersRequest struct {
	Search        *string // new search box value
	ClearSearch   bool
	ToggleSort    string // column header click
	SortField     string // explicit sort, used by the JSON API
	SortDirection string
	Mode          string // "table" or "cards"
	MobileHint    bool   // client reported a small screen
	ReadOnly      bool   // project on a copy; the session's view state is not changed
}

// ListUsersResponse represents the projected list.
type ListUsersResponse struct {
	Users []domain.User
	Total int // users in the session before filtering
	View  domain.ViewState
	Empty bool // the projection is empty
}
