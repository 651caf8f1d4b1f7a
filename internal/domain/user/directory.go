package user

import "encoding/json"

// Directory is the in-memory user list of one console session. It is the
// single source of truth for that session and is only mutated after the
// matching remote call has succeeded.
type Directory struct {
	users []User
}

// NewDirectory creates a directory holding a copy of users.
func NewDirectory(users []User) *Directory {
	d := &Directory{users: make([]User, len(users))}
	copy(d.users, users)
	return d
}

// Users returns a copy of the list in insertion order. A nil directory is empty.
func (d *Directory) Users() []User {
	if d == nil {
		return []User{}
	}
	out := make([]User, len(d.users))
	copy(out, d.users)
	return out
}

// Len returns the number of users held.
func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.users)
}

// Find returns the user with the given id.
func (d *Directory) Find(id int64) (User, bool) {
	if d == nil {
		return User{}, false
	}
	for _, u := range d.users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

// FindByEmail returns the first user whose email equals email exactly.
func (d *Directory) FindByEmail(email string) (User, bool) {
	if d == nil {
		return User{}, false
	}
	for _, u := range d.users {
		if u.Email == email {
			return u, true
		}
	}
	return User{}, false
}

// Append adds a newly created user. A user already present under the same id
// is replaced in place instead, so ids stay unique.
func (d *Directory) Append(u User) {
	if d.Replace(u) {
		return
	}
	d.users = append(d.users, u)
}

// Replace swaps the user carrying u.ID for u. It reports whether one was found.
func (d *Directory) Replace(u User) bool {
	for i := range d.users {
		if d.users[i].ID == u.ID {
			d.users[i] = u
			return true
		}
	}
	return false
}

// Remove drops the user with the given id and no other. It reports whether
// one was found.
func (d *Directory) Remove(id int64) bool {
	for i := range d.users {
		if d.users[i].ID == id {
			d.users = append(d.users[:i], d.users[i+1:]...)
			return true
		}
	}
	return false
}

// MarshalJSON encodes the directory as a plain JSON array of users.
func (d *Directory) MarshalJSON() ([]byte, error) {
	if d.users == nil {
		return json.Marshal([]User{})
	}
	return json.Marshal(d.users)
}

// UnmarshalJSON decodes a JSON array of users into the directory.
func (d *Directory) UnmarshalJSON(data []byte) error {
	var users []User
	if err := json.Unmarshal(data, &users); err != nil {
		return err
	}
	d.users = users
	return nil
}
