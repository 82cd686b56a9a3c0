package users

import "time"

type User struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber"`
	Location    string    `json:"location"`
	GoogleSub   string    `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Profile is the public part of a user shown to recruiters.
type Profile struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (u User) Profile() Profile {
	return Profile{ID: u.ID, Username: u.Username, FirstName: u.FirstName, LastName: u.LastName}
}

// UpdateInput carries a partial profile update; nil fields are left unchanged.
type UpdateInput struct {
	FirstName   *string `json:"firstName" binding:"omitempty,max=150"`
	LastName    *string `json:"lastName" binding:"omitempty,max=150"`
	Email       *string `json:"email" binding:"omitempty,email"`
	PhoneNumber *string `json:"phoneNumber" binding:"omitempty,max=32"`
	Location    *string `json:"location" binding:"omitempty,max=255"`
}

func (in UpdateInput) apply(u User) User {
	if in.FirstName != nil {
		u.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		u.LastName = *in.LastName
	}
	if in.Email != nil {
		u.Email = *in.Email
	}
	if in.PhoneNumber != nil {
		u.PhoneNumber = *in.PhoneNumber
	}
	if in.Location != nil {
		u.Location = *in.Location
	}
	return u
}
