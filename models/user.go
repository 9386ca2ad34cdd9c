package models

import (
	"time"
)

type UserRole string

const RoleUser UserRole = "user"

type User struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Username  string    `json:"username" gorm:"uniqueIndex;size:20;not null"`
	Password  string    `json:"-" gorm:"not null"`
	Role      UserRole  `json:"role" gorm:"default:'user'"`
	Name      string    `json:"name,omitempty"`
	Surname   string    `json:"surname,omitempty"`
	Image     string    `json:"image,omitempty" gorm:"type:text"`
	Articles  []Article `json:"articles,omitempty" gorm:"foreignKey:AuthorID"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Profile is the public projection of a User returned by /users/me.
type Profile struct {
	Username string   `json:"username"`
	Name     string   `json:"name"`
	Surname  string   `json:"surname"`
	Role     UserRole `json:"role"`
	Image    string   `json:"image"`
}

func (u *User) Profile() Profile {
	return Profile{
		Username: u.Username,
		Name:     u.Name,
		Surname:  u.Surname,
		Role:     u.Role,
		Image:    u.Image,
	}
}
