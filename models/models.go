package models

import "github.com/jinzhu/gorm"

type User struct {
	gorm.Model
	Name     string
	Email    string `gorm:"unique_index;not null"`
	Password string
	Links    []Link `gorm:"foreignkey:PostedByID"`
}

type Link struct {
	gorm.Model
	URL         string
	Description string
	PostedByID  *uint
	Comments    []Comment `gorm:"foreignkey:LinkID"`
}

// Comment.LinkID carries a real foreign key so the database rejects comments on missing links.
type Comment struct {
	gorm.Model
	Body   string
	LinkID uint `sql:"type:integer REFERENCES links(id)"`
}
