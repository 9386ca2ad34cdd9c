package models

import (
	"time"
)

type Article struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Title     string    `json:"title" gorm:"not null"`
	Perex     string    `json:"perex"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	Image     string    `json:"image,omitempty"`
	Thumbnail string    `json:"thumbnail,omitempty"`
	AuthorID  uint      `json:"authorId" gorm:"not null;index"`
	Author    *User     `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Comments  []Comment `json:"comments,omitempty" gorm:"foreignKey:ArticleID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `json:"updatedAt"`
}
