package models

import "time"

type Comment struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	ArticleID uint      `json:"articleId" gorm:"not null;index"`
	Article   *Article  `json:"article,omitempty" gorm:"foreignKey:ArticleID"`
	Votes     []Vote    `json:"votes,omitempty" gorm:"foreignKey:CommentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}
