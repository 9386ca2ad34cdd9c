package models

import (
	"strings"
	"time"
)

type VoteType string

const (
	VoteUp   VoteType = "upvote"
	VoteDown VoteType = "downvote"
)

// ParseVoteType accepts upvote/downvote in any letter case.
func ParseVoteType(s string) (VoteType, bool) {
	switch VoteType(strings.ToLower(strings.TrimSpace(s))) {
	case VoteUp:
		return VoteUp, true
	case VoteDown:
		return VoteDown, true
	}
	return "", false
}

type Vote struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	VoteType  VoteType  `json:"voteType" gorm:"type:varchar(10);not null"`
	IPAddress string    `json:"ipAddress" gorm:"size:15;not null"`
	CommentID uint      `json:"commentId" gorm:"not null;index"`
	Comment   *Comment  `json:"-" gorm:"foreignKey:CommentID"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

// VoteTally is derived from the votes of one comment, it is never stored.
type VoteTally struct {
	CommentID uint  `json:"commentId"`
	Upvotes   int64 `json:"upvotes"`
	Downvotes int64 `json:"downvotes"`
}
