package repositories

import (
	"context"

	"blog-cms/models"

	"gorm.io/gorm"
)

type VoteRepository interface {
	Create(ctx context.Context, vote *models.Vote) error
	Tally(ctx context.Context, commentID uint) (*models.VoteTally, error)
}

type voteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

func (r *voteRepository) Create(ctx context.Context, vote *models.Vote) error {
	return r.db.WithContext(ctx).Create(vote).Error
}

func (r *voteRepository) Tally(ctx context.Context, commentID uint) (*models.VoteTally, error) {
	var rows []struct {
		VoteType models.VoteType
		Count    int64
	}

	err := r.db.WithContext(ctx).
		Model(&models.Vote{}).
		Select("vote_type, COUNT(*) as count").
		Where("comment_id = ?", commentID).
		Group("vote_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	tally := &models.VoteTally{CommentID: commentID}
	for _, row := range rows {
		switch row.VoteType {
		case models.VoteUp:
			tally.Upvotes = row.Count
		case models.VoteDown:
			tally.Downvotes = row.Count
		}
	}
	return tally, nil
}
