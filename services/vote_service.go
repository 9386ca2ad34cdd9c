package services

import (
	"context"

	"blog-cms/metrics"
	"blog-cms/models"
	"blog-cms/repositories"
)

type VoteService interface {
	Cast(ctx context.Context, commentID uint, req models.CastVoteRequest) (*models.Vote, error)
	Tally(ctx context.Context, commentID uint) (*models.VoteTally, error)
}

type voteService struct {
	voteRepo    repositories.VoteRepository
	commentRepo repositories.CommentRepository
	validator   *Validator
	notifier    Notifier
}

func NewVoteService(voteRepo repositories.VoteRepository, commentRepo repositories.CommentRepository, validator *Validator, notifier Notifier) VoteService {
	return &voteService{
		voteRepo:    voteRepo,
		commentRepo: commentRepo,
		validator:   validator,
		notifier:    notifier,
	}
}

func (s *voteService) Cast(ctx context.Context, commentID uint, req models.CastVoteRequest) (*models.Vote, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	voteType, ok := models.ParseVoteType(req.VoteType)
	if !ok {
		return nil, validationError("voteType", "voteType must be either upvote or downvote")
	}

	if _, err := s.commentRepo.GetByID(ctx, commentID); err != nil {
		return nil, err
	}

	vote := &models.Vote{
		VoteType:  voteType,
		IPAddress: req.IPAddress,
		CommentID: commentID,
	}
	if err := s.voteRepo.Create(ctx, vote); err != nil {
		return nil, err
	}
	metrics.VotesCastTotal.WithLabelValues(string(voteType)).Inc()

	s.notifier.VoteAdded(ctx, vote)
	return vote, nil
}

func (s *voteService) Tally(ctx context.Context, commentID uint) (*models.VoteTally, error) {
	if _, err := s.commentRepo.GetByID(ctx, commentID); err != nil {
		return nil, err
	}
	return s.voteRepo.Tally(ctx, commentID)
}
