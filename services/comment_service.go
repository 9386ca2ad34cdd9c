package services

import (
	"context"

	"blog-cms/metrics"
	"blog-cms/models"
	"blog-cms/repositories"
)

// Notifier is told about new comments and votes after they are persisted.
// Implementations must not block the caller or report delivery failures.
type Notifier interface {
	CommentAdded(ctx context.Context, comment *models.Comment)
	VoteAdded(ctx context.Context, vote *models.Vote)
}

type CommentService interface {
	Add(ctx context.Context, articleID uint, req models.CreateCommentRequest) (*models.Comment, error)
	List(ctx context.Context, articleID uint) ([]models.Comment, error)
}

type commentService struct {
	commentRepo repositories.CommentRepository
	articleRepo repositories.ArticleRepository
	validator   *Validator
	notifier    Notifier
}

func NewCommentService(commentRepo repositories.CommentRepository, articleRepo repositories.ArticleRepository, validator *Validator, notifier Notifier) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		articleRepo: articleRepo,
		validator:   validator,
		notifier:    notifier,
	}
}

func (s *commentService) Add(ctx context.Context, articleID uint, req models.CreateCommentRequest) (*models.Comment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	article, err := s.articleRepo.GetByID(ctx, articleID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Content:   req.Content,
		ArticleID: article.ID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	metrics.CommentsCreatedTotal.Inc()

	s.notifier.CommentAdded(ctx, comment)
	return comment, nil
}

func (s *commentService) List(ctx context.Context, articleID uint) ([]models.Comment, error) {
	return s.commentRepo.ListByArticle(ctx, articleID)
}
