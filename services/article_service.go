package services

import (
	"context"

	"blog-cms/metrics"
	"blog-cms/models"
	"blog-cms/repositories"

	"github.com/rs/zerolog"
)

type ArticleService interface {
	Create(ctx context.Context, identity *Identity, req models.CreateArticleRequest) (*models.Article, error)
	Update(ctx context.Context, identity *Identity, id uint, req models.UpdateArticleRequest) (*models.Article, error)
	Delete(ctx context.Context, identity *Identity, id uint) error
	FindAll(ctx context.Context) ([]models.Article, error)
	FindByAuthor(ctx context.Context, authorID uint) ([]models.Article, error)
	FindOne(ctx context.Context, id uint) (*models.Article, error)
}

type articleService struct {
	articleRepo repositories.ArticleRepository
	validator   *Validator
	log         zerolog.Logger
}

func NewArticleService(articleRepo repositories.ArticleRepository, validator *Validator, log zerolog.Logger) ArticleService {
	return &articleService{
		articleRepo: articleRepo,
		validator:   validator,
		log:         log,
	}
}

func (s *articleService) Create(ctx context.Context, identity *Identity, req models.CreateArticleRequest) (*models.Article, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	// author always comes from the verified identity
	article := &models.Article{
		Title:     req.Title,
		Perex:     req.Perex,
		Content:   req.Content,
		Image:     req.Image,
		Thumbnail: req.Thumbnail,
		AuthorID:  identity.UserID,
	}

	if err := s.articleRepo.Create(ctx, article); err != nil {
		return nil, err
	}
	metrics.ArticlesCreatedTotal.Inc()

	s.log.Info().Uint("article_id", article.ID).Uint("author_id", article.AuthorID).Msg("article created")
	return s.articleRepo.GetByID(ctx, article.ID)
}

func (s *articleService) Update(ctx context.Context, identity *Identity, id uint, req models.UpdateArticleRequest) (*models.Article, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	if req.Empty() {
		return nil, models.ErrorValidation{Message: "at least one field must be provided"}
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	if _, err := s.ownedArticle(ctx, identity, id); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Perex != nil {
		fields["perex"] = *req.Perex
	}
	if req.Content != nil {
		fields["content"] = *req.Content
	}
	if req.Image != nil {
		fields["image"] = *req.Image
	}

	if err := s.articleRepo.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.articleRepo.GetByID(ctx, id)
}

func (s *articleService) Delete(ctx context.Context, identity *Identity, id uint) error {
	if err := requireIdentity(identity); err != nil {
		return err
	}
	if _, err := s.ownedArticle(ctx, identity, id); err != nil {
		return err
	}

	if err := s.articleRepo.DeleteCascade(ctx, id); err != nil {
		return err
	}

	s.log.Info().Uint("article_id", id).Uint("user_id", identity.UserID).Msg("article deleted")
	return nil
}

func (s *articleService) FindAll(ctx context.Context) ([]models.Article, error) {
	return s.articleRepo.List(ctx)
}

func (s *articleService) FindByAuthor(ctx context.Context, authorID uint) ([]models.Article, error) {
	return s.articleRepo.ListByAuthor(ctx, authorID)
}

func (s *articleService) FindOne(ctx context.Context, id uint) (*models.Article, error) {
	return s.articleRepo.GetByID(ctx, id)
}

func (s *articleService) ownedArticle(ctx context.Context, identity *Identity, id uint) (*models.Article, error) {
	article, err := s.articleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if article.AuthorID != identity.UserID {
		return nil, models.ErrorForbidden{Message: "only the author may modify this article"}
	}
	return article, nil
}
