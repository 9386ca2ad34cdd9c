package repositories

import (
	"context"

	"blog-cms/models"

	"gorm.io/gorm"
)

type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	GetByID(ctx context.Context, id uint) (*models.Article, error)
	List(ctx context.Context) ([]models.Article, error)
	ListByAuthor(ctx context.Context, authorID uint) ([]models.Article, error)
	Update(ctx context.Context, id uint, fields map[string]interface{}) error
	DeleteCascade(ctx context.Context, id uint) error
}

type articleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

// newest first; id breaks ties between rows created within the same clock tick
const articleOrder = "articles.created_at desc, articles.id desc"

func (r *articleRepository) Create(ctx context.Context, article *models.Article) error {
	return r.db.WithContext(ctx).Create(article).Error
}

func (r *articleRepository) GetByID(ctx context.Context, id uint) (*models.Article, error) {
	var article models.Article
	err := r.db.WithContext(ctx).
		Preload("Author").
		First(&article, id).Error
	if err != nil {
		return nil, translate(err, "article")
	}
	return &article, nil
}

func (r *articleRepository) List(ctx context.Context) ([]models.Article, error) {
	var articles []models.Article
	err := r.db.WithContext(ctx).
		Preload("Author").
		Order(articleOrder).
		Find(&articles).Error
	return articles, err
}

func (r *articleRepository) ListByAuthor(ctx context.Context, authorID uint) ([]models.Article, error) {
	var articles []models.Article
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("author_id = ?", authorID).
		Order(articleOrder).
		Find(&articles).Error
	return articles, err
}

// Update writes only the given columns. Callers restrict the keys to mutable fields.
func (r *articleRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&models.Article{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrorNotFound{Message: "article not found"}
	}
	return nil
}

// DeleteCascade removes the article with its comments and their votes atomically.
func (r *articleRepository) DeleteCascade(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		comments := tx.Model(&models.Comment{}).Select("id").Where("article_id = ?", id)

		if err := tx.Where("comment_id IN (?)", comments).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("article_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.Article{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.ErrorNotFound{Message: "article not found"}
		}
		return nil
	})
}
