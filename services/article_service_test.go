package services

import (
	"context"
	"testing"

	"blog-cms/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func newArticleFixture() (ArticleService, *stubArticleRepo) {
	repo := newStubArticleRepo()
	return NewArticleService(repo, NewValidator(), zerolog.Nop()), repo
}

var (
	alice = &Identity{UserID: 1, Username: "alice123"}
	bob   = &Identity{UserID: 2, Username: "bob"}
)

func TestCreateArticleUsesRequester(t *testing.T) {
	svc, _ := newArticleFixture()

	article, err := svc.Create(context.Background(), alice, models.CreateArticleRequest{
		Title: "Hello", Perex: "lead", Content: "# body",
	})
	require.NoError(t, err)
	assert.Equal(t, alice.UserID, article.AuthorID)
	assert.False(t, article.CreatedAt.IsZero())
}

func TestCreateArticleValidation(t *testing.T) {
	svc, repo := newArticleFixture()
	ctx := context.Background()

	_, err := svc.Create(ctx, alice, models.CreateArticleRequest{Title: "No content"})
	assert.IsType(t, models.ErrorValidation{}, err)

	_, err = svc.Create(ctx, alice, models.CreateArticleRequest{Title: "   ", Content: "x"})
	assert.IsType(t, models.ErrorValidation{}, err)

	_, err = svc.Create(ctx, nil, models.CreateArticleRequest{Title: "t", Content: "c"})
	assert.IsType(t, models.ErrorUnauthorized{}, err)

	assert.Empty(t, repo.articles)
}

func TestUpdateArticle(t *testing.T) {
	svc, _ := newArticleFixture()
	ctx := context.Background()

	article, err := svc.Create(ctx, alice, models.CreateArticleRequest{Title: "Old", Content: "body"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, alice, article.ID, models.UpdateArticleRequest{Title: strPtr("New")})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Title)
	assert.Equal(t, "body", updated.Content)
	assert.Equal(t, alice.UserID, updated.AuthorID)
	assert.Equal(t, article.CreatedAt, updated.CreatedAt)
}

func TestUpdateArticleRules(t *testing.T) {
	svc, _ := newArticleFixture()
	ctx := context.Background()

	article, err := svc.Create(ctx, alice, models.CreateArticleRequest{Title: "Old", Content: "body"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, alice, article.ID, models.UpdateArticleRequest{})
	assert.IsType(t, models.ErrorValidation{}, err)

	_, err = svc.Update(ctx, alice, article.ID, models.UpdateArticleRequest{Content: strPtr("")})
	assert.IsType(t, models.ErrorValidation{}, err)

	_, err = svc.Update(ctx, bob, article.ID, models.UpdateArticleRequest{Title: strPtr("Hijack")})
	assert.IsType(t, models.ErrorForbidden{}, err)

	_, err = svc.Update(ctx, alice, 999, models.UpdateArticleRequest{Title: strPtr("x")})
	assert.IsType(t, models.ErrorNotFound{}, err)

	current, err := svc.FindOne(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, "Old", current.Title)
}

func TestDeleteArticle(t *testing.T) {
	svc, repo := newArticleFixture()
	ctx := context.Background()

	article, err := svc.Create(ctx, alice, models.CreateArticleRequest{Title: "t", Content: "c"})
	require.NoError(t, err)

	assert.IsType(t, models.ErrorForbidden{}, svc.Delete(ctx, bob, article.ID))
	require.NoError(t, svc.Delete(ctx, alice, article.ID))
	assert.Equal(t, []uint{article.ID}, repo.deleted)

	_, err = svc.FindOne(ctx, article.ID)
	assert.IsType(t, models.ErrorNotFound{}, err)
}

func TestFindArticles(t *testing.T) {
	svc, _ := newArticleFixture()
	ctx := context.Background()

	a1, _ := svc.Create(ctx, alice, models.CreateArticleRequest{Title: "a1", Content: "c"})
	b1, _ := svc.Create(ctx, bob, models.CreateArticleRequest{Title: "b1", Content: "c"})
	a2, _ := svc.Create(ctx, alice, models.CreateArticleRequest{Title: "a2", Content: "c"})

	all, err := svc.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []uint{a2.ID, b1.ID, a1.ID}, []uint{all[0].ID, all[1].ID, all[2].ID})

	mine, err := svc.FindByAuthor(ctx, alice.UserID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, a2.ID, mine[0].ID)

	first, err := svc.FindOne(ctx, a1.ID)
	require.NoError(t, err)
	again, err := svc.FindOne(ctx, a1.ID)
	require.NoError(t, err)
	assert.Equal(t, first, again)
}
