package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"blog-cms/models"
)

type stubUserRepo struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]*models.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: map[uint]*models.User{}}
}

func (r *stubUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username {
			return models.ErrorConflict{Message: "user already exists"}
		}
	}
	r.nextID++
	user.ID = r.nextID
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, models.ErrorNotFound{Message: "user not found"}
	}
	cp := *u
	return &cp, nil
}

func (r *stubUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, models.ErrorNotFound{Message: "user not found"}
}

func (r *stubUserRepo) UpdateImage(_ context.Context, id uint, image string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return models.ErrorNotFound{Message: "user not found"}
	}
	u.Image = image
	return nil
}

func (r *stubUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

type stubArticleRepo struct {
	nextID   uint
	clock    time.Time
	articles map[uint]*models.Article
	deleted  []uint
}

func newStubArticleRepo() *stubArticleRepo {
	return &stubArticleRepo{
		clock:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		articles: map[uint]*models.Article{},
	}
}

func (r *stubArticleRepo) Create(_ context.Context, article *models.Article) error {
	r.nextID++
	r.clock = r.clock.Add(time.Second)
	article.ID = r.nextID
	article.CreatedAt = r.clock
	cp := *article
	r.articles[article.ID] = &cp
	return nil
}

func (r *stubArticleRepo) GetByID(_ context.Context, id uint) (*models.Article, error) {
	a, ok := r.articles[id]
	if !ok {
		return nil, models.ErrorNotFound{Message: "article not found"}
	}
	cp := *a
	return &cp, nil
}

func (r *stubArticleRepo) List(_ context.Context) ([]models.Article, error) {
	return r.sorted(func(models.Article) bool { return true }), nil
}

func (r *stubArticleRepo) ListByAuthor(_ context.Context, authorID uint) ([]models.Article, error) {
	return r.sorted(func(a models.Article) bool { return a.AuthorID == authorID }), nil
}

func (r *stubArticleRepo) sorted(keep func(models.Article) bool) []models.Article {
	var out []models.Article
	for _, a := range r.articles {
		if keep(*a) {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *stubArticleRepo) Update(_ context.Context, id uint, fields map[string]interface{}) error {
	a, ok := r.articles[id]
	if !ok {
		return models.ErrorNotFound{Message: "article not found"}
	}
	for k, v := range fields {
		switch k {
		case "title":
			a.Title = v.(string)
		case "perex":
			a.Perex = v.(string)
		case "content":
			a.Content = v.(string)
		case "image":
			a.Image = v.(string)
		}
	}
	return nil
}

func (r *stubArticleRepo) DeleteCascade(_ context.Context, id uint) error {
	if _, ok := r.articles[id]; !ok {
		return models.ErrorNotFound{Message: "article not found"}
	}
	delete(r.articles, id)
	r.deleted = append(r.deleted, id)
	return nil
}

type stubCommentRepo struct {
	nextID   uint
	comments map[uint]*models.Comment
}

func newStubCommentRepo() *stubCommentRepo {
	return &stubCommentRepo{comments: map[uint]*models.Comment{}}
}

func (r *stubCommentRepo) Create(_ context.Context, comment *models.Comment) error {
	r.nextID++
	comment.ID = r.nextID
	cp := *comment
	r.comments[comment.ID] = &cp
	return nil
}

func (r *stubCommentRepo) GetByID(_ context.Context, id uint) (*models.Comment, error) {
	c, ok := r.comments[id]
	if !ok {
		return nil, models.ErrorNotFound{Message: "comment not found"}
	}
	cp := *c
	return &cp, nil
}

func (r *stubCommentRepo) ListByArticle(_ context.Context, articleID uint) ([]models.Comment, error) {
	var out []models.Comment
	for id := uint(1); id <= r.nextID; id++ {
		if c, ok := r.comments[id]; ok && c.ArticleID == articleID {
			out = append(out, *c)
		}
	}
	return out, nil
}

type stubVoteRepo struct {
	votes []models.Vote
}

func (r *stubVoteRepo) Create(_ context.Context, vote *models.Vote) error {
	vote.ID = uint(len(r.votes) + 1)
	r.votes = append(r.votes, *vote)
	return nil
}

func (r *stubVoteRepo) Tally(_ context.Context, commentID uint) (*models.VoteTally, error) {
	t := &models.VoteTally{CommentID: commentID}
	for _, v := range r.votes {
		if v.CommentID != commentID {
			continue
		}
		if v.VoteType == models.VoteUp {
			t.Upvotes++
		} else {
			t.Downvotes++
		}
	}
	return t, nil
}

type recordingNotifier struct {
	mu       sync.Mutex
	comments []*models.Comment
	votes    []*models.Vote
}

func (n *recordingNotifier) CommentAdded(_ context.Context, c *models.Comment) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.comments = append(n.comments, c)
}

func (n *recordingNotifier) VoteAdded(_ context.Context, v *models.Vote) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.votes = append(n.votes, v)
}
