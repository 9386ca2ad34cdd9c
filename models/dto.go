package models

type RegisterRequest struct {
	Username string `json:"username" form:"username" validate:"required,min=3,max=20"`
	Password string `json:"password" form:"password" validate:"required,min=6,password"`
	Name     string `json:"name" form:"name"`
	Surname  string `json:"surname" form:"surname"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	AccessToken string `json:"access_token"`
	UserID      uint   `json:"userId"`
}

type UpdateImageRequest struct {
	Image string `json:"image" validate:"required,datauri_image"`
}

// CreateArticleRequest carries no author field: the author is always the requester.
type CreateArticleRequest struct {
	Title     string `json:"title" form:"title" validate:"required,notblank"`
	Perex     string `json:"perex" form:"perex"`
	Content   string `json:"content" form:"content" validate:"required,notblank"`
	Image     string `json:"image" form:"-"`
	Thumbnail string `json:"-" form:"-"`
}

// UpdateArticleRequest only lists mutable fields. Nil means "leave unchanged".
type UpdateArticleRequest struct {
	Title   *string `json:"title" validate:"omitnil,notblank"`
	Perex   *string `json:"perex"`
	Content *string `json:"content" validate:"omitnil,notblank"`
	Image   *string `json:"image"`
}

func (r UpdateArticleRequest) Empty() bool {
	return r.Title == nil && r.Perex == nil && r.Content == nil && r.Image == nil
}

type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,notblank"`
}

type CastVoteRequest struct {
	VoteType  string `json:"voteType" validate:"required"`
	IPAddress string `json:"ipAddress" validate:"required,ipv4_dotted"`
}
