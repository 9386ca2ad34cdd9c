// Package graph exposes the article, comment and vote services over GraphQL.
package graph

import (
	"fmt"

	"blog-cms/models"
	"blog-cms/services"

	"github.com/graphql-go/graphql"
)

type Resolver struct {
	Articles services.ArticleService
	Comments services.CommentService
	Votes    services.VoteService
}

var userType = graphql.NewObject(graphql.ObjectConfig{
	Name: "User",
	Fields: graphql.Fields{
		"id":       &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"username": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"name":     &graphql.Field{Type: graphql.String},
		"surname":  &graphql.Field{Type: graphql.String},
	},
})

var articleType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Article",
	Fields: graphql.Fields{
		"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"title":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"perex":     &graphql.Field{Type: graphql.String},
		"content":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"image":     &graphql.Field{Type: graphql.String},
		"thumbnail": &graphql.Field{Type: graphql.String},
		"authorId":  &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"author":    &graphql.Field{Type: userType},
		"createdAt": &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
	},
})

var commentType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Comment",
	Fields: graphql.Fields{
		"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"content":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"articleId": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"article":   &graphql.Field{Type: articleType},
		"createdAt": &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
	},
})

var voteType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Vote",
	Fields: graphql.Fields{
		"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"voteType":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"ipAddress": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"commentId": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"createdAt": &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
	},
})

var tallyType = graphql.NewObject(graphql.ObjectConfig{
	Name: "VoteTally",
	Fields: graphql.Fields{
		"commentId": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"upvotes":   &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"downvotes": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
	},
})

func nonNullInt() *graphql.ArgumentConfig {
	return &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)}
}

func nonNullString() *graphql.ArgumentConfig {
	return &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)}
}

// NewSchema builds the schema. Resolvers call the same services as the REST
// handlers; createArticle reads the identity attached to the request context.
func NewSchema(r Resolver) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"articles": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(articleType))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.Articles.FindAll(p.Context)
				},
			},
			"article": &graphql.Field{
				Type: articleType,
				Args: graphql.FieldConfigArgument{"id": nonNullInt()},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := idArg(p, "id")
					if err != nil {
						return nil, err
					}
					return r.Articles.FindOne(p.Context, id)
				},
			},
			"comments": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(commentType))),
				Args: graphql.FieldConfigArgument{"articleId": nonNullInt()},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := idArg(p, "articleId")
					if err != nil {
						return nil, err
					}
					return r.Comments.List(p.Context, id)
				},
			},
			"tally": &graphql.Field{
				Type: tallyType,
				Args: graphql.FieldConfigArgument{"commentId": nonNullInt()},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := idArg(p, "commentId")
					if err != nil {
						return nil, err
					}
					return r.Votes.Tally(p.Context, id)
				},
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createArticle": &graphql.Field{
				Type: articleType,
				Args: graphql.FieldConfigArgument{
					"title":   nonNullString(),
					"perex":   &graphql.ArgumentConfig{Type: graphql.String},
					"content": nonNullString(),
					"image":   &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					req := models.CreateArticleRequest{
						Title:   stringArg(p, "title"),
						Perex:   stringArg(p, "perex"),
						Content: stringArg(p, "content"),
						Image:   stringArg(p, "image"),
					}
					return r.Articles.Create(p.Context, services.IdentityFrom(p.Context), req)
				},
			},
			"addComment": &graphql.Field{
				Type: commentType,
				Args: graphql.FieldConfigArgument{
					"articleId": nonNullInt(),
					"content":   nonNullString(),
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := idArg(p, "articleId")
					if err != nil {
						return nil, err
					}
					return r.Comments.Add(p.Context, id, models.CreateCommentRequest{Content: stringArg(p, "content")})
				},
			},
			"vote": &graphql.Field{
				Type: voteType,
				Args: graphql.FieldConfigArgument{
					"commentId": nonNullInt(),
					"voteType":  nonNullString(),
					"ipAddress": nonNullString(),
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := idArg(p, "commentId")
					if err != nil {
						return nil, err
					}
					return r.Votes.Cast(p.Context, id, models.CastVoteRequest{
						VoteType:  stringArg(p, "voteType"),
						IPAddress: stringArg(p, "ipAddress"),
					})
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query, Mutation: mutation})
}

func idArg(p graphql.ResolveParams, name string) (uint, error) {
	v, _ := p.Args[name].(int)
	if v <= 0 {
		return 0, models.ErrorValidation{Message: fmt.Sprintf("%s must be a positive integer", name)}
	}
	return uint(v), nil
}

func stringArg(p graphql.ResolveParams, name string) string {
	s, _ := p.Args[name].(string)
	return s
}
