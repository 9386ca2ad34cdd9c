package handlers

import (
	"net/http"

	"blog-cms/helper"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
)

type graphQLRequest struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

type GraphQLHandler struct {
	schema graphql.Schema
	Helper *helper.HTTPHelper
}

func NewGraphQLHandler(schema graphql.Schema, h *helper.HTTPHelper) *GraphQLHandler {
	return &GraphQLHandler{schema: schema, Helper: h}
}

// Execute godoc
// @Summary      GraphQL endpoint
// @Description  Queries: articles, article, comments, tally. Mutations: createArticle (bearer), addComment, vote.
// @Tags         graphql
// @Accept       json
// @Produce      json
// @Router       /graphql [post]
func (h *GraphQLHandler) Execute(c *gin.Context) {
	var req graphQLRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Query == "" {
		h.Helper.SendBadRequest(c, "A GraphQL query is required", h.Helper.EmptyJsonMap())
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        c.Request.Context(),
	})

	// GraphQL reports resolver errors in the body, not the status
	c.JSON(http.StatusOK, result)
}
