package handlers

import (
	"blog-cms/helper"
	"blog-cms/models"
	"blog-cms/services"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct {
	voteService services.VoteService
	Helper      *helper.HTTPHelper
}

func NewVoteHandler(voteService services.VoteService, h *helper.HTTPHelper) *VoteHandler {
	return &VoteHandler{voteService: voteService, Helper: h}
}

// CastVote godoc
// @Summary      Vote on a comment
// @Tags         votes
// @Accept       json
// @Produce      json
// @Param        id    path      int                     true  "comment id"
// @Param        body  body      models.CastVoteRequest  true  "vote"
// @Success      201   {object}  models.Vote
// @Failure      400   {object}  map[string]interface{}
// @Failure      404   {object}  map[string]interface{}
// @Router       /comments/{id}/vote [post]
func (h *VoteHandler) CastVote(c *gin.Context) {
	commentID, ok := pathID(c, "id")
	if !ok {
		h.Helper.SendBadRequest(c, "Invalid comment ID", h.Helper.EmptyJsonMap())
		return
	}

	var req models.CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, "Invalid request body", err.Error())
		return
	}

	vote, err := h.voteService.Cast(c.Request.Context(), commentID, req)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendCreated(c, "Vote recorded", vote)
}

// GetTally godoc
// @Summary      Vote counts of a comment
// @Tags         votes
// @Produce      json
// @Param        id   path      int  true  "comment id"
// @Success      200  {object}  models.VoteTally
// @Failure      404  {object}  map[string]interface{}
// @Router       /comments/{id}/votes [get]
func (h *VoteHandler) GetTally(c *gin.Context) {
	commentID, ok := pathID(c, "id")
	if !ok {
		h.Helper.SendBadRequest(c, "Invalid comment ID", h.Helper.EmptyJsonMap())
		return
	}

	tally, err := h.voteService.Tally(c.Request.Context(), commentID)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "", tally)
}
