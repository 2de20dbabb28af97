package handlers

import (
	"fmt"
	"net/http"

	"sozluk/internal/middleware"
	"sozluk/internal/services"
	"sozluk/internal/utils"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct {
	votes    *services.VoteService
	profiles *ProfileCache
}

func NewVoteHandler(votes *services.VoteService, profiles *ProfileCache) *VoteHandler {
	return &VoteHandler{votes: votes, profiles: profiles}
}

// Vote casts, retracts or flips a vote. Anonymous visitors may vote; their
// votes live in the session.
func (h *VoteHandler) Vote(c *gin.Context) {
	entryID, err := utils.ParseID(requestValue(c, "entry_id"))
	if err != nil {
		RenderError(c, fmt.Errorf("%w: %v", services.ErrValidation, err))
		return
	}
	direction, err := services.ParseDirection(requestValue(c, "vote"))
	if err != nil {
		RenderError(c, err)
		return
	}

	actor := services.Actor{Author: middleware.CurrentAuthor(c)}
	if actor.Anonymous() {
		actor.AnonVotes = middleware.LoadAnonVotes(c)
		actor.SaveAnonVotes = func(votes services.AnonVotes) error {
			return middleware.SaveAnonVotes(c, votes)
		}
	}

	outcome, err := h.votes.Cast(c.Request.Context(), actor, entryID, direction)
	if err != nil {
		RenderError(c, err)
		return
	}

	h.profiles.Invalidate(outcome.AuthorSlug)

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"entry_id": outcome.EntryID,
		"voted":    outcome.Voted,
		"vote":     outcome.Direction,
		"score":    outcome.Score.StringFixed(2),
	})
}
