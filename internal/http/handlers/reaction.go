package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/reactions-backend/internal/data/repos"
	"github.com/yungbote/reactions-backend/internal/http/middleware"
	"github.com/yungbote/reactions-backend/internal/http/response"
	"github.com/yungbote/reactions-backend/internal/services"
	"github.com/yungbote/reactions-backend/internal/types"
)

type ReactionHandler struct {
	reactionService services.ReactionService
	feed            repos.FeedEntryRepo
	notifications   repos.NotificationRepo
}

func NewReactionHandler(reactionService services.ReactionService, feed repos.FeedEntryRepo, notifications repos.NotificationRepo) *ReactionHandler {
	return &ReactionHandler{
		reactionService: reactionService,
		feed:            feed,
		notifications:   notifications,
	}
}

// POST /posts/:id/reactions
// body: { "kind": "like" }
func (rh *ReactionHandler) React(c *gin.Context) {
	actorID, ok := middleware.UserID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing caller identity"))
		return
	}
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_post_id", err)
		return
	}
	var req struct {
		Kind string `json:"kind"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if req.Kind == "" {
		req.Kind = types.ReactionKindLike
	}

	reaction, _, err := rh.reactionService.React(c.Request.Context(), actorID, postID, req.Kind)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPostNotFound):
			response.RespondError(c, http.StatusNotFound, "post_not_found", err)
		case errors.Is(err, services.ErrAlreadyReacted):
			response.RespondError(c, http.StatusConflict, "already_reacted", err)
		case errors.Is(err, services.ErrUnsupportedKind):
			response.RespondError(c, http.StatusBadRequest, "unsupported_kind", err)
		default:
			response.RespondError(c, http.StatusBadRequest, "react_failed", err)
		}
		return
	}
	// The decision stays server-side: the response never betrays whether
	// the reaction was phantom.
	response.RespondOK(c, gin.H{"reaction": reaction})
}

// DELETE /posts/:id/reactions/:kind
func (rh *ReactionHandler) Unreact(c *gin.Context) {
	actorID, ok := middleware.UserID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing caller identity"))
		return
	}
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_post_id", err)
		return
	}
	kind := c.Param("kind")
	if kind == "" {
		kind = types.ReactionKindLike
	}

	if _, err := rh.reactionService.Unreact(c.Request.Context(), actorID, postID, kind); err != nil {
		switch {
		case errors.Is(err, services.ErrPostNotFound):
			response.RespondError(c, http.StatusNotFound, "post_not_found", err)
		case errors.Is(err, services.ErrNotReacted):
			response.RespondError(c, http.StatusNotFound, "reaction_not_found", err)
		case errors.Is(err, services.ErrUnsupportedKind):
			response.RespondError(c, http.StatusBadRequest, "unsupported_kind", err)
		default:
			response.RespondError(c, http.StatusBadRequest, "unreact_failed", err)
		}
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// GET /users/:id/counters
func (rh *ReactionHandler) GetCounters(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
		return
	}
	counter, err := rh.reactionService.CountersFor(c.Request.Context(), userID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "counters_failed", err)
		return
	}
	response.RespondOK(c, gin.H{
		"user_id":  counter.UserID,
		"given":    counter.GivenCount,
		"received": counter.ReceivedCount,
	})
}

// GET /me/feed
func (rh *ReactionHandler) GetFeed(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing caller identity"))
		return
	}
	entries, err := rh.feed.ListByUserID(c.Request.Context(), nil, userID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "feed_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"entries": entries})
}

// GET /me/notifications
func (rh *ReactionHandler) GetNotifications(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing caller identity"))
		return
	}
	rows, err := rh.notifications.ListByRecipientID(c.Request.Context(), nil, userID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "notifications_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"notifications": rows})
}
