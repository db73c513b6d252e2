/*
Package handler provides HTTP handler functions for the user directory and the stats dashboard.
*/
package handler

import (
	"net/http"

	"skillswap/internal/app/match"
	"skillswap/internal/app/store"
	"skillswap/internal/pkg/auth/jwt"
	"skillswap/internal/pkg/errs"
	"skillswap/internal/pkg/logx"
	"skillswap/internal/pkg/resp"
)

// userSummary is the directory view of one user with their teachable skills.
type userSummary struct {
	ID           string   `json:"_id"`
	Name         string   `json:"name"`
	ProfileImage string   `json:"profileImage"`
	Location     string   `json:"location"`
	TeachSkills  []string `json:"teachSkills"`
	LastActiveAt string   `json:"lastActiveAt"`
}

// HandleListUsers returns every other user with their teachable skill names.
func HandleListUsers(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)

		users, err := deps.Store.ListOthersWithSkills(r.Context(), identity.ID, store.SkillKindTeach)
		if err != nil {
			logx.Error(err, "Failed to list users", "user_id", identity.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		summaries := make([]userSummary, 0, len(users))
		for _, u := range users {
			summaries = append(summaries, userSummary{
				ID:           u.ID,
				Name:         u.Name,
				ProfileImage: u.AvatarURL,
				Location:     u.Location,
				TeachSkills:  u.SkillNames,
				LastActiveAt: u.LastActiveAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
			})
		}

		resp.RespondSuccess(w, r, map[string]any{"users": summaries})
	}
}

// HandleTouchActivity updates the caller's last-active timestamp. The UI calls
// this periodically so the match engine's recency bonus stays meaningful.
func HandleTouchActivity(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)

		if err := deps.Store.TouchActivity(r.Context(), identity.ID); err != nil {
			logx.Error(err, "Failed to touch activity", "user_id", identity.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
			return
		}

		resp.RespondSuccess(w, r, nil)
	}
}

// HandleGetUserStats composes the caller's dashboard numbers. Matching is one
// of several sub-results here: when it fails, the empty sentinel is embedded
// instead so the aggregate never fails wholesale because matching did.
func HandleGetUserStats(deps *AppDeps) http.HandlerFunc {
	const topMatchesLimit = 3

	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)

		connectionCount, err := deps.Store.CountAcceptedConnections(r.Context(), identity.ID)
		if err != nil {
			logx.Error(err, "Failed to count connections", "user_id", identity.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		unreadCount, err := deps.Store.CountUnreadMessages(r.Context(), identity.ID)
		if err != nil {
			logx.Error(err, "Failed to count unread messages", "user_id", identity.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		matches, matchErr := deps.Engine.ComputeMatches(r.Context(), identity.ID)
		if matchErr != nil {
			logx.Warn("Match computation failed for stats, embedding empty result",
				"user_id", identity.ID, "code", matchErr.Code)
			matches = match.EmptyResult()
		}

		topMatches := matches.Matches
		if len(topMatches) > topMatchesLimit {
			topMatches = topMatches[:topMatchesLimit]
		}

		resp.RespondSuccess(w, r, map[string]any{
			"connectionCount": connectionCount,
			"unreadMessages":  unreadCount,
			"matchCount":      len(matches.Matches),
			"topMatches":      topMatches,
		})
	}
}
