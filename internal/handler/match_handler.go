/*
Package handler provides the HTTP handlers and routing setup for the SkillSwap server.

This file contains the thin HTTP adapter over the match engine. The engine
itself is a pure computation; this handler only resolves the caller's identity
and translates the result or error into an HTTP response.
*/
package handler

import (
	"net/http"

	"skillswap/internal/pkg/auth/jwt"
	"skillswap/internal/pkg/errs"
	"skillswap/internal/pkg/resp"
)

// HandleGetMatches returns the caller's ranked skill matches plus the advice string.
func HandleGetMatches(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		result, customErr := deps.Engine.ComputeMatches(r.Context(), identity.ID)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, result)
	}
}
