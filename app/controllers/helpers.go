// Package controllers translates HTTP requests into service calls and
// service results into the response envelope.
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/shashiranjanraj/roastery/app/services"
	"github.com/shashiranjanraj/roastery/pkg/logger"
	"github.com/shashiranjanraj/roastery/pkg/response"
	"github.com/shashiranjanraj/roastery/pkg/router"
)

// idParam parses the {id} route parameter.
func idParam(r *http.Request) (uint, bool) {
	raw := router.Param(r, "id")
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// pageParams reads ?page and ?limit, leaving normalisation to the orm layer.
func pageParams(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	return page, limit
}

// respondServiceError maps the service error taxonomy onto the envelope.
// Internal detail goes to the request log, never to the client.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *services.ValidationError
	if errors.As(err, &ve) {
		response.ValidationError(w, ve.Fields)
		return
	}

	var dup *services.DuplicateError
	if errors.As(err, &dup) {
		response.BadRequest(w, dup.Error())
		return
	}

	var ue *services.UploadError
	if errors.As(err, &ue) {
		if ue.Rejected {
			response.BadRequest(w, ue.Error())
			return
		}
		logger.WithCtx(r.Context()).Error("upload failed", "error", ue.Err)
		response.Internal(w, "File upload failed")
		return
	}

	switch {
	case errors.Is(err, services.ErrNotFound):
		response.NotFound(w, "")
	case errors.Is(err, services.ErrNotDeleted):
		response.BadRequest(w, "Record is not deleted")
	case errors.Is(err, services.ErrBadCredentials):
		response.Unauthorized(w, "Invalid email or password")
	default:
		logger.WithCtx(r.Context()).Error("request failed", "error", err)
		response.Internal(w, "")
	}
}
