package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/roastery/app/models"
	"github.com/shashiranjanraj/roastery/app/services"
	"github.com/shashiranjanraj/roastery/pkg/bind"
	"github.com/shashiranjanraj/roastery/pkg/middleware"
	"github.com/shashiranjanraj/roastery/pkg/response"
	"github.com/shashiranjanraj/roastery/pkg/storage"
)

// profilePayload decorates the user with a resolvable avatar URL.
type profilePayload struct {
	models.User
	AvatarURL string `json:"avatarUrl,omitempty"`
}

type UserController struct {
	service *services.UserService
}

func NewUserController(service *services.UserService) *UserController {
	return &UserController{service: service}
}

// currentUserID reads the authenticated user from the request context.
func currentUserID(r *http.Request) (uint, bool) {
	claims := middleware.ClaimsFromCtx(r.Context())
	if claims == nil {
		return 0, false
	}
	return claims.UserID, true
}

// Profile handles GET /api/profile-details.
func (c *UserController) Profile(w http.ResponseWriter, r *http.Request) {
	id, ok := currentUserID(r)
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	user, err := c.service.Profile(id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	response.Success(w, profilePayload{
		User:      user,
		AvatarURL: c.service.AvatarURL(user.ProfilePic),
	}, "Profile fetched successfully")
}

// Edit handles GET /api/edit: the editable subset of the profile.
func (c *UserController) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := currentUserID(r)
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	user, err := c.service.Profile(id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	response.Success(w, services.ProfileInput{
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Age:       user.Age,
	}, "Profile fetched successfully")
}

// List handles GET /api/users?page&limit.
func (c *UserController) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)

	users, pagination, err := c.service.List(page, limit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	response.Success(w, listPayload{Items: users, Pagination: pagination}, "Users fetched successfully")
}

// Update handles POST /api/update (multipart, avatar optional).
func (c *UserController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := currentUserID(r)
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	var input services.ProfileInput
	files, err := bind.Multipart(r, &input, "profilePic")
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	var avatar *storage.Upload
	if len(files) > 0 {
		avatar = &files[0]
	}

	user, err := c.service.UpdateProfile(id, input, avatar)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	response.Success(w, profilePayload{
		User:      user,
		AvatarURL: c.service.AvatarURL(user.ProfilePic),
	}, "Profile updated successfully")
}

// Delete handles GET /api/delete: removes the authenticated account.
func (c *UserController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := currentUserID(r)
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	if err := c.service.DeleteAccount(id); err != nil {
		respondServiceError(w, r, err)
		return
	}

	response.Success(w, nil, "Account deleted successfully")
}
