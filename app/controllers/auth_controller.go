package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/roastery/app/services"
	"github.com/shashiranjanraj/roastery/pkg/bind"
	"github.com/shashiranjanraj/roastery/pkg/response"
	"github.com/shashiranjanraj/roastery/pkg/storage"
	"github.com/shashiranjanraj/roastery/pkg/validate"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

// Signup handles POST /api/signup (multipart, avatar optional).
func (c *AuthController) Signup(w http.ResponseWriter, r *http.Request) {
	var input services.SignupInput
	files, err := bind.Multipart(r, &input, "profilePic")
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	var avatar *storage.Upload
	if len(files) > 0 {
		avatar = &files[0]
	}

	user, err := c.service.Signup(input, avatar)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	response.Created(w, user, "User registered successfully")
}

// Signin handles POST /api/signin.
func (c *AuthController) Signin(w http.ResponseWriter, r *http.Request) {
	var input services.SigninInput
	errs, err := bind.JSON(r, &input)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	if validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	user, tokens, err := c.service.Signin(input)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"user":   user,
		"tokens": tokens,
	}, "Signed in successfully")
}

// ForgetPassword handles POST /api/forget-password.
func (c *AuthController) ForgetPassword(w http.ResponseWriter, r *http.Request) {
	var input services.ForgetPasswordInput
	errs, err := bind.JSON(r, &input)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	if validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	if err := c.service.ForgetPassword(input); err != nil {
		respondServiceError(w, r, err)
		return
	}

	response.Success(w, nil, "Password reset successfully")
}
