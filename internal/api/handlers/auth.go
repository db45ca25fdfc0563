package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dom/libriverse/internal/api/middleware"
	"github.com/dom/libriverse/internal/api/response"
	"github.com/dom/libriverse/internal/config"
	"github.com/dom/libriverse/internal/domain"
	"github.com/dom/libriverse/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	userService *service.UserService
	cfg         *config.Config
}

func NewAuthHandler(authService *service.AuthService, userService *service.UserService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		cfg:         cfg,
	}
}

type SignupRequest struct {
	Username       string `json:"username" validate:"required,min=2"`
	Email          string `json:"email" validate:"required,min=6,max=60,email,emailtld"`
	Password       string `json:"password" validate:"required,specialchar"`
	Bio            string `json:"bio"`
	ProfilePicture string `json:"profilePicture" validate:"omitempty,url"`
}

type SigninRequest struct {
	Email    string `json:"email" validate:"required,min=6,max=60,email,emailtld"`
	Password string `json:"password" validate:"required,specialchar"`
}

type SigninResponse struct {
	Success   bool         `json:"success"`
	Message   string       `json:"message"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	Data      *domain.User `json:"data"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if !decode(w, r, &req) {
		return
	}

	user, err := h.authService.Signup(r.Context(), service.SignupInput{
		Username:       req.Username,
		Email:          req.Email,
		Password:       req.Password,
		Bio:            req.Bio,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		handleServiceError(w, r, "handlers.Signup", err)
		return
	}

	response.Success(w, r, http.StatusCreated,
		fmt.Sprintf("Your account for %s has been created successfully", user.Email), user)
}

func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req SigninRequest
	if !decode(w, r, &req) {
		return
	}

	result, err := h.authService.Signin(r.Context(), service.SigninInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		handleServiceError(w, r, "handlers.Signin", err)
		return
	}

	http.SetCookie(w, middleware.SessionCookie(result.Token, h.cfg))
	response.JSON(w, r, http.StatusOK, SigninResponse{
		Success:   true,
		Message:   "Logged in successfully",
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		Data:      result.User,
	})
}

func (h *AuthHandler) Signout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, middleware.ClearSessionCookie(h.cfg))
	response.Success(w, r, http.StatusOK, "Logged out successfully", nil)
}

// CurrentUser returns the caller's profile with favorites and follows.
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	profile, err := h.userService.GetProfile(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, "handlers.CurrentUser", err)
		return
	}
	response.Success(w, r, http.StatusOK, "User fetched successfully", profile)
}

// UserInfo is the public profile of any user.
func (h *AuthHandler) UserInfo(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userId", "User ID")
	if !ok {
		return
	}

	profile, err := h.userService.GetPublicProfile(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, "handlers.UserInfo", err)
		return
	}
	response.Success(w, r, http.StatusOK, "User fetched successfully", profile)
}
