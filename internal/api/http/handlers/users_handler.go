package handlers

import (
	"net/http"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/oauth2"

	"github.com/spec-kit/membership-service/internal/api/dto"
	"github.com/spec-kit/membership-service/internal/auth"
	"github.com/spec-kit/membership-service/internal/service"
	apperrors "github.com/spec-kit/membership-service/pkg/util"
)

// UsersHandler exposes account, auth and profile endpoints.
type UsersHandler struct {
	authService *service.AuthService
	userService *service.UserService
	google      *oauth2.Config
	states      *auth.StateStore
	frontendURL string
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService, userService *service.UserService, google *oauth2.Config, states *auth.StateStore, frontendURL string) *UsersHandler {
	return &UsersHandler{
		authService: authService,
		userService: userService,
		google:      google,
		states:      states,
		frontendURL: frontendURL,
	}
}

// Register handles POST /users/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.FirstName == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("firstName, email and password are required", nil)
	}

	user, err := h.authService.Register(c.UserContext(), req.FirstName, req.LastName, req.Email, req.Password)
	if err != nil {
		return err
	}
	token, exp, err := h.authService.TokenManager().GenerateToken(user)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"user": dto.NewUserResponse(user),
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Login handles POST /users/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password are required", nil)
	}

	user, token, exp, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": dto.NewUserResponse(user),
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// ForgotPassword handles POST /users/forgot-password. The response does
// not reveal whether the address has an account.
func (h *UsersHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" {
		return apperrors.NewValidationError("email is required", nil)
	}

	if err := h.authService.ForgotPassword(c.UserContext(), req.Email); err != nil {
		return err
	}
	return c.Status(http.StatusAccepted).JSON(fiber.Map{
		"message": "if an account exists for that email, a reset link has been sent",
	})
}

// ResetPassword handles PUT /users/reset-password/:token.
func (h *UsersHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Password == "" {
		return apperrors.NewValidationError("password is required", nil)
	}

	if err := h.authService.ResetPassword(c.UserContext(), c.Params("token"), req.Password); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "password updated"})
}

// GoogleRedirect handles GET /users/google and sends the browser to the
// Google consent screen with a single-use state nonce.
func (h *UsersHandler) GoogleRedirect(c *fiber.Ctx) error {
	state, err := h.states.Issue(c.UserContext())
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.Redirect(h.google.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// GoogleCallback handles GET /users/google/callback: it verifies the
// state nonce, exchanges the code, upserts the account and redirects to
// the frontend with a bearer token.
func (h *UsersHandler) GoogleCallback(c *fiber.Ctx) error {
	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		return apperrors.NewValidationError("state and code are required", nil)
	}

	ok, err := h.states.Consume(c.UserContext(), state)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if !ok {
		return apperrors.NewUnauthorized("invalid oauth state")
	}

	profile, err := auth.FetchGoogleProfile(c.UserContext(), h.google, code)
	if err != nil {
		return apperrors.NewUnauthorized("google sign-in failed")
	}

	_, token, _, err := h.authService.OAuthLogin(c.UserContext(), profile.Email, profile.GivenName, profile.FamilyName)
	if err != nil {
		return err
	}

	target := h.frontendURL + "/auth/callback?token=" + url.QueryEscape(token)
	return c.Redirect(target, http.StatusTemporaryRedirect)
}

// GetProfile handles GET /users/get-profile.
func (h *UsersHandler) GetProfile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	user, err := h.userService.GetProfile(c.UserContext(), principal.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// UpdateProfile handles PUT /users/user-profile.
func (h *UsersHandler) UpdateProfile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.userService.UpdateProfile(c.UserContext(), principal.ID, service.ProfileUpdateInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Email:     req.Email,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// DeleteAccount handles DELETE /users/delete-account.
func (h *UsersHandler) DeleteAccount(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.userService.DeleteAccount(c.UserContext(), principal.ID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "account deleted"})
}

// CreateAdmin handles POST /users/create-admin.
func (h *UsersHandler) CreateAdmin(c *fiber.Ctx) error {
	var req dto.CreateAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.FirstName == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("firstName, email and password are required", nil)
	}

	user, err := h.userService.CreateAdmin(c.UserContext(), req.FirstName, req.LastName, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// GetAll handles GET /users/get-all.
func (h *UsersHandler) GetAll(c *fiber.Ctx) error {
	users, err := h.userService.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponses(users)})
}

// DeleteUser handles DELETE /users/delete-user/:id.
func (h *UsersHandler) DeleteUser(c *fiber.Ctx) error {
	if err := h.userService.DeleteUser(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "user deleted"})
}
