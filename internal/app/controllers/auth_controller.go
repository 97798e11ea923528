package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/app/models/dto"
	"github.com/yigit/placement/internal/middleware"
)

// AuthService is what AuthController needs from the auth service
type AuthService interface {
	RegisterStudent(ctx context.Context, req *dto.RegisterStudentRequest) (int64, error)
	RegisterOfficer(ctx context.Context, req *dto.RegisterOfficerRequest) (int64, error)
	Login(ctx context.Context, role models.RoleType, req *dto.LoginRequest) (*dto.LoginResponse, error)
}

const credentialsMissing = "Email and password required"

// AuthController handles registration and login of both roles
type AuthController struct {
	authService AuthService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService AuthService, logger zerolog.Logger) *AuthController {
	return &AuthController{authService: authService, logger: logger}
}

// RegisterStudent handles student registration
// @Summary Register a student
// @Description Creates a student account. The email and university roll must be unused.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterStudentRequest true "Student registration"
// @Success 201 {object} dto.RegisterResponse
// @Failure 400 {object} dto.ErrorResponse "All fields required"
// @Failure 409 {object} dto.ErrorResponse "Email or university roll already exists"
// @Router /student/register [post]
func (ac *AuthController) RegisterStudent(c *gin.Context) {
	var req dto.RegisterStudentRequest
	if !middleware.BindJSON(c, &req, dto.MissingFieldsMessage) {
		return
	}

	id, err := ac.authService.RegisterStudent(c.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.RegisterResponse{
		Message:   "Student registered successfully",
		StudentID: id,
	})
}

// RegisterOfficer handles officer registration
// @Summary Register a placement officer
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterOfficerRequest true "Officer registration"
// @Success 201 {object} dto.RegisterResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Router /officer/register [post]
func (ac *AuthController) RegisterOfficer(c *gin.Context) {
	var req dto.RegisterOfficerRequest
	if !middleware.BindJSON(c, &req, dto.MissingFieldsMessage) {
		return
	}

	id, err := ac.authService.RegisterOfficer(c.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.RegisterResponse{
		Message:   "Officer registered successfully",
		OfficerID: id,
	})
}

// LoginStudent godoc
// @Summary Student login
// @Description Returns a Bearer token valid for 8 hours. Rate limited per client IP.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse "Email and password required"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 429 {object} dto.ErrorResponse
// @Router /student/login [post]
func (ac *AuthController) LoginStudent(c *gin.Context) {
	ac.login(c, models.RoleStudent)
}

// LoginOfficer godoc
// @Summary Officer login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 429 {object} dto.ErrorResponse
// @Router /officer/login [post]
func (ac *AuthController) LoginOfficer(c *gin.Context) {
	ac.login(c, models.RoleOfficer)
}

func (ac *AuthController) login(c *gin.Context, role models.RoleType) {
	var req dto.LoginRequest
	if !middleware.BindJSON(c, &req, credentialsMissing) {
		return
	}

	resp, err := ac.authService.Login(c.Request.Context(), role, &req)
	if err != nil {
		ac.logger.Debug().Err(err).Str("role", string(role)).Msg("Login rejected")
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
