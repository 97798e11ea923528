package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/app/models/dto"
	"github.com/yigit/placement/internal/app/services"
	"github.com/yigit/placement/internal/middleware"
	"github.com/yigit/placement/internal/pkg/apperrors"
)

// ProfileService reads and edits student profiles
type ProfileService interface {
	GetProfile(ctx context.Context, studentID int64) (*dto.StudentProfileResponse, error)
	UpdateProfile(ctx context.Context, studentID int64, in services.UpdateProfileInput) (*dto.StudentProfileResponse, error)
}

// StudentApplications lists a student's own applications
type StudentApplications interface {
	ListForStudent(ctx context.Context, studentID int64) ([]models.StudentApplication, error)
}

// StudentNotifications is the student side of notifications
type StudentNotifications interface {
	ListForStudent(ctx context.Context, studentID int64) ([]models.Notification, error)
	MarkRead(ctx context.Context, studentID, notificationID int64) error
}

// StudentController serves the student's own resources
type StudentController struct {
	profiles       ProfileService
	applications   StudentApplications
	notifications  StudentNotifications
	maxUploadBytes int64
	logger         zerolog.Logger
}

// NewStudentController creates a new StudentController
func NewStudentController(
	profiles ProfileService,
	applications StudentApplications,
	notifications StudentNotifications,
	maxUploadBytes int64,
	logger zerolog.Logger,
) *StudentController {
	return &StudentController{
		profiles:       profiles,
		applications:   applications,
		notifications:  notifications,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// GetProfile godoc
// @Summary The student's profile
// @Tags student
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StudentProfileResponse
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /student/profile [get]
func (sc *StudentController) GetProfile(c *gin.Context) {
	studentID, ok := principal(c)
	if !ok {
		return
	}

	profile, err := sc.profiles.GetProfile(c.Request.Context(), studentID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile godoc
// @Summary Update the student's profile
// @Description Accepts JSON or multipart/form-data. Blank fields are left unchanged. A multipart "resume" file replaces the stored resume.
// @Tags student
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest false "Profile fields"
// @Success 200 {object} dto.UpdateProfileResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Email or university roll already exists"
// @Router /student/profile [put]
func (sc *StudentController) UpdateProfile(c *gin.Context) {
	studentID, ok := principal(c)
	if !ok {
		return
	}

	var (
		in  services.UpdateProfileInput
		err error
	)
	if strings.HasPrefix(c.ContentType(), gin.MIMEMultipartPOSTForm) {
		in, err = sc.profileFromForm(c)
	} else {
		in, err = profileFromJSON(c)
	}
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	profile, err := sc.profiles.UpdateProfile(c.Request.Context(), studentID, in)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UpdateProfileResponse{
		Message: "Profile updated successfully",
		Profile: profile,
	})
}

func profileFromJSON(c *gin.Context) (services.UpdateProfileInput, error) {
	var req dto.UpdateProfileRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			return services.UpdateProfileInput{}, apperrors.NewValidationError(dto.HandleValidationError(err, "Invalid profile data"))
		}
	}

	in := services.UpdateProfileInput{
		Name:           optional(req.Name),
		Email:          optional(req.Email),
		Branch:         optional(req.Branch),
		UniversityRoll: optional(req.UniversityRoll),
	}
	if req.CGPA != nil {
		v := req.CGPA.Float64()
		in.CGPA = &v
	}
	if req.Skills.Provided {
		names := req.Skills.Names
		in.Skills = &names
	}
	return in, nil
}

func (sc *StudentController) profileFromForm(c *gin.Context) (services.UpdateProfileInput, error) {
	resume, err := limitedFormFile(c, "resume", sc.maxUploadBytes)
	if err != nil {
		return services.UpdateProfileInput{}, err
	}

	in := services.UpdateProfileInput{
		Name:           optional(c.PostForm("name")),
		Email:          optional(c.PostForm("email")),
		Branch:         optional(c.PostForm("branch")),
		UniversityRoll: optional(c.PostForm("university_roll")),
		Resume:         resume,
	}
	if raw := strings.TrimSpace(c.PostForm("cgpa")); raw != "" {
		v, err := dto.ParseFlexFloat(raw)
		if err != nil {
			return services.UpdateProfileInput{}, apperrors.NewValidationError("cgpa must be a number")
		}
		f := v.Float64()
		in.CGPA = &f
	}
	if skills := dto.ParseSkillList(c.PostForm("skills")); skills.Provided {
		names := skills.Names
		in.Skills = &names
	}
	return in, nil
}

// optional maps a blank value to nil
func optional(v string) *string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return &v
}

// ListApplications godoc
// @Summary The student's applications
// @Tags student
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.StudentApplication
// @Router /student/applications [get]
func (sc *StudentController) ListApplications(c *gin.Context) {
	studentID, ok := principal(c)
	if !ok {
		return
	}

	apps, err := sc.applications.ListForStudent(c.Request.Context(), studentID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	if apps == nil {
		apps = []models.StudentApplication{}
	}
	c.JSON(http.StatusOK, apps)
}

// ListNotifications godoc
// @Summary The student's notifications, newest first
// @Tags student
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Notification
// @Router /student/notifications [get]
func (sc *StudentController) ListNotifications(c *gin.Context) {
	studentID, ok := principal(c)
	if !ok {
		return
	}

	items, err := sc.notifications.ListForStudent(c.Request.Context(), studentID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	if items == nil {
		items = []models.Notification{}
	}
	c.JSON(http.StatusOK, items)
}

// MarkNotificationRead godoc
// @Summary Mark one notification as read
// @Tags student
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse "Notification not found"
// @Router /student/notifications/{id}/read [put]
func (sc *StudentController) MarkNotificationRead(c *gin.Context) {
	studentID, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "notification id")
	if !ok {
		return
	}

	if err := sc.notifications.MarkRead(c.Request.Context(), studentID, id); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Notification marked as read"})
}
