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

// StudentDirectory lets officers look students up
type StudentDirectory interface {
	ListStudents(ctx context.Context) ([]*dto.StudentProfileResponse, error)
	FindByRoll(ctx context.Context, roll string) (*dto.StudentProfileResponse, error)
}

// ApplicationReview is the officer side of applications
type ApplicationReview interface {
	ListAllForOfficer(ctx context.Context) ([]models.OfficerApplication, error)
	SetStatus(ctx context.Context, applicationID int64, status string, actorRole models.RoleType) error
}

// Broadcaster sends and lists officer notifications
type Broadcaster interface {
	Broadcast(ctx context.Context, officerID int64, message string) (int64, error)
	ListRecentSent(ctx context.Context, officerID int64) ([]models.SentNotification, error)
}

// OfficerController serves the placement officer's dashboard
type OfficerController struct {
	students      StudentDirectory
	applications  ApplicationReview
	notifications Broadcaster
	logger        zerolog.Logger
}

// NewOfficerController creates a new OfficerController
func NewOfficerController(students StudentDirectory, applications ApplicationReview, notifications Broadcaster, logger zerolog.Logger) *OfficerController {
	return &OfficerController{
		students:      students,
		applications:  applications,
		notifications: notifications,
		logger:        logger,
	}
}

// ListStudents godoc
// @Summary Every registered student
// @Tags officer
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.StudentProfileResponse
// @Failure 403 {object} dto.ErrorResponse "Officer access required"
// @Router /officer/students [get]
func (oc *OfficerController) ListStudents(c *gin.Context) {
	profiles, err := oc.students.ListStudents(c.Request.Context())
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	if profiles == nil {
		profiles = []*dto.StudentProfileResponse{}
	}
	c.JSON(http.StatusOK, profiles)
}

// FindStudentByRoll godoc
// @Summary Look a student up by university roll
// @Tags officer
// @Produce json
// @Security BearerAuth
// @Param roll path string true "University roll"
// @Success 200 {object} dto.StudentProfileResponse
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /officer/student/{roll} [get]
func (oc *OfficerController) FindStudentByRoll(c *gin.Context) {
	profile, err := oc.students.FindByRoll(c.Request.Context(), c.Param("roll"))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// ListApplications godoc
// @Summary Every application with student and job details
// @Tags officer
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.OfficerApplication
// @Router /officer/applications [get]
func (oc *OfficerController) ListApplications(c *gin.Context) {
	apps, err := oc.applications.ListAllForOfficer(c.Request.Context())
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	if apps == nil {
		apps = []models.OfficerApplication{}
	}
	c.JSON(http.StatusOK, apps)
}

// SetApplicationStatus godoc
// @Summary Change an application's status
// @Description Status is one of Applied, Shortlisted, Selected or Rejected.
// @Tags officer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param request body dto.UpdateApplicationStatusRequest true "Status"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "Valid status required"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Router /officer/applications/{id}/status [put]
func (oc *OfficerController) SetApplicationStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "application id")
	if !ok {
		return
	}

	var req dto.UpdateApplicationStatusRequest
	if !middleware.BindJSON(c, &req, "Valid status required") {
		return
	}

	role, _ := middleware.Role(c)
	if err := oc.applications.SetStatus(c.Request.Context(), id, req.Status, role); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Application status updated successfully"})
}

// ListSentNotifications godoc
// @Summary The officer's ten latest broadcasts
// @Tags officer
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.SentNotification
// @Router /officer/notifications [get]
func (oc *OfficerController) ListSentNotifications(c *gin.Context) {
	officerID, ok := principal(c)
	if !ok {
		return
	}

	sent, err := oc.notifications.ListRecentSent(c.Request.Context(), officerID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	if sent == nil {
		sent = []models.SentNotification{}
	}
	c.JSON(http.StatusOK, sent)
}

// Broadcast godoc
// @Summary Send a notification to every student
// @Tags officer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BroadcastRequest true "Message"
// @Success 201 {object} dto.BroadcastResponse
// @Failure 400 {object} dto.ErrorResponse "Message required"
// @Router /officer/notifications [post]
func (oc *OfficerController) Broadcast(c *gin.Context) {
	officerID, ok := principal(c)
	if !ok {
		return
	}

	var req dto.BroadcastRequest
	if !middleware.BindJSON(c, &req, "Message required") {
		return
	}

	recipients, err := oc.notifications.Broadcast(c.Request.Context(), officerID, req.Message)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.BroadcastResponse{
		Message:    "Notification sent",
		Recipients: recipients,
	})
}
