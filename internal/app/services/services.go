package services

import (
	"context"
	"time"

	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/app/repositories"
)

// Services depend on these narrow store views rather than on concrete
// repositories so they can be exercised with in-memory fakes.

type StudentStore interface {
	Create(ctx context.Context, s *models.Student) (int64, error)
	GetByEmail(ctx context.Context, email string) (*models.Student, error)
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	GetByRoll(ctx context.Context, roll string) (*models.Student, error)
	List(ctx context.Context) ([]*models.Student, error)
	UpdateProfile(ctx context.Context, id int64, upd repositories.StudentUpdate) error
}

type OfficerStore interface {
	Create(ctx context.Context, o *models.Officer) (int64, error)
	GetByEmail(ctx context.Context, email string) (*models.Officer, error)
	GetByID(ctx context.Context, id int64) (*models.Officer, error)
}

type JobStore interface {
	CreateWithSkills(ctx context.Context, job *models.JobPosting) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.JobPosting, error)
	ListByOfficer(ctx context.Context, officerID int64) ([]*models.JobPosting, error)
	ListEligible(ctx context.Context, student *models.Student, today time.Time) ([]*models.JobPosting, error)
	SetStatus(ctx context.Context, id int64, status models.PostingStatus) error
	CloseExpired(ctx context.Context, today time.Time) (int64, error)
}

type ApplicationStore interface {
	Create(ctx context.Context, app *models.Application) (int64, error)
	HasApplied(ctx context.Context, studentID, jobID int64) (bool, error)
	UpdateStatus(ctx context.Context, id int64, status models.ApplicationStatus) error
	ListForStudent(ctx context.Context, studentID int64) ([]models.StudentApplication, error)
	ListAll(ctx context.Context) ([]models.OfficerApplication, error)
}

type NotificationStore interface {
	Broadcast(ctx context.Context, officerID int64, message string, at time.Time) (int64, error)
	ListSentByOfficer(ctx context.Context, officerID int64, limit uint64) ([]models.SentNotification, error)
	ListForStudent(ctx context.Context, studentID int64) ([]models.Notification, error)
	MarkRead(ctx context.Context, studentID, notificationID int64) error
}

// Publisher pushes a committed broadcast to connected students. Delivery is
// best effort.
type Publisher interface {
	PublishNotification(message string, createdAt time.Time)
}

// Clock returns the current time
type Clock func() time.Time

func clockOrNow(c Clock) Clock {
	if c == nil {
		return time.Now
	}
	return c
}

var (
	_ StudentStore      = (*repositories.StudentRepository)(nil)
	_ OfficerStore      = (*repositories.OfficerRepository)(nil)
	_ JobStore          = (*repositories.JobRepository)(nil)
	_ ApplicationStore  = (*repositories.ApplicationRepository)(nil)
	_ NotificationStore = (*repositories.NotificationRepository)(nil)
)
