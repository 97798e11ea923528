package repositories

import (
	"github.com/Masterminds/squirrel"
	"github.com/yigit/placement/internal/db"
)

// Repositories holds all the repository instances
type Repositories struct {
	StudentRepository      *StudentRepository
	OfficerRepository      *OfficerRepository
	SkillRepository        *SkillRepository
	JobRepository          *JobRepository
	ApplicationRepository  *ApplicationRepository
	NotificationRepository *NotificationRepository
}

// NewRepositories initializes all repositories
func NewRepositories(pool db.Pool) *Repositories {
	return &Repositories{
		StudentRepository:      NewStudentRepository(pool),
		OfficerRepository:      NewOfficerRepository(pool),
		SkillRepository:        NewSkillRepository(pool),
		JobRepository:          NewJobRepository(pool),
		ApplicationRepository:  NewApplicationRepository(pool),
		NotificationRepository: NewNotificationRepository(pool),
	}
}

func newBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}
