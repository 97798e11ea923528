package services

import (
	"context"
	"mime/multipart"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/app/models/dto"
	"github.com/yigit/placement/internal/app/repositories"
	"github.com/yigit/placement/internal/pkg/apperrors"
	"github.com/yigit/placement/internal/pkg/filestorage"
	"github.com/yigit/placement/internal/pkg/validation"
)

// UpdateProfileInput is a profile update after the JSON or multipart body has
// been resolved. Nil fields stay unchanged; a non-nil Skills replaces the set.
type UpdateProfileInput struct {
	Name           *string
	Email          *string
	Branch         *string
	CGPA           *float64
	UniversityRoll *string
	Skills         *[]string
	Resume         *multipart.FileHeader
}

// StudentService serves student profiles to students and officers
type StudentService struct {
	students       StudentStore
	resumes        filestorage.FileStorage
	maxResumeBytes int64
	logger         zerolog.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(students StudentStore, resumes filestorage.FileStorage, maxResumeBytes int64, logger zerolog.Logger) *StudentService {
	return &StudentService{students: students, resumes: resumes, maxResumeBytes: maxResumeBytes, logger: logger}
}

func (s *StudentService) profileOf(student *models.Student) *dto.StudentProfileResponse {
	uploaded := student.HasResume() && s.resumes.Exists(*student.ResumePath)
	return dto.NewStudentProfileResponse(student, uploaded)
}

// GetProfile returns the student's own profile
func (s *StudentService) GetProfile(ctx context.Context, studentID int64) (*dto.StudentProfileResponse, error) {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return s.profileOf(student), nil
}

// FindByRoll looks a student up by university roll
func (s *StudentService) FindByRoll(ctx context.Context, roll string) (*dto.StudentProfileResponse, error) {
	roll = strings.TrimSpace(roll)
	if roll == "" {
		return nil, apperrors.ErrStudentNotFound
	}
	student, err := s.students.GetByRoll(ctx, roll)
	if err != nil {
		return nil, err
	}
	return s.profileOf(student), nil
}

// ListStudents returns every student profile
func (s *StudentService) ListStudents(ctx context.Context) ([]*dto.StudentProfileResponse, error) {
	students, err := s.students.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.StudentProfileResponse, 0, len(students))
	for _, student := range students {
		out = append(out, s.profileOf(student))
	}
	return out, nil
}

func trimmedOrNil(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}

func (s *StudentService) buildUpdate(in UpdateProfileInput) (repositories.StudentUpdate, error) {
	upd := repositories.StudentUpdate{
		Name:           trimmedOrNil(in.Name),
		Branch:         trimmedOrNil(in.Branch),
		UniversityRoll: trimmedOrNil(in.UniversityRoll),
		CGPA:           in.CGPA,
	}

	if upd.Name != nil {
		if err := validation.ValidateName(*upd.Name); err != nil {
			return upd, apperrors.NewValidationError(err.Error())
		}
	}
	if email := trimmedOrNil(in.Email); email != nil {
		normalized := validation.NormalizeEmail(*email)
		if err := validation.ValidateEmail(normalized); err != nil {
			return upd, apperrors.NewValidationError(err.Error())
		}
		upd.Email = &normalized
	}
	if upd.CGPA != nil {
		if err := validation.ValidateCGPA("cgpa", *upd.CGPA); err != nil {
			return upd, apperrors.NewValidationError(err.Error())
		}
	}
	if in.Skills != nil {
		skills := models.NormalizeSkills(*in.Skills)
		upd.Skills = &skills
	}
	return upd, nil
}

// UpdateProfile applies the provided fields, the skill set and an optional new
// resume, then returns the refreshed profile.
func (s *StudentService) UpdateProfile(ctx context.Context, studentID int64, in UpdateProfileInput) (*dto.StudentProfileResponse, error) {
	upd, err := s.buildUpdate(in)
	if err != nil {
		return nil, err
	}

	var previous *string
	if in.Resume != nil {
		if err := checkResume(in.Resume, s.maxResumeBytes); err != nil {
			return nil, err
		}
		current, err := s.students.GetByID(ctx, studentID)
		if err != nil {
			return nil, err
		}
		previous = current.ResumePath

		path, err := s.resumes.SaveUpload(studentID, in.Resume)
		if err != nil {
			s.logger.Error().Err(err).Int64("studentID", studentID).Msg("Failed to store resume")
			return nil, err
		}
		upd.ResumePath = &path
	}

	if err := s.students.UpdateProfile(ctx, studentID, upd); err != nil {
		if upd.ResumePath != nil {
			if delErr := s.resumes.DeleteFile(*upd.ResumePath); delErr != nil {
				s.logger.Warn().Err(delErr).Str("path", *upd.ResumePath).Msg("Failed to remove orphaned resume")
			}
		}
		return nil, err
	}

	// Applications store their own copy, so the old profile resume is unreferenced now.
	if previous != nil && *previous != "" && upd.ResumePath != nil && *previous != *upd.ResumePath {
		if err := s.resumes.DeleteFile(*previous); err != nil {
			s.logger.Warn().Err(err).Str("path", *previous).Msg("Failed to remove replaced resume")
		}
	}

	s.logger.Info().Int64("studentID", studentID).Bool("resume", upd.ResumePath != nil).Msg("Profile updated")
	return s.GetProfile(ctx, studentID)
}
