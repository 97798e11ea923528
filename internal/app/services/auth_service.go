package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/app/models/dto"
	"github.com/yigit/placement/internal/pkg/apperrors"
	"github.com/yigit/placement/internal/pkg/auth"
	"github.com/yigit/placement/internal/pkg/validation"
)

// ErrCredentialsRequired is returned when a login body lacks email or password
var ErrCredentialsRequired = apperrors.NewValidationError("Email and password required")

// AuthService handles registration and login for students and officers
type AuthService struct {
	students   StudentStore
	officers   OfficerStore
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(students StudentStore, officers OfficerStore, jwtService *auth.JWTService, logger zerolog.Logger) *AuthService {
	return &AuthService{
		students:   students,
		officers:   officers,
		jwtService: jwtService,
		logger:     logger,
	}
}

func requireFields(values ...string) error {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return apperrors.NewValidationError(dto.MissingFieldsMessage)
		}
	}
	return nil
}

func validateIdentity(name, email string) (string, error) {
	if err := validation.ValidateName(name); err != nil {
		return "", apperrors.NewValidationError(err.Error())
	}
	email = validation.NormalizeEmail(email)
	if err := validation.ValidateEmail(email); err != nil {
		return "", apperrors.NewValidationError(err.Error())
	}
	return email, nil
}

// RegisterStudent validates and stores a new student, returning its id
func (s *AuthService) RegisterStudent(ctx context.Context, req *dto.RegisterStudentRequest) (int64, error) {
	if req.CGPA == nil {
		return 0, apperrors.NewValidationError(dto.MissingFieldsMessage)
	}
	if err := requireFields(req.Name, req.Email, req.Password, req.Branch, req.UniversityRoll); err != nil {
		return 0, err
	}

	email, err := validateIdentity(req.Name, req.Email)
	if err != nil {
		return 0, err
	}
	cgpa := req.CGPA.Float64()
	if err := validation.ValidateCGPA("cgpa", cgpa); err != nil {
		return 0, apperrors.NewValidationError(err.Error())
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return 0, err
	}

	id, err := s.students.Create(ctx, &models.Student{
		Name:           strings.TrimSpace(req.Name),
		Email:          email,
		PasswordHash:   hash,
		Branch:         strings.TrimSpace(req.Branch),
		CGPA:           cgpa,
		UniversityRoll: strings.TrimSpace(req.UniversityRoll),
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info().Int64("studentID", id).Str("roll", strings.TrimSpace(req.UniversityRoll)).Msg("Student registered")
	return id, nil
}

// RegisterOfficer validates and stores a new placement officer
func (s *AuthService) RegisterOfficer(ctx context.Context, req *dto.RegisterOfficerRequest) (int64, error) {
	if err := requireFields(req.Name, req.Email, req.Password); err != nil {
		return 0, err
	}

	email, err := validateIdentity(req.Name, req.Email)
	if err != nil {
		return 0, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return 0, err
	}

	id, err := s.officers.Create(ctx, &models.Officer{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info().Int64("officerID", id).Msg("Officer registered")
	return id, nil
}

// Login checks the credentials of a student or an officer and issues a token
func (s *AuthService) Login(ctx context.Context, role models.RoleType, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, ErrCredentialsRequired
	}
	email := validation.NormalizeEmail(req.Email)

	var (
		resp         dto.LoginResponse
		principalID  int64
		passwordHash string
	)

	switch role {
	case models.RoleStudent:
		student, err := s.students.GetByEmail(ctx, email)
		if err != nil {
			return nil, s.unknownPrincipal(err, req.Password)
		}
		principalID, passwordHash = student.ID, student.PasswordHash
		resp = dto.LoginResponse{
			Name:           student.Name,
			Email:          student.Email,
			StudentID:      student.ID,
			UniversityRoll: student.UniversityRoll,
		}
	case models.RoleOfficer:
		officer, err := s.officers.GetByEmail(ctx, email)
		if err != nil {
			return nil, s.unknownPrincipal(err, req.Password)
		}
		principalID, passwordHash = officer.ID, officer.PasswordHash
		resp = dto.LoginResponse{
			Name:      officer.Name,
			Email:     officer.Email,
			OfficerID: officer.ID,
		}
	default:
		return nil, apperrors.NewValidationError("Unknown role")
	}

	if !auth.CheckPassword(passwordHash, req.Password) {
		s.logger.Warn().Str("role", string(role)).Int64("id", principalID).Msg("Login with wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}

	token, _, err := s.jwtService.GenerateToken(principalID, string(role))
	if err != nil {
		return nil, err
	}

	resp.Token = token
	resp.TokenType = "Bearer"
	resp.ExpiresIn = int64(auth.TokenTTL.Seconds())

	s.logger.Info().Str("role", string(role)).Int64("id", principalID).Msg("Login succeeded")
	return &resp, nil
}

// unknownPrincipal keeps the response time of an unknown email close to that
// of a wrong password.
func (s *AuthService) unknownPrincipal(err error, password string) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		auth.BurnPasswordCheck(password)
		return apperrors.ErrInvalidCredentials
	}
	return err
}
