package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/app/models/dto"
	"github.com/yigit/placement/internal/pkg/apperrors"
	"github.com/yigit/placement/internal/pkg/auth"
	"golang.org/x/crypto/bcrypt"
)

var testNow = time.Date(2026, 5, 10, 10, 0, 0, 0, time.UTC)

type fixture struct {
	db            *memoryDB
	files         *fakeFiles
	publisher     *recordingPublisher
	jwt           *auth.JWTService
	auth          *AuthService
	jobs          *JobService
	applications  *ApplicationService
	students      *StudentService
	notifications *NotificationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	prev := auth.BcryptCost
	auth.BcryptCost = bcrypt.MinCost
	t.Cleanup(func() { auth.BcryptCost = prev })

	db := newMemoryDB()
	files := newFakeFiles()
	pub := &recordingPublisher{}
	clock := fixedClock(testNow)
	log := zerolog.Nop()
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", Issuer: "placement-test", Now: clock})

	students := fakeStudents{db}
	jobs := fakeJobs{db}
	return &fixture{
		db:            db,
		files:         files,
		publisher:     pub,
		jwt:           jwtService,
		auth:          NewAuthService(students, fakeOfficers{db}, jwtService, log),
		jobs:          NewJobService(jobs, students, clock, log),
		applications:  NewApplicationService(students, jobs, fakeApplications{db}, files, 1024, clock, log),
		students:      NewStudentService(students, files, 1024, log),
		notifications: NewNotificationService(fakeNotifications{db}, pub, clock, log),
	}
}

func flex(v float64) *dto.FlexFloat {
	f := dto.FlexFloat(v)
	return &f
}

func (f *fixture) registerStudent(t *testing.T, roll, branch string, cgpa float64) int64 {
	t.Helper()
	id, err := f.auth.RegisterStudent(context.Background(), &dto.RegisterStudentRequest{
		Name:           "Student " + roll,
		Email:          roll + "@college.edu",
		Password:       "secret123",
		Branch:         branch,
		CGPA:           flex(cgpa),
		UniversityRoll: roll,
	})
	require.NoError(t, err)
	return id
}

func (f *fixture) registerOfficer(t *testing.T, email string) int64 {
	t.Helper()
	id, err := f.auth.RegisterOfficer(context.Background(), &dto.RegisterOfficerRequest{
		Name: "Officer", Email: email, Password: "secret123",
	})
	require.NoError(t, err)
	return id
}

func (f *fixture) post(t *testing.T, officerID int64, title, branch string, minCGPA float64, deadline string) int64 {
	t.Helper()
	id, err := f.jobs.CreatePosting(context.Background(), officerID, &dto.CreatePostingRequest{
		Title:             title,
		Description:       "role description",
		BranchEligibility: branch,
		MinCGPA:           flex(minCGPA),
		PackageStipend:    "10 LPA",
		Deadline:          deadline,
		Skills:            dto.SkillList{Names: []string{"Go", " Go ", "SQL"}, Provided: true},
	})
	require.NoError(t, err)
	return id
}

func titles(jobs []*models.JobPosting) []string {
	out := make([]string, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, j.Title)
	}
	return out
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.registerStudent(t, "CSE001", "CSE", 8.5)

	resp, err := f.auth.Login(ctx, models.RoleStudent, &dto.LoginRequest{Email: " CSE001@College.edu ", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, int64(8*3600), resp.ExpiresIn)
	assert.Equal(t, id, resp.StudentID)
	assert.Equal(t, "CSE001", resp.UniversityRoll)
	assert.Zero(t, resp.OfficerID)

	claims, err := f.jwt.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.PrincipalID)
	assert.Equal(t, "student", claims.Role)

	officerID := f.registerOfficer(t, "tpo@college.edu")
	oresp, err := f.auth.Login(ctx, models.RoleOfficer, &dto.LoginRequest{Email: "tpo@college.edu", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, officerID, oresp.OfficerID)
	claims, err = f.jwt.ValidateToken(oresp.Token)
	require.NoError(t, err)
	assert.Equal(t, "officer", claims.Role)
}

func TestLoginFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.registerStudent(t, "CSE001", "CSE", 8.5)
	f.registerOfficer(t, "tpo@college.edu")

	_, err := f.auth.Login(ctx, models.RoleStudent, &dto.LoginRequest{Email: "cse001@college.edu", Password: "wrong-pass"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = f.auth.Login(ctx, models.RoleStudent, &dto.LoginRequest{Email: "nobody@college.edu", Password: "secret123"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	// an officer account cannot log in through the student route
	_, err = f.auth.Login(ctx, models.RoleStudent, &dto.LoginRequest{Email: "tpo@college.edu", Password: "secret123"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = f.auth.Login(ctx, models.RoleOfficer, &dto.LoginRequest{Email: "tpo@college.edu"})
	assert.ErrorIs(t, err, ErrCredentialsRequired)
	msg, _ := apperrors.Message(err)
	assert.Equal(t, "Email and password required", msg)
}

func TestRegisterStudentValidationAndConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.registerStudent(t, "CSE001", "CSE", 8.5)

	base := func() *dto.RegisterStudentRequest {
		return &dto.RegisterStudentRequest{
			Name: "Ravi", Email: "ravi@college.edu", Password: "secret123",
			Branch: "ECE", CGPA: flex(7), UniversityRoll: "ECE001",
		}
	}

	cases := []struct {
		name   string
		mutate func(r *dto.RegisterStudentRequest)
		want   error
	}{
		{"blank name", func(r *dto.RegisterStudentRequest) { r.Name = "  " }, apperrors.ErrValidation},
		{"missing cgpa", func(r *dto.RegisterStudentRequest) { r.CGPA = nil }, apperrors.ErrValidation},
		{"cgpa above scale", func(r *dto.RegisterStudentRequest) { r.CGPA = flex(10.5) }, apperrors.ErrValidation},
		{"bad email", func(r *dto.RegisterStudentRequest) { r.Email = "not-an-email" }, apperrors.ErrValidation},
		{"email without domain", func(r *dto.RegisterStudentRequest) { r.Email = "ravi@" }, apperrors.ErrValidation},
		{"duplicate email", func(r *dto.RegisterStudentRequest) { r.Email = "CSE001@college.edu" }, apperrors.ErrStudentExists},
		{"duplicate roll", func(r *dto.RegisterStudentRequest) { r.UniversityRoll = "CSE001" }, apperrors.ErrStudentExists},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := base()
			tc.mutate(req)
			_, err := f.auth.RegisterStudent(ctx, req)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	assert.Len(t, f.db.students, 1, "failed registrations must not write")
}

func TestRegisterAcceptsAnyNonEmptyPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.RegisterStudent(ctx, &dto.RegisterStudentRequest{
		Name: "Ravi", Email: "ravi@college.edu", Password: "abcde",
		Branch: "ECE", CGPA: flex(7), UniversityRoll: "ECE001",
	})
	require.NoError(t, err)

	resp, err := f.auth.Login(ctx, models.RoleStudent, &dto.LoginRequest{Email: "ravi@college.edu", Password: "abcde"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
}

func TestRegisterOfficerDuplicate(t *testing.T) {
	f := newFixture(t)
	f.registerOfficer(t, "tpo@college.edu")

	_, err := f.auth.RegisterOfficer(context.Background(), &dto.RegisterOfficerRequest{
		Name: "Other", Email: "TPO@college.edu", Password: "secret123",
	})
	assert.ErrorIs(t, err, apperrors.ErrOfficerExists)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestEligibleJobsThenApply(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	studentID := f.registerStudent(t, "CSE001", "CSE", 8.5)
	officerID := f.registerOfficer(t, "tpo@college.edu")
	jobID := f.post(t, officerID, "SDE", "CSE", 8.0, "2026-05-11")

	jobs, err := f.jobs.ListEligibleJobs(ctx, studentID)
	require.NoError(t, err)
	assert.Equal(t, []string{"SDE"}, titles(jobs))
	assert.Equal(t, []string{"Go", "SQL"}, jobs[0].Skills)

	appID, err := f.applications.Apply(ctx, studentID, jobID, resumeHeader("cv.pdf", 100))
	require.NoError(t, err)
	assert.NotZero(t, appID)
	assert.Len(t, f.files.saved, 1)

	jobs, err = f.jobs.ListEligibleJobs(ctx, studentID)
	require.NoError(t, err)
	assert.Empty(t, jobs)

	_, err = f.applications.Apply(ctx, studentID, jobID, resumeHeader("cv.pdf", 100))
	assert.ErrorIs(t, err, apperrors.ErrAlreadyApplied)

	mine, err := f.applications.ListForStudent(ctx, studentID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, models.StatusApplied, mine[0].Status)
	assert.Equal(t, "SDE", mine[0].Title)
}

func TestEligibilityFilter(t *testing.T) {
	f := newFixture(t)
	studentID := f.registerStudent(t, "CSE001", "CSE", 8.5)
	officerID := f.registerOfficer(t, "tpo@college.edu")

	f.post(t, officerID, "open to all", "All", 6.0, "2026-06-01")
	f.post(t, officerID, "multi branch", "ece, cse, me", 7.0, "2026-06-01")
	f.post(t, officerID, "other branch", "ECE", 6.0, "2026-06-01")
	f.post(t, officerID, "high bar", "CSE", 9.0, "2026-06-01")
	f.post(t, officerID, "expired", "CSE", 6.0, "2026-05-09")
	f.post(t, officerID, "due today", "CSE", 8.5, "2026-05-10")
	closed := f.post(t, officerID, "closed", "All", 6.0, "2026-06-01")
	require.NoError(t, f.jobs.SetPostingStatus(context.Background(), officerID, closed, "Closed"))

	jobs, err := f.jobs.ListEligibleJobs(context.Background(), studentID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"open to all", "multi branch", "due today"}, titles(jobs))
}

func TestApplyRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	studentID := f.registerStudent(t, "CSE001", "CSE", 7.0)
	officerID := f.registerOfficer(t, "tpo@college.edu")
	strict := f.post(t, officerID, "strict", "CSE", 8.0, "2026-06-01")
	easy := f.post(t, officerID, "easy", "All", 6.0, "2026-06-01")

	_, err := f.applications.Apply(ctx, studentID, easy, nil)
	assert.ErrorIs(t, err, apperrors.ErrResumeRequired)

	_, err = f.applications.Apply(ctx, studentID, easy, resumeHeader("cv.pdf", 0))
	assert.ErrorIs(t, err, apperrors.ErrResumeRequired)

	_, err = f.applications.Apply(ctx, studentID, easy, resumeHeader("cv.pdf", 4096))
	assert.ErrorIs(t, err, ErrResumeTooLarge)

	_, err = f.applications.Apply(ctx, studentID, 999, resumeHeader("cv.pdf", 10))
	assert.ErrorIs(t, err, apperrors.ErrJobNotFound)

	_, err = f.applications.Apply(ctx, studentID, strict, resumeHeader("cv.pdf", 10))
	assert.ErrorIs(t, err, apperrors.ErrNotEligible)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	assert.Empty(t, f.files.saved, "rejected applications must not store files")

	f.db.failNextApply = errors.New("insert failed")
	_, err = f.applications.Apply(ctx, studentID, easy, resumeHeader("cv.pdf", 10))
	assert.Error(t, err)
	assert.Empty(t, f.files.saved)
	assert.Len(t, f.files.deleted, 1, "stored resume must be removed when the insert fails")
}

func TestApplicationStatusChanges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	studentID := f.registerStudent(t, "CSE001", "CSE", 8.5)
	officerID := f.registerOfficer(t, "tpo@college.edu")
	jobID := f.post(t, officerID, "SDE", "All", 6.0, "2026-06-01")
	appID, err := f.applications.Apply(ctx, studentID, jobID, resumeHeader("cv.pdf", 10))
	require.NoError(t, err)

	assert.ErrorIs(t, f.applications.SetStatus(ctx, appID, "Selected", models.RoleStudent), apperrors.ErrForbidden)
	assert.ErrorIs(t, f.applications.SetStatus(ctx, appID, "Hired", models.RoleOfficer), ErrInvalidStatus)
	assert.ErrorIs(t, f.applications.SetStatus(ctx, 999, "Selected", models.RoleOfficer), apperrors.ErrApplicationMissing)

	for _, status := range []string{"Shortlisted", "Rejected", "Applied", "Selected"} {
		require.NoError(t, f.applications.SetStatus(ctx, appID, status, models.RoleOfficer))
	}

	all, err := f.applications.ListAllForOfficer(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, models.StatusSelected, all[0].Status)
	assert.Equal(t, "CSE001", all[0].UniversityRoll)
	assert.Equal(t, "SDE", all[0].JobTitle)
}

func TestPostingValidationAndOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.registerOfficer(t, "tpo@college.edu")
	other := f.registerOfficer(t, "other@college.edu")

	_, err := f.jobs.CreatePosting(ctx, owner, &dto.CreatePostingRequest{
		Title: "SDE", Description: "d", BranchEligibility: "All", MinCGPA: flex(7),
		PackageStipend: "10 LPA", Deadline: "31-12-2026",
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.jobs.CreatePosting(ctx, owner, &dto.CreatePostingRequest{
		Title: "SDE", Description: " ", BranchEligibility: "All", MinCGPA: flex(7),
		PackageStipend: "10 LPA", Deadline: "2026-12-31",
	})
	msg, _ := apperrors.Message(err)
	assert.Equal(t, dto.MissingFieldsMessage, msg)

	jobID := f.post(t, owner, "SDE", "All", 7, "2026-12-31")
	assert.ErrorIs(t, f.jobs.SetPostingStatus(ctx, other, jobID, "Closed"), apperrors.ErrForbidden)
	assert.ErrorIs(t, f.jobs.SetPostingStatus(ctx, owner, jobID, "Paused"), apperrors.ErrValidation)
	assert.ErrorIs(t, f.jobs.SetPostingStatus(ctx, owner, 999, "Closed"), apperrors.ErrJobNotFound)
	require.NoError(t, f.jobs.SetPostingStatus(ctx, owner, jobID, "Closed"))

	mine, err := f.jobs.ListPostingsByOfficer(ctx, owner)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, models.PostingClosed, mine[0].Status)

	theirs, err := f.jobs.ListPostingsByOfficer(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestCloseExpiredPostings(t *testing.T) {
	f := newFixture(t)
	officerID := f.registerOfficer(t, "tpo@college.edu")
	f.post(t, officerID, "past", "All", 6, "2026-05-01")
	f.post(t, officerID, "today", "All", 6, "2026-05-10")

	n, err := f.jobs.CloseExpiredPostings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = f.jobs.CloseExpiredPostings(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestBroadcastReachesEveryStudent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ids := []int64{
		f.registerStudent(t, "CSE001", "CSE", 8),
		f.registerStudent(t, "ECE001", "ECE", 7),
		f.registerStudent(t, "ME001", "ME", 6),
	}
	officerID := f.registerOfficer(t, "tpo@college.edu")

	n, err := f.notifications.Broadcast(ctx, officerID, "  Round 2 starts ")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Len(t, f.db.notifications, 3)
	assert.Len(t, f.db.sent, 1)
	assert.Equal(t, []string{"Round 2 starts"}, f.publisher.messages)

	for _, id := range ids {
		notes, err := f.notifications.ListForStudent(ctx, id)
		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.Equal(t, "Round 2 starts", notes[0].Message)
		assert.False(t, notes[0].IsRead)
	}

	_, err = f.notifications.Broadcast(ctx, officerID, "   ")
	assert.ErrorIs(t, err, ErrMessageRequired)
	assert.Len(t, f.db.sent, 1)
}

func TestRecentSentIsCapped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	officerID := f.registerOfficer(t, "tpo@college.edu")

	for i := 1; i <= 12; i++ {
		_, err := f.notifications.Broadcast(ctx, officerID, fmt.Sprintf("msg %d", i))
		require.NoError(t, err)
	}

	sent, err := f.notifications.ListRecentSent(ctx, officerID)
	require.NoError(t, err)
	require.Len(t, sent, RecentSentLimit)
	assert.Equal(t, "msg 12", sent[0].Message)
}

func TestMarkRead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.registerStudent(t, "CSE001", "CSE", 8)
	bob := f.registerStudent(t, "CSE002", "CSE", 8)
	officerID := f.registerOfficer(t, "tpo@college.edu")
	_, err := f.notifications.Broadcast(ctx, officerID, "hello")
	require.NoError(t, err)

	notes, err := f.notifications.ListForStudent(ctx, alice)
	require.NoError(t, err)
	require.Len(t, notes, 1)

	assert.ErrorIs(t, f.notifications.MarkRead(ctx, bob, notes[0].ID), apperrors.ErrNotificationAbsent)
	require.NoError(t, f.notifications.MarkRead(ctx, alice, notes[0].ID))

	notes, err = f.notifications.ListForStudent(ctx, alice)
	require.NoError(t, err)
	assert.True(t, notes[0].IsRead)
}

func TestProfileUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.registerStudent(t, "CSE001", "CSE", 8)
	f.registerStudent(t, "CSE002", "CSE", 8)

	profile, err := f.students.GetProfile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{}, profile.Skills)
	assert.False(t, profile.ResumeUploaded)

	name, blank := "Asha Rao", "   "
	cgpa := 9.1
	skills := []string{"Go", "Kubernetes", "Go"}
	profile, err = f.students.UpdateProfile(ctx, id, UpdateProfileInput{
		Name: &name, Branch: &blank, CGPA: &cgpa, Skills: &skills,
		Resume: resumeHeader("cv.pdf", 100),
	})
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", profile.Name)
	assert.Equal(t, "CSE", profile.Branch, "blank values are ignored")
	assert.Equal(t, 9.1, profile.CGPA)
	assert.Equal(t, []string{"Go", "Kubernetes"}, profile.Skills)
	assert.True(t, profile.ResumeUploaded)
	first := f.db.students[id].ResumePath

	profile, err = f.students.UpdateProfile(ctx, id, UpdateProfileInput{Resume: resumeHeader("cv2.pdf", 100)})
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Kubernetes"}, profile.Skills, "absent skills stay unchanged")
	assert.Equal(t, []string{*first}, f.files.deleted, "replaced resume is removed")

	empty := []string{}
	profile, err = f.students.UpdateProfile(ctx, id, UpdateProfileInput{Skills: &empty})
	require.NoError(t, err)
	assert.Empty(t, profile.Skills)

	taken := "cse002@college.edu"
	_, err = f.students.UpdateProfile(ctx, id, UpdateProfileInput{Email: &taken})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	bad := 12.0
	_, err = f.students.UpdateProfile(ctx, id, UpdateProfileInput{CGPA: &bad})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.students.UpdateProfile(ctx, 999, UpdateProfileInput{Name: &name})
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestOfficerStudentLookups(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.registerStudent(t, "ECE001", "ECE", 7)
	f.registerStudent(t, "CSE001", "CSE", 8)

	p, err := f.students.FindByRoll(ctx, " CSE001 ")
	require.NoError(t, err)
	assert.Equal(t, "CSE", p.Branch)

	_, err = f.students.FindByRoll(ctx, "NOPE")
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)

	all, err := f.students.ListStudents(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "CSE001", all[0].UniversityRoll)
}
