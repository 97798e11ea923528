package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"sort"
	"sync"
	"time"

	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/app/repositories"
	"github.com/yigit/placement/internal/pkg/apperrors"
)

// memoryDB is an in-memory stand-in for the postgres repositories. It keeps
// the same uniqueness rules and error values.
type memoryDB struct {
	mu            sync.Mutex
	students      map[int64]*models.Student
	officers      map[int64]*models.Officer
	jobs          map[int64]*models.JobPosting
	applications  map[int64]*models.Application
	notifications []models.Notification
	sent          []models.SentNotification
	nextID        int64
	failNextApply error
}

func newMemoryDB() *memoryDB {
	return &memoryDB{
		students:     map[int64]*models.Student{},
		officers:     map[int64]*models.Officer{},
		jobs:         map[int64]*models.JobPosting{},
		applications: map[int64]*models.Application{},
	}
}

func (m *memoryDB) id() int64 {
	m.nextID++
	return m.nextID
}

type fakeStudents struct{ *memoryDB }

func (f fakeStudents) Create(_ context.Context, s *models.Student) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.students {
		if existing.Email == s.Email || existing.UniversityRoll == s.UniversityRoll {
			return 0, apperrors.ErrStudentExists
		}
	}
	cp := *s
	cp.ID = f.id()
	f.students[cp.ID] = &cp
	return cp.ID, nil
}

func (f fakeStudents) GetByEmail(_ context.Context, email string) (*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.students {
		if s.Email == email {
			cp := *s
			return &cp, nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (f fakeStudents) GetByID(_ context.Context, id int64) (*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	cp := *s
	return &cp, nil
}

func (f fakeStudents) GetByRoll(_ context.Context, roll string) (*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.students {
		if s.UniversityRoll == roll {
			cp := *s
			return &cp, nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (f fakeStudents) List(_ context.Context) ([]*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Student{}
	for _, s := range f.students {
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UniversityRoll < out[j].UniversityRoll })
	return out, nil
}

func (f fakeStudents) UpdateProfile(_ context.Context, id int64, upd repositories.StudentUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.students[id]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	for otherID, other := range f.students {
		if otherID == id {
			continue
		}
		if (upd.Email != nil && *upd.Email == other.Email) ||
			(upd.UniversityRoll != nil && *upd.UniversityRoll == other.UniversityRoll) {
			return apperrors.ErrStudentExists
		}
	}
	if upd.Name != nil {
		s.Name = *upd.Name
	}
	if upd.Email != nil {
		s.Email = *upd.Email
	}
	if upd.Branch != nil {
		s.Branch = *upd.Branch
	}
	if upd.CGPA != nil {
		s.CGPA = *upd.CGPA
	}
	if upd.UniversityRoll != nil {
		s.UniversityRoll = *upd.UniversityRoll
	}
	if upd.ResumePath != nil {
		path := *upd.ResumePath
		s.ResumePath = &path
	}
	if upd.Skills != nil {
		s.Skills = append([]string(nil), *upd.Skills...)
	}
	return nil
}

type fakeOfficers struct{ *memoryDB }

func (f fakeOfficers) Create(_ context.Context, o *models.Officer) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.officers {
		if existing.Email == o.Email {
			return 0, apperrors.ErrOfficerExists
		}
	}
	cp := *o
	cp.ID = f.id()
	f.officers[cp.ID] = &cp
	return cp.ID, nil
}

func (f fakeOfficers) GetByEmail(_ context.Context, email string) (*models.Officer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.officers {
		if o.Email == email {
			cp := *o
			return &cp, nil
		}
	}
	return nil, apperrors.ErrOfficerNotFound
}

func (f fakeOfficers) GetByID(_ context.Context, id int64) (*models.Officer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.officers[id]
	if !ok {
		return nil, apperrors.ErrOfficerNotFound
	}
	cp := *o
	return &cp, nil
}

type fakeJobs struct{ *memoryDB }

func (f fakeJobs) CreateWithSkills(_ context.Context, job *models.JobPosting) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *job
	cp.ID = f.id()
	cp.Status = models.PostingOpen
	cp.CreatedAt = time.Unix(cp.ID, 0)
	f.jobs[cp.ID] = &cp
	return cp.ID, nil
}

func (f fakeJobs) GetByID(_ context.Context, id int64) (*models.JobPosting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[id]
	if !ok {
		return nil, apperrors.ErrJobNotFound
	}
	cp := *j
	return &cp, nil
}

func (f fakeJobs) sorted(keep func(*models.JobPosting) bool) []*models.JobPosting {
	out := []*models.JobPosting{}
	for _, j := range f.jobs {
		if keep(j) {
			cp := *j
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt.After(out[k].CreatedAt) })
	return out
}

func (f fakeJobs) ListByOfficer(_ context.Context, officerID int64) ([]*models.JobPosting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sorted(func(j *models.JobPosting) bool { return j.OfficerID == officerID }), nil
}

func (f fakeJobs) ListEligible(_ context.Context, student *models.Student, today time.Time) ([]*models.JobPosting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sorted(func(j *models.JobPosting) bool {
		if !j.IsEligibleFor(student, today) {
			return false
		}
		for _, a := range f.applications {
			if a.JobID == j.ID && a.StudentID == student.ID {
				return false
			}
		}
		return true
	}), nil
}

func (f fakeJobs) SetStatus(_ context.Context, id int64, status models.PostingStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[id]
	if !ok {
		return apperrors.ErrJobNotFound
	}
	j.Status = status
	return nil
}

func (f fakeJobs) CloseExpired(_ context.Context, today time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, j := range f.jobs {
		if j.Status == models.PostingOpen && models.DateOf(j.Deadline.Time).Before(models.DateOf(today)) {
			j.Status = models.PostingClosed
			n++
		}
	}
	return n, nil
}

type fakeApplications struct{ *memoryDB }

func (f fakeApplications) Create(_ context.Context, app *models.Application) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failNextApply; err != nil {
		f.failNextApply = nil
		return 0, err
	}
	for _, a := range f.applications {
		if a.StudentID == app.StudentID && a.JobID == app.JobID {
			return 0, apperrors.ErrAlreadyApplied
		}
	}
	cp := *app
	cp.ID = f.id()
	f.applications[cp.ID] = &cp
	return cp.ID, nil
}

func (f fakeApplications) HasApplied(_ context.Context, studentID, jobID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.applications {
		if a.StudentID == studentID && a.JobID == jobID {
			return true, nil
		}
	}
	return false, nil
}

func (f fakeApplications) UpdateStatus(_ context.Context, id int64, status models.ApplicationStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.applications[id]
	if !ok {
		return apperrors.ErrApplicationMissing
	}
	a.Status = status
	return nil
}

func (f fakeApplications) ListForStudent(_ context.Context, studentID int64) ([]models.StudentApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.StudentApplication{}
	for _, a := range f.applications {
		if a.StudentID == studentID {
			out = append(out, models.StudentApplication{
				ApplicationID: a.ID, JobID: a.JobID, Title: f.jobs[a.JobID].Title,
				Status: a.Status, AppliedOn: a.AppliedOn,
			})
		}
	}
	return out, nil
}

func (f fakeApplications) ListAll(_ context.Context) ([]models.OfficerApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.OfficerApplication{}
	for _, a := range f.applications {
		s := f.students[a.StudentID]
		out = append(out, models.OfficerApplication{
			ApplicationID: a.ID, JobID: a.JobID, StudentID: a.StudentID,
			StudentName: s.Name, UniversityRoll: s.UniversityRoll,
			JobTitle: f.jobs[a.JobID].Title, Status: a.Status, AppliedOn: a.AppliedOn,
		})
	}
	return out, nil
}

type fakeNotifications struct{ *memoryDB }

func (f fakeNotifications) Broadcast(_ context.Context, officerID int64, message string, at time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, models.SentNotification{ID: f.id(), OfficerID: officerID, Message: message, CreatedAt: at})
	var n int64
	for id := range f.students {
		f.notifications = append(f.notifications, models.Notification{
			ID: f.id(), StudentID: id, Message: message, CreatedAt: at,
		})
		n++
	}
	return n, nil
}

func (f fakeNotifications) ListSentByOfficer(_ context.Context, officerID int64, limit uint64) ([]models.SentNotification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.SentNotification{}
	for i := len(f.sent) - 1; i >= 0 && uint64(len(out)) < limit; i-- {
		if f.sent[i].OfficerID == officerID {
			out = append(out, f.sent[i])
		}
	}
	return out, nil
}

func (f fakeNotifications) ListForStudent(_ context.Context, studentID int64) ([]models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Notification{}
	for i := len(f.notifications) - 1; i >= 0; i-- {
		if f.notifications[i].StudentID == studentID {
			out = append(out, f.notifications[i])
		}
	}
	return out, nil
}

func (f fakeNotifications) MarkRead(_ context.Context, studentID, notificationID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.notifications {
		n := &f.notifications[i]
		if n.ID == notificationID && n.StudentID == studentID {
			n.IsRead = true
			return nil
		}
	}
	return apperrors.ErrNotificationAbsent
}

// fakeFiles records saved and deleted paths without touching disk
type fakeFiles struct {
	mu      sync.Mutex
	saved   map[string]bool
	deleted []string
	saveErr error
}

func newFakeFiles() *fakeFiles {
	return &fakeFiles{saved: map[string]bool{}}
}

func (f *fakeFiles) SaveUpload(ownerID int64, fh *multipart.FileHeader) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return "", f.saveErr
	}
	path := fmt.Sprintf("uploads/%d_%d_%s", ownerID, len(f.saved)+1, fh.Filename)
	f.saved[path] = true
	return path, nil
}

func (f *fakeFiles) DeleteFile(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.saved, path)
	f.deleted = append(f.deleted, path)
	return nil
}

func (f *fakeFiles) Exists(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saved[path]
}

type recordingPublisher struct {
	mu       sync.Mutex
	messages []string
}

func (p *recordingPublisher) PublishNotification(message string, _ time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, message)
}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func resumeHeader(name string, size int64) *multipart.FileHeader {
	return &multipart.FileHeader{Filename: name, Size: size}
}
