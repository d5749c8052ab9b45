package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/noah-isme/tuteur-adom-api/internal/models"
	appErrors "github.com/noah-isme/tuteur-adom-api/pkg/errors"
)

func cloneUser(u *models.User) *models.User {
	c := *u
	if u.Teacher != nil {
		t := *u.Teacher
		t.TeachingLocations = append(models.Locations(nil), u.Teacher.TeachingLocations...)
		c.Teacher = &t
	}
	if u.Parent != nil {
		p := *u.Parent
		p.Children = append([]models.Child(nil), u.Parent.Children...)
		c.Parent = &p
	}
	return &c
}

type mockUserRepo struct {
	users     map[string]*models.User
	createErr error
	created   []*models.User
}

func newMockUserRepo(users ...*models.User) *mockUserRepo {
	m := &mockUserRepo{users: map[string]*models.User{}}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", len(m.users)+1)
	}
	m.users[user.ID] = cloneUser(user)
	m.created = append(m.created, user)
	return nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return cloneUser(u), nil
}

func (m *mockUserRepo) ListParents(ctx context.Context) ([]models.User, error) {
	var out []models.User
	for _, u := range m.users {
		if u.IsParent() {
			out = append(out, *cloneUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockUserRepo) CountByRole(ctx context.Context, role models.UserRole) (int, error) {
	count := 0
	for _, u := range m.users {
		if u.Role == role {
			count++
		}
	}
	return count, nil
}

type mockTeacherRepo struct {
	teachers      map[string]*models.User
	searchResult  []models.User
	searchCalls   int
	lastSearch    models.TeacherSearch
	listFilter    models.TeacherListFilter
	statusUpdates int
	findErr       error
	updateErr     error
	counts        []models.StatusCount
}

func newMockTeacherRepo(teachers ...*models.User) *mockTeacherRepo {
	m := &mockTeacherRepo{teachers: map[string]*models.User{}}
	for _, t := range teachers {
		m.teachers[t.ID] = t
	}
	return m
}

func (m *mockTeacherRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	t, ok := m.teachers[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return cloneUser(t), nil
}

func (m *mockTeacherRepo) FindByIDForUpdate(ctx context.Context, id string) (*models.User, error) {
	return m.FindByID(ctx, id)
}

func (m *mockTeacherRepo) Search(ctx context.Context, filter models.TeacherSearch) ([]models.User, error) {
	m.searchCalls++
	m.lastSearch = filter
	return m.searchResult, nil
}

func (m *mockTeacherRepo) List(ctx context.Context, filter models.TeacherListFilter) ([]models.User, int, error) {
	m.listFilter = filter
	var out []models.User
	for _, t := range m.teachers {
		if filter.Status != nil && t.Teacher.Status != *filter.Status {
			continue
		}
		out = append(out, *cloneUser(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (m *mockTeacherRepo) UpdateStatus(ctx context.Context, id string, status models.TeacherStatus) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.statusUpdates++
	m.teachers[id].Teacher.Status = status
	return nil
}

func (m *mockTeacherRepo) UpdateRating(ctx context.Context, id string, rating float64) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.teachers[id].Teacher.Rating = rating
	return nil
}

func (m *mockTeacherRepo) UpdateProfile(ctx context.Context, teacher *models.User) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.teachers[teacher.ID] = cloneUser(teacher)
	return nil
}

func (m *mockTeacherRepo) CountByStatus(ctx context.Context) ([]models.StatusCount, error) {
	return m.counts, nil
}

type mockCourseRepo struct {
	courses   map[string]*models.Course
	listErr   error
	deleteErr error
}

func newMockCourseRepo(courses ...*models.Course) *mockCourseRepo {
	m := &mockCourseRepo{courses: map[string]*models.Course{}}
	for _, c := range courses {
		m.courses[c.ID] = c
	}
	return m
}

func (m *mockCourseRepo) Create(ctx context.Context, course *models.Course) error {
	course.ID = fmt.Sprintf("course-%d", len(m.courses)+1)
	course.CreatedAt = time.Now().UTC()
	c := *course
	m.courses[c.ID] = &c
	return nil
}

func (m *mockCourseRepo) FindByID(ctx context.Context, id string) (*models.Course, error) {
	c, ok := m.courses[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	found := *c
	return &found, nil
}

func (m *mockCourseRepo) ListByTeacher(ctx context.Context, teacherID string) ([]models.Course, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []models.Course
	for _, c := range m.courses {
		if c.TeacherID == teacherID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *mockCourseRepo) Update(ctx context.Context, course *models.Course) error {
	c := *course
	m.courses[c.ID] = &c
	return nil
}

func (m *mockCourseRepo) Delete(ctx context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.courses[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.courses, id)
	return nil
}

type mockRequestRepo struct {
	requests   map[string]*models.Request
	lastFilter models.RequestFilter
	listErr    error
	counts     []models.StatusCount
}

func newMockRequestRepo(requests ...*models.Request) *mockRequestRepo {
	m := &mockRequestRepo{requests: map[string]*models.Request{}}
	for _, r := range requests {
		m.requests[r.ID] = r
	}
	return m
}

func (m *mockRequestRepo) Create(ctx context.Context, req *models.Request) error {
	req.ID = fmt.Sprintf("request-%d", len(m.requests)+1)
	req.CreatedAt = time.Now().UTC()
	req.UpdatedAt = req.CreatedAt
	r := *req
	m.requests[r.ID] = &r
	return nil
}

func (m *mockRequestRepo) FindByID(ctx context.Context, id string) (*models.Request, error) {
	r, ok := m.requests[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	found := *r
	return &found, nil
}

func (m *mockRequestRepo) FindByIDForUpdate(ctx context.Context, id string) (*models.Request, error) {
	return m.FindByID(ctx, id)
}

func (m *mockRequestRepo) List(ctx context.Context, filter models.RequestFilter) ([]models.Request, error) {
	m.lastFilter = filter
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []models.Request
	for _, r := range m.requests {
		if filter.Status != nil && r.Status != *filter.Status {
			continue
		}
		if filter.ParentID != "" && r.ParentID != filter.ParentID {
			continue
		}
		if filter.TeacherID != "" && r.TeacherID != filter.TeacherID {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

func (m *mockRequestRepo) UpdateStatus(ctx context.Context, id string, status models.RequestStatus) error {
	m.requests[id].Status = status
	return nil
}

func (m *mockRequestRepo) CountByStatus(ctx context.Context) ([]models.StatusCount, error) {
	return m.counts, nil
}

type mockAppointmentRepo struct {
	appointments map[string]*models.Appointment
	counts       []models.StatusCount
}

func newMockAppointmentRepo(appts ...*models.Appointment) *mockAppointmentRepo {
	m := &mockAppointmentRepo{appointments: map[string]*models.Appointment{}}
	for _, a := range appts {
		m.appointments[a.ID] = a
	}
	return m
}

func (m *mockAppointmentRepo) Create(ctx context.Context, appt *models.Appointment) error {
	appt.ID = fmt.Sprintf("appointment-%d", len(m.appointments)+1)
	a := *appt
	m.appointments[a.ID] = &a
	return nil
}

func (m *mockAppointmentRepo) FindByID(ctx context.Context, id string) (*models.Appointment, error) {
	a, ok := m.appointments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	found := *a
	return &found, nil
}

func (m *mockAppointmentRepo) FindByIDForUpdate(ctx context.Context, id string) (*models.Appointment, error) {
	return m.FindByID(ctx, id)
}

func (m *mockAppointmentRepo) List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, a := range m.appointments {
		if filter.ParentID != "" && a.ParentID != filter.ParentID {
			continue
		}
		if filter.TeacherID != "" && a.TeacherID != filter.TeacherID {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (m *mockAppointmentRepo) UpdateStatus(ctx context.Context, id string, status models.AppointmentStatus) error {
	m.appointments[id].Status = status
	return nil
}

func (m *mockAppointmentRepo) CountByStatus(ctx context.Context) ([]models.StatusCount, error) {
	return m.counts, nil
}

type mockReviewRepo struct {
	reviews []models.Review
}

func (m *mockReviewRepo) Create(ctx context.Context, review *models.Review) error {
	review.ID = fmt.Sprintf("review-%d", len(m.reviews)+1)
	review.CreatedAt = time.Now().UTC()
	m.reviews = append(m.reviews, *review)
	return nil
}

func (m *mockReviewRepo) ListByTeacher(ctx context.Context, teacherID string) ([]models.Review, error) {
	var out []models.Review
	for _, r := range m.reviews {
		if r.TeacherID == teacherID {
			out = append(out, r)
		}
	}
	return out, nil
}

type recordingAudit struct {
	mu      sync.Mutex
	entries []models.AuditLog
}

func (r *recordingAudit) Record(ctx context.Context, entry models.AuditLog) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

type countingTx struct {
	calls int
}

func (t *countingTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type memoryCache struct {
	values  map[string][]byte
	deleted []string
	getErr  error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string][]byte{}}
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.getErr != nil {
		return c.getErr
	}
	raw, ok := c.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.values[key] = raw
	return nil
}

func (c *memoryCache) DeleteByPattern(ctx context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range c.values {
		if strings.HasPrefix(key, prefix) {
			delete(c.values, key)
		}
	}
	c.deleted = append(c.deleted, pattern)
	return nil
}

func teacherFixture(id string, status models.TeacherStatus) *models.User {
	return &models.User{
		ID:        id,
		Email:     id + "@example.com",
		FirstName: "Jeanne",
		LastName:  "Martin",
		Role:      models.RoleTeacher,
		Teacher: &models.TeacherProfile{
			UserID:            id,
			Subject:           "Mathematics",
			HourlyRate:        30,
			TeachingLocations: models.Locations{models.LocationOnline},
			Status:            status,
		},
	}
}

func parentFixture(id string) *models.User {
	return &models.User{
		ID:        id,
		Email:     id + "@example.com",
		FirstName: "Paul",
		LastName:  "Durand",
		Role:      models.RoleParent,
		Parent:    &models.ParentProfile{},
	}
}
