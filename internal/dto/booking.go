package dto

import (
	"strings"
	"time"

	"github.com/noah-isme/tuteur-adom-api/internal/models"
)

const dateLayout = "2006-01-02"

// UserView is the public projection of an account without role payload.
type UserView struct {
	ID             string  `json:"id"`
	Email          string  `json:"email"`
	FirstName      string  `json:"firstName"`
	LastName       string  `json:"lastName"`
	ProfilePicture *string `json:"profilePicture,omitempty"`
	Role           string  `json:"role"`
}

// TeacherView is a teacher as shown in search results and admin screens.
type TeacherView struct {
	UserView
	Subject           string       `json:"subject"`
	HourlyRate        float64      `json:"hourlyRate"`
	TeachingLocations []string     `json:"teachingLocations"`
	Skills            string       `json:"skills"`
	Bio               string       `json:"bio"`
	CVURL             *string      `json:"cvUrl,omitempty"`
	Status            string       `json:"status"`
	Rating            float64      `json:"rating"`
	Reviews           []ReviewView `json:"reviews"`
}

// ChildView is a child of a parent account.
type ChildView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Age   int    `json:"age"`
	Grade string `json:"grade"`
}

// ParentView is a parent with their children.
type ParentView struct {
	UserView
	Status   string      `json:"status"`
	Children []ChildView `json:"children"`
}

// CourseView is a published course.
type CourseView struct {
	ID          string    `json:"id"`
	TeacherID   string    `json:"teacherId"`
	Subject     string    `json:"subject"`
	Description string    `json:"description"`
	HourlyRate  float64   `json:"hourlyRate"`
	Locations   []string  `json:"locations"`
	CreatedAt   time.Time `json:"createdAt"`
}

// RequestView is a booking request.
type RequestView struct {
	ID        string    `json:"id"`
	ParentID  string    `json:"parentId"`
	TeacherID string    `json:"teacherId"`
	CourseID  string    `json:"courseId"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// AppointmentView is a scheduled lesson.
type AppointmentView struct {
	ID        string `json:"id"`
	RequestID string `json:"requestId"`
	ParentID  string `json:"parentId"`
	TeacherID string `json:"teacherId"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Location  string `json:"location"`
	Status    string `json:"status"`
}

// ReviewView is a parent's review of a teacher.
type ReviewView struct {
	ID        string    `json:"id"`
	ParentID  string    `json:"parentId"`
	TeacherID string    `json:"teacherId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

// ReviewCreated is returned after a review is appended.
type ReviewCreated struct {
	Review        ReviewView `json:"review"`
	TeacherRating float64    `json:"teacherRating"`
}

// AuthResponse is returned by login and registration.
type AuthResponse struct {
	User      interface{} `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// StatusCounts maps lowercase status names to counts plus a "total" entry.
type StatusCounts map[string]int

// PlatformStatsView is the admin dashboard payload.
type PlatformStatsView struct {
	Teachers     StatusCounts   `json:"teachers"`
	Parents      map[string]int `json:"parents"`
	Requests     StatusCounts   `json:"requests"`
	Appointments StatusCounts   `json:"appointments"`
}

// AuditEntryView is one audit trail record.
type AuditEntryView struct {
	ID         string    `json:"id"`
	ActorID    *string   `json:"actorId,omitempty"`
	Entity     string    `json:"entity"`
	EntityID   string    `json:"entityId"`
	Action     string    `json:"action"`
	FromStatus *string   `json:"fromStatus,omitempty"`
	ToStatus   *string   `json:"toStatus,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func lower[S ~string](s S) string {
	return strings.ToLower(string(s))
}

// NewUserView projects an account.
func NewUserView(u models.User) UserView {
	return UserView{
		ID:             u.ID,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		ProfilePicture: u.ProfilePicture,
		Role:           lower(u.Role),
	}
}

// NewTeacherView projects a teacher. Locations are rendered as display labels.
func NewTeacherView(u models.User) TeacherView {
	view := TeacherView{UserView: NewUserView(u), TeachingLocations: []string{}, Reviews: []ReviewView{}}
	if u.Teacher == nil {
		return view
	}
	p := u.Teacher
	view.Subject = p.Subject
	view.HourlyRate = p.HourlyRate
	view.TeachingLocations = p.TeachingLocations.Labels()
	view.Skills = p.Skills
	view.Bio = p.Bio
	view.CVURL = p.CVURL
	view.Status = lower(p.Status)
	view.Rating = p.Rating
	view.Reviews = NewReviewViews(p.Reviews)
	return view
}

// NewTeacherViews projects a list of teachers.
func NewTeacherViews(users []models.User) []TeacherView {
	out := make([]TeacherView, 0, len(users))
	for _, u := range users {
		out = append(out, NewTeacherView(u))
	}
	return out
}

// NewParentView projects a parent. Parent accounts have no lifecycle and are always active.
func NewParentView(u models.User) ParentView {
	view := ParentView{UserView: NewUserView(u), Status: "active", Children: []ChildView{}}
	if u.Parent == nil {
		return view
	}
	for _, c := range u.Parent.Children {
		view.Children = append(view.Children, ChildView{ID: c.ID, Name: c.Name, Age: c.Age, Grade: c.Grade})
	}
	return view
}

// NewParentViews projects a list of parents.
func NewParentViews(users []models.User) []ParentView {
	out := make([]ParentView, 0, len(users))
	for _, u := range users {
		out = append(out, NewParentView(u))
	}
	return out
}

// NewAccountView picks the projection matching the account role.
func NewAccountView(u models.User) interface{} {
	switch {
	case u.IsTeacher():
		return NewTeacherView(u)
	case u.IsParent():
		return NewParentView(u)
	default:
		return NewUserView(u)
	}
}

// NewAuthResponse projects a login or registration result.
func NewAuthResponse(result *models.AuthResult) AuthResponse {
	return AuthResponse{User: NewAccountView(*result.User), Token: result.Token, ExpiresAt: result.ExpiresAt}
}

// NewCourseView projects a course.
func NewCourseView(c models.Course) CourseView {
	return CourseView{
		ID:          c.ID,
		TeacherID:   c.TeacherID,
		Subject:     c.Subject,
		Description: c.Description,
		HourlyRate:  c.HourlyRate,
		Locations:   c.Locations.Labels(),
		CreatedAt:   c.CreatedAt,
	}
}

// NewCourseViews projects a list of courses.
func NewCourseViews(courses []models.Course) []CourseView {
	out := make([]CourseView, 0, len(courses))
	for _, c := range courses {
		out = append(out, NewCourseView(c))
	}
	return out
}

// NewRequestView projects a request.
func NewRequestView(r models.Request) RequestView {
	return RequestView{
		ID:        r.ID,
		ParentID:  r.ParentID,
		TeacherID: r.TeacherID,
		CourseID:  r.CourseID,
		Status:    lower(r.Status),
		Message:   r.Message,
		CreatedAt: r.CreatedAt,
	}
}

// NewRequestViews projects a list of requests.
func NewRequestViews(requests []models.Request) []RequestView {
	out := make([]RequestView, 0, len(requests))
	for _, r := range requests {
		out = append(out, NewRequestView(r))
	}
	return out
}

// NewAppointmentView projects an appointment.
func NewAppointmentView(a models.Appointment) AppointmentView {
	return AppointmentView{
		ID:        a.ID,
		RequestID: a.RequestID,
		ParentID:  a.ParentID,
		TeacherID: a.TeacherID,
		Date:      a.Date.Format(dateLayout),
		StartTime: a.StartTime,
		EndTime:   a.EndTime,
		Location:  a.Location.Label(),
		Status:    lower(a.Status),
	}
}

// NewAppointmentViews projects a list of appointments.
func NewAppointmentViews(appts []models.Appointment) []AppointmentView {
	out := make([]AppointmentView, 0, len(appts))
	for _, a := range appts {
		out = append(out, NewAppointmentView(a))
	}
	return out
}

// NewReviewViews projects reviews.
func NewReviewViews(reviews []models.Review) []ReviewView {
	out := make([]ReviewView, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, ReviewView{
			ID:        r.ID,
			ParentID:  r.ParentID,
			TeacherID: r.TeacherID,
			Rating:    r.Rating,
			Comment:   r.Comment,
			CreatedAt: r.CreatedAt,
		})
	}
	return out
}

// NewStatusCounts lowercases the status keys and adds the total.
func NewStatusCounts(b models.StatusBreakdown) StatusCounts {
	out := make(StatusCounts, len(b.Counts)+1)
	for status, count := range b.Counts {
		out[strings.ToLower(status)] = count
	}
	out["total"] = b.Total
	return out
}

// NewPlatformStatsView projects the admin statistics.
func NewPlatformStatsView(s *models.PlatformStats) PlatformStatsView {
	return PlatformStatsView{
		Teachers:     NewStatusCounts(s.Teachers),
		Parents:      map[string]int{"total": s.Parents},
		Requests:     NewStatusCounts(s.Requests),
		Appointments: NewStatusCounts(s.Appointments),
	}
}

// NewAuditEntryViews projects an audit trail.
func NewAuditEntryViews(entries []models.AuditLog) []AuditEntryView {
	out := make([]AuditEntryView, 0, len(entries))
	for _, e := range entries {
		out = append(out, AuditEntryView{
			ID:         e.ID,
			ActorID:    e.ActorID,
			Entity:     e.Entity,
			EntityID:   e.EntityID,
			Action:     e.Action,
			FromStatus: e.FromStatus,
			ToStatus:   e.ToStatus,
			CreatedAt:  e.CreatedAt,
		})
	}
	return out
}

// SessionView echoes the identity carried by a bearer token.
type SessionView struct {
	UserID    string     `json:"userId"`
	Role      string     `json:"role"`
	Email     string     `json:"email"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// NewSessionView projects token claims.
func NewSessionView(claims *models.JWTClaims) SessionView {
	view := SessionView{UserID: claims.UserID, Role: string(claims.Role), Email: claims.Email}
	if claims.ExpiresAt != nil {
		expires := claims.ExpiresAt.Time
		view.ExpiresAt = &expires
	}
	return view
}

// ArchivedReportView points at a stored statistics report.
type ArchivedReportView struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}
