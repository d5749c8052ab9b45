package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/tuteur-adom-api/internal/models"
	appErrors "github.com/noah-isme/tuteur-adom-api/pkg/errors"
	"github.com/noah-isme/tuteur-adom-api/pkg/export"
)

type statusCounter interface {
	Stats(ctx context.Context) (models.StatusBreakdown, error)
}

type roleCounter interface {
	CountByRole(ctx context.Context, role models.UserRole) (int, error)
}

// StatsServiceParams groups the collaborators of StatsService.
type StatsServiceParams struct {
	Teachers     statusCounter
	Requests     statusCounter
	Appointments statusCounter
	Users        roleCounter
	Logger       *zap.Logger
	Now          func() time.Time
}

// StatsService aggregates platform counters for the admin dashboard.
type StatsService struct {
	teachers     statusCounter
	requests     statusCounter
	appointments statusCounter
	users        roleCounter
	logger       *zap.Logger
	now          func() time.Time
}

// NewStatsService constructs a StatsService.
func NewStatsService(params StatsServiceParams) *StatsService {
	svc := &StatsService{
		teachers:     params.Teachers,
		requests:     params.Requests,
		appointments: params.Appointments,
		users:        params.Users,
		logger:       params.Logger,
		now:          params.Now,
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	return svc
}

// Platform collects every counter shown on the admin dashboard.
func (s *StatsService) Platform(ctx context.Context) (*models.PlatformStats, error) {
	teachers, err := s.teachers.Stats(ctx)
	if err != nil {
		return nil, err
	}
	requests, err := s.requests.Stats(ctx)
	if err != nil {
		return nil, err
	}
	appointments, err := s.appointments.Stats(ctx)
	if err != nil {
		return nil, err
	}
	parents, err := s.users.CountByRole(ctx, models.RoleParent)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to count parents")
	}
	return &models.PlatformStats{
		Teachers:     teachers,
		Requests:     requests,
		Appointments: appointments,
		Parents:      parents,
	}, nil
}

// StatsExport is a rendered statistics report.
type StatsExport struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// Export renders the platform statistics as CSV or PDF.
func (s *StatsService) Export(ctx context.Context, rawFormat string) (*StatsExport, error) {
	format, err := export.ParseFormat(rawFormat)
	if err != nil {
		return nil, appErrors.Invalid(err, "invalid export format")
	}

	stats, err := s.Platform(ctx)
	if err != nil {
		return nil, err
	}

	generated := s.now().UTC()
	payload, err := export.Render(format, statsDataset(stats, generated))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render statistics")
	}
	s.logger.Info("statistics exported", zap.String("format", string(format)), zap.Int("bytes", len(payload)))
	return &StatsExport{
		Filename:    fmt.Sprintf("platform-stats-%s.%s", generated.Format("20060102-150405"), format),
		ContentType: format.ContentType(),
		Payload:     payload,
	}, nil
}

func statsDataset(stats *models.PlatformStats, generated time.Time) export.Dataset {
	data := export.Dataset{
		Title:   "Platform statistics " + generated.Format(time.RFC3339),
		Headers: []string{"Entity", "Status", "Count"},
	}
	sections := []struct {
		name string
		b    models.StatusBreakdown
	}{
		{models.AuditEntityTeacher, stats.Teachers},
		{models.AuditEntityRequest, stats.Requests},
		{models.AuditEntityAppointment, stats.Appointments},
	}
	for _, section := range sections {
		statuses := make([]string, 0, len(section.b.Counts))
		for status := range section.b.Counts {
			statuses = append(statuses, status)
		}
		sort.Strings(statuses)
		for _, status := range statuses {
			data.Rows = append(data.Rows, statsRow(section.name, status, section.b.Counts[status]))
		}
		data.Rows = append(data.Rows, statsRow(section.name, "TOTAL", section.b.Total))
	}
	data.Rows = append(data.Rows, statsRow("parent", "TOTAL", stats.Parents))
	return data
}

func statsRow(entity, status string, count int) map[string]string {
	return map[string]string{"Entity": entity, "Status": status, "Count": strconv.Itoa(count)}
}
