package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/tuteur-adom-api/pkg/errors"
	"github.com/noah-isme/tuteur-adom-api/pkg/export"
	"github.com/noah-isme/tuteur-adom-api/pkg/storage"
)

type statsExporter interface {
	Export(ctx context.Context, rawFormat string) (*StatsExport, error)
}

type fileStorage interface {
	Save(name string, data []byte) (string, error)
	Open(name string) (*os.File, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type linkSigner interface {
	Generate(id, relPath string) (string, time.Time, error)
	Parse(token string) (id, relPath string, expiresAt time.Time, err error)
}

// ReportArchiveConfig tunes stored statistics reports.
type ReportArchiveConfig struct {
	APIPrefix string
	Retention time.Duration
}

// ArchivedReport describes a stored report and its signed download link.
type ArchivedReport struct {
	ID        string
	Filename  string
	Token     string
	URL       string
	ExpiresAt time.Time
}

// ReportFile is an opened archived report ready to stream.
type ReportFile struct {
	File        *os.File
	Filename    string
	ContentType string
	Size        int64
}

// ReportArchiveService stores rendered statistics and serves them through signed links.
type ReportArchiveService struct {
	stats   statsExporter
	storage fileStorage
	signer  linkSigner
	logger  *zap.Logger
	cfg     ReportArchiveConfig
}

// NewReportArchiveService constructs a ReportArchiveService.
func NewReportArchiveService(stats statsExporter, store fileStorage, signer linkSigner, cfg ReportArchiveConfig, logger *zap.Logger) *ReportArchiveService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 24 * time.Hour
	}
	return &ReportArchiveService{stats: stats, storage: store, signer: signer, logger: logger, cfg: cfg}
}

// Archive renders the statistics, stores the file and signs a download link.
func (s *ReportArchiveService) Archive(ctx context.Context, rawFormat string) (*ArchivedReport, error) {
	report, err := s.stats.Export(ctx, rawFormat)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	relPath, err := s.storage.Save(path.Join(id, report.Filename), report.Payload)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to store report")
	}
	token, expiresAt, err := s.signer.Generate(id, relPath)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to sign report link")
	}

	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	s.logger.Info("report archived", zap.String("report_id", id), zap.String("file", relPath))
	return &ArchivedReport{
		ID:        id,
		Filename:  report.Filename,
		Token:     token,
		URL:       fmt.Sprintf("%s/admin/stats/exports/%s", prefix, token),
		ExpiresAt: expiresAt,
	}, nil
}

// Open resolves a signed token to the stored file. The caller closes File.
func (s *ReportArchiveService) Open(token string) (*ReportFile, error) {
	id, relPath, _, err := s.signer.Parse(token)
	if err != nil {
		if errors.Is(err, storage.ErrExpiredLink) {
			return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "download link expired")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "download link not found")
	}

	file, err := s.storage.Open(relPath)
	if err != nil {
		s.logger.Warn("archived report missing", zap.String("report_id", id), zap.Error(err))
		return nil, appErrors.Clone(appErrors.ErrNotFound, "report not found")
	}
	info, err := file.Stat()
	if err != nil {
		file.Close() //nolint:errcheck
		return nil, appErrors.Internal(err, "failed to read report")
	}

	name := path.Base(relPath)
	contentType := "application/octet-stream"
	if format, err := export.ParseFormat(strings.TrimPrefix(path.Ext(name), ".")); err == nil {
		contentType = format.ContentType()
	}
	return &ReportFile{File: file, Filename: name, ContentType: contentType, Size: info.Size()}, nil
}

// Purge removes reports older than the retention window.
func (s *ReportArchiveService) Purge() (int, error) {
	deleted, err := s.storage.CleanupOlderThan(s.cfg.Retention)
	if err != nil {
		return 0, err
	}
	if len(deleted) > 0 {
		s.logger.Info("archived reports purged", zap.Int("count", len(deleted)))
	}
	return len(deleted), nil
}

// RunJanitor purges expired reports every interval until ctx is cancelled.
func (s *ReportArchiveService) RunJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Purge(); err != nil {
				s.logger.Warn("report purge failed", zap.Error(err))
			}
		}
	}
}
