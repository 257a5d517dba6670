package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/deds0099/nexaapp/internal/domain"
	"github.com/deds0099/nexaapp/internal/infrastructure/metrics"
	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxUploadBytes is the upload limit used when none is configured (10 MiB)
const DefaultMaxUploadBytes = 10 << 20

// ResponseNormalizer turns a raw scanner body into an analysis result
type ResponseNormalizer interface {
	Normalize(raw []byte) (*domain.AnalysisResult, error)
}

// ScanServiceConfig holds configuration for the scan service
type ScanServiceConfig struct {
	MaxUploadBytes int64
}

// ScanService validates food photos, sends them to the scanner and normalizes the answer
type ScanService struct {
	client     domain.ScannerClient
	normalizer ResponseNormalizer
	maxBytes   int64
	metrics    *metrics.Metrics
	logger     *log.Logger
}

// NewScanService creates a new scan service with dependencies
func NewScanService(
	client domain.ScannerClient,
	normalizer ResponseNormalizer,
	config ScanServiceConfig,
	m *metrics.Metrics,
	logger *log.Logger,
) *ScanService {
	maxBytes := config.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	if logger == nil {
		logger = log.Default()
	}

	return &ScanService{
		client:     client,
		normalizer: normalizer,
		maxBytes:   maxBytes,
		metrics:    m,
		logger:     logger,
	}
}

// Analyze checks the upload, calls the scanner webhook and normalizes its response.
// Flow: validate image -> webhook -> normalize -> return. Nothing is persisted.
func (s *ScanService) Analyze(ctx context.Context, upload domain.ImageUpload) (*domain.AnalysisResult, error) {
	if err := s.checkImage(upload); err != nil {
		s.metrics.ObserveScan(metrics.ScanRejected)
		s.logger.Warn("scan rejected", "filename", upload.Filename, "size", len(upload.Data), "err", err)
		return nil, err
	}

	raw, err := s.client.Analyze(ctx, upload)
	if err != nil {
		s.metrics.ObserveScan(metrics.ScanTransport)
		s.logger.Error("scanner request failed", "filename", upload.Filename, "err", err)
		return nil, err
	}

	result, err := s.normalizer.Normalize(raw)
	if err != nil {
		var malformed *domain.MalformedResponseError
		if errors.As(err, &malformed) {
			s.metrics.ObserveScan(metrics.ScanMalformed)
			s.logger.Warn("scanner response not recognized", "reason", malformed.Reason, "raw", string(malformed.Raw))
			return nil, err
		}
		s.metrics.ObserveScan(metrics.ScanTransport)
		return nil, err
	}

	s.metrics.ObserveScan(metrics.ScanSuccess)
	s.logger.Info("scan analyzed",
		"calories", result.TotalCalories,
		"ingredients", len(result.Ingredients),
		"invalid_fields", len(result.InvalidFields),
	)

	return result, nil
}

// checkImage rejects empty uploads, uploads over the limit and anything that is not an image
func (s *ScanService) checkImage(upload domain.ImageUpload) error {
	if len(upload.Data) == 0 {
		return fmt.Errorf("%w: empty upload", domain.ErrInvalidImage)
	}
	if int64(len(upload.Data)) > s.maxBytes {
		return fmt.Errorf("%w: %d bytes, limit is %d", domain.ErrImageTooLarge, len(upload.Data), s.maxBytes)
	}

	mtype := mimetype.Detect(upload.Data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return fmt.Errorf("%w: detected %s", domain.ErrInvalidImage, mtype.String())
	}

	return nil
}
