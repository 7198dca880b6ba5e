package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fittrack/internal/apperrors"
	"fittrack/internal/logger"
	"fittrack/internal/repository"
	"fittrack/internal/storage"
)

// exportDateLayout matches the day.month.year format used in exported files.
const exportDateLayout = "02.01.2006"

// ExportResult carries the generated CSV and, when archiving is configured,
// a presigned URL for the archived copy.
type ExportResult struct {
	CSV        string
	ArchiveURL string
}

// ExportService serializes a user's full workout history.
type ExportService interface {
	ExportCSV(ctx context.Context, userID int64) (*ExportResult, error)
}

type exportService struct {
	workoutRepo repository.WorkoutRepository
	archive     storage.ExportArchive // nil when archiving is disabled
}

// NewExportService creates a new instance of exportService. archive may be
// nil, which disables the S3 copy.
func NewExportService(workoutRepo repository.WorkoutRepository, archive storage.ExportArchive) ExportService {
	return &exportService{workoutRepo: workoutRepo, archive: archive}
}

// ExportCSV renders the user's complete history as CSV and best-effort
// archives a copy.
func (s *exportService) ExportCSV(ctx context.Context, userID int64) (*ExportResult, error) {
	rows, err := s.workoutRepo.HistoryByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	_ = w.Write([]string{"ID", "Date", "Note", "Exercise", "Sets", "Reps", "Weight (kg)"})
	for _, r := range rows {
		weight := ""
		if r.Weight != nil {
			weight = strconv.FormatFloat(*r.Weight, 'f', -1, 64)
		}
		_ = w.Write([]string{
			strconv.FormatInt(r.WorkoutID, 10),
			r.Date.Format(exportDateLayout),
			r.Note,
			r.Exercise,
			strconv.Itoa(r.Sets),
			strconv.Itoa(r.Reps),
			weight,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, apperrors.Internal(err)
	}

	result := &ExportResult{CSV: sb.String()}

	if s.archive != nil {
		// Archive failures never block the export itself.
		key := fmt.Sprintf("exports/%d/%s.csv", userID, uuid.NewString())
		if err := s.archive.PutObject(ctx, key, "text/csv", []byte(result.CSV)); err != nil {
			logger.Warn("export archive upload failed", zap.Error(err))
			return result, nil
		}
		url, err := s.archive.GeneratePresignedDownloadURL(ctx, key, storage.DefaultPresignedURLExpiry)
		if err != nil {
			logger.Warn("export archive presign failed", zap.Error(err))
			return result, nil
		}
		result.ArchiveURL = url
	}

	return result, nil
}
