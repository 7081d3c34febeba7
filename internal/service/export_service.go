package service

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"
	"alcyxob/fitness-tracker/internal/storage"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrExportFailed     = errors.New("failed to export workouts")
	ErrDownloadURLError = errors.New("failed to generate download URL")
)

// ExportResult points at a stored export of a user's workouts.
type ExportResult struct {
	ObjectKey   string    `json:"objectKey"`
	DownloadURL string    `json:"downloadUrl"`
	Count       int       `json:"count"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// exportDocument is the file layout of an export.
type exportDocument struct {
	UserID     string           `json:"userId"`
	ExportedAt time.Time        `json:"exportedAt"`
	Workouts   []domain.Workout `json:"workouts"`
}

type ExportService interface {
	ExportWorkouts(ctx context.Context, userID primitive.ObjectID) (*ExportResult, error)
}

type exportService struct {
	workoutRepo repository.WorkoutRepository
	fileStorage storage.FileStorage
	linkExpiry  time.Duration
	now         func() time.Time
}

func NewExportService(workoutRepo repository.WorkoutRepository, fileStorage storage.FileStorage) ExportService {
	return &exportService{
		workoutRepo: workoutRepo,
		fileStorage: fileStorage,
		linkExpiry:  storage.DefaultPresignedURLExpiry,
		now:         time.Now,
	}
}

// ExportWorkouts stores the user's workouts as a JSON document and returns
// a temporary download link for it.
func (s *exportService) ExportWorkouts(ctx context.Context, userID primitive.ObjectID) (*ExportResult, error) {
	if userID == primitive.NilObjectID {
		return nil, errors.New("user ID is required")
	}

	workouts, err := s.workoutRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExportFailed, err)
	}

	now := s.now().UTC()
	body, err := json.MarshalIndent(exportDocument{
		UserID:     userID.Hex(),
		ExportedAt: now,
		Workouts:   workouts,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExportFailed, err)
	}

	objectKey := path.Join("exports", userID.Hex(), fmt.Sprintf("%s-%s.json", now.Format("20060102T150405Z"), uuid.NewString()))
	if err := s.fileStorage.PutObject(ctx, objectKey, "application/json", body); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExportFailed, err)
	}

	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, objectKey, s.linkExpiry)
	if err != nil {
		// nobody can reach the object without a link
		if delErr := s.fileStorage.DeleteObject(ctx, objectKey); delErr != nil {
			log.Warnf("failed to remove unreachable export %s: %s", objectKey, delErr)
		}
		return nil, ErrDownloadURLError
	}

	return &ExportResult{
		ObjectKey:   objectKey,
		DownloadURL: url,
		Count:       len(workouts),
		ExpiresAt:   now.Add(s.linkExpiry),
	}, nil
}
