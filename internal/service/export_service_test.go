package service

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository/mocks"
	storagemocks "alcyxob/fitness-tracker/internal/storage/mocks"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"
)

func newExportFixture(t *testing.T) (*exportService, *mocks.MockWorkoutRepository, *storagemocks.MockFileStorage) {
	ctrl := gomock.NewController(t)
	workouts := mocks.NewMockWorkoutRepository(ctrl)
	files := storagemocks.NewMockFileStorage(ctrl)
	svc := NewExportService(workouts, files).(*exportService)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc, workouts, files
}

func TestExportService_ExportWorkouts(t *testing.T) {
	svc, workouts, files := newExportFixture(t)
	ctx := context.Background()
	userID := primitive.NewObjectID()

	list := []domain.Workout{
		{ID: primitive.NewObjectID(), UserID: userID, Day: 1, Date: "2024-05-30", Completed: true},
		{ID: primitive.NewObjectID(), UserID: userID, Day: 2, Date: "2024-05-31"},
	}
	workouts.EXPECT().GetByUserID(ctx, userID).Return(list, nil)

	var storedKey string
	files.EXPECT().PutObject(ctx, gomock.Any(), "application/json", gomock.Any()).
		DoAndReturn(func(_ context.Context, key, _ string, body []byte) error {
			storedKey = key
			var doc exportDocument
			require.NoError(t, json.Unmarshal(body, &doc))
			assert.Equal(t, userID.Hex(), doc.UserID)
			assert.Len(t, doc.Workouts, 2)
			return nil
		})
	files.EXPECT().GeneratePresignedDownloadURL(ctx, gomock.Any(), 15*time.Minute).Return("https://files/export", nil)

	res, err := svc.ExportWorkouts(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, storedKey, res.ObjectKey)
	assert.True(t, strings.HasPrefix(res.ObjectKey, "exports/"+userID.Hex()+"/20240601T120000Z-"), res.ObjectKey)
	assert.Equal(t, "https://files/export", res.DownloadURL)
	assert.Equal(t, 2, res.Count)
	assert.Equal(t, time.Date(2024, 6, 1, 12, 15, 0, 0, time.UTC), res.ExpiresAt)
}

func TestExportService_Failures(t *testing.T) {
	ctx := context.Background()
	userID := primitive.NewObjectID()

	svc, workouts, _ := newExportFixture(t)
	workouts.EXPECT().GetByUserID(ctx, userID).Return(nil, errors.New("mongo down"))
	_, err := svc.ExportWorkouts(ctx, userID)
	assert.ErrorIs(t, err, ErrExportFailed)

	svc, workouts, files := newExportFixture(t)
	workouts.EXPECT().GetByUserID(ctx, userID).Return([]domain.Workout{}, nil)
	files.EXPECT().PutObject(ctx, gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("bucket missing"))
	_, err = svc.ExportWorkouts(ctx, userID)
	assert.ErrorIs(t, err, ErrExportFailed)

	svc, workouts, files = newExportFixture(t)
	workouts.EXPECT().GetByUserID(ctx, userID).Return([]domain.Workout{}, nil)
	files.EXPECT().PutObject(ctx, gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	files.EXPECT().GeneratePresignedDownloadURL(ctx, gomock.Any(), gomock.Any()).Return("", errors.New("no creds"))
	files.EXPECT().DeleteObject(ctx, gomock.Any()).Return(nil)
	_, err = svc.ExportWorkouts(ctx, userID)
	assert.ErrorIs(t, err, ErrDownloadURLError)

	_, err = svc.ExportWorkouts(ctx, primitive.NilObjectID)
	assert.Error(t, err)
}
