package enrollment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mo-amir99/lms-progress-server-go/internal/testutil"
)

func enroll(t *testing.T, db *gorm.DB, user, course uuid.UUID, progress int) {
	t.Helper()
	require.NoError(t, db.Create(&Enrollment{
		UserID:         user,
		CourseID:       course,
		StoredProgress: progress,
		EnrolledAt:     time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
	}).Error)
}

func TestSetStoredProgress(t *testing.T) {
	db := testutil.OpenDB(t, Migrate)
	store := NewStore(db)
	ctx := context.Background()
	user, course := uuid.New(), uuid.New()
	enroll(t, db, user, course, 0)

	ok, err := store.SetStoredProgress(ctx, user, course, 40)
	require.NoError(t, err)
	assert.True(t, ok)

	row, found, err := store.Get(ctx, user, course)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 40, row.StoredProgress)

	ok, err = store.SetStoredProgress(ctx, user, uuid.New(), 40)
	require.NoError(t, err)
	assert.False(t, ok, "missing enrollment is reported, not created")

	_, found, err = store.Get(ctx, uuid.New(), course)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSetStoredProgressKeepsCompletion(t *testing.T) {
	db := testutil.OpenDB(t, Migrate)
	store := NewStore(db)
	ctx := context.Background()
	user, course := uuid.New(), uuid.New()
	enroll(t, db, user, course, 100)

	ok, err := store.SetStoredProgress(ctx, user, course, 67)
	require.NoError(t, err)
	assert.True(t, ok)

	row, _, err := store.Get(ctx, user, course)
	require.NoError(t, err)
	assert.Equal(t, 100, row.StoredProgress)
}

func TestCountCompletedCourses(t *testing.T) {
	db := testutil.OpenDB(t, Migrate)
	store := NewStore(db)
	ctx := context.Background()
	user, other := uuid.New(), uuid.New()

	enroll(t, db, user, uuid.New(), 100)
	enroll(t, db, user, uuid.New(), 100)
	enroll(t, db, user, uuid.New(), 99)
	enroll(t, db, other, uuid.New(), 100)

	n, err := store.CountCompletedCourses(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	users, err := store.UsersWithCompletedCourses(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{user, other}, users)
}
