package progress

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mo-amir99/lms-progress-server-go/internal/features/catalog"
	"github.com/mo-amir99/lms-progress-server-go/internal/features/catalog/catalogtest"
	"github.com/mo-amir99/lms-progress-server-go/internal/features/completion"
	"github.com/mo-amir99/lms-progress-server-go/internal/features/enrollment"
	"github.com/mo-amir99/lms-progress-server-go/internal/testutil"
	"github.com/mo-amir99/lms-progress-server-go/pkg/logger"
)

type fixture struct {
	db          *gorm.DB
	completions *completion.Store
	enrollments *enrollment.Store
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := testutil.OpenDB(t, catalog.Migrate, completion.Migrate, enrollment.Migrate)
	return fixture{
		db:          db,
		completions: completion.NewStore(db, nil),
		enrollments: enrollment.NewStore(db),
	}
}

func (f fixture) service(opts Options) *Service {
	return NewService(catalog.NewReader(f.db), f.completions, f.enrollments, opts, logger.Discard())
}

func (f fixture) enroll(t *testing.T, user, course uuid.UUID, stored int) {
	t.Helper()
	require.NoError(t, f.db.Create(&enrollment.Enrollment{
		UserID:         user,
		CourseID:       course,
		StoredProgress: stored,
		EnrolledAt:     time.Now().UTC(),
	}).Error)
}

func TestSnapshotCountsOnlyCourseLessons(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := uuid.New()

	courseID, lessons := catalogtest.Course(t, f.db, "Go", 3)
	_, otherLessons := catalogtest.Course(t, f.db, "Rust", 2)

	require.NoError(t, f.completions.MarkComplete(ctx, user, lessons[0]))
	require.NoError(t, f.completions.MarkComplete(ctx, user, otherLessons[0]))
	require.NoError(t, f.completions.MarkComplete(ctx, user, otherLessons[1]))

	snap, err := f.service(Options{}).Snapshot(ctx, user, courseID)
	require.NoError(t, err)
	assert.Equal(t, 33, snap.Progress)
	assert.Equal(t, 3, snap.TotalLessons)
	assert.Equal(t, 1, snap.CompletedLessons)
	assert.Equal(t, []uuid.UUID{lessons[0]}, snap.CompletedLessonIDs)
}

func TestCourseProgressGrowsMonotonically(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := uuid.New()
	svc := f.service(Options{})

	courseID, lessons := catalogtest.Course(t, f.db, "Go", 3)

	want := []int{33, 67, 100}
	last := 0
	for i, lesson := range lessons {
		require.NoError(t, f.completions.MarkComplete(ctx, user, lesson))
		got, err := svc.CourseProgress(ctx, user, courseID)
		require.NoError(t, err)
		assert.Equal(t, want[i], got)
		assert.GreaterOrEqual(t, got, last)
		last = got
	}
}

func TestZeroLessonCourse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := uuid.New()

	courseID, _ := catalogtest.Course(t, f.db, "Empty", 0)
	f.enroll(t, user, courseID, 40)

	got, err := f.service(Options{}).CourseProgress(ctx, user, courseID)
	require.NoError(t, err)
	assert.Equal(t, 0, got, "stored value ignored when the floor is off")

	got, err = f.service(Options{StoredFloor: true}).CourseProgress(ctx, user, courseID)
	require.NoError(t, err)
	assert.Equal(t, 40, got, "stored value used as fallback")
}

func TestStoredFloor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := uuid.New()

	courseID, lessons := catalogtest.Course(t, f.db, "Go", 4)
	f.enroll(t, user, courseID, 75)
	require.NoError(t, f.completions.MarkComplete(ctx, user, lessons[0]))

	plain, err := f.service(Options{}).CourseProgress(ctx, user, courseID)
	require.NoError(t, err)
	assert.Equal(t, 25, plain)

	floored, err := f.service(Options{StoredFloor: true}).CourseProgress(ctx, user, courseID)
	require.NoError(t, err)
	assert.Equal(t, 75, floored)
}

func TestComputeIgnoresStoredValue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := uuid.New()

	courseID, lessons := catalogtest.Course(t, f.db, "Go", 2)
	f.enroll(t, user, courseID, 100)

	progress, completed, err := f.service(Options{StoredFloor: true}).Compute(ctx, user, lessons)
	require.NoError(t, err)
	assert.Equal(t, 0, progress)
	assert.Equal(t, 0, completed)
}
