package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mo-amir99/lms-progress-server-go/internal/bootstrap"
	"github.com/mo-amir99/lms-progress-server-go/internal/features/badge"
	"github.com/mo-amir99/lms-progress-server-go/internal/features/certificate"
	"github.com/mo-amir99/lms-progress-server-go/internal/features/enrollment"
	"github.com/mo-amir99/lms-progress-server-go/internal/testutil"
	"github.com/mo-amir99/lms-progress-server-go/pkg/cache"
	"github.com/mo-amir99/lms-progress-server-go/pkg/config"
	"github.com/mo-amir99/lms-progress-server-go/pkg/logger"
)

func useDB(t *testing.T, db *gorm.DB) {
	t.Helper()

	previous := openEnv
	t.Cleanup(func() { openEnv = previous })

	log := logger.Discard()
	openEnv = func(context.Context) (*env, error) {
		services := bootstrap.NewServices(bootstrap.Deps{
			Config: &config.Config{},
			DB:     db,
			Cache:  cache.NewMemoryCache(),
		}, log)
		return &env{db: db, services: services, logger: log, close: func() {}}, nil
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestMigrate(t *testing.T) {
	db := testutil.OpenDB(t)
	useDB(t, db)

	out, err := run(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "schema up to date")

	for _, table := range []string{"users", "lessons", "enrollments", "lesson_completions", "quiz_attempts", "certificates", "badges", "user_badges"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestMigrateList(t *testing.T) {
	out, err := run(t, "migrate", "--list")
	require.NoError(t, err)
	assert.Equal(t, "users\ncatalog\nenrollments\nlesson_completions\nquizzes\ncertificates\nbadges\n", out)
}

func TestMigrateOnly(t *testing.T) {
	db := testutil.OpenDB(t)
	useDB(t, db)

	_, err := run(t, "migrate", "--only", "certificates,badges")
	require.NoError(t, err)
	assert.True(t, db.Migrator().HasTable("certificates"))
	assert.True(t, db.Migrator().HasTable("badges"))
	assert.False(t, db.Migrator().HasTable("enrollments"))

	_, err = run(t, "migrate", "--only", "payments")
	assert.ErrorContains(t, err, "unknown migration")
}

func TestBadgesSeed(t *testing.T) {
	db := testutil.OpenDB(t, badge.Migrate)
	useDB(t, db)

	path := filepath.Join(t.TempDir(), "badges.yaml")
	require.NoError(t, os.WriteFile(path, []byte("badges:\n  - name: First Step\n    points: 10\n  - name: Dedicated Learner\n    points: 50\n"), 0o600))

	out, err := run(t, "badges", "seed", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "seeded 2 badges")

	var count int64
	require.NoError(t, db.Model(&badge.Badge{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)

	_, err = run(t, "badges", "seed", "--file", path)
	require.NoError(t, err, "reseeding upserts")
	require.NoError(t, db.Model(&badge.Badge{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestBadgesSeedRequiresFile(t *testing.T) {
	useDB(t, testutil.OpenDB(t, badge.Migrate))

	_, err := run(t, "badges", "seed")
	assert.Error(t, err)
}

func TestBadgesReconcile(t *testing.T) {
	db := testutil.OpenDB(t, badge.Migrate, enrollment.Migrate)
	useDB(t, db)
	require.NoError(t, badge.Seed(context.Background(), db, []badge.Badge{{Name: badge.FirstStep, Points: 10}}))

	user, other := uuid.New(), uuid.New()
	for _, id := range []uuid.UUID{user, other} {
		require.NoError(t, db.Create(&enrollment.Enrollment{
			UserID: id, CourseID: uuid.New(), StoredProgress: 100, EnrolledAt: time.Now().UTC(),
		}).Error)
	}

	out, err := run(t, "badges", "reconcile", "--user", user.String())
	require.NoError(t, err)
	assert.Contains(t, out, "awarded First Step")

	out, err = run(t, "badges", "reconcile", "--user", user.String())
	require.NoError(t, err)
	assert.Contains(t, out, "nothing to award")

	_, err = run(t, "badges", "reconcile")
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&badge.UserBadge{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)

	_, err = run(t, "badges", "reconcile", "--user", "nope")
	assert.Error(t, err)
}

func TestCertificatesVerify(t *testing.T) {
	db := testutil.OpenDB(t, certificate.Migrate)
	useDB(t, db)

	user, course := uuid.New(), uuid.New()
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	code := certificate.VerificationCode(course, user, issued)
	require.NoError(t, db.Create(&certificate.Certificate{
		UserID: user, CourseID: course, IssuedAt: issued, VerificationCode: code,
	}).Error)

	out, err := run(t, "certificates", "verify", code)
	require.NoError(t, err)
	assert.Contains(t, out, code)
	assert.Contains(t, out, user.String())

	_, err = run(t, "certificates", "verify", "CERT-NOPE")
	assert.Error(t, err)
}
