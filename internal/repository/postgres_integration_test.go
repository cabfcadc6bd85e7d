package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ishita-lives/schedulr/internal/app"
	"github.com/ishita-lives/schedulr/internal/model"
	"github.com/ishita-lives/schedulr/internal/repository"
	"github.com/ishita-lives/schedulr/internal/service"
	"github.com/ishita-lives/schedulr/migrations"
)

// openTestDB migrates a fresh schema in the database named by DATABASE_URL
// and drops it when the test ends.
func openTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()

	admin, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(admin.Close)

	schema := "schedulr_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	_, err = admin.Exec(ctx, "CREATE SCHEMA "+schema)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = admin.Exec(context.Background(), "DROP SCHEMA "+schema+" CASCADE")
	})

	cfg, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err)
	cfg.ConnConfig.RuntimeParams["search_path"] = schema + ",public"
	cfg.MaxConns = 20

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	migrator, err := app.NewMigrator(pool, migrations.FS, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, migrator.Run(ctx))

	return pool
}

type pgRoster struct {
	teacher  uuid.UUID
	guardian uuid.UUID
}

func seedRoster(t *testing.T, pool *pgxpool.Pool) pgRoster {
	t.Helper()
	ctx := context.Background()

	r := pgRoster{teacher: uuid.New(), guardian: uuid.New()}
	_, err := pool.Exec(ctx, `INSERT INTO teachers (id, name) VALUES ($1, 'Ms. Rivera')`, r.teacher)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `INSERT INTO guardians (id, name) VALUES ($1, 'Dana Cole')`, r.guardian)
	require.NoError(t, err)
	return r
}

func addStudent(t *testing.T, pool *pgxpool.Pool, guardian uuid.UUID, name string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO students (id, name, grade, guardian_id) VALUES ($1, $2, '7', $3)`, id, name, guardian)
	require.NoError(t, err)
	return id
}

func TestPostgres_ConcurrentSingleSeat(t *testing.T) {
	pool := openTestDB(t)
	roster := seedRoster(t, pool)
	ctx := context.Background()
	logger := zap.NewNop()

	tx := repository.NewPostgresTxManager(pool, logger)
	catalog := service.NewCatalogService(tx, logger)
	enrollments := service.NewEnrollmentService(tx, logger)
	admin := model.Actor{ID: uuid.New(), Role: model.RoleAdmin}

	slot, err := catalog.CreateClass(ctx, admin, service.ClassInput{
		Subject:   "Mathematics",
		TeacherID: roster.teacher,
		DayOfWeek: 1,
		StartTime: "09:00",
		EndTime:   "10:00",
		Capacity:  1,
	})
	require.NoError(t, err)

	const n = 16
	students := make([]uuid.UUID, n)
	for i := range students {
		students[i] = addStudent(t, pool, roster.guardian, fmt.Sprintf("Student %d", i))
	}

	var won atomic.Int32
	var g errgroup.Group
	for _, id := range students {
		g.Go(func() error {
			_, err := enrollments.Enroll(ctx, admin, id, slot.ID)
			switch {
			case err == nil:
				won.Add(1)
			case errors.Is(err, service.ErrCapacity), repository.IsTransient(err):
				// lost the seat, or lost it twice in a row to serialization failures
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.EqualValues(t, 1, won.Load())
	count, err := enrollments.CountForClass(ctx, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPostgres_ConcurrentOverlappingCreates(t *testing.T) {
	pool := openTestDB(t)
	roster := seedRoster(t, pool)
	ctx := context.Background()
	logger := zap.NewNop()

	catalog := service.NewCatalogService(repository.NewPostgresTxManager(pool, logger), logger)
	admin := model.Actor{ID: uuid.New(), Role: model.RoleAdmin}

	var created atomic.Int32
	var g errgroup.Group
	for i := 0; i < 8; i++ {
		start := fmt.Sprintf("09:%02d", i*5)
		g.Go(func() error {
			_, err := catalog.CreateClass(ctx, admin, service.ClassInput{
				Subject:   "Physics",
				TeacherID: roster.teacher,
				DayOfWeek: 2,
				StartTime: start,
				EndTime:   "10:30",
				Capacity:  2,
			})
			switch {
			case err == nil:
				created.Add(1)
			case errors.Is(err, service.ErrConflict), repository.IsTransient(err):
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.EqualValues(t, 1, created.Load())
	classes, err := catalog.ListClasses(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, classes, 1)
}

func TestPostgres_StudentRemovalCascades(t *testing.T) {
	pool := openTestDB(t)
	roster := seedRoster(t, pool)
	ctx := context.Background()
	logger := zap.NewNop()

	tx := repository.NewPostgresTxManager(pool, logger)
	catalog := service.NewCatalogService(tx, logger)
	enrollments := service.NewEnrollmentService(tx, logger)
	changes := service.NewChangeService(tx, time.UTC, logger)
	admin := model.Actor{ID: uuid.New(), Role: model.RoleAdmin}

	slot, err := catalog.CreateClass(ctx, admin, service.ClassInput{
		Subject: "Mathematics", TeacherID: roster.teacher, DayOfWeek: 3, StartTime: "15:00", EndTime: "16:00", Capacity: 2,
	})
	require.NoError(t, err)

	student := addStudent(t, pool, roster.guardian, "Sam Cole")
	enrollment, err := enrollments.Enroll(ctx, admin, student, slot.ID)
	require.NoError(t, err)

	req, err := changes.RequestChange(ctx, admin, service.ChangeInput{
		EnrollmentID:  enrollment.ID,
		RequestedDate: time.Now().AddDate(0, 0, 7),
		NewStartTime:  "17:00",
		NewEndTime:    "18:00",
		Reason:        "orchestra",
	})
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `DELETE FROM students WHERE id = $1`, student)
	require.NoError(t, err)

	count, err := enrollments.CountForClass(ctx, slot.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	notice, err := changes.Notice(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ChangeStatusCancelled, notice.Request.Status)
	assert.Nil(t, notice.Request.DecidedBy)
}
