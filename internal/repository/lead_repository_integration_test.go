//go:build integration

package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/leads-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/leads-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("leads_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Discard,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func newLead(ownerID uuid.UUID, email string) *models.Lead {
	l := &models.Lead{
		ID:        uuid.New(),
		UserID:    ownerID,
		FirstName: "Test",
		LastName:  "Lead",
		Email:     email,
	}
	l.Normalize()
	l.ApplyDefaults()
	return l
}

func TestIntegrationUniquePerOwner(t *testing.T) {
	db := openTestDB(t)
	repo := NewLeadRepository(db)
	ctx := context.Background()
	u1, u2 := uuid.New(), uuid.New()

	require.NoError(t, repo.Create(ctx, newLead(u1, "X@Y.com")))
	assert.ErrorIs(t, repo.Create(ctx, newLead(u1, " x@y.com ")), models.ErrDuplicateEmail)
	assert.NoError(t, repo.Create(ctx, newLead(u2, "x@y.com")))
}

func TestIntegrationConcurrentCreatesOneWins(t *testing.T) {
	db := openTestDB(t)
	repo := NewLeadRepository(db)
	ctx := context.Background()
	ownerID := uuid.New()

	const racers = 8
	errs := make([]error, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.Create(ctx, newLead(ownerID, "race@example.com"))
		}(i)
	}
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, models.ErrDuplicateEmail):
			conflicts++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, racers-1, conflicts)
}

func TestIntegrationPaginationCoversEveryLeadOnce(t *testing.T) {
	db := openTestDB(t)
	repo := NewLeadRepository(db)
	ctx := context.Background()
	ownerID := uuid.New()

	const n, limit = 23, 5
	for i := 0; i < n; i++ {
		require.NoError(t, repo.Create(ctx, newLead(ownerID, uuid.NewString()+"@example.com")))
	}
	require.NoError(t, repo.Create(ctx, newLead(uuid.New(), "other-owner@example.com")))

	seen := map[uuid.UUID]bool{}
	var prev *models.Lead
	for offset := 0; offset < n; offset += limit {
		page, total, err := repo.List(ctx, ownerID, models.LeadFilter{}, offset, limit)
		require.NoError(t, err)
		assert.EqualValues(t, n, total)
		for i := range page {
			l := page[i]
			assert.False(t, seen[l.ID], "duplicate id across pages")
			seen[l.ID] = true
			if prev != nil {
				assert.False(t, l.CreatedAt.After(prev.CreatedAt), "not newest first")
			}
			prev = &l
		}
	}
	assert.Len(t, seen, n)
}

func TestIntegrationOwnershipIsolation(t *testing.T) {
	db := openTestDB(t)
	repo := NewLeadRepository(db)
	ctx := context.Background()
	u1, u2 := uuid.New(), uuid.New()

	lead := newLead(u1, "mine@example.com")
	require.NoError(t, repo.Create(ctx, lead))

	_, err := repo.FindByID(ctx, u2, lead.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	lead.Status = models.StatusWon
	assert.ErrorIs(t, repo.Update(ctx, u2, lead), ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, u2, lead.ID), ErrNotFound)

	got, err := repo.FindByID(ctx, u1, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusNew, got.Status)

	require.NoError(t, repo.Delete(ctx, u1, lead.ID))
	assert.ErrorIs(t, repo.Delete(ctx, u1, lead.ID), ErrNotFound)
}

func TestIntegrationFilters(t *testing.T) {
	db := openTestDB(t)
	repo := NewLeadRepository(db)
	ctx := context.Background()
	ownerID := uuid.New()

	mk := func(email, status string, score int, qualified bool) {
		l := newLead(ownerID, email)
		l.Status = status
		l.Score = score
		l.IsQualified = qualified
		l.Company = "Acme 100% Corp"
		require.NoError(t, repo.Create(ctx, l))
	}
	mk("a@acme.io", models.StatusQualified, 60, true)
	mk("b@acme.io", models.StatusQualified, 90, false)
	mk("c@other.io", models.StatusNew, 70, false)

	min, max := 50, 80
	leads, total, err := repo.List(ctx, ownerID, models.LeadFilter{
		ScoreMin: &min, ScoreMax: &max, Status: models.StatusQualified,
	}, 0, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, leads, 1)
	assert.Equal(t, "a@acme.io", leads[0].Email)

	no := false
	_, total, err = repo.List(ctx, ownerID, models.LeadFilter{IsQualified: &no}, 0, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	_, total, err = repo.List(ctx, ownerID, models.LeadFilter{Email: "ACME"}, 0, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	_, total, err = repo.List(ctx, ownerID, models.LeadFilter{Company: "100%"}, 0, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)

	_, total, err = repo.List(ctx, ownerID, models.LeadFilter{Company: "1000"}, 0, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)

	_, total, err = repo.List(ctx, ownerID, models.LeadFilter{Status: "bogus"}, 0, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
}
