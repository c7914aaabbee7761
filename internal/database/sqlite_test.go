package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/JonMunkholm/jaarrekening/internal/config"
	"github.com/JonMunkholm/jaarrekening/internal/extract"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "test.db"), true)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleRecord(year int, gm float64) *extract.YearRecord {
	rec := extract.NewYearRecord(year)
	rec.GrossMargin = extract.Ptr(gm)
	rec.TotalAssets = extract.Ptr(1_000_000)
	rec.DataQuality = extract.QualityGood
	return rec
}

func TestSQLiteStore_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	store := newSQLite(t)

	rec := sampleRecord(2023, 500_000)
	rec.ValidationWarnings = []string{"Balans klopt niet"}
	require.NoError(t, store.SaveYear(ctx, "acme", rec))

	got, err := store.GetYear(ctx, "acme", 2023)
	require.NoError(t, err)
	assert.Equal(t, 2023, got.Year)
	require.NotNil(t, got.GrossMargin)
	assert.Equal(t, 500_000.0, *got.GrossMargin)
	assert.Nil(t, got.NetProfit)
	assert.Equal(t, extract.QualityGood, got.DataQuality)
	assert.Equal(t, []string{"Balans klopt niet"}, got.ValidationWarnings)
}

func TestSQLiteStore_SaveReplaces(t *testing.T) {
	ctx := context.Background()
	store := newSQLite(t)

	require.NoError(t, store.SaveYear(ctx, "acme", sampleRecord(2023, 1)))
	require.NoError(t, store.SaveYear(ctx, "acme", sampleRecord(2023, 2)))

	recs, err := store.ListYears(ctx, "acme")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 2.0, *recs[0].GrossMargin)
}

func TestSQLiteStore_NotFound(t *testing.T) {
	ctx := context.Background()
	store := newSQLite(t)

	_, err := store.GetYear(ctx, "acme", 2020)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.DeleteYear(ctx, "acme", 2020), ErrNotFound)
}

func TestSQLiteStore_ListYearsAndCompanies(t *testing.T) {
	ctx := context.Background()
	store := newSQLite(t)

	for _, y := range []int{2023, 2021, 2022} {
		require.NoError(t, store.SaveYear(ctx, "beta", sampleRecord(y, float64(y))))
	}
	require.NoError(t, store.SaveYear(ctx, "alpha", sampleRecord(2020, 1)))

	recs, err := store.ListYears(ctx, "beta")
	require.NoError(t, err)
	years := make([]int, len(recs))
	for i, r := range recs {
		years[i] = r.Year
	}
	assert.Equal(t, []int{2021, 2022, 2023}, years)

	companies, err := store.ListCompanies(ctx)
	require.NoError(t, err)
	require.Len(t, companies, 2)
	assert.Equal(t, "alpha", companies[0].Name)
	assert.Equal(t, []int{2021, 2022, 2023}, companies[1].Years)
	assert.False(t, companies[1].UpdatedAt.IsZero())

	require.NoError(t, store.DeleteYear(ctx, "beta", 2022))
	recs, err = store.ListYears(ctx, "beta")
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestSQLiteStore_Uploads(t *testing.T) {
	ctx := context.Background()
	store := newSQLite(t)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := range 3 {
		require.NoError(t, store.RecordUpload(ctx, Upload{
			ID:              uuid.New(),
			Company:         "acme",
			Year:            2020 + i,
			FileName:        "jaarrekening.csv",
			SizeBytes:       1024,
			DataQuality:     extract.QualityGood,
			FieldsPopulated: 12,
			CreatedAt:       base.Add(time.Duration(i) * time.Hour),
		}))
	}
	require.NoError(t, store.RecordUpload(ctx, Upload{
		ID: uuid.New(), Company: "other", Year: 2020, Error: "Lege CSV",
		DataQuality: extract.QualityError, CreatedAt: base,
	}))

	uploads, err := store.ListUploads(ctx, "acme", 2)
	require.NoError(t, err)
	require.Len(t, uploads, 2)
	assert.Equal(t, 2022, uploads[0].Year, "newest first")
	assert.Equal(t, 12, uploads[0].FieldsPopulated)
	assert.True(t, uploads[0].CreatedAt.Equal(base.Add(2*time.Hour)))

	all, err := store.ListUploads(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	pruned, err := store.PruneUploads(ctx, base.Add(90*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(3), pruned)

	all, err = store.ListUploads(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestOpen_SelectsDriver(t *testing.T) {
	ctx := context.Background()

	store, err := Open(ctx, config.DatabaseConfig{
		Driver:         config.DriverSQLite,
		SQLitePath:     filepath.Join(t.TempDir(), "open.db"),
		MigrateOnStart: true,
	})
	require.NoError(t, err)
	defer store.Close()
	assert.IsType(t, &SQLiteStore{}, store)
	assert.NoError(t, store.Ping(ctx))

	_, err = Open(ctx, config.DatabaseConfig{Driver: "mysql"})
	assert.Error(t, err)
}

func TestOpenSQLite_MigrationsAreIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "twice.db")

	first, err := OpenSQLite(ctx, path, true)
	require.NoError(t, err)
	require.NoError(t, first.SaveYear(ctx, "acme", sampleRecord(2023, 1)))
	require.NoError(t, first.Close())

	second, err := OpenSQLite(ctx, path, true)
	require.NoError(t, err)
	defer second.Close()

	_, err = second.GetYear(ctx, "acme", 2023)
	assert.NoError(t, err)
}

// TestPostgresStore runs against a real server when TEST_DATABASE_URL is set.
func TestPostgresStore(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	store, err := OpenPostgres(ctx, config.DatabaseConfig{URL: url, MaxConns: 4, MinConns: 1, MigrateOnStart: true})
	require.NoError(t, err)
	defer store.Close()

	company := "test-" + uuid.NewString()
	t.Cleanup(func() {
		store.DeleteYear(context.Background(), company, 2023)
	})

	require.NoError(t, store.SaveYear(ctx, company, sampleRecord(2023, 42)))
	got, err := store.GetYear(ctx, company, 2023)
	require.NoError(t, err)
	assert.Equal(t, 42.0, *got.GrossMargin)

	companies, err := store.ListCompanies(ctx)
	require.NoError(t, err)
	var found bool
	for _, c := range companies {
		if c.Name == company {
			found = true
			assert.Equal(t, []int{2023}, c.Years)
		}
	}
	assert.True(t, found)
}
