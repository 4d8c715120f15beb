package resultstore

import (
	"context"
	"database/sql"
	"math"
	"path/filepath"
	"testing"
	"time"
	"yoresults/lib/scrapers/yo"
	"yoresults/lib/timezone"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var equateScores = cmp.Comparer(func(a, b yo.Score) bool {
	return a == b || (a.IsNaN() && b.IsNaN())
})

func openTestStore(t *testing.T) Store {
	t.Helper()
	db, err := Config{File: ":memory:"}.Open()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	store := NewStore(db)
	err = store.Migrate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return store
}

func testResults() yo.Results {
	results := yo.NewResults()
	results.Add(yo.YearEntry{Year: "kevät 2023", Points: yo.SubjectTable{
		"Äidinkieli, suomi":   {10, 20, 30},
		"Matematiikka, pitkä": {66, 55, yo.Score(math.NaN())},
	}})
	results.Add(yo.YearEntry{Year: "Syksy 2022", Points: yo.SubjectTable{
		"Äidinkieli, suomi": {11, 21, 31},
	}})
	results.Add(yo.YearEntry{Year: "Syksy 2019", Points: yo.SubjectTable{}})
	return results
}

func TestStoreRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	_, err := store.Latest(ctx)
	require.ErrorIs(t, err, ErrNoRuns)

	runs, err := store.List(ctx)
	require.NoError(t, err)
	require.Empty(t, runs)

	run := NewRun("https://www.ylioppilastutkinto.fi/fi", testResults())
	err = store.Save(ctx, run)
	require.NoError(t, err)

	loaded, err := store.Get(ctx, run.ID)
	require.NoError(t, err)
	require.Equal(t, run.ID, loaded.ID)
	require.Equal(t, run.Source, loaded.Source)
	require.Equal(t, run.ScrapedAt.UnixMilli(), loaded.ScrapedAt.UnixMilli())
	require.Equal(t, timezone.Location, loaded.ScrapedAt.Location())

	diff := cmp.Diff(run.Results, loaded.Results, equateScores)
	if diff != "" {
		t.Fatalf("unexpected results (-saved +loaded):\n%s", diff)
	}
	// empty sittings survive
	require.Contains(t, loaded.Results.ByYear, "Syksy 2019")
}

func TestStoreLatest(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	older := NewRun("older", yo.NewResults())
	older.ScrapedAt = older.ScrapedAt.Add(-time.Hour)
	newer := NewRun("newer", testResults())

	require.NoError(t, store.Save(ctx, newer))
	require.NoError(t, store.Save(ctx, older))

	latest, err := store.Latest(ctx)
	require.NoError(t, err)
	require.Equal(t, newer.ID, latest.ID)

	runs, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.Equal(t, newer.ID, runs[0].ID)
	require.Equal(t, 3, runs[0].Years)
	require.Equal(t, "older", runs[1].Source)
	require.Equal(t, 0, runs[1].Years)
}

func TestStoreDuplicateRun(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	run := NewRun("source", testResults())
	require.NoError(t, store.Save(ctx, run))
	require.Error(t, store.Save(ctx, run))

	// the failed save is rolled back
	runs, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
}

func TestStoreUnknownRun(t *testing.T) {
	store := openTestStore(t)
	_, err := store.Get(context.Background(), uuid.New())
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestConfigOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "yoresults.db")
	db, err := Config{File: path}.Open()
	require.NoError(t, err)
	defer db.Close()

	store := NewStore(db)
	require.NoError(t, store.Migrate(context.Background()))
	// migrating twice is harmless
	require.NoError(t, store.Migrate(context.Background()))
	require.NoError(t, store.Save(context.Background(), NewRun("file", testResults())))

	_, err = Config{}.Open()
	require.Error(t, err)
}
