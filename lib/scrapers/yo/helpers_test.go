package yo

import (
	"strings"
	"testing"

	_ "embed"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
)

//go:embed kevat_2023_page_test.html
var kevat2023PageTest []byte

//go:embed archive_page_test.html
var archivePageTest []byte

func mustDocument(t testing.TB, contents string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(contents))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

// NaN scores compare equal to each other
var equateScores = cmp.Comparer(func(a, b Score) bool {
	return a == b || (a.IsNaN() && b.IsNaN())
})

func scores(values ...float64) []Score {
	out := make([]Score, len(values))
	for i, v := range values {
		out[i] = Score(v)
	}
	return out
}

func requireNoDiff(t testing.TB, expected, actual any) {
	t.Helper()
	diff := cmp.Diff(expected, actual, equateScores)
	if diff != "" {
		t.Fatalf("unexpected result (-expected +actual):\n%s", diff)
	}
}
