package yo

import (
	"sort"
)

// YearIndex maps a year label to the full table of that sitting.
type YearIndex map[string]SubjectTable

// SubjectIndex maps a subject to its thresholds in every sitting it appeared in.
type SubjectIndex map[string]map[string][]Score

// Results holds both indexes, they are always built from the same entries.
type Results struct {
	ByYear    YearIndex
	BySubject SubjectIndex
}

func NewResults() Results {
	return Results{
		ByYear:    YearIndex{},
		BySubject: SubjectIndex{},
	}
}

// Add merges one sitting into both indexes. A year that was already added is
// replaced in the year index, its subjects are overwritten in the subject index.
func (r Results) Add(entry YearEntry) {
	for subject, points := range entry.Points {
		years, ok := r.BySubject[subject]
		if !ok {
			years = map[string][]Score{}
			r.BySubject[subject] = years
		}
		years[entry.Year] = points
	}
	r.ByYear[entry.Year] = entry.Points
}

// ResultsFromYearIndex rebuilds both indexes from a year index alone.
func ResultsFromYearIndex(index YearIndex) Results {
	results := NewResults()
	for _, year := range sortedKeys(index) {
		results.Add(YearEntry{Year: year, Points: index[year]})
	}
	return results
}

func (r Results) Years() []string {
	return sortedKeys(r.ByYear)
}

func (r Results) Subjects() []string {
	return sortedKeys(r.BySubject)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
