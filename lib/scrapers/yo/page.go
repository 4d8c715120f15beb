package yo

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// YearEntry is the threshold table of one examination sitting.
type YearEntry struct {
	Year   string
	Points SubjectTable
}

// ExtractYearEntries reads every sitting found on a detail page.
func ExtractYearEntries(doc *goquery.Document, classifier LayoutClassifier, opts ParseOptions) ([]YearEntry, error) {
	container := doc.Find(".text-long").First()
	if container.Length() == 0 {
		return nil, fmt.Errorf("%w: no .text-long content container", ErrStructure)
	}

	if classifier == nil {
		classifier = ChildCountClassifier{}
	}

	switch classifier.Classify(container) {
	case LayoutMultiYear:
		return extractMultiYear(container, opts)
	case LayoutSingleYear:
		return extractSingleYear(doc, container, opts)
	}
	return nil, ErrUnrecognizedLayout
}

func extractMultiYear(container *goquery.Selection, opts ParseOptions) ([]YearEntry, error) {
	children := container.Children().FilterFunction(func(_ int, child *goquery.Selection) bool {
		return strings.TrimSpace(child.Text()) != ""
	})
	if children.Length() < 2 {
		return nil, fmt.Errorf(
			"%w: multi-year container has %d non-empty children",
			ErrUnrecognizedLayout, children.Length(),
		)
	}

	var entries []YearEntry
	// a trailing header without a table is ignored
	for i := 0; i+1 < children.Length(); i += 2 {
		header := strings.TrimSpace(children.Eq(i).Text())
		table, err := ParseTable(children.Eq(i+1), opts)
		if err != nil {
			return nil, fmt.Errorf("table for %q: %w", header, err)
		}
		entries = append(entries, YearEntry{Year: header, Points: table})
	}
	return entries, nil
}

// YearFromHeading drops the first word of a page heading,
// "Pisterajat kevät 2023" becomes "kevät 2023".
func YearFromHeading(heading string) string {
	words := strings.Fields(heading)
	if len(words) < 2 {
		return ""
	}
	return strings.Join(words[1:], " ")
}

func extractSingleYear(doc *goquery.Document, container *goquery.Selection, opts ParseOptions) ([]YearEntry, error) {
	heading := doc.Find(".heading").First()
	if heading.Length() == 0 {
		return nil, fmt.Errorf("%w: no .heading element", ErrStructure)
	}
	year := YearFromHeading(heading.Text())
	if year == "" {
		return nil, fmt.Errorf(
			"%w: heading %q carries no year",
			ErrUnrecognizedLayout, strings.TrimSpace(heading.Text()),
		)
	}

	table, err := ParseTable(container, opts)
	if err != nil {
		return nil, fmt.Errorf("table for %q: %w", year, err)
	}
	return []YearEntry{{Year: year, Points: table}}, nil
}
