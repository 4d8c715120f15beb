package yo

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// SubjectTable maps a subject name to its grade thresholds, in the column
// order of the source table.
type SubjectTable map[string][]Score

type ParseOptions struct {
	// Strict rejects score cells that are not numbers instead of storing NaN.
	Strict bool
}

// ParseTable reads the first tbody under container. Every row contributes its
// first cell's text as the subject and the remaining cells as scores, rows
// with an empty subject are skipped and a repeated subject replaces the
// earlier row. ErrNoTableBody is returned if there is no tbody.
func ParseTable(container *goquery.Selection, opts ParseOptions) (SubjectTable, error) {
	body := container.Find("tbody").First()
	if body.Length() == 0 {
		return nil, ErrNoTableBody
	}

	result := SubjectTable{}
	var rowErr error
	body.ChildrenFiltered("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := row.ChildrenFiltered("td, th")
		if cells.Length() == 0 {
			return true
		}

		subject := strings.TrimSpace(cells.First().Text())
		if subject == "" {
			return true
		}

		points := make([]Score, 0, cells.Length()-1)
		cells.Slice(1, goquery.ToEnd).EachWithBreak(func(i int, cell *goquery.Selection) bool {
			text := cell.Text()
			score, ok := CoerceScore(text)
			if !ok && opts.Strict {
				rowErr = fmt.Errorf(
					"%w: subject %q column %d: %q is not a number",
					ErrParse, subject, i+1, strings.TrimSpace(text),
				)
				return false
			}
			points = append(points, score)
			return true
		})
		if rowErr != nil {
			return false
		}

		result[subject] = points
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}

	return result, nil
}
