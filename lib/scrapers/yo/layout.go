package yo

import "github.com/PuerkitoBio/goquery"

type Layout int

const (
	// one sitting per page, the year is in the page heading
	LayoutSingleYear Layout = iota
	// several sittings per page as alternating header/table children
	LayoutMultiYear
)

func (l Layout) String() string {
	switch l {
	case LayoutSingleYear:
		return "single-year"
	case LayoutMultiYear:
		return "multi-year"
	}
	return "unknown"
}

// LayoutClassifier decides which layout a page's content container uses.
type LayoutClassifier interface {
	Classify(container *goquery.Selection) Layout
}

// DefaultLayoutThreshold is the child count above which a container is
// considered to hold several sittings. Single-year pages carry a handful of
// paragraphs around one table, archive pages carry a header and a table for
// every sitting.
const DefaultLayoutThreshold = 10

// ChildCountClassifier classifies by the number of element children.
type ChildCountClassifier struct {
	Threshold int
}

func (c ChildCountClassifier) Classify(container *goquery.Selection) Layout {
	threshold := c.Threshold
	if threshold <= 0 {
		threshold = DefaultLayoutThreshold
	}
	if container.Children().Length() > threshold {
		return LayoutMultiYear
	}
	return LayoutSingleYear
}
