package yo

import (
	"math"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestExtractSingleYear(t *testing.T) {
	doc := mustDocument(t, string(kevat2023PageTest))

	entries, err := ExtractYearEntries(doc, nil, ParseOptions{})
	require.NoError(t, err)
	requireNoDiff(t, []YearEntry{
		{
			Year: "kevät 2023",
			Points: SubjectTable{
				"Äidinkieli, suomi":   scores(10, 20, 30),
				"Matematiikka, pitkä": scores(66, 55, math.NaN()),
			},
		},
	}, entries)
}

func TestExtractMultiYear(t *testing.T) {
	doc := mustDocument(t, string(archivePageTest))

	entries, err := ExtractYearEntries(doc, ChildCountClassifier{Threshold: DefaultLayoutThreshold}, ParseOptions{})
	require.NoError(t, err)
	requireNoDiff(t, []YearEntry{
		{Year: "Syksy 2022", Points: SubjectTable{
			"Äidinkieli, suomi": scores(11, 21, 31),
			"Fysiikka":          scores(5, 10, 15),
		}},
		{Year: "Kevät 2022", Points: SubjectTable{
			"Äidinkieli, suomi": scores(12, 22, 32),
		}},
		{Year: "Syksy 2021", Points: SubjectTable{
			"Fysiikka": scores(6, 11, 16),
		}},
		{Year: "Kevät 2021", Points: SubjectTable{
			"Äidinkieli, suomi": scores(13, 23, 33),
		}},
		{Year: "Syksy 2020", Points: SubjectTable{
			"Äidinkieli, suomi": scores(14, 24, 34),
		}},
		{Year: "Kevät 2020", Points: SubjectTable{
			"Äidinkieli, suomi": scores(15, 25, 35),
			"Fysiikka":          scores(7, 12, 17),
		}},
	}, entries)
}

func TestExtractStrictPropagates(t *testing.T) {
	doc := mustDocument(t, string(kevat2023PageTest))

	_, err := ExtractYearEntries(doc, nil, ParseOptions{Strict: true})
	require.ErrorIs(t, err, ErrParse)
	require.ErrorContains(t, err, `table for "kevät 2023"`)
}

func TestExtractMissingContainer(t *testing.T) {
	doc := mustDocument(t, `<h1 class="heading">Pisterajat kevät 2023</h1><table><tbody></tbody></table>`)

	_, err := ExtractYearEntries(doc, nil, ParseOptions{})
	require.ErrorIs(t, err, ErrStructure)
}

func TestExtractMissingHeading(t *testing.T) {
	doc := mustDocument(t, `<div class="text-long"><table><tbody></tbody></table></div>`)

	_, err := ExtractYearEntries(doc, nil, ParseOptions{})
	require.ErrorIs(t, err, ErrStructure)
}

func TestExtractHeadingWithoutYear(t *testing.T) {
	doc := mustDocument(t, `<h1 class="heading">Pisterajat</h1><div class="text-long"><table><tbody></tbody></table></div>`)

	_, err := ExtractYearEntries(doc, nil, ParseOptions{})
	require.ErrorIs(t, err, ErrUnrecognizedLayout)
}

func TestExtractSingleYearWithoutTable(t *testing.T) {
	doc := mustDocument(t, `<h1 class="heading">Pisterajat kevät 2024</h1><div class="text-long"><p>Julkaistaan myöhemmin.</p></div>`)

	_, err := ExtractYearEntries(doc, nil, ParseOptions{})
	require.ErrorIs(t, err, ErrNoTableBody)
}

// a container that is large enough to be multi-year but holds only one
// non-empty child
func TestExtractUnrecognizedLayout(t *testing.T) {
	doc := mustDocument(t, `
		<div class="text-long">
			<p></p><p></p><p></p><p></p><p></p><p></p>
			<p></p><p></p><p></p><p></p><p>&nbsp;</p>
			<h3>Syksy 2022</h3>
		</div>
	`)

	_, err := ExtractYearEntries(doc, nil, ParseOptions{})
	require.ErrorIs(t, err, ErrUnrecognizedLayout)
}

func TestExtractMultiYearBrokenPair(t *testing.T) {
	doc := mustDocument(t, string(archivePageTest))
	// the header that should precede "Kevät 2022" is gone, so its table is
	// now read as a header and the next header as a table
	doc.Find(".text-long h3").Eq(1).Remove()

	_, err := ExtractYearEntries(doc, nil, ParseOptions{})
	require.ErrorIs(t, err, ErrNoTableBody)
	require.ErrorContains(t, err, "table for")
}

type fixedClassifier Layout

func (f fixedClassifier) Classify(*goquery.Selection) Layout {
	return Layout(f)
}

func TestExtractCustomClassifier(t *testing.T) {
	doc := mustDocument(t, string(kevat2023PageTest))

	// forced to multi-year, the paragraph before the table becomes a header
	entries, err := ExtractYearEntries(doc, fixedClassifier(LayoutMultiYear), ParseOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "Ylioppilastutkintolautakunta on vahvistanut kevään 2023 pisterajat.", entries[0].Year)

	_, err = ExtractYearEntries(doc, fixedClassifier(Layout(42)), ParseOptions{})
	require.ErrorIs(t, err, ErrUnrecognizedLayout)
}

func TestChildCountClassifier(t *testing.T) {
	doc := mustDocument(t, string(archivePageTest))
	container := doc.Find(".text-long")

	require.Equal(t, LayoutMultiYear, ChildCountClassifier{}.Classify(container))
	require.Equal(t, LayoutMultiYear, ChildCountClassifier{Threshold: 14}.Classify(container))
	require.Equal(t, LayoutSingleYear, ChildCountClassifier{Threshold: 15}.Classify(container))

	doc = mustDocument(t, string(kevat2023PageTest))
	require.Equal(t, LayoutSingleYear, ChildCountClassifier{}.Classify(doc.Find(".text-long")))
}

func TestYearFromHeading(t *testing.T) {
	require.Equal(t, "kevät 2023", YearFromHeading("Pisterajat kevät 2023"))
	require.Equal(t, "syksy 2019", YearFromHeading("\n  Pisterajat   syksy\n2019 "))
	require.Equal(t, "", YearFromHeading("Pisterajat"))
	require.Equal(t, "", YearFromHeading("  "))
}
