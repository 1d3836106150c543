// Package clep holds the exam catalog and the pure policy engine: record
// normalization, per-institution aggregation, multi-criteria filtering and
// sorting. Everything in this package operates on in-memory values and
// never errors for well-formed input; malformed raw fields are absorbed
// during normalization.
package clep

// examCatalog is the authoritative ordered list of CLEP exams. Both the
// normalizer and the aggregation code depend on this exact membership and
// order; every institution's policy list has one entry per catalog exam.
var examCatalog = []string{
	"American Government",
	"American Literature",
	"Analyzing and Interpreting Literature",
	"Biology",
	"Calculus",
	"Chemistry",
	"College Algebra",
	"College Composition",
	"College Composition Modular",
	"College Mathematics",
	"English Literature",
	"Financial Accounting",
	"French Language Level I",
	"French Language Level II",
	"German Language Level I",
	"German Language Level II",
	"History of the United States I",
	"History of the United States II",
	"Human Growth and Development",
	"Humanities",
	"Information Systems",
	"Introduction to Educational Psychology",
	"Introductory Business Law",
	"Introductory Psychology",
	"Introductory Sociology",
	"Natural Sciences",
	"Precalculus",
	"Principles of Macroeconomics",
	"Principles of Management",
	"Principles of Marketing",
	"Principles of Microeconomics",
	"Social Sciences and History",
	"Spanish Language Level I",
	"Spanish Language Level II",
	"Spanish With Writing Level I",
	"Spanish With Writing Level II",
	"Western Civilization I",
	"Western Civilization II",
}

// Catalog returns a copy of the exam catalog in stable order.
func Catalog() []string {
	out := make([]string, len(examCatalog))
	copy(out, examCatalog)
	return out
}

// InCatalog reports whether the given exam name is part of the catalog.
func InCatalog(name string) bool {
	for _, e := range examCatalog {
		if e == name {
			return true
		}
	}
	return false
}
