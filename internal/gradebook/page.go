package gradebook

import (
	"github.com/DjordjeVuckovic/gradebook/internal/domain"
)

// DefaultPageSize is the number of students shown per gradebook page.
const DefaultPageSize = 20

// Row is one student line of the gradebook.
type Row struct {
	StudentID string
	Username  string
	Email     string
	Grade     domain.CourseGrade
}

// Page is everything the renderer needs for one gradebook page.
type Page struct {
	CourseID   string
	CourseName string
	Cutoffs    []domain.Cutoff
	// Columns are the breakdown labels of the current grading policy. When
	// empty the first row's breakdown is used.
	Columns  []string
	Rows     []Row
	Offset   int
	PageSize int
	Total    int
}

// Header lists the breakdown column labels followed by "Total".
func (p *Page) Header() []string {
	columns := p.columns()
	if columns == nil {
		return nil
	}
	return append(append(make([]string, 0, len(columns)+1), columns...), "Total")
}

// Cells returns the breakdown of r aligned to the page columns. Columns the
// stored grade does not carry, e.g. after a policy change, render as None.
func (p *Page) Cells(r Row) []domain.SectionGrade {
	if len(p.Columns) == 0 {
		return r.Grade.Breakdown
	}

	byLabel := make(map[string]domain.SectionGrade, len(r.Grade.Breakdown))
	for _, s := range r.Grade.Breakdown {
		byLabel[s.Label] = s
	}
	cells := make([]domain.SectionGrade, len(p.Columns))
	for i, label := range p.Columns {
		cell, ok := byLabel[label]
		if !ok {
			cell = domain.SectionGrade{Label: label, State: domain.StateNone}
		}
		cells[i] = cell
	}
	return cells
}

func (p *Page) columns() []string {
	if len(p.Columns) > 0 {
		return p.Columns
	}
	if len(p.Rows) == 0 {
		return nil
	}
	labels := make([]string, 0, len(p.Rows[0].Grade.Breakdown))
	for _, s := range p.Rows[0].Grade.Breakdown {
		labels = append(labels, s.Label)
	}
	return labels
}

func (p *Page) HasPrev() bool {
	return p.Offset > 0
}

func (p *Page) PrevOffset() int {
	return max(p.Offset-p.PageSize, 0)
}

func (p *Page) HasNext() bool {
	return p.Offset+len(p.Rows) < p.Total
}

func (p *Page) NextOffset() int {
	return p.Offset + p.PageSize
}
