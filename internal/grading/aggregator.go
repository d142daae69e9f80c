package grading

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/DjordjeVuckovic/gradebook/internal/domain"
)

// Aggregator computes course grades for a single course and policy.
// It holds no mutable state and is safe for concurrent use.
type Aggregator struct {
	course   *domain.Course
	policy   domain.GradingPolicy
	cutoffs  []domain.Cutoff
	byFormat map[string][]*domain.Assignment
	items    map[string]*domain.Assignment
}

func NewAggregator(course *domain.Course) (*Aggregator, error) {
	if course == nil {
		return nil, fmt.Errorf("%w: nil course", domain.ErrInvalidCourse)
	}
	if err := course.Validate(); err != nil {
		return nil, err
	}

	policy := course.EffectivePolicy()
	a := &Aggregator{
		course:   course,
		policy:   policy,
		cutoffs:  policy.OrderedCutoffs(),
		byFormat: make(map[string][]*domain.Assignment),
		items:    course.ItemIndex(),
	}
	for i := range course.Assignments {
		asg := &course.Assignments[i]
		if !asg.Graded {
			continue
		}
		a.byFormat[asg.Format] = append(a.byFormat[asg.Format], asg)
	}
	return a, nil
}

func (a *Aggregator) Policy() domain.GradingPolicy {
	return a.policy
}

func (a *Aggregator) Cutoffs() []domain.Cutoff {
	return a.cutoffs
}

// ComputeAll grades every student in studentIDs. Students without scores still
// receive a (None) grade. Scores for items outside the course are ignored.
func (a *Aggregator) ComputeAll(studentIDs []string, scores []domain.RawScore) map[string]domain.CourseGrade {
	byStudent := make(map[string]map[string]domain.RawScore, len(studentIDs))
	for _, s := range scores {
		m, ok := byStudent[s.StudentID]
		if !ok {
			m = make(map[string]domain.RawScore)
			byStudent[s.StudentID] = m
		}
		m[s.ItemID] = s
	}

	out := make(map[string]domain.CourseGrade, len(studentIDs))
	for _, id := range studentIDs {
		out[id] = a.Compute(id, byStudent[id])
	}
	return out
}

// Compute grades one student. scores is keyed by item ID.
func (a *Aggregator) Compute(studentID string, scores map[string]domain.RawScore) domain.CourseGrade {
	grade := domain.CourseGrade{
		CourseID:  a.course.ID,
		StudentID: studentID,
	}

	var total float64
	for _, cat := range a.policy.Grader {
		sections, fraction := a.gradeCategory(cat, scores)
		grade.Breakdown = append(grade.Breakdown, sections...)
		grade.Categories = append(grade.Categories, domain.CategoryGrade{
			Category: cat.Type,
			Percent:  fraction,
			Weight:   cat.Weight,
			State:    StateFor(fraction, a.cutoffs),
		})
		// the conversion rounds the product so it is never fused into an FMA
		total += float64(cat.Weight * fraction)
	}

	grade.Percent = CoursePercent(total)
	grade.State = StateFor(grade.Percent, a.cutoffs)
	grade.Version = Fingerprint(grade)
	return grade
}

// Empty is the grade of a student with no scores at all. The gradebook falls
// back to it when no computed grade has been stored yet.
func (a *Aggregator) Empty(studentID string) domain.CourseGrade {
	return a.Compute(studentID, nil)
}

type slot struct {
	percent float64
	label   string
	detail  string
	dropped bool
}

func (a *Aggregator) gradeCategory(cat domain.GraderCategory, scores map[string]domain.RawScore) ([]domain.SectionGrade, float64) {
	assignments := a.byFormat[cat.Type]
	n := max(cat.MinCount, len(assignments))
	prefix := cat.Label()

	slots := make([]slot, n)
	for i := range slots {
		label := fmt.Sprintf("%s %02d", prefix, i+1)
		if i < len(assignments) {
			asg := assignments[i]
			earned, possible := assignmentScore(asg, scores)
			var pct float64
			if possible > 0 {
				pct = earned / possible
			}
			slots[i] = slot{
				percent: pct,
				label:   label,
				detail:  fmt.Sprintf("%s %d - %s - %.0f%% (%g/%g)", cat.Type, i+1, asg.DisplayName, pct*100, earned, possible),
			}
			continue
		}
		slots[i] = slot{
			label:  label,
			detail: fmt.Sprintf("%s %d Unreleased - 0%% (?/?)", cat.Type, i+1),
		}
	}

	markDropped(slots, cat.DropCount)

	kept := make([]float64, 0, n)
	for _, s := range slots {
		if !s.dropped {
			kept = append(kept, s.percent)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(kept)))
	var sum float64
	for _, p := range kept {
		sum += p
	}
	var fraction float64
	if len(kept) > 0 {
		fraction = sum / float64(len(kept))
	}

	if n == 1 {
		return []domain.SectionGrade{{
			Label:     prefix,
			Category:  cat.Type,
			Percent:   fraction,
			State:     StateFor(fraction, a.cutoffs),
			Detail:    fmt.Sprintf("%s = %.2f%%", cat.Type, fraction*100),
			Prominent: true,
		}}, fraction
	}

	sections := make([]domain.SectionGrade, 0, n+1)
	for _, s := range slots {
		sections = append(sections, domain.SectionGrade{
			Label:    s.label,
			Category: cat.Type,
			Percent:  s.percent,
			State:    StateFor(s.percent, a.cutoffs),
			Detail:   s.detail,
			Dropped:  s.dropped,
		})
	}
	sections = append(sections, domain.SectionGrade{
		Label:     prefix + " Avg",
		Category:  cat.Type,
		Percent:   fraction,
		State:     StateFor(fraction, a.cutoffs),
		Detail:    fmt.Sprintf("%s Average = %.2f%%", cat.Type, fraction*100),
		Prominent: true,
	})
	return sections, fraction
}

// markDropped flags the drop lowest slots. Among equal percents the later slot is dropped first.
func markDropped(slots []slot, drop int) {
	if drop <= 0 {
		return
	}
	order := make([]int, len(slots))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		pi, pj := slots[order[i]].percent, slots[order[j]].percent
		if pi != pj {
			return pi < pj
		}
		return order[i] > order[j]
	})
	for _, idx := range order[:min(drop, len(order))] {
		slots[idx].dropped = true
	}
}

func assignmentScore(asg *domain.Assignment, scores map[string]domain.RawScore) (earned, possible float64) {
	for _, it := range asg.Items {
		s, ok := scores[it.ID]
		if !ok {
			possible += it.MaxPoints
			continue
		}
		earned += s.Earned
		possible += s.Possible
	}
	return earned, possible
}

// Fingerprint identifies the graded content of g, ignoring timestamps and
// the previous version. Equal inputs always yield equal fingerprints.
func Fingerprint(g domain.CourseGrade) string {
	payload := struct {
		Breakdown  []domain.SectionGrade  `json:"b"`
		Categories []domain.CategoryGrade `json:"c"`
		Percent    float64                `json:"p"`
		State      domain.GradeState      `json:"s"`
	}{g.Breakdown, g.Categories, g.Percent, g.State}

	data, err := json.Marshal(payload)
	if err != nil {
		// only float NaN/Inf can fail here and the aggregator never produces them
		panic(fmt.Sprintf("fingerprint grade: %v", err))
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:16])
}
