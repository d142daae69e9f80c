package grading

import (
	"testing"

	"github.com/DjordjeVuckovic/gradebook/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestStateFor(t *testing.T) {
	letters := []domain.Cutoff{{Label: "A", Min: .9}, {Label: "B", Min: .8}, {Label: "C", Min: .7}, {Label: "D", Min: .6}}
	pass := []domain.Cutoff{{Label: "Pass", Min: .5}}

	tests := []struct {
		name     string
		fraction float64
		cutoffs  []domain.Cutoff
		want     domain.GradeState
	}{
		{"zero is none", 0, letters, domain.StateNone},
		{"negative is none", -0.1, letters, domain.StateNone},
		{"just above zero fails", 0.01, letters, domain.StateFail},
		{"exact A boundary", 0.9, letters, "A"},
		{"just below A", 0.8999, letters, "B"},
		{"exact D boundary", 0.6, letters, "D"},
		{"full marks", 1, letters, "A"},
		{"pass boundary", 0.5, pass, domain.StatePass},
		{"below pass", 0.49, pass, domain.StateFail},
		{"no cutoffs", 0.99, nil, domain.StateFail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StateFor(tt.fraction, tt.cutoffs))
		})
	}
}

func TestCoursePercent(t *testing.T) {
	tests := []struct {
		total float64
		want  float64
	}{
		{0, 0},
		{0.0015, 0},
		{0.003, 0},
		{0.15 * 0.03, 0.01},
		{0.006, 0.01},
		{0.015, 0.02},
		{0.6, 0.6},
		{0.9, 0.9},
		{1, 1},
		{0.8449, 0.85},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CoursePercent(tt.total), "total=%v", tt.total)
	}
}
