package notify

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/DjordjeVuckovic/gradebook/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	got []domain.CourseGrade
	err error
}

func (r *recordingNotifier) CourseGradeChanged(_ context.Context, g domain.CourseGrade) error {
	r.got = append(r.got, g)
	return r.err
}

func TestMulti_CallsEveryNotifier(t *testing.T) {
	failing := &recordingNotifier{err: errors.New("index unavailable")}
	ok := &recordingNotifier{}
	grade := domain.CourseGrade{CourseID: "c1", StudentID: "s1", State: domain.StatePass}

	err := Multi{failing, nil, ok}.CourseGradeChanged(context.Background(), grade)

	require.Error(t, err)
	assert.ErrorIs(t, err, failing.err)
	assert.Equal(t, []domain.CourseGrade{grade}, failing.got)
	assert.Equal(t, []domain.CourseGrade{grade}, ok.got)
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(slog.New(slog.NewTextHandler(&buf, nil)))

	err := n.CourseGradeChanged(context.Background(), domain.CourseGrade{
		CourseID: "c1", StudentID: "s7", Percent: 0.5, State: domain.StatePass, Version: "abc",
	})

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "student_id=s7")
	assert.Contains(t, buf.String(), "state=Pass")
}
