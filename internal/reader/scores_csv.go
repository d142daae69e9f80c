package reader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/DjordjeVuckovic/gradebook/internal/domain"
)

var scoreColumns = []string{"student_id", "item_id", "earned", "possible"}

// CSVScoreReader reads raw scores from CSV with a student_id, item_id,
// earned, possible header. Column order is free and extra columns are ignored.
type CSVScoreReader struct {
	reader   io.Reader
	courseID string
}

func NewCSVScoreReader(reader io.Reader, courseID string) *CSVScoreReader {
	return &CSVScoreReader{
		reader:   reader,
		courseID: courseID,
	}
}

func (r *CSVScoreReader) Read() ([]domain.RawScore, error) {
	csvReader := csv.NewReader(r.reader)
	csvReader.TrimLeadingSpace = true

	headers, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range scoreColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	var scores []domain.RawScore
	for line := 2; ; line++ {
		row, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		earned, err := strconv.ParseFloat(row[index["earned"]], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid earned: %w", line, err)
		}
		possible, err := strconv.ParseFloat(row[index["possible"]], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid possible: %w", line, err)
		}

		score := domain.RawScore{
			CourseID:  r.courseID,
			StudentID: row[index["student_id"]],
			ItemID:    row[index["item_id"]],
			Earned:    earned,
			Possible:  possible,
		}
		if err := score.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		scores = append(scores, score)
	}
	return scores, nil
}
