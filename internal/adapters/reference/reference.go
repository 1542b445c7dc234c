// Package reference loads the static historical leaderboard.
package reference

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/okian/onbase/internal/domain/model"
)

//go:embed historical_streaks.csv
var defaultCSV []byte

var columns = []string{"name", "team", "streak", "seasons"}

// Load reads the CSV at path, or the compiled-in data set when path is empty.
func Load(path string) ([]model.LeaderboardEntry, error) {
	if path == "" {
		return Parse(bytes.NewReader(defaultCSV))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open reference data: %w", err)
	}
	defer f.Close()

	entries, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

// Parse reads rows of name,team,streak,seasons. Columns are matched by the
// header, so their order does not matter. Rank is left unset.
func Parse(r io.Reader) ([]model.LeaderboardEntry, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: missing header", ErrMalformed)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	idx, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	var out []model.LeaderboardEntry
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		name := strings.TrimSpace(row[idx["name"]])
		if name == "" {
			return nil, fmt.Errorf("%w: line %d: empty name", ErrMalformed, line)
		}
		streak, err := strconv.Atoi(strings.TrimSpace(row[idx["streak"]]))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: streak: %v", ErrMalformed, line, err)
		}
		out = append(out, model.LeaderboardEntry{
			Name:    name,
			Team:    strings.TrimSpace(row[idx["team"]]),
			Streak:  streak,
			Seasons: strings.TrimSpace(row[idx["seasons"]]),
		})
	}
	return out, nil
}

func indexColumns(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range columns {
		if _, ok := idx[c]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrMalformed, c)
		}
	}
	return idx, nil
}
