package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"rentdata/internal/model"
)

type WriteOptions struct {
	Overwrite bool
	SortField model.Field
}

type WriteResult struct {
	Written []string `json:"written"`
}

// WriteReport renders the cost report and writes it to path.
func WriteReport(petCount int8, entries []model.Entry, path string, opt WriteOptions) (WriteResult, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return WriteResult{}, errors.New("missing --out")
	}
	path = filepath.Clean(path)

	md := RenderReportMarkdown(petCount, entries, RenderOptions{SortField: opt.SortField})

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return WriteResult{}, err
	}
	if err := writeFile(path, []byte(md), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Written: []string{path}}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
