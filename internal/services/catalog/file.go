package catalog

import (
	"context"
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/unwraplabs/tyrion/internal/domain"
)

// FileSource reads a pre-fetched catalog from a JSON file holding a flat
// array of pool records. Used for offline runs and tests.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (f *FileSource) Pools(_ context.Context) ([]domain.PoolRecord, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, errors.Wrapf(err, "read catalog file %s", f.path)
	}

	var records []domain.PoolRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.Wrapf(err, "parse catalog file %s", f.path)
	}

	return records, nil
}
