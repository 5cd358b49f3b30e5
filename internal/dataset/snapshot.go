package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"terraview/internal/errors"
	"terraview/internal/noise"
)

// FromResult captures r at time t.
func FromResult(r *noise.Result, t time.Time) Snapshot {
	values := make([]float64, len(r.Values))
	copy(values, r.Values)
	return Snapshot{
		Version: SnapshotVersion,
		SavedAt: t.UTC(),
		Params:  toSnapshotParams(r.Params),
		Values:  values,
	}
}

// Result validates the snapshot and returns it as a result.
func (s Snapshot) Result() (*noise.Result, error) {
	if s.Version != SnapshotVersion {
		return nil, errors.New(errors.ErrCodeUnsupportedSchema, "snapshot version %d is not supported", s.Version)
	}
	p := s.Params.params()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	r := &noise.Result{Params: p, Values: s.Values}
	if err := r.Check(); err != nil {
		return nil, err
	}
	return r, nil
}

// FileName suggests a snapshot file name, e.g. "pink-2d-20240102-150405.json".
func FileName(p noise.Params, t time.Time) string {
	return fmt.Sprintf("%s-%dd-%s.json", p.NoiseFunction, p.Dimension, t.Format("20060102-150405"))
}

// Save writes s as indented JSON, creating parent directories. NaN and Inf
// cannot be encoded and are rejected.
func Save(path string, s Snapshot) error {
	if st := Stats(s.Values); st.NonFinite > 0 {
		return errors.New(errors.ErrCodeNonFiniteValue, "snapshot has %d non-finite values", st.NonFinite)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode snapshot")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// Load reads a snapshot written by Save and validates it.
func Load(path string) (*noise.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "%s is not a snapshot", filepath.Base(path))
	}
	return s.Result()
}
