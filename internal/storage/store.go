package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/flowsynth/internal/field"
	"github.com/san-kum/flowsynth/internal/grid"
)

var ErrCorruptRun = errors.New("storage: corrupt run")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID        string             `json:"id"`
	Generator string             `json:"generator"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Grid      grid.Grid          `json:"grid"`
	Shape     field.Shape        `json:"shape"`
	Vector    bool               `json:"vector"`
	Params    map[string]float64 `json:"params,omitempty"`
	// Source and Op are set on runs derived from another run.
	Source  string             `json:"source,omitempty"`
	Op      string             `json:"op,omitempty"`
	Cached  bool               `json:"cached,omitempty"`
	Metrics map[string]float64 `json:"metrics"`
}

// Save writes p under a new run directory and returns its ID. Shape, Vector,
// ID and Timestamp in meta are filled from p and the clock.
func (s *Store) Save(meta RunMetadata, p *field.Pair) (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}
	now := time.Now()
	runID, runDir, err := s.newRunDir(meta.Generator, now)
	if err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Shape = p.Shape()
	meta.Vector = !p.Scalar()

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "fields.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := writeFields(csvFile, p); err != nil {
		return "", err
	}
	return runID, csvFile.Close()
}

// newRunDir creates <base>/<name>_<unixnano>, adding a suffix on collision.
func (s *Store) newRunDir(name string, now time.Time) (string, string, error) {
	base := fmt.Sprintf("%s_%d", name, now.UnixNano())
	for n := 0; ; n++ {
		id := base
		if n > 0 {
			id = fmt.Sprintf("%s_%d", base, n)
		}
		dir := filepath.Join(s.baseDir, id)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return id, dir, nil
		}
		if !os.IsExist(err) {
			return "", "", err
		}
	}
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}

func writeFields(out io.Writer, p *field.Pair) error {
	w := csv.NewWriter(out)

	header := []string{"t", "i", "j", "u"}
	if !p.Scalar() {
		header = append(header, "v")
	}
	if err := w.Write(header); err != nil {
		return err
	}

	u := p.U
	row := make([]string, len(header))
	for t := 0; t < u.T; t++ {
		for i := 0; i < u.Nx; i++ {
			for j := 0; j < u.Ny; j++ {
				row[0] = strconv.Itoa(t)
				row[1] = strconv.Itoa(i)
				row[2] = strconv.Itoa(j)
				row[3] = strconv.FormatFloat(u.At(t, i, j), 'g', -1, 64)
				if !p.Scalar() {
					row[4] = strconv.FormatFloat(p.V.At(t, i, j), 'g', -1, 64)
				}
				if err := w.Write(row); err != nil {
					return err
				}
			}
		}
	}
	w.Flush()
	return w.Error()
}

// List returns all readable runs, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptRun, runID, err)
	}
	return &meta, nil
}

// LoadFields reads the stored field pair of a run.
func (s *Store) LoadFields(runID string) (*field.Pair, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	if sh := meta.Shape; sh.T < 0 || sh.Nx < 0 || sh.Ny < 0 {
		return nil, fmt.Errorf("%w: %s: negative shape %s", ErrCorruptRun, runID, sh)
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, "fields.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	p := &field.Pair{U: field.New(meta.Shape.T, meta.Shape.Nx, meta.Shape.Ny)}
	if meta.Vector {
		p.V = field.New(meta.Shape.T, meta.Shape.Nx, meta.Shape.Ny)
	}
	if err := readFields(file, p); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptRun, runID, err)
	}
	return p, nil
}

func readFields(in io.Reader, p *field.Pair) error {
	r := csv.NewReader(in)
	want := 4
	if !p.Scalar() {
		want = 5
	}
	r.FieldsPerRecord = want

	if _, err := r.Read(); err != nil {
		return fmt.Errorf("header: %w", err)
	}

	n := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		var idx [3]int
		for k := range idx {
			if idx[k], err = strconv.Atoi(rec[k]); err != nil {
				return err
			}
		}
		t, i, j := idx[0], idx[1], idx[2]
		if t < 0 || t >= p.U.T || i < 0 || i >= p.U.Nx || j < 0 || j >= p.U.Ny {
			return fmt.Errorf("row %d: index (%d,%d,%d): %w", n+1, t, i, j, field.ErrOutOfBounds)
		}

		u, err := strconv.ParseFloat(rec[3], 64)
		if err != nil {
			return err
		}
		p.U.Set(t, i, j, u)
		if p.V != nil {
			v, err := strconv.ParseFloat(rec[4], 64)
			if err != nil {
				return err
			}
			p.V.Set(t, i, j, v)
		}
		n++
	}

	if n != p.U.Shape().Len() {
		return fmt.Errorf("expected %d rows, got %d", p.U.Shape().Len(), n)
	}
	return nil
}

// Delete removes a run directory.
func (s *Store) Delete(runID string) error {
	if runID == "" || filepath.Base(runID) != runID {
		return fmt.Errorf("storage: invalid run id %q", runID)
	}
	return os.RemoveAll(filepath.Join(s.baseDir, runID))
}
