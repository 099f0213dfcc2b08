// Package cache stores expensive generator results on disk, one file per
// canonical parameter hash. A Cache is owned by the caller and passed into
// the generators that use it; there is no process-wide cache location.
package cache

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/san-kum/flowsynth/internal/field"
)

const ext = ".flow"

// ErrCorrupt indicates a cache file that exists but cannot be decoded.
var ErrCorrupt = errors.New("cache: corrupt entry")

type Options struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

type Cache struct {
	opts Options
}

// New creates the cache directory when the cache is enabled.
func New(opts Options) (*Cache, error) {
	if opts.Enabled {
		if opts.Dir == "" {
			return nil, fmt.Errorf("cache: enabled without a directory")
		}
		if err := os.MkdirAll(opts.Dir, 0755); err != nil {
			return nil, fmt.Errorf("cache: create dir: %w", err)
		}
	}
	return &Cache{opts: opts}, nil
}

// Enabled is false for a nil or disabled cache.
func (c *Cache) Enabled() bool { return c != nil && c.opts.Enabled }

func (c *Cache) Dir() string { return c.opts.Dir }

// Key hashes params as JSON with sorted object keys, so field order in the
// params type does not affect the key.
func Key(prefix string, params any) (string, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("cache: encode params: %w", err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return "", fmt.Errorf("cache: canonicalize params: %w", err)
	}
	canonical, err := json.Marshal(generic)
	if err != nil {
		return "", fmt.Errorf("cache: encode params: %w", err)
	}
	sum := md5.Sum(canonical)
	return prefix + "_" + hex.EncodeToString(sum[:]), nil
}

func (c *Cache) Path(key string) string {
	return filepath.Join(c.opts.Dir, key+ext)
}

type record struct {
	Shape [3]int    `json:"shape"`
	U     []float64 `json:"u_field"`
	V     []float64 `json:"v_field"`
}

// Load returns the stored pair for key. A missing entry or disabled cache is
// a miss with a nil error.
func (c *Cache) Load(key string) (*field.Pair, bool, error) {
	if !c.Enabled() {
		return nil, false, nil
	}
	f, err := os.Open(c.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	defer dec.Close()

	var rec record
	if err := json.NewDecoder(dec).Decode(&rec); err != nil {
		return nil, false, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}

	t, nx, ny := rec.Shape[0], rec.Shape[1], rec.Shape[2]
	if t < 0 || nx < 0 || ny < 0 {
		return nil, false, fmt.Errorf("%w: %s: negative shape %v", ErrCorrupt, key, rec.Shape)
	}
	n := t * nx * ny
	if len(rec.U) != n || len(rec.V) != n {
		return nil, false, fmt.Errorf("%w: %s: %d/%d samples for shape %v", ErrCorrupt, key, len(rec.U), len(rec.V), rec.Shape)
	}

	u := &field.Field{T: t, Nx: nx, Ny: ny, Data: rec.U}
	v := &field.Field{T: t, Nx: nx, Ny: ny, Data: rec.V}
	return &field.Pair{U: u, V: v}, true, nil
}

// Store writes the pair under key via a temp file and rename, so readers
// never observe a partial entry. Concurrent writers of the same key race;
// the last rename wins.
func (c *Cache) Store(key string, p *field.Pair) error {
	if !c.Enabled() {
		return nil
	}
	if p.Scalar() {
		return fmt.Errorf("cache: %s: scalar fields are not cached", key)
	}

	tmp, err := os.CreateTemp(c.opts.Dir, key+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	enc, err := zstd.NewWriter(tmp)
	if err != nil {
		tmp.Close()
		return err
	}

	s := p.Shape()
	rec := record{Shape: [3]int{s.T, s.Nx, s.Ny}, U: p.U.Data, V: p.V.Data}
	if err := json.NewEncoder(enc).Encode(rec); err != nil {
		enc.Close()
		tmp.Close()
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}
	if err := enc.Close(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), c.Path(key))
}

// Keys lists stored entries in lexical order.
func (c *Cache) Keys() ([]string, error) {
	if !c.Enabled() {
		return nil, nil
	}
	entries, err := os.ReadDir(c.opts.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ext) {
			keys = append(keys, strings.TrimSuffix(e.Name(), ext))
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Clear removes every stored entry and returns how many were removed.
func (c *Cache) Clear() (int, error) {
	keys, err := c.Keys()
	if err != nil {
		return 0, err
	}
	for i, k := range keys {
		if err := os.Remove(c.Path(k)); err != nil {
			return i, err
		}
	}
	return len(keys), nil
}
