package table

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// Codec loads and saves tables in one on-disk format.
type Codec interface {
	// Name returns the format name (e.g. "csv").
	Name() string
	// Extensions returns the file extensions handled, with leading dot.
	Extensions() []string
	// Load reads a table from r. name is used for diagnostics only.
	Load(r io.Reader, name string) (*Table, error)
	// Save writes a table to w.
	Save(w io.Writer, t *Table) error
}

var registry = map[string]Codec{}

// Register adds a codec under its name. Later registrations for the same
// name win.
func Register(c Codec) {
	registry[c.Name()] = c
}

// GetCodec returns the codec registered under name.
func GetCodec(name string) (Codec, error) {
	c, ok := registry[name]
	if !ok {
		options := make([]string, 0, len(registry))
		for k := range registry {
			options = append(options, k)
		}
		sort.Strings(options)
		return nil, errors.Errorf("codec %s not found, options: %s", name, strings.Join(options, ", "))
	}
	return c, nil
}

// CodecForPath picks a codec by file extension.
func CodecForPath(path string) (Codec, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, c := range registry {
		for _, e := range c.Extensions() {
			if e == ext {
				return c, nil
			}
		}
	}
	return nil, errors.Errorf("no codec for file %q", path)
}

// Load reads a table from path, picking the codec by extension.
func Load(ctx context.Context, path string) (*Table, error) {
	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("loading dataset")

	codec, err := CodecForPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	t, err := codec.Load(f, path)
	if err != nil {
		return nil, errors.Errorf("loading %s dataset %s: %w", codec.Name(), path, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("path", path).
		Int("rows", t.NumRows()).
		Int("fields", len(t.Fields())).
		Msg("dataset loaded")
	return t, nil
}

// Save writes a table to path, picking the codec by extension. The write is
// atomic: content goes to a temp file renamed into place.
func Save(ctx context.Context, path string, t *Table) error {
	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("saving dataset")

	codec, err := CodecForPath(path)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".attrclean-*")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := codec.Save(tmp, t); err != nil {
		tmp.Close()
		return errors.Errorf("saving %s dataset: %w", codec.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return errors.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Errorf("replacing dataset file: %w", err)
	}
	return nil
}
