package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"spice-theory/internal/domain"
)

// File loads banks from disk. Bank ids are paths, resolved against Dir when relative.
type File struct {
	Dir string
}

func NewFile(dir string) *File {
	return &File{Dir: dir}
}

func (f *File) LoadBank(_ context.Context, bankID string) (domain.Bank, error) {
	p := bankID
	if !filepath.IsAbs(p) && f.Dir != "" {
		p = filepath.Join(f.Dir, p)
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Bank{}, fmt.Errorf("load bank %s: %w", p, domain.ErrBankNotFound)
	}
	if err != nil {
		return domain.Bank{}, fmt.Errorf("load bank %s: %w", p, err)
	}
	return Decode(data, FormatFor(p))
}
