package service

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/parisxmas/rosterfill/internal/models"
)

// errStopWalk ends a directory walk early once a match is found.
var errStopWalk = errors.New("stop walk")

// Catalog finds PDF templates anywhere below a directory.
type Catalog struct {
	dir string
}

func NewCatalog(dir string) *Catalog {
	return &Catalog{dir: dir}
}

// Dir is the directory the catalog scans.
func (c *Catalog) Dir() string {
	return c.dir
}

// List returns every *.pdf file below the directory in walk order.
// Dot-files are skipped.
func (c *Catalog) List() ([]models.Template, error) {
	var out []models.Template
	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isTemplateName(d.Name()) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		out = append(out, models.Template{Name: d.Name(), Path: path, Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", c.dir, err)
	}
	return out, nil
}

// Resolve maps a selection id ("Roster" or "Roster.pdf") to the first file
// of that name below the directory. When nothing matches it returns the
// unresolved path <dir>/<name> and false.
func (c *Catalog) Resolve(id string) (string, bool, error) {
	name, err := TemplateFileName(id)
	if err != nil {
		return "", false, err
	}
	var found string
	err = filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == name {
			found = path
			return errStopWalk
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStopWalk) {
		return "", false, fmt.Errorf("scan %s: %w", c.dir, err)
	}
	if found == "" {
		return filepath.Join(c.dir, name), false, nil
	}
	return found, true, nil
}

// TemplateFileName appends ".pdf" to a selection id unless already present.
func TemplateFileName(id string) (string, error) {
	if err := checkPlainName(id); err != nil {
		return "", err
	}
	if strings.HasSuffix(id, ".pdf") {
		return id, nil
	}
	return id + ".pdf", nil
}

func isTemplateName(name string) bool {
	return strings.HasSuffix(name, ".pdf") && !strings.HasPrefix(name, ".")
}
