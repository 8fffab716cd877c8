package service

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/parisxmas/rosterfill/internal/models"
)

const pdfContentType = "application/pdf"

// ErrDocumentNotFound is returned by Open for unknown output names.
var ErrDocumentNotFound = errors.New("document not found")

// DocumentService stores merged outputs in the PDF directory.
type DocumentService struct {
	dir string
}

func NewDocumentService(dir string) *DocumentService {
	return &DocumentService{dir: dir}
}

// Publish writes data as <dir>/<name>.pdf. The file appears atomically: it is
// written under a hidden name first and renamed into place.
func (s *DocumentService) Publish(name string, data []byte) (*models.Document, error) {
	if len(data) == 0 {
		return nil, errors.New("merged document is empty")
	}
	fileName, err := OutputFileName(name)
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp(s.dir, ".rosterfill-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("publish %s: %w", fileName, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return nil, fmt.Errorf("publish %s: %w", fileName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return nil, fmt.Errorf("publish %s: %w", fileName, err)
	}

	dest := filepath.Join(s.dir, fileName)
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return nil, fmt.Errorf("publish %s: %w", fileName, err)
	}

	return &models.Document{
		FileName:    fileName,
		Path:        dest,
		ContentType: pdfContentType,
		Size:        int64(len(data)),
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// Open returns the published document <dir>/<name>.pdf.
func (s *DocumentService) Open(name string) (*os.File, *models.Document, error) {
	fileName, err := OutputFileName(name)
	if err != nil {
		return nil, nil, err
	}
	path := filepath.Join(s.dir, fileName)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, fileName)
	}
	if err != nil {
		return nil, nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, fileName)
	}
	return f, &models.Document{
		FileName:    fileName,
		Path:        path,
		ContentType: pdfContentType,
		Size:        info.Size(),
		CreatedAt:   info.ModTime().UTC().Format(time.RFC3339),
	}, nil
}
