package service

import (
	"context"
	"log"

	"github.com/parisxmas/rosterfill/internal/formmap"
	"github.com/parisxmas/rosterfill/internal/models"
	"github.com/parisxmas/rosterfill/internal/tempfiles"
)

// SubmissionService turns a roster form submission into one published PDF.
type SubmissionService struct {
	table    *formmap.Table
	composer *Composer
	docs     *DocumentService
	scratch  string
}

func NewSubmissionService(table *formmap.Table, composer *Composer, docs *DocumentService, scratch string) *SubmissionService {
	return &SubmissionService{table: table, composer: composer, docs: docs, scratch: scratch}
}

// Create fills and merges the submission's templates and publishes the
// result as <outputFileName>.pdf. Intermediate files are always removed.
func (s *SubmissionService) Create(ctx context.Context, sub *models.Submission) (*models.Document, error) {
	if _, err := OutputFileName(sub.OutputFileName); err != nil {
		return nil, err
	}

	shared, err := s.table.SharedAnswers(sub)
	if err != nil {
		return nil, err
	}

	var students []models.StudentInfo
	if s.composer.Variant() == VariantRoster {
		if students, err = sub.Students(); err != nil {
			return nil, err
		}
	} else {
		formmap.SeedRows(shared)
	}

	mgr := tempfiles.New(s.scratch)
	defer func() {
		if err := mgr.ReleaseAll(); err != nil {
			log.Printf("Warning: cleanup of %s: %v", mgr.Dir(), err)
		}
	}()

	comp, err := s.composer.Compose(ctx, mgr, shared, sub.SelectedOptions, students)
	if err != nil {
		return nil, err
	}
	data, err := mgr.ReadBytes(comp.Path)
	if err != nil {
		return nil, err
	}
	doc, err := s.docs.Publish(sub.OutputFileName, data)
	if err != nil {
		return nil, err
	}

	if pages, err := PageCount(doc.Path); err == nil {
		doc.Pages = pages
	}
	log.Printf("submission %s: merged %d documents (%d students) into %s", mgr.ID(), comp.Documents, comp.Students, doc.FileName)
	return doc, nil
}
