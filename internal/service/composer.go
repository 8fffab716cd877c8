package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/parisxmas/rosterfill/internal/formmap"
	"github.com/parisxmas/rosterfill/internal/models"
	"github.com/parisxmas/rosterfill/internal/tempfiles"
)

// Application variants.
const (
	// VariantSingle fills every selected template with the shared answers.
	VariantSingle = "single"
	// VariantRoster fills the roster template with the shared answers and
	// every other selected template once per student.
	VariantRoster = "roster"
)

// Composition is the merged result of one submission, still inside the
// submission's temp directory.
type Composition struct {
	Path      string
	Documents int
	Students  int
}

// Composer sequences the fill and merge steps of a submission.
type Composer struct {
	catalog        *Catalog
	filler         *Filler
	merger         Merger
	variant        string
	rosterTemplate string
}

func NewComposer(catalog *Catalog, filler *Filler, merger Merger, variant, rosterTemplate string) *Composer {
	return &Composer{
		catalog:        catalog,
		filler:         filler,
		merger:         merger,
		variant:        variant,
		rosterTemplate: strings.TrimSuffix(rosterTemplate, ".pdf"),
	}
}

// Variant reports which application variant the composer runs.
func (c *Composer) Variant() string {
	return c.variant
}

// Compose fills the selected templates, builds one merged document per
// student in the roster variant and merges everything, in order, into a
// single file owned by mgr.
func (c *Composer) Compose(ctx context.Context, mgr *tempfiles.Manager, shared models.AnswerMap, selected []string, students []models.StudentInfo) (*Composition, error) {
	top, perStudent := c.partition(selected)

	var docs []string
	for _, id := range top {
		path, err := c.fillTemplate(ctx, mgr, id, shared)
		if err != nil {
			return nil, err
		}
		docs = append(docs, path)
	}

	merged := 0
	if c.variant == VariantRoster {
		for i, st := range students {
			path, err := c.composeStudent(ctx, mgr, i+1, st, shared, perStudent)
			if err != nil {
				return nil, err
			}
			if path == "" {
				continue
			}
			docs = append(docs, path)
			merged++
		}
	}

	if len(docs) == 0 {
		return nil, ErrNothingToMerge
	}

	final, err := mgr.Allocate("final.pdf")
	if err != nil {
		return nil, err
	}
	if err := c.merger.Merge(ctx, docs, final); err != nil {
		return nil, fmt.Errorf("final merge: %w", err)
	}
	return &Composition{Path: final, Documents: len(docs), Students: merged}, nil
}

// partition splits the selection into templates filled once with the shared
// answers and templates filled per student.
func (c *Composer) partition(selected []string) (top, perStudent []string) {
	if c.variant != VariantRoster {
		return selected, nil
	}
	for _, id := range selected {
		if strings.TrimSuffix(id, ".pdf") == c.rosterTemplate {
			top = append(top, id)
		} else {
			perStudent = append(perStudent, id)
		}
	}
	return top, perStudent
}

func (c *Composer) composeStudent(ctx context.Context, mgr *tempfiles.Manager, n int, st models.StudentInfo, shared models.AnswerMap, selected []string) (string, error) {
	templates := make([]string, 0, len(selected)+len(st.SelectedCheckboxes))
	templates = append(templates, selected...)
	templates = append(templates, st.SelectedCheckboxes...)
	if len(templates) == 0 {
		log.Printf("Warning: student %d (%s) has no templates selected, skipping", n, st.Name)
		return "", nil
	}

	answers := formmap.StudentAnswers(st, shared)
	fills := make([]string, 0, len(templates))
	for _, id := range templates {
		path, err := c.fillTemplate(ctx, mgr, id, answers)
		if err != nil {
			return "", fmt.Errorf("student %d: %w", n, err)
		}
		fills = append(fills, path)
	}

	dest, err := mgr.Allocate(fmt.Sprintf("student-%d.pdf", n))
	if err != nil {
		return "", err
	}
	if err := c.merger.Merge(ctx, fills, dest); err != nil {
		return "", fmt.Errorf("student %d merge: %w", n, err)
	}
	return dest, nil
}

func (c *Composer) fillTemplate(ctx context.Context, mgr *tempfiles.Manager, id string, answers models.AnswerMap) (string, error) {
	path, ok, err := c.catalog.Resolve(id)
	if err != nil {
		return "", err
	}
	if !ok {
		log.Printf("Warning: template %q not found under %s", id, c.catalog.Dir())
	}
	return c.filler.Fill(ctx, mgr, path, answers)
}
