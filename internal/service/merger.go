package service

import (
	"context"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/parisxmas/rosterfill/internal/pdftool"
)

// Merge backends.
const (
	MergeTool   = "tool"
	MergePDFCPU = "pdfcpu"
)

// Merger concatenates PDFs in order into dest.
type Merger interface {
	Merge(ctx context.Context, inputs []string, dest string) error
}

// NewMerger returns the merger for backend.
func NewMerger(backend string, tool pdftool.Tool) (Merger, error) {
	switch backend {
	case MergeTool, "":
		return &ToolMerger{tool: tool}, nil
	case MergePDFCPU:
		return &PDFCPUMerger{}, nil
	}
	return nil, fmt.Errorf("unknown merge backend %q", backend)
}

// ToolMerger merges with the external tool's concat_files command.
type ToolMerger struct {
	tool pdftool.Tool
}

func (m *ToolMerger) Merge(ctx context.Context, inputs []string, dest string) error {
	if len(inputs) == 0 {
		return ErrNothingToMerge
	}
	if err := m.tool.Concat(ctx, inputs, dest); err != nil {
		return fmt.Errorf("concat %d files: %w", len(inputs), err)
	}
	return nil
}

// PDFCPUMerger merges in process with pdfcpu.
type PDFCPUMerger struct{}

func (m *PDFCPUMerger) Merge(ctx context.Context, inputs []string, dest string) error {
	if len(inputs) == 0 {
		return ErrNothingToMerge
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := api.MergeCreateFile(inputs, dest, false, pdfcpuConfig()); err != nil {
		return fmt.Errorf("pdfcpu merge %d files: %w", len(inputs), err)
	}
	return nil
}

// PageCount returns the number of pages of a PDF file.
func PageCount(path string) (int, error) {
	return api.PageCountFile(path)
}

func pdfcpuConfig() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}
