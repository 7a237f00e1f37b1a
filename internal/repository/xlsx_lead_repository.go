package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rpattn/leadsathi/internal/domain"

	"github.com/xuri/excelize/v2"
)

const (
	headerFill      = "0891B2"
	headerFontColor = "FFFFFF"
)

// Column widths in characters, roughly 180/150/120/130/130/250 pixels.
var headerColumnWidths = []float64{25.7, 21.4, 17.1, 18.6, 18.6, 35.7}

// XLSXLeadRepository keeps leads in one sheet of a workbook on disk. Each
// append rewrites the workbook through a temporary file and a rename, so
// readers always see a complete file and never need the write lock.
type XLSXLeadRepository struct {
	path  string
	sheet string
	mu    sync.Mutex
}

// NewXLSXLeadRepository wires a repository for the workbook at path.
func NewXLSXLeadRepository(path, sheet string) (*XLSXLeadRepository, error) {
	if path == "" {
		return nil, errors.New("xlsx path is required")
	}
	if sheet == "" {
		return nil, errors.New("sheet name is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create workbook directory: %w", err)
	}
	return &XLSXLeadRepository{path: filepath.Clean(path), sheet: sheet}, nil
}

func (r *XLSXLeadRepository) Append(ctx context.Context, lead domain.Lead) error {
	if r == nil {
		return ErrStoreUnavailable
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := r.openOrCreate()
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	rows, err := r.ensureSheet(f)
	if err != nil {
		return err
	}

	cell, err := excelize.CoordinatesToCellName(1, rows+1)
	if err != nil {
		return fmt.Errorf("failed to address next row: %w", err)
	}
	if err := f.SetSheetRow(r.sheet, cell, toCells(lead.Row())); err != nil {
		return fmt.Errorf("failed to append lead row: %w", err)
	}

	return r.save(f)
}

func (r *XLSXLeadRepository) List(ctx context.Context) ([]domain.Lead, error) {
	if r == nil {
		return nil, ErrStoreUnavailable
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []domain.Lead{}, nil
		}
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	idx, err := f.GetSheetIndex(r.sheet)
	if err != nil || idx < 0 {
		return []domain.Lead{}, nil
	}

	rows, err := f.GetRows(r.sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %s: %w", r.sheet, err)
	}

	leads := make([]domain.Lead, 0, len(rows))
	for i, row := range rows {
		if i == 0 {
			continue
		}
		leads = append(leads, domain.LeadFromRow(row))
	}
	return leads, nil
}

func (r *XLSXLeadRepository) openOrCreate() (*excelize.File, error) {
	f, err := excelize.OpenFile(r.path)
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}

	f = excelize.NewFile()
	defaultSheet := f.GetSheetName(0)
	if defaultSheet != r.sheet {
		if err := f.SetSheetName(defaultSheet, r.sheet); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to name sheet %s: %w", r.sheet, err)
		}
	}
	return f, nil
}

// ensureSheet creates the sheet when missing, writes the header row when the
// sheet is empty, and returns the number of rows already present.
func (r *XLSXLeadRepository) ensureSheet(f *excelize.File) (int, error) {
	idx, err := f.GetSheetIndex(r.sheet)
	if err != nil {
		return 0, fmt.Errorf("failed to look up sheet %s: %w", r.sheet, err)
	}
	if idx < 0 {
		if _, err := f.NewSheet(r.sheet); err != nil {
			return 0, fmt.Errorf("failed to create sheet %s: %w", r.sheet, err)
		}
	}

	rows, err := f.GetRows(r.sheet)
	if err != nil {
		return 0, fmt.Errorf("failed to read rows from sheet %s: %w", r.sheet, err)
	}
	if len(rows) > 0 {
		return len(rows), nil
	}

	if err := r.initializeSheet(f); err != nil {
		return 0, err
	}
	return 1, nil
}

func (r *XLSXLeadRepository) initializeSheet(f *excelize.File) error {
	if err := f.SetSheetRow(r.sheet, "A1", toCells(domain.HeaderRow)); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: headerFontColor},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	lastCell, err := excelize.CoordinatesToCellName(len(domain.HeaderRow), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(r.sheet, "A1", lastCell, style); err != nil {
		return fmt.Errorf("failed to style header row: %w", err)
	}

	for i, width := range headerColumnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(r.sheet, col, col, width); err != nil {
			return fmt.Errorf("failed to size column %s: %w", col, err)
		}
	}

	if err := f.SetPanes(r.sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header row: %w", err)
	}

	return nil
}

func (r *XLSXLeadRepository) save(f *excelize.File) error {
	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".leads-*.xlsx")
	if err != nil {
		return fmt.Errorf("failed to create temp workbook: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := f.WriteTo(tmp); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to flush workbook: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("failed to replace workbook: %w", err)
	}
	return nil
}

func toCells(values []string) *[]any {
	cells := make([]any, len(values))
	for i, value := range values {
		cells[i] = value
	}
	return &cells
}

var _ LeadRepository = (*XLSXLeadRepository)(nil)
