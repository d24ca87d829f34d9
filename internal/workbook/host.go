// Package workbook is the boundary to the spreadsheet application hosting
// the panel. The converter only ever touches the top-left cell of the
// current selection, so the interface is deliberately narrow.
package workbook

import (
	"context"
	"errors"
)

// ErrNoSelection is returned when the host reports no usable selection.
var ErrNoSelection = errors.New("workbook: no cell selected")

// Host reads and writes the selected cell of the active sheet.
//
// ReadSelectedCell returns the raw cell value: float64 for numeric cells,
// string for text cells, nil for empty cells. WriteSelectedCell replaces the
// cell content with a number in a single write.
type Host interface {
	ReadSelectedCell(ctx context.Context) (any, error)
	WriteSelectedCell(ctx context.Context, value float64) error
}
