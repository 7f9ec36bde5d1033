package zpl

import "fmt"

// DataMatrixGeometry is the ink and recommended-box sizing for a DataMatrix
// symbol at a given module size and grid, mirroring DataMatrixZplBuilder's
// arithmetic in the original implementation.
type DataMatrixGeometry struct {
	InkWidthDots  int
	InkHeightDots int
	QuietZoneDots int
	RecommendedW  int
	RecommendedH  int
}

// DataMatrixInkSize computes the ink rectangle for a DataMatrix symbol.
// quality is fixed at 200 by Phase A validation before this is ever called.
func DataMatrixInkSize(moduleSizeDots, columns, rows, quietZoneModulesRecommended int) (DataMatrixGeometry, error) {
	if moduleSizeDots <= 0 {
		return DataMatrixGeometry{}, fmt.Errorf("zpl: datamatrix module size must be positive, got %d", moduleSizeDots)
	}
	if columns <= 0 || rows <= 0 {
		return DataMatrixGeometry{}, fmt.Errorf("zpl: datamatrix columns/rows must be positive, got %d/%d", columns, rows)
	}
	inkW := columns * moduleSizeDots
	inkH := rows * moduleSizeDots
	qz := quietZoneModulesRecommended * moduleSizeDots
	return DataMatrixGeometry{
		InkWidthDots:  inkW,
		InkHeightDots: inkH,
		QuietZoneDots: qz,
		RecommendedW:  inkW + 2*qz,
		RecommendedH:  inkH + 2*qz,
	}, nil
}

// DataMatrixMaxModuleSizeForBox searches module size (in dots) from high to
// 1 and returns the largest value whose ink rectangle fits within the box,
// for size_mode=max, given a fixed column/row grid.
func DataMatrixMaxModuleSizeForBox(columns, rows, innerWidthDots, innerHeightDots, maxModuleSizeDots int) int {
	for m := maxModuleSizeDots; m >= 1; m-- {
		if columns*m <= innerWidthDots && rows*m <= innerHeightDots {
			return m
		}
	}
	return 0
}
