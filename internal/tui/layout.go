// pattern: Functional Core

package tui

// Region defines a rectangular area within the terminal.
type Region struct {
	X      int // Left position (0-indexed)
	Y      int // Top position (0-indexed)
	Width  int // Width in cells
	Height int // Height in lines
}

// Layout holds computed regions for all UI components.
type Layout struct {
	Header    Region // Title + subtitle
	Filter    Region // Search input (1 line when filtering, else 0)
	Tree      Region // Tree view (left side, 40% when detail open, 100% otherwise)
	Detail    Region // Detail panel (right side, 60% when open)
	StatusBar Region // Status bar (1 line)
	Help      Region // Key help (1 line)
}

// Fixed heights for chrome elements
const (
	headerHeight    = 2 // Title + subtitle
	filterHeight    = 1
	statusBarHeight = 1
	helpHeight      = 1
	minTreeHeight   = 3
)

// ComputeLayout calculates regions based on terminal dimensions.
// When detailOpen is true, the content area splits 40/60 horizontally (tree/detail).
func ComputeLayout(width, height int, filterOpen, detailOpen bool) Layout {
	fixedHeight := headerHeight + statusBarHeight + helpHeight
	if filterOpen {
		fixedHeight += filterHeight
	}
	contentHeight := max(height-fixedHeight, minTreeHeight)

	y := 0
	layout := Layout{}

	layout.Header = Region{X: 0, Y: y, Width: width, Height: headerHeight}
	y += headerHeight

	if filterOpen {
		layout.Filter = Region{X: 0, Y: y, Width: width, Height: filterHeight}
		y += filterHeight
	}

	if detailOpen {
		treeWidth := int(float64(width) * 0.4)
		layout.Tree = Region{X: 0, Y: y, Width: treeWidth, Height: contentHeight}
		layout.Detail = Region{X: treeWidth, Y: y, Width: width - treeWidth, Height: contentHeight}
	} else {
		layout.Tree = Region{X: 0, Y: y, Width: width, Height: contentHeight}
	}
	y += contentHeight

	layout.StatusBar = Region{X: 0, Y: y, Width: width, Height: statusBarHeight}
	y += statusBarHeight

	layout.Help = Region{X: 0, Y: y, Width: width, Height: helpHeight}

	return layout
}
