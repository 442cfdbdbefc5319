package heatmap

// Presentation helpers layered on top of the numeric grid. They preserve
// sign and relative magnitude but are otherwise free to change.

// PLColor returns a hex background color for a P/L value, scaled against
// the largest absolute value in the grid. Profit maps to greens, loss to
// reds, and near-zero to neutral gray.
func PLColor(value, maxAbs float64) string {
	if maxAbs <= 0 {
		return "#e5e7eb"
	}
	ratio := value / maxAbs

	switch {
	case ratio >= 0.75:
		return "#15803d"
	case ratio >= 0.40:
		return "#22c55e"
	case ratio >= 0.10:
		return "#86efac"
	case ratio > -0.10:
		return "#e5e7eb"
	case ratio > -0.40:
		return "#fca5a5"
	case ratio > -0.75:
		return "#ef4444"
	default:
		return "#b91c1c"
	}
}

// TextColor returns a readable foreground color for the given background.
func TextColor(background string) string {
	switch background {
	case "#15803d", "#ef4444", "#b91c1c":
		return "#ffffff"
	default:
		return "#111827"
	}
}

// MaxAbsValue returns the largest absolute cell value in a grid.
func MaxAbsValue(values [][]float64) float64 {
	maxAbs := 0.0
	for _, row := range values {
		for _, v := range row {
			if v < 0 {
				v = -v
			}
			if v > maxAbs {
				maxAbs = v
			}
		}
	}
	return maxAbs
}
