package analysis

import "strings"

type Point struct {
	X, Y float64
}

// ReturnMap pairs each sample with the one lag steps later.
func ReturnMap(series []float64, lag int) []Point {
	if lag < 1 || len(series) <= lag {
		return nil
	}
	points := make([]Point, 0, len(series)-lag)
	for i := 0; i+lag < len(series); i++ {
		points = append(points, Point{X: series[i], Y: series[i+lag]})
	}
	return points
}

// PointsToASCII scatters points onto a width×height character canvas.
func PointsToASCII(points []Point, width, height int) string {
	if len(points) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	if maxX == minX {
		maxX = minX + 1
	}
	if maxY == minY {
		maxY = minY + 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for _, p := range points {
		col := int((p.X - minX) / (maxX - minX) * float64(width-1))
		row := height - 1 - int((p.Y-minY)/(maxY-minY)*float64(height-1))
		if canvas[row][col] == '•' {
			canvas[row][col] = '●'
		} else if canvas[row][col] != '●' {
			canvas[row][col] = '•'
		}
	}

	var b strings.Builder
	for _, row := range canvas {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}
