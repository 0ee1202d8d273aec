package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/gravsim/internal/body"
)

var palette = []string{"#00ffff", "#ff00ff", "#ffcc00", "#00ff88", "#ff4444", "#8888ff"}

// Track is the sampled path of one body.
type Track struct {
	Label  string
	Points []body.Vec2
}

// Tracks turns sample-major frames (one position per body per sample) into
// one Track per body.
func Tracks(labels []string, frames [][]body.Vec2) []Track {
	tracks := make([]Track, len(labels))
	for i, l := range labels {
		tracks[i].Label = l
		tracks[i].Points = make([]body.Vec2, 0, len(frames))
	}
	for _, f := range frames {
		for i := range tracks {
			if i < len(f) {
				tracks[i].Points = append(tracks[i].Points, f[i])
			}
		}
	}
	return tracks
}

// OrbitsToSVG draws every track as a polyline and marks its last point. World
// +y points up in the image.
func OrbitsToSVG(tracks []Track, width, height int) string {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, tr := range tracks {
		for _, p := range tr.Points {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}
	if math.IsInf(minX, 1) {
		return ""
	}

	rangeX := math.Max(maxX-minX, 1)
	rangeY := math.Max(maxY-minY, 1)
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2
	scale := math.Min(float64(width)/rangeX, float64(height)/rangeY)

	project := func(p body.Vec2) (float64, float64) {
		return (p.X - minX) * scale, float64(height) - (p.Y-minY)*scale
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for i, tr := range tracks {
		if len(tr.Points) == 0 {
			continue
		}
		color := palette[i%len(palette)]

		if len(tr.Points) > 1 {
			sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, color))
			for j, p := range tr.Points {
				x, y := project(p)
				if j == 0 {
					sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
				} else {
					sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
				}
			}
			sb.WriteString("\"/>\n")
		}

		x, y := project(tr.Points[len(tr.Points)-1])
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3" fill="%s"><title>%s</title></circle>
`, x, y, color, tr.Label))
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}
