// Package lava describes the animated SVG "lava lamp" backdrop.
package lava

import (
	"fmt"
	"math"
	"strconv"
)

const (
	// ViewBox is the SVG coordinate space the blobs live in.
	ViewBox = "0 0 1440 900"

	GradientStart = "#00CFFF"
	GradientEnd   = "#0a192f"
)

// Blob is one circle of the lamp.
type Blob struct {
	CX, CY, R float64
	// Delay offsets every animation of the blob, in seconds.
	Delay float64
}

// Animation is one SMIL <animate> element.
type Animation struct {
	Attribute string
	Values    string
	Dur       string
	Begin     string
}

// DefaultBlobs are the three blobs the site ships with.
var DefaultBlobs = []Blob{
	{CX: 400, CY: 400, R: 180, Delay: 0},
	{CX: 900, CY: 500, R: 140, Delay: 2},
	{CX: 700, CY: 200, R: 120, Delay: 4},
}

// Animations returns the radius, position and fill cycles for b.
func (b Blob) Animations() []Animation {
	return []Animation{
		{
			Attribute: "r",
			Values:    values(b.R, b.R*1.2, b.R*0.8, b.R),
			Dur:       "8s",
			Begin:     seconds(b.Delay),
		},
		{
			Attribute: "cx",
			Values:    values(b.CX, b.CX+60, b.CX-40, b.CX),
			Dur:       "10s",
			Begin:     seconds(b.Delay + 1),
		},
		{
			Attribute: "cy",
			Values:    values(b.CY, b.CY-50, b.CY+30, b.CY),
			Dur:       "12s",
			Begin:     seconds(b.Delay + 2),
		},
		{
			Attribute: "fill",
			Values:    fmt.Sprintf("url(#lavaGradient);%s;%s;url(#lavaGradient)", GradientStart, GradientEnd),
			Dur:       "10s",
			Begin:     seconds(b.Delay + 1),
		},
	}
}

// Scene is the data the backdrop template renders.
type Scene struct {
	ViewBox       string
	GradientStart string
	GradientEnd   string
	Blobs         []Blob
}

// DefaultScene returns the lamp with DefaultBlobs.
func DefaultScene() Scene {
	return Scene{
		ViewBox:       ViewBox,
		GradientStart: GradientStart,
		GradientEnd:   GradientEnd,
		Blobs:         DefaultBlobs,
	}
}

func values(vs ...float64) string {
	out := ""
	for i, v := range vs {
		if i > 0 {
			out += ";"
		}
		out += strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
	}
	return out
}

func seconds(s float64) string {
	return strconv.FormatFloat(s, 'f', -1, 64) + "s"
}
