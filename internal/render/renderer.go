package render

import (
	"image/color"
	"time"
)

type Renderer interface {
	Init() error
	Deinit() error
	Size() (columns, rows int, err error)
	Clear()
	AddDecoration(row, col int, content string, frames int)
	RenderLoop(period time.Duration, frame func(now time.Time) bool)
	Fill(row, column int, message string)
	FillColor(row, column int, color color.RGBA, message string)
}
