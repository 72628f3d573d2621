package theme

import "image/color"

type Theme interface {
	Color(lane string) color.RGBA
	RenderStep(lane string) string
	RenderHold(lane string) string
	RenderBand(lane string) string
	RenderTarget(lane string) string
	RenderFoot(foot string) string
}
