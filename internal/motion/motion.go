package motion

import "image"

// Options bound the pan behaviour.
type Options struct {
	MaxZoom float64 // largest allowed upscale from crop to target region
	Enabled bool    // openers render a static centered crop
}

// Crop returns the source rectangle to show at time t of a page lasting
// duration seconds, panning linearly between two end crops of the target
// aspect ratio along the image's longer axis.
//
// When the source has no room to pan, or showing it would upscale past
// MaxZoom, the crop degrades to a static centered one. That is a
// fallback, not an error.
func Crop(src image.Rectangle, target image.Rectangle, t, duration float64, opts Options) image.Rectangle {
	srcW, srcH := src.Dx(), src.Dy()
	dstW, dstH := target.Dx(), target.Dy()
	if srcW <= 0 || srcH <= 0 || dstW <= 0 || dstH <= 0 {
		return src
	}

	// Largest crop of the target aspect that fits inside the source.
	cropW := srcW
	cropH := cropW * dstH / dstW
	if cropH > srcH {
		cropH = srcH
		cropW = cropH * dstW / dstH
	}

	maxZoom := opts.MaxZoom
	if maxZoom < 1 {
		maxZoom = 1
	}
	upscale := float64(dstW) / float64(cropW)

	excessX := srcW - cropW
	excessY := srcH - cropH

	if !opts.Enabled || (excessX <= 0 && excessY <= 0) || upscale > maxZoom {
		return centered(src, cropW, cropH)
	}

	// Pan along whichever axis has more slack.
	progress := 0.0
	if duration > 0 {
		progress = clamp(t/duration, 0, 1)
	}

	var x, y int
	if excessX >= excessY {
		x = src.Min.X + int(lerp(0, float64(excessX), progress))
		y = src.Min.Y + excessY/2
	} else {
		x = src.Min.X + excessX/2
		y = src.Min.Y + int(lerp(0, float64(excessY), progress))
	}
	return image.Rect(x, y, x+cropW, y+cropH)
}

func centered(src image.Rectangle, cropW, cropH int) image.Rectangle {
	x := src.Min.X + (src.Dx()-cropW)/2
	y := src.Min.Y + (src.Dy()-cropH)/2
	return image.Rect(x, y, x+cropW, y+cropH)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
