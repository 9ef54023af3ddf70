package imaging

import "image"

// Histogram counts the pixels of img at each of the 256 gray levels.
func Histogram(img *image.Gray) [256]int {
	var hist [256]int
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for _, v := range row {
			hist[v]++
		}
	}
	return hist
}

// OtsuLevel returns the gray level that maximizes the between-class variance
// of img's histogram (Otsu's method).
//
// Pixels at or below the level form the background class. When several
// levels tie, the lowest wins. A uniform or empty image yields 0.
func OtsuLevel(img *image.Gray) uint8 {
	hist := Histogram(img)

	var total, sumAll float64
	for i, n := range hist {
		total += float64(n)
		sumAll += float64(i) * float64(n)
	}
	if total == 0 {
		return 0
	}

	var weightLow, sumLow, best float64
	level := 0
	for t := 0; t < len(hist); t++ {
		weightLow += float64(hist[t])
		if weightLow == 0 {
			continue
		}
		weightHigh := total - weightLow
		if weightHigh == 0 {
			break
		}
		sumLow += float64(t) * float64(hist[t])

		meanLow := sumLow / weightLow
		meanHigh := (sumAll - sumLow) / weightHigh
		between := weightLow * weightHigh * (meanLow - meanHigh) * (meanLow - meanHigh)
		if between > best {
			best = between
			level = t
		}
	}
	return uint8(level)
}
