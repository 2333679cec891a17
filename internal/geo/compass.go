package geo

import "math"

// CompassAverage downsamples a series of compass directions (degrees,
// 0-360) from sampleRate to targetRate using the circular mean per window.
// A plain arithmetic mean would average 359 and 1 to 180 instead of 0.
func CompassAverage(directions []float64, sampleRate, targetRate float64) []float64 {
	if len(directions) == 0 || targetRate <= 0 || sampleRate <= 0 {
		return nil
	}

	windowSize := int(sampleRate / targetRate)
	if windowSize < 1 {
		windowSize = 1
	}

	averaged := make([]float64, 0, (len(directions)+windowSize-1)/windowSize)
	for i := 0; i < len(directions); i += windowSize {
		end := i + windowSize
		if end > len(directions) {
			end = len(directions)
		}

		var x, y float64
		for _, d := range directions[i:end] {
			x += math.Cos(radians(d))
			y += math.Sin(radians(d))
		}
		n := float64(end - i)
		mean := degrees(math.Atan2(y/n, x/n))
		averaged = append(averaged, math.Mod(mean+360, 360))
	}
	return averaged
}
