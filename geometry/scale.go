package geometry

// ScaleToFit computes (w, h) preserving aspect ratio when only one target
// axis is known; pass 0 for the axis to derive. Adapted from the teacher's
// ScaleDimensions helper. Plan does not call it: the MaxFit and MinFit
// planners compute their scale factor themselves.
func ScaleToFit(srcW, srcH, targetW, targetH int) (int, int) {
	if targetW == 0 && targetH == 0 {
		return srcW, srcH
	}
	if targetW == 0 {
		ratio := float64(targetH) / float64(srcH)
		return round(float64(srcW) * ratio), targetH
	}
	if targetH == 0 {
		ratio := float64(targetW) / float64(srcW)
		return targetW, round(float64(srcH) * ratio)
	}
	return targetW, targetH
}
