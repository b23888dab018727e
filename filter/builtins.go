package filter

// builtins returns every filter required by the plugin contract: eight
// hand-rolled per-pixel/kernel filters (noise draws random values, the rest
// use fixed formulas), and six gift-backed filters.
func builtins() []Plugin {
	return []Plugin{
		brightnessPlugin{},
		contrastPlugin{},
		saturationPlugin{},
		posterizePlugin{},
		blurPlugin{},
		sharpenPlugin{},
		vignettePlugin{},
		noisePlugin{},
		grayscalePlugin{},
		invertPlugin{},
		sepiaPlugin{},
		pixelatePlugin{},
		embossPlugin{},
		edgeDetectionPlugin{},
	}
}
