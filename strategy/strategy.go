// Package strategy picks a resize backend and quality tier for a given
// (source, target) pixel pair, independent of the backends themselves — kept
// separate from package resize so the decision ladder is testable without
// executing any actual resize.
package strategy

import "math"

// Kind identifies a resize backend.
type Kind string

const (
	Direct  Kind = "direct"
	Chunked Kind = "chunked"
	Stepped Kind = "stepped"
	Tiled   Kind = "tiled"
)

// Quality is the smoothing-vs-speed dial.
type Quality string

const (
	Fast     Quality = "fast"
	Balanced Quality = "balanced"
	High     Quality = "high"
)

const bytesPerPixel = 4

const (
	directCeiling        = 16 * 1024 * 1024
	chunkedCeiling       = 64 * 1024 * 1024
	steppedCeiling       = 256 * 1024 * 1024
	tiledPressureCeiling = 128 * 1024 * 1024
)

// Budget carries the tunables the selector needs: a memory ceiling and a
// maximum safe per-axis dimension, beyond which a single allocation is
// assumed unsafe regardless of total byte count.
type Budget struct {
	MaxSafeDimension int

	// MemoryBudgetBytes, when positive, replaces the ladder's fixed byte
	// ceilings with ones scaled proportionally to it (steppedCeiling becomes
	// the budget itself; direct/chunked/tiledPressure keep the same ratios
	// the defaults have to steppedCeiling). Zero keeps the fixed defaults.
	MemoryBudgetBytes int64
}

// ladderCeilings are the byte thresholds baseLadder/memoryPressureLadder
// compare estBytes against.
type ladderCeilings struct {
	direct, chunked, stepped, tiledPressure int64
}

func defaultCeilings() ladderCeilings {
	return ladderCeilings{
		direct:        directCeiling,
		chunked:       chunkedCeiling,
		stepped:       steppedCeiling,
		tiledPressure: tiledPressureCeiling,
	}
}

// ceilingsFor scales the ladder to a configured memory budget, keeping the
// defaults' proportions (direct = budget/16, chunked = budget/4, stepped =
// budget, tiledPressure = budget/2).
func ceilingsFor(budgetBytes int64) ladderCeilings {
	if budgetBytes <= 0 {
		return defaultCeilings()
	}
	return ladderCeilings{
		direct:        budgetBytes / 16,
		chunked:       budgetBytes / 4,
		stepped:       budgetBytes,
		tiledPressure: budgetBytes / 2,
	}
}

// Dimensions is a width/height pair in pixels.
type Dimensions struct {
	W, H int
}

// Strategy is the selector's verdict: which backend to run, at what quality.
type Strategy struct {
	Kind    Kind
	Quality Quality
}

// Select implements the decision ladder: a safety check on per-axis size,
// a base ladder on estimated byte count, a Fast-quality relaxation, a
// High-quality tightening for aggressive downscales, and finally a
// memory-pressure override that takes precedence over everything above it.
func Select(src, dst Dimensions, budget Budget, quality Quality, memoryPressure bool) Strategy {
	maxSafe := budget.MaxSafeDimension
	if maxSafe <= 0 {
		maxSafe = 16384
	}

	if max(src.W, src.H) > maxSafe {
		return Strategy{Kind: Tiled, Quality: quality}
	}

	estBytes := int64(src.W) * int64(src.H) * bytesPerPixel
	ceil := ceilingsFor(budget.MemoryBudgetBytes)

	kind := baseLadder(estBytes, ceil)
	kind = applyQualityOverride(kind, quality, src, dst, estBytes, ceil)

	if memoryPressure {
		kind = memoryPressureLadder(estBytes, ceil)
	}

	return Strategy{Kind: kind, Quality: quality}
}

func baseLadder(estBytes int64, ceil ladderCeilings) Kind {
	switch {
	case estBytes <= ceil.direct:
		return Direct
	case estBytes <= ceil.chunked:
		return Chunked
	case estBytes <= ceil.stepped:
		return Stepped
	default:
		return Tiled
	}
}

func applyQualityOverride(kind Kind, quality Quality, src, dst Dimensions, estBytes int64, ceil ladderCeilings) Kind {
	switch quality {
	case Fast:
		// Drop one level toward Direct when Stepped would otherwise be chosen.
		if kind == Stepped {
			return Chunked
		}
	case High:
		r := downscaleRatio(src, dst)
		if r < 0.3 && estBytes <= ceil.stepped {
			return Stepped
		}
	}
	return kind
}

func memoryPressureLadder(estBytes int64, ceil ladderCeilings) Kind {
	switch {
	case estBytes > ceil.tiledPressure:
		return Tiled
	case estBytes > ceil.direct:
		return Chunked
	default:
		return Direct
	}
}

// downscaleRatio returns min(tw/sw, th/sh), the smaller of the two axis
// scale factors, used to detect an aggressive downscale.
func downscaleRatio(src, dst Dimensions) float64 {
	if src.W == 0 || src.H == 0 {
		return 1
	}
	rw := float64(dst.W) / float64(src.W)
	rh := float64(dst.H) / float64(src.H)
	return math.Min(rw, rh)
}
