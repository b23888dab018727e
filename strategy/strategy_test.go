package strategy

import "testing"

func TestSelectBaseLadder(t *testing.T) {
	cases := []struct {
		src  Dimensions
		want Kind
	}{
		{Dimensions{1000, 1000}, Direct},   // 4MB
		{Dimensions{3000, 3000}, Chunked},  // 36MB
		{Dimensions{6000, 6000}, Stepped},  // 144MB
		{Dimensions{9000, 9000}, Tiled},    // 324MB
	}
	for _, c := range cases {
		got := Select(c.src, Dimensions{100, 100}, Budget{}, Balanced, false)
		if got.Kind != c.want {
			t.Errorf("Select(%+v) = %s, want %s", c.src, got.Kind, c.want)
		}
	}
}

func TestSelectSafetyOverride(t *testing.T) {
	got := Select(Dimensions{20000, 100}, Dimensions{100, 100}, Budget{MaxSafeDimension: 16384}, Balanced, false)
	if got.Kind != Tiled {
		t.Fatalf("expected Tiled for oversized axis, got %s", got.Kind)
	}
}

func TestSelectFastDropsStepped(t *testing.T) {
	got := Select(Dimensions{6000, 6000}, Dimensions{100, 100}, Budget{}, Fast, false)
	if got.Kind != Chunked {
		t.Fatalf("Fast should drop Stepped to Chunked, got %s", got.Kind)
	}
}

func TestSelectHighForcesSteppedOnAggressiveDownscale(t *testing.T) {
	// estBytes = 3000*3000*4 = 36MB (would be Chunked), ratio 100/3000 < 0.3.
	got := Select(Dimensions{3000, 3000}, Dimensions{100, 100}, Budget{}, High, false)
	if got.Kind != Stepped {
		t.Fatalf("High + aggressive downscale should force Stepped, got %s", got.Kind)
	}
}

func TestSelectMemoryPressureOverridesEverything(t *testing.T) {
	got := Select(Dimensions{3000, 3000}, Dimensions{100, 100}, Budget{}, Fast, true)
	if got.Kind != Chunked {
		t.Fatalf("memory pressure ladder should choose Chunked for 36MB, got %s", got.Kind)
	}
	got = Select(Dimensions{9000, 9000}, Dimensions{100, 100}, Budget{}, High, true)
	if got.Kind != Tiled {
		t.Fatalf("memory pressure ladder should choose Tiled above 128MiB, got %s", got.Kind)
	}
	got = Select(Dimensions{1000, 1000}, Dimensions{100, 100}, Budget{}, High, true)
	if got.Kind != Direct {
		t.Fatalf("memory pressure ladder should choose Direct below 16MiB, got %s", got.Kind)
	}
}
