package geometry

import "testing"

func TestPlanCover(t *testing.T) {
	// S1: source 1000x500, Cover{400,400}.
	p, err := Plan(Dimensions{1000, 500}, FitSpec{Config: Cover{400, 400}})
	if err != nil {
		t.Fatal(err)
	}
	if p.Canvas != (Dimensions{400, 400}) {
		t.Fatalf("canvas = %+v", p.Canvas)
	}
	want := Rect{X: -200, Y: 0, W: 800, H: 400}
	if p.Draw != want {
		t.Fatalf("draw = %+v, want %+v", p.Draw, want)
	}
}

func TestPlanContainWithPadding(t *testing.T) {
	// S2: source 100x200, Contain{300,300,padding=10}.
	p, err := Plan(Dimensions{100, 200}, FitSpec{Config: Contain{W: 300, H: 300, PadX: 10, PadY: 10}})
	if err != nil {
		t.Fatal(err)
	}
	if p.Canvas != (Dimensions{320, 320}) {
		t.Fatalf("canvas = %+v", p.Canvas)
	}
	want := Rect{X: 85, Y: 10, W: 150, H: 300}
	if p.Draw != want {
		t.Fatalf("draw = %+v, want %+v", p.Draw, want)
	}
}

func TestPlanMaxFitDownOnly(t *testing.T) {
	// S3: source 2000x1000, MaxFit{w:800}.
	p, err := Plan(Dimensions{2000, 1000}, FitSpec{Config: MaxFit{W: 800}})
	if err != nil {
		t.Fatal(err)
	}
	if p.Canvas != (Dimensions{800, 400}) {
		t.Fatalf("canvas = %+v", p.Canvas)
	}
	want := Rect{X: 0, Y: 0, W: 800, H: 400}
	if p.Draw != want {
		t.Fatalf("draw = %+v, want %+v", p.Draw, want)
	}
}

func TestPlanCoverWithoutEnlargement(t *testing.T) {
	// S4: source 100x100, Cover{500,500, withoutEnlargement}.
	p, err := Plan(Dimensions{100, 100}, FitSpec{Config: Cover{500, 500}, WithoutEnlargement: true})
	if err != nil {
		t.Fatal(err)
	}
	if p.Canvas != (Dimensions{500, 500}) {
		t.Fatalf("canvas = %+v", p.Canvas)
	}
	want := Rect{X: 200, Y: 200, W: 100, H: 100}
	if p.Draw != want {
		t.Fatalf("draw = %+v, want %+v", p.Draw, want)
	}
}

func TestPlanFillStretch(t *testing.T) {
	// S5: source 300x100, Fill{100,100}.
	p, err := Plan(Dimensions{300, 100}, FitSpec{Config: Fill{100, 100}})
	if err != nil {
		t.Fatal(err)
	}
	if p.Canvas != (Dimensions{100, 100}) {
		t.Fatalf("canvas = %+v", p.Canvas)
	}
	want := Rect{X: 0, Y: 0, W: 100, H: 100}
	if p.Draw != want {
		t.Fatalf("draw = %+v, want %+v", p.Draw, want)
	}
}

func TestPlanFillWithoutEnlargementCapsAxesIndependently(t *testing.T) {
	p, err := Plan(Dimensions{300, 100}, FitSpec{Config: Fill{500, 50}, WithoutEnlargement: true})
	if err != nil {
		t.Fatal(err)
	}
	// Width axis would enlarge (500 > 300) so it's capped to 300; height
	// axis shrinks (50 < 100) so it passes through unchanged.
	if p.Canvas != (Dimensions{300, 50}) {
		t.Fatalf("canvas = %+v", p.Canvas)
	}
}

func TestPlanContainWithoutPaddingCenters(t *testing.T) {
	// Invariant 3: Contain + withoutEnlargement, source smaller than target
	// on both axes -> canvas equals target, draw rect equals source size,
	// centered.
	p, err := Plan(Dimensions{50, 50}, FitSpec{Config: Contain{W: 200, H: 100}, WithoutEnlargement: true})
	if err != nil {
		t.Fatal(err)
	}
	if p.Canvas != (Dimensions{200, 100}) {
		t.Fatalf("canvas = %+v", p.Canvas)
	}
	if p.Draw.W != 50 || p.Draw.H != 50 {
		t.Fatalf("draw size = %dx%d, want 50x50", p.Draw.W, p.Draw.H)
	}
}

func TestPlanInvalidDimensions(t *testing.T) {
	if _, err := Plan(Dimensions{0, 10}, FitSpec{Config: Fill{10, 10}}); err == nil {
		t.Fatal("expected error for zero source dimension")
	}
	if _, err := Plan(Dimensions{10, 10}, FitSpec{Config: Fill{0, 10}}); err == nil {
		t.Fatal("expected error for zero target dimension")
	}
}

func TestPlanMinFit(t *testing.T) {
	p, err := Plan(Dimensions{100, 50}, FitSpec{Config: MinFit{W: 400}})
	if err != nil {
		t.Fatal(err)
	}
	if p.Canvas != (Dimensions{400, 200}) {
		t.Fatalf("canvas = %+v", p.Canvas)
	}
}

func TestDrawNeverOvershootsCanvas(t *testing.T) {
	// Invariant: dx+dw <= W, dy+dh <= H for Contain across odd dimensions.
	for _, d := range []Dimensions{{101, 203}, {333, 77}, {1, 999}} {
		p, err := Plan(d, FitSpec{Config: Contain{W: 250, H: 250}})
		if err != nil {
			t.Fatal(err)
		}
		if p.Draw.X+p.Draw.W > p.Canvas.W {
			t.Fatalf("overshoot X for %+v: %+v", d, p)
		}
		if p.Draw.Y+p.Draw.H > p.Canvas.H {
			t.Fatalf("overshoot Y for %+v: %+v", d, p)
		}
	}
}
