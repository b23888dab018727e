package imagefit_test

import (
	"context"
	"image/color"
	"io"
	"testing"

	imagefit "github.com/Skryldev/imgfit"
	"github.com/Skryldev/imgfit/adapters/encoder"
	"github.com/Skryldev/imgfit/storage"
)

func TestToStoragePersistsEncodedBytes(t *testing.T) {
	e := newEngine(t)
	raw := newSolidPNG(t, 64, 64, color.NRGBA{R: 10, G: 200, B: 30, A: 255})

	local, err := storage.NewLocal(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	key := storage.Key{Bucket: "test", Path: "out.png"}

	meta, err := e.FromBytes(raw, "image/png").
		ExactSize(32, 32).
		ToStorage(context.Background(), local, key, encoder.FormatPNG, 0)
	if err != nil {
		t.Fatalf("ToStorage: %v", err)
	}
	if meta.Width != 32 || meta.Height != 32 {
		t.Fatalf("meta size: got %dx%d, want 32x32", meta.Width, meta.Height)
	}

	rc, err := local.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read stored data: %v", err)
	}
	if len(data) != meta.BytesLen {
		t.Fatalf("stored bytes: got %d, want %d", len(data), meta.BytesLen)
	}

	exists, err := local.Exists(context.Background(), key)
	if err != nil || !exists {
		t.Fatalf("Exists: got %v, %v, want true, nil", exists, err)
	}
}
