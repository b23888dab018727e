// Command demo exercises imgfit end to end: a shared imagefit.Engine spawning
// single-use Builders, the engine.Processor worker pool for batch and async
// work, and the observability hooks wired to both slog and an in-memory
// metrics snapshot. Mirrors the walkthrough style of the repo it was adapted
// from, one numbered example per concern.
package main

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"log/slog"
	"os"
	"time"

	imagefit "github.com/Skryldev/imgfit"
	"github.com/Skryldev/imgfit/adapters/encoder"
	"github.com/Skryldev/imgfit/config"
	"github.com/Skryldev/imgfit/engine"
	"github.com/Skryldev/imgfit/filter"
	"github.com/Skryldev/imgfit/hooks"
	"github.com/Skryldev/imgfit/source"
	"github.com/Skryldev/imgfit/storage"
)

func main() {
	cfg := config.Default()
	cfg.Quality = config.QualityBalanced
	cfg.AdaptiveCompression = config.AdaptiveConfig{
		Enabled:         true,
		TargetSizeBytes: 32 * 1024,
		MinQuality:      30,
		MaxQuality:      95,
		StepSize:        5,
	}

	logger := hooks.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn})))
	metrics := hooks.NewInMemoryMetrics()

	eng := imagefit.New(cfg,
		imagefit.WithHook(hooks.NewLoggingHook(logger)),
		imagefit.WithHook(hooks.NewMetricsHook(metrics)),
	)

	src := makeTestImage(1600, 1200)

	fmt.Println("── Example 1: resize + WebP conversion")
	res, err := eng.FromBytes(src, "image/png").
		CoverBox(800, 600).
		ToEncoded(context.Background(), encoder.FormatWebP, 0.8)
	mustNoErr(err)
	printResult(res)

	fmt.Println("\n── Example 2: thumbnail, contain-fit")
	thumb, err := eng.FromBytes(src, "image/png").
		ContainBox(160, 160).
		ToEncoded(context.Background(), encoder.FormatJPEG, 0.75)
	mustNoErr(err)
	printResult(thumb)

	fmt.Println("\n── Example 3: filter chain (grayscale, then vignette)")
	filtered, err := eng.FromBytes(src, "image/png").
		MaxWidth(640).
		Filter("grayscale", nil).
		Filter("vignette", filter.Params{"intensity": 0.6, "size": 0.4, "blur": 0.5}).
		ToEncoded(context.Background(), encoder.FormatPNG, 0)
	mustNoErr(err)
	printResult(filtered)

	fmt.Println("\n── Example 4: multi-variant parallel processing")
	proc := engine.New(cfg, eng)
	proc.Start()
	defer proc.Stop()

	variants := []engine.VariantDefinition{
		{Name: "thumbnail", Recipe: func(b *imagefit.Builder) *imagefit.Builder { return b.CoverBox(150, 150) }, Output: engine.Output{Format: encoder.FormatJPEG, Quality: 0.7}},
		{Name: "card", Recipe: func(b *imagefit.Builder) *imagefit.Builder { return b.CoverBox(400, 300) }, Output: engine.Output{Format: encoder.FormatWebP, Quality: 0.8}},
		{Name: "hero", Recipe: func(b *imagefit.Builder) *imagefit.Builder {
			return b.MaxWidth(1200).Filter("sharpen", nil)
		}, Output: engine.Output{Format: encoder.FormatJPEG, Quality: 0.85}},
	}
	results, err := proc.ProcessVariants(context.Background(), source.EncodedBytes{Data: src, MIME: "image/png"}, variants)
	mustNoErr(err)
	for _, v := range results {
		if v.Err != nil {
			log.Fatalf("variant %s failed: %v", v.Name, v.Err)
		}
		fmt.Printf("  variant=%-10s %dx%d %5d bytes (%s)\n", v.Name, v.Result.Meta.Width, v.Result.Meta.Height, v.Result.Meta.BytesLen, v.Result.Meta.Format)
	}

	fmt.Println("\n── Example 5: async job via the worker pool")
	resultCh := make(chan engine.JobResult, 1)
	err = proc.Submit(engine.Job{
		Token:  source.EncodedBytes{Data: src, MIME: "image/png"},
		Recipe: func(b *imagefit.Builder) *imagefit.Builder { return b.ExactSize(256, 256).Filter("sepia", nil) },
		Output: engine.Output{Format: encoder.FormatPNG},
		ResultCh: resultCh,
	})
	mustNoErr(err)

	select {
	case jr := <-resultCh:
		if jr.Err != nil {
			log.Fatalf("async job failed: %v", jr.Err)
		}
		printResult(*jr.Result)
	case <-time.After(5 * time.Second):
		log.Fatal("async job timed out")
	}

	fmt.Println("\n── Example 6: batch, one recipe over many sources")
	batchResults, batchErrs := proc.Batch(context.Background(),
		[]source.Token{
			source.EncodedBytes{Data: src, MIME: "image/png"},
			source.EncodedBytes{Data: makeTestImage(800, 800), MIME: "image/png"},
		},
		func(b *imagefit.Builder) *imagefit.Builder { return b.MaxWidth(320) },
		engine.Output{Format: encoder.FormatWebP, Quality: 0.7},
	)
	for i, r := range batchResults {
		if batchErrs[i] != nil {
			log.Fatalf("batch item %d failed: %v", i, batchErrs[i])
		}
		printResult(*r)
	}

	fmt.Println("\n── Example 7: persist a variant via the storage sink")
	local, err := storage.NewLocal(os.TempDir()+"/imgfit-demo", 0)
	mustNoErr(err)
	storedMeta, err := eng.FromBytes(src, "image/png").
		CoverBox(320, 240).
		ToStorage(context.Background(), local, storage.Key{Bucket: "demo", Path: "card.webp"}, encoder.FormatWebP, 0.8)
	mustNoErr(err)
	fmt.Printf("  stored %dx%d %d bytes at demo/card.webp\n", storedMeta.Width, storedMeta.Height, storedMeta.BytesLen)

	fmt.Println("\n── Metrics snapshot")
	snap := metrics.Snapshot()
	for stage, calls := range snap.StageCalls {
		fmt.Printf("  stage=%-12s calls=%-4d total_ms=%d\n", stage, calls, snap.StageDurationsMs[stage])
	}
	fmt.Printf("  processed=%d errors=%d\n", proc.ProcessedCount(), proc.ErrorCount())
}

func mustNoErr(err error) {
	if err != nil {
		log.Fatalf("unexpected error: %v", err)
	}
}

func printResult(r imagefit.Result) {
	fmt.Printf("  %dx%d -> %5d bytes, format=%s, took=%dms\n",
		r.Meta.Width, r.Meta.Height, r.Meta.BytesLen, r.Meta.Format, r.Meta.ProcessingTimeMs)
}

// makeTestImage synthesizes a gradient PNG so the demo has no external asset
// dependency.
func makeTestImage(w, h int) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: uint8((x + y) * 255 / (w + h)),
				A: 255,
			})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		log.Fatalf("encode test image: %v", err)
	}
	return buf.Bytes()
}
