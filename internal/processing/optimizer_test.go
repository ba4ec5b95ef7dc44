package processing

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/greenlens/greenlens/internal/storage"
)

// noisyImage produces pixels that compress poorly, so encoded size tracks
// dimensions predictably.
func noisyImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{
				uint8((x*31 + y*17) % 256),
				uint8((x*13 + y*41) % 256),
				uint8((x*7 + y*29) % 256),
				255,
			})
		}
	}
	return img
}

func noisyPNGDataURL(t *testing.T, width, height int) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, noisyImage(width, height)); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
	return storage.EncodeDataURL("image/png", buf.Bytes())
}

func TestOptimize_UnderBudgetUnchanged(t *testing.T) {
	optimizer := NewOptimizer(DefaultTargetKB)

	original := noisyPNGDataURL(t, 64, 64)
	result := optimizer.Optimize(original)

	if result != original {
		t.Error("Expected under-budget image to pass through unchanged")
	}
}

func TestOptimize_ShrinksOversizedImage(t *testing.T) {
	// Tiny budget forces the re-encode path
	optimizer := NewOptimizer(50)

	original := noisyPNGDataURL(t, 2400, 1200)
	result := optimizer.Optimize(original)

	if result == original {
		t.Fatal("Expected oversized image to be re-encoded")
	}

	decoded, err := storage.DecodeDataURL(result)
	if err != nil {
		t.Fatalf("Optimized output is not a valid data URL: %v", err)
	}
	if decoded.MIME != "image/jpeg" {
		t.Errorf("Expected jpeg output, got %s", decoded.MIME)
	}

	bounds := decoded.Image.Bounds()
	if bounds.Dx() > 1920 && bounds.Dy() > 1920 {
		t.Errorf("Expected longer dimension capped at 1920, got %dx%d", bounds.Dx(), bounds.Dy())
	}
	// Aspect ratio preserved within rounding
	if bounds.Dx() != 1920 || bounds.Dy() != 960 {
		t.Errorf("Expected 1920x960, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestOptimize_AcceptsFloorQualityResult(t *testing.T) {
	// A budget no quality level can reach; the floor result is still accepted
	optimizer := NewOptimizer(1)

	original := noisyPNGDataURL(t, 2400, 1200)
	result := optimizer.Optimize(original)

	if result == original {
		t.Fatal("Expected re-encode even when the budget is unreachable")
	}
	if _, err := storage.DecodeDataURL(result); err != nil {
		t.Errorf("Floor-quality output must still decode: %v", err)
	}
}

func TestOptimize_InvalidInputFallsBack(t *testing.T) {
	optimizer := NewOptimizer(DefaultTargetKB)

	for _, input := range []string{
		"not a data url",
		"data:image/png;base64,!!!",
	} {
		if got := optimizer.Optimize(input); got != input {
			t.Errorf("Expected invalid input %q to pass through unchanged", input)
		}
	}
}

func TestOptimize_CorruptPayloadFallsBack(t *testing.T) {
	// Valid envelope, undecodable pixels, over budget
	payload := bytes.Repeat([]byte("junkdata"), 16*1024)
	original := storage.EncodeDataURL("image/png", payload)

	optimizer := NewOptimizer(1)
	if got := optimizer.Optimize(original); got != original {
		t.Error("Expected corrupt payload to fall back to the original")
	}
}
