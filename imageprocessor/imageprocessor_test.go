package imageprocessor

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"datasetprep/config"

	"github.com/disintegration/imaging"
	"gocv.io/x/gocv"
)

// solidMat returns a BGR Mat filled with one color
func solidMat(t *testing.T, w, h int, b, g, r float64) gocv.Mat {
	t.Helper()
	m := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(b, g, r, 0), h, w, gocv.MatTypeCV8UC3)
	t.Cleanup(func() { m.Close() })
	return m
}

// pixelMat returns a BGR Mat whose pixels come from fn(x, y)
func pixelMat(t *testing.T, w, h int, fn func(x, y int) (b, g, r uint8)) (gocv.Mat, []byte) {
	t.Helper()
	data := make([]byte, 0, w*h*3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			b, g, r := fn(x, y)
			data = append(data, b, g, r)
		}
	}
	view, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8UC3, data)
	if err != nil {
		t.Fatalf("cannot build fixture: %v", err)
	}
	// own the pixels instead of sharing the Go slice
	m := view.Clone()
	view.Close()
	t.Cleanup(func() { m.Close() })
	return m, data
}

// writeHalves writes a JPEG whose left half is black and right half white,
// or top/bottom when vertical is set
func writeHalves(t *testing.T, path string, w, h int, vertical bool) {
	t.Helper()
	img := imaging.New(w, h, color.Black)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (!vertical && x >= w/2) || (vertical && y >= h/2) {
				img.Set(x, y, color.White)
			}
		}
	}
	if err := imaging.Save(img, path, imaging.JPEGQuality(95)); err != nil {
		t.Fatalf("cannot write fixture %s: %v", path, err)
	}
}

func TestNormalize(t *testing.T) {
	opts := config.DefaultNormalizeOptions()

	t.Run("target size is kept", func(t *testing.T) {
		src, want := pixelMat(t, 64, 64, func(x, y int) (uint8, uint8, uint8) {
			return uint8(x * 4), uint8(y * 4), uint8((x*7 + y*13) % 256)
		})
		out, ok, err := Normalize(src, opts)
		if err != nil || !ok {
			t.Fatalf("Normalize() = ok %v, err %v", ok, err)
		}
		defer out.Close()
		if out.Cols() != 64 || out.Rows() != 64 || out.Channels() != 3 {
			t.Fatalf("got %dx%dx%d, want 64x64x3", out.Cols(), out.Rows(), out.Channels())
		}
		if !bytes.Equal(out.ToBytes(), want) {
			t.Error("pixels changed although the image already had the target size")
		}
	})

	t.Run("undersized is discarded", func(t *testing.T) {
		src := solidMat(t, 32, 32, 0, 0, 0)
		out, ok, err := Normalize(src, opts)
		defer out.Close()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok {
			t.Error("expected a 32x32 image to be discarded")
		}
	})

	t.Run("undersized with upscale", func(t *testing.T) {
		up := opts
		up.AllowUpscale = true
		src := solidMat(t, 32, 16, 0, 0, 0)
		out, ok, err := Normalize(src, up)
		if err != nil || !ok {
			t.Fatalf("Normalize() = ok %v, err %v", ok, err)
		}
		defer out.Close()
		if out.Cols() != 64 || out.Rows() != 64 {
			t.Errorf("got %dx%d, want 64x64", out.Cols(), out.Rows())
		}
	})

	t.Run("crop before resize", func(t *testing.T) {
		crop := opts
		crop.CropBeforeResize = true
		// red band | green center square | blue band
		src, _ := pixelMat(t, 200, 100, func(x, y int) (uint8, uint8, uint8) {
			switch {
			case x < 50:
				return 0, 0, 255
			case x >= 150:
				return 255, 0, 0
			}
			return 0, 255, 0
		})
		out, ok, err := Normalize(src, crop)
		if err != nil || !ok {
			t.Fatalf("Normalize() = ok %v, err %v", ok, err)
		}
		defer out.Close()
		if out.Cols() != 64 || out.Rows() != 64 {
			t.Fatalf("got %dx%d, want 64x64", out.Cols(), out.Rows())
		}
		for y := 0; y < 64; y++ {
			for x := 0; x < 64; x++ {
				if v := out.GetVecbAt(y, x); v[0] > 16 || v[2] > 16 || v[1] < 239 {
					t.Fatalf("pixel (%d,%d) = %v, side bands leaked into the crop", x, y, v)
				}
			}
		}
	})

	t.Run("grayscale target", func(t *testing.T) {
		gray := opts
		gray.Mode = config.ModeGray
		src := solidMat(t, 128, 128, 0, 0, 0)
		out, ok, err := Normalize(src, gray)
		if err != nil || !ok {
			t.Fatalf("Normalize() = ok %v, err %v", ok, err)
		}
		defer out.Close()
		if out.Channels() != 1 {
			t.Errorf("got %d channels, want 1", out.Channels())
		}
	})

	t.Run("empty source", func(t *testing.T) {
		src := gocv.NewMat()
		defer src.Close()
		out, _, err := Normalize(src, opts)
		defer out.Close()
		if err == nil {
			t.Error("expected an error for an empty Mat")
		}
	})
}

func TestCropRects(t *testing.T) {
	tests := []struct {
		name               string
		w, h, cropW, cropH int
		want               image.Rectangle
	}{
		{"centered", 100, 50, 50, 50, image.Rect(25, 0, 75, 50)},
		{"odd difference", 5, 5, 2, 2, image.Rect(1, 1, 3, 3)},
		{"whole image", 64, 64, 64, 64, image.Rect(0, 0, 64, 64)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CenterCropRect(tt.w, tt.h, tt.cropW, tt.cropH)
			if got != tt.want {
				t.Errorf("CenterCropRect() = %v, want %v", got, tt.want)
			}
			if got.Dx() != tt.cropW || got.Dy() != tt.cropH {
				t.Errorf("crop is %dx%d, want %dx%d", got.Dx(), got.Dy(), tt.cropW, tt.cropH)
			}
		})
	}

	if got := MaxSquareRect(30, 80); got != image.Rect(0, 25, 30, 55) {
		t.Errorf("MaxSquareRect(30, 80) = %v", got)
	}
}

func TestConvertMode(t *testing.T) {
	gray := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(90, 0, 0, 0), 8, 8, gocv.MatTypeCV8UC1)
	defer gray.Close()

	rgb, err := ConvertMode(gray, config.ModeRGB)
	if err != nil {
		t.Fatalf("ConvertMode(L, RGB) error: %v", err)
	}
	defer rgb.Close()
	if rgb.Channels() != 3 {
		t.Fatalf("got %d channels, want 3", rgb.Channels())
	}
	if v := rgb.GetVecbAt(0, 0); v[0] != 90 || v[1] != 90 || v[2] != 90 {
		t.Errorf("gray value not replicated: %v", v)
	}

	back, err := ConvertMode(rgb, config.ModeGray)
	if err != nil {
		t.Fatalf("ConvertMode(RGB, L) error: %v", err)
	}
	defer back.Close()
	if back.Channels() != 1 || back.GetUCharAt(0, 0) != 90 {
		t.Errorf("round trip gave %d channels, value %d", back.Channels(), back.GetUCharAt(0, 0))
	}

	same, err := ConvertMode(rgb, config.ModeRGB)
	if err != nil {
		t.Fatalf("ConvertMode(RGB, RGB) error: %v", err)
	}
	defer same.Close()
	if same.Channels() != 3 {
		t.Errorf("same-mode conversion changed channels to %d", same.Channels())
	}
}

func TestMatToRaster(t *testing.T) {
	src := solidMat(t, 4, 2, 10, 20, 30)
	r, err := MatToRaster(src)
	if err != nil {
		t.Fatalf("MatToRaster() error: %v", err)
	}
	if r.Height != 2 || r.Width != 4 || r.Channels != 3 {
		t.Fatalf("shape %v, want [2 4 3]", r.Shape())
	}
	if len(r.Pix) != 2*4*3 {
		t.Fatalf("got %d bytes", len(r.Pix))
	}
	// BGR in, RGB out
	if r.Pix[0] != 30 || r.Pix[1] != 20 || r.Pix[2] != 10 {
		t.Errorf("first pixel %v, want [30 20 10]", r.Pix[:3])
	}
}

func TestSaveAndLoadJPEG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.jpg")
	src := solidMat(t, 64, 48, 200, 100, 50)

	if err := SaveJPEGAll(path, src, config.JPEGQuality); err != nil {
		t.Fatalf("SaveJPEGAll() error: %v", err)
	}

	img, err := LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage() error: %v", err)
	}
	defer img.Close()
	if img.Cols() != 64 || img.Rows() != 48 || img.Channels() != 3 {
		t.Errorf("loaded %dx%dx%d, want 64x48x3", img.Cols(), img.Rows(), img.Channels())
	}

	if _, err := LoadImage(filepath.Join(t.TempDir(), "missing.jpg")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestFingerprint(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.jpg")
	b := filepath.Join(dir, "b.jpg")
	c := filepath.Join(dir, "c.jpg")
	writeHalves(t, a, 64, 64, false)
	writeHalves(t, b, 64, 64, false)
	writeHalves(t, c, 64, 64, true)

	loader := NewJPEGLoader()
	for _, kind := range []config.HashKindType{config.HashAverage, config.HashDifference} {
		t.Run(string(kind), func(t *testing.T) {
			fa, err := FingerprintFile(loader, a, config.HashSize, kind)
			if err != nil {
				t.Fatalf("FingerprintFile(a) error: %v", err)
			}
			fb, err := FingerprintFile(loader, b, config.HashSize, kind)
			if err != nil {
				t.Fatalf("FingerprintFile(b) error: %v", err)
			}
			fc, err := FingerprintFile(loader, c, config.HashSize, kind)
			if err != nil {
				t.Fatalf("FingerprintFile(c) error: %v", err)
			}
			if fa == "" {
				t.Fatal("empty fingerprint")
			}
			if fa != fb {
				t.Errorf("identical images hash differently: %s vs %s", fa, fb)
			}
			if fa == fc {
				t.Errorf("different images share fingerprint %s", fa)
			}
		})
	}
}

func TestFormats(t *testing.T) {
	if !IsJPEGFile("x/y/Photo.JPG") || !IsJPEGFile("a.jpeg") {
		t.Error("JPEG extensions not recognized")
	}
	if IsJPEGFile("a.png") || GetFileFormat("a.png") != FormatUnknown {
		t.Error("png recognized as JPEG")
	}
}

func TestDecodeImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gray.jpg")
	gray := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(128, 0, 0, 0), 16, 16, gocv.MatTypeCV8UC1)
	defer gray.Close()
	if err := SaveJPEG(path, gray, 90); err != nil {
		t.Fatalf("SaveJPEG() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	img, err := DecodeImage(data)
	if err != nil {
		t.Fatalf("DecodeImage() error: %v", err)
	}
	defer img.Close()
	if mode, _ := MatMode(img); mode != config.ModeGray {
		t.Errorf("gray JPEG decoded as %s", mode)
	}

	if _, err := DecodeImage([]byte("not a jpeg")); err == nil {
		t.Error("expected an error for garbage bytes")
	}
}
