package main

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestSaveImage(t *testing.T) {
	dir := t.TempDir()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 3))

	for _, name := range []string{"frame.png", "frame.webp", "FRAME.PNG"} {
		path := filepath.Join(dir, name)
		if err := saveImage(path, img); err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if info, err := os.Stat(path); err != nil || info.Size() == 0 {
			t.Errorf("%s: not written", name)
		}
	}

	f, err := os.Open(filepath.Join(dir, "frame.png"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 4 || cfg.Height != 3 {
		t.Errorf("decoded %dx%d", cfg.Width, cfg.Height)
	}

	if err := saveImage(filepath.Join(dir, "frame.jpg"), img); err == nil {
		t.Error("jpg: expected error")
	}
}
