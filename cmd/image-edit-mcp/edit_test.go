package main

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeTestPNG writes a 4x2 image of a single color and returns its path.
func writeTestPNG(t *testing.T, c color.NRGBA) string {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), "in.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create input: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode input: %v", err)
	}
	return path
}

func runEdit(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newEditCmd()
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func readPixel(t *testing.T, path string, x, y int) color.NRGBA {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("failed to decode output: %v", err)
	}
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func TestEdit_AppliesOpsInOrder(t *testing.T) {
	in := writeTestPNG(t, color.NRGBA{10, 20, 30, 255})
	dir := t.TempDir()
	out := filepath.Join(dir, "out.png")
	hist := filepath.Join(dir, "hist.png")

	stdout, err := runEdit(t,
		"--in", in,
		"--op", "invert",
		"--op", "grayscale",
		"--op", "brightness=-5",
		"--out", out,
		"--histogram", hist,
	)
	if err != nil {
		t.Fatalf("edit failed: %v", err)
	}

	// invert gives {245,235,225}, grayscale 235, then -5.
	if got := readPixel(t, out, 3, 1); got != (color.NRGBA{230, 230, 230, 255}) {
		t.Errorf("pixel: got %v, want {230 230 230 255}", got)
	}

	data, err := os.ReadFile(hist)
	if err != nil {
		t.Fatalf("histogram not written: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("histogram is not a PNG")
	}

	if !strings.Contains(stdout, "Wrote 4x2 image") || !strings.Contains(stdout, "histogram of 8 pixels") {
		t.Errorf("unexpected output: %q", stdout)
	}
}

func TestEdit_Resize(t *testing.T) {
	in := writeTestPNG(t, color.NRGBA{0, 0, 0, 255})
	out := filepath.Join(t.TempDir(), "out.png")

	if _, err := runEdit(t, "--in", in, "--width", "8", "--out", out); err != nil {
		t.Fatalf("edit failed: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 8 || cfg.Height != 4 {
		t.Errorf("size: got %dx%d, want 8x4", cfg.Width, cfg.Height)
	}
}

func TestEdit_ExitCodes(t *testing.T) {
	in := writeTestPNG(t, color.NRGBA{1, 2, 3, 255})
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"no output", []string{"--in", in}, ExitCodeInvalidArguments},
		{"positional arg", []string{"extra", "--in", in, "--out", filepath.Join(dir, "a.png")}, ExitCodeInvalidArguments},
		{"bad op", []string{"--in", in, "--op", "contrast=2*3", "--out", filepath.Join(dir, "b.png")}, ExitCodeInvalidArguments},
		{"unknown op", []string{"--in", in, "--op", "blur", "--out", filepath.Join(dir, "c.png")}, ExitCodeInvalidArguments},
		{"negative size", []string{"--in", in, "--width", "-1", "--out", filepath.Join(dir, "d.png")}, ExitCodeInvalidArguments},
		{"missing input", []string{"--in", filepath.Join(dir, "missing.png"), "--out", filepath.Join(dir, "e.png")}, ExitCodeInvalidInput},
		{"bad output format", []string{"--in", in, "--out", filepath.Join(dir, "f.tiff")}, ExitCodeInvalidOutput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runEdit(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			exitCodeError := &ExitCodeError{}
			if !errors.As(err, &exitCodeError) {
				t.Fatalf("error %v carries no exit code", err)
			}
			if exitCodeError.ExitCode() != tt.want {
				t.Errorf("exit code: got %d, want %d", exitCodeError.ExitCode(), tt.want)
			}
		})
	}
}
