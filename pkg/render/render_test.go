package render

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/matzehuels/stringart/pkg/config"
	"github.com/matzehuels/stringart/pkg/errors"
	"github.com/matzehuels/stringart/pkg/nails"
	"github.com/matzehuels/stringart/pkg/raster"
)

func TestDimensions(t *testing.T) {
	tests := []struct {
		name         string
		output       int
		sx, sy       float64
		wantW, wantH int
	}{
		{"defaults", 0, 1, 1, config.DefaultWorkingSize, config.DefaultWorkingSize},
		{"explicit", 800, 1, 1, 800, 800},
		{"stretched", 600, 1.5, 0.5, 900, 300},
		{"rounded", 333, 1.25, 1, 416, 333},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.OutputSize = tt.output
			cfg.ScaleX, cfg.ScaleY = tt.sx, tt.sy
			w, h := Dimensions(cfg)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("Dimensions() = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestRenderEmptyOrder(t *testing.T) {
	set := nails.Circle(10, 10, 30, 1, 1)
	for _, bg := range []float64{0, 1} {
		f, err := Render([]int{0}, set, 10, 10, Options{Width: 20, Height: 20, Strength: -0.1, Background: bg})
		if err != nil {
			t.Fatalf("Render() error: %v", err)
		}
		for i, v := range f.Pix {
			if v != bg {
				t.Fatalf("Pix[%d] = %v, want background %v", i, v, bg)
			}
		}
	}
}

func TestRenderStrokes(t *testing.T) {
	set := nails.Set{{X: 0, Y: 0}, {X: 4, Y: 0}}
	opts := Options{Width: 10, Height: 2, Strength: -0.25, Background: 1}

	f, err := Render([]int{0, 1, 0, 1}, set, 5, 1, opts)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if f.Width != 10 || f.Height != 2 {
		t.Fatalf("size = %dx%d, want 10x2", f.Width, f.Height)
	}
	// Nails scale to (0,0) and (8,0); three passes darken the top row.
	for x := 0; x <= 8; x++ {
		if got := f.At(raster.Pt(x, 0)); got != 0.25 {
			t.Errorf("At(%d,0) = %v, want 0.25", x, got)
		}
	}
	if got := f.At(raster.Pt(9, 0)); got != 1 {
		t.Errorf("At(9,0) = %v, want untouched 1", got)
	}
	if got := f.At(raster.Pt(3, 1)); got != 1 {
		t.Errorf("At(3,1) = %v, want untouched 1", got)
	}
}

func TestRenderClamps(t *testing.T) {
	set := nails.Set{{X: 0, Y: 0}, {X: 3, Y: 3}}
	order := make([]int, 0, 40)
	for i := range 40 {
		order = append(order, i%2)
	}
	f, err := Render(order, set, 4, 4, Options{Width: 4, Height: 4, Strength: 0.3, Background: 0})
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range f.Pix {
		if v < 0 || v > 1 {
			t.Fatalf("Pix[%d] = %v out of range", i, v)
		}
	}
	if got := f.At(raster.Pt(2, 2)); got != 1 {
		t.Errorf("saturated pixel = %v, want 1", got)
	}
}

func TestRenderRejectsBadInput(t *testing.T) {
	set := nails.Set{{X: 0, Y: 0}, {X: 1, Y: 1}}
	opts := Options{Width: 4, Height: 4, Strength: -0.1, Background: 1}

	tests := []struct {
		name  string
		order []int
		set   nails.Set
		w, h  int
		opts  Options
		code  errors.Code
	}{
		{"bad index", []int{0, 2}, set, 2, 2, opts, errors.ErrCodeInvalidPlan},
		{"negative index", []int{-1}, set, 2, 2, opts, errors.ErrCodeInvalidPlan},
		{"no nails", []int{0}, nil, 2, 2, opts, errors.ErrCodeEmptyLayout},
		{"no working size", []int{0}, set, 0, 2, opts, errors.ErrCodeInvalidInput},
		{"no output size", []int{0}, set, 2, 2, Options{}, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Render(tt.order, tt.set, tt.w, tt.h, tt.opts); !errors.Is(err, tt.code) {
				t.Errorf("Render() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestExportIsIdempotent(t *testing.T) {
	cfg := config.Default()
	cfg.OutputSize = 120
	set := nails.Circle(60, 60, 10, 1, 1)
	order := []int{0, 17, 3, 25, 9, 30, 0, 12}
	opts := OptionsFromConfig(cfg)

	encode := func() ([]byte, []byte, []byte) {
		f, err := Render(order, set, 60, 60, opts)
		if err != nil {
			t.Fatal(err)
		}
		p, err := PNG(f)
		if err != nil {
			t.Fatal(err)
		}
		j, err := JPEG(f)
		if err != nil {
			t.Fatal(err)
		}
		s, err := RenderSVG(order, set, 60, 60, opts)
		if err != nil {
			t.Fatal(err)
		}
		return p, j, s
	}

	p1, j1, s1 := encode()
	p2, j2, s2 := encode()
	if !bytes.Equal(p1, p2) {
		t.Error("PNG output differs between runs")
	}
	if !bytes.Equal(j1, j2) {
		t.Error("JPEG output differs between runs")
	}
	if !bytes.Equal(s1, s2) {
		t.Error("SVG output differs between runs")
	}

	img, err := png.Decode(bytes.NewReader(p1))
	if err != nil {
		t.Fatalf("png.Decode() error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 120 || b.Dy() != 120 {
		t.Errorf("PNG bounds = %v, want 120x120", b)
	}
}

func TestImageIsGrayAndOpaque(t *testing.T) {
	f := raster.NewField(3, 1, 0)
	f.Set(raster.Pt(1, 0), 0.5)
	f.Set(raster.Pt(2, 0), 1)

	img := Image(f)
	for x := range 3 {
		c := img.RGBAAt(x, 0)
		if c.R != c.G || c.G != c.B || c.A != 255 {
			t.Errorf("pixel %d = %v, want gray and opaque", x, c)
		}
	}
	if got := img.RGBAAt(1, 0).R; got != 128 {
		t.Errorf("mid gray = %d, want 128", got)
	}
}

func TestRenderSVG(t *testing.T) {
	set := nails.Set{{X: 0, Y: 0}, {X: 9, Y: 9}, {X: 9, Y: 0}}
	opts := Options{Width: 20, Height: 20, Strength: 0.2, Background: 0}

	out, err := RenderSVG([]int{0, 1, 2}, set, 10, 10, opts, WithNails(), WithStrokeWidth(0.5))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	svg := string(out)

	for _, want := range []string{
		`viewBox="0 0 20 20"`,
		`fill="#000000"`,
		`stroke="#ffffff"`,
		`stroke-opacity="0.2"`,
		`stroke-width="0.5"`,
		`<line x1="0" y1="0" x2="18" y2="18"/>`,
		`<line x1="18" y1="18" x2="18" y2="0"/>`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if got := strings.Count(svg, "<circle"); got != 3 {
		t.Errorf("nail markers = %d, want 3", got)
	}
	if got := strings.Count(svg, "<line"); got != 2 {
		t.Errorf("lines = %d, want 2", got)
	}
}
