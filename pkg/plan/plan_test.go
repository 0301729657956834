package plan

import (
	"bytes"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/stringart/pkg/config"
	"github.com/matzehuels/stringart/pkg/errors"
	"github.com/matzehuels/stringart/pkg/nails"
	"github.com/matzehuels/stringart/pkg/optimize"
)

func testPlan() *Plan {
	cfg := config.Default()
	set := nails.Circle(20, 20, 45, 1, 1)
	res := &optimize.Result{
		PullOrder:   []int{0, 4, 2, 6},
		Iterations:  5,
		Accepted:    3,
		Rejected:    2,
		Improvement: 0.75,
		Stopped:     optimize.StopBudget,
	}
	return New(cfg, 20, 20, set, res)
}

func TestNew(t *testing.T) {
	p := testPlan()
	if p.Version != Version || p.Width != 20 || p.Height != 20 {
		t.Errorf("header = %d %dx%d", p.Version, p.Width, p.Height)
	}
	if p.Pulls() != 3 {
		t.Errorf("Pulls() = %d, want 3", p.Pulls())
	}
	if p.Stats.Stopped != "budget" || p.Stats.Rejected != 2 {
		t.Errorf("Stats = %+v", p.Stats)
	}
	if len(p.NailSet()) != 8 {
		t.Errorf("len(NailSet()) = %d, want 8", len(p.NailSet()))
	}
	if err := p.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestJSONFile(t *testing.T) {
	p := testPlan()
	path := filepath.Join(t.TempDir(), "plan.json")
	if err := ExportJSON(p, path); err != nil {
		t.Fatalf("ExportJSON() error: %v", err)
	}

	got, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON() error: %v", err)
	}
	if !slices.Equal(got.PullOrder, p.PullOrder) || !slices.Equal(got.Nails, p.Nails) {
		t.Errorf("ImportJSON() = %+v, want %+v", got, p)
	}
	if got.Config != p.Config {
		t.Errorf("Config = %+v, want %+v", got.Config, p.Config)
	}
}

func TestWireFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(testPlan(), &buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, key := range []string{`"pull_order"`, `"nails"`, `"x": 19`, `"background": "light"`, `"shape": "circle"`, `"random_nails": 50`} {
		if !strings.Contains(out, key) {
			t.Errorf("output missing %s", key)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Plan)
	}{
		{"wrong version", func(p *Plan) { p.Version = 9 }},
		{"no size", func(p *Plan) { p.Width = 0 }},
		{"no nails", func(p *Plan) { p.Nails = nil }},
		{"empty order", func(p *Plan) { p.PullOrder = nil }},
		{"wrong start", func(p *Plan) { p.PullOrder[0] = 3 }},
		{"index out of range", func(p *Plan) { p.PullOrder = append(p.PullOrder, 8) }},
		{"negative index", func(p *Plan) { p.PullOrder[2] = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testPlan()
			tt.mutate(p)
			if err := p.Validate(); !errors.Is(err, errors.ErrCodeInvalidPlan) {
				t.Errorf("Validate() error = %v, want INVALID_PLAN", err)
			}
		})
	}
}

func TestUnmarshalErrors(t *testing.T) {
	if _, err := Unmarshal([]byte("{not json")); !errors.Is(err, errors.ErrCodeInvalidPlan) {
		t.Errorf("Unmarshal(garbage) error = %v, want INVALID_PLAN", err)
	}
	if _, err := Unmarshal([]byte(`{"version":1,"width":1,"height":1,"nails":[],"pull_order":[0]}`)); !errors.Is(err, errors.ErrCodeInvalidPlan) {
		t.Errorf("Unmarshal(no nails) error = %v, want INVALID_PLAN", err)
	}
	if _, err := ImportJSON(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ImportJSON(missing) error = %v, want FILE_NOT_FOUND", err)
	}

	data, err := Marshal(testPlan())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Unmarshal(data); err != nil {
		t.Errorf("Unmarshal(Marshal()) error: %v", err)
	}
}
