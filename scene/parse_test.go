package scene

import (
	"errors"
	"strings"
	"testing"
)

func TestParseRejectsUnreadableDocuments(t *testing.T) {
	cases := map[string]string{
		"truncated json": `{"objects": [{"type": "circle", "x": 10`,
		"empty":          "   ",
		"top level list": `[{"type": "circle"}]`,
		"top level yaml": "- 1\n- 2\n",
		"scalar":         "42",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			desc, err := Parse([]byte(doc))
			if !errors.Is(err, ErrInvalidScene) {
				t.Fatalf("expected ErrInvalidScene, got %v", err)
			}
			if desc != nil {
				t.Fatalf("expected no description on failure")
			}
		})
	}
}

func TestParseSkipsNonArraySubLists(t *testing.T) {
	doc := `{
		"objects": 5,
		"forces": {"type": "wind"},
		"behaviors": {
			"composites": [{"type": "newtonsCradle", "x": 50, "y": 20}, "junk"],
			"particleEmitters": "none"
		}
	}`
	desc, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(desc.Objects) != 0 || len(desc.Forces) != 0 || len(desc.Emitters) != 0 {
		t.Fatalf("expected skipped lists, got %d objects %d forces %d emitters", len(desc.Objects), len(desc.Forces), len(desc.Emitters))
	}
	if len(desc.Composites) != 1 || desc.Composites[0].Type != ArchetypeNewtonsCradle {
		t.Fatalf("expected the cradle to survive, got %+v", desc.Composites)
	}

	wantPaths := []string{"objects", "forces", "behaviors.composites[1]", "behaviors.particleEmitters"}
	for _, want := range wantPaths {
		if !hasIssue(desc, want) {
			t.Fatalf("expected issue at %s, got %v", want, desc.Issues)
		}
	}
}

func TestParseMaterialDefaultsAndExplicitZeros(t *testing.T) {
	doc := `{"objects": [
		{"type": "circle", "x": 10, "y": 10},
		{"type": "circle", "x": 20, "y": 10, "restitution": 0, "frictionAir": 0, "friction": 0}
	]}`
	desc, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(desc.Objects) != 2 {
		t.Fatalf("expected 2 objects, got %d", len(desc.Objects))
	}

	got := desc.Objects[0].Material.Resolve()
	want := Material{Density: 0.001, Restitution: 0.6, Friction: 0.1, FrictionAir: 0.01}
	if got != want {
		t.Fatalf("expected defaults %+v, got %+v", want, got)
	}

	zero := desc.Objects[1].Material.Resolve()
	if zero.Restitution != 0 || zero.Friction != 0 || zero.FrictionAir != 0 {
		t.Fatalf("explicit zeros replaced: %+v", zero)
	}
	if zero.Density != DefaultDensity {
		t.Fatalf("expected default density, got %v", zero.Density)
	}
}

func TestParseFieldRecovery(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		check func(t *testing.T, d *Description)
		issue string
	}{
		{
			name: "position out of range",
			doc:  `{"objects": [{"type": "circle", "x": 150, "y": 20}]}`,
			check: func(t *testing.T, d *Description) {
				if d.Objects[0].X != 50 || d.Objects[0].Y != 20 {
					t.Fatalf("expected x reset to 50, got %v,%v", d.Objects[0].X, d.Objects[0].Y)
				}
			},
			issue: "objects[0].x",
		},
		{
			name: "numeric string",
			doc:  `{"objects": [{"type": "circle", "radius": "4"}]}`,
			check: func(t *testing.T, d *Description) {
				if d.Objects[0].RadiusOr() != 4 {
					t.Fatalf("expected radius 4, got %v", d.Objects[0].RadiusOr())
				}
			},
		},
		{
			name: "bad color",
			doc:  `{"behaviors": {"particleEmitters": [{"particleColor": "not-a-color", "rate": 0}]}}`,
			check: func(t *testing.T, d *Description) {
				e := d.Emitters[0]
				if e.ParticleColor != DefaultParticleColor || e.Rate != DefaultEmitterRate {
					t.Fatalf("expected emitter defaults, got %+v", e)
				}
			},
			issue: "behaviors.particleEmitters[0].particleColor",
		},
		{
			name: "emitter defaults",
			doc:  `{"behaviors": {"particleEmitters": [{"x": 10, "y": 90}]}}`,
			check: func(t *testing.T, d *Description) {
				want := EmitterSpec{X: 10, Y: 90, Rate: 0.5, ParticleSize: 5, ParticleColor: "#9C27B0", Direction: 270, Spread: 30, Force: 0.005}
				if d.Emitters[0] != want {
					t.Fatalf("expected %+v, got %+v", want, d.Emitters[0])
				}
			},
		},
		{
			name: "explicit zero direction",
			doc:  `{"behaviors": {"particleEmitters": [{"direction": 0, "spread": 0}]}}`,
			check: func(t *testing.T, d *Description) {
				if d.Emitters[0].Direction != 0 || d.Emitters[0].Spread != 0 {
					t.Fatalf("expected explicit zeros, got %+v", d.Emitters[0])
				}
			},
		},
		{
			name: "composite options",
			doc:  `{"behaviors": {"composites": [{"type": "chain", "elements": 7, "linkLength": 12, "options": {"width": 0.5}}]}}`,
			check: func(t *testing.T, d *Description) {
				c := d.Composites[0]
				if c.Elements != 7 || c.Option("linkLength", 10) != 12 || c.Option("width", 0) != 0.5 {
					t.Fatalf("unexpected composite %+v", c)
				}
				if c.Option("missing", 3) != 3 {
					t.Fatalf("expected option default")
				}
			},
		},
		{
			name: "unknown force kept for evaluator",
			doc:  `{"forces": [{"type": "vortex"}]}`,
			check: func(t *testing.T, d *Description) {
				if len(d.Forces) != 1 || d.Forces[0].Type.Known() {
					t.Fatalf("expected one unknown force, got %+v", d.Forces)
				}
			},
		},
		{
			name: "gravity and settings defaults",
			doc:  `{}`,
			check: func(t *testing.T, d *Description) {
				if d.Gravity != DefaultGravity() || d.Settings != DefaultSettings() {
					t.Fatalf("unexpected defaults %+v %+v", d.Gravity, d.Settings)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc, err := Parse([]byte(tt.doc))
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			tt.check(t, desc)
			if tt.issue != "" && !hasIssue(desc, tt.issue) {
				t.Fatalf("expected issue at %s, got %v", tt.issue, desc.Issues)
			}
		})
	}
}

func TestParseYAML(t *testing.T) {
	data, err := Load("playground.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	desc, err := Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(desc.Objects) != 2 || len(desc.Composites) != 3 || len(desc.Forces) != 1 {
		t.Fatalf("unexpected counts: %d objects %d composites %d forces", len(desc.Objects), len(desc.Composites), len(desc.Forces))
	}
	if desc.Collisions != CollisionsElastic {
		t.Fatalf("expected elastic collisions, got %q", desc.Collisions)
	}
	c := desc.Objects[0].Constraints
	if len(c) != 1 || c[0].Type != ConstraintSpring || c[0].Length == nil || *c[0].Length != 15 {
		t.Fatalf("unexpected constraints %+v", c)
	}
}

func TestSamplesParseCleanly(t *testing.T) {
	names := Samples()
	if len(names) == 0 {
		t.Fatalf("expected embedded samples")
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			data, err := Load(name)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			desc, err := Parse(data)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if len(desc.Issues) != 0 {
				t.Fatalf("unexpected issues: %v", desc.Issues)
			}
		})
	}
}

func hasIssue(d *Description, path string) bool {
	for _, is := range d.Issues {
		if strings.HasPrefix(is.Path, path) {
			return true
		}
	}
	return false
}
