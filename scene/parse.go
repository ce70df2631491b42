package scene

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

// ErrInvalidScene is returned when a document cannot be read as a scene at all.
var ErrInvalidScene = errors.New("scene: invalid simulation")

// Parse decodes a JSON or YAML scene document. Only an unreadable document or a
// non-mapping top level is an error; field-level problems are replaced with
// defaults and listed in Description.Issues.
func Parse(data []byte) (*Description, error) {
	doc, err := decodeDocument(data)
	if err != nil {
		return nil, err
	}

	desc := &Description{
		Gravity:  DefaultGravity(),
		Settings: DefaultSettings(),
	}
	root := fields{m: doc, issues: &desc.Issues}

	root.each("objects", func(f fields) {
		desc.Objects = append(desc.Objects, parseObject(f))
	})
	root.each("forces", func(f fields) {
		if spec, ok := parseForce(f); ok {
			desc.Forces = append(desc.Forces, spec)
		}
	})

	// Composites and emitters live under "behaviors"; top-level lists are
	// accepted for hand-written scenes.
	lists := []fields{root}
	if behaviors, ok := root.object("behaviors"); ok {
		lists = append([]fields{behaviors}, lists...)
	}
	for _, src := range lists {
		src.each("composites", func(f fields) {
			if spec, ok := parseComposite(f); ok {
				desc.Composites = append(desc.Composites, spec)
			}
		})
		for _, key := range []string{"particleEmitters", "emitters"} {
			src.each(key, func(f fields) {
				desc.Emitters = append(desc.Emitters, parseEmitter(f))
			})
		}
		if c := src.str("collisions"); c != "" && desc.Collisions == "" {
			desc.Collisions = parseCollisions(src, c)
		}
	}

	if g, ok := root.object("gravity"); ok {
		desc.Gravity = GravitySpec{
			X:     g.rangedOr("x", DefaultGravityX, -10, 10),
			Y:     g.rangedOr("y", DefaultGravityY, -10, 10),
			Scale: g.rangedOr("scale", DefaultGravityScale, 0, 0.1),
		}
	}
	if s, ok := root.object("settings"); ok {
		desc.Settings = SettingsSpec{
			TimeScale:  s.positiveOr("timeScale", DefaultTimeScale, 10),
			Background: s.color("background", DefaultBackground),
			Seed:       int64(s.numOr("seed", 0)),
		}
	}

	return desc, nil
}

func decodeDocument(data []byte) (map[string]any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidScene)
	}

	var raw any
	if trimmed[0] == '{' || trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidScene, err)
		}
	} else {
		if err := yaml.Unmarshal(trimmed, &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidScene, err)
		}
	}

	doc, ok := asMap(raw)
	if !ok {
		return nil, fmt.Errorf("%w: top level is %T, want a mapping", ErrInvalidScene, raw)
	}
	return doc, nil
}

func parseObject(f fields) ObjectSpec {
	spec := ObjectSpec{
		Type:   ShapeKind(f.str("type")),
		X:      f.rangedOr("x", 50, 0, 100),
		Y:      f.rangedOr("y", 50, 0, 100),
		Radius: f.optionalPositive("radius", 100),
		Width:  f.optionalPositive("width", 100),
		Height: f.optionalPositive("height", 100),
		Size:   f.optionalPositive("size", 100),
		Color:  f.color("color", ""),
		Static: f.boolean("isStatic"),
		Material: MaterialSpec{
			Density:     f.optionalPositive("density", 100),
			Restitution: f.optional("restitution", 0, 1),
			Friction:    f.optional("friction", 0, 1),
			FrictionAir: f.optional("frictionAir", 0, 1),
		},
		InitialVelocity: f.vec("initialVelocity"),
		Force:           f.vec("force"),
	}
	if f.has("sides") {
		if n, ok := f.ranged("sides", MinPolygonSide, MaxPolygonSide); ok {
			spec.Sides = Int(int(math.Round(n)))
		}
	}
	if v, ok := f.num("initialAngularVelocity"); ok {
		spec.InitialAngularVelocity = &v
	}
	f.each("constraints", func(c fields) {
		if cs, ok := parseConstraint(c); ok {
			spec.Constraints = append(spec.Constraints, cs)
		}
	})
	return spec
}

func parseConstraint(f fields) (ConstraintSpec, bool) {
	kind := ConstraintKind(f.str("type"))
	switch kind {
	case ConstraintPin, ConstraintSpring, ConstraintRope, ConstraintChain:
	default:
		f.report("type", "unknown constraint %q", kind)
		return ConstraintSpec{}, false
	}
	spec := ConstraintSpec{
		Type:      kind,
		PointX:    f.rangedOr("pointX", 50, 0, 100),
		PointY:    f.rangedOr("pointY", 0, 0, 100),
		Stiffness: f.rangedOr("stiffness", DefaultConstraintStiffness, 0, 1),
		Damping:   f.rangedOr("damping", DefaultConstraintDamping, 0, 1),
		Length:    f.optionalPositive("length", 200),
	}
	return spec, true
}

func parseForce(f fields) (ForceSpec, bool) {
	kind := ForceKind(f.str("type"))
	if kind == "" {
		f.report("type", "missing force type")
		return ForceSpec{}, false
	}
	// Unknown kinds are kept so the evaluator can log and skip them.
	return ForceSpec{
		Type:     kind,
		X:        f.rangedOr("x", 50, 0, 100),
		Y:        f.rangedOr("y", 50, 0, 100),
		Strength: f.rangedOr("strength", DefaultForceStrength, 0, 10),
		Radius:   f.positiveOr("radius", DefaultForceRadius, 200),
		Mass:     f.positiveOr("mass", DefaultForceMass, 1e6),
	}, true
}

func parseComposite(f fields) (CompositeSpec, bool) {
	kind := Archetype(f.str("type"))
	if kind == "" {
		f.report("type", "missing composite type")
		return CompositeSpec{}, false
	}
	spec := CompositeSpec{
		Type:     kind,
		X:        f.rangedOr("x", 50, 0, 100),
		Y:        f.rangedOr("y", 50, 0, 100),
		Size:     f.positiveOr("size", DefaultCompositeSize, 100),
		Elements: f.intRangedOr("elements", DefaultCompositeElements, 1, MaxCompositeElements),
	}
	known := map[string]bool{"type": true, "x": true, "y": true, "size": true, "elements": true, "options": true}
	addOptions := func(m map[string]any) {
		for key, raw := range m {
			if known[key] {
				continue
			}
			v, ok := toFloat(raw)
			if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			if spec.Options == nil {
				spec.Options = make(map[string]float64)
			}
			spec.Options[key] = v
		}
	}
	addOptions(f.m)
	if opts, ok := f.object("options"); ok {
		addOptions(opts.m)
	}
	return spec, true
}

func parseEmitter(f fields) EmitterSpec {
	return EmitterSpec{
		X:             f.rangedOr("x", 50, 0, 100),
		Y:             f.rangedOr("y", 50, 0, 100),
		Rate:          f.positiveOr("rate", DefaultEmitterRate, MaxEmitterRate),
		ParticleSize:  f.positiveOr("particleSize", DefaultParticleSize, 200),
		ParticleColor: f.color("particleColor", DefaultParticleColor),
		Direction:     f.rangedOr("direction", DefaultEmitterDirection, -360, 720),
		Spread:        f.rangedOr("spread", DefaultEmitterSpread, 0, 180),
		Force:         f.rangedOr("force", DefaultEmitterForce, 0, 1),
	}
}

func parseCollisions(f fields, value string) CollisionBehavior {
	switch c := CollisionBehavior(value); c {
	case CollisionsElastic, CollisionsInelastic, CollisionsSticky:
		return c
	default:
		// Unknown behaviors are kept; the coordinator logs and ignores them.
		f.report("collisions", "unknown collision behavior %q", value)
		return c
	}
}
