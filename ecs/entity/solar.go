package entity

import (
	"image/color"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/scenesim/common"
	"github.com/milk9111/scenesim/ecs"
	"github.com/milk9111/scenesim/ecs/component"
	"github.com/milk9111/scenesim/scene"
)

// SolarSystem describes the bodies of a built solar system so the systems
// package can attach gravity wells, trails and flares.
type SolarSystem struct {
	Sun       ecs.Entity
	SunBody   *component.Body
	SunRadius float64
	Center    cp.Vector
	Planets   []Planet
}

type Planet struct {
	Entity ecs.Entity
	Body   *component.Body
	Index  int
	Radius float64
	Fill   color.NRGBA
	Moons  []Moon
}

type Moon struct {
	Entity ecs.Entity
	Body   *component.Body
	Radius float64
}

var (
	sunColor   = scene.MustColor("#FFEB3B", defaultObjectColor)
	sunGlow    = scene.MustColor("#FF980066", defaultObjectColor)
	FlareColor = scene.MustColor("#FFC107", defaultObjectColor)
	moonColor  = scene.MustColor("#E0E0E0", defaultObjectColor)
)

var planetPalette = []struct{ fill, atmosphere string }{
	{"#3F51B5", "#5C6BC0"},
	{"#4CAF50", "#81C784"},
	{"#F44336", "#E57373"},
	{"#FF9800", "#FFB74D"},
	{"#795548", "#A1887F"},
	{"#9C27B0", "#BA68C8"},
	{"#00BCD4", "#4DD0E1"},
}

var celestialMaterial = scene.Material{
	Density:     scene.DefaultDensity,
	Restitution: 0.6,
	Friction:    0.005,
	FrictionAir: 0,
}

// Well returns the gravitational parameter G·M in engine units for a center
// of the given nominal mass.
func Well(g, mass float64) float64 {
	return g * common.ForceScale * mass
}

// CircularSpeed is the speed of a circular orbit of radius d around a well.
func CircularSpeed(mu, d float64) float64 {
	if d <= 0 || mu <= 0 {
		return 0
	}
	return math.Sqrt(mu / d)
}

func buildSolarSystem(ctx *Context, spec scene.CompositeSpec, f frame) (*Composite, error) {
	tun := ctx.Tuning
	sunR := f.Size * 0.15

	sun := newBody(bodyDef{Kind: component.ShapeCircle, Pos: f.Origin, Radius: sunR, Density: celestialMaterial.Density, Static: true})
	sun.Role = component.RolePrimary
	applyMaterial(sun, celestialMaterial)
	for _, s := range sun.Shapes {
		s.SetCollisionType(ecs.CollisionPrimary)
	}
	sunRender := solidRender(sunColor, layerPrimary)
	sunRender.Halo = &component.Halo{Color: sunGlow, Radius: sunR * 1.5}
	sunEntity, err := spawn(ctx, sun, sunRender)
	if err != nil {
		return nil, err
	}

	c := &Composite{}
	c.add(sunEntity)
	solar := &SolarSystem{Sun: sunEntity, SunBody: sun, SunRadius: sunR, Center: f.Origin}
	c.Solar = solar

	sunMu := Well(tun.SolarGravity, sun.NominalMass)
	for i := 0; i < f.Elements; i++ {
		distance := sunR*2 + float64(i+1)*f.Size*0.1
		angle := ctx.Random() * 2 * math.Pi
		radius := sunR * (0.2 + ctx.Random()*0.3)
		palette := planetPalette[i%len(planetPalette)]
		fill := scene.MustColor(palette.fill, defaultObjectColor)
		atmosphere := scene.MustColor(palette.atmosphere+"40", fill)

		pos := cp.Vector{X: f.Origin.X + math.Cos(angle)*distance, Y: f.Origin.Y + math.Sin(angle)*distance}
		rec := newBody(bodyDef{Kind: component.ShapeCircle, Pos: pos, Radius: radius, Density: celestialMaterial.Density})
		rec.Role = component.RolePrimary
		applyMaterial(rec, celestialMaterial)
		for _, s := range rec.Shapes {
			s.SetCollisionType(ecs.CollisionPrimary)
		}
		render := solidRender(fill, layerPrimary)
		render.Halo = &component.Halo{Color: atmosphere, Radius: radius * 1.2}
		e, err := spawn(ctx, rec, render)
		if err != nil {
			return c, err
		}
		c.add(e)

		tangent := cp.Vector{X: -math.Sin(angle), Y: math.Cos(angle)}
		velocity := tangent.Mult(CircularSpeed(sunMu, distance))
		rec.Body.SetVelocityVector(velocity)

		planet := Planet{Entity: e, Body: rec, Index: i, Radius: radius, Fill: fill}
		if i > 0 && i < 5 && ctx.Random() < tun.MoonChance {
			moon, err := buildMoon(ctx, rec, radius, velocity)
			if err != nil {
				return c, err
			}
			c.add(moon.Entity)
			planet.Moons = append(planet.Moons, moon)
		}
		solar.Planets = append(solar.Planets, planet)
	}
	return c, nil
}

func buildMoon(ctx *Context, planet *component.Body, planetRadius float64, planetVelocity cp.Vector) (Moon, error) {
	distance := planetRadius * 2.5
	radius := planetRadius * 0.3
	angle := ctx.Random() * 2 * math.Pi
	center := planet.Body.Position()
	pos := cp.Vector{X: center.X + math.Cos(angle)*distance, Y: center.Y + math.Sin(angle)*distance}

	rec := newBody(bodyDef{Kind: component.ShapeCircle, Pos: pos, Radius: radius, Density: celestialMaterial.Density})
	rec.Role = component.RolePrimary
	applyMaterial(rec, celestialMaterial)
	for _, s := range rec.Shapes {
		s.SetCollisionType(ecs.CollisionPrimary)
	}
	e, err := spawn(ctx, rec, solidRender(moonColor, layerPrimary))
	if err != nil {
		return Moon{}, err
	}

	mu := Well(ctx.Tuning.MoonGravity, planet.NominalMass)
	tangent := cp.Vector{X: -math.Sin(angle), Y: math.Cos(angle)}
	rec.Body.SetVelocityVector(planetVelocity.Add(tangent.Mult(CircularSpeed(mu, distance))))
	return Moon{Entity: e, Body: rec, Radius: radius}, nil
}
