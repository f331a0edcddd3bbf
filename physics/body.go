package physics

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/layerfilter/layer"
	"github.com/rotisserie/eris"
)

type BodyID uint32

type BodyKind uint8

const (
	Static BodyKind = iota
	Dynamic
	Kinematic
)

func (k BodyKind) String() string {
	switch k {
	case Static:
		return "static"
	case Dynamic:
		return "dynamic"
	case Kinematic:
		return "kinematic"
	default:
		return "unknown"
	}
}

type ShapeKind uint8

const (
	Box ShapeKind = iota
	Circle
)

// BodyDef describes a body to add. X and Y are the body's center.
type BodyDef struct {
	Layer layer.ObjectLayer
	Kind  BodyKind
	Shape ShapeKind

	X, Y          float64
	Width, Height float64
	Radius        float64

	Mass       float64
	Friction   float64
	Elasticity float64

	VX, VY float64
}

// Body is a handle to a body owned by a World.
type Body struct {
	id     BodyID
	layer  layer.ObjectLayer
	bucket layer.BroadPhaseLayer
	kind   BodyKind
	body   *cp.Body
	shape  *cp.Shape
}

func (b *Body) ID() BodyID {
	return b.id
}

func (b *Body) Layer() layer.ObjectLayer {
	return b.layer
}

// BroadPhaseLayer returns the bucket the body was sorted into when added.
func (b *Body) BroadPhaseLayer() layer.BroadPhaseLayer {
	return b.bucket
}

func (b *Body) Kind() BodyKind {
	return b.kind
}

func (b *Body) Position() (x, y float64) {
	p := b.body.Position()
	return p.X, p.Y
}

func (b *Body) Velocity() (vx, vy float64) {
	v := b.body.Velocity()
	return v.X, v.Y
}

// Shape returns the Chipmunk shape backing the body.
func (b *Body) Shape() *cp.Shape {
	return b.shape
}

func validDimension(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// AddBody creates a body on def.Layer. A layer outside the world's domain panics
// like any other layer query; bad geometry is returned as ErrInvalidBody.
func (w *World) AddBody(def BodyDef) (BodyID, error) {
	layer.CheckObjectLayer("World.AddBody", def.Layer, w.numObjectLayers)

	switch def.Shape {
	case Box:
		if !validDimension(def.Width) || !validDimension(def.Height) {
			return 0, eris.Wrapf(ErrInvalidBody, "box %gx%g", def.Width, def.Height)
		}
	case Circle:
		if !validDimension(def.Radius) {
			return 0, eris.Wrapf(ErrInvalidBody, "circle radius %g", def.Radius)
		}
	default:
		return 0, eris.Wrapf(ErrInvalidBody, "shape kind %d", def.Shape)
	}
	if def.Mass < 0 || math.IsNaN(def.Mass) {
		return 0, eris.Wrapf(ErrInvalidBody, "mass %g", def.Mass)
	}

	var body *cp.Body
	switch def.Kind {
	case Static:
		body = cp.NewStaticBody()
	case Kinematic:
		body = cp.NewKinematicBody()
	case Dynamic:
		mass := def.Mass
		if mass <= 0 {
			mass = 1
		}
		var moment float64
		if def.Shape == Circle {
			moment = cp.MomentForCircle(mass, 0, def.Radius, cp.Vector{})
		} else {
			moment = cp.MomentForBox(mass, def.Width, def.Height)
		}
		body = cp.NewBody(mass, moment)
	default:
		return 0, eris.Wrapf(ErrInvalidBody, "body kind %d", def.Kind)
	}
	body.SetPosition(cp.Vector{X: def.X, Y: def.Y})
	if def.Kind != Static {
		body.SetVelocity(def.VX, def.VY)
	}

	var shape *cp.Shape
	if def.Shape == Circle {
		shape = cp.NewCircle(body, def.Radius, cp.Vector{})
	} else {
		shape = cp.NewBox(body, def.Width, def.Height, 0)
	}
	shape.SetFriction(def.Friction)
	shape.SetElasticity(def.Elasticity)
	shape.SetCollisionType(collisionType(def.Layer))
	shape.SetFilter(w.filters[def.Layer])

	w.nextID++
	b := &Body{
		id:     w.nextID,
		layer:  def.Layer,
		bucket: w.layers.BroadPhaseLayer(def.Layer),
		kind:   def.Kind,
		body:   body,
		shape:  shape,
	}
	shape.UserData = b

	w.space.AddBody(body)
	w.space.AddShape(shape)
	w.bodies[b.id] = b
	w.buckets[b.bucket][b.id] = b

	w.log.Debug().
		Uint32("body", uint32(b.id)).
		Uint16("layer", uint16(b.layer)).
		Uint8("bucket", uint8(b.bucket)).
		Str("kind", b.kind.String()).
		Msg("body added")
	return b.id, nil
}

// Body returns the body with the given id.
func (w *World) Body(id BodyID) (*Body, bool) {
	b, ok := w.bodies[id]
	return b, ok
}

// RemoveBody removes a body and forgets its contacts. It reports whether the id
// was known.
func (w *World) RemoveBody(id BodyID) bool {
	b, ok := w.bodies[id]
	if !ok {
		return false
	}
	if b.shape != nil {
		w.space.RemoveShape(b.shape)
	}
	if b.body != nil {
		w.space.RemoveBody(b.body)
	}
	delete(w.bodies, id)
	delete(w.buckets[b.bucket], id)
	for k := range w.contacts {
		if k.a == id || k.b == id {
			delete(w.contacts, k)
		}
	}
	return true
}
