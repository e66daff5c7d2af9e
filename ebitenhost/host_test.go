package ebitenhost

import (
	"image/color"
	"math"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/motion"
)

func TestMouseTracker(t *testing.T) {
	var m mouseTracker

	evs := m.update(10, 20, false, 0)
	if len(evs) != 1 || evs[0].Phase != motion.PointerMove {
		t.Fatalf("first poll: %+v, want one move", evs)
	}
	if evs := m.update(10, 20, false, 16); len(evs) != 0 {
		t.Errorf("idle poll: %+v, want none", evs)
	}

	evs = m.update(10, 20, true, 32)
	if len(evs) != 1 || evs[0].Phase != motion.PointerPress {
		t.Fatalf("press poll: %+v", evs)
	}

	evs = m.update(30, 20, false, 48)
	if len(evs) != 2 {
		t.Fatalf("move+release poll: got %d events, want 2", len(evs))
	}
	if evs[0].Phase != motion.PointerMove || evs[1].Phase != motion.PointerRelease {
		t.Errorf("phases = %v, %v; want move, release", evs[0].Phase, evs[1].Phase)
	}
	if evs[1].X != 30 || evs[1].TimeMS != 48 {
		t.Errorf("release = %+v", evs[1])
	}
}

func TestTouchTracker(t *testing.T) {
	tr := newTouchTracker()
	positions := map[ebiten.TouchID][2]int{
		5: {100, 100},
		9: {200, 100},
	}
	pos := func(id ebiten.TouchID) (int, int) {
		p := positions[id]
		return p[0], p[1]
	}

	evs := tr.update([]ebiten.TouchID{5, 9}, pos, 0)
	if len(evs) != 1 || evs[0].Phase != motion.TouchStart || len(evs[0].Touches) != 2 {
		t.Fatalf("start: %+v", evs)
	}
	first := map[uint64]bool{}
	for _, p := range evs[0].Touches {
		first[p.ID] = true
	}

	positions[9] = [2]int{250, 100}
	evs = tr.update([]ebiten.TouchID{5, 9}, pos, 16)
	if len(evs) != 1 || evs[0].Phase != motion.TouchMove {
		t.Fatalf("move: %+v", evs)
	}
	if len(evs[0].Touches) != 1 || evs[0].Touches[0].X != 250 {
		t.Errorf("moved touches = %+v, want only the finger at x=250", evs[0].Touches)
	}
	if !first[evs[0].Touches[0].ID] {
		t.Errorf("finger id %d not stable", evs[0].Touches[0].ID)
	}

	evs = tr.update(nil, pos, 32)
	if len(evs) != 1 || evs[0].Phase != motion.TouchEnd || len(evs[0].Touches) != 2 {
		t.Fatalf("end: %+v", evs)
	}
	if evs[0].Touches[0].ID > evs[0].Touches[1].ID {
		t.Error("ended touches not sorted by id")
	}
	if len(tr.fingers) != 0 || len(tr.last) != 0 {
		t.Error("tracker kept lifted fingers")
	}
}

func TestBoxGeoM(t *testing.T) {
	b := motion.Bounds{X: 10, Y: 20, Width: 100, Height: 50}

	tests := []struct {
		name   string
		tr     motion.Transform3D
		u, v   float64
		wx, wy float64
	}{
		{"identity top-left", motion.IdentityTransform(), 0, 0, 10, 20},
		{"identity bottom-right", motion.IdentityTransform(), 1, 1, 110, 70},
		{"translate", func() motion.Transform3D {
			tr := motion.IdentityTransform()
			tr.TranslateX = 5
			return tr
		}(), 0, 0, 15, 20},
		{"scale about center", func() motion.Transform3D {
			tr := motion.IdentityTransform()
			tr.ScaleX, tr.ScaleY = 2, 2
			return tr
		}(), 0, 0, -40, -5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			geo := boxGeoM(b, tt.tr)
			x, y := geo.Apply(tt.u, tt.v)
			if math.Abs(x-tt.wx) > 1e-9 || math.Abs(y-tt.wy) > 1e-9 {
				t.Errorf("Apply(%v,%v) = (%v,%v), want (%v,%v)", tt.u, tt.v, x, y, tt.wx, tt.wy)
			}
		})
	}
}

func TestColorConversions(t *testing.T) {
	r, g, b, a := colorComponents(color.RGBA{R: 128, G: 0, B: 0, A: 128})
	if math.Abs(r-1) > 0.01 || g != 0 || b != 0 || math.Abs(a-128.0/255) > 0.01 {
		t.Errorf("colorComponents = %v %v %v %v", r, g, b, a)
	}
	if c := toRGBA(1, 0, 0, 0.5); c.R != 128 || c.A != 128 {
		t.Errorf("toRGBA = %+v, want premultiplied half red", c)
	}
	if c := toRGBA(2, -1, 0, 1); c.R != 255 || c.G != 0 {
		t.Errorf("toRGBA did not clamp: %+v", c)
	}
}

func TestPreviewRecordsAndForwards(t *testing.T) {
	engine := motion.NewEngine(motion.EngineConfig{})
	p := NewPreview(engine)
	var forwarded []motion.Frame
	p.Next = motion.StyleWriterFunc(func(f motion.Frame) { forwarded = append(forwarded, f) })
	engine.SetStyleWriter(p)

	el, err := engine.Mount(motion.ElementConfig{
		Bounds:  motion.Bounds{Width: 10, Height: 10},
		Initial: motion.Target{"opacity": motion.Number(0.4)},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := engine.Tick(1.0 / 60); err != nil {
		t.Fatal(err)
	}

	f, ok := p.Frame(el.ID())
	if !ok {
		t.Fatal("no frame recorded")
	}
	if !f.HasOpacity || f.Opacity != 0.4 {
		t.Errorf("frame opacity = %v, want 0.4", f.Opacity)
	}
	if len(forwarded) != 1 || forwarded[0].Element != el.ID() {
		t.Errorf("forwarded = %+v", forwarded)
	}
}
