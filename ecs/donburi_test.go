package ecs

import (
	"testing"

	"github.com/phanxgames/motion"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func TestNewDonburiStore(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)
	if store == nil {
		t.Fatal("NewDonburiStore returned nil")
	}
}

func TestDonburiStore_EmitEvent(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var received []motion.Event
	EventType.Subscribe(world, func(w donburi.World, e motion.Event) {
		received = append(received, e)
	})

	store.EmitEvent(motion.Event{
		Type:    motion.EventPointerDown,
		Element: 42,
		X:       100,
		Y:       200,
	})

	store.EmitEvent(motion.Event{
		Type:    motion.EventPinch,
		Scale:   2.0,
		Gesture: motion.GesturePinch,
	})

	// Events are queued until processed.
	EventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}

	e0 := received[0]
	if e0.Type != motion.EventPointerDown || e0.Element != 42 {
		t.Errorf("event 0: %+v", e0)
	}
	if e0.X != 100 || e0.Y != 200 {
		t.Errorf("event 0 position: (%v,%v)", e0.X, e0.Y)
	}

	e1 := received[1]
	if e1.Type != motion.EventPinch || e1.Scale != 2.0 || e1.Gesture != motion.GesturePinch {
		t.Errorf("event 1: %+v", e1)
	}
}

func TestDonburiStore_ImplementsEventSink(t *testing.T) {
	world := donburi.NewWorld()
	var store motion.EventSink = NewDonburiStore(world)
	_ = store // compile-time interface check
}

func TestDonburiStore_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var count1, count2 int
	EventType.Subscribe(world, func(w donburi.World, e motion.Event) {
		count1++
	})
	EventType.Subscribe(world, func(w donburi.World, e motion.Event) {
		count2++
	})

	store.EmitEvent(motion.Event{Type: motion.EventTap})
	events.ProcessAllEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both subscribers called once, got %d and %d", count1, count2)
	}
}

func TestFrameWriter_StoresFrame(t *testing.T) {
	world := donburi.NewWorld()
	ent := Spawn(world, 7)
	other := Spawn(world, 8)
	w := NewFrameWriter(world)

	w.WriteFrame(motion.Frame{Element: 7, Opacity: 0.25, HasOpacity: true, Transform: "none"})
	w.WriteFrame(motion.Frame{Element: 99, Opacity: 1, HasOpacity: true})

	f := Frame.Get(world.Entry(ent))
	if !f.HasOpacity || f.Opacity != 0.25 {
		t.Errorf("frame = %+v, want opacity 0.25", *f)
	}
	if g := Frame.Get(world.Entry(other)); g.HasOpacity {
		t.Errorf("element 8 frame was written: %+v", *g)
	}
}

func TestFrameWriter_DespawnedEntity(t *testing.T) {
	world := donburi.NewWorld()
	ent := Spawn(world, 3)
	w := NewFrameWriter(world)
	w.WriteFrame(motion.Frame{Element: 3, Opacity: 0.5, HasOpacity: true})

	world.Remove(ent)
	respawned := Spawn(world, 3)
	w.WriteFrame(motion.Frame{Element: 3, Opacity: 0.75, HasOpacity: true})

	if f := Frame.Get(world.Entry(respawned)); f.Opacity != 0.75 {
		t.Errorf("opacity = %v, want 0.75", f.Opacity)
	}
}

func TestEngineBridge(t *testing.T) {
	world := donburi.NewWorld()
	engine := motion.NewEngine(motion.EngineConfig{})
	engine.SetEventSink(NewDonburiStore(world))
	engine.SetStyleWriter(NewFrameWriter(world))

	el, err := engine.Mount(motion.ElementConfig{
		Bounds: motion.Bounds{Width: 100, Height: 100},
	})
	if err != nil {
		t.Fatal(err)
	}
	ent := Spawn(world, el.ID())

	var completed int
	EventType.Subscribe(world, func(w donburi.World, e motion.Event) {
		if e.Type == motion.EventAnimationComplete && e.Element == el.ID() {
			completed++
		}
	})

	tr := motion.Tween(0, motion.Ease(motion.EaseLinear))
	if err := el.AnimateTo(motion.Target{"opacity": motion.Number(0.5)}, &tr); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := engine.Tick(1.0 / 60); err != nil {
			t.Fatal(err)
		}
	}
	events.ProcessAllEvents(world)

	if completed != 1 {
		t.Errorf("completed = %d, want 1", completed)
	}
	f := Frame.Get(world.Entry(ent))
	if !f.HasOpacity || f.Opacity != 0.5 {
		t.Errorf("frame = %+v, want opacity 0.5", *f)
	}
}
