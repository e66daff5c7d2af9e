// Package motion is a declarative animation engine for UI elements.
//
// Elements declare where their properties should be (Initial, Animate,
// Exit, gesture layers and named variants) and how to get there (a
// [Transition]: tween, cubic-bezier or spring). The [Engine] interpolates
// every property toward its target on an external frame clock and writes
// the composed result back to the host once per element per tick.
//
// # Quick start
//
// The host owns the clock and the nodes. It mounts elements, ticks the
// engine and applies each [Frame] it receives:
//
//	engine := motion.NewEngine(motion.EngineConfig{})
//	engine.SetStyleWriter(motion.StyleWriterFunc(func(f motion.Frame) {
//		node := nodes[f.Element]
//		node.SetTransform(f.Transform)
//		if f.HasOpacity {
//			node.SetOpacity(f.Opacity)
//		}
//	}))
//
//	card, _ := engine.Mount(motion.ElementConfig{
//		Bounds:     motion.Bounds{Width: 120, Height: 80},
//		Initial:    motion.Target{"opacity": motion.Number(0)},
//		Animate:    motion.Target{"opacity": motion.Number(1)},
//		WhileHover: motion.Target{"scale": motion.Number(1.05)},
//	})
//
//	// every frame:
//	engine.HandlePointer(motion.PointerEvent{Phase: motion.PointerMove, X: mx, Y: my})
//	engine.Tick(dt)
//
// For a ready-made window, package ebitenhost runs an Engine inside
// [Ebitengine] and paints each element as a box.
//
// # Values and transforms
//
// A [Value] is a number, length (px or %), angle (deg or rad), CSS color,
// string, full transform or a record of named fields. Transform shorthands
// (x, y, z, scale, rotate, skewX, ...) are composed into one [Transform3D]
// and serialized as a CSS transform; everything else is written back as a
// style string. Colors blend in linear RGB via [go-colorful].
//
// # Transitions
//
// Tweens and beziers run for a fixed duration. Springs are integrated with
// a fixed substep and end when they rest; a spring that is retargeted keeps
// its velocity. Transitions may repeat, reverse and stagger across groups
// ([Engine.AnimateGroup]). [Transition.Tween] exposes any curve as a
// [gween] tween.
//
// # Gestures
//
// Pointer input drives hover, tap and drag layers; drag releases continue
// with momentum and snap back inside their constraints on a [harmonica]
// spring. Touch input drives a [MultiTouchRecognizer] per element for
// pinch and rotation.
//
// # Orchestration
//
// [TimelineSequence] and [TimelineManager] sequence targets over time;
// [KeyframeTrack] scrubs multi-stop animations; [LayoutTracker] runs FLIP
// animations when an element's box changes; [Presence] keeps removed
// elements mounted until their exit animation finishes.
//
// # Documents and scripts
//
// [LoadDocument] reads elements, transitions, springs and timelines from
// YAML. [LoadScript] reads a JSON script of injected input and target
// changes for automated tests; set it with [Engine.SetScriptRunner].
//
// # ECS integration
//
// Set an [EventSink] to forward every event, for example into a [Donburi]
// world via the motion/ecs adapter.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [go-colorful]: https://github.com/lucasb-eyer/go-colorful
// [harmonica]: https://github.com/charmbracelet/harmonica
// [Donburi]: https://github.com/yohamta/donburi
package motion
