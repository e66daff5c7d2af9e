// Package ecs provides ECS adapters for motion's event and write-back
// interfaces.
//
// [NewDonburiStore] bridges engine events (gestures, drags, animation and
// presence completion) into a [Donburi] world as typed events. Subscribe to
// [EventType] in your ECS systems to receive them.
//
// [NewFrameWriter] stores each element's write-back on the entity that
// carries a matching [Element] component, so render systems can read the
// latest [motion.Frame] with [Frame].Get.
//
// Usage:
//
//	engine.SetEventSink(ecs.NewDonburiStore(world))
//	engine.SetStyleWriter(ecs.NewFrameWriter(world))
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
