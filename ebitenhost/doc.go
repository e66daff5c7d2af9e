// Package ebitenhost runs a motion Engine inside an Ebitengine window.
//
// The host drives Engine.Tick from Ebitengine's fixed update clock, feeds
// mouse and touch input to the engine, and paints each mounted element as a
// filled box using its write-back frame: transform, opacity and the
// backgroundColor style. It is meant for previews and demos; real hosts
// implement motion.StyleWriter against their own node tree.
//
//	engine := motion.NewEngine(motion.EngineConfig{})
//	// mount elements...
//	err := ebitenhost.Run(engine, ebitenhost.RunConfig{
//		Title:   "Preview",
//		Width:   640,
//		Height:  480,
//		ShowFPS: true,
//	})
package ebitenhost
