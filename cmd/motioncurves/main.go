// Motioncurves is a terminal viewer for motion easing curves. It plots
// each curve and plays a marker along it with the curve's tween.
//
// Usage:
//
//	motioncurves [-doc motion.yaml] [-duration 1]
//
// Keys: left/right select a curve, space replays, q or Esc quits.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/phanxgames/motion"
	"github.com/tanema/gween"
)

const frameTime = 16 * time.Millisecond

type viewer struct {
	screen        tcell.Screen
	width, height int

	curves []curve
	index  int
	tween  *gween.Tween
	value  float32
	done   bool
}

func main() {
	docPath := flag.String("doc", "", "motion document whose transitions to plot")
	duration := flag.Float64("duration", 1, "tween duration in seconds for built-in curves")
	flag.Parse()

	curves := builtinCurves(*duration)
	if *docPath != "" {
		doc, err := motion.ReadDocument(*docPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "motioncurves: %v\n", err)
			os.Exit(1)
		}
		curves, err = documentCurves(doc)
		if err != nil {
			fmt.Fprintf(os.Stderr, "motioncurves: %v\n", err)
			os.Exit(1)
		}
		if len(curves) == 0 {
			fmt.Fprintf(os.Stderr, "motioncurves: %s has no transitions\n", *docPath)
			os.Exit(1)
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	v := &viewer{screen: screen, curves: curves}
	v.width, v.height = screen.Size()
	v.restart()
	v.run()
}

func (v *viewer) restart() {
	v.tween = v.curves[v.index].tr.Tween(0, 1)
	v.value, v.done = 0, false
}

func (v *viewer) run() {
	ticker := time.NewTicker(frameTime)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			events <- v.screen.PollEvent()
		}
	}()

	for {
		select {
		case ev := <-events:
			if !v.handleInput(ev) {
				return
			}
		case <-ticker.C:
			if !v.done {
				v.value, v.done = v.tween.Update(float32(frameTime.Seconds()))
			}
			v.draw()
		}
	}
}

func (v *viewer) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC:
			return false
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
			return false
		case ev.Key() == tcell.KeyRight:
			v.index = (v.index + 1) % len(v.curves)
			v.restart()
		case ev.Key() == tcell.KeyLeft:
			v.index = (v.index + len(v.curves) - 1) % len(v.curves)
			v.restart()
		case ev.Key() == tcell.KeyRune && ev.Rune() == ' ':
			v.restart()
		}
	case *tcell.EventResize:
		v.width, v.height = v.screen.Size()
		v.screen.Sync()
	}
	return true
}

func (v *viewer) draw() {
	v.screen.Clear()
	c := v.curves[v.index]

	header := fmt.Sprintf("%d/%d  %s  (%.2fs)", v.index+1, len(v.curves), c.name, c.tr.DurationOrDefault())
	if c.tr.Ease.IsSpring() {
		header = fmt.Sprintf("%d/%d  %s  (settles in %.2fs)", v.index+1, len(v.curves), c.name, c.tr.Ease.Spring.SettleTime())
	}
	v.text(0, 0, header, tcell.StyleDefault.Foreground(tcell.ColorYellow))
	v.text(0, v.height-1, "left/right: curve  space: replay  q: quit", tcell.StyleDefault.Foreground(tcell.ColorGray))

	plotW, plotH := v.width-2, v.height-5
	if plotW < 2 || plotH < 2 {
		v.screen.Show()
		return
	}
	axis := tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	for y := 0; y < plotH; y++ {
		v.screen.SetContent(0, 2+y, '│', nil, axis)
	}
	line := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	for x, row := range plot(c.tr.Ease, plotW, plotH) {
		v.screen.SetContent(1+x, 2+row, '•', nil, line)
	}

	// Progress bar driven by the gween tween.
	barW := plotW
	lo, hi := plotRange(c.tr.Ease, plotW*4)
	pos := int((float64(v.value) - lo) / (hi - lo) * float64(barW-1))
	pos = max(0, min(barW-1, pos))
	bar := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	for x := 0; x < barW; x++ {
		r := '─'
		st := axis
		if x == pos {
			r, st = '█', bar
		}
		v.screen.SetContent(1+x, v.height-2, r, nil, st)
	}
	v.screen.Show()
}

func (v *viewer) text(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		if x >= v.width {
			return
		}
		v.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
