package view

import (
	"bytes"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/logrusorgru/aurora"

	"cellworld/src/universe"
	"cellworld/src/worldfile"
)

const (
	delayStep = 50 * time.Millisecond
)

type keyBindings struct {
	key      interface{}
	name     string
	descr    string
	handler  func(v *gocui.View) error
	viewName string
}

//UIOptions are the ConsoleUI settings which are not part of the universe options
type UIOptions struct {
	WorldFile string  //file reloaded by the L key
	Output    string  //file written by the O key
	Seed      int64   //seed of the first random fill
	Density   float64 //density of the random fill
}

type ConsoleUI struct {
	u    universe.Universe
	g    *gocui.Gui
	k    []keyBindings
	opts UIOptions

	mu      sync.Mutex
	frame   universe.Frame
	message string
	quit    bool

	liveFiller string
	deadFiller string
}

var (
	runningStateDescr = map[universe.RunningState]string{
		universe.RunningStateStopped:  aurora.Colorize("stopped", aurora.BlueFg).String(),
		universe.RunningStateRun:      aurora.Colorize("running", aurora.CyanFg).String(),
		universe.RunningStateFinished: aurora.Colorize("finished", aurora.RedFg).String(),
	}
)

func NewViewTerminal(opts UIOptions) *ConsoleUI {

	var err error
	t := ConsoleUI{
		opts:       opts,
		liveFiller: aurora.Green("█").BgBrightGreen().String(),
		deadFiller: "░",
	}

	t.g, err = gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		log.Panicln(err)
	}

	t.g.Mouse = true
	t.k = []keyBindings{
		{gocui.KeyCtrlC, "^C", "Exit", t.cmdQuit, ""},
		{'r', "R", "Run", t.cmdRun, ""},
		{'s', "S", "Stop", t.cmdStop, ""},
		{'n', "N", "Next step", t.cmdNextRound, ""},
		{'x', "X", "Reset", t.cmdReset, ""},
		{'c', "C", "Clear", t.cmdClear, ""},
		{'w', "W", "Random", t.cmdSettleWithRandom, ""},
		{'+', "+", "Slower", t.cmdSlower, ""},
		{'-', "-", "Faster", t.cmdFaster, ""},
		{']', "]", "Grow", t.cmdGrow, ""},
		{'[', "[", "Shrink", t.cmdShrink, ""},
		{'o', "O", "Save", t.cmdSave, ""},
		{'l', "L", "Load", t.cmdLoad, ""},
		{gocui.MouseLeft, "MOUSE", "Toggle the cell", t.cmdMouseClick, "battlefield"},
	}
	t.g.SetManagerFunc(t.layout)

	t.initKeyBindings(t.k)

	return &t
}

func (t *ConsoleUI) initKeyBindings(k []keyBindings) {
	for _, kb := range k {
		h := kb.handler
		if err := t.g.SetKeybinding(kb.viewName, kb.key, gocui.ModNone, func(gui *gocui.Gui, view *gocui.View) error { return h(view) }); err != nil {
			log.Panicln(err)
		}
	}
}

func (t *ConsoleUI) Register(u universe.Universe) {
	t.u = u
}

//Start runs the terminal main loop until the user quits
//the simulation is stopped before the terminal is released
func (t *ConsoleUI) Start() {
	err := t.g.MainLoop()
	t.mu.Lock()
	t.quit = true
	t.mu.Unlock()
	if t.u != nil {
		_ = t.u.Stop()
	}
	t.g.Close()
	if err != nil && err != gocui.ErrQuit {
		log.Panicln(err)
	}
}

//update queues f to the gui goroutine, nothing is queued once the main loop has exited
func (t *ConsoleUI) update(f func(g *gocui.Gui) error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.quit {
		return
	}
	t.g.Update(f)
}

//Refresh is called from the simulation loop, the drawing itself happens in the gui goroutine
func (t *ConsoleUI) Refresh(f universe.Frame) {
	t.mu.Lock()
	t.frame = f
	t.mu.Unlock()
	t.update(func(g *gocui.Gui) error {
		t.renderField()
		t.renderConfiguration()
		t.renderStatus()
		return nil
	})
}

func (t *ConsoleUI) lastFrame() universe.Frame {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.frame
}

//report stores the message shown in the status panel
func (t *ConsoleUI) report(err error, format string, args ...interface{}) {
	t.mu.Lock()
	if err != nil {
		t.message = aurora.Red(err.Error()).String()
	} else {
		t.message = fmt.Sprintf(format, args...)
	}
	t.mu.Unlock()
	t.update(func(g *gocui.Gui) error {
		t.renderStatus()
		return nil
	})
}

func (t *ConsoleUI) renderField() {
	v, e := t.g.View("battlefield")
	if e != nil {
		return
	}
	a := t.lastFrame().Grid
	//the entire field is redrawing at once
	v.Clear()

	crop := false
	maxW, maxH := v.Size()
	if a.Size > maxW || a.Size > maxH {
		crop = true
	}

	var b bytes.Buffer

	for i, l := range a.Cells {
		//discard the data outside the view area
		if i >= maxH {
			break
		}
		//line feed char
		if i != 0 {
			b.WriteByte(10)
		}
		if crop && i == (maxH-1) {
			b.WriteString(aurora.Red("The field size is larger than the viewing area").BgBlack().String())
			break
		}
		for j, e := range l {
			if j >= maxW {
				break
			}
			if e == universe.Alive {
				b.WriteString(t.liveFiller)
			} else {
				b.WriteString(t.deadFiller)
			}
		}
	}
	_, _ = fmt.Fprint(v, b.String())
}

func (t *ConsoleUI) renderStatus() {
	v, e := t.g.View("status")
	if e != nil {
		return
	}
	f := t.lastFrame()
	t.mu.Lock()
	msg := t.message
	t.mu.Unlock()
	v.Clear()
	_, _ = fmt.Fprintln(v, t.renderProp("Generation", "%06d", f.TickCount))
	_, _ = fmt.Fprintln(v, t.renderProp("Population", "%06d", f.Population))
	_, _ = fmt.Fprintln(v, t.renderProp("Evaluation time", "%v", f.TickTime.Round(time.Microsecond)))
	_, _ = fmt.Fprintln(v, t.renderProp("Mode", "%v", runningStateDescr[f.RunningMode]))
	if msg != "" {
		_, _ = fmt.Fprintln(v, " "+msg)
	}
}

func (t *ConsoleUI) renderConfiguration() {
	v, e := t.g.View("configuration")
	if e != nil {
		return
	}
	f := t.lastFrame()
	c := t.u.Options()
	v.Clear()
	_, _ = fmt.Fprintln(v, t.renderProp("Dimension", "%v x %v", f.Size, f.Size))
	_, _ = fmt.Fprintln(v, t.renderProp("Delay", "%v", f.Delay))
	_, _ = fmt.Fprintln(v, t.renderProp("Rules", "%v", c.Rules))
	_, _ = fmt.Fprintln(v, t.renderProp("Engine", "%v", c.Engine))
	if c.MaxTicks > 0 {
		_, _ = fmt.Fprintln(v, t.renderProp("Iterations", "%v steps", c.MaxTicks))
	}
}

func (t *ConsoleUI) renderProp(name string, valueformat string, values ...interface{}) string {
	return fmt.Sprintf(" "+aurora.Colorize(name, aurora.GreenFg).String()+": "+valueformat, values...)
}

func (t *ConsoleUI) layout(g *gocui.Gui) error {

	maxX, maxY := g.Size()
	leftColumnWidth := 28
	minWindowHeight := 20

	if maxY < minWindowHeight {
		if _, err := t.headerLayout(g, maxY, "Terminal height too small"); err != nil {
			if err != gocui.ErrUnknownView {
				return err
			}
		}
		_ = g.DeleteView("configuration")
		_ = g.DeleteView("status")
		_ = g.DeleteView("battlefield")
		return nil

	} else {
		if _, err := t.headerLayout(g, 3, "Cell World"); err != nil {
			if err != gocui.ErrUnknownView {
				return err
			}
		}
	}

	if v, err := g.SetView("configuration", 0, 3, leftColumnWidth, 3+(maxY-5-3)/2); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Configuration"
		v.Frame = true
	}
	t.renderConfiguration()

	if v, err := g.SetView("status", 0, 3+(maxY-5-3)/2+1, leftColumnWidth, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Status"
		v.Frame = true
	}
	t.renderStatus()

	if v, err := g.SetView("battlefield", leftColumnWidth+1, 3, maxX-1, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "World"
		v.Frame = true
	}
	t.renderField()

	if v, err := g.SetView("help", -1, maxY-5, maxX, maxY-1); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Frame = false
		v.Wrap = true
		b := bytes.Buffer{}
		b.WriteString("KEYBINDINGS: ")
		for i, k := range t.k {
			if i != 0 {
				b.WriteString(", ")
			}
			b.WriteString(aurora.Green(k.name).String())
			b.WriteString(": ")
			b.WriteString(k.descr)
		}
		_, _ = fmt.Fprintln(v, b.String())
	}

	return nil
}

func (t *ConsoleUI) headerLayout(g *gocui.Gui, height int, text string) (v *gocui.View, err error) {
	maxX, _ := g.Size()
	if v, err = g.SetView("header", -1, -1, maxX+1, height); err != nil {
		if err == gocui.ErrUnknownView && v != nil {
			v.Frame = false
			v.BgColor = gocui.ColorCyan
			v.FgColor = gocui.ColorBlack
		}
	}
	if v != nil {
		v.Clear()
		if maxX < len(text) {
			text = text[:maxX]
		}
		_, _ = fmt.Fprintln(v, strings.Repeat("\n", height/2+1)+strings.Repeat(" ", (maxX-len(text))/2)+text)
	}
	return
}

func (t *ConsoleUI) cmdQuit(_ *gocui.View) error {
	return gocui.ErrQuit
}

func (t *ConsoleUI) cmdNextRound(_ *gocui.View) error {
	t.report(t.u.Step(), "")
	return nil
}

func (t *ConsoleUI) cmdRun(_ *gocui.View) error {
	t.report(t.u.Start(), "")
	return nil
}

func (t *ConsoleUI) cmdStop(_ *gocui.View) error {
	t.report(t.u.Stop(), "")
	return nil
}

func (t *ConsoleUI) cmdReset(_ *gocui.View) error {
	t.report(t.u.Reset(), "reset to the initial world")
	return nil
}

func (t *ConsoleUI) cmdClear(_ *gocui.View) error {
	t.report(t.u.Clear(), "")
	return nil
}

func (t *ConsoleUI) cmdSettleWithRandom(_ *gocui.View) error {
	err := t.u.Randomize(t.opts.Seed, t.opts.Density)
	t.opts.Seed++
	t.report(err, "")
	return nil
}

func (t *ConsoleUI) cmdSlower(_ *gocui.View) error {
	t.report(t.u.SetDelay(t.u.Status().Delay+delayStep), "")
	return nil
}

func (t *ConsoleUI) cmdFaster(_ *gocui.View) error {
	t.report(t.u.SetDelay(t.u.Status().Delay-delayStep), "")
	return nil
}

func (t *ConsoleUI) cmdGrow(_ *gocui.View) error {
	t.report(t.u.Resize(t.u.Status().Size+1), "")
	return nil
}

func (t *ConsoleUI) cmdShrink(_ *gocui.View) error {
	t.report(t.u.Resize(t.u.Status().Size-1), "")
	return nil
}

func (t *ConsoleUI) cmdSave(_ *gocui.View) error {
	if t.opts.Output == "" {
		t.report(nil, "no output file, use -o")
		return nil
	}
	name, err := worldfile.Save(t.opts.Output, t.u.Snapshot())
	t.report(err, "saved to %s", name)
	return nil
}

func (t *ConsoleUI) cmdLoad(_ *gocui.View) error {
	if t.opts.WorldFile == "" {
		t.report(nil, "no world file given")
		return nil
	}
	rows, err := worldfile.Load(t.opts.WorldFile)
	if err == nil {
		err = t.u.LoadWorld(rows)
	}
	t.report(err, "loaded %s", t.opts.WorldFile)
	return nil
}

func (t *ConsoleUI) cmdMouseClick(v *gocui.View) error {
	cx, cy := v.Cursor()
	t.report(t.u.InvertCellState(cx, cy), "")
	return nil
}
