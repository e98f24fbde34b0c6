// Package viewer ties layout, selection, menu, translation and rendering
// into the surface a host window drives.
package viewer

import (
	"fmt"
	"time"

	"ocrselect/internal/geom"
	"ocrselect/internal/layout"
	"ocrselect/internal/logging"
	"ocrselect/internal/menu"
	"ocrselect/internal/ocr"
	"ocrselect/internal/platform"
	"ocrselect/internal/render"
	"ocrselect/internal/selection"
	"ocrselect/internal/translate"
)

type Options struct {
	Layout    layout.Options
	Gesture   selection.Config
	Menu      menu.Options
	FabSize   float64
	FabMargin float64
}

func DefaultOptions() Options {
	return Options{
		Layout:    layout.DefaultOptions(),
		Gesture:   selection.DefaultConfig(),
		Menu:      menu.DefaultOptions(),
		FabSize:   56,
		FabMargin: 32,
	}
}

// Deps are the collaborators a Viewer draws on. Translator and Notifier may
// be nil.
type Deps struct {
	Measurer   layout.Measurer
	Faces      render.FaceSource
	Style      render.Style
	Clipboard  platform.Clipboard
	Translator *translate.Overlay
	Notifier   platform.Notifier
	Logger     *logging.Logger
}

type Viewer struct {
	opts Options
	log  *logging.Logger

	engine   *layout.Engine
	blocks   []ocr.Block
	tr       geom.Transform
	surface  geom.Rect
	result   layout.Result
	ctrl     *selection.Controller
	menu     *menu.Presenter
	overlay  *translate.Overlay
	clip     platform.Clipboard
	notifier platform.Notifier
	renderer *render.SelectionRenderer
}

func New(opts Options, deps Deps) *Viewer {
	log := deps.Logger
	if log == nil {
		log = logging.Nop()
	}
	clip := deps.Clipboard
	if clip == nil {
		clip = &platform.MemoryClipboard{}
	}
	m := menu.NewPresenter(opts.Menu, log.Named("menu"))
	return &Viewer{
		opts:     opts,
		log:      log,
		engine:   layout.NewEngine(deps.Measurer, opts.Layout),
		tr:       geom.Identity(),
		menu:     m,
		ctrl:     selection.NewController(opts.Gesture, m, log.Named("gesture")),
		overlay:  deps.Translator,
		clip:     clip,
		notifier: deps.Notifier,
		renderer: render.NewSelectionRenderer(deps.Faces, deps.Style),
	}
}

// SetRecognizedText replaces the OCR result and rebuilds every word.
func (v *Viewer) SetRecognizedText(blocks []ocr.Block) {
	v.blocks = blocks
	v.relayout()
}

// SetTransform updates the source-to-screen mapping and rebuilds every word.
func (v *Viewer) SetTransform(tr geom.Transform) {
	if !tr.Valid() {
		v.log.Warn("Ignoring invalid transform", "transform", fmt.Sprintf("%+v", tr))
		return
	}
	v.tr = tr
	v.relayout()
}

// SetSurface sets the drawable area used for menu and button placement.
func (v *Viewer) SetSurface(r geom.Rect) {
	v.surface = r
	v.menu.SetSurface(r)
}

func (v *Viewer) relayout() {
	v.result = v.engine.Layout(v.blocks, v.tr)
	for _, s := range v.result.Skipped {
		v.log.Debug("Skipped OCR line", "block", s.Block, "line", s.Line, "reason", string(s.Reason))
	}
	v.ctrl.SetWords(v.result.Words)
	if v.overlay != nil {
		v.overlay.Reset()
	}
	v.log.Debug("Layout rebuilt", "words", len(v.result.Words), "lines", len(v.result.Lines))
}

func (v *Viewer) Words() []layout.Word           { return v.result.Words }
func (v *Viewer) Lines() []layout.LineBackground { return v.result.Lines }
func (v *Viewer) Selection() selection.Selection { return v.ctrl.Selection() }
func (v *Viewer) SelectedText() string           { return v.ctrl.SelectedText() }
func (v *Viewer) GestureState() selection.State  { return v.ctrl.State() }
func (v *Viewer) MenuShown() bool                { return v.menu.Shown() }
func (v *Viewer) MenuButtons() []menu.Button     { return v.menu.Buttons() }
func (v *Viewer) TranslationEnabled() bool       { return v.overlay != nil && v.overlay.Enabled() }
func (v *Viewer) TranslationPending() bool       { return v.overlay != nil && v.overlay.Pending() }

// OnFocusChanged forwards host focus changes so a deferred menu can show.
func (v *Viewer) OnFocusChanged(focused bool, now time.Time) {
	v.menu.OnFocusChanged(focused, now)
}

// ClearSelection drops the selection and hides the menu.
func (v *Viewer) ClearSelection() { v.ctrl.Clear() }

// HandlePointer routes one pointer event and reports whether it was
// consumed. Unconsumed events are for the host.
func (v *Viewer) HandlePointer(ev platform.PointerEvent) bool {
	if ev.Action == platform.PointerDown {
		p := ev.Point()
		if a, ok := v.menu.ActionAt(p); ok {
			v.runAction(a)
			return true
		}
		if v.fabVisible() && v.fabBounds().Contains(p) {
			v.ToggleTranslation()
			return true
		}
	}
	return v.ctrl.HandleEvent(ev)
}

// CopySelection copies the selected text to the clipboard.
func (v *Viewer) CopySelection() error {
	text := v.ctrl.SelectedText()
	if text == "" {
		return nil
	}
	if err := v.clip.WriteText(text); err != nil {
		return fmt.Errorf("copy selection: %w", err)
	}
	v.notify("Text copied to clipboard")
	return nil
}

// ToggleTranslation switches the overlay between original and translated
// text.
func (v *Viewer) ToggleTranslation() {
	if v.overlay == nil {
		v.notify("Translation is not configured")
		return
	}
	if v.overlay.Toggle(v.result.Words) {
		v.ctrl.Refresh()
		return
	}
	if v.overlay.Pending() {
		v.notify("Translating...")
	}
}

// Update advances timers and applies finished translations. Call once per
// frame on the UI goroutine.
func (v *Viewer) Update(now time.Time) {
	v.menu.Tick(now)
	if v.overlay == nil {
		return
	}
	for _, ev := range v.overlay.Poll(v.result.Words) {
		switch ev.Kind {
		case translate.EventTranslated:
			v.ctrl.Refresh()
		case translate.EventSelectionTranslated:
			v.alert("Translation", ev.Text)
		case translate.EventFailed:
			v.alert("Translation failed", ev.Err.Error())
		case translate.EventRetrying:
			v.notify(ev.Text)
		}
	}
}

// Scene snapshots what the overlay should draw this frame.
func (v *Viewer) Scene() render.Scene {
	s := render.Scene{
		Lines:       v.result.Lines,
		Words:       v.result.Words,
		Highlighted: v.ctrl.Includes,
	}
	if v.ctrl.HandlesVisible() {
		for _, r := range []selection.Role{selection.RoleStart, selection.RoleEnd} {
			s.Handles = append(s.Handles, render.HandleView{Center: v.ctrl.HandlePosition(r), Radius: v.opts.Gesture.HandleRadius})
		}
	}
	if v.menu.Shown() {
		mv := &render.MenuView{Bounds: v.menu.Bounds()}
		for _, b := range v.menu.Buttons() {
			mv.Buttons = append(mv.Buttons, render.ButtonView{Rect: b.Rect, Label: b.Action.Label()})
		}
		s.Menu = mv
	}
	if v.fabVisible() {
		s.Fab = &render.FabView{
			Center: v.fabBounds().Center(),
			Radius: v.opts.FabSize / 2,
			Active: v.overlay.Enabled(),
			Busy:   v.overlay.Pending(),
		}
	}
	return s
}

func (v *Viewer) Draw(fb *render.FrameBuffer) {
	v.renderer.Draw(fb, v.Scene())
}

func (v *Viewer) Close() {
	if v.overlay != nil {
		v.overlay.Close()
	}
}

func (v *Viewer) runAction(a menu.Action) {
	text := v.ctrl.SelectedText()
	switch a {
	case menu.ActionCopy:
		if err := v.clip.WriteText(text); err != nil {
			v.log.Error("Copy failed", "error", err)
			v.notify("Copy failed")
		} else {
			v.notify("Text copied to clipboard")
		}
	case menu.ActionTranslate:
		switch {
		case v.overlay == nil:
			v.notify("Translation is not configured")
		case v.overlay.TranslateSelection(text):
			v.notify("Translating...")
		default:
			v.notify("Translation is busy, try again")
		}
	case menu.ActionShare:
		v.notify("Share is coming soon")
	}
	v.ctrl.Clear()
}

func (v *Viewer) fabVisible() bool {
	return v.overlay != nil && len(v.result.Words) > 0 && !v.surface.Empty()
}

func (v *Viewer) fabBounds() geom.Rect {
	s := v.opts.FabSize
	right := v.surface.Right - v.opts.FabMargin
	bottom := v.surface.Bottom - v.opts.FabMargin
	return geom.Rect{Left: right - s, Top: bottom - s, Right: right, Bottom: bottom}
}

func (v *Viewer) notify(msg string) {
	v.log.Info("Notice", "message", msg)
	if v.notifier != nil {
		v.notifier.Notify(msg)
	}
}

func (v *Viewer) alert(title, msg string) {
	v.log.Info("Alert", "title", title, "message", msg)
	if v.notifier != nil {
		v.notifier.Alert(title, msg)
	}
}
