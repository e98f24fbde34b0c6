// Package app hosts the selection viewer in an ebiten window.
package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/sqweek/dialog"

	"ocrselect/internal/config"
	"ocrselect/internal/geom"
	"ocrselect/internal/layout"
	"ocrselect/internal/logging"
	"ocrselect/internal/ocr"
	"ocrselect/internal/platform"
	"ocrselect/internal/render"
	"ocrselect/internal/translate"
	"ocrselect/internal/ui"
	"ocrselect/internal/viewer"
)

const keyHint = "Drag to select   Ctrl+C copy   T translate   Ctrl+O open   Esc clear"

type ocrResult struct {
	seq    int
	blocks []ocr.Block
	cached bool
	err    error
}

type App struct {
	cfg   *config.Config
	log   *logging.Logger
	theme ui.Theme
	fonts *layout.FontBank

	viewer   *viewer.Viewer
	provider ocr.Provider

	frameBuffer *render.FrameBuffer
	canvas      *ebiten.Image

	path      string
	source    image.Image
	display   image.Image
	displayAt image.Point
	fitted    geom.Rect

	ocrSeq    int
	ocrDone   chan ocrResult
	ocrCancel context.CancelFunc

	status  string
	focused bool
	pressed bool
	lastX   int
	lastY   int

	touching bool
	touchID  ebiten.TouchID
	touchX   int
	touchY   int
	touchBuf []ebiten.TouchID

	screenW int
	screenH int
}

func New(cfg *config.Config, log *logging.Logger) *App {
	if log == nil {
		log = logging.Nop()
	}
	a := &App{
		cfg:      cfg,
		log:      log,
		theme:    ui.DefaultTheme(),
		fonts:    layout.NewFontBank(),
		provider: ocr.NewTesseract(cfg.OCRLanguage),
		ocrDone:  make(chan ocrResult, 1),
		status:   "Open an image with Ctrl+O",
		focused:  true,
	}

	var overlay *translate.Overlay
	if cfg.TranslationEnabled() {
		svc := translate.NewHTTPService(cfg.TranslateURL, cfg.TranslateKey, cfg.TranslateModel, cfg.TranslateTimeout, log.Named("translate"))
		overlay = translate.NewOverlay(svc, translate.DefaultRetryPolicy(cfg.RetryBaseDelay),
			translate.Languages{Source: cfg.SourceLanguage, Target: cfg.TargetLanguage}, log.Named("overlay"))
	} else {
		log.Info("Translation disabled, no API key configured")
	}

	a.viewer = viewer.New(viewer.DefaultOptions(), viewer.Deps{
		Measurer:   a.fonts,
		Faces:      a.fonts,
		Style:      a.theme.SelectionStyle(),
		Clipboard:  platform.NewSystemClipboard(),
		Translator: overlay,
		Notifier:   a,
		Logger:     log.Named("viewer"),
	})
	return a
}

// Open loads an image and starts recognition in the background.
func (a *App) Open(path string) error {
	path = filepath.Clean(path)
	img, err := ocr.Open(path)
	if err != nil {
		return err
	}
	if a.ocrCancel != nil {
		a.ocrCancel()
	}
	a.path = path
	a.source = img
	a.fitted = geom.Rect{}
	a.viewer.SetRecognizedText(nil)
	a.status = "Recognizing " + filepath.Base(path) + "..."

	a.ocrSeq++
	seq := a.ocrSeq
	ctx, cancel := context.WithCancel(context.Background())
	a.ocrCancel = cancel
	go func() {
		blocks, cached, err := ocr.LoadOrRecognize(ctx, a.provider, path, img)
		select {
		case a.ocrDone <- ocrResult{seq: seq, blocks: blocks, cached: cached, err: err}:
		case <-ctx.Done():
		}
	}()
	a.log.Info("Opened image", "path", path, "width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return nil
}

func (a *App) Run() error {
	ebiten.SetWindowTitle("OCR Select")
	ebiten.SetWindowSize(1280, 800)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSizeLimits(480, 360, -1, -1)
	defer a.shutdown()
	if err := ebiten.RunGame(a); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("run game loop: %w", err)
	}
	return nil
}

func (a *App) Update() error {
	now := time.Now()
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)

	a.trackFocus(now)
	a.collectOCR()
	a.refit()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		if a.viewer.Selection().Active {
			a.viewer.ClearSelection()
		} else {
			return ebiten.Termination
		}
	}
	if ctrl && inpututil.IsKeyJustPressed(ebiten.KeyO) {
		a.openDialog()
	}
	if ctrl && inpututil.IsKeyJustPressed(ebiten.KeyC) {
		if err := a.viewer.CopySelection(); err != nil {
			a.status = "Copy failed: " + err.Error()
		}
	}
	if !ctrl && inpututil.IsKeyJustPressed(ebiten.KeyT) {
		a.viewer.ToggleTranslation()
	}

	a.pumpPointer(now)
	a.viewer.Update(now)
	return nil
}

func (a *App) Draw(screen *ebiten.Image) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	switch {
	case a.frameBuffer == nil:
		a.frameBuffer = render.NewFrameBuffer(w, h)
		a.canvas = ebiten.NewImage(w, h)
	case a.frameBuffer.W != w || a.frameBuffer.H != h:
		a.frameBuffer.Resize(w, h)
		a.canvas = ebiten.NewImage(w, h)
	}

	ui.DrawShell(a.frameBuffer, a.fonts, a.title(), a.status, a.theme, 1)
	if a.display != nil {
		a.frameBuffer.DrawImage(a.display, a.displayAt.X, a.displayAt.Y)
	}
	a.viewer.Draw(a.frameBuffer)

	a.canvas.WritePixels(a.frameBuffer.Pixels)
	screen.DrawImage(a.canvas, nil)

	face := a.fonts.Face(a.theme.BarFontSize - 2)
	adv := a.fonts.MeasureString(a.theme.BarFontSize-2, keyHint)
	l := ui.ComputeLayout(w, h, a.theme, 1)
	text.Draw(screen, keyHint, face, w-int(adv)-12, l.TopBarH/2+5, a.theme.TopBarText)
}

func (a *App) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	if outsideWidth < 480 {
		outsideWidth = 480
	}
	if outsideHeight < 360 {
		outsideHeight = 360
	}
	a.screenW = outsideWidth
	a.screenH = outsideHeight
	return outsideWidth, outsideHeight
}

// Notify shows msg in the status bar.
func (a *App) Notify(msg string) {
	a.status = msg
}

// Alert shows msg in a modal dialog.
func (a *App) Alert(title, msg string) {
	a.status = title
	d := dialog.Message("%s", msg).Title(title)
	if strings.Contains(strings.ToLower(title), "failed") {
		d.Error()
		return
	}
	d.Info()
}

func (a *App) title() string {
	if a.path == "" {
		return "OCR Select"
	}
	return "OCR Select - " + filepath.Base(a.path)
}

func (a *App) openDialog() {
	path, err := dialog.File().Filter("Images", "png", "jpg", "jpeg", "gif", "bmp", "tif", "tiff").Load()
	if err != nil {
		if !errors.Is(err, dialog.ErrCancelled) {
			a.status = "Open failed: " + err.Error()
		}
		return
	}
	if err := a.Open(path); err != nil {
		a.status = "Open failed: " + err.Error()
	}
}

func (a *App) collectOCR() {
	select {
	case res := <-a.ocrDone:
		if res.seq != a.ocrSeq {
			return
		}
		if res.err != nil {
			a.log.Error("Recognition failed", "path", a.path, "error", res.err)
			a.status = "Recognition failed: " + res.err.Error()
			return
		}
		a.viewer.SetRecognizedText(res.blocks)
		src := "recognized"
		if res.cached {
			src = "loaded from sidecar"
		}
		a.status = fmt.Sprintf("%d lines %s", ocr.LineCount(res.blocks), src)
	default:
	}
}

// refit recomputes the display image and transform when the canvas or the
// image changes.
func (a *App) refit() {
	if a.source == nil {
		return
	}
	w, h := a.viewportSize()
	canvas := ui.ComputeLayout(w, h, a.theme, 1).Canvas
	if canvas == a.fitted {
		return
	}
	a.fitted = canvas

	b := a.source.Bounds()
	tr := geom.FitCenter(b.Dx(), b.Dy(), canvas)
	dw := int(math.Round(float64(b.Dx()) * tr.ScaleX))
	dh := int(math.Round(float64(b.Dy()) * tr.ScaleY))
	if dw <= 0 || dh <= 0 {
		return
	}
	a.display = imaging.Resize(a.source, dw, dh, imaging.Lanczos)
	a.displayAt = image.Pt(int(math.Round(tr.TranslateX)), int(math.Round(tr.TranslateY)))
	tr.TranslateX = float64(a.displayAt.X)
	tr.TranslateY = float64(a.displayAt.Y)
	tr.ScaleX = float64(dw) / float64(b.Dx())
	tr.ScaleY = float64(dh) / float64(b.Dy())

	a.viewer.SetSurface(canvas)
	a.viewer.SetTransform(tr)
}

func (a *App) trackFocus(now time.Time) {
	focused := ebiten.IsFocused()
	if focused == a.focused {
		return
	}
	a.focused = focused
	if !focused && a.pressed {
		a.pressed = false
		a.viewer.HandlePointer(platform.Cancel(float64(a.lastX), float64(a.lastY), now))
	}
	if !focused && a.touching {
		a.touching = false
		a.viewer.HandlePointer(platform.Cancel(float64(a.touchX), float64(a.touchY), now))
	}
	a.viewer.OnFocusChanged(focused, now)
}

func (a *App) pumpPointer(now time.Time) {
	if a.pumpTouch(now) {
		return
	}
	x, y := ebiten.CursorPosition()
	fx, fy := float64(x), float64(y)
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		a.pressed = true
		a.viewer.HandlePointer(platform.Down(fx, fy, now))
	case a.pressed && inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		a.pressed = false
		a.viewer.HandlePointer(platform.Up(fx, fy, now))
	case a.pressed && (x != a.lastX || y != a.lastY):
		a.viewer.HandlePointer(platform.Move(fx, fy, now))
	}
	a.lastX, a.lastY = x, y
}

// pumpTouch follows the first finger down and ignores the rest. It reports
// whether touch input was handled this tick.
func (a *App) pumpTouch(now time.Time) bool {
	if a.touching {
		if inpututil.IsTouchJustReleased(a.touchID) {
			a.touching = false
			a.viewer.HandlePointer(platform.Up(float64(a.touchX), float64(a.touchY), now))
			return true
		}
		x, y := ebiten.TouchPosition(a.touchID)
		if x != a.touchX || y != a.touchY {
			a.touchX, a.touchY = x, y
			a.viewer.HandlePointer(platform.Move(float64(x), float64(y), now))
		}
		return true
	}
	a.touchBuf = inpututil.AppendJustPressedTouchIDs(a.touchBuf[:0])
	if len(a.touchBuf) == 0 {
		return false
	}
	a.touching = true
	a.touchID = a.touchBuf[0]
	a.touchX, a.touchY = ebiten.TouchPosition(a.touchID)
	a.viewer.HandlePointer(platform.Down(float64(a.touchX), float64(a.touchY), now))
	return true
}

func (a *App) viewportSize() (int, int) {
	if a.screenW > 0 && a.screenH > 0 {
		return a.screenW, a.screenH
	}
	w, h := ebiten.WindowSize()
	if w <= 0 {
		w = 1280
	}
	if h <= 0 {
		h = 800
	}
	return w, h
}

func (a *App) shutdown() {
	if a.ocrCancel != nil {
		a.ocrCancel()
	}
	a.viewer.Close()
}

var _ platform.Notifier = (*App)(nil)
