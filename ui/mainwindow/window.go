// Package mainwindow provides the main application window.
package mainwindow

import (
	"context"
	"fmt"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"stylemark/internal/annotation"
	"stylemark/internal/annotator"
	"stylemark/internal/app"
	"stylemark/internal/gesture"
	"stylemark/internal/upload"
	"stylemark/internal/version"
	"stylemark/pkg/colorutil"
	"stylemark/ui/canvas"
	"stylemark/ui/dialogs"
	"stylemark/ui/prefs"
)

const prefKeyLastDir = "lastDirectory"

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app   fyne.App
	log   zerolog.Logger
	state *app.State
	prefs *prefs.Prefs

	uploadCfg upload.Config

	// Session state, nil until a photo is opened.
	session *annotator.Session
	canvas  *canvas.AnnotatorCanvas

	canvasArea *fyne.Container
	toolBar    *fyne.Container
	statusBar  *widget.Label
}

// New creates a new main window.
func New(fyneApp fyne.App, log zerolog.Logger, state *app.State, uploadCfg upload.Config) *MainWindow {
	win := fyneApp.NewWindow("StyleMark")

	mw := &MainWindow{
		Window:    win,
		app:       fyneApp,
		log:       log,
		state:     state,
		prefs:     prefs.Load(),
		uploadCfg: uploadCfg,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.statusBar = widget.NewLabel("Open a photo to start annotating")
	mw.toolBar = container.NewHBox()
	mw.canvasArea = container.NewStack(
		container.NewCenter(widget.NewLabel("No photo open")),
	)

	content := container.NewBorder(
		mw.toolBar,                        // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		mw.canvasArea,                     // center
	)
	mw.SetContent(content)
	mw.Resize(fyne.NewSize(1100, 800))
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Photo...", mw.onOpenPhoto),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Scan Upload Target...", mw.onScanTarget),
		fyne.NewMenuItem("Upload Last Saved", mw.onUpload),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", mw.onUndo),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Clear All Annotations", mw.onClearAll),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", func() { mw.withCanvas(func(c *canvas.AnnotatorCanvas) { c.ZoomIn() }) }),
		fyne.NewMenuItem("Zoom Out", func() { mw.withCanvas(func(c *canvas.AnnotatorCanvas) { c.ZoomOut() }) }),
		fyne.NewMenuItem("Fit to Window", func() { mw.withCanvas(func(c *canvas.AnnotatorCanvas) { c.FitToView() }) }),
		fyne.NewMenuItem("Actual Size", func() { mw.withCanvas(func(c *canvas.AnnotatorCanvas) { c.SetZoom(1.0) }) }),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, viewMenu, helpMenu))
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventTargetScanned, func(data interface{}) {
		if t, ok := data.(upload.Target); ok {
			mw.setStatus(fmt.Sprintf("Upload target set: style %s", t.StyleID))
		}
	})
	mw.state.On(app.EventSetSaved, func(data interface{}) {
		if set, ok := data.(*annotation.Set); ok {
			mw.setStatus(fmt.Sprintf("Saved %d annotations", set.Count()))
		}
	})
}

func (mw *MainWindow) withCanvas(fn func(*canvas.AnnotatorCanvas)) {
	if mw.canvas != nil {
		fn(mw.canvas)
	}
}

func (mw *MainWindow) setStatus(msg string) {
	mw.statusBar.SetText(msg)
}

// onOpenPhoto opens a photo and starts an annotation session over it.
func (mw *MainWindow) onOpenPhoto() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()

		mw.prefs.SetString(prefKeyLastDir, filepath.Dir(path))
		_ = mw.prefs.Save()

		mw.openSession(path)
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".png", ".jpg", ".jpeg", ".tif", ".tiff"}))
	if dir := mw.prefs.String(prefKeyLastDir); dir != "" {
		if lister, err := storage.ListerForURI(storage.NewFileURI(dir)); err == nil {
			fd.SetLocation(lister)
		}
	}
	fd.Show()
}

// OpenPhotoPath opens a photo directly, bypassing the file dialog.
// Used for photos given on the command line.
func (mw *MainWindow) OpenPhotoPath(path string) {
	mw.openSession(path)
}

func (mw *MainWindow) openSession(path string) {
	initial, err := mw.state.OpenPhoto(path)
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	p := mw.state.CurrentPhoto()

	prompter := dialogs.NewFynePrompter(mw.Window)
	mw.session = annotator.Open(mw.log, p, initial, prompter, annotator.Callbacks{
		OnSave: mw.state.RecordSave,
		OnClose: func() {
			mw.setStatus("Session closed")
		},
	}, annotator.Options{MaxThumbnailDim: 1600})

	mw.canvas = canvas.NewAnnotatorCanvas(
		p.Image,
		mw.session.Store(),
		mw.session.Machine(),
		mw.session.Renderer(),
	)

	mw.rebuildToolbar()
	mw.canvasArea.Objects = []fyne.CanvasObject{mw.canvas.Container()}
	mw.canvasArea.Refresh()

	mw.SetTitle("StyleMark - " + filepath.Base(path))
	mw.setStatus(fmt.Sprintf("Opened %s (%d annotations)", filepath.Base(path), initial.Count()))
}

// rebuildToolbar populates the mode buttons and session actions.
func (mw *MainWindow) rebuildToolbar() {
	modes := []struct {
		label string
		mode  gesture.Mode
	}{
		{"Draw", gesture.ModeDraw},
		{"Text", gesture.ModeText},
		{"Tick", gesture.ModeTick},
		{"Cross", gesture.ModeCross},
		{"Rect", gesture.ModeRectangle},
		{"Measure", gesture.ModeMeasure},
		{"Compare", gesture.ModeCompare},
		{"Move", gesture.ModeSelect},
		{"Delete", gesture.ModeDelete},
	}

	items := []fyne.CanvasObject{}
	for _, m := range modes {
		mode := m.mode
		items = append(items, widget.NewButton(m.label, func() {
			mw.session.SetMode(mode)
			mw.setStatus("Mode: " + mode.String())
		}))
	}

	colorSelect := widget.NewSelect(colorNames(), func(name string) {
		for i, n := range colorNames() {
			if n == name {
				mw.session.Machine().SetColor(colorutil.ToHex(colorutil.Palette[i]))
				return
			}
		}
	})
	colorSelect.SetSelectedIndex(0)

	items = append(items,
		widget.NewSeparator(),
		colorSelect,
		widget.NewSeparator(),
		widget.NewButton("Undo", mw.onUndo),
		widget.NewButton("Clear", mw.onClearAll),
		widget.NewButton("Save", mw.onSave),
		widget.NewButton("Cancel", mw.onCancel),
	)

	mw.toolBar.Objects = items
	mw.toolBar.Refresh()
}

func colorNames() []string {
	return []string{"Red", "Green", "Blue", "Yellow", "Magenta", "Black", "White"}
}

func (mw *MainWindow) onUndo() {
	if mw.session == nil {
		return
	}
	if !mw.session.Undo() {
		mw.setStatus("Nothing to undo")
	}
}

func (mw *MainWindow) onClearAll() {
	if mw.session == nil {
		return
	}
	dialogs.ConfirmClear(mw.Window, func() {
		mw.session.ClearAll()
		mw.setStatus("Cleared all annotations")
	})
}

func (mw *MainWindow) onSave() {
	if mw.session == nil {
		return
	}
	if err := mw.session.Save(); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onCancel() {
	if mw.session == nil {
		return
	}
	mw.session.Cancel()
	mw.session = nil
	mw.canvas = nil
	mw.canvasArea.Objects = []fyne.CanvasObject{
		container.NewCenter(widget.NewLabel("No photo open")),
	}
	mw.canvasArea.Refresh()
	mw.SetTitle("StyleMark")
}

// onScanTarget captures an upload target from a QR payload.
func (mw *MainWindow) onScanTarget() {
	dialogs.ScanTarget(mw.Window, func(payload string, ok bool) {
		if !ok || payload == "" {
			return
		}
		target, err := upload.ParseTarget(payload)
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.state.SetTarget(mw.uploadCfg.Apply(target))
	})
}

// onUpload sends the last saved annotation set to the scanned target.
func (mw *MainWindow) onUpload() {
	target, ok := mw.state.CurrentTarget()
	if !ok {
		dialog.ShowInformation("No Target", "Scan an upload target first.", mw.Window)
		return
	}
	set := mw.state.LastSavedSet()
	if set == nil {
		dialog.ShowInformation("Nothing to Upload", "Save an annotated photo first.", mw.Window)
		return
	}

	client := upload.NewClient(mw.log, mw.uploadCfg.Timeout)
	mw.setStatus("Uploading...")
	go func() {
		if err := client.UploadPhoto(context.Background(), target, set); err != nil {
			dialog.ShowError(err, mw.Window)
			mw.setStatus("Upload failed")
			return
		}
		mw.state.Emit(app.EventUploadComplete, target)
		mw.setStatus("Upload complete")
	}()
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About StyleMark",
		fmt.Sprintf("StyleMark %s\nGarment photo annotation\nBuilt %s (%s)",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
