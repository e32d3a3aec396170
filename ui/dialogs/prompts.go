// Package dialogs provides application dialogs.
package dialogs

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// FynePrompter collects annotation values through modal form dialogs.
// It satisfies the gesture machine's prompter contract: done is called
// exactly once per prompt, with ok=false on cancel.
type FynePrompter struct {
	window fyne.Window
}

// NewFynePrompter creates a prompter bound to the window.
func NewFynePrompter(window fyne.Window) *FynePrompter {
	return &FynePrompter{window: window}
}

// TextPrompt asks for a label's text.
func (p *FynePrompter) TextPrompt(done func(value string, ok bool)) {
	entry := widget.NewEntry()
	entry.SetPlaceHolder("e.g. fix collar topstitch")

	items := []*widget.FormItem{
		widget.NewFormItem("Label", entry),
	}
	dlg := dialog.NewForm("Add Label", "Add", "Cancel", items, func(confirmed bool) {
		done(entry.Text, confirmed)
	}, p.window)
	dlg.Resize(fyne.NewSize(360, 0))
	dlg.Show()
	p.window.Canvas().Focus(entry)
}

// MeasurePrompt asks for a measurement value.
func (p *FynePrompter) MeasurePrompt(done func(value string, ok bool)) {
	entry := widget.NewEntry()
	entry.SetPlaceHolder("e.g. 42 cm")

	items := []*widget.FormItem{
		widget.NewFormItem("Measurement", entry),
	}
	dlg := dialog.NewForm("Add Measurement", "Add", "Cancel", items, func(confirmed bool) {
		done(entry.Text, confirmed)
	}, p.window)
	dlg.Resize(fyne.NewSize(360, 0))
	dlg.Show()
	p.window.Canvas().Focus(entry)
}

// ComparePrompt asks for the current and target values of a comparison.
func (p *FynePrompter) ComparePrompt(done func(current, target string, ok bool)) {
	currentEntry := widget.NewEntry()
	currentEntry.SetPlaceHolder("measured, e.g. 44 cm")
	targetEntry := widget.NewEntry()
	targetEntry.SetPlaceHolder("spec, e.g. 42 cm")

	items := []*widget.FormItem{
		widget.NewFormItem("Current", currentEntry),
		widget.NewFormItem("Target", targetEntry),
	}
	dlg := dialog.NewForm("Add Comparison", "Add", "Cancel", items, func(confirmed bool) {
		done(currentEntry.Text, targetEntry.Text, confirmed)
	}, p.window)
	dlg.Resize(fyne.NewSize(360, 0))
	dlg.Show()
	p.window.Canvas().Focus(currentEntry)
}

// ConfirmClear asks before discarding every annotation.
func ConfirmClear(window fyne.Window, onConfirm func()) {
	dialog.NewConfirm(
		"Clear All Annotations",
		"Remove every annotation from this photo? This can be undone.",
		func(confirmed bool) {
			if confirmed {
				onConfirm()
			}
		},
		window,
	).Show()
}

// ScanTarget asks for a QR payload. Until a camera pipeline exists the
// payload is pasted from the scanner app.
func ScanTarget(window fyne.Window, done func(payload string, ok bool)) {
	entry := widget.NewEntry()
	entry.SetPlaceHolder("stylemark://upload?endpoint=...&style=...&token=...")

	items := []*widget.FormItem{
		widget.NewFormItem("Target", entry),
	}
	dlg := dialog.NewForm("Scan Upload Target", "Set", "Cancel", items, func(confirmed bool) {
		done(entry.Text, confirmed)
	}, window)
	dlg.Resize(fyne.NewSize(480, 0))
	dlg.Show()
	window.Canvas().Focus(entry)
}
