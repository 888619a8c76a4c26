package termui

import (
	"github.com/ralim/studybook/observable"
	"github.com/rivo/tview"
)

// Adapters so cells can be bound straight onto tview primitives.
// Escaped content has its [style] tags neutralised, markup is passed to tview as is.

var (
	_ observable.Element = (*TextElement)(nil)
	_ observable.Element = (*CellElement)(nil)
)

type TextElement struct {
	ui   *TermUI
	view *tview.TextView
}

func (e *TextElement) SetTextContent(text string) {
	e.SetMarkup(tview.Escape(text))
}

func (e *TextElement) SetMarkup(markup string) {
	e.ui.queue(func() {
		e.view.SetText(markup)
	})
}

type CellElement struct {
	ui   *TermUI
	cell *tview.TableCell
}

func (e *CellElement) SetTextContent(text string) {
	e.SetMarkup(tview.Escape(text))
}

func (e *CellElement) SetMarkup(markup string) {
	e.ui.queue(func() {
		e.cell.SetText(markup)
	})
}
