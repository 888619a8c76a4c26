package termui

import (
	"fmt"
	"strings"

	"github.com/ralim/studybook/book"
	"github.com/rivo/tview"
)

// Header is the info panel at the top of the screen: book title, page
// numbers, a progress bar and the active language

const progressWidth = 20

type Header struct {
	table *tview.Table

	title    *tview.TableCell
	pages    *tview.TableCell
	progress *tview.TableCell
	language *tview.TableCell

	labelLanguage *tview.TableCell
}

func newHeader() *Header {
	h := &Header{}

	h.table = tview.NewTable()
	h.table.SetBorders(true)
	h.table.SetTitle("Study Book")
	h.table.SetFixed(0, 1)

	h.title = tview.NewTableCell("").SetExpansion(1)
	h.pages = tview.NewTableCell("")
	h.progress = tview.NewTableCell("")
	h.labelLanguage = tview.NewTableCell("")
	h.language = tview.NewTableCell("")

	h.table.SetCell(0, 0, h.title)
	h.table.SetCell(0, 1, h.pages)
	h.table.SetCell(0, 2, h.progress)
	h.table.SetCell(0, 3, h.labelLanguage)
	h.table.SetCell(0, 4, h.language)
	return h
}

// PageNumbers formats the position in the book, e.g. "1 / 3"
func PageNumbers(current, total int) string {
	return fmt.Sprintf("%d / %d", current, total)
}

// ProgressBar draws the reading progress as a bar of fixed width
func ProgressBar(current, total int) string {
	if total < 1 {
		total = 1
	}
	filled := current * progressWidth / total
	if filled < 0 {
		filled = 0
	}
	if filled > progressWidth {
		filled = progressWidth
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", progressWidth-filled)
}

// bind connects the header to the book state
func (h *Header) bind(t *TermUI, b *book.Book) {
	t.track(b.Title, b.Title.BindElement(&CellElement{ui: t, cell: h.title}, true))
	t.track(b.Language, b.Language.BindElement(&CellElement{ui: t, cell: h.language}, true))

	redrawPages := func(int, int) {
		current, total := b.CurrentPage.Value(), b.TotalPages.Value()
		t.queue(func() {
			h.pages.SetText(PageNumbers(current, total))
			h.progress.SetText(ProgressBar(current, total))
		})
	}
	t.track(b.CurrentPage, b.CurrentPage.Subscribe(redrawPages))
	t.track(b.TotalPages, b.TotalPages.Subscribe(redrawPages))

	h.title.SetText(tview.Escape(b.Title.Value()))
	h.language.SetText(tview.Escape(b.Language.Value()))
	redrawPages(0, 0)
}

func (h *Header) translate(t *TermUI, b *book.Book) {
	label := tview.Escape(b.Catalog().Text("ApplicationHeader.Language"))
	t.queue(func() {
		h.labelLanguage.SetText(label)
	})
}
