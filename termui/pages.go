package termui

import (
	"github.com/ralim/studybook/book"
	"github.com/ralim/studybook/router"
	"github.com/rivo/tview"
)

const (
	pageContent  = "content"
	pageNotFound = "notfound"
	pageEmpty    = "empty"
)

// contentPage previews the current book page with buttons to flip pages
type contentPage struct {
	root     *tview.Flex
	preview  *tview.TextView
	previous *tview.Button
	next     *tview.Button
}

func newContentPage(t *TermUI, b *book.Book) *contentPage {
	p := &contentPage{}
	p.preview = tview.NewTextView()
	p.preview.SetTextAlign(tview.AlignCenter)
	p.preview.SetDynamicColors(true)
	p.preview.SetBorder(true)

	// Button handlers run on the UI goroutine, cell observers queue draws, so hop off it
	p.previous = tview.NewButton("").SetSelectedFunc(func() { go b.Previous() })
	p.next = tview.NewButton("").SetSelectedFunc(func() { go b.Next() })

	buttons := tview.NewFlex().
		AddItem(p.previous, 0, 1, false).
		AddItem(nil, 1, 0, false).
		AddItem(p.next, 0, 1, false)

	p.root = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(p.preview, 0, 1, false).
		AddItem(buttons, 1, 0, false)

	redraw := func(int, int) { p.render(t, b) }
	t.track(b.CurrentPage, b.CurrentPage.Subscribe(redraw))
	t.track(b.TotalPages, b.TotalPages.Subscribe(redraw))
	return p
}

// render rewrites everything that depends on the page number or the language
func (p *contentPage) render(t *TermUI, b *book.Book) {
	catalog := b.Catalog()
	text := catalog.T("BookContentPage.Page", map[string]any{
		"page":  b.CurrentPage.Value(),
		"total": b.TotalPages.Value(),
	})
	previous := catalog.Text("BookContentPage.Button.Previous")
	next := catalog.Text("BookContentPage.Button.Next")
	t.queue(func() {
		p.preview.SetText(tview.Escape(text))
		p.previous.SetLabel(previous)
		p.next.SetLabel(next)
	})
}

// notFoundPage explains that the requested path doesn't exist
type notFoundPage struct {
	root    *tview.TextView
	message *TextElement
}

func newNotFoundPage(t *TermUI, b *book.Book) *notFoundPage {
	p := &notFoundPage{}
	p.root = tview.NewTextView()
	p.root.SetDynamicColors(true)
	p.root.SetWordWrap(true)
	p.root.SetBorder(true)
	p.message = &TextElement{ui: t, view: p.root}

	t.track(b.Missing, b.Missing.Subscribe(func(newValue, oldValue string) {
		p.render(b)
	}))
	return p
}

// render uses the catalogue texts as markup, they are trusted, but the path is user input
func (p *notFoundPage) render(b *book.Book) {
	catalog := b.Catalog()
	values := map[string]any{"url": tview.Escape(b.Missing.Value())}
	p.message.SetMarkup("[::b]" + tview.Escape(catalog.Text("Error404.Title")) + "[::-]\n\n" +
		catalog.T("Error404.Message1", values) + "\n\n" +
		catalog.T("Error404.Message2", values) + "\n\n" +
		"4: " + catalog.Text("Error404.TriggerLink"))
}

// mountRoutes registers the route views switching between the pages
func (t *TermUI) mountRoutes() error {
	content, err := router.NewView("^/(book/page/.*)?$", func(show bool) {
		if show {
			t.content.render(t, t.book)
			t.switchTo(pageContent)
		} else {
			t.switchTo(pageEmpty)
		}
	})
	if err != nil {
		return err
	}
	// page changes are rendered by the page itself
	content.Rerender = false

	fallback, err := router.NewView("", func(show bool) {
		if show {
			t.notFound.render(t.book)
			t.switchTo(pageNotFound)
		}
	})
	if err != nil {
		return err
	}

	t.views.Mount(content)
	t.views.Mount(fallback)
	t.routeViews = []*router.View{content, fallback}
	t.fallback = fallback
	return nil
}

func (t *TermUI) switchTo(name string) {
	t.queue(func() {
		t.pages.SwitchToPage(name)
	})
}
