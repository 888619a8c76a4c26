package termui

import (
	"context"
	"strings"
	"testing"

	"github.com/ralim/studybook/book"
	"github.com/ralim/studybook/i18n"
	"github.com/ralim/studybook/router"
	"github.com/rivo/tview"
)

func newTestUI(t *testing.T, fragment string) (*TermUI, *book.Book, *router.Location) {
	t.Helper()
	catalog, err := i18n.NewCatalog(i18n.NewEmbeddedSource(), "en")
	if err != nil {
		t.Fatal(err)
	}
	if err := catalog.Activate(context.Background(), "en"); err != nil {
		t.Fatal(err)
	}
	loc := router.NewLocation(fragment)
	b := book.New(catalog, loc, 5)
	r := router.New(loc, b.Routes()...)
	r.Start()
	ui, err := NewTermUI(b, loc, []string{"en", "de"})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		ui.Close()
		r.Close()
		b.Close()
	})
	return ui, b, loc
}

func TestTermUI_RoutesBetweenPages(t *testing.T) {
	ui, b, loc := newTestUI(t, "")
	if ui.CurrentPage() != pageContent {
		t.Errorf("expected content page, got %s", ui.CurrentPage())
	}
	loc.Navigate("/nowhere")
	if ui.CurrentPage() != pageNotFound {
		t.Errorf("expected not found page, got %s", ui.CurrentPage())
	}
	b.Next()
	if ui.CurrentPage() != pageContent {
		t.Errorf("expected content page again, got %s", ui.CurrentPage())
	}
	if ui.address.GetText() != "/book/page/2" {
		t.Errorf("address bar should follow the location, got %q", ui.address.GetText())
	}
}

func TestTermUI_HeaderFollowsCells(t *testing.T) {
	ui, b, loc := newTestUI(t, "/book/page/2")
	if ui.header.pages.Text != "2 / 5" {
		t.Errorf("expected 2 / 5, got %q", ui.header.pages.Text)
	}
	loc.Navigate("/book/page/5")
	if ui.header.pages.Text != "5 / 5" {
		t.Errorf("expected 5 / 5, got %q", ui.header.pages.Text)
	}
	if ui.header.progress.Text != strings.Repeat("█", progressWidth) {
		t.Error("progress should be full on the last page")
	}

	b.SetLanguage("de")
	b.Settle()
	if ui.header.title.Text != "Titel des Lehrbuchs" {
		t.Errorf("title should be translated, got %q", ui.header.title.Text)
	}
	if ui.header.language.Text != "de" {
		t.Errorf("language should be shown, got %q", ui.header.language.Text)
	}
	if ui.content.next.GetLabel() != "Weiter" {
		t.Errorf("buttons should be translated, got %q", ui.content.next.GetLabel())
	}
}

func TestTermUI_NextLanguage(t *testing.T) {
	ui, _, _ := newTestUI(t, "")
	if ui.nextLanguage() != "de" {
		t.Error("should cycle to the next language")
	}
}

func TestCellElement(t *testing.T) {
	ui := &TermUI{}
	cell := tview.NewTableCell("")
	el := &CellElement{ui: ui, cell: cell}
	el.SetTextContent("[red]hi")
	if cell.Text != tview.Escape("[red]hi") {
		t.Errorf("text content should be escaped, got %q", cell.Text)
	}
	el.SetMarkup("[red]hi")
	if cell.Text != "[red]hi" {
		t.Errorf("markup should be kept, got %q", cell.Text)
	}
}

func TestProgressBar(t *testing.T) {
	t.Parallel()
	if ProgressBar(0, 10) != strings.Repeat("░", progressWidth) {
		t.Error("empty progress")
	}
	half := ProgressBar(5, 10)
	if strings.Count(half, "█") != progressWidth/2 {
		t.Errorf("half progress wrong: %s", half)
	}
	if ProgressBar(20, 10) != strings.Repeat("█", progressWidth) {
		t.Error("progress should be clamped")
	}
	if ProgressBar(1, 0) == "" {
		t.Error("zero total should not panic")
	}
	if PageNumbers(1, 3) != "1 / 3" {
		t.Error("page numbers format")
	}
}

func TestTermUI_NextLanguageAfterUpperCaseCode(t *testing.T) {
	ui, b, _ := newTestUI(t, "")
	ui.languages = []string{"en", "de", "fr"}
	b.SetLanguage("DE")
	b.Settle()
	if next := ui.nextLanguage(); next != "fr" {
		t.Errorf("expected fr after de, got %s", next)
	}
}
