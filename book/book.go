package book

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ralim/studybook/i18n"
	"github.com/ralim/studybook/observable"
	"github.com/ralim/studybook/router"
	"github.com/rs/zerolog/log"
)

var ErrBadPage = errors.New("unknown page")

// Page names used by the application frame
const (
	PageContent  = "BookContentPage"
	PageNotFound = "NotFoundPage"
)

// Book is the application state of the open study book. It is created once
// at startup and handed to every component that needs it.
type Book struct {
	Title       *observable.Cell[string]
	CurrentPage *observable.Cell[int]
	TotalPages  *observable.Cell[int]
	Language    *observable.Cell[string]
	// Page is the name of the page the frame shows
	Page *observable.Cell[string]
	// Missing is the path of the last fragment no page exists for
	Missing *observable.Cell[string]

	catalog  *i18n.Catalog
	location *router.Location
	ctx      context.Context
	cancel   context.CancelFunc

	languageListener observable.ID
}

// New creates the book state. The catalogue must already have a language active.
func New(catalog *i18n.Catalog, location *router.Location, totalPages int) *Book {
	ctx, cancel := context.WithCancel(context.Background())
	b := &Book{
		Title:       observable.New(catalog.Text("StudyBook.Title")),
		CurrentPage: observable.New(1),
		TotalPages:  observable.New(totalPages),
		Language:    observable.New(catalog.Language()),
		Page:        observable.New(PageContent),
		Missing:     observable.New(""),
		catalog:     catalog,
		location:    location,
		ctx:         ctx,
		cancel:      cancel,
	}

	b.CurrentPage.AddValidator(func(newValue, oldValue int) bool {
		return newValue >= 1 && newValue <= b.TotalPages.Value()
	})
	b.TotalPages.AddValidator(func(newValue, oldValue int) bool {
		return newValue >= 1
	})
	b.Language.AddValidator(func(newValue, oldValue string) bool {
		_, err := i18n.CanonicalCode(newValue)
		return err == nil
	})
	b.languageListener = b.Language.SubscribeAsync(b.languageChanged)
	return b
}

// Catalog returns the message catalogue the book was created with
func (b *Book) Catalog() *i18n.Catalog {
	return b.catalog
}

// ParsePage validates a page number taken from the URL
func (b *Book) ParsePage(page string) (int, error) {
	number, err := strconv.Atoi(strings.TrimSpace(page))
	if err != nil || number < 1 || number > b.TotalPages.Value() {
		return 0, fmt.Errorf("%w: %s", ErrBadPage, page)
	}
	return number, nil
}

// PageURL is the fragment showing the given page
func PageURL(page int) string {
	return fmt.Sprintf("/book/page/%d", page)
}

// GotoPage shows the given page and updates the URL accordingly. It is called
// by the router and by any component that wants to change the page. Invalid
// pages are logged and ignored.
func (b *Book) GotoPage(page string) error {
	number, err := b.ParsePage(page)
	if err != nil {
		log.Error().Str("page", page).Msg("Unknown page")
		return err
	}
	b.location.Navigate(PageURL(number))
	if b.Page.Value() != PageContent {
		b.Page.Set(PageContent)
	}
	if b.CurrentPage.Value() != number {
		b.CurrentPage.Set(number)
	}
	return nil
}

// Next goes to the following page if there is one
func (b *Book) Next() {
	if page := b.CurrentPage.Value(); page < b.TotalPages.Value() {
		_ = b.GotoPage(strconv.Itoa(page + 1))
	}
}

// Previous goes to the preceding page if there is one
func (b *Book) Previous() {
	if page := b.CurrentPage.Value(); page > 1 {
		_ = b.GotoPage(strconv.Itoa(page - 1))
	}
}

// ShowNotFound switches the frame to the not found page
func (b *Book) ShowNotFound(path string) {
	b.Missing.Set(path)
	b.Page.Set(PageNotFound)
}

// SetLanguage requests another language. The code is stored in its
// canonical form, e.g. "DE" becomes "de". The catalogue is rebuilt in the
// background; Settle waits for it.
func (b *Book) SetLanguage(code string) {
	canonical, err := i18n.CanonicalCode(code)
	if err != nil {
		log.Error().Err(err).Msg("Invalid language code")
		return
	}
	b.Language.Set(canonical)
}

// Settle waits until pending language switches have been applied
func (b *Book) Settle() {
	b.Language.Settle()
}

func (b *Book) languageChanged(newValue, oldValue string) {
	if err := b.catalog.Activate(b.ctx, newValue); err != nil {
		return
	}
	b.Title.Set(b.catalog.Text("StudyBook.Title"))
}

// Routes is the route table of the application
func (b *Book) Routes() []router.Route {
	return []router.Route{
		// Redirect to the first page
		router.MustRoute("^/$", func(m router.Match) {
			_ = b.GotoPage("1")
		}),
		// Show requested book page
		router.MustRoute("^/book/page/(.*)$", func(m router.Match) {
			_ = b.GotoPage(m.Capture(0))
		}),
		// Everything else is a 404
		router.MustRoute(".*", func(m router.Match) {
			b.ShowNotFound(m.NewFragment)
		}),
	}
}

// Close stops background work and drops the book's own subscriptions
func (b *Book) Close() {
	b.cancel()
	b.Language.Unsubscribe(b.languageListener)
	b.Settle()
}
