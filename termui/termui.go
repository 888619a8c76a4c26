package termui

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/ralim/studybook/book"
	"github.com/ralim/studybook/i18n"
	"github.com/ralim/studybook/observable"
	"github.com/ralim/studybook/router"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"
)

// TermUI is the console front end of the study book
// It shows the book header and the routed page, with the logs redirected to the side

type unsubscriber interface {
	Unsubscribe(id observable.ID)
}

type subscription struct {
	source unsubscriber
	id     observable.ID
}

type TermUI struct {
	sync.Mutex
	app     *tview.Application
	running bool

	//Logger points to this
	LogsView *tview.TextView

	book      *book.Book
	location  *router.Location
	languages []string

	header   *Header
	pages    *tview.Pages
	content  *contentPage
	notFound *notFoundPage
	address  *tview.InputField
	help     *tview.TextView

	views         *router.Views
	routeViews    []*router.View
	fallback      *router.View
	subscriptions []subscription
	locationID    observable.ID
}

// NewTermUI builds the UI for the book, languages is the list the language key cycles through
func NewTermUI(b *book.Book, location *router.Location, languages []string) (*TermUI, error) {

	t := &TermUI{
		book:      b,
		location:  location,
		languages: languages,
		views:     router.NewViews(location),
	}
	t.app = tview.NewApplication()

	//Logs stream

	t.LogsView = tview.NewTextView()
	t.LogsView.SetText("Loading...\n")
	t.LogsView.SetTextAlign(tview.AlignLeft)
	t.LogsView.SetDynamicColors(true)
	t.LogsView.SetChangedFunc(func() {
		if t.isRunning() {
			t.app.Draw()
		}
	})
	t.LogsView.SetMaxLines(4096)
	t.LogsView.SetWrap(false)
	t.LogsView.SetTitle("Logs")
	t.LogsView.SetBorder(true)

	//Header

	t.header = newHeader()
	t.header.bind(t, b)

	//Pages

	t.content = newContentPage(t, b)
	t.notFound = newNotFoundPage(t, b)
	t.pages = tview.NewPages()
	t.pages.AddPage(pageEmpty, tview.NewBox(), true, true)
	t.pages.AddPage(pageContent, t.content.root, true, false)
	t.pages.AddPage(pageNotFound, t.notFound.root, true, false)

	//Address bar

	t.address = tview.NewInputField()
	t.address.SetLabel("#")
	t.address.SetText(location.Fragment())
	t.address.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter {
			fragment := t.address.GetText()
			go t.location.Navigate(fragment)
		}
		t.app.SetFocus(t.pages)
	})
	t.locationID = location.OnChange(func(oldFragment, newFragment string) {
		t.queue(func() {
			t.address.SetText(newFragment)
		})
	})

	t.help = tview.NewTextView()
	t.help.SetTextAlign(tview.AlignCenter)

	//Language dependent labels follow the title, which is updated once a new catalogue is active
	t.track(b.Title, b.Title.Subscribe(func(newValue, oldValue string) {
		t.translate()
	}))
	t.translate()

	// Grid

	grid := tview.NewGrid()
	grid.SetRows(3, 1, -1, 1)
	grid.SetColumns(-2, -1)
	grid.SetBorders(false)

	// Grid contents

	grid.AddItem(t.header.table, 0, 0, 1, 2, 0, 0, false)
	grid.AddItem(t.address, 1, 0, 1, 2, 0, 0, false)
	grid.AddItem(t.pages, 2, 0, 1, 1, 0, 0, true)
	grid.AddItem(t.LogsView, 2, 1, 1, 1, 0, 0, false)
	grid.AddItem(t.help, 3, 0, 1, 2, 0, 0, false)

	t.app.SetInputCapture(t.handleKey)
	t.app.SetRoot(grid, true)
	t.app.SetFocus(t.pages)

	if err := t.mountRoutes(); err != nil {
		return nil, err
	}
	t.views.Start()
	return t, nil
}

// Run blocks until the UI is closed
func (t *TermUI) Run() error {
	t.Lock()
	t.running = true
	t.Unlock()
	err := t.app.Run()
	t.Lock()
	t.running = false
	t.Unlock()
	return err
}

func (t *TermUI) Stop() {
	t.app.Stop()
}

// Close detaches the UI from the book and the location
func (t *TermUI) Close() {
	t.views.Close()
	for _, v := range t.routeViews {
		t.views.Unmount(v)
	}
	t.location.Remove(t.locationID)
	t.Lock()
	subscriptions := t.subscriptions
	t.subscriptions = nil
	t.Unlock()
	for _, s := range subscriptions {
		s.source.Unsubscribe(s.id)
	}
}

// CurrentPage is the name of the page in front
func (t *TermUI) CurrentPage() string {
	name, _ := t.pages.GetFrontPage()
	return name
}

func (t *TermUI) track(source unsubscriber, id observable.ID) {
	t.Lock()
	defer t.Unlock()
	t.subscriptions = append(t.subscriptions, subscription{source: source, id: id})
}

func (t *TermUI) isRunning() bool {
	t.Lock()
	defer t.Unlock()
	return t.running
}

// queue applies changes to primitives on the UI goroutine once the app runs.
// Must not be called from the UI goroutine itself while running.
func (t *TermUI) queue(fn func()) {
	if t.isRunning() {
		t.app.QueueUpdateDraw(fn)
		return
	}
	fn()
}

func (t *TermUI) translate() {
	t.header.translate(t, t.book)
	help := t.book.Catalog().Text("ApplicationHeader.Help")
	t.queue(func() {
		t.help.SetText(help)
	})
	t.content.render(t, t.book)
	if t.fallback != nil && t.fallback.Show() {
		t.notFound.render(t.book)
	}
}

func (t *TermUI) nextLanguage() string {
	if len(t.languages) == 0 {
		return t.book.Language.Value()
	}
	current, _ := i18n.CanonicalCode(t.book.Language.Value())
	for i, code := range t.languages {
		if canonical, _ := i18n.CanonicalCode(code); canonical == current {
			return t.languages[(i+1)%len(t.languages)]
		}
	}
	return t.languages[0]
}

// handleKey runs on the UI goroutine, anything touching the book is started
// in its own goroutine as its observers queue UI updates
func (t *TermUI) handleKey(event *tcell.EventKey) *tcell.EventKey {
	if t.address.HasFocus() {
		return event
	}
	switch event.Key() {
	case tcell.KeyRight:
		go t.book.Next()
		return nil
	case tcell.KeyLeft:
		go t.book.Previous()
		return nil
	case tcell.KeyRune:
	default:
		return event
	}

	switch event.Rune() {
	case 'n':
		go t.book.Next()
	case 'p':
		go t.book.Previous()
	case 'h':
		go t.location.Navigate("/")
	case '4':
		go t.location.Navigate("/404")
	case 'l':
		next := t.nextLanguage()
		go func() {
			log.Info().Str("language", next).Msg("Switching language")
			t.book.SetLanguage(next)
		}()
	case '/':
		t.app.SetFocus(t.address)
	case 'q':
		t.app.Stop()
	default:
		return event
	}
	return nil
}
