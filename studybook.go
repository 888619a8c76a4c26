package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"

	"github.com/ralim/studybook/book"
	"github.com/ralim/studybook/i18n"
	"github.com/ralim/studybook/router"
	"github.com/ralim/studybook/settings"
	"github.com/ralim/studybook/termui"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"
)

type StudyBook struct {
	ConfigFilePath string `flag:"config" help:"Path to config file"`
	Language       string `flag:"lang" help:"Language to start in, overrides the config file"`
	Fragment       string `flag:"fragment" help:"URL fragment to open, e.g. /book/page/3"`
	NoCUI          bool   `flag:"noCUI" help:"Disable the Console UI, route the fragment and print the state"`

	settings *settings.Settings `flag:"-"`
	catalog  *i18n.Catalog      `flag:"-"`
	location *router.Location   `flag:"-"`
	router   *router.Router     `flag:"-"`
	book     *book.Book         `flag:"-"`
	ui       *termui.TermUI     `flag:"-"`
}

func NewStudyBook() *StudyBook {
	return &StudyBook{}
}

func (m *StudyBook) Run() error {
	settingsPath := "./config.json"
	if m.ConfigFilePath != "" {
		settingsPath = m.ConfigFilePath
	}
	m.settings = settings.NewSettings(settingsPath)
	m.settings.SetupLogging(os.Stdout)

	if err := m.setup(); err != nil {
		return err
	}
	defer m.close()

	if m.NoCUI {
		m.printState()
		return nil
	}

	var err error
	m.ui, err = termui.NewTermUI(m.book, m.location, m.languages())
	if err != nil {
		return fmt.Errorf("cant create UI - %w", err)
	}
	m.settings.SetupLogging(tview.ANSIWriter(m.ui.LogsView))

	uiExit := make(chan error, 1)
	go func() {
		uiExit <- m.ui.Run()
	}()
	//Run hook listener for ctrl-c
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	defer signal.Stop(c)

	select {
	case err = <-uiExit:
	case <-c:
		m.ui.Stop()
		err = <-uiExit
	}

	//Rediect logs back to terminal since UI has exited
	m.settings.SetupLogging(os.Stdout)
	log.Info().Msg("UI closed, shutting down")
	return err
}

// setup loads the catalogues and wires the book to the router
func (m *StudyBook) setup() error {
	ctx := context.Background()
	source := i18n.ChainSource{
		&i18n.DirSource{Folder: m.settings.LanguagesFolder},
		i18n.NewEmbeddedSource(),
	}
	catalog, err := i18n.NewCatalog(source, m.settings.FallbackLanguage)
	if err != nil {
		return err
	}
	if err := i18n.LoadOverrides(ctx, catalog, m.settings.CustomLanguagesFolder); err != nil {
		return err
	}

	language := m.settings.DefaultLanguage
	if m.Language != "" {
		language = m.Language
	}
	if err := catalog.Activate(ctx, language); err != nil {
		log.Warn().Err(err).Str("language", language).Msg("Falling back to the master language")
		if err := catalog.Activate(ctx, catalog.Fallback()); err != nil {
			return fmt.Errorf("cant load the master language - %w", err)
		}
	}
	m.catalog = catalog

	fragment := m.settings.StartFragment
	if m.Fragment != "" {
		fragment = m.Fragment
	}
	m.location = router.NewLocation(fragment)
	m.book = book.New(catalog, m.location, m.settings.TotalPages)
	m.router = router.New(m.location, m.book.Routes()...)
	m.router.Start()
	return nil
}

// languages is every language a catalogue can be found for
func (m *StudyBook) languages() []string {
	seen := map[string]bool{}
	codes := []string{}
	dir := &i18n.DirSource{Folder: m.settings.LanguagesFolder}
	for _, list := range [][]string{i18n.NewEmbeddedSource().Languages(), dir.Languages()} {
		for _, code := range list {
			if !seen[code] {
				seen[code] = true
				codes = append(codes, code)
			}
		}
	}
	sort.Strings(codes)
	return codes
}

func (m *StudyBook) printState() {
	log.Info().
		Str("title", m.book.Title.Value()).
		Str("language", m.book.Language.Value()).
		Str("fragment", m.location.Fragment()).
		Str("page", m.book.Page.Value()).
		Int("current", m.book.CurrentPage.Value()).
		Int("total", m.book.TotalPages.Value()).
		Str("missing", m.book.Missing.Value()).
		Msg("Study book state")
}

func (m *StudyBook) close() {
	if m.ui != nil {
		m.ui.Close()
	}
	if m.router != nil {
		m.router.Close()
	}
	if m.book != nil {
		m.book.Close()
	}
}
