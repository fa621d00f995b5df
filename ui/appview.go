package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"sitecheck/model"
)

// viewMode selects which top-level screen is drawn.
type viewMode int

const (
	modeLogin viewMode = iota
	modeMain
)

// focusArea selects which widget on the main screen receives keys.
type focusArea int

const (
	focusURL focusArea = iota
	focusSteps
	focusChat
)

// loginField tracks which input of the login form is active.
type loginField int

const (
	fieldEmail loginField = iota
	fieldPassword
)

// loginState holds the transient state of the login screen.
type loginState struct {
	emailInput    textinput.Model
	passwordInput textinput.Model
	field         loginField
	registerMode  bool
	remember      bool
	busy          bool
	errMsg        string
}

// AppView is the root bubbletea model. It owns the widgets and delegates
// all data and network concerns to the embedded data model.
type AppView struct {
	dataModel *model.Model

	viewport       viewport.Model
	chatInput      textinput.Model
	urlInput       textinput.Model
	loadingSpinner spinner.Model

	width  int
	height int
	ready  bool

	mode  viewMode
	focus focusArea
	login loginState

	stepCursor int

	// sidebar (checkup selector)
	showSidebar  bool
	sidebarIdx   int
	filterInput  textinput.Model
	filterActive bool
	filtered     []int // indexes into dataModel.Checkups

	// attach-by-path prompt
	attachInput  textinput.Model
	attachActive bool

	showHelp  bool
	statusMsg string
	healthOK  bool
	fetching  bool
}

// NewAppView creates the root view around an initialized data model.
func NewAppView(m *model.Model) *AppView {
	chatInput := textinput.New()
	chatInput.Placeholder = "Ask about this check..."
	chatInput.CharLimit = 0
	chatInput.Width = 50

	urlInput := textinput.New()
	urlInput.Placeholder = "https://example.com"
	urlInput.CharLimit = 0
	urlInput.Width = 50
	urlInput.Focus()

	emailInput := textinput.New()
	emailInput.Placeholder = "email"
	emailInput.Width = 40
	emailInput.Focus()

	passwordInput := textinput.New()
	passwordInput.Placeholder = "password"
	passwordInput.Width = 40
	passwordInput.EchoMode = textinput.EchoPassword
	passwordInput.EchoCharacter = '*'

	filterInput := textinput.New()
	filterInput.Placeholder = "filter by URL"
	filterInput.Width = 40

	attachInput := textinput.New()
	attachInput.Placeholder = "path to .png or .jpg"
	attachInput.Width = 50

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = SelectedStyle

	return &AppView{
		dataModel: m,
		chatInput: chatInput,
		urlInput:  urlInput,
		login: loginState{
			emailInput:    emailInput,
			passwordInput: passwordInput,
			remember:      true,
		},
		filterInput:    filterInput,
		attachInput:    attachInput,
		loadingSpinner: sp,
		mode:           modeLogin,
		focus:          focusURL,
		stepCursor:     -1,
	}
}

// Init kicks off the session probe and a backend health check.
func (a *AppView) Init() tea.Cmd {
	return tea.Batch(
		a.dataModel.FetchClaims(),
		a.dataModel.CheckHealth(),
		a.loadingSpinner.Tick,
	)
}

// refreshFilter recomputes the sidebar index list from the filter input.
func (a *AppView) refreshFilter() {
	a.filtered = filterCheckups(a.dataModel.Checkups, a.filterInput.Value())
	if a.sidebarIdx >= len(a.filtered) {
		a.sidebarIdx = len(a.filtered) - 1
	}
	if a.sidebarIdx < 0 {
		a.sidebarIdx = 0
	}
}
