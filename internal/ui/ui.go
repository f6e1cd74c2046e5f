package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"lunarview/internal/location"
	"lunarview/internal/models"
	"lunarview/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	DashboardView ViewState = iota
	LocationPickerView
	FavoritesListView
	DeleteConfirmView
	SettingsView
)

// pickerTab selects the manual entry mode in the location picker.
type pickerTab int

const (
	coordinatesTab pickerTab = iota
	placeTab
)

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	view      ViewState
	orc       *tasks.Orchestrator
	favorites *tasks.FavoritesStore
	themes    *Engine
	gate      NotificationToggle
	width     int
	height    int

	favoriteList  list.Model
	entries       []models.FavoriteEntry
	pendingDelete *models.FavoriteEntry

	tab        pickerTab
	latInput   textinput.Model
	longInput  textinput.Model
	placeInput textinput.Model

	settingsCursor int
	status         string
	err            error
	help           help.Model
	keys           keyMap
}

// NotificationToggle is the slice of the notification gate the settings view
// needs.
type NotificationToggle interface {
	Preference() models.NotificationPreference
	RequestEnable(ctx context.Context) (bool, error)
	Disable() error
}

type syncDoneMsg struct {
	out tasks.Outcome
}

type favoritesFetchedMsg struct {
	entries []models.FavoriteEntry
	err     error
}

type favoriteSavedMsg struct {
	entry *models.FavoriteEntry
	err   error
}

type favoriteRemovedMsg struct {
	id  string
	err error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, orc *tasks.Orchestrator, favorites *tasks.FavoritesStore, themes *Engine, gate NotificationToggle) *Model {
	m := &Model{
		ctx:       ctx,
		view:      DashboardView,
		orc:       orc,
		favorites: favorites,
		themes:    themes,
		gate:      gate,
		help:      help.New(),
		keys:      newKeyMap(),
	}

	m.latInput = textinput.New()
	m.latInput.Placeholder = "latitude (-90 to 90)"
	m.longInput = textinput.New()
	m.longInput.Placeholder = "longitude (-180 to 180)"
	m.placeInput = textinput.New()
	m.placeInput.Placeholder = "city or place name"

	return m
}

// Init starts the first device-location sync.
func (m *Model) Init() tea.Cmd {
	return m.startSync(location.Request{Mode: location.ModeDevice})
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.favoriteList.Width() != 0 {
			m.favoriteList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.FocusMsg:
		// Terminals emit no theme-change events, so the system preference is
		// re-probed whenever focus comes back.
		if err := m.themes.ResyncSystem(); err != nil {
			m.err = err
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case DashboardView:
			return m.handleDashboardKeys(msg)
		case LocationPickerView:
			return m.handlePickerKeys(msg)
		case FavoritesListView:
			return m.handleFavoritesKeys(msg)
		case DeleteConfirmView:
			return m.handleDeleteConfirmKeys(msg)
		case SettingsView:
			return m.handleSettingsKeys(msg)
		}

	case syncDoneMsg:
		if m.orc.Apply(msg.out) {
			m.err = msg.out.Err
		}
		return m, nil

	case favoritesFetchedMsg:
		// A stale cache list may arrive with the error; show both.
		m.err = msg.err
		m.entries = msg.entries
		items := make([]list.Item, len(msg.entries))
		for i, entry := range msg.entries {
			items[i] = favoriteItem{entry: entry}
		}
		m.favoriteList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.favoriteList.Title = "Saved Locations"
		m.favoriteList.SetSize(m.width-4, m.height-8)
		return m, nil

	case favoriteSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.status = fmt.Sprintf("Saved %s", msg.entry.LocationName)
		return m, nil

	case favoriteRemovedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = FavoritesListView
			return m, nil
		}
		m.view = FavoritesListView
		return m, m.fetchFavorites()
	}

	return m.updateActive(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case DashboardView:
		return m.renderDashboard()
	case LocationPickerView:
		return m.renderPicker()
	case FavoritesListView:
		return m.renderFavorites()
	case DeleteConfirmView:
		return m.renderDeleteConfirm()
	case SettingsView:
		return m.renderSettings()
	default:
		return ""
	}
}

func (m *Model) syncing() bool {
	state := m.orc.State()
	return state == tasks.StateResolving || state == tasks.StateFetching
}

func (m *Model) handleDashboardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.refresh):
		// Refresh re-resolves the device position from scratch, it never
		// reuses the previous fix. Only honored while nothing is in flight.
		if m.syncing() {
			return m, nil
		}
		return m, m.startSync(location.Request{Mode: location.ModeDevice})

	case key.Matches(msg, m.keys.retry):
		if m.syncing() {
			return m, nil
		}
		if loc := m.orc.Location(); loc != nil {
			return m, m.startSyncAt(*loc)
		}
		return m, m.startSync(location.Request{Mode: location.ModeDevice})

	case key.Matches(msg, m.keys.picker):
		m.view = LocationPickerView
		m.tab = coordinatesTab
		m.latInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.favorites):
		m.view = FavoritesListView
		return m, m.fetchFavorites()

	case key.Matches(msg, m.keys.settings):
		m.view = SettingsView
		m.settingsCursor = 0
		return m, nil

	case key.Matches(msg, m.keys.save):
		loc := m.orc.Location()
		if loc == nil || m.favorites == nil {
			return m, nil
		}
		return m, m.saveFavorite(*loc)
	}

	return m, nil
}

func (m *Model) handlePickerKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit) && msg.String() == "ctrl+c":
		return m, tea.Quit

	case key.Matches(msg, m.keys.back):
		m.view = DashboardView
		m.blurInputs()
		return m, nil

	case key.Matches(msg, m.keys.tab):
		if m.tab == coordinatesTab {
			m.tab = placeTab
			m.blurInputs()
			m.placeInput.Focus()
		} else {
			m.tab = coordinatesTab
			m.blurInputs()
			m.latInput.Focus()
		}
		return m, textinput.Blink

	case key.Matches(msg, m.keys.enter):
		if m.tab == coordinatesTab {
			if m.latInput.Focused() {
				m.latInput.Blur()
				m.longInput.Focus()
				return m, textinput.Blink
			}
			req := location.Request{
				Mode:      location.ModeCoordinates,
				Latitude:  m.latInput.Value(),
				Longitude: m.longInput.Value(),
			}
			m.view = DashboardView
			m.blurInputs()
			return m, m.startSync(req)
		}

		req := location.Request{Mode: location.ModePlace, Place: m.placeInput.Value()}
		m.view = DashboardView
		m.blurInputs()
		return m, m.startSync(req)
	}

	return m.updateActive(msg)
}

func (m *Model) handleFavoritesKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.back):
		m.view = DashboardView
		return m, nil

	case key.Matches(msg, m.keys.enter):
		if item, ok := m.favoriteList.SelectedItem().(favoriteItem); ok {
			m.view = DashboardView
			loc := models.ResolvedLocation{
				Coordinate: item.entry.Coordinate(),
				Label:      item.entry.LocationName,
			}
			return m, m.startSyncAt(loc)
		}
		return m, nil

	case key.Matches(msg, m.keys.remove):
		if item, ok := m.favoriteList.SelectedItem().(favoriteItem); ok {
			entry := item.entry
			m.pendingDelete = &entry
			m.view = DeleteConfirmView
		}
		return m, nil
	}

	return m.updateActive(msg)
}

func (m *Model) handleDeleteConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.yes):
		if m.pendingDelete == nil {
			m.view = FavoritesListView
			return m, nil
		}
		id := m.pendingDelete.ID
		m.pendingDelete = nil
		return m, m.removeFavorite(id)

	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.back):
		m.pendingDelete = nil
		m.view = FavoritesListView
		return m, nil
	}
	return m, nil
}

func (m *Model) handleSettingsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.back):
		m.view = DashboardView
		return m, nil

	case key.Matches(msg, m.keys.up):
		if m.settingsCursor > 0 {
			m.settingsCursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.down):
		if m.settingsCursor < 2 {
			m.settingsCursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.enter):
		switch m.settingsCursor {
		case 0:
			m.err = m.themes.SetTheme(nextTheme(m.themes.State().ThemeID))
		case 1:
			m.err = m.themes.SetAutoFollowSystem(!m.themes.State().AutoFollowSystem)
		case 2:
			m.err = m.toggleNotifications()
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) toggleNotifications() error {
	if m.gate == nil {
		return nil
	}
	if m.gate.Preference().Enabled {
		return m.gate.Disable()
	}
	_, err := m.gate.RequestEnable(m.ctx)
	return err
}

func nextTheme(id models.ThemeID) models.ThemeID {
	switch id {
	case models.ThemeDark:
		return models.ThemeLight
	case models.ThemeLight:
		return models.ThemeCosmic
	default:
		return models.ThemeDark
	}
}

func (m *Model) blurInputs() {
	m.latInput.Blur()
	m.longInput.Blur()
	m.placeInput.Blur()
}

func (m *Model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case FavoritesListView:
		m.favoriteList, cmd = m.favoriteList.Update(msg)
	case LocationPickerView:
		if m.tab == coordinatesTab {
			if m.latInput.Focused() {
				m.latInput, cmd = m.latInput.Update(msg)
			} else {
				m.longInput, cmd = m.longInput.Update(msg)
			}
		} else {
			m.placeInput, cmd = m.placeInput.Update(msg)
		}
	}
	return m, cmd
}

func (m *Model) startSync(req location.Request) tea.Cmd {
	m.err = nil
	m.status = ""
	run := m.orc.Begin(req)
	return func() tea.Msg {
		return syncDoneMsg{out: run.Do(m.ctx, nil)}
	}
}

func (m *Model) startSyncAt(loc models.ResolvedLocation) tea.Cmd {
	m.err = nil
	m.status = ""
	run := m.orc.BeginAt(loc)
	return func() tea.Msg {
		return syncDoneMsg{out: run.Do(m.ctx, nil)}
	}
}

func (m *Model) fetchFavorites() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.favorites.List(m.ctx)
		return favoritesFetchedMsg{entries: entries, err: err}
	}
}

func (m *Model) saveFavorite(loc models.ResolvedLocation) tea.Cmd {
	return func() tea.Msg {
		entry, err := m.favorites.Save(m.ctx, loc)
		return favoriteSavedMsg{entry: entry, err: err}
	}
}

func (m *Model) removeFavorite(id string) tea.Cmd {
	return func() tea.Msg {
		err := m.favorites.Remove(m.ctx, id)
		return favoriteRemovedMsg{id: id, err: err}
	}
}

func (m *Model) renderDashboard() string {
	p := m.themes.Palette()
	title := p.title.Render("Lunar View")

	var body string
	switch m.orc.State() {
	case tasks.StateResolving:
		body = p.secondary.Render("Resolving location...")
	case tasks.StateFetching:
		body = p.secondary.Render("Fetching astronomy data...")
	case tasks.StateLocationFailed:
		body = p.err.Render(fmt.Sprintf("Could not determine location: %v", m.err)) +
			"\n\n" + p.help.Render("r retry device location • l enter manually")
	case tasks.StateDataFailed:
		body = p.err.Render(fmt.Sprintf("Could not fetch sky data: %v", m.err))
		if snapshot := m.orc.Snapshot(); snapshot != nil {
			body += "\n\n" + p.warn.Render("Showing previous data") + "\n" + m.renderSnapshot(snapshot)
		}
		body += "\n\n" + p.help.Render("g retry this location • r use device location • l enter manually")
	case tasks.StateReady:
		body = m.renderSnapshot(m.orc.Snapshot())
	default:
		body = p.secondary.Render("Press r to load the sky for your location.")
	}

	if m.status != "" {
		body += "\n\n" + p.ok.Render(m.status)
	}

	helpKeys := []key.Binding{m.keys.refresh, m.keys.picker, m.keys.favorites, m.keys.save, m.keys.settings, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n\n%s", title, body, helpView)
}

func (m *Model) renderSnapshot(snapshot *models.AstronomySnapshot) string {
	if snapshot == nil {
		return ""
	}
	p := m.themes.Palette()

	// The snapshot's own location, not Location(): after a data failure the
	// latter already points at the request that failed.
	label := "Unknown location"
	if loc := m.orc.SnapshotLocation(); loc != nil {
		label = loc.DisplayLabel()
	}

	content := fmt.Sprintf(
		"%s\n%s\n\n%s\n  Sunrise %s   Sunset %s\n  Solar noon %s   Day length %s\n\n%s\n  Moonrise %s   Moonset %s\n  Distance %.0f km",
		p.text.Bold(true).Render(label),
		p.secondary.Render(fmt.Sprintf("%s %s", snapshot.Date, snapshot.CurrentTime)),
		p.text.Render(fmt.Sprintf("Sun   %s", snapshot.SunStatus)),
		snapshot.Sunrise, snapshot.Sunset,
		snapshot.SolarNoon, snapshot.DayLength,
		p.text.Render(fmt.Sprintf("Moon  %s", snapshot.MoonStatus)),
		snapshot.Moonrise, snapshot.Moonset,
		snapshot.MoonDistance,
	)

	return p.card.Render(content)
}

func (m *Model) renderPicker() string {
	p := m.themes.Palette()
	title := p.title.Render("Set Location")

	var form string
	if m.tab == coordinatesTab {
		form = fmt.Sprintf("%s\n\n%s\n%s",
			p.secondary.Render("Coordinates  |  tab: search by place"),
			m.latInput.View(),
			m.longInput.View(),
		)
	} else {
		form = fmt.Sprintf("%s\n\n%s",
			p.secondary.Render("Place search  |  tab: enter coordinates"),
			m.placeInput.View(),
		)
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.tab, m.keys.back}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n\n%s", title, form, helpView)
}

func (m *Model) renderFavorites() string {
	p := m.themes.Palette()

	var errLine string
	if m.err != nil {
		errLine = "\n" + p.warn.Render(fmt.Sprintf("Offline list: %v", m.err))
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.remove, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s%s\n\n%s", m.favoriteList.View(), errLine, helpView)
}

func (m *Model) renderDeleteConfirm() string {
	p := m.themes.Palette()
	if m.pendingDelete == nil {
		return ""
	}

	title := p.title.Render(fmt.Sprintf("Remove '%s'?", m.pendingDelete.LocationName))
	info := p.secondary.Render("This cannot be undone.")

	helpKeys := []key.Binding{m.keys.yes, m.keys.no}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n\n%s", title, info, helpView)
}

func (m *Model) renderSettings() string {
	p := m.themes.Palette()
	title := p.title.Render("Settings")
	state := m.themes.State()

	notifLabel := "off"
	if m.gate != nil && m.gate.Preference().Enabled {
		notifLabel = "on"
	}

	rows := []string{
		fmt.Sprintf("Theme: %s", state.ThemeID),
		fmt.Sprintf("Follow system theme: %v", state.AutoFollowSystem),
		fmt.Sprintf("Notifications: %s", notifLabel),
	}

	var body string
	for i, row := range rows {
		cursor := "  "
		style := p.text
		if i == m.settingsCursor {
			cursor = "> "
			style = p.text.Bold(true)
		}
		body += cursor + style.Render(row) + "\n"
	}

	var errLine string
	if m.err != nil {
		errLine = "\n" + p.err.Render(m.err.Error())
	}

	helpKeys := []key.Binding{m.keys.up, m.keys.down, m.keys.enter, m.keys.back}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s%s\n%s", title, body, errLine, helpView)
}
