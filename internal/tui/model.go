// Package tui implements the interactive terminal frontend: profile
// selection, the library browser, the add/edit form, and statistics.
package tui

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/amanthanvi/mediahub/internal/app"
	"github.com/amanthanvi/mediahub/internal/storage"
)

// Screen identifies which view the model is rendering.
type Screen string

const (
	ScreenProfiles      Screen = "profiles"
	ScreenLibrary       Screen = "library"
	ScreenDetail        Screen = "detail"
	ScreenForm          Screen = "form"
	ScreenConfirmDelete Screen = "confirm_delete"
	ScreenStats         Screen = "stats"
)

// Client is the surface the TUI needs from the application layer. The
// CLI wires a live session; tests substitute a fake.
type Client interface {
	ListProfiles(ctx context.Context) ([]storage.User, error)
	CreateProfile(ctx context.Context, username string) error
	OpenProfile(ctx context.Context, username string) error
	CloseProfile() error
	Items(ctx context.Context, filter app.Filter) ([]storage.MediaItem, error)
	CreateItem(ctx context.Context, item *storage.MediaItem) (int64, error)
	UpdateItem(ctx context.Context, item *storage.MediaItem) (bool, error)
	DeleteItem(ctx context.Context, id int64) (bool, error)
	Statistics(ctx context.Context) (*storage.Stats, error)
}

// Options configures the TUI entrypoint.
type Options struct {
	Client Client
	Covers *CoverCache

	// IsTTY reports whether stdin/stdout are attached to a terminal.
	IsTTY func() bool
}

type (
	profilesLoadedMsg struct {
		users []storage.User
		err   error
	}
	profileCreatedMsg struct {
		err error
	}
	profileOpenedMsg struct {
		username string
		err      error
	}
	itemsLoadedMsg struct {
		items []storage.MediaItem
		err   error
	}
	itemSavedMsg struct {
		err error
	}
	itemDeletedMsg struct {
		err error
	}
	statsLoadedMsg struct {
		stats *storage.Stats
		err   error
	}
)

var titleStyle = lipgloss.NewStyle().Bold(true)

// Model is the bubbletea model for the whole frontend.
type Model struct {
	client Client
	covers *CoverCache

	screen  Screen
	profile string
	err     string
	width   int

	profilesList    list.Model
	profileInput    textinput.Model
	creatingProfile bool

	libraryList  list.Model
	searchInput  textinput.Model
	searching    bool
	typeFilter   string
	statusFilter string
	items        []storage.MediaItem
	itemsByID    map[int64]storage.MediaItem
	selectedID   int64

	form     *huh.Form
	formVals *formValues
	editID   int64

	confirm    *huh.Form
	confirmVal *bool
	deleteID   int64

	stats *storage.Stats
}

// Run starts the interactive program and blocks until it exits.
func Run(opts Options) error {
	if opts.Client == nil {
		return errors.New("tui: client is required")
	}
	if opts.IsTTY != nil && !opts.IsTTY() {
		return errors.New("tui: interactive mode requires a terminal")
	}

	program := tea.NewProgram(NewModel(opts), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

func NewModel(opts Options) Model {
	profileInput := textinput.New()
	profileInput.Placeholder = "profile name"
	profileInput.CharLimit = 64

	searchInput := textinput.New()
	searchInput.Placeholder = "search titles"

	delegate := list.NewDefaultDelegate()

	profilesList := list.New([]list.Item{}, delegate, 0, 0)
	profilesList.Title = "Profiles"
	profilesList.SetShowStatusBar(false)
	profilesList.SetFilteringEnabled(false)
	profilesList.SetShowHelp(false)
	profilesList.SetSize(80, 20)

	libraryList := list.New([]list.Item{}, delegate, 0, 0)
	libraryList.Title = "Library"
	libraryList.SetShowStatusBar(false)
	// Search runs through the storage layer, not the list widget.
	libraryList.SetFilteringEnabled(false)
	libraryList.SetShowHelp(false)
	libraryList.SetSize(80, 20)

	covers := opts.Covers
	if covers == nil {
		covers = NewCoverCache()
	}

	return Model{
		client:       opts.Client,
		covers:       covers,
		screen:       ScreenProfiles,
		profilesList: profilesList,
		profileInput: profileInput,
		libraryList:  libraryList,
		searchInput:  searchInput,
		itemsByID:    map[int64]storage.MediaItem{},
	}
}

func (m Model) Init() tea.Cmd {
	if m.client == nil {
		return nil
	}
	return m.loadProfilesCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if typed.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if typed.String() == "q" && !m.typing() {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = typed.Width
		height := typed.Height - 6
		if height < 1 {
			height = 1
		}
		m.profilesList.SetSize(typed.Width, height)
		m.libraryList.SetSize(typed.Width, height)
		return m, nil
	case profilesLoadedMsg:
		if typed.err != nil {
			m.err = typed.err.Error()
			return m, nil
		}
		m.populateProfiles(typed.users)
		return m, nil
	case profileCreatedMsg:
		if typed.err != nil {
			m.err = typed.err.Error()
			return m, nil
		}
		m.creatingProfile = false
		m.profileInput.SetValue("")
		m.profileInput.Blur()
		m.err = ""
		return m, m.loadProfilesCmd()
	case profileOpenedMsg:
		if typed.err != nil {
			m.err = typed.err.Error()
			return m, nil
		}
		m.profile = typed.username
		m.screen = ScreenLibrary
		m.err = ""
		return m, m.loadItemsCmd()
	case itemsLoadedMsg:
		if typed.err != nil {
			m.err = typed.err.Error()
			return m, nil
		}
		m.populateItems(typed.items)
		return m, nil
	case itemSavedMsg:
		if typed.err != nil {
			// Reopen the form with the rejected values still in place.
			m.err = typed.err.Error()
			m.form = newItemForm(m.formVals)
			m.screen = ScreenForm
			return m, m.form.Init()
		}
		m.err = ""
		m.screen = ScreenLibrary
		return m, m.loadItemsCmd()
	case itemDeletedMsg:
		if typed.err != nil {
			m.err = typed.err.Error()
			return m, nil
		}
		m.err = ""
		m.screen = ScreenLibrary
		return m, m.loadItemsCmd()
	case statsLoadedMsg:
		if typed.err != nil {
			m.err = typed.err.Error()
			return m, nil
		}
		m.stats = typed.stats
		m.screen = ScreenStats
		return m, nil
	}

	switch m.screen {
	case ScreenProfiles:
		return m.updateProfiles(msg)
	case ScreenForm:
		return m.updateForm(msg)
	case ScreenConfirmDelete:
		return m.updateConfirmDelete(msg)
	default:
		return m.updateLibrary(msg)
	}
}

// typing reports whether a text field or form currently owns the keyboard.
func (m Model) typing() bool {
	if m.creatingProfile || m.searching {
		return true
	}
	return m.screen == ScreenForm || m.screen == ScreenConfirmDelete
}

func (m Model) updateProfiles(msg tea.Msg) (tea.Model, tea.Cmd) {
	typed, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.profilesList, cmd = m.profilesList.Update(msg)
		return m, cmd
	}

	if m.creatingProfile {
		switch typed.String() {
		case "enter":
			username := strings.TrimSpace(m.profileInput.Value())
			if username == "" {
				m.err = "profile name is required"
				return m, nil
			}
			return m, m.createProfileCmd(username)
		case "esc":
			m.creatingProfile = false
			m.profileInput.SetValue("")
			m.profileInput.Blur()
			m.err = ""
			return m, nil
		}
		var cmd tea.Cmd
		m.profileInput, cmd = m.profileInput.Update(msg)
		return m, cmd
	}

	switch typed.String() {
	case "a":
		m.creatingProfile = true
		m.err = ""
		m.profileInput.Focus()
		return m, nil
	case "enter":
		entry, ok := m.profilesList.SelectedItem().(profileItem)
		if !ok {
			return m, nil
		}
		return m, m.openProfileCmd(entry.username)
	}

	var cmd tea.Cmd
	m.profilesList, cmd = m.profilesList.Update(msg)
	return m, cmd
}

func (m Model) updateLibrary(msg tea.Msg) (tea.Model, tea.Cmd) {
	typed, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.screen == ScreenLibrary {
			var cmd tea.Cmd
			m.libraryList, cmd = m.libraryList.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.searching {
		switch typed.String() {
		case "enter":
			m.searching = false
			m.searchInput.Blur()
			return m, nil
		case "esc":
			m.searching = false
			m.searchInput.SetValue("")
			m.searchInput.Blur()
			return m, m.loadItemsCmd()
		}
		before := m.searchInput.Value()
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		if m.searchInput.Value() != before {
			return m, tea.Batch(cmd, m.loadItemsCmd())
		}
		return m, cmd
	}

	switch m.screen {
	case ScreenDetail, ScreenStats:
		if typed.String() == "esc" {
			m.screen = ScreenLibrary
		}
		return m, nil
	}

	switch typed.String() {
	case "/":
		m.searching = true
		m.err = ""
		m.searchInput.Focus()
		return m, nil
	case "t":
		m.typeFilter = cycleFilter(m.typeFilter, app.MediaTypes)
		return m, m.loadItemsCmd()
	case "f":
		m.statusFilter = cycleFilter(m.statusFilter, app.Statuses)
		return m, m.loadItemsCmd()
	case "a":
		m.editID = 0
		m.formVals = &formValues{status: app.DefaultStatus()}
		m.form = newItemForm(m.formVals)
		m.screen = ScreenForm
		m.err = ""
		return m, m.form.Init()
	case "e":
		item, ok := m.selectedItem()
		if !ok {
			return m, nil
		}
		m.editID = item.ID
		m.formVals = valuesFromItem(item)
		m.form = newItemForm(m.formVals)
		m.screen = ScreenForm
		m.err = ""
		return m, m.form.Init()
	case "d":
		item, ok := m.selectedItem()
		if !ok {
			return m, nil
		}
		m.deleteID = item.ID
		m.confirmVal = new(bool)
		m.confirm = newDeleteConfirm(item.Title, m.confirmVal)
		m.screen = ScreenConfirmDelete
		m.err = ""
		return m, m.confirm.Init()
	case "s":
		return m, m.loadStatsCmd()
	case "enter":
		item, ok := m.selectedItem()
		if !ok {
			return m, nil
		}
		m.selectedID = item.ID
		m.screen = ScreenDetail
		return m, nil
	case "esc":
		return m.closeProfile()
	}

	var cmd tea.Cmd
	m.libraryList, cmd = m.libraryList.Update(msg)
	return m, cmd
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		item, err := itemFromValues(m.formVals, m.editID)
		if err != nil {
			m.err = err.Error()
			m.form = newItemForm(m.formVals)
			return m, m.form.Init()
		}
		return m, m.saveItemCmd(item)
	case huh.StateAborted:
		m.screen = ScreenLibrary
		m.err = ""
		return m, nil
	}
	return m, cmd
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.confirm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.confirm = f
	}

	switch m.confirm.State {
	case huh.StateCompleted:
		if m.confirmVal != nil && *m.confirmVal {
			return m, m.deleteItemCmd(m.deleteID)
		}
		m.screen = ScreenLibrary
		return m, nil
	case huh.StateAborted:
		m.screen = ScreenLibrary
		return m, nil
	}
	return m, cmd
}

func (m Model) closeProfile() (tea.Model, tea.Cmd) {
	if err := m.client.CloseProfile(); err != nil {
		m.err = err.Error()
		return m, nil
	}
	m.profile = ""
	m.screen = ScreenProfiles
	m.searching = false
	m.searchInput.SetValue("")
	m.typeFilter = ""
	m.statusFilter = ""
	m.stats = nil
	m.err = ""
	return m, m.loadProfilesCmd()
}

func (m Model) loadProfilesCmd() tea.Cmd {
	return func() tea.Msg {
		users, err := m.client.ListProfiles(context.Background())
		return profilesLoadedMsg{users: users, err: err}
	}
}

func (m Model) createProfileCmd(username string) tea.Cmd {
	return func() tea.Msg {
		return profileCreatedMsg{err: m.client.CreateProfile(context.Background(), username)}
	}
}

func (m Model) openProfileCmd(username string) tea.Cmd {
	return func() tea.Msg {
		err := m.client.OpenProfile(context.Background(), username)
		return profileOpenedMsg{username: username, err: err}
	}
}

func (m Model) loadItemsCmd() tea.Cmd {
	filter := app.Filter{
		Search:    strings.TrimSpace(m.searchInput.Value()),
		MediaType: m.typeFilter,
		Status:    m.statusFilter,
	}
	return func() tea.Msg {
		items, err := m.client.Items(context.Background(), filter)
		return itemsLoadedMsg{items: items, err: err}
	}
}

func (m Model) saveItemCmd(item *storage.MediaItem) tea.Cmd {
	return func() tea.Msg {
		if item.ID != 0 {
			_, err := m.client.UpdateItem(context.Background(), item)
			return itemSavedMsg{err: err}
		}
		_, err := m.client.CreateItem(context.Background(), item)
		return itemSavedMsg{err: err}
	}
}

func (m Model) deleteItemCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		_, err := m.client.DeleteItem(context.Background(), id)
		return itemDeletedMsg{err: err}
	}
}

func (m Model) loadStatsCmd() tea.Cmd {
	return func() tea.Msg {
		stats, err := m.client.Statistics(context.Background())
		return statsLoadedMsg{stats: stats, err: err}
	}
}

func (m *Model) populateProfiles(users []storage.User) {
	entries := make([]list.Item, 0, len(users))
	for _, user := range users {
		entries = append(entries, profileItem{
			username: user.Username,
			joined:   user.CreatedAt.Format("January 2, 2006"),
		})
	}
	m.profilesList.SetItems(entries)
}

func (m *Model) populateItems(items []storage.MediaItem) {
	m.items = items
	m.itemsByID = make(map[int64]storage.MediaItem, len(items))
	entries := make([]list.Item, 0, len(items))
	for _, item := range items {
		m.itemsByID[item.ID] = item
		if item.ImagePath != "" {
			// Warm the list-size cover so scrolling never decodes.
			m.covers.Get(item.ImagePath, ListBound)
		}
		entries = append(entries, mediaListItem{
			id:          item.ID,
			title:       item.Title,
			description: itemDescription(item),
		})
	}
	m.libraryList.SetItems(entries)
}

func (m Model) selectedItem() (storage.MediaItem, bool) {
	entry, ok := m.libraryList.SelectedItem().(mediaListItem)
	if !ok {
		return storage.MediaItem{}, false
	}
	item, ok := m.itemsByID[entry.id]
	return item, ok
}

func (m Model) View() string {
	switch m.screen {
	case ScreenProfiles:
		return m.renderProfilesView()
	case ScreenDetail:
		return m.renderDetailView()
	case ScreenForm:
		if m.form == nil {
			return ""
		}
		return m.renderError() + m.form.View()
	case ScreenConfirmDelete:
		if m.confirm == nil {
			return ""
		}
		return m.confirm.View()
	case ScreenStats:
		return m.renderStatsView()
	default:
		return m.renderLibraryView()
	}
}

func (m Model) renderError() string {
	if m.err == "" {
		return ""
	}
	return "Error: " + m.err + "\n"
}

func (m Model) renderProfilesView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("MediaHub"))
	b.WriteString("\n\n")
	b.WriteString(m.renderError())

	if m.creatingProfile {
		b.WriteString("New profile: ")
		b.WriteString(m.profileInput.View())
		b.WriteString("\n\n[enter] create  [esc] cancel")
		return b.String()
	}

	if len(m.profilesList.Items()) == 0 {
		b.WriteString("No profiles yet.\n\nPress 'a' to create one.")
		return b.String()
	}

	b.WriteString(m.profilesList.View())
	b.WriteString("\n[enter] open  [a] new profile  [q] quit")
	return b.String()
}

func (m Model) renderLibraryView() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Library: %s\n", m.profile)
	fmt.Fprintf(&b, "search=%s type=%s status=%s\n",
		orAll(strings.TrimSpace(m.searchInput.Value())), orAll(m.typeFilter), orAll(m.statusFilter))
	b.WriteString(m.renderError())
	if m.searching {
		b.WriteString("Search: ")
		b.WriteString(m.searchInput.View())
		b.WriteString("\n")
	}

	if len(m.libraryList.Items()) == 0 {
		if m.hasFilter() {
			b.WriteString("\nNo items match the current filters.\n")
		} else {
			b.WriteString("\nThe library is empty.\n\nPress 'a' to add your first item.\n")
		}
	} else {
		b.WriteString("\n")
		b.WriteString(m.libraryList.View())
	}

	b.WriteString("\n[a] add  [e] edit  [d] delete  [s] stats  [/] search  [t] type  [f] status  [esc] profiles  [q] quit")
	return b.String()
}

func (m Model) renderDetailView() string {
	item, ok := m.itemsByID[m.selectedID]
	if !ok {
		return "Item unavailable.\n\nPress esc to go back."
	}

	var b strings.Builder
	b.WriteString(m.covers.Render(item.ImagePath, DetailBound))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Title: %s\n", item.Title)
	fmt.Fprintf(&b, "Type: %s\n", item.MediaType)
	fmt.Fprintf(&b, "Genre: %s\n", orDash(item.Genre))
	fmt.Fprintf(&b, "Released: %s\n", orDash(item.ReleaseDate))
	fmt.Fprintf(&b, "Director: %s\n", orDash(item.Director))
	fmt.Fprintf(&b, "Rating: %s\n", renderOptionalRating(item.Rating))
	fmt.Fprintf(&b, "Status: %s\n", item.Status)
	fmt.Fprintf(&b, "Added: %s\n", item.DateAdded.Format("January 2, 2006"))
	if item.Description != "" {
		b.WriteString("\n")
		b.WriteString(item.Description)
		b.WriteString("\n")
	}
	b.WriteString("\nPress esc to go back.")
	return b.String()
}

func (m Model) renderStatsView() string {
	if m.stats == nil {
		return "Statistics unavailable.\n\nPress esc to go back."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Statistics"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Total items: %d\n", m.stats.TotalItems)
	fmt.Fprintf(&b, "Average rating: %.1f/10\n", m.stats.AverageRating)
	b.WriteString("\nBy type:\n")
	b.WriteString(renderBreakdown(m.stats.TypeBreakdown))
	b.WriteString("\nBy status:\n")
	b.WriteString(renderBreakdown(m.stats.StatusBreakdown))
	b.WriteString("\nPress esc to go back.")
	return b.String()
}

func renderBreakdown(counts map[string]int) string {
	if len(counts) == 0 {
		return "  (none)\n"
	}
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&b, "  %s: %d\n", key, counts[key])
	}
	return b.String()
}

func (m Model) hasFilter() bool {
	return strings.TrimSpace(m.searchInput.Value()) != "" || m.typeFilter != "" || m.statusFilter != ""
}

// cycleFilter steps through "" (all) and then each value in order.
func cycleFilter(current string, values []string) string {
	if current == "" {
		if len(values) == 0 {
			return ""
		}
		return values[0]
	}
	for i, value := range values {
		if value == current {
			if i+1 < len(values) {
				return values[i+1]
			}
			return ""
		}
	}
	return ""
}

func itemDescription(item storage.MediaItem) string {
	var b strings.Builder
	b.WriteString("type=" + item.MediaType)
	if item.Genre != "" {
		b.WriteString(" genre=" + item.Genre)
	}
	b.WriteString(" status=" + item.Status)
	if item.Rating != nil {
		b.WriteString(" rating=" + renderRating(*item.Rating))
	}
	return b.String()
}

func renderOptionalRating(rating *float64) string {
	if rating == nil {
		return "unrated"
	}
	return renderRating(*rating)
}

func renderRating(rating float64) string {
	return fmt.Sprintf("%s %.1f/10", ratingSymbol(rating), rating)
}

// ratingSymbol buckets a 0-10 rating: thumbs down through 5, thumbs up
// through 8, a heart above that.
func ratingSymbol(rating float64) string {
	switch {
	case rating <= 5:
		return "👎"
	case rating <= 8:
		return "👍"
	default:
		return "❤️"
	}
}

func orAll(value string) string {
	if value == "" {
		return "all"
	}
	return value
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

type profileItem struct {
	username string
	joined   string
}

func (i profileItem) Title() string       { return i.username }
func (i profileItem) Description() string { return "since " + i.joined }
func (i profileItem) FilterValue() string { return i.username }

type mediaListItem struct {
	id          int64
	title       string
	description string
}

func (i mediaListItem) Title() string       { return i.title }
func (i mediaListItem) Description() string { return i.description }
func (i mediaListItem) FilterValue() string { return i.title }
