// Package tui is the interactive terminal front end.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samvad-hq/gladstart-reader/internal/browser"
	"github.com/samvad-hq/gladstart-reader/internal/domain"
	"github.com/samvad-hq/gladstart-reader/internal/features"
	"github.com/samvad-hq/gladstart-reader/internal/feed"
	"github.com/samvad-hq/gladstart-reader/internal/imageload"
	"github.com/samvad-hq/gladstart-reader/internal/logger"
	"github.com/samvad-hq/gladstart-reader/internal/present"
	"github.com/samvad-hq/gladstart-reader/internal/viewport"
)

type mode int

const (
	modeNormal mode = iota
	modeFilter
	modeSearch
	modeHelp
)

type focusPane int

const (
	focusList focusPane = iota
	focusSidebar
)

// minSidebarWidth is the terminal width below which the sidebar is hidden.
const minSidebarWidth = 90

var tabLabels = map[feed.Tab]string{
	feed.TabFeed:     "Nyheter",
	feed.TabUserFeed: "Användarinlägg",
	feed.TabRegional: "Landskap",
}

// Options wires the TUI to the rest of the reader.
type Options struct {
	Context       context.Context
	Controller    *feed.Controller
	Images        *imageload.Loader
	Features      features.Features
	APIBaseURL    string
	NewsletterURL string
	Open          browser.Opener
	Log           logger.Logger
}

type App struct {
	ctx           context.Context
	ctrl          *feed.Controller
	images        *imageload.Loader
	feats         features.Features
	apiBase       string
	newsletterURL string
	open          browser.Opener
	log           logger.Logger

	mode   mode
	focus  focusPane
	width  int
	height int

	spinner spinner.Model
	filter  filterPopover
	trigger *viewport.Trigger

	cursor        int
	offset        int
	sidebarCursor int
	postCursor    int
	regionCursor  int

	loaded bool
	err    error
}

func NewApp(opts Options) *App {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	open := opts.Open
	if open == nil {
		open = browser.Open
	}
	images := opts.Images
	if images == nil {
		images = imageload.NewLoader(nil, opts.Log, false)
	}

	return &App{
		ctx:           ctx,
		ctrl:          opts.Controller,
		images:        images,
		feats:         opts.Features,
		apiBase:       opts.APIBaseURL,
		newsletterURL: opts.NewsletterURL,
		open:          open,
		log:           logger.Ensure(opts.Log),
		spinner:       sp,
		trigger:       viewport.NewTrigger(),
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, a.initialLoadCmd())
}

func (a *App) initialLoadCmd() tea.Cmd {
	ctrl, ctx := a.ctrl, a.ctx
	return func() tea.Msg {
		return initialLoadedMsg{err: ctrl.InitialLoad(ctx)}
	}
}

// applyCmd fetches a ticket prepared synchronously in Update.
func (a *App) applyCmd(t feed.Ticket) tea.Cmd {
	ctrl, ctx := a.ctrl, a.ctx
	return func() tea.Msg {
		return filtersAppliedMsg{err: ctrl.Fetch(ctx, t)}
	}
}

func (a *App) loadMoreCmd() tea.Cmd {
	ctrl, ctx := a.ctrl, a.ctx
	return func() tea.Msg {
		return moreLoadedMsg{fetched: ctrl.LoadMore(ctx)}
	}
}

func (a *App) imageCmd(src string) tea.Cmd {
	images, ctx := a.images, a.ctx
	return func() tea.Msg {
		return imageLoadedMsg{result: images.Load(ctx, src)}
	}
}

func (a *App) openCmd(url string) tea.Cmd {
	open := a.open
	return func() tea.Msg {
		if err := open(url); err != nil {
			return openErrMsg{err: err}
		}
		return nil
	}
}

func (a *App) applyChange(c filterChange) tea.Cmd {
	switch c.kind {
	case changeRegion:
		return a.applyCmd(a.ctrl.PrepareRegion(c.name))
	case changeTopic:
		return a.applyCmd(a.ctrl.PrepareToggleTopic(c.name))
	case changeSource:
		return a.applyCmd(a.ctrl.PrepareToggleSource(c.name))
	case changeScore:
		return a.applyCmd(a.ctrl.PrepareMinScore(c.score))
	}
	return nil
}

func (a *App) resetFilters() tea.Cmd {
	return a.applyCmd(a.ctrl.PrepareReset())
}

func (a *App) selectRegion(r domain.Region) tea.Cmd {
	return a.applyCmd(a.ctrl.PrepareSelectRegion(r))
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, a.observe()

	case tea.KeyMsg:
		a.err = nil
		m, cmd := a.handleKey(msg)
		return m, tea.Batch(cmd, a.observe())

	case initialLoadedMsg:
		a.loaded = true
		a.noteErr(msg.err)
		a.listReplaced()
		return a, a.observe()

	case filtersAppliedMsg:
		a.noteErr(msg.err)
		a.listReplaced()
		return a, a.observe()

	case moreLoadedMsg:
		a.trigger.Rearm()
		return a, a.observe()

	case imageLoadedMsg:
		return a, nil

	case openErrMsg:
		a.err = msg.err
		a.log.WarnObj("open in browser failed", "open_error", msg.err.Error())
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) noteErr(err error) {
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	a.err = err
}

func (a *App) listReplaced() {
	a.cursor = 0
	a.offset = 0
	a.trigger.Reset()
}

// observe feeds the current viewport to the sentinel trigger and the lazy
// image loader.
func (a *App) observe() tea.Cmd {
	if a.width == 0 || a.ctrl == nil {
		return nil
	}
	snap := a.ctrl.Snapshot()
	var cmds []tea.Cmd

	switch snap.Tab {
	case feed.TabFeed:
		total := len(snap.Displayed)
		visible := visibleCards(a.listHeight())
		a.offset = scrollOffset(a.offset, a.cursor, visible, total)
		if total > 0 && a.mode == modeNormal && a.trigger.Active() {
			sentinel := viewport.SentinelVisible(total, a.offset, visible)
			if a.trigger.Observe(sentinel, snap.HasMore, snap.Loading) {
				cmds = append(cmds, a.loadMoreCmd())
			}
		}
		start, end := viewport.Window(total, a.offset, visible)
		for _, art := range snap.Displayed[start:end] {
			if src := art.ImageSource(a.apiBase); a.images.Reveal(src) {
				cmds = append(cmds, a.imageCmd(src))
			}
		}
	case feed.TabUserFeed:
		visible := a.bodyHeight() / postHeight
		start, end := viewport.Window(len(snap.UserPosts), a.postCursor, max(visible, 1))
		for _, p := range snap.UserPosts[start:end] {
			for _, src := range []string{p.AvatarSource(), p.Image} {
				if src != "" && a.images.Reveal(src) {
					cmds = append(cmds, a.imageCmd(src))
				}
			}
		}
	}
	return tea.Batch(cmds...)
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.mode {
	case modeHelp:
		if key == "?" || key == "esc" || key == "q" {
			a.mode = modeNormal
		}
		return a, nil
	case modeSearch:
		if key == "/" || key == "esc" || key == "q" || key == "enter" {
			a.mode = modeNormal
		}
		return a, nil
	case modeFilter:
		return a.handleFilterKey(key)
	}

	snap := a.ctrl.Snapshot()
	switch key {
	case "q":
		return a, tea.Quit
	case "?":
		a.mode = modeHelp
		return a, nil
	case "f":
		a.mode = modeFilter
		a.filter = filterPopover{}
		return a, nil
	case "/":
		a.mode = modeSearch
		return a, nil
	case "1", "2", "3":
		a.switchTab(feed.Tabs[int(key[0]-'1')])
		return a, nil
	case "tab":
		a.switchTab(nextTab(snap.Tab))
		return a, nil
	case "n":
		if a.feats.Newsletter && a.newsletterURL != "" {
			return a, a.openCmd(a.newsletterURL)
		}
		return a, nil
	case "r":
		return a, a.resetFilters()
	case "s":
		if snap.Tab == feed.TabFeed && a.sidebarShown() {
			if a.focus == focusList {
				a.focus = focusSidebar
			} else {
				a.focus = focusList
			}
		}
		return a, nil
	}

	switch snap.Tab {
	case feed.TabFeed:
		if a.focus == focusSidebar {
			return a.handleSidebarKey(key, snap)
		}
		return a.handleListKey(key, snap)
	case feed.TabUserFeed:
		a.postCursor = moveCursor(key, a.postCursor, len(snap.UserPosts), 1)
		return a, nil
	case feed.TabRegional:
		return a.handleRegionalKey(key, snap)
	}
	return a, nil
}

func (a *App) handleListKey(key string, snap feed.State) (tea.Model, tea.Cmd) {
	switch key {
	case "o", "enter":
		if a.cursor < len(snap.Displayed) {
			return a, a.openCmd(snap.Displayed[a.cursor].URL)
		}
		return a, nil
	}
	a.cursor = moveCursor(key, a.cursor, len(snap.Displayed), 1)
	return a, nil
}

func (a *App) handleSidebarKey(key string, snap feed.State) (tea.Model, tea.Cmd) {
	top := domain.TopRegions(snap.Regions, a.feats.SidebarRegions)
	switch key {
	case "o", "enter", " ":
		if a.feats.RegionSelect && a.sidebarCursor < len(top) {
			return a, a.selectRegion(top[a.sidebarCursor])
		}
		return a, nil
	case "esc":
		a.focus = focusList
		return a, nil
	}
	a.sidebarCursor = moveCursor(key, a.sidebarCursor, len(top), 1)
	return a, nil
}

func (a *App) handleRegionalKey(key string, snap feed.State) (tea.Model, tea.Cmd) {
	cols := regionColumns(a.width)
	switch key {
	case "o", "enter", " ":
		if a.feats.RegionSelect && a.regionCursor < len(snap.Regions) {
			cmd := a.selectRegion(snap.Regions[a.regionCursor])
			a.switchTab(feed.TabFeed)
			return a, cmd
		}
		return a, nil
	case "left", "h":
		a.regionCursor = clampIndex(a.regionCursor-1, len(snap.Regions))
		return a, nil
	case "right", "l":
		a.regionCursor = clampIndex(a.regionCursor+1, len(snap.Regions))
		return a, nil
	}
	a.regionCursor = moveCursor(key, a.regionCursor, len(snap.Regions), cols)
	return a, nil
}

func (a *App) handleFilterKey(key string) (tea.Model, tea.Cmd) {
	res := a.filter.handle(key, a.ctrl.Filters(), a.filterOptions())
	switch res.action {
	case actionApply:
		return a, a.applyChange(res.change)
	case actionReset:
		return a, a.resetFilters()
	case actionClose:
		a.mode = modeNormal
	}
	return a, nil
}

func (a *App) filterOptions() filterOptions {
	snap := a.ctrl.Snapshot()
	regions := make([]string, 0, len(snap.Regions))
	for _, r := range snap.Regions {
		regions = append(regions, r.Name)
	}
	return filterOptions{
		regions: regions,
		topics:  headNames(domain.TopicNames(snap.Topics), a.feats.TopicChips),
		sources: headNames(domain.SourceNames(snap.Sources), a.feats.TopicChips),
	}
}

func (a *App) switchTab(tab feed.Tab) {
	if err := a.ctrl.SwitchTab(tab); err != nil {
		a.err = err
		return
	}
	a.focus = focusList
}

func nextTab(cur feed.Tab) feed.Tab {
	for i, t := range feed.Tabs {
		if t == cur {
			return feed.Tabs[(i+1)%len(feed.Tabs)]
		}
	}
	return feed.TabFeed
}

// moveCursor applies vertical navigation keys; stride is the row width in
// grid layouts.
func moveCursor(key string, cursor, total, stride int) int {
	switch key {
	case "j", "down":
		cursor += stride
	case "k", "up":
		cursor -= stride
	case "g", "home":
		cursor = 0
	case "G", "end":
		cursor = total - 1
	case "pgdown":
		cursor += 5 * stride
	case "pgup":
		cursor -= 5 * stride
	}
	return clampIndex(cursor, total)
}

func headNames(names []string, n int) []string {
	if n >= 0 && len(names) > n {
		return names[:n]
	}
	return names
}

func (a *App) sidebarShown() bool {
	return a.width >= minSidebarWidth
}

func (a *App) mainWidth() int {
	if a.sidebarShown() {
		return a.width - sidebarWidth - 1
	}
	return a.width
}

// bodyHeight excludes the header row, its gap and the status bar.
func (a *App) bodyHeight() int {
	h := a.height - 3
	if h < 1 {
		return 1
	}
	return h
}

// listHeight is the room for article cards and the loader row.
func (a *App) listHeight() int {
	h := a.bodyHeight() - 2
	if a.feats.Newsletter {
		h--
	}
	if h < cardHeight+1 {
		return cardHeight + 1
	}
	return h
}

func (a *App) View() string {
	if a.width == 0 {
		return logoStyle.Render("GLADSTART")
	}
	snap := a.ctrl.Snapshot()

	var body string
	switch a.mode {
	case modeFilter:
		body = lipgloss.Place(a.width, a.bodyHeight(), lipgloss.Center, lipgloss.Top,
			a.filter.render(snap.Filters, a.filterOptions(), a.feats.ComingSoon))
	case modeSearch:
		body = lipgloss.Place(a.width, a.bodyHeight(), lipgloss.Center, lipgloss.Top, renderSearchPopover(a.feats.ComingSoon))
	case modeHelp:
		body = lipgloss.Place(a.width, a.bodyHeight(), lipgloss.Center, lipgloss.Center, renderHelp())
	default:
		switch snap.Tab {
		case feed.TabUserFeed:
			body = a.viewUserFeed(snap)
		case feed.TabRegional:
			body = a.viewRegional(snap)
		default:
			body = a.viewFeed(snap)
		}
	}

	lines := strings.Split(body, "\n")
	if len(lines) > a.bodyHeight() {
		lines = lines[:a.bodyHeight()]
	}
	for len(lines) < a.bodyHeight() {
		lines = append(lines, "")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		a.viewHeader(snap.Tab),
		"",
		strings.Join(lines, "\n"),
		a.viewStatus(snap),
	)
}

func (a *App) viewHeader(active feed.Tab) string {
	parts := []string{logoStyle.Render("GLADSTART")}
	for i, t := range feed.Tabs {
		label := fmt.Sprintf("%d %s", i+1, tabLabels[t])
		if t == active {
			parts = append(parts, tabActiveStyle.Render(label))
		} else {
			parts = append(parts, tabInactiveStyle.Render(label))
		}
	}
	left := strings.Join(parts, " ")
	right := itemMetaStyle.Render("f filter  / sök  ? hjälp ")
	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (a *App) viewFeed(snap feed.State) string {
	width := a.mainWidth()
	var b strings.Builder
	b.WriteString(pageTitleStyle.Render("Senaste positiva nyheterna") + "\n")
	if r, ok := domain.RegionByName(snap.Regions, snap.Filters.Region); ok {
		b.WriteString(itemMetaStyle.Render(r.Name) + " · " + renderScore(r.Positivity) + "\n")
	}
	if a.feats.Newsletter {
		b.WriteString(renderNewsletter(width) + "\n")
	}
	b.WriteString("\n")

	total := len(snap.Displayed)
	switch {
	case total == 0 && (!a.loaded || snap.Loading):
		b.WriteString(a.spinner.View() + " " + itemMetaStyle.Render("Laddar…"))
	case total == 0:
		b.WriteString(renderEmptyState(width))
	default:
		visible := visibleCards(a.listHeight())
		start, end := viewport.Window(total, a.offset, visible)
		cards := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			art := snap.Displayed[i]
			img := a.images.Status(art.ImageSource(a.apiBase))
			cards = append(cards, renderArticleCard(art, i == a.cursor && a.focus == focusList, width, img))
		}
		b.WriteString(strings.Join(cards, "\n"))
		if viewport.SentinelVisible(total, a.offset, visible) {
			b.WriteString("\n" + loaderRow(snap.Loading, snap.HasMore, total, a.spinner.View()))
		}
	}

	main := lipgloss.NewStyle().Width(width).Render(b.String())
	if !a.sidebarShown() {
		return main
	}
	side := renderSidebar(snap.Regions, snap.SelectedRegion, a.feats.SidebarRegions,
		a.focus == focusSidebar, a.feats.RegionSelect, a.sidebarCursor)
	return lipgloss.JoinHorizontal(lipgloss.Top, main, " ", side)
}

func (a *App) viewUserFeed(snap feed.State) string {
	var b strings.Builder
	b.WriteString(pageHeader("Användarinlägg", a.feats.ComingSoon) + "\n")
	if a.feats.Newsletter {
		b.WriteString(renderNewsletter(a.width) + "\n")
	}
	b.WriteString("\n")
	if len(snap.UserPosts) == 0 {
		b.WriteString(itemMetaStyle.Render("Inga inlägg ännu"))
		return b.String()
	}
	visible := max(a.bodyHeight()/postHeight, 1)
	start, end := viewport.Window(len(snap.UserPosts), a.postCursor, visible)
	posts := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		p := snap.UserPosts[i]
		posts = append(posts, renderPost(p, i == a.postCursor, a.width,
			a.images.Status(p.AvatarSource()), a.images.Status(p.Image), a.feats.Video))
	}
	b.WriteString(strings.Join(posts, "\n"))
	return b.String()
}

func (a *App) viewRegional(snap feed.State) string {
	var b strings.Builder
	b.WriteString(pageHeader("Utforska efter landskap", a.feats.ComingSoon) + "\n")
	h := a.bodyHeight() - 2
	if a.feats.Newsletter {
		b.WriteString(renderNewsletter(a.width) + "\n")
		h--
	}
	b.WriteString("\n")
	b.WriteString(renderRegionGrid(snap.Regions, a.regionCursor, a.width, h, a.feats.RegionSelect))
	return b.String()
}

func (a *App) viewStatus(snap feed.State) string {
	if a.err != nil {
		return statusBarStyle.Width(a.width).Render(errorStyle.Render(a.err.Error()))
	}
	left := fmt.Sprintf("%d artiklar · sida %d · %s", len(snap.Displayed), snap.Page, filterLabel(snap.Filters))
	if snap.Loading {
		left = a.spinner.View() + " " + left
	}
	right := "q avsluta"
	if snap.SelectedRegion != nil || !snap.Filters.Equal(domain.DefaultFilters()) {
		right = "r återställ  " + right
	}
	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return statusBarStyle.Width(a.width).Render(left + strings.Repeat(" ", gap) + right)
}

func filterLabel(f domain.FilterState) string {
	parts := []string{"Alla regioner"}
	if !f.AllRegionsSelected() {
		parts[0] = f.Region
	}
	if len(f.Topics) > 0 {
		parts = append(parts, strings.Join(f.Topics, ", "))
	}
	if len(f.Sources) > 0 {
		parts = append(parts, strings.Join(f.Sources, ", "))
	}
	parts = append(parts, present.Percent(f.MinScore)[1:]+"+")
	return strings.Join(parts, " · ")
}

// Run starts the program and blocks until the user quits.
func Run(opts Options) error {
	parent := opts.Context
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	opts.Context = ctx

	p := tea.NewProgram(NewApp(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
