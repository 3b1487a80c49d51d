package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/go-todo-keeper/internal/client"
	"github.com/MKhiriev/go-todo-keeper/models"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
)

// TodoSource is the part of [client.TodoStore] the browser drives.
type TodoSource interface {
	FetchTodos(ctx context.Context) bool
	FetchFiltered(ctx context.Context) bool
	MarkCompleted(ctx context.Context, id int64) (models.Todo, bool)
	DeleteTodo(ctx context.Context, id int64) (models.Todo, bool)
	Snapshot() client.TodoState
}

type tab int

const (
	tabAll tab = iota
	tabOverDue
	tabToday
	tabUpcoming
	tabCount
)

var tabTitles = [tabCount]string{"All", "Overdue", "Today", "Upcoming"}

type browseModel struct {
	ctx       context.Context
	todos     TodoSource
	buildInfo models.AppBuildInfo
	interval  time.Duration
	copyText  func(string) error

	table   table.Model
	spinner spinner.Model

	tab           tab
	rows          []models.Todo
	loading       bool
	detail        bool
	confirmDelete bool
	showBuildInfo bool
	status        string
	errMsg        string
}

func newBrowseModel(ctx context.Context, todos TodoSource, buildInfo models.AppBuildInfo, interval time.Duration) browseModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 6},
			{Title: "Title", Width: 32},
			{Title: "Priority", Width: 8},
			{Title: "Progress", Width: 10},
			{Title: "Due", Width: 16},
			{Title: "Done", Width: 4},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := spinner.New()
	s.Spinner = spinner.MiniDot

	return browseModel{
		ctx:       ctx,
		todos:     todos,
		buildInfo: buildInfo,
		interval:  interval,
		copyText:  clipboard.WriteAll,
		table:     t,
		spinner:   s,
		loading:   true,
	}
}

func (m browseModel) Init() tea.Cmd {
	return tea.Batch(m.reload(), m.spinner.Tick, m.scheduleTick())
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if h := msg.Height - 10; h > 3 {
			m.table.SetHeight(h)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tickMsg:
		if m.loading {
			return m, m.scheduleTick()
		}
		m.loading = true
		return m, tea.Batch(m.reload(), m.scheduleTick())

	case loadedMsg:
		m.loading = false
		m.errMsg = msg.errMsg
		m.syncRows()
		return m, nil

	case mutatedMsg:
		m.status = msg.status
		m.errMsg = msg.errMsg
		m.loading = true
		return m, m.reload()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m browseModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.quit) && (msg.String() == "ctrl+c" || !m.confirmDelete) {
		return m, tea.Quit
	}

	switch {
	case m.showBuildInfo:
		if key.Matches(msg, keys.esc) || key.Matches(msg, keys.version) {
			m.showBuildInfo = false
		}
		return m, nil

	case m.confirmDelete:
		switch {
		case key.Matches(msg, keys.yes):
			m.confirmDelete = false
			todo, ok := m.selected()
			if !ok {
				return m, nil
			}
			return m, m.deleteTodo(todo.ID)
		case key.Matches(msg, keys.no):
			m.confirmDelete = false
		}
		return m, nil

	case m.detail:
		if key.Matches(msg, keys.esc) || key.Matches(msg, keys.enter) {
			m.detail = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.version):
		m.showBuildInfo = true
		return m, nil
	case key.Matches(msg, keys.tab):
		m.tab = (m.tab + 1) % tabCount
		m.syncRows()
		return m, nil
	case key.Matches(msg, keys.backtab):
		m.tab = (m.tab + tabCount - 1) % tabCount
		m.syncRows()
		return m, nil
	case key.Matches(msg, keys.refresh):
		if m.loading {
			return m, nil
		}
		m.loading = true
		m.status = ""
		return m, m.reload()
	case key.Matches(msg, keys.enter):
		if _, ok := m.selected(); ok {
			m.detail = true
		}
		return m, nil
	case key.Matches(msg, keys.complete):
		todo, ok := m.selected()
		if !ok || todo.Completed {
			return m, nil
		}
		return m, m.completeTodo(todo.ID)
	case key.Matches(msg, keys.delete):
		if _, ok := m.selected(); ok {
			m.confirmDelete = true
		}
		return m, nil
	case key.Matches(msg, keys.copy):
		todo, ok := m.selected()
		if !ok {
			return m, nil
		}
		if err := m.copyText(todo.Title); err != nil {
			m.errMsg = fmt.Sprintf("clipboard: %v", err)
			return m, nil
		}
		m.status = fmt.Sprintf("copied %q", fitText(todo.Title, 40))
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m browseModel) View() string {
	if m.showBuildInfo {
		return appStyle.Render(renderBuildInfoWindow(m.buildInfo))
	}

	if m.detail {
		if todo, ok := m.selected(); ok {
			return appStyle.Render(renderPage("TODO", RenderTodo(todo), "esc: back"))
		}
	}

	var b strings.Builder

	header := titleStyle.Render("go-todo-keeper")
	if m.loading {
		header += "  " + m.spinner.View()
	}
	b.WriteString(header)
	b.WriteString("\n\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	if len(m.rows) == 0 && !m.loading {
		b.WriteString(helpStyle.Render("no todos"))
		b.WriteString("\n")
	} else {
		b.WriteString(m.table.View())
		b.WriteString("\n")
	}

	if m.confirmDelete {
		if todo, ok := m.selected(); ok {
			b.WriteString("\n")
			b.WriteString(overlayBoxStyle.Render(fmt.Sprintf("Delete %q? y/n", fitText(todo.Title, 40))))
			b.WriteString("\n")
		}
	}
	if m.status != "" {
		b.WriteString("\n" + m.status + "\n")
	}
	if m.errMsg != "" {
		b.WriteString("\n" + RenderError(m.errMsg) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab: switch list  enter: open  c: complete  d: delete  y: copy  r: reload  v: version  q: quit"))

	return appStyle.Render(b.String())
}

func (m browseModel) renderTabs() string {
	parts := make([]string, 0, tabCount)
	for i, title := range tabTitles {
		if tab(i) == m.tab {
			parts = append(parts, activeTabStyle.Render(title))
		} else {
			parts = append(parts, inactiveTabStyle.Render(title))
		}
	}
	return strings.Join(parts, "  ")
}

// syncRows copies the list of the active tab from the store snapshot.
func (m *browseModel) syncRows() {
	snap := m.todos.Snapshot()

	switch m.tab {
	case tabOverDue:
		m.rows = snap.OverDue
	case tabToday:
		m.rows = snap.Today
	case tabUpcoming:
		m.rows = snap.Upcoming
	default:
		m.rows = snap.Todos
	}

	rows := make([]table.Row, 0, len(m.rows))
	for _, todo := range m.rows {
		rows = append(rows, table.Row{
			strconv.FormatInt(todo.ID, 10),
			fitText(todo.Title, 32),
			string(todo.Priority),
			string(todo.Progress),
			formatDue(todo.DueDate),
			checkbox(todo.Completed),
		})
	}
	m.table.SetRows(rows)

	if cursor := m.table.Cursor(); cursor >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

func (m browseModel) selected() (models.Todo, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.rows) {
		return models.Todo{}, false
	}
	return m.rows[idx], true
}

func (m browseModel) reload() tea.Cmd {
	ctx, todos := m.ctx, m.todos
	return func() tea.Msg {
		var errMsg string
		if !todos.FetchTodos(ctx) {
			errMsg = todos.Snapshot().Error
		}
		if !todos.FetchFiltered(ctx) && errMsg == "" {
			errMsg = todos.Snapshot().Error
		}
		return loadedMsg{errMsg: errMsg}
	}
}

func (m browseModel) completeTodo(id int64) tea.Cmd {
	ctx, todos := m.ctx, m.todos
	return func() tea.Msg {
		todo, ok := todos.MarkCompleted(ctx, id)
		if !ok {
			return mutatedMsg{errMsg: todos.Snapshot().Error}
		}
		return mutatedMsg{status: fmt.Sprintf("completed %q", todo.Title)}
	}
}

func (m browseModel) deleteTodo(id int64) tea.Cmd {
	ctx, todos := m.ctx, m.todos
	return func() tea.Msg {
		todo, ok := todos.DeleteTodo(ctx, id)
		if !ok {
			return mutatedMsg{errMsg: todos.Snapshot().Error}
		}
		return mutatedMsg{status: fmt.Sprintf("deleted %q", todo.Title)}
	}
}

func (m browseModel) scheduleTick() tea.Cmd {
	if m.interval <= 0 {
		return nil
	}
	return tea.Tick(m.interval, func(time.Time) tea.Msg { return tickMsg{} })
}
