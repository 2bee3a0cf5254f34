// Package tui provides interactive terminal UI components.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/bookwyrm/internal/book"
)

const (
	defaultListWidth  = 72
	defaultListHeight = 20
)

var runProgram = func(m tea.Model) (tea.Model, error) {
	return tea.NewProgram(m).Run()
}

// SelectionAction represents the user's action in the selection UI.
type SelectionAction int

const (
	// ActionNone indicates no action was taken.
	ActionNone SelectionAction = iota
	// ActionSelected indicates the user selected a result.
	ActionSelected
	// ActionSkipped indicates the user skipped the selection.
	ActionSkipped
	// ActionStopped indicates the user stopped entirely.
	ActionStopped
)

// SelectionResult holds the result of a TUI selection.
type SelectionResult struct {
	Action    SelectionAction
	Selection *book.Book
}

type bookItem struct {
	book.Book
	source string
}

func (i bookItem) Title() string {
	title := i.Book.Title
	if i.DatePublished != "" {
		return fmt.Sprintf("%s (%s)", title, i.DatePublished)
	}
	return title
}

func (i bookItem) FilterValue() string {
	return i.Book.Title
}

func (i bookItem) Description() string {
	return i.Book.Description
}

type itemStyles struct {
	normal      lipgloss.Style
	selected    lipgloss.Style
	sourceStyle lipgloss.Style
	titleStyle  lipgloss.Style
	authorStyle lipgloss.Style
	idStyle     lipgloss.Style
	descStyle   lipgloss.Style
}

func newItemStyles() itemStyles {
	asciiBorder := lipgloss.Border{
		Top:         "-",
		Bottom:      "-",
		Left:        "|",
		Right:       "|",
		TopLeft:     "+",
		TopRight:    "+",
		BottomLeft:  "+",
		BottomRight: "+",
	}

	container := lipgloss.NewStyle().
		Border(asciiBorder).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1).
		Foreground(lipgloss.Color("252"))

	selected := container.Copy().
		BorderForeground(lipgloss.Color("214")).
		Foreground(lipgloss.Color("230")).
		Background(lipgloss.Color("237"))

	return itemStyles{
		normal:   container,
		selected: selected,
		sourceStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("110")),
		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("254")),
		authorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("178")),
		idStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("247")).
			Faint(true),
		descStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("248")),
	}
}

type bookDelegate struct {
	styles itemStyles
}

func newDelegate() bookDelegate {
	return bookDelegate{styles: newItemStyles()}
}

func (d bookDelegate) Height() int                         { return 5 }
func (d bookDelegate) Spacing() int                        { return 1 }
func (d bookDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d bookDelegate) Render(w io.Writer, m list.Model, idx int, item list.Item) {
	result, ok := item.(bookItem)
	if !ok {
		return
	}

	sourceLine := d.styles.sourceStyle.Render(fmt.Sprintf("[%s]", strings.ToUpper(result.source)))
	titleLine := d.styles.titleStyle.Render(result.Title())
	authorLine := d.styles.authorStyle.Render(result.AuthorNames())
	idLine := d.styles.idStyle.Render(formatIDs(result.Book, m.Width()-4))
	descLine := d.styles.descStyle.Render(truncate(result.Book.Description, m.Width()-4))

	content := lipgloss.JoinVertical(lipgloss.Left, sourceLine, titleLine, authorLine, idLine, descLine)

	container := d.styles.normal
	if idx == m.Index() {
		container = d.styles.selected
	}
	_, _ = fmt.Fprint(w, container.Render(content))
}

type model struct {
	list        list.Model
	searchTitle string
	result      SelectionResult
}

func newModel(title string, items []bookItem) *model {
	listItems := make([]list.Item, len(items))
	for i, item := range items {
		listItems[i] = item
	}

	delegate := newDelegate()
	l := list.New(listItems, delegate, defaultListWidth, defaultListHeight)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetShowPagination(false)
	l.DisableQuitKeybindings()
	l.Styles.NoItems = lipgloss.NewStyle()

	return &model{
		list:        l,
		searchTitle: title,
		result: SelectionResult{
			Action: ActionNone,
		},
	}
}

func (m *model) Init() tea.Cmd { return nil }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if selected, ok := m.list.SelectedItem().(bookItem); ok {
				result := selected.Book
				m.result = SelectionResult{
					Action:    ActionSelected,
					Selection: &result,
				}
				return m, tea.Quit
			}
		case "s", "esc":
			m.result = SelectionResult{Action: ActionSkipped}
			return m, tea.Quit
		case "ctrl+c", "q":
			m.result = SelectionResult{Action: ActionStopped}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		width := clamp(defaultListWidth, msg.Width-4, 40)
		height := clamp(defaultListHeight, msg.Height-6, 5)
		m.list.SetSize(width, height)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *model) View() string {
	header := headerStyle.Render(fmt.Sprintf("Results for: %s", m.searchTitle))
	listView := m.list.View()
	help := helpStyle.Render("Up/Down navigate | Enter select | s skip | q cancel")
	return lipgloss.JoinVertical(lipgloss.Left, header, listView, help)
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			MarginTop(1).
			Foreground(lipgloss.Color("244"))
)

// Result pairs a conformed search result with the provider it came from.
type Result struct {
	Book   book.Book
	Source string
}

// Select presents an interactive picker over provider search results.
func Select(query string, results []Result) (SelectionResult, error) {
	if len(results) == 0 {
		return SelectionResult{Action: ActionSkipped}, nil
	}

	items := make([]bookItem, len(results))
	for i, r := range results {
		items[i] = bookItem{Book: r.Book, source: r.Source}
	}
	m := newModel(query, items)
	finalModel, err := runProgram(m)
	if err != nil {
		return SelectionResult{}, err
	}

	if typed, ok := finalModel.(*model); ok {
		return typed.result, nil
	}

	return SelectionResult{}, fmt.Errorf("unexpected program result")
}

func truncate(value string, width int) string {
	value = strings.Join(strings.Fields(value), " ")
	if width <= 0 || len(value) <= width {
		return value
	}
	if width <= 3 {
		return value[:width]
	}
	return value[:width-3] + "..."
}

// formatIDs builds the identifier line shown under the authors.
func formatIDs(b book.Book, availableWidth int) string {
	var parts []string
	if b.IDs.ISBN != "" {
		parts = append(parts, "ISBN "+b.IDs.ISBN)
	}
	if b.IDs.GoogleBooksID != "" {
		parts = append(parts, "G:"+b.IDs.GoogleBooksID)
	}
	if b.IDs.OpenLibraryID != "" {
		parts = append(parts, "OL:"+b.IDs.OpenLibraryID)
	}
	if len(parts) == 0 {
		return "No identifiers"
	}
	line := strings.Join(parts, " | ")
	if availableWidth > 0 && len(line) > availableWidth {
		line = truncate(line, availableWidth)
	}
	return line
}

func clamp(defaultValue, available, minimum int) int {
	width := defaultValue
	if available > 0 && available < defaultValue {
		width = available
	}
	if width < minimum {
		width = minimum
	}
	return width
}
