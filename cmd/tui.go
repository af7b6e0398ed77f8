package cmd

import (
	"fmt"
	"strings"

	"github.com/suderio/fable/internal/session"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			MarginBottom(1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#999999"))

	stateBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#874BFD")).
			Padding(1, 2)

	logBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#04B575")).
			Padding(0, 1)

	autocompleteStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#F25D94"))
)

type suggestion string

func (s suggestion) Title() string       { return string(s) }
func (s suggestion) Description() string { return "" }
func (s suggestion) FilterValue() string { return string(s) }

type storyModel struct {
	app         *session.Session
	textInput   textinput.Model
	viewport    viewport.Model
	suggestions list.Model
	history     []string
	historyIdx  int
	logContent  string
	width       int
	height      int
	packName    string
	showList    bool
}

func newStoryModel(app *session.Session, packName string) storyModel {
	ti := textinput.New()
	ti.Placeholder = "Enter command (e.g., go north, take key)..."
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 60

	vp := viewport.New(0, 0)
	opening := app.Opening()
	content := opening + "\n\nType 'exit' to quit."
	vp.SetContent(content)

	// Configure a minimalist list for autocomplete
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetHeight(1)
	delegate.SetSpacing(0)
	sugList := list.New([]list.Item{}, delegate, 50, 7) // Show up to 7 items
	sugList.SetShowTitle(false)
	sugList.SetShowStatusBar(false)
	sugList.SetFilteringEnabled(false) // We filter manually
	sugList.SetShowHelp(false)

	return storyModel{
		app:         app,
		textInput:   ti,
		viewport:    vp,
		suggestions: sugList,
		history:     []string{},
		historyIdx:  -1,
		logContent:  content,
		packName:    packName,
	}
}

func (m *storyModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *storyModel) updateSuggestions() {
	val := m.textInput.Value()
	var items []list.Item

	defer func() {
		m.suggestions.SetItems(items)
		m.showList = len(items) > 0
		if m.showList {
			h := len(items)
			if h > 10 {
				h = 10
			}
			listHeight := h
			if listHeight > 0 && listHeight < 4 {
				listHeight = 4
			}
			m.suggestions.SetHeight(listHeight)
			m.suggestions.ResetSelected()
		}
	}()

	if val == "" {
		return
	}

	baseCmds := []string{"look", "inventory", "exit", "quit"}
	for _, verb := range m.app.Verbs() {
		baseCmds = append(baseCmds, verb+" ")
	}

	for _, c := range baseCmds {
		if strings.HasPrefix(strings.ToLower(c), strings.ToLower(val)) && len(val) < len(c) {
			items = append(items, suggestion(c))
		}
	}

	// Object completion once a verb has been typed
	if idx := strings.Index(val, " "); idx > 0 {
		objPrefix := strings.ToLower(strings.TrimLeft(val[idx+1:], " "))
		baseStr := val[:len(val)-len(val[idx+1:])]

		state := m.app.State()
		var names []string
		if room, ok := state.World.Rooms[state.Player.Location]; ok {
			names = append(names, room.State.VisibleObjects...)
		}
		for _, item := range state.Player.Inventory.Items {
			names = append(names, item.Name)
		}
		for _, name := range names {
			if obj, ok := state.World.Objects[name]; ok && obj.Name != "" {
				name = obj.Name
			}
			if strings.HasPrefix(strings.ToLower(name), objPrefix) && len(objPrefix) < len(name) {
				items = append(items, suggestion(baseStr+name))
			}
		}
	}
}

func (m *storyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		lsCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyUp:
			if m.showList {
				m.suggestions, lsCmd = m.suggestions.Update(msg)
			} else {
				if len(m.history) > 0 {
					if m.historyIdx == -1 {
						m.historyIdx = len(m.history) - 1
					} else if m.historyIdx > 0 {
						m.historyIdx--
					}
					m.textInput.SetValue(m.history[m.historyIdx])
					m.updateSuggestions()
				}
			}

		case tea.KeyDown:
			if m.showList {
				m.suggestions, lsCmd = m.suggestions.Update(msg)
			} else {
				if len(m.history) > 0 && m.historyIdx != -1 {
					if m.historyIdx < len(m.history)-1 {
						m.historyIdx++
						m.textInput.SetValue(m.history[m.historyIdx])
					} else {
						m.historyIdx = -1
						m.textInput.SetValue("")
					}
					m.updateSuggestions()
				}
			}

		case tea.KeyTab:
			if m.showList {
				if i, ok := m.suggestions.SelectedItem().(suggestion); ok {
					m.textInput.SetValue(string(i))
					m.textInput.SetCursor(len(string(i)))
					m.updateSuggestions()
				}
			}

		case tea.KeyEnter:
			val := strings.TrimSpace(m.textInput.Value())
			if val == "exit" || val == "quit" {
				return m, tea.Quit
			}

			if val != "" {
				// Prevent duplicate history entries
				if len(m.history) == 0 || m.history[len(m.history)-1] != val {
					m.history = append(m.history, val)
				}
				m.historyIdx = -1
				m.textInput.SetValue("")
				m.updateSuggestions()

				m.logContent += fmt.Sprintf("\n\n> %s\n", val)
				result := m.app.Execute(val)
				m.logContent += result.Message

				m.viewport.SetContent(m.logContent)
				m.viewport.GotoBottom()
			}
		default:
			// Normal typing
			m.textInput, tiCmd = m.textInput.Update(msg)
			m.updateSuggestions()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - 20 // Initial conservative estimate
		if m.viewport.Height < 5 {
			m.viewport.Height = 5
		}
		m.suggestions.SetWidth(msg.Width - 6)
	}

	m.viewport, vpCmd = m.viewport.Update(msg)

	// Calculate accurate heights for dynamic components
	titleH := lipgloss.Height(titleStyle.Render("Dummy"))
	stateH := lipgloss.Height(m.renderState())
	inputH := 1

	listAreaHeight := 0
	if m.showList {
		listAreaHeight = m.suggestions.Height() + 2 // +2 for autocompleteStyle borders
	}

	infoH := lipgloss.Height(infoStyle.Render("Dummy"))
	paddingH := 7

	overhead := titleH + stateH + inputH + listAreaHeight + infoH + paddingH + 4

	m.viewport.Height = m.height - overhead
	if m.viewport.Height < 4 {
		m.viewport.Height = 4
	}

	return m, tea.Batch(tiCmd, vpCmd, lsCmd)
}

func (m *storyModel) renderState() string {
	state := m.app.State()

	stateView := fmt.Sprintf("Location: %s\n", state.Player.Location)
	stateView += fmt.Sprintf("Turn: %d   Health: %d/%d\n",
		state.World.TurnNumber, state.Player.Health, state.Player.MaxHealth)

	inv := state.Player.Inventory
	if len(inv.Items) == 0 {
		stateView += "Carrying: nothing"
	} else {
		var names []string
		for _, item := range inv.Items {
			names = append(names, item.Name)
		}
		stateView += fmt.Sprintf("Carrying: %s (%.1f/%.1f kg)",
			strings.Join(names, ", "), inv.TotalWeight, inv.MaxCapacity)
	}

	stats := state.Progress.Stats
	stateView += fmt.Sprintf("\nExplored: %d rooms   Puzzles solved: %d",
		stats.RoomsExplored, stats.PuzzlesSolved)

	return stateBoxStyle.Width(m.width - 4).Render(stateView)
}

func (m *storyModel) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	title := titleStyle.Render(fmt.Sprintf(" Fable | %s ", m.packName))
	stateBox := m.renderState()
	logBox := logBoxStyle.Width(m.width - 4).Render(m.viewport.View())

	var inputArea string
	if m.showList {
		inputArea = fmt.Sprintf("%s\n%s", m.textInput.View(), autocompleteStyle.Render(m.suggestions.View()))
	} else {
		inputArea = m.textInput.View()
	}

	mainView := lipgloss.JoinVertical(lipgloss.Left,
		title,
		stateBox,
		logBox,
		"\n",
		inputArea,
		infoStyle.Render("(esc to quit, tab to complete, up/down history)"),
	)

	return mainView + strings.Repeat("\n", 7)
}

func RunTUI(app *session.Session, packName string) error {
	m := newStoryModel(app, packName)
	p := tea.NewProgram(&m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
