package ui

import (
	"fmt"
	"log"
	"strings"

	"github.com/aziis98/striplines/internal/util"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	// Lipgloss styles
	docStyle = lipgloss.NewStyle().
			Margin(1, 2, 0, 2)
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("63")).
			Bold(true)
	prefixStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
	outputStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			PaddingRight(2)
)

// UI handles the interactive terminal user interface
type UI struct {
	prefix  *string
	verbose bool
}

// New creates a new UI handler. A nil prefix is inferred from the input.
func New(prefix *string, verbose bool) *UI {
	return &UI{
		prefix:  prefix,
		verbose: verbose,
	}
}

// HandleLiveCommand starts the interactive dedent playground
func (u *UI) HandleLiveCommand() error {
	program := tea.NewProgram(u.initialLiveModel(), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

// Preview is what the playground shows for a given input
type Preview struct {
	Prefix string
	Output string
	Err    error
}

// NewPreview dedents text the same way strip does
func NewPreview(text string, prefix *string) Preview {
	var p Preview

	if prefix != nil {
		p.Prefix = *prefix
	} else {
		inferred, err := util.InferPrefix(text)
		if err != nil {
			p.Err = err
			return p
		}
		p.Prefix = inferred
	}

	p.Output, p.Err = util.DedentPrefix(text, p.Prefix)
	return p
}

// VisiblePrefix spells out whitespace so it can be told apart on screen
func VisiblePrefix(prefix string) string {
	if prefix == "" {
		return "(none)"
	}
	r := strings.NewReplacer(" ", "·", "\t", "→")
	return fmt.Sprintf("%s (%d chars)", r.Replace(prefix), len([]rune(prefix)))
}

// --- Bubble Tea Model for the live playground ---

type liveModel struct {
	input   textarea.Model
	output  viewport.Model
	prefix  *string
	verbose bool
	preview Preview
	width   int
	height  int
}

func (u *UI) initialLiveModel() liveModel {
	ta := textarea.New()
	ta.Placeholder = "Paste or type an indented block, end it with a new line..."
	ta.ShowLineNumbers = true
	ta.SetWidth(78)
	ta.SetHeight(10)
	ta.Focus()

	vp := viewport.New(78, 10) // Initial size, will be updated
	vp.Style = outputStyle

	return liveModel{
		input:   ta,
		output:  vp,
		prefix:  u.prefix,
		verbose: u.verbose,
		width:   80,
	}
}

func (m liveModel) Init() tea.Cmd {
	return textarea.Blink
}

func (m liveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Split the screen between input and output, leaving room for the
		// title, the prefix line and help.
		available := max(10, m.height-8)
		m.input.SetWidth(msg.Width - 6)
		m.input.SetHeight(available / 2)
		m.output.Width = msg.Width - 4
		m.output.Height = available - available/2

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "pgup":
			m.output.ViewUp()
		case "pgdown":
			m.output.ViewDown()
		}
	}

	var cmd tea.Cmd
	oldValue := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	if m.input.Value() != oldValue {
		m.refresh()
	}

	m.output, cmd = m.output.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *liveModel) refresh() {
	m.preview = NewPreview(m.input.Value(), m.prefix)
	if m.verbose {
		log.Printf("Preview prefix %q, err: %v", m.preview.Prefix, m.preview.Err)
	}
	m.output.SetContent(m.preview.Output)
	m.output.GotoTop()
}

func (m liveModel) View() string {
	content := titleStyle.Render("striplines live") + "\n"
	content += m.input.View() + "\n"

	label := "Prefix: "
	if m.prefix == nil {
		label = "Inferred prefix: "
	}

	if m.preview.Err != nil {
		content += errorStyle.Render(fmt.Sprintf(" Error: %v", m.preview.Err)) + "\n"
	} else {
		content += " " + label + prefixStyle.Render(VisiblePrefix(m.preview.Prefix)) + "\n"
	}

	content += m.output.View()
	content += "\n" + helpStyle.Render("Press ctrl+c/esc to quit • pgup/pgdown to scroll the output")

	return docStyle.Render(content)
}
