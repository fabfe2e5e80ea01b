// Command nesdbg is a terminal debugger for the 6502/2A03 core built on
// bubbletea/lipgloss, grounded on hejops-gone's cpu/debugger.go: a
// single-step loop that renders register/flag state and a scrollback of
// trace lines, driven entirely by key presses rather than a cycle budget.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/go6502/nescore/bus"
	"github.com/go6502/nescore/cpu"
	"github.com/go6502/nescore/rom"
)

var (
	regStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	haltedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	historyLines = 20
)

type model struct {
	chip    *cpu.Chip
	history []string
	err     error
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "s", " ":
		if m.err == nil {
			line := m.chip.TraceLine()
			if _, err := m.chip.Step(); err != nil {
				m.err = err
			}
			m.history = append(m.history, line)
			if len(m.history) > historyLines {
				m.history = m.history[len(m.history)-historyLines:]
			}
		}
	case "r":
		m.chip.Reset()
		m.history = nil
		m.err = nil
	}
	return m, nil
}

func (m model) View() string {
	r := m.chip.Reg
	regs := regStyle.Render(fmt.Sprintf(
		"PC:%04X A:%02X X:%02X Y:%02X P:%02X SP:%02X CYC:%d",
		r.PC, r.A, r.X, r.Y, r.P, r.SP, m.chip.TotalCycles))

	out := regs + "\n\n"
	for _, line := range m.history {
		out += line + "\n"
	}
	if m.err != nil {
		out += "\n" + haltedStyle.Render(m.err.Error()) + "\n"
	}
	out += "\n[s/space] step  [r] reset  [q] quit\n"
	return out
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: nesdbg <rom-file>")
		os.Exit(1)
	}
	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	image, err := rom.Load(data)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if !image.Supported() {
		fmt.Fprintln(os.Stderr, rom.ErrUnsupportedMapper{MapperID: image.MapperID})
		os.Exit(1)
	}

	b := bus.New()
	b.LoadROM(image)
	chip := cpu.NewChip(b, nil, nil)
	chip.PowerOn()

	p := tea.NewProgram(model{chip: chip})
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
