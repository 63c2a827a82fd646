package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/ctrlkit/internal/config"
	"github.com/san-kum/ctrlkit/internal/experiment"
)

const (
	pickPlant = iota
	pickPreset
	pickTune
)

var plantInfo = map[string]string{
	"spring_mass": "damped oscillator, position loop",
	"pendulum":    "angular loop, wraps at ±π",
	"motor":       "first-order speed loop",
}

// Picker chooses a plant and preset, then runs the tuning Model.
type Picker struct {
	reg     *experiment.Registry
	stage   int
	cursor  int
	plants  []string
	presets []string
	plant   string
	tune    Model
	err     error
	style   styles
}

func NewPicker(reg *experiment.Registry) Picker {
	return Picker{
		reg:    reg,
		plants: reg.ListPlants(),
		style:  newStyles(Themes[0]),
	}
}

func (p Picker) Init() tea.Cmd { return nil }

func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if p.stage == pickTune {
		next, cmd := p.tune.Update(msg)
		p.tune = next.(Model)
		return p, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	items := p.items()
	switch key.String() {
	case "q", "ctrl+c":
		return p, tea.Quit
	case "esc", "backspace":
		if p.stage == pickPreset {
			p.stage, p.cursor = pickPlant, 0
		}
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(items)-1 {
			p.cursor++
		}
	case "enter", " ":
		if len(items) == 0 {
			return p, nil
		}
		return p.choose(items[p.cursor])
	}
	return p, nil
}

func (p Picker) items() []string {
	if p.stage == pickPlant {
		return p.plants
	}
	return p.presets
}

func (p Picker) choose(item string) (Picker, tea.Cmd) {
	if p.stage == pickPlant {
		p.plant = item
		p.presets = append([]string{"default"}, config.ListPresets(item)...)
		p.stage, p.cursor = pickPreset, 0
		return p, nil
	}

	cfg := config.GetPreset(p.plant, item)
	if cfg == nil {
		cfg = config.DefaultConfig()
		cfg.Plant = p.plant
	}
	exp, err := experiment.New(cfg, p.reg)
	if err != nil {
		p.err = err
		return p, nil
	}
	tune, err := NewModel(exp)
	if err != nil {
		p.err = err
		return p, nil
	}
	p.tune, p.stage, p.err = tune, pickTune, nil
	return p, tune.Init()
}

func (p Picker) View() string {
	if p.stage == pickTune {
		return p.tune.View()
	}

	var s strings.Builder
	if p.stage == pickPlant {
		s.WriteString(p.style.header.Render("CTRLKIT  select a plant") + "\n\n")
	} else {
		s.WriteString(p.style.header.Render(strings.ToUpper(p.plant)+"  select a preset") + "\n\n")
	}
	for i, item := range p.items() {
		line := item
		if desc, ok := plantInfo[item]; ok && p.stage == pickPlant {
			line = fmt.Sprintf("%-12s %s", item, desc)
		}
		if i == p.cursor {
			s.WriteString(p.style.active.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + line + "\n")
		}
	}
	if p.err != nil {
		s.WriteString("\n" + p.style.failed.Render(p.err.Error()) + "\n")
	}
	s.WriteString(p.style.help.Render("↑↓:move Enter:select Esc:back q:quit"))
	return p.style.panel.Render(s.String())
}

// RunPicker opens the picker on the alternate screen.
func RunPicker(reg *experiment.Registry) error {
	_, err := tea.NewProgram(NewPicker(reg), tea.WithAltScreen()).Run()
	return err
}
