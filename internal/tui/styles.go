package tui

import "github.com/charmbracelet/lipgloss"

// Palette
var (
	colorText    = lipgloss.Color("252")
	colorMuted   = lipgloss.Color("243")
	colorAccent  = lipgloss.Color("203")
	colorDone    = lipgloss.Color("114")
	colorSurface = lipgloss.Color("238")
	colorWarn    = lipgloss.Color("221")
)

// Styles holds every style the model renders with
type Styles struct {
	Title       lipgloss.Style
	Clock       lipgloss.Style
	Panel       lipgloss.Style
	Display     lipgloss.Style
	DisplayDone lipgloss.Style
	Status      lipgloss.Style
	BarFilled   lipgloss.Style
	BarEmpty    lipgloss.Style
	Preset      lipgloss.Style
	PresetOn    lipgloss.Style
	StatValue   lipgloss.Style
	StatLabel   lipgloss.Style
	Task        lipgloss.Style
	TaskDone    lipgloss.Style
	TaskTime    lipgloss.Style
	Cursor      lipgloss.Style
	Error       lipgloss.Style
	Help        lipgloss.Style
	Modal       lipgloss.Style
}

func NewStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true),
		Clock: lipgloss.NewStyle().
			Foreground(colorMuted),
		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface).
			Padding(0, 2),
		Display: lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true),
		DisplayDone: lipgloss.NewStyle().
			Foreground(colorDone).
			Bold(true),
		Status: lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true),
		BarFilled: lipgloss.NewStyle().
			Foreground(colorAccent),
		BarEmpty: lipgloss.NewStyle().
			Foreground(colorSurface),
		Preset: lipgloss.NewStyle().
			Foreground(colorMuted),
		PresetOn: lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true),
		StatValue: lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true),
		StatLabel: lipgloss.NewStyle().
			Foreground(colorMuted),
		Task: lipgloss.NewStyle().
			Foreground(colorText),
		TaskDone: lipgloss.NewStyle().
			Foreground(colorMuted).
			Strikethrough(true),
		TaskTime: lipgloss.NewStyle().
			Foreground(colorMuted),
		Cursor: lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true),
		Error: lipgloss.NewStyle().
			Foreground(colorWarn),
		Help: lipgloss.NewStyle().
			Foreground(colorMuted),
		Modal: lipgloss.NewStyle().
			BorderStyle(lipgloss.DoubleBorder()).
			BorderForeground(colorDone).
			Padding(1, 4),
	}
}
