// Package theme defines color themes for the moneymate dashboard.
package theme

import (
	"github.com/theirongolddev/moneymate/internal/model"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds the color roles the dashboard draws with.
type Theme struct {
	Name string

	Selected lipgloss.Color // selected table row
	Track    lipgloss.Color // empty part of share bars
	Border   lipgloss.Color
	Focus    lipgloss.Color // borders of the active panel

	TextDim     lipgloss.Color // axes, key hints, notes
	TextMuted   lipgloss.Color
	TextPrimary lipgloss.Color

	Accent       lipgloss.Color
	AccentBright lipgloss.Color
	Spend        lipgloss.Color // daily spending bars
	Warning      lipgloss.Color
	Error        lipgloss.Color

	Categories map[model.Category]lipgloss.Color
}

// Active is the currently selected theme.
var Active = FlexokiDark

// FlexokiDark is the default: warm inks on a paper-black background.
var FlexokiDark = Theme{
	Name:         "flexoki-dark",
	Selected:     "#282726",
	Track:        "#343331",
	Border:       "#403E3C",
	Focus:        "#3AA99F",
	TextDim:      "#575653",
	TextMuted:    "#878580",
	TextPrimary:  "#FFFCF0",
	Accent:       "#3AA99F",
	AccentBright: "#5BC8BE",
	Spend:        "#879A39",
	Warning:      "#DA702C",
	Error:        "#D14D41",
	Categories: map[model.Category]lipgloss.Color{
		model.Household:      "#4385BE",
		model.Food:           "#879A39",
		model.Transportation: "#D0A215",
		model.Entertainment:  "#CE5D97",
		model.Shopping:       "#DA702C",
		model.Other:          "#878580",
	},
}

// CatppuccinMocha uses soft pastels.
var CatppuccinMocha = Theme{
	Name:         "catppuccin-mocha",
	Selected:     "#45475A",
	Track:        "#585B70",
	Border:       "#585B70",
	Focus:        "#89B4FA",
	TextDim:      "#6C7086",
	TextMuted:    "#A6ADC8",
	TextPrimary:  "#CDD6F4",
	Accent:       "#89B4FA",
	AccentBright: "#B4D0FB",
	Spend:        "#A6E3A1",
	Warning:      "#FAB387",
	Error:        "#F38BA8",
	Categories: map[model.Category]lipgloss.Color{
		model.Household:      "#89B4FA",
		model.Food:           "#A6E3A1",
		model.Transportation: "#F9E2AF",
		model.Entertainment:  "#F5C2E7",
		model.Shopping:       "#FAB387",
		model.Other:          "#A6ADC8",
	},
}

// Terminal sticks to the 16 ANSI colors.
var Terminal = Theme{
	Name:         "terminal",
	Selected:     "8",
	Track:        "8",
	Border:       "8",
	Focus:        "6",
	TextDim:      "8",
	TextMuted:    "7",
	TextPrimary:  "15",
	Accent:       "6",
	AccentBright: "14",
	Spend:        "2",
	Warning:      "3",
	Error:        "1",
	Categories: map[model.Category]lipgloss.Color{
		model.Household:      "4",
		model.Food:           "2",
		model.Transportation: "11",
		model.Entertainment:  "5",
		model.Shopping:       "3",
		model.Other:          "7",
	},
}

// All lists the themes in the order setup offers them.
var All = []Theme{FlexokiDark, CatppuccinMocha, Terminal}

// ByName returns a theme by its name, defaulting to FlexokiDark.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return FlexokiDark
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}

// Names lists the theme names in display order.
func Names() []string {
	names := make([]string, len(All))
	for i, t := range All {
		names[i] = t.Name
	}
	return names
}

// CategoryColor returns the color used for a spending category.
func (t Theme) CategoryColor(c model.Category) lipgloss.Color {
	if col, ok := t.Categories[c]; ok {
		return col
	}
	return t.TextMuted
}
