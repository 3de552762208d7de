package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vancomm/smines/internal/mines"
)

var (
	black      = lipgloss.Color("0")
	red        = lipgloss.Color("1")
	green      = lipgloss.Color("2")
	yellow     = lipgloss.Color("3")
	blue       = lipgloss.Color("4")
	magenta    = lipgloss.Color("5")
	cyan       = lipgloss.Color("6")
	white      = lipgloss.Color("7")
	lightBlack = lipgloss.Color("8")
	brown      = lipgloss.Color("94")
)

func pair(fg, bg lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(fg).Background(bg)
}

// surroundStyles is indexed by the number of surrounding mines.
var surroundStyles = [9]lipgloss.Style{
	pair(white, black),
	pair(white, blue),
	pair(black, green),
	pair(white, red),
	pair(black, cyan),
	pair(white, brown),
	pair(black, magenta),
	pair(white, black),
	pair(white, lightBlack),
}

var (
	hiddenStyle    = lipgloss.NewStyle().Foreground(lightBlack)
	mineStyle      = pair(red, black).Bold(true)
	safeMineStyle  = pair(green, black).Bold(true)
	flagStyle      = pair(yellow, black).Bold(true)
	wrongFlagStyle = pair(blue, black).Bold(true)
	cursorStyle    = pair(black, white)

	boardStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder())
	hintStyle  = lipgloss.NewStyle().Bold(true)
	winStyle   = lipgloss.NewStyle().Bold(true).Foreground(green)
	deathStyle = lipgloss.NewStyle().Bold(true).Foreground(red)
	errorStyle = lipgloss.NewStyle().Foreground(red)
)

// tileText is the two-column glyph for t.
func tileText(t mines.Tile, state mines.GameState) string {
	switch {
	case t.Flagged:
		if state == mines.Dead && !t.Mine {
			return "!F"
		}
		return " F"
	case t.Visible && t.Mine:
		return " X"
	case t.Visible && t.Surrounding == 0:
		return "  "
	case t.Visible:
		return " " + string(rune('0'+t.Surrounding))
	default:
		return " ?"
	}
}

func tileStyle(t mines.Tile, state mines.GameState) lipgloss.Style {
	switch {
	case t.Flagged:
		switch {
		case state == mines.Victory:
			return safeMineStyle
		case state == mines.Dead && !t.Mine:
			return wrongFlagStyle
		default:
			return flagStyle
		}
	case t.Visible && t.Mine:
		if state == mines.Victory {
			return safeMineStyle
		}
		return mineStyle
	case t.Visible:
		return surroundStyles[t.Surrounding]
	default:
		return hiddenStyle
	}
}
