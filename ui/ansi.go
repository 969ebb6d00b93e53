package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v3"
	"github.com/gdamore/tcell/v3/color"
	"github.com/leaanthony/go-ansi-parser"
)

// DrawBytesMultiline renders ANSI colored text from (startX, startY) to the
// bottom of the screen, keeping the newest lines when it does not fit.
func DrawBytesMultiline(s tcell.Screen, startX, startY int, buffer []byte) {
	parsed, err := ansi.Parse(string(buffer))
	if err != nil {
		drawPlain(s, startX, startY, StripColorCodes(buffer))
		return
	}
	maxX, _ := s.Size()
	drawStyledText(s, startX, startY, fitToWidth(startX, maxX, parsed))
}

func drawPlain(s tcell.Screen, startX, startY int, text string) {
	lines := strings.Split(text, "\n")
	_, maxY := s.Size()
	rows := maxY - startY
	if len(lines) > rows {
		lines = lines[len(lines)-rows:]
	}
	for i, line := range lines {
		for j, r := range []rune(line) {
			s.SetContent(startX+j, startY+i, r, nil, tcell.StyleDefault)
		}
	}
}

// drawStyledText renders the last lines that fit below yStart.
func drawStyledText(s tcell.Screen, xStart, yStart int, lines [][]*ansi.StyledText) {
	_, yMax := s.Size()
	rows := yMax - yStart
	first := max(len(lines)-rows, 0)
	for i, line := range lines[first:] {
		x := xStart
		y := yStart + i
		for _, seg := range line {
			style := convertStyle(seg)
			for _, r := range seg.Label {
				s.SetContent(x, y, r, nil, style)
				x++
			}
		}
	}
}

// fitToWidth splits the parsed sections into screen lines at newlines and at
// the right edge, preserving each section's style.
func fitToWidth(startX, maxX int, parsed []*ansi.StyledText) [][]*ansi.StyledText {
	lines := make([][]*ansi.StyledText, 0)
	current := make([]*ansi.StyledText, 0)
	label := strings.Builder{}
	col := startX
	flush := func(section *ansi.StyledText) {
		if label.Len() == 0 {
			return
		}
		current = append(current, &ansi.StyledText{
			Label:      label.String(),
			FgCol:      section.FgCol,
			BgCol:      section.BgCol,
			Style:      section.Style,
			ColourMode: section.ColourMode,
			Len:        label.Len(),
		})
		label.Reset()
	}
	for _, section := range parsed {
		for _, r := range section.Label {
			if r == '\n' || col >= maxX {
				flush(section)
				lines = append(lines, current)
				current = make([]*ansi.StyledText, 0)
				col = startX
				if r == '\n' {
					continue
				}
			}
			label.WriteRune(r)
			col++
		}
		flush(section)
	}
	if len(current) > 0 {
		lines = append(lines, current)
	}
	return lines
}

func StripColorCodes(buf []byte) string {
	result, err := ansi.Cleanse(string(buf), ansi.WithIgnoreInvalidCodes())
	if err != nil {
		return fmt.Sprintf("Failed to strip color codes: %v", err)
	}
	return result
}
func convertStyle(t *ansi.StyledText) tcell.Style {
	style := tcell.StyleDefault
	if t == nil {
		return style
	}
	if t.FgCol != nil {
		style = style.Foreground(convertStyleColor(t.FgCol))
	}
	if t.BgCol != nil {
		style = style.Background(convertStyleColor(t.BgCol))
	}
	if t.Bold() {
		style = style.Bold(true)
	}
	if t.Faint() {
		style = style.Dim(true)
	}
	if t.Italic() {
		style = style.Italic(true)
	}
	if t.Underlined() {
		style = style.Underline(true)
	}
	return style
}
func convertStyleColor(c *ansi.Col) color.Color {
	result := color.GetColor(strings.ToLower(c.Name))
	if result.Valid() {
		return result
	}
	return color.NewRGBColor(
		int32(c.Rgb.R),
		int32(c.Rgb.G),
		int32(c.Rgb.B),
	)
}
