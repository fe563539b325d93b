package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

type statusKind int

const (
	statusOK statusKind = iota
	statusSkip
	statusError
)

type statusStyle struct {
	tag    string
	colors text.Colors
}

var statusStyles = map[statusKind]statusStyle{
	statusOK:    {tag: "OK", colors: text.Colors{text.FgGreen}},
	statusSkip:  {tag: "SKIP", colors: text.Colors{text.FgYellow}},
	statusError: {tag: "ERROR", colors: text.Colors{text.FgRed, text.Bold}},
}

const statusLabelWidth = 28

// renderStatusLine formats one processed pair:
//
//	  ValidateNamespace            [OK]
//	  ValidateNaming · hero_model  [ERROR] name must end in _GEO
func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	style := statusStyles[kind]
	tag := "[" + style.tag + "]"
	if colorize {
		tag = style.colors.Sprint(tag)
	}
	line := "  " + text.Pad(label, statusLabelWidth, ' ') + " " + tag
	if message != "" {
		line += " " + message
	}
	return line
}

func renderSectionHeader(title string, colorize bool) []string {
	heading := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", text.StringWidthWithoutEscSequences(heading))
	if colorize {
		heading = text.Colors{text.FgBlue, text.Bold}.Sprint(heading)
		rule = text.FgBlue.Sprint(rule)
	}
	return []string{heading, rule}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
