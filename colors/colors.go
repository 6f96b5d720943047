package colors

import (
	"fmt"

	"github.com/fatih/color"
)

var (
	Red    = color.New(color.FgRed).SprintFunc()
	Yellow = color.New(color.FgYellow).SprintFunc()
	Green  = color.New(color.FgGreen).SprintFunc()
	Blue   = color.New(color.FgBlue).SprintFunc()
	Cyan   = color.New(color.FgCyan).SprintFunc()
)

// Prefix returns a log prefix i.e. "[name] " in the given color
func Prefix(name string, colorFunc func(a ...interface{}) string) string {
	return colorFunc(fmt.Sprintf("[%s] ", name))
}
