package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
)

const keyReference = `# tally keys

| Key | Action |
| --- | --- |
| ` + "`0`-`9`" + ` | Append a digit (at most the configured number of significant digits) |
| ` + "`.` `,`" + ` | Append a decimal point |
| ` + "`+` `-` `*` `/`" + ` | Choose an operator; a pending calculation is evaluated first |
| ` + "`Enter` `=`" + ` | Evaluate the pending calculation |
| ` + "`Esc` `Delete` `C`" + ` | Clear everything |
| ` + "`Backspace` `<`" + ` | Delete the last character |

Operators chain left to right without precedence: ` + "`1+2*3=`" + ` shows **9**.
Dividing by zero shows **Error**; the next digit starts a new calculation.

In ` + "`tally eval`" + ` and key scripts, ` + "`C`" + ` clears and ` + "`<`" + ` deletes.
Whitespace is ignored.
`

func runHelp(args []string) error {
	fs := flag.NewFlagSet("help", flag.ExitOnError)
	width := fs.Int("width", 80, "word wrap width")
	plain := fs.Bool("plain", false, "print raw markdown")
	if err := fs.Parse(args); err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, renderHelp(*width, *plain))
	return nil
}

// renderHelp renders the key reference. It falls back to the raw markdown
// when plain is set or the renderer fails.
func renderHelp(width int, plain bool) string {
	if plain {
		return keyReference
	}

	if width <= 0 {
		width = 80
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("notty"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return keyReference
	}

	out, err := r.Render(keyReference)
	if err != nil {
		return keyReference
	}

	return strings.TrimRight(out, "\n")
}
