// Tally is a four-function terminal calculator. Without a subcommand it
// starts an interactive keypad UI; subcommands evaluate key sequences, run
// key scripts, and serve the calculator over MCP or WebSocket.
package main

import (
	"flag"
	"fmt"
	"os"
)

const version = "0.1.0"

// commonFlags are shared by every command.
type commonFlags struct {
	configPath string
	tallyDir   string
	envFile    string
}

func registerCommonFlags(fs *flag.FlagSet) *commonFlags {
	f := &commonFlags{}
	fs.StringVar(&f.configPath, "config", "", "path to configuration file (default: .tally/config.yaml or tally.yaml)")
	fs.StringVar(&f.tallyDir, "tally-dir", ".tally", "path to .tally directory")
	fs.StringVar(&f.envFile, "env", ".env", "path to .env file (ignored if missing)")
	return f
}

const usage = `Usage: tally [flags]
       tally <command> [flags] [args]

Commands:
  init    Create a .tally directory with an interactive config wizard
  eval    Evaluate a key sequence and print the display (e.g. tally eval 1+2*3=)
  run     Run key scripts and check the expected displays
  mcp     Serve the calculator as MCP tools on stdio
  serve   Serve the calculator over WebSocket
  help    Show the key reference

Flags:
`

func main() {
	if len(os.Args) > 1 {
		if cmd, ok := commands[os.Args[1]]; ok {
			if err := cmd(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}
			return
		}
	}

	fs := flag.NewFlagSet("tally", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		fs.PrintDefaults()
	}
	flags := registerCommonFlags(fs)
	_ = fs.Parse(os.Args[1:])

	if err := runInteractive(flags); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// commands maps subcommand names to their entry points. Each receives the
// arguments after the subcommand name.
var commands = map[string]func(args []string) error{
	"init":  runInit,
	"eval":  runEval,
	"run":   runScripts,
	"mcp":   runMCP,
	"serve": runServe,
	"help":  runHelp,
}
