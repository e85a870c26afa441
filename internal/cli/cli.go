// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for persona.
//
// CLI: Comprehensive help and examples for all commands
package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdChat
	CmdSetup
	CmdValidate
	CmdStatus
	CmdConfig
	CmdSession
	CmdArtifact
	CmdPersona
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool
	Model   string
	Persona string

	// Command-specific
	ConfigKey  string
	ConfigVal  string
	Subcommand string

	// Raw args (remaining after flag parsing)
	Raw []string

	// Options holds command-specific named options (e.g., --format, --limit)
	Options map[string]string
}

const usageText = `persona - persona-based AI chat for the terminal

Persona is a terminal client for OpenRouter that lets you chat with
configurable AI personas, each with its own system prompt, model, and
temperature. Code blocks in replies are captured as browsable artifacts.

Usage:
  persona                         Start TUI (default)
  persona chat                    Interactive chat (plain REPL)
  persona setup                   First-run wizard (API key entry)
  persona validate                Validate the configured API key
  persona status, s               Show configuration status
  persona config [show|set]       Configuration management
  persona session, sessions       Conversation management
  persona artifact, artifacts     Artifact management
  persona persona, personas       Persona management
  persona version, -v             Show version
  persona help, -h                Show this help

Chat Commands (during chat):
  /persona [name]                 Show or switch persona
  /new                            Start a new conversation
  /artifacts                      List artifacts from this conversation
  /quit, /q                       Exit chat
  Ctrl+C                          Cancel current generation
  Ctrl+D                          Exit chat

Session Commands:
  persona session list            List saved conversations
  persona session show <id>       Print a conversation transcript
  persona session export <id>     Export a conversation
    --format md|json              Export format (default: md)
    --output DIR                  Output directory (default: current)
  persona session delete <id>     Delete a conversation
    --confirm                     Required confirmation flag

Artifact Commands:
  persona artifact list           List extracted artifacts
  persona artifact search <text>  Full-text search over artifacts
    --limit N                     Maximum results (default: 20)
  persona artifact show <id>      Print artifact content
  persona artifact delete <id>    Delete an artifact
    --confirm                     Required confirmation flag
  persona artifact rebuild        Rebuild the search index from state

Persona Commands:
  persona persona list            List personas
  persona persona use <id|name>   Set the active persona
  persona persona create <name>   Create a persona
    --prompt TEXT                 System prompt
    --model NAME                  Model override
  persona persona delete <id>     Delete a persona (default is kept)

Config Commands:
  persona config show             Show current configuration
  persona config get <key>        Print a single value
  persona config set <key> <val>  Set a configuration value
  persona config path             Print the config file path
                                  Keys: base_url, theme, data_dir,
                                  timeout_secs, encrypt_key, show_timestamps

Global Flags:
  -m, --model NAME                Override the model for this invocation
  -p, --persona NAME              Use a specific persona for this invocation
  -q, --quiet                     Minimal output
  -v, --verbose                   Verbose output
  --json                          Output in JSON format

Environment:
  PERSONA_OPENROUTER_KEY          API key (overrides stored key)
  PERSONA_BASE_URL                API base URL
  PERSONA_DATA_DIR                State directory (default ~/.persona)
  PERSONA_THEME                   UI theme (dark|light)
  NO_COLOR                        Disable colored output
`

// Parse parses os.Args and returns the command to run plus its arguments.
func Parse() (Command, Args) {
	return parse(os.Args[1:])
}

// parse is the testable core of Parse.
func parse(argv []string) (Command, Args) {
	remaining, args := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdTUI, args
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	args.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, args

	case "chat":
		return CmdChat, args

	case "setup", "init":
		return CmdSetup, args

	case "validate", "validate-key":
		return CmdValidate, args

	case "status", "s":
		return CmdStatus, args

	case "config":
		parseSubcommandArgs(&args, remaining)
		return CmdConfig, args

	case "session", "sessions":
		parseSubcommandArgs(&args, remaining)
		return CmdSession, args

	case "artifact", "artifacts":
		parseSubcommandArgs(&args, remaining)
		return CmdArtifact, args

	case "persona", "personas":
		parseSubcommandArgs(&args, remaining)
		return CmdPersona, args

	case "version", "--version":
		return CmdVersion, args

	case "help", "--help":
		return CmdHelp, args

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		return CmdHelp, args
	}
}

// parseGlobalFlags extracts global flags from the argument list and
// returns the remaining positional arguments.
func parseGlobalFlags(argv []string) ([]string, Args) {
	args := Args{Options: make(map[string]string)}
	var remaining []string

	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		switch arg {
		case "-q", "--quiet":
			args.Quiet = true
		case "--verbose":
			args.Verbose = true
		case "--json":
			args.JSON = true
		case "-m", "--model":
			if i+1 < len(argv) {
				i++
				args.Model = argv[i]
			}
		case "-p", "--persona":
			if i+1 < len(argv) {
				i++
				args.Persona = argv[i]
			}
		case "-v":
			// -v at the top level means version; after a command it is
			// verbose. Disambiguate by position.
			if len(remaining) == 0 {
				remaining = append(remaining, "version")
			} else {
				args.Verbose = true
			}
		case "-h", "--help":
			remaining = append(remaining, "help")
		default:
			if strings.HasPrefix(arg, "--") {
				// Named option: --key value or --key=value
				key := strings.TrimPrefix(arg, "--")
				if eq := strings.IndexByte(key, '='); eq >= 0 {
					args.Options[key[:eq]] = key[eq+1:]
				} else if i+1 < len(argv) && !strings.HasPrefix(argv[i+1], "-") {
					i++
					args.Options[key] = argv[i]
				} else {
					args.Options[key] = "true"
				}
			} else {
				remaining = append(remaining, arg)
			}
		}
	}

	return remaining, args
}

// parseSubcommandArgs records the first positional argument as the
// subcommand for commands that have one.
func parseSubcommandArgs(args *Args, remaining []string) {
	if len(remaining) > 0 {
		args.Subcommand = strings.ToLower(remaining[0])
		args.Raw = remaining[1:]
	}
}

// HandleVersion prints version information.
func HandleVersion(args Args) error {
	if args.JSON {
		fmt.Printf("{\"version\":%q,\"commit\":%q,\"built\":%q,\"go\":%q}\n",
			Version, GitCommit, BuildDate, runtime.Version())
		return nil
	}
	fmt.Printf("persona %s (commit %s, built %s, %s)\n",
		Version, GitCommit, BuildDate, runtime.Version())
	return nil
}

// HandleHelp prints usage text.
func HandleHelp() error {
	fmt.Print(usageText)
	return nil
}
