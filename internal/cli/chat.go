// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat command handler for the persona CLI.
//
// USABILITY: Markdown-free plain REPL with input history
//
// Handles the "persona chat" command, a readline-style loop that
// streams replies from the active persona. The richer experience is
// the TUI; this exists for quick shells and remote sessions.
//
// Command: chat
//
// Interactive Commands (during chat):
//   /persona [id|name]  Show or switch persona
//   /new                Start a new conversation
//   /artifacts          List artifacts from this conversation
//   /quit, /q           Exit chat
//   Ctrl+C              Cancel current generation
//   Ctrl+D              Exit chat
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"github.com/jeranaias/persona-tui/internal/config"
	"github.com/jeranaias/persona-tui/internal/session"
	"github.com/jeranaias/persona-tui/internal/util"
)

// ChatCLI provides input history and line editing for interactive chat.
// USABILITY: Supports arrow keys for history navigation and line editing.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a new ChatCLI with input history support.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	cli := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
	}
	cli.LoadHistory()
	return cli
}

// LoadHistory loads command history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line of input with the given prompt.
// Supports history navigation with arrow keys.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists command history with owner-only permissions.
func (c *ChatCLI) SaveHistory() {
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and closes the liner.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// HandleChat runs the interactive chat REPL.
func HandleChat(args Args) error {
	if err := RequiresTTY("chat"); err != nil {
		return err
	}

	app, err := NewApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.ApplyPersonaFlag(args); err != nil {
		return err
	}
	app.ApplyModelFlag(args)

	if !app.Client.IsConfigured() && !args.Quiet {
		fmt.Println(WarningStyle.Render("No API key configured. Run 'persona setup' first."))
	}

	input := NewChatCLI()
	defer input.Close()

	persona := app.Store.ActivePersona()
	if !args.Quiet {
		fmt.Printf("%s %s\n",
			TitleStyle.Render("persona chat"),
			DimStyle.Render("("+persona.Name+")"))
		fmt.Println(DimStyle.Render("Type /help for commands, Ctrl+D to exit."))
	}

	// Ctrl+C during generation cancels the stream instead of killing
	// the process. Between prompts liner handles it via ErrPromptAborted.
	var cancelCurrent context.CancelFunc
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		for range sigChan {
			if cancelCurrent != nil {
				cancelCurrent()
			}
		}
	}()

	for {
		text, err := input.ReadInput(PromptStyle.Render("you> "))
		if err != nil {
			// ErrPromptAborted is Ctrl+C, anything else is EOF.
			if !errors.Is(err, liner.ErrPromptAborted) {
				fmt.Println()
			}
			return nil
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		if strings.HasPrefix(text, "/") {
			if quit := handleSlashCommand(app, text); quit {
				return nil
			}
			continue
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancelCurrent = cancel
		err = streamReply(ctx, app, text)
		cancelCurrent = nil
		cancel()

		if err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", ErrorStyle.Render("[error]"), err)
		}
	}
}

// streamReply submits one message and prints the reply as it arrives.
func streamReply(ctx context.Context, app *App, text string) error {
	persona := app.Store.ActivePersona()
	fmt.Printf("%s ", PersonaStyle.Render(persona.Name+">"))

	var printed int
	result, err := app.Orchestrator.Submit(ctx, text, func(partial string) {
		// partial is the accumulated reply; print only the new suffix.
		fmt.Print(partial[printed:])
		printed = len(partial)
	})
	fmt.Println()

	if err != nil {
		if errors.Is(err, session.ErrBusy) {
			return err
		}
		// The orchestrator already recorded a fallback reply; show it
		// if nothing streamed.
		if result != nil && result.Message != nil && printed == 0 {
			fmt.Println(result.Message.Content)
		}
		return err
	}

	if result != nil && len(result.Artifacts) > 0 {
		for _, a := range result.Artifacts {
			fmt.Println(DimStyle.Render(fmt.Sprintf("  [artifact] %s (%s)", a.Title, a.Type)))
		}
	}
	return nil
}

// handleSlashCommand processes a /command. Returns true to exit.
func handleSlashCommand(app *App, input string) bool {
	fields := strings.Fields(input)
	cmd := strings.ToLower(fields[0])

	switch cmd {
	case "/quit", "/q", "/exit":
		return true

	case "/help", "/h":
		fmt.Println(ValueStyle.Render(`  /persona [id|name]  Show or switch persona
  /new                Start a new conversation
  /artifacts          List artifacts from this conversation
  /quit, /q           Exit chat`))

	case "/new":
		app.Store.SetActiveConversationID("")
		fmt.Println(SuccessStyle.Render("Started a new conversation."))

	case "/persona":
		if len(fields) == 1 {
			printPersonaList(app)
			break
		}
		name := strings.Join(fields[1:], " ")
		if err := app.ApplyPersonaFlag(Args{Persona: name}); err != nil {
			fmt.Println(ErrorStyle.Render(err.Error()))
			break
		}
		fmt.Println(SuccessStyle.Render("Switched to " + app.Store.ActivePersona().Name + "."))

	case "/artifacts":
		printConversationArtifacts(app)

	default:
		fmt.Println(WarningStyle.Render("Unknown command: " + cmd))
	}
	return false
}

func printPersonaList(app *App) {
	active := app.Store.ActivePersona()
	for _, p := range app.Store.Personas() {
		marker := "  "
		if p.ID == active.ID {
			marker = SuccessStyle.Render("* ")
		}
		fmt.Printf("%s%s %s\n", marker,
			PersonaStyle.Render(p.Name),
			DimStyle.Render(p.ID))
	}
}

func printConversationArtifacts(app *App) {
	convID := app.Store.ActiveConversationID()
	if convID == "" {
		fmt.Println(DimStyle.Render("No active conversation."))
		return
	}
	var shown int
	for _, a := range app.Store.Artifacts() {
		if a.ConversationID != convID {
			continue
		}
		shown++
		fmt.Printf("  %s %s %s\n",
			ValueStyle.Render(a.Title),
			DimStyle.Render("("+string(a.Type)+")"),
			DimStyle.Render(util.TruncateRunes(util.FirstLine(a.Content), 40)))
	}
	if shown == 0 {
		fmt.Println(DimStyle.Render("No artifacts in this conversation."))
	}
}
