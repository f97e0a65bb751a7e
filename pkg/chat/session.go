// Package chat implements the interactive conversation loop: a line-oriented
// REPL that accumulates message history and feeds it back to the AI service
// on each turn.
package chat

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/monk-manager/monk/pkg/ai"
	"github.com/monk-manager/monk/pkg/render"
)

// Chatter is the slice of the AI service the session dispatches to.
type Chatter interface {
	Chat(ctx context.Context, history []ai.Message, projectContext string) (string, error)
}

// Session runs one interactive conversation. At most one AI call is in
// flight at a time; the loop blocks on it. History only ever grows for the
// lifetime of the session.
type Session struct {
	In       io.Reader
	Out      io.Writer
	AI       Chatter
	Dir      string // working directory, described to the model as project context
	Log      *slog.Logger
	Renderer *render.Renderer

	history History
}

// History returns a copy of the conversation transcript so far.
func (s *Session) History() []ai.Message {
	return s.history.Messages()
}

// Run reads user input until /exit, /quit, or EOF. A failed turn is
// reported and the session continues; the unanswered user message stays in
// history so the question is not silently lost.
func (s *Session) Run(ctx context.Context) error {
	if s.Log == nil {
		s.Log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	fmt.Fprintln(s.Out, render.Banner.Render("Welcome to monk interactive mode!"))
	fmt.Fprintln(s.Out, render.Banner.Render("Project directory: "+s.Dir))
	fmt.Fprintln(s.Out, render.Banner.Render("Type your message and press Enter to send."))
	fmt.Fprintln(s.Out, render.Banner.Render("Type '/help' for assistance or '/exit' to quit."))
	fmt.Fprintln(s.Out)

	scanner := bufio.NewScanner(s.In)
	for {
		fmt.Fprint(s.Out, ">> ")
		if !scanner.Scan() {
			break // EOF is a clean exit
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		switch input {
		case "/exit", "/quit":
			fmt.Fprintln(s.Out, render.Banner.Render("\nExiting monk."))
			return nil
		case "/help":
			s.printHelp()
			continue
		}

		s.dispatch(ctx, input)
	}

	return scanner.Err()
}

// dispatch runs one conversation turn: append the user message, send the
// full history, and render the reply or the failure.
func (s *Session) dispatch(ctx context.Context, input string) {
	s.history.Append(ai.RoleUser, input)

	fmt.Fprint(s.Out, render.Thinking.Render("Thinking..."))

	reply, err := s.AI.Chat(ctx, s.history.Messages(), "Current directory: "+s.Dir)

	fmt.Fprint(s.Out, "\r\x1b[K")

	if err != nil {
		s.Log.Warn("chat turn failed", "error", err, "kind", string(ai.KindOf(err)))
		fmt.Fprintln(s.Out, render.Error.Render("Error getting AI response: "+err.Error()))
		fmt.Fprintln(s.Out, render.Error.Render("Please check your API key and internet connection."))
		fmt.Fprintln(s.Out)
		return
	}

	s.history.Append(ai.RoleAssistant, reply)
	fmt.Fprintln(s.Out, s.Renderer.Response(reply))
	fmt.Fprintln(s.Out)
}

func (s *Session) printHelp() {
	fmt.Fprintln(s.Out)
	fmt.Fprintln(s.Out, render.Banner.Render("Available commands:"))
	fmt.Fprintln(s.Out, "  /help - Display this help message")
	fmt.Fprintln(s.Out, "  /exit or /quit - Exit the session")
	fmt.Fprintln(s.Out)
}
