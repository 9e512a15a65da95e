package repl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"cfanalyzer/internal/cli/command"
	httpclient "cfanalyzer/internal/cli/http"
	"cfanalyzer/internal/cli/render"
	"cfanalyzer/internal/cli/state"
	appErr "cfanalyzer/pkg/errors"

	"github.com/chzyer/readline"
	"github.com/google/shlex"
)

const prompt = "cf> "

var errExit = errors.New("exit")

// LineReader is the part of readline the session needs.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(string)
}

// Session holds REPL state.
type Session struct {
	client     *httpclient.Client
	commands   map[string]command.Command
	state      *state.SessionState
	statePath  string
	prettyJSON bool
	in         LineReader
	out        io.Writer
}

func New(client *httpclient.Client, commands map[string]command.Command, st *state.SessionState, statePath string, prettyJSON bool, in LineReader, out io.Writer) *Session {
	return &Session{
		client:     client,
		commands:   commands,
		state:      st,
		statePath:  statePath,
		prettyJSON: prettyJSON,
		in:         in,
		out:        out,
	}
}

// NewReadline opens an interactive terminal with history and completion.
func NewReadline(historyPath string, commands map[string]command.Command) (*readline.Instance, error) {
	items := make([]readline.PrefixCompleterInterface, 0, len(commands)+5)
	for _, name := range command.Names(commands) {
		items = append(items, readline.PcItem(name))
	}
	items = append(items,
		readline.PcItem("set", readline.PcItem("base"), readline.PcItem("timeout")),
		readline.PcItem("show", readline.PcItem("config"), readline.PcItem("session")),
		readline.PcItem("reset"),
		readline.PcItem("help"),
		readline.PcItem("exit"),
	)
	return readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyPath,
		AutoComplete:    readline.NewPrefixCompleter(items...),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
}

func (s *Session) Run(ctx context.Context) {
	for {
		s.in.SetPrompt(prompt)
		line, err := s.in.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return
			}
			continue
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.printLine("read input failed: %v", err)
			}
			return
		}
		if err := s.Execute(ctx, line); err != nil {
			if errors.Is(err, errExit) {
				s.printLine("bye")
				return
			}
			s.printLine("error: %v", err)
		}
	}
}

// Execute runs one input line.
func (s *Session) Execute(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	if handled, err := s.handleSystemCommand(line); handled {
		return err
	}
	return s.handleCommand(ctx, line)
}

func (s *Session) handleSystemCommand(line string) (bool, error) {
	switch line {
	case "exit", "quit":
		return true, errExit
	case "help":
		s.printHelp()
		return true, nil
	case "reset":
		if err := state.Clear(s.statePath); err != nil {
			return true, err
		}
		fresh, err := state.Load(s.statePath)
		if err != nil {
			return true, err
		}
		*s.state = fresh
		s.printLine("new session %s", s.state.SessionID)
		return true, nil
	}
	if strings.HasPrefix(line, "set ") {
		s.handleSet(strings.TrimSpace(strings.TrimPrefix(line, "set ")))
		return true, nil
	}
	if strings.HasPrefix(line, "show ") {
		s.handleShow(strings.TrimSpace(strings.TrimPrefix(line, "show ")))
		return true, nil
	}
	return false, nil
}

func (s *Session) handleSet(args string) {
	parts := strings.Fields(args)
	if len(parts) == 0 {
		s.printLine("usage: set base|timeout")
		return
	}
	switch parts[0] {
	case "base":
		if len(parts) < 2 {
			s.printLine("usage: set base http://127.0.0.1:8080")
			return
		}
		s.client.SetBaseURL(parts[1])
		s.printLine("base set to %s", parts[1])
	case "timeout":
		if len(parts) < 2 {
			s.printLine("usage: set timeout 30s")
			return
		}
		dur, err := time.ParseDuration(parts[1])
		if err != nil {
			s.printLine("invalid duration: %v", err)
			return
		}
		s.client.SetTimeout(dur)
		s.printLine("timeout set to %s", dur)
	default:
		s.printLine("unknown set command")
	}
}

func (s *Session) handleShow(args string) {
	switch args {
	case "session":
		s.printLine("session: %s", s.state.SessionID)
		if s.state.LastHandle != "" {
			s.printLine("handle: %s", s.state.LastHandle)
		}
	case "config":
		s.printLine("base: %s", s.client.BaseURL())
		s.printLine("timeout: %s", s.client.Timeout())
		s.printLine("statePath: %s", s.statePath)
	default:
		s.printLine("usage: show session|config")
	}
}

func (s *Session) handleCommand(ctx context.Context, line string) error {
	tokens, err := shlex.Split(line)
	if err != nil {
		return fmt.Errorf("parse command failed: %w", err)
	}
	cmd, ok := s.commands[strings.ToLower(tokens[0])]
	if !ok {
		return fmt.Errorf("unknown command: %s (try help)", tokens[0])
	}
	defaults := command.Params{}
	if cmd.Name != "analyze" && hasField(cmd, "handle") && s.state.LastHandle != "" {
		defaults.Set("handle", s.state.LastHandle)
	}
	params, err := parseParams(cmd, tokens[1:], defaults)
	if err != nil {
		return err
	}
	if err := s.promptMissing(cmd, params); err != nil {
		return err
	}

	req, err := command.BuildRequest(cmd, params)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(ctx, req.Method, req.Path, req.Headers, req.Body)
	if err != nil {
		return err
	}
	s.renderResponse(cmd, resp)
	if cmd.Name == "analyze" {
		s.rememberHandle(params.Get("handle"), resp.Body)
	}
	return nil
}

// parseParams accepts key=value pairs. Bare words fill the fields that are
// still unset, in declaration order.
func parseParams(cmd command.Command, args []string, defaults command.Params) (command.Params, error) {
	params := command.Params{}
	for key, value := range defaults {
		params.Set(key, value)
	}
	next := 0
	for _, arg := range args {
		if key, value, ok := strings.Cut(arg, "="); ok {
			params.Set(key, value)
			continue
		}
		params.Canonicalize(cmd.Fields)
		for next < len(cmd.Fields) && params.Has(cmd.Fields[next].Name) {
			next++
		}
		if next >= len(cmd.Fields) {
			return nil, fmt.Errorf("invalid param: %s", arg)
		}
		params.Set(cmd.Fields[next].Name, arg)
	}
	params.Canonicalize(cmd.Fields)
	return params, nil
}

func hasField(cmd command.Command, name string) bool {
	for _, field := range cmd.Fields {
		if field.Name == name {
			return true
		}
	}
	return false
}

func (s *Session) promptMissing(cmd command.Command, params command.Params) error {
	for _, field := range cmd.Fields {
		if !field.Required || strings.TrimSpace(params.Get(field.Name)) != "" {
			continue
		}
		s.in.SetPrompt(field.Prompt + ": ")
		value, err := s.in.Readline()
		s.in.SetPrompt(prompt)
		if err != nil {
			return fmt.Errorf("read input failed: %w", err)
		}
		params.Set(field.Name, strings.TrimSpace(value))
	}
	return nil
}

func (s *Session) renderResponse(cmd command.Command, resp httpclient.ResponseInfo) {
	s.printLine("HTTP %d (%s)", resp.StatusCode, resp.Duration.Round(time.Millisecond))
	if len(resp.Body) == 0 {
		return
	}
	switch cmd.Render {
	case command.RenderAnalysis:
		if render.Analysis(s.out, resp.Body) {
			return
		}
	case command.RenderComparison:
		if render.Comparison(s.out, resp.Body) {
			return
		}
	}
	if s.prettyJSON {
		var raw interface{}
		if err := json.Unmarshal(resp.Body, &raw); err == nil {
			formatted, _ := json.MarshalIndent(raw, "", "  ")
			s.printLine("%s", string(formatted))
			return
		}
	}
	s.printLine("%s", string(resp.Body))
}

func (s *Session) rememberHandle(handle string, body []byte) {
	var resp struct {
		Code int `json:"code"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || resp.Code != int(appErr.Success) {
		return
	}
	s.state.LastHandle = handle
	if err := state.Save(s.statePath, *s.state); err != nil {
		s.printLine("save session failed: %v", err)
	}
}

func (s *Session) printHelp() {
	s.printLine("usage: <command> [value] key=value ...")
	for _, name := range command.Names(s.commands) {
		s.printLine("  %s", s.commands[name].Summary)
	}
	s.printLine("system: help | exit | reset | set base|timeout | show session|config")
	s.printLine("commands that take a handle default to the last analyzed one")
}

func (s *Session) printLine(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.out, format+"\n", args...)
}
