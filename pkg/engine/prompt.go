package engine

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/strato-sh/strato/pkg/types"
)

// Prompter obtains user consent. Decision logic elsewhere computes the
// prompt text; implementations only collect the answer.
type Prompter interface {
	// Confirm asks a yes/no question and returns the answer.
	Confirm(prompt string, defaultYes bool) (bool, error)

	// Ask asks for a free-form line of input and returns it trimmed.
	Ask(prompt string) (string, error)
}

// StdinPrompter reads answers from standard input.
type StdinPrompter struct {
	in          io.Reader
	out         io.Writer
	interactive bool
}

// NewStdinPrompter creates a prompter bound to stdin/stdout.
func NewStdinPrompter() *StdinPrompter {
	return &StdinPrompter{
		in:          os.Stdin,
		out:         os.Stdout,
		interactive: isatty.IsTerminal(os.Stdin.Fd()),
	}
}

// Confirm asks a yes/no question. In non-interactive sessions it fails
// instead of hanging, directing the caller to --yes.
func (p *StdinPrompter) Confirm(prompt string, defaultYes bool) (bool, error) {
	if !p.interactive {
		return false, fmt.Errorf("confirmation required but session is not interactive (pass --yes to skip)")
	}

	suffix := "[Y/n]"
	if !defaultYes {
		suffix = "[y/N]"
	}
	fmt.Fprintf(p.out, "%s %s: ", prompt, suffix)

	line, err := p.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "":
		return defaultYes, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Ask asks for a free-form answer.
func (p *StdinPrompter) Ask(prompt string) (string, error) {
	if !p.interactive {
		return "", fmt.Errorf("input required but session is not interactive")
	}
	fmt.Fprintf(p.out, "%s: ", prompt)
	return p.readLine()
}

func (p *StdinPrompter) readLine() (string, error) {
	reader := bufio.NewReader(p.in)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// ScriptedPrompter replays canned answers, for tests.
type ScriptedPrompter struct {
	// Confirms are consumed by Confirm calls in order.
	Confirms []bool
	// Answers are consumed by Ask calls in order.
	Answers []string

	// Prompts records every prompt text seen.
	Prompts []string
}

// Confirm replays the next canned yes/no answer.
func (p *ScriptedPrompter) Confirm(prompt string, defaultYes bool) (bool, error) {
	p.Prompts = append(p.Prompts, prompt)
	if len(p.Confirms) == 0 {
		return false, types.ErrPromptDeclined
	}
	answer := p.Confirms[0]
	p.Confirms = p.Confirms[1:]
	return answer, nil
}

// Ask replays the next canned free-form answer.
func (p *ScriptedPrompter) Ask(prompt string) (string, error) {
	p.Prompts = append(p.Prompts, prompt)
	if len(p.Answers) == 0 {
		return "", types.ErrPromptDeclined
	}
	answer := p.Answers[0]
	p.Answers = p.Answers[1:]
	return answer, nil
}
