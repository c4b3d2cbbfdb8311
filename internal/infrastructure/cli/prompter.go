package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/doeshing/cmdguard/internal/domain"
	"github.com/doeshing/cmdguard/internal/ports"
)

// Prompter implements ConfirmationPrompter using stdin/stdout.
type Prompter struct {
	in    *bufio.Reader
	out   io.Writer
	isTTY bool
}

// NewPrompter constructs a prompter referencing stdio.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	tty := false
	if in == nil {
		in = os.Stdin
		tty = isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	} else {
		tty = true
	}
	if out == nil {
		out = os.Stdout
	}
	return &Prompter{
		in:    bufio.NewReader(in),
		out:   out,
		isTTY: tty,
	}
}

// Enabled reports whether the prompter can actually ask a human. Piped stdin
// is not interactive; the confirm loop then declines by default.
func (p *Prompter) Enabled() bool {
	return p.isTTY
}

// Prompt presents the command and reads one action. Anything unrecognized
// declines: ambiguous input must never execute.
func (p *Prompter) Prompt(command string, c domain.Classification) (domain.UserAction, string, error) {
	fmt.Fprintf(p.out, "\n%s risk detected\n", strings.ToUpper(string(c.Tier)))
	for _, warning := range c.Warnings {
		fmt.Fprintf(p.out, " - %s\n", warning)
	}
	fmt.Fprintf(p.out, "Command:\n  %s\n", command)
	fmt.Fprint(p.out, "[y]es execute / [m]odify / [e]xplain / [h]elp / [n]o cancel: ")

	line, err := p.in.ReadString('\n')
	if err != nil {
		return domain.ActionDecline, "", err
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return domain.ActionApprove, "", nil
	case "m", "modify":
		replacement, err := p.readReplacement(command)
		if err != nil {
			return domain.ActionDecline, "", err
		}
		return domain.ActionModify, replacement, nil
	case "e", "explain":
		return domain.ActionExplain, "", nil
	case "h", "help":
		return domain.ActionHelp, "", nil
	default:
		return domain.ActionDecline, "", nil
	}
}

// Show writes a message to the prompter output.
func (p *Prompter) Show(message string) {
	fmt.Fprintln(p.out, message)
}

func (p *Prompter) readReplacement(current string) (string, error) {
	fmt.Fprintf(p.out, "Current command: %s\n", current)
	fmt.Fprint(p.out, "Replacement command: ")
	line, err := p.in.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

var _ ports.ConfirmationPrompter = (*Prompter)(nil)
