package console

import (
	"bufio"
	"io"
	"strings"
)

// Prompter asks yes/no questions on an interactive stream.
// Only "yes" or "y" (any case, surrounding space ignored) counts as yes; EOF and read
// errors count as no.
type Prompter struct {
	in        *bufio.Reader
	out       io.Writer
	assumeYes bool
	answers   map[string]bool
}

// NewPrompter creates a Prompter reading answers from in and writing questions to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:      bufio.NewReader(in),
		out:     out,
		answers: make(map[string]bool),
	}
}

// AssumeYes answers every question affirmatively without prompting.
func (p *Prompter) AssumeYes() *Prompter {
	p.assumeYes = true
	return p
}

// Preset fixes the answer for step so its question is never asked.
func (p *Prompter) Preset(step string, answer bool) *Prompter {
	p.answers[step] = answer
	return p
}

// Confirm returns the answer for step, prompting with question when it is not preset.
func (p *Prompter) Confirm(step, question string) bool {
	if answer, ok := p.answers[step]; ok {
		return answer
	}
	if p.assumeYes {
		return true
	}

	_, _ = io.WriteString(p.out, "\n[PROMPT] "+question+" (yes/no): ")
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		_, _ = io.WriteString(p.out, "\n")
		return false
	}
	return IsAffirmative(line)
}

// IsAffirmative reports whether answer is "yes" or "y".
func IsAffirmative(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "yes", "y":
		return true
	default:
		return false
	}
}
