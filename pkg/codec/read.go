package codec

import (
	"bufio"
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/boolnet/pkg/errors"
	"github.com/matzehuels/boolnet/pkg/network"
	"github.com/matzehuels/boolnet/pkg/rule"
)

// maxLineSize bounds a single line of input (a node with many neighbors).
const maxLineSize = 16 << 20

// Unmarshal decodes a network from data, resolving its rule in reg.
func Unmarshal(data []byte, reg *rule.Registry) (*network.Network, error) {
	return Read(bytes.NewReader(data), reg)
}

// ReadFile reads and decodes the network stored at path.
// Open failures are reported as IO_ERROR.
func ReadFile(path string, reg *rule.Registry) (*network.Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "open %s", path)
	}
	defer f.Close()
	return Read(f, reg)
}

// Read decodes a network from r, resolving its rule in reg.
// Returns a *errors.FormatError for malformed input, a
// *errors.UnknownEvaluatorError for an unregistered rule, or an IO_ERROR if
// r fails. No network is returned unless the whole input is valid.
// Read does not close r.
func Read(r io.Reader, reg *rule.Registry) (*network.Network, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	p := &parser{sc: sc}
	n, err := p.parse(reg)
	if err != nil {
		return nil, err
	}
	if err := p.readErr(); err != nil {
		return nil, err
	}
	return n, nil
}

type parser struct {
	sc   *bufio.Scanner
	line int
	text string
}

// next advances to the next non-blank line.
func (p *parser) next() bool {
	for p.sc.Scan() {
		p.line++
		p.text = p.sc.Text()
		if strings.TrimSpace(p.text) != "" {
			return true
		}
	}
	p.text = ""
	return false
}

func (p *parser) fail(kind errors.FormatKind, expected, actual string) error {
	return &errors.FormatError{Kind: kind, Line: p.line, Expected: expected, Actual: actual, Text: p.text}
}

// readErr reports a scanner failure. An over-long line is malformed input;
// anything else comes from the underlying reader.
func (p *parser) readErr() error {
	err := p.sc.Err()
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, bufio.ErrTooLong):
		return &errors.FormatError{
			Kind:     errors.LineTooLong,
			Line:     p.line + 1,
			Expected: fmt.Sprintf("at most %d bytes", maxLineSize),
			Actual:   "longer line",
		}
	default:
		return errors.Wrap(errors.ErrCodeIO, err, "read network")
	}
}

func (p *parser) truncated(expected string) error {
	if err := p.readErr(); err != nil {
		return err
	}
	return &errors.FormatError{Kind: errors.TruncatedInput, Line: p.line, Expected: expected, Actual: "end of input"}
}

func (p *parser) parse(reg *rule.Registry) (*network.Network, error) {
	if !p.next() {
		return nil, p.truncated("node count")
	}
	count, err := strconv.Atoi(strings.TrimSpace(p.text))
	if err != nil || count < 0 {
		return nil, p.fail(errors.InvalidToken, "non-negative node count", strconv.Quote(strings.TrimSpace(p.text)))
	}

	if !p.next() {
		return nil, p.truncated("rule name")
	}
	ruleName := strings.TrimSpace(p.text)
	if _, err := reg.Lookup(ruleName); err != nil {
		return nil, err
	}

	// The count is untrusted; grow with the records actually present.
	nodes := make([]network.Node, 0, min(count, 1<<16))
	for i := range count {
		rest, err := p.record(i+1, "state")
		if err != nil {
			return nil, err
		}
		var nd network.Node
		switch tok := strings.TrimSpace(rest); tok {
		case "0":
		case "1":
			nd.State = true
		default:
			return nil, p.fail(errors.InvalidToken, "state 0 or 1", describeToken(tok))
		}
		nodes = append(nodes, nd)
	}

	if !p.next() {
		if err := p.readErr(); err != nil {
			return nil, err
		}
		return nil, p.fail(errors.MissingSeparator, strconv.Quote(sectionLine), "end of input")
	}
	if sep := strings.TrimSpace(p.text); sep[0] != sectionChar {
		return nil, p.fail(errors.MissingSeparator, strconv.Quote(sectionLine), strconv.Quote(sep))
	}

	for i := range nodes {
		rest, err := p.record(i+1, "neighbors")
		if err != nil {
			return nil, err
		}
		if nodes[i].Neighbors, err = p.neighbors(rest, count); err != nil {
			return nil, err
		}
	}

	return network.New(reg, ruleName, nodes)
}

// record reads the next "<index>:" prefix, checks it against want, and
// returns the remainder of the line.
func (p *parser) record(want int, section string) (string, error) {
	if !p.next() {
		return "", p.truncated(fmt.Sprintf("%s record %d", section, want))
	}
	s := strings.TrimLeft(p.text, " \t")
	index := leadingIndex(s)
	if index == "" {
		return "", p.fail(errors.InvalidToken, fmt.Sprintf("index %d", want), describeToken(s))
	}
	if idx, err := strconv.Atoi(index); err != nil || idx != want {
		return "", p.fail(errors.IndexMismatch, strconv.Itoa(want), index)
	}
	s = strings.TrimLeft(s[len(index):], " \t")
	if s == "" || s[0] != indexDelim {
		return "", p.fail(errors.MissingDelimiter, strconv.QuoteRune(indexDelim), describeRune(s))
	}
	return s[1:], nil
}

// neighbors parses a comma separated list of 1-based indices in [1, count].
func (p *parser) neighbors(s string, count int) ([]int, error) {
	s = strings.TrimSpace(s)
	out := []int{}
	if s == "" {
		return out, nil
	}
	for {
		digits := leadingDigits(s)
		if digits == "" {
			return nil, p.fail(errors.InvalidToken, "neighbor index", describeToken(s))
		}
		v, err := strconv.Atoi(digits)
		if err != nil || v < 1 || v > count {
			return nil, p.fail(errors.InvalidToken, fmt.Sprintf("neighbor index in [1, %d]", count), digits)
		}
		out = append(out, v-1)

		s = strings.TrimLeft(s[len(digits):], " \t")
		if s == "" {
			return out, nil
		}
		if s[0] != neighborDelim {
			return nil, p.fail(errors.MissingDelimiter, strconv.QuoteRune(neighborDelim), describeRune(s))
		}
		s = strings.TrimLeft(s[1:], " \t")
	}
}

// leadingIndex returns an optionally signed run of digits at the start of s.
func leadingIndex(s string) string {
	sign := 0
	if s != "" && (s[0] == '-' || s[0] == '+') {
		sign = 1
	}
	digits := leadingDigits(s[sign:])
	if digits == "" {
		return ""
	}
	return s[:sign+len(digits)]
}

func leadingDigits(s string) string {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[:i]
}

// describeToken renders the first field of s for an error message.
func describeToken(s string) string {
	f := strings.Fields(s)
	if len(f) == 0 {
		return "end of line"
	}
	return strconv.Quote(f[0])
}

// describeRune renders the first character of s for an error message.
func describeRune(s string) string {
	if s == "" {
		return "end of line"
	}
	r, _ := utf8.DecodeRuneInString(s)
	return strconv.QuoteRune(r)
}
