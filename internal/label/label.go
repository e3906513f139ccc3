package label

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/notnil/chess"
)

// Delimiter separates the position from the outcome annotation
const Delimiter = "; c0 "

const maxLineSize = 1 << 20

var (
	// resultKey matches any header whose key is exactly Result
	resultKey = regexp.MustCompile(`^\[Result(\s|\]|")`)
	// resultHeader extracts the value of a well-formed Result header
	resultHeader = regexp.MustCompile(`^\[Result\s*"?([^"\]]+)"?\s*\]`)
)

// Record is one labeled training line
type Record struct {
	Position string
	Outcome  chess.Outcome
}

// String renders the record in its on-disk form
func (r Record) String() string {
	return r.Position + Delimiter + string(r.Outcome)
}

// Options tunes the rewrite
type Options struct {
	// ValidateFEN decodes every position and rejects invalid ones.
	// Positions are otherwise passed through untouched.
	ValidateFEN bool
}

// Stats summarises one rewrite
type Stats struct {
	Positions int                   // Records emitted
	Games     int                   // Result headers seen
	Outcomes  map[chess.Outcome]int // Records per outcome
}

// Known reports whether o is one of the four standard PGN results
func Known(o chess.Outcome) bool {
	switch o {
	case chess.WhiteWon, chess.BlackWon, chess.Draw, chess.NoOutcome:
		return true
	default:
		return false
	}
}

// fold is the accumulator threaded through the lines of one input
type fold struct {
	outcome chess.Outcome
	seen    bool
	stats   Stats
	records []Record
}

// step consumes one raw input line
func (f *fold) step(lineNo int, line string, opts Options) error {
	if strings.HasPrefix(line, "[") {
		if !resultKey.MatchString(line) {
			return nil
		}
		m := resultHeader.FindStringSubmatch(line)
		if m == nil {
			return &HeaderError{Line: lineNo, Header: strings.TrimSpace(line)}
		}
		value := strings.TrimSpace(m[1])
		if value == "" {
			return &HeaderError{Line: lineNo, Header: strings.TrimSpace(line)}
		}
		f.outcome = chess.Outcome(value)
		f.seen = true
		f.stats.Games++
		return nil
	}

	position := strings.TrimSpace(line)
	if position == "" {
		return nil
	}
	if !f.seen {
		return &MissingOutcomeError{Line: lineNo, Position: position}
	}
	if opts.ValidateFEN {
		if _, err := chess.FEN(position); err != nil {
			return &PositionError{Line: lineNo, Position: position, Err: err}
		}
	}

	f.records = append(f.records, Record{Position: position, Outcome: f.outcome})
	f.stats.Positions++
	f.stats.Outcomes[f.outcome]++
	return nil
}

// Rewrite reads a FEN-with-headers stream and labels every position with
// the result of the game it belongs to.
func Rewrite(r io.Reader, opts Options) ([]Record, Stats, error) {
	f := &fold{stats: Stats{Outcomes: make(map[chess.Outcome]int)}}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if err := f.step(lineNo, scanner.Text(), opts); err != nil {
			return nil, Stats{}, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, Stats{}, fmt.Errorf("read input: %w", err)
	}

	return f.records, f.stats, nil
}

// Write emits records joined by newlines, without a trailing newline
func Write(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)
	for i, rec := range records {
		if i > 0 {
			if err := bw.WriteByte('\n'); err != nil {
				return err
			}
		}
		if _, err := bw.WriteString(rec.String()); err != nil {
			return err
		}
	}
	return bw.Flush()
}
