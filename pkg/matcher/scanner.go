package matcher

import (
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/flier/gohs/hyperscan"

	"github.com/runescan/runescan/pkg/types"
)

// Scanner drives scans of input text against a compiled Database. It owns
// the engine scratch space those scans mutate in place, so a Scanner belongs
// to one worker: concurrent Scan calls on the same Scanner are serialized by
// an internal mutex. For parallel scanning give every worker its own
// Scanner, all sharing one Database.
type Scanner struct {
	mu      sync.Mutex
	scratch *hyperscan.Scratch
	closed  bool
}

// rawMatch is one callback event as reported by the engine: pattern id and
// byte offsets, end exclusive.
type rawMatch struct {
	id   uint
	from uint64
	to   uint64
}

// NewScanner returns a Scanner without scratch space. AllocScratch must run
// before the first Scan.
func NewScanner() *Scanner {
	return &Scanner{}
}

// NewScannerFor returns a Scanner with scratch space already sized for db.
func NewScannerFor(db *Database) (*Scanner, error) {
	s := NewScanner()
	if err := s.AllocScratch(db); err != nil {
		return nil, err
	}
	return s, nil
}

// AllocScratch sizes the scratch space for db. It must be called at least
// once for every database the Scanner will scan with; later calls grow the
// scratch to satisfy the union of all databases seen so far.
func (s *Scanner) AllocScratch(db *Database) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("scanner: %w", ErrClosed)
	}
	native, err := db.native()
	if err != nil {
		return err
	}
	if s.scratch == nil {
		scratch, err := hyperscan.NewScratch(native)
		if err != nil {
			return &NativeError{Op: "alloc scratch", Err: err}
		}
		s.scratch = scratch
		return nil
	}
	if err := s.scratch.Realloc(native); err != nil {
		return &NativeError{Op: "realloc scratch", Err: err}
	}
	return nil
}

// Size returns the scratch space size in bytes.
func (s *Scanner) Size() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, fmt.Errorf("scanner: %w", ErrClosed)
	}
	if s.scratch == nil {
		return 0, ErrNoScratch
	}
	n, err := s.scratch.Size()
	if err != nil {
		return 0, &NativeError{Op: "scratch size", Err: err}
	}
	return n, nil
}

// Scan matches input against db and returns the matches in engine emission
// order. Start and End are inclusive rune indices into input; Text is
// populated only for expressions compiled with SOMLeftmost. A failed scan
// returns no partial match list.
func (s *Scanner) Scan(db *Database, input string) ([]types.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, fmt.Errorf("scanner: %w", ErrClosed)
	}
	if s.scratch == nil {
		return nil, ErrNoScratch
	}
	native, err := db.native()
	if err != nil {
		return nil, err
	}

	data := []byte(input)
	var raw []rawMatch
	handler := func(id uint, from, to uint64, flags uint, context interface{}) error {
		raw = append(raw, rawMatch{id: id, from: from, to: to})
		return nil
	}
	if err := native.Scan(data, s.scratch, handler, nil); err != nil {
		return nil, &NativeError{Op: "scan", Err: err}
	}
	if len(raw) == 0 {
		return nil, nil
	}

	// Equal byte and rune counts mean single-byte content; offsets then pass
	// through unchanged.
	var pos func(int) int
	if len(data) == utf8.RuneCountInString(input) {
		pos = func(b int) int { return b }
	} else {
		table := byteToRuneMap(input, len(data))
		pos = func(b int) int { return table[b] }
	}

	matches := make([]types.Match, 0, len(raw))
	for _, r := range raw {
		expr := db.Expression(int(r.id))
		if expr == nil {
			return nil, fmt.Errorf("engine reported unknown pattern id %d", r.id)
		}
		if len(data) == 0 {
			// Zero-length input can still match (e.g. `.*`); there are no
			// offsets to map.
			matches = append(matches, types.Match{Start: 0, End: 0, Expression: expr})
			continue
		}
		// Some engine builds report to=0 for zero-length spans; floor it so
		// the inclusive end index below stays in range.
		to := r.to
		if to < 1 {
			to = 1
		}
		var text string
		if expr.Flags().Has(types.SOMLeftmost) {
			// from and to sit on rune boundaries, so byte slicing yields
			// exactly the runes [Start, End].
			text = input[r.from:to]
		}
		matches = append(matches, types.Match{
			Start:      pos(int(r.from)),
			End:        pos(int(to) - 1),
			Text:       text,
			Expression: expr,
		})
	}
	return matches, nil
}

// Close releases the scratch space. Further calls on the Scanner, including
// a second Close, fail with an ErrClosed-wrapped error.
func (s *Scanner) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("scanner: %w", ErrClosed)
	}
	s.closed = true
	if s.scratch != nil {
		if err := s.scratch.Free(); err != nil {
			return &NativeError{Op: "free scratch", Err: err}
		}
		s.scratch = nil
	}
	return nil
}
