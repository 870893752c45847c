package matcher

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/flier/gohs/hyperscan"

	"github.com/runescan/runescan/pkg/types"
)

// Database owns one compiled pattern database of the native engine and the
// table resolving pattern ids back to the expressions they came from. Once
// compiled or loaded a Database is immutable and safe to share across
// goroutines until Close releases the native handle.
type Database struct {
	mu    sync.RWMutex
	db    hyperscan.BlockDatabase
	byID  map[int]*types.Expression
	exprs []*types.Expression

	closed bool
}

// Compile builds a database from the given expressions. Duplicate ids are
// permitted by the engine; Expression lookup then returns the last
// expression supplied for that id. A rejected pattern set yields a
// *CompileError carrying the offending expression when one can be isolated.
func Compile(exprs ...*types.Expression) (*Database, error) {
	if len(exprs) == 0 {
		return nil, ErrNoExpressions
	}
	patterns := make([]*hyperscan.Pattern, len(exprs))
	for i, e := range exprs {
		if e == nil {
			return nil, fmt.Errorf("expression %d is nil", i)
		}
		p := hyperscan.NewPattern(e.Pattern(), nativeFlags(e.Flags()))
		p.Id = e.ID()
		patterns[i] = p
	}
	db, err := hyperscan.NewBlockDatabase(patterns...)
	if err != nil {
		return nil, &CompileError{Expression: findFailed(exprs), Err: err}
	}
	return newDatabase(db, exprs), nil
}

// findFailed narrows a multi-pattern compile failure down to a single
// expression by compiling each one on its own; the engine does not report
// the failing index through this binding. Returns nil when every expression
// compiles alone (e.g. an id collision across expressions).
func findFailed(exprs []*types.Expression) *types.Expression {
	for _, e := range exprs {
		if r := Validate(e); !r.Valid {
			return e
		}
	}
	return nil
}

func newDatabase(db hyperscan.BlockDatabase, exprs []*types.Expression) *Database {
	byID := make(map[int]*types.Expression, len(exprs))
	for _, e := range exprs {
		byID[e.ID()] = e
	}
	owned := make([]*types.Expression, len(exprs))
	copy(owned, exprs)
	return &Database{db: db, byID: byID, exprs: owned}
}

// dbMagic identifies a serialized database stream.
var dbMagic = [4]byte{'R', 'S', 'D', 'B'}

const dbFormatVersion = 1

// Length caps for the two variable sections of a serialized stream. A field
// beyond these is a corrupt stream, not a real database; rejecting it up
// front keeps Load from attempting an absurd allocation.
const (
	maxMetadataLen = 64 << 20 // 64 MiB of expression metadata
	maxDatabaseLen = 4 << 30  // 4 GiB of serialized database
)

type dbMetadata struct {
	EngineVersion string              `json:"engine_version"`
	Expressions   []*types.Expression `json:"expressions"`
}

// Save writes a self-delimiting serialized form of the database: a framed
// header, the expression table, and the engine's platform-specific byte
// representation. Load on a host with compatible CPU features reconstructs
// an equal Database, expression lookup included.
func (d *Database) Save(w io.Writer) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return fmt.Errorf("database: %w", ErrClosed)
	}
	data, err := d.db.Marshal()
	if err != nil {
		return &NativeError{Op: "serialize database", Err: err}
	}
	meta, err := json.Marshal(dbMetadata{EngineVersion: Version(), Expressions: d.exprs})
	if err != nil {
		return fmt.Errorf("encoding database metadata: %w", err)
	}

	var buf bytes.Buffer
	buf.Write(dbMagic[:])
	buf.WriteByte(dbFormatVersion)
	var lenBuf [8]byte
	binary.BigEndian.PutUint32(lenBuf[:4], uint32(len(meta)))
	buf.Write(lenBuf[:4])
	buf.Write(meta)
	binary.BigEndian.PutUint64(lenBuf[:], uint64(len(data)))
	buf.Write(lenBuf[:])
	buf.Write(data)

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("writing serialized database: %w", err)
	}
	return nil
}

// Load reads a stream produced by Save and reconstructs the database,
// including the id to expression table. The engine's serialized form is only
// portable between hosts with compatible CPU features; the engine itself
// detects and reports a mismatch during deserialization. Truncated or
// corrupt streams fail with a format error.
func Load(r io.Reader) (*Database, error) {
	var header [5]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("reading database header: %w", err)
	}
	if !bytes.Equal(header[:4], dbMagic[:]) {
		return nil, fmt.Errorf("not a serialized pattern database")
	}
	if header[4] != dbFormatVersion {
		return nil, fmt.Errorf("unsupported database format version %d", header[4])
	}

	var metaLen [4]byte
	if _, err := io.ReadFull(r, metaLen[:]); err != nil {
		return nil, fmt.Errorf("reading database metadata length: %w", err)
	}
	metaSize := binary.BigEndian.Uint32(metaLen[:])
	if metaSize > maxMetadataLen {
		return nil, fmt.Errorf("corrupt database stream: metadata length %d", metaSize)
	}
	meta := make([]byte, metaSize)
	if _, err := io.ReadFull(r, meta); err != nil {
		return nil, fmt.Errorf("reading database metadata: %w", err)
	}
	var md dbMetadata
	if err := json.Unmarshal(meta, &md); err != nil {
		return nil, fmt.Errorf("decoding database metadata: %w", err)
	}
	for i, e := range md.Expressions {
		if e == nil {
			return nil, fmt.Errorf("corrupt database stream: expression %d is null", i)
		}
	}

	var dataLen [8]byte
	if _, err := io.ReadFull(r, dataLen[:]); err != nil {
		return nil, fmt.Errorf("reading database length: %w", err)
	}
	dataSize := binary.BigEndian.Uint64(dataLen[:])
	if dataSize > maxDatabaseLen {
		return nil, fmt.Errorf("corrupt database stream: database length %d", dataSize)
	}
	data := make([]byte, dataSize)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("reading serialized database: %w", err)
	}

	db, err := hyperscan.UnmarshalBlockDatabase(data)
	if err != nil {
		return nil, &NativeError{Op: "deserialize database", Err: err}
	}
	return newDatabase(db, md.Expressions), nil
}

// Expression returns the expression compiled under the given pattern id, or
// nil when the id is unknown.
func (d *Database) Expression(id int) *types.Expression {
	return d.byID[id]
}

// Expressions returns the compiled expressions in compile order.
func (d *Database) Expressions() []*types.Expression {
	out := make([]*types.Expression, len(d.exprs))
	copy(out, d.exprs)
	return out
}

// Size returns the engine-reported memory footprint of the compiled form in
// bytes.
func (d *Database) Size() (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return 0, fmt.Errorf("database: %w", ErrClosed)
	}
	n, err := d.db.Size()
	if err != nil {
		return 0, &NativeError{Op: "database size", Err: err}
	}
	return n, nil
}

// Close releases the native handle. Any use after Close, including a second
// Close, fails with an ErrClosed-wrapped error.
func (d *Database) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return fmt.Errorf("database: %w", ErrClosed)
	}
	d.closed = true
	if err := d.db.Close(); err != nil {
		return &NativeError{Op: "free database", Err: err}
	}
	return nil
}

// Equal reports whether two databases serialize to the same engine byte
// representation and carry the same expression table. Handle identity does
// not matter. A closed database is never equal to anything.
func (d *Database) Equal(o *Database) bool {
	if d == nil || o == nil {
		return d == o
	}
	a, err := d.serialized()
	if err != nil {
		return false
	}
	b, err := o.serialized()
	if err != nil {
		return false
	}
	if !bytes.Equal(a, b) {
		return false
	}
	if len(d.exprs) != len(o.exprs) {
		return false
	}
	for i := range d.exprs {
		if !d.exprs[i].Equal(o.exprs[i]) {
			return false
		}
	}
	return true
}

func (d *Database) serialized() ([]byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return nil, fmt.Errorf("database: %w", ErrClosed)
	}
	return d.db.Marshal()
}

// native hands out the engine handle for a scan, refusing after Close. The
// caller must not retain the handle past the operation.
func (d *Database) native() (hyperscan.BlockDatabase, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return nil, fmt.Errorf("database: %w", ErrClosed)
	}
	return d.db, nil
}
