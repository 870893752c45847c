package types

// Match is a single scan result. Start and End are inclusive rune indices
// into the scanned text; for pure ASCII input they coincide with byte
// offsets. Text is empty unless the matched expression was compiled with
// SOMLeftmost: without start-of-match tracking the engine does not report
// where a match began, so the text is not recoverable.
type Match struct {
	Start      int
	End        int
	Text       string
	Expression *Expression
}
