package csvparser

import (
	"bufio"
	"io"
	"strings"
)

const quote = '"'

type readState int

const (
	startRecord readState = iota
	startField
	inField
	inQuotedField
	quoteInQuotedField
)

// recordReader splits delimited text into records.
//
// QUOTING RULES:
//   - A quote opens a quoted field only as the first character of a field
//   - Inside a quoted field, "" is a literal quote and delimiters and line
//     breaks are field content
//   - Text after the closing quote is appended to the field up to the next
//     delimiter or line break ("JOAO" DA SILVA -> JOAO DA SILVA)
//   - A quote anywhere else is literal text
//   - LF, CRLF and a lone CR all end a record; blank lines are skipped
//   - A quoted field left open at end of input ends there
type recordReader struct {
	r     *bufio.Reader
	comma rune

	// line is the 1-based line of the next unread rune.
	line int

	// recordLine is the line on which the last returned record started.
	recordLine int

	field strings.Builder
}

func newRecordReader(r io.Reader, comma rune) *recordReader {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &recordReader{r: br, comma: comma, line: 1}
}

// Line returns the line on which the last record read started.
func (rr *recordReader) Line() int {
	return rr.recordLine
}

// Read returns the next record, or io.EOF when the input is exhausted.
func (rr *recordReader) Read() ([]string, error) {
	var record []string
	state := startRecord
	rr.field.Reset()

	saveField := func() {
		record = append(record, rr.field.String())
		rr.field.Reset()
	}

	for {
		c, _, err := rr.r.ReadRune()
		if err == io.EOF {
			if state == startRecord {
				return nil, io.EOF
			}
			saveField()
			return record, nil
		}
		if err != nil {
			return nil, err
		}

		if state == inQuotedField {
			if c == quote {
				state = quoteInQuotedField
				continue
			}
			if c == '\n' {
				rr.line++
			}
			rr.field.WriteRune(c)
			continue
		}

		if c == '\r' || c == '\n' {
			if c == '\r' {
				rr.skipLF()
			}
			rr.line++
			if state == startRecord {
				continue
			}
			saveField()
			return record, nil
		}

		switch state {
		case startRecord, startField:
			if state == startRecord {
				rr.recordLine = rr.line
			}
			switch c {
			case quote:
				state = inQuotedField
			case rr.comma:
				saveField()
				state = startField
			default:
				rr.field.WriteRune(c)
				state = inField
			}

		case inField:
			if c == rr.comma {
				saveField()
				state = startField
			} else {
				rr.field.WriteRune(c)
			}

		case quoteInQuotedField:
			switch c {
			case quote:
				rr.field.WriteRune(quote)
				state = inQuotedField
			case rr.comma:
				saveField()
				state = startField
			default:
				rr.field.WriteRune(c)
				state = inField
			}
		}
	}
}

// skipLF consumes the LF of a CRLF pair.
func (rr *recordReader) skipLF() {
	next, _, err := rr.r.ReadRune()
	if err == nil && next != '\n' {
		_ = rr.r.UnreadRune()
	}
}
