// Package input reads hailstone records in the puzzle's text format:
//
//	19, 13, 30 @ -2,  1, -2
//
// Each side of the "@" holds two or three comma-separated integers. The z
// component is parsed when present and dropped by Hailstone.
package input

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/hailcross/internal/hail"
)

// Record is one parsed input line.
type Record struct {
	Line int      `json:"line"`
	Pos  [3]int64 `json:"pos"`
	Vel  [3]int64 `json:"vel"`
	HasZ bool     `json:"has_z"`
}

// Hailstone projects the record onto the plane.
func (r Record) Hailstone() hail.Hailstone {
	return hail.NewHailstone(r.Pos[0], r.Pos[1], r.Vel[0], r.Vel[1])
}

// ParseError describes the first malformed line of an input.
type ParseError struct {
	Line int
	Text string
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %q", e.Line, e.Msg, e.Text)
	}
	return fmt.Sprintf("%s: %q", e.Msg, e.Text)
}

// Parse reads every record from r. Blank lines and lines starting with '#'
// are skipped. Parsing stops at the first malformed line.
func Parse(r io.Reader) ([]Record, error) {
	var records []Record

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := strings.TrimSpace(norm.NFKC.String(scanner.Text()))
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		rec, err := parseRecord(text)
		if err != nil {
			err.Line = lineNo
			return nil, err
		}
		rec.Line = lineNo
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// ParseLine parses a single record, such as a command-line argument.
func ParseLine(s string) (Record, error) {
	text := strings.TrimSpace(norm.NFKC.String(s))
	rec, err := parseRecord(text)
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Hailstones projects records onto the plane, preserving order.
func Hailstones(records []Record) []hail.Hailstone {
	stones := make([]hail.Hailstone, len(records))
	for i, r := range records {
		stones[i] = r.Hailstone()
	}
	return stones
}

func parseRecord(text string) (Record, *ParseError) {
	posText, velText, found := strings.Cut(text, "@")
	if !found {
		return Record{}, &ParseError{Text: text, Msg: `missing "@" separator`}
	}

	pos, posZ, err := parseTriple(posText)
	if err != nil {
		return Record{}, &ParseError{Text: text, Msg: "position: " + err.Error()}
	}
	vel, velZ, err := parseTriple(velText)
	if err != nil {
		return Record{}, &ParseError{Text: text, Msg: "velocity: " + err.Error()}
	}
	if posZ != velZ {
		return Record{}, &ParseError{Text: text, Msg: "position and velocity have different dimensions"}
	}

	return Record{Pos: pos, Vel: vel, HasZ: posZ}, nil
}

// parseTriple parses "a, b" or "a, b, c".
func parseTriple(s string) (v [3]int64, hasZ bool, err error) {
	fields := strings.Split(s, ",")
	if len(fields) != 2 && len(fields) != 3 {
		return v, false, fmt.Errorf("expected 2 or 3 components, got %d", len(fields))
	}
	for i, f := range fields {
		f = strings.TrimSpace(f)
		n, perr := strconv.ParseInt(f, 10, 64)
		if perr != nil {
			return v, false, fmt.Errorf("component %d: invalid integer %q", i+1, f)
		}
		v[i] = n
	}
	return v, len(fields) == 3, nil
}
