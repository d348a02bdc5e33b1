// Package wordlist reads and writes the line oriented "source;target" word
// list format and imports lists from CSV and Excel files.
package wordlist

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"glossify/internal/models"
)

// HeaderPrefix marks an optional first line naming the columns
const HeaderPrefix = "svenska;"

const separator = ";"

// Parse reads one pair per line. Blank lines, header lines and lines with
// fewer than two fields are skipped.
func Parse(text string) []models.WordPair {
	var pairs []models.WordPair
	for _, line := range strings.Split(text, "\n") {
		if pair, kind := parseLine(line); kind == linePair {
			pairs = append(pairs, pair)
		}
	}
	return pairs
}

// ParseReader is Parse over a stream. It also returns the number of
// malformed lines it dropped; blank and header lines are not counted.
func ParseReader(r io.Reader) ([]models.WordPair, int, error) {
	var pairs []models.WordPair
	skipped := 0
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		switch pair, kind := parseLine(scanner.Text()); kind {
		case linePair:
			pairs = append(pairs, pair)
		case lineMalformed:
			skipped++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read word list: %w", err)
	}
	return pairs, skipped, nil
}

type lineKind int

const (
	lineIgnored lineKind = iota
	linePair
	lineMalformed
)

func parseLine(line string) (models.WordPair, lineKind) {
	line = strings.TrimSpace(line)
	if line == "" || isHeader(line) {
		return models.WordPair{}, lineIgnored
	}

	parts := strings.Split(line, separator)
	if len(parts) < 2 {
		return models.WordPair{}, lineMalformed
	}
	return models.WordPair{
		Source: strings.TrimSpace(parts[0]),
		Target: strings.TrimSpace(parts[1]),
	}, linePair
}

func isHeader(line string) bool {
	return len(line) >= len(HeaderPrefix) && strings.EqualFold(line[:len(HeaderPrefix)], HeaderPrefix)
}

// Serialize writes pairs as "source;target" lines
func Serialize(pairs []models.WordPair) string {
	lines := make([]string, len(pairs))
	for i, p := range pairs {
		lines[i] = p.Source + separator + p.Target
	}
	return strings.Join(lines, "\n")
}
