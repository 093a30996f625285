package translate

import (
	"strings"
)

// SRTBatchSize is how many subtitle blocks share one model call.
const SRTBatchSize = 10

const separator = "[SEP]"

// subtitle is one SRT block. Blocks with fewer than three lines carry no
// text and are passed through unchanged.
type subtitle struct {
	raw   string
	lines []string
}

func (b subtitle) hasText() bool { return len(b.lines) >= 3 }

func (b subtitle) text() string { return strings.Join(b.lines[2:], "\n") }

// withText keeps the index and timestamp lines and replaces the text.
func (b subtitle) withText(text string) string {
	return b.lines[0] + "\n" + b.lines[1] + "\n" + text
}

func parseSRT(content string) []subtitle {
	content = strings.TrimSpace(strings.ReplaceAll(content, "\r\n", "\n"))
	if content == "" {
		return nil
	}
	parts := strings.Split(content, "\n\n")
	out := make([]subtitle, 0, len(parts))
	for _, p := range parts {
		out = append(out, subtitle{raw: p, lines: strings.Split(p, "\n")})
	}
	return out
}

// batches splits blocks into runs of at most size.
func batches(blocks []subtitle, size int) [][]subtitle {
	var out [][]subtitle
	for start := 0; start < len(blocks); start += size {
		out = append(out, blocks[start:min(start+size, len(blocks))])
	}
	return out
}

// texts returns the subtitle texts of a batch in order.
func texts(batch []subtitle) []string {
	var out []string
	for _, b := range batch {
		if b.hasText() {
			out = append(out, b.text())
		}
	}
	return out
}

// merge rebuilds a batch from its translations. The n-th translation goes to
// the n-th block that has text; blocks without a translation keep the
// original.
func merge(batch []subtitle, reply string) []string {
	translations := strings.Split(reply, separator)
	out := make([]string, 0, len(batch))
	n := 0
	for _, b := range batch {
		if !b.hasText() {
			out = append(out, b.raw)
			continue
		}
		if n < len(translations) {
			out = append(out, b.withText(strings.TrimSpace(translations[n])))
		} else {
			out = append(out, b.raw)
		}
		n++
	}
	return out
}
