package render

import "strings"

// Wrap greedily fills lines of at most width characters. Whitespace runs
// collapse to one space. A word longer than width is split: its head fills the
// rest of the current line and the remainder continues on following lines.
func Wrap(text string, width int) []string {
	if width < 1 {
		width = 1
	}

	var (
		lines []string
		line  []rune
	)
	flush := func() {
		if len(line) > 0 {
			lines = append(lines, string(line))
			line = line[:0]
		}
	}

	for _, word := range strings.Fields(text) {
		w := []rune(word)
		for len(w) > 0 {
			sep := 0
			if len(line) > 0 {
				sep = 1
			}

			if len(line)+sep+len(w) <= width {
				if sep == 1 {
					line = append(line, ' ')
				}
				line = append(line, w...)
				break
			}

			if len(w) <= width {
				flush()
				continue
			}

			// word cannot fit on any line; split it
			space := width - len(line) - sep
			if space > 0 {
				if sep == 1 {
					line = append(line, ' ')
				}
				line = append(line, w[:space]...)
				w = w[space:]
			}
			flush()
		}
	}
	flush()

	return lines
}
