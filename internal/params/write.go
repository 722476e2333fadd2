package params

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Write writes the set as "key value" lines in file order. Inline comments are
// kept if comments is true. Full-line comments and blank lines aren't kept.
func Write(w io.Writer, s *Set, comments bool) error {
	bw := bufio.NewWriter(w)

	width := 0
	for _, e := range s.entries {
		if len(e.Key) > width {
			width = len(e.Key)
		}
	}

	for _, e := range s.entries {
		var err error
		if comments && e.Comment != "" {
			_, err = fmt.Fprintf(bw, "%-*s %s # %s\n", width, e.Key, e.Value.Raw, e.Comment)
		} else {
			_, err = fmt.Fprintf(bw, "%-*s %s\n", width, e.Key, e.Value.Raw)
		}
		if err != nil {
			return err
		}
	}

	return bw.Flush()
}

// Format returns the set as it would be written by Write, without comments.
func Format(s *Set) string {
	var b strings.Builder
	_ = Write(&b, s, false)
	return b.String()
}
