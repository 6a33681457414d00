package blame

import "strings"

// reorderBlocks rewrites `git blame --line-porcelain` output into the shape
// ParsePorcelain reads: each block's metadata lines first, followed by its
// commit header line. Source content lines (tab-prefixed) are dropped.
func reorderBlocks(raw string) string {
	var (
		b       strings.Builder
		header  string
		pending []string
	)

	flush := func() {
		if header == "" {
			return
		}
		for _, l := range pending {
			b.WriteString(l)
			b.WriteByte('\n')
		}
		b.WriteString(header)
		b.WriteByte('\n')
		header = ""
		pending = pending[:0]
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSuffix(line, "\r")
		switch {
		case strings.HasPrefix(line, "\t"):
			continue
		case line == "":
			continue
		}
		if _, ok := commitHash(line); ok {
			flush()
			header = line
			continue
		}
		pending = append(pending, line)
	}
	flush()

	return b.String()
}
