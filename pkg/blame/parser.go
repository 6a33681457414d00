package blame

import (
	"strconv"
	"strings"
	"time"

	"github.com/DrSkyle/lineblame/pkg/sys/intern"
)

// DateLayout is the day-granularity format used for Record.Date.
const DateLayout = "2006-01-02"

const hashLen = 40

// ParsePorcelain converts blame output into a Set.
//
// Fields accumulate into a pending record as their prefixed lines appear.
// A line starting with a 40-hex commit hash closes the pending record: it
// takes that hash and the next sequential line number, and a fresh record
// begins. Incomplete blocks produce partial records; parsing never fails.
// author-time is rendered in loc, or UTC when loc is nil. Repeated values
// share storage and never reference raw.
func ParsePorcelain(raw string, loc *time.Location) Set {
	if loc == nil {
		loc = time.UTC
	}

	var (
		set  Set
		cur  Record
		next = 1
		pool = intern.New(64)
	)

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSuffix(line, "\r")

		switch {
		case strings.HasPrefix(line, "author-time "):
			ts, err := strconv.ParseInt(strings.TrimSpace(strings.TrimPrefix(line, "author-time ")), 10, 64)
			if err == nil {
				cur.Date = time.Unix(ts, 0).In(loc).Format(DateLayout)
			}
		case strings.HasPrefix(line, "author "):
			cur.Author = pool.Get(strings.TrimPrefix(line, "author "))
		case strings.HasPrefix(line, "summary "):
			cur.Message = pool.Get(strings.TrimPrefix(line, "summary "))
		default:
			hash, ok := commitHash(line)
			if !ok {
				continue
			}
			cur.Hash = pool.Get(hash)
			cur.Line = next
			set = append(set, cur)
			next++
			cur = Record{}
		}
	}

	return set
}

// commitHash returns the leading hash when line starts with one.
func commitHash(line string) (string, bool) {
	if len(line) < hashLen {
		return "", false
	}
	if len(line) > hashLen && line[hashLen] != ' ' {
		return "", false
	}
	for i := 0; i < hashLen; i++ {
		if !isHex(line[i]) {
			return "", false
		}
	}
	return line[:hashLen], true
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
