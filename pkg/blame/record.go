// Package blame runs git blame for a file and turns its porcelain output
// into per-line attribution records.
package blame

// Record is the attribution of a single line.
type Record struct {
	Hash    string `json:"hash" yaml:"hash"`
	Author  string `json:"author" yaml:"author"`
	Date    string `json:"date,omitempty" yaml:"date,omitempty"` // YYYY-MM-DD, empty when author-time was missing
	Message string `json:"message" yaml:"message"`
	Line    int    `json:"line" yaml:"line"` // 1-based
}

// HasDate reports whether the block carried a usable author-time.
func (r Record) HasDate() bool {
	return r.Date != ""
}

// ShortHash returns the first 8 characters of the commit hash.
func (r Record) ShortHash() string {
	if len(r.Hash) > 8 {
		return r.Hash[:8]
	}
	return r.Hash
}

// Set holds one Record per physical line of one file version, in file order.
type Set []Record
