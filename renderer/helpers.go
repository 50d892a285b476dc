package renderer

import (
	"bytes"
	"io"
)

// Zeroer is implemented by values that can report themselves as zero.
type Zeroer interface{ IsZero() bool }

// AllAreZero reports whether every given value is zero. Renderers use it
// to drop optional columns and sections from a report.
func AllAreZero[T Zeroer](values ...T) bool {
	for _, v := range values {
		if !v.IsZero() {
			return false
		}
	}
	return true
}

// ConditionalBlock let you fully write a block and decide at the end to print it or not.
// If the block function returns true, the content is printed to w, otherwise it is discarded.
func ConditionalBlock(w io.Writer, block func(io.Writer) bool) {
	bw := &bytes.Buffer{}
	if block(bw) {
		io.Copy(w, bw)
	}
}
