// This file is part of bdelisp - https://github.com/dgoffredo/bdelisp
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package lexer turns a subject string into a stream of Tokens (spec
// sections 4.1/4.2): LineCounter tracks (offset, line, column), and Lexer
// implements the delimited-token/symbol-fallback scanning algorithm.
package lexer

// LineCounter maintains (offset, line, column) over a subject string, per
// spec section 4.1. It is stateful but monotonic: AdvanceTo must never be
// called with a smaller offset than the last one seen.
type LineCounter struct {
	Offset int
	Line   int
	Column int
}

// Reset re-initializes the counter for a new subject string s. Per spec:
// offset=0, line=1, column=1 -- except when s begins with '\n', in which
// case line=2, column=0 (the leading newline is charged immediately).
func (c *LineCounter) Reset(s string) {
	c.Offset = 0
	c.Line = 1
	c.Column = 1
	if len(s) > 0 && s[0] == '\n' {
		c.Line = 2
		c.Column = 0
	}
}

// AdvanceTo updates line/column for the characters of s in [c.Offset,
// newOffset), charging each '\n' as a line break; the newline itself
// occupies column 0 of the new line. newOffset must be >= c.Offset.
func (c *LineCounter) AdvanceTo(s string, newOffset int) {
	for i := c.Offset; i < newOffset; i++ {
		if s[i] == '\n' {
			c.Line++
			c.Column = 0
		} else {
			c.Column++
		}
	}
	c.Offset = newOffset
}
