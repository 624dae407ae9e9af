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

// Command lisp is a thin, non-interactive batch driver over package
// interp: it parses every form in a file (or stdin) and evaluates them in
// order against one shared global environment, printing each top-level
// result. It exists only so the core (packages datum/lexer/parser/pset/
// env/eval/builtins/printer/interp) is reachable end-to-end; the
// interactive REPL and its line editing are explicitly out of scope (spec
// section 1).
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dgoffredo/bdelisp/datum"
	"github.com/dgoffredo/bdelisp/interp"
	"github.com/dgoffredo/bdelisp/internal/ngi"
	"github.com/dgoffredo/bdelisp/parser"
	"github.com/dgoffredo/bdelisp/printer"
)

var (
	debug      bool
	typeOffset int64
	quiet      bool
)

// atExit mirrors the teacher's cmd/retro/main.go convention: diagnostics
// go straight to stderr, with a stack-trace-bearing %+v rendering when
// -debug is set.
func atExit(err error) {
	if err == nil {
		return
	}
	if !debug {
		fmt.Fprintf(os.Stderr, "%v\n", err)
	} else {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
	}
	os.Exit(1)
}

func readSource(path string) (string, error) {
	if path == "" || path == "-" {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}

func main() {
	var err error
	defer func() { atExit(err) }()

	flag.BoolVar(&debug, "debug", false, "print Go-level stack traces on fatal errors")
	flag.Int64Var(&typeOffset, "offset", 0, "user-defined type `code` offset for this interpreter instance")
	flag.BoolVar(&quiet, "quiet", false, "suppress printing each top-level result")
	flag.Parse()

	path := flag.Arg(0)
	src, readErr := readSource(path)
	if readErr != nil {
		err = readErr
		return
	}

	offset := int32(typeOffset)
	p := parser.New(src, offset)
	forms, parseErr := p.ParseAll()
	if parseErr != nil {
		err = parseErr
		return
	}

	i := interp.New(offset)
	out := ngi.NewErrWriter(os.Stdout)
	for _, form := range forms {
		result := i.Evaluate(form)
		if quiet {
			continue
		}
		if e, ok := result.(datum.Error); ok {
			fmt.Fprintf(os.Stderr, "error: %s (code %d)\n", e.Message, e.Code)
			continue
		}
		// out.Err sticks once stdout fails (e.g. the reader end of a pipe
		// closed); no point formatting or attempting further writes.
		if out.Err != nil {
			break
		}
		fmt.Fprintln(out, printer.Print(offset, result))
	}
	if out.Err != nil {
		err = out.Err
	}
}
