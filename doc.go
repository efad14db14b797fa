// # go-cheatsheet
//
// `go-cheatsheet` builds a parser-combinator cheatsheet whose examples are
// always right, because every one of them is executed while the document is
// built.
//
// A template is ordinary Markdown. Tables with the header
//
//	| reference | usage | input | output | description |
//
// list one example per row: the documented symbols (`bytes::Tag`, separated by
// `<br>`), a Go expression building the parser, the input it is applied to and
// a description. The output cell of the template is ignored and replaced by
// the parser's result and remainder, or by its error. A row with an empty
// reference cell shows the references of the row above it. Rows without usage
// and input are copied with an empty output.
//
// Fenced `go` code blocks are compiled and run as tests; blocks tagged
// `ignore` are shown as Go but never run.
//
// ## Usage
//
//	go-cheatsheet [flags] [template]
//
// Examples:
//
//   - Build the cheatsheet and print it:
//
//     go-cheatsheet docs/cheatsheet.md
//
//   - Write Markdown and HTML, rebuilding on every save:
//
//     go-cheatsheet build -o CHEATSHEET.md --html cheatsheet.html --watch
//
//   - Inspect the generated program without running it:
//
//     go-cheatsheet build --no-run --emit-dir /tmp/cheatsheet
//
//   - Check that every reference names a real declaration:
//
//     go-cheatsheet check-refs docs/cheatsheet.md
//
// ## How a build works
//
// The template is split into text and code blocks. Each runnable row becomes
// a function in a generated Go program that applies the parser to the input
// and prints the finished row; text between rows is printed as is. The
// program is placed in a temporary module whose go.mod replaces the
// documented module with the local checkout, so the examples always run
// against the working tree. The program's standard output is the document.
//
// ## Configuration
//
// Settings are read from `cheatsheet.yaml` (or `--config`), then
// `CHEATSHEET_*` environment variables, then flags. See
// [github.com/agentflare-ai/go-cheatsheet/internal/config] for the keys.
//
// ## Shell Completion and CLI Docs
//
//	go-cheatsheet completion bash > /usr/local/etc/bash_completion.d/go-cheatsheet
//	go-cheatsheet gen-docs ./docs/cli
package main
