// Package inspect implements the read-only diagnostics over the cleaned
// tables: a schema listing and a row and column preview.
//
// Output is coloured with fatih/color, which turns colour off when NO_COLOR
// is set or the output is not a terminal.
package inspect
