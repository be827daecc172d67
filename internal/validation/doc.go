// Package validation holds the directory and file checks stages run
// before reading inputs or writing outputs.
package validation
