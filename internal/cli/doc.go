// Package cli holds the cobra commands of the springs binary.
package cli
