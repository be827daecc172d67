//go:build ignore

// build.go - springs build helper
// Usage: go run build.go [-target=TARGET] [-v]
// Targets: all, springs, loadclean, merge, trends, ecology, visualize, export, clean, test

package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"
)

const module = "springcli"

var (
	rootDir string
	distDir string

	// binaries lists the cmd/ directories that produce an executable
	binaries = []string{"springs", "loadclean", "merge", "trends", "ecology", "visualize", "export"}

	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorBlue  = "\033[34m"
	colorCyan  = "\033[36m"
)

func main() {
	target := flag.String("target", "all", "Build target")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	cwd, err := os.Getwd()
	if err != nil {
		printError(fmt.Sprintf("Failed to get current directory: %v", err))
		os.Exit(1)
	}
	rootDir = cwd
	distDir = filepath.Join(rootDir, "dist")

	printHeader()
	startTime := time.Now()

	switch {
	case *target == "all":
		buildAll(*verbose)
	case *target == "clean":
		clean()
	case *target == "test":
		runTests(*verbose)
	case isBinary(*target):
		buildBinary(*target, *verbose)
	default:
		showHelp()
		os.Exit(1)
	}

	printSuccess(fmt.Sprintf("Build completed in %s", time.Since(startTime).Round(time.Millisecond)))
}

func printHeader() {
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println(colorCyan + "       Springs Pipeline - Build      " + colorReset)
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println()
}

func printInfo(msg string) {
	fmt.Printf("%s[INFO]%s %s\n", colorBlue, colorReset, msg)
}

func printSuccess(msg string) {
	fmt.Printf("%s[SUCCESS]%s %s\n", colorGreen, colorReset, msg)
}

func printError(msg string) {
	fmt.Printf("%s[ERROR]%s %s\n", colorRed, colorReset, msg)
}

func isBinary(name string) bool {
	for _, b := range binaries {
		if b == name {
			return true
		}
	}
	return false
}

func buildAll(verbose bool) {
	printInfo("Building all binaries...")
	if err := os.MkdirAll(distDir, 0755); err != nil {
		printError(fmt.Sprintf("Failed to create dist directory: %v", err))
		os.Exit(1)
	}
	for _, name := range binaries {
		buildBinary(name, verbose)
	}
}

func buildBinary(name string, verbose bool) {
	printInfo(fmt.Sprintf("Building %s...", name))

	exeName := name
	if runtime.GOOS == "windows" {
		exeName += ".exe"
	}
	outputPath := filepath.Join(distDir, exeName)

	ldflags := fmt.Sprintf("-s -w -X %s/pkg/contracts.BuildTime=%s -X %s/pkg/contracts.GitCommit=%s",
		module, time.Now().Format(time.RFC3339), module, gitCommit())

	args := []string{"build"}
	if verbose {
		args = append(args, "-v")
	}
	args = append(args, "-ldflags", ldflags, "-o", outputPath, "./cmd/"+name)

	cmd := exec.Command("go", args...)
	cmd.Dir = rootDir
	cmd.Stderr = os.Stderr
	if verbose {
		fmt.Printf("Running: go %s\n", strings.Join(args, " "))
		cmd.Stdout = os.Stdout
	}

	if err := cmd.Run(); err != nil {
		printError(fmt.Sprintf("Failed to build %s: %v", name, err))
		os.Exit(1)
	}

	if info, err := os.Stat(outputPath); err == nil {
		sizeMB := float64(info.Size()) / 1024 / 1024
		printSuccess(fmt.Sprintf("Built %s (%.1f MB)", exeName, sizeMB))
	}
}

func gitCommit() string {
	out, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(out))
}

func clean() {
	printInfo("Cleaning build artifacts...")
	if err := os.RemoveAll(distDir); err != nil {
		printError(fmt.Sprintf("Failed to clean dist directory: %v", err))
		os.Exit(1)
	}
	printSuccess("Build artifacts cleaned")
}

func runTests(verbose bool) {
	printInfo("Running Go tests...")
	args := []string{"test", "-race"}
	if verbose {
		args = append(args, "-v")
	}
	args = append(args, "./...")

	cmd := exec.Command("go", args...)
	cmd.Dir = rootDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		printError(fmt.Sprintf("Go tests failed: %v", err))
		os.Exit(1)
	}
	printSuccess("All tests passed")
}

func showHelp() {
	targets := append([]string{"all", "clean", "test"}, binaries...)
	sort.Strings(targets[3:])
	fmt.Println("Usage: go run build.go -target=<target> [-v]")
	fmt.Printf("Targets: %s\n", strings.Join(targets, ", "))
}
