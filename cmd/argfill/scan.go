package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/boyter/gocodewalker"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"

	"github.com/rlch/argfill"
)

// Scan command errors.
var ErrNoJavaFiles = errors.New("no .java files found")

var (
	fileStyle   = lipgloss.NewStyle().Bold(true)
	calleeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))
	argStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)

func scanCommand() *cli.Command {
	return &cli.Command{
		Name:      "scan",
		Usage:     "Report empty call sites the heuristics can fill",
		ArgsUsage: "[files or directories...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "plain",
				Usage: "disable styled output",
			},
		},
		Action: runScan,
	}
}

// finding is one fillable empty call site.
type finding struct {
	line, col int
	callee    string
	arguments string
}

func runScan(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) == 0 {
		args = []string{"."}
	}

	files, err := collectJavaFiles(args)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return ErrNoJavaFiles
	}

	styled := !cmd.Bool("plain") && isatty.IsTerminal(os.Stdout.Fd())

	var total int

	for _, file := range files {
		data, err := os.ReadFile(file) //nolint:gosec // G304: file path from user input is expected
		if err != nil {
			return fmt.Errorf("reading %s: %w", file, err)
		}

		findings := scanFile(string(data))
		if len(findings) == 0 {
			continue
		}

		total += len(findings)

		printFindings(file, findings, styled)
	}

	if total == 0 {
		fmt.Println("no fillable call sites found")

		return nil
	}

	summary := fmt.Sprintf("%d fillable call site(s)", total)
	if styled {
		summary = dimStyle.Render(summary)
	}

	fmt.Println(summary)

	return nil
}

// scanFile reports every empty call site whose callee the heuristic table
// recognizes. Calls with arguments already present are skipped.
func scanFile(text string) []finding {
	var findings []finding

	for i := 0; i < len(text); i++ {
		if text[i] != '(' {
			continue
		}

		site, ok := argfill.Locate(text, i+1)
		if !ok || site.Open != i {
			continue
		}

		if argfill.CountArguments(site.Args) > 0 {
			continue
		}

		params := argfill.HeuristicParameters(site.Callee)
		if len(params) == 0 {
			continue
		}

		line, col := lineCol(text, site.Open)
		findings = append(findings, finding{
			line:      line,
			col:       col,
			callee:    site.Callee,
			arguments: argfill.Synthesize(params, argfill.DefaultOptions()),
		})
	}

	return findings
}

func printFindings(file string, findings []finding, styled bool) {
	header := file
	if styled {
		header = fileStyle.Render(header)
	}

	fmt.Println(header)

	for _, f := range findings {
		callee := f.callee + "()"
		arguments := f.arguments

		if styled {
			callee = calleeStyle.Render(callee)
			arguments = argStyle.Render(arguments)
		}

		fmt.Printf("  %d:%d  %s -> %s\n", f.line, f.col, callee, arguments)
	}

	fmt.Println()
}

// lineCol converts a byte offset to 1-based line and column.
func lineCol(text string, offset int) (int, int) {
	line := 1 + strings.Count(text[:offset], "\n")

	last := strings.LastIndexByte(text[:offset], '\n')
	col := offset - last // last is -1 on the first line

	return line, col
}

// collectJavaFiles expands the arguments into .java files, walking
// directories with .gitignore awareness.
func collectJavaFiles(args []string) ([]string, error) {
	var files []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}

		if info.IsDir() {
			if err := walkJavaDir(arg, func(path string) {
				files = append(files, path)
			}); err != nil {
				return nil, err
			}
		} else if strings.HasSuffix(arg, ".java") {
			files = append(files, filepath.Clean(arg))
		}
	}

	return files, nil
}

// walkJavaDir walks a directory for .java files, respecting .gitignore.
func walkJavaDir(root string, callback func(path string)) error {
	fileListQueue := make(chan *gocodewalker.File, 100)

	fileWalker := gocodewalker.NewFileWalker(root, fileListQueue)
	fileWalker.AllowListExtensions = []string{"java"}

	var walkErr error

	fileWalker.SetErrorHandler(func(e error) bool {
		walkErr = e

		return true
	})

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()

		for f := range fileListQueue {
			callback(f.Location)
		}
	}()

	if err := fileWalker.Start(); err != nil {
		return err
	}

	wg.Wait()

	return walkErr
}
