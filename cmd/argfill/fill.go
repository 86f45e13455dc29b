package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
	"go.lsp.dev/uri"
	"go.uber.org/zap"

	"github.com/rlch/argfill"
	"github.com/rlch/argfill/lsp"
)

// Fill command errors.
var (
	ErrNoPosition   = errors.New("no position specified (use --offset or --line/--col)")
	ErrNothingToDo  = errors.New("nothing to fill at this position")
	ErrBadPosition  = errors.New("position outside file")
	ErrMissingFile  = errors.New("expected exactly one Java file")
	ErrLineNotFound = errors.New("line past end of file")
)

func fillCommand() *cli.Command {
	return &cli.Command{
		Name:      "fill",
		Usage:     "Fill the arguments of the call at a position",
		ArgsUsage: "<file.java>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "offset",
				Usage: "byte offset of the cursor",
				Value: -1,
			},
			&cli.IntFlag{
				Name:  "line",
				Usage: "1-based cursor line",
			},
			&cli.IntFlag{
				Name:  "col",
				Usage: "1-based cursor column",
				Value: 1,
			},
			&cli.BoolFlag{
				Name:    "write",
				Aliases: []string{"w"},
				Usage:   "rewrite the file instead of printing the arguments",
			},
			&cli.BoolFlag{
				Name:  "no-provider",
				Usage: "skip the configured signature provider",
			},
		},
		Action: runFill,
	}
}

func runFill(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) != 1 {
		return ErrMissingFile
	}

	path := args[0]

	data, err := os.ReadFile(path) //nolint:gosec // G304: file path from user input is expected
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	text := string(data)

	offset, err := cursorOffset(cmd, text)
	if err != nil {
		return err
	}

	// Config walks up from the file, so project-local .argfill.yaml wins.
	cfg, err := argfill.LoadConfig(filepath.Dir(path))
	if err != nil && !errors.Is(err, argfill.ErrConfigNotFound) {
		return fmt.Errorf("loading config: %w", err)
	}

	opts := cfg.Options()

	var source argfill.SignatureSource

	if !cmd.Bool("no-provider") && cfg != nil && cfg.Provider != nil && len(cfg.Provider.Command) > 0 {
		provider := lsp.NewProvider(zap.NewNop(), cfg.Provider.Command)
		defer func() { _ = provider.Close() }()

		source = provider
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving path %s: %w", path, err)
	}

	resolver := argfill.NewResolver(source)

	result := resolver.FillAt(ctx, string(uri.File(absPath)), text, offset, opts)
	if result == nil {
		return ErrNothingToDo
	}

	if !cmd.Bool("write") {
		fmt.Println(result.Arguments)

		return nil
	}

	updated := text[:result.ReplaceStart] + result.Arguments + text[result.ReplaceStart+result.ReplaceLength:]

	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, []byte(updated), info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	fmt.Printf("%s: filled %q\n", path, result.Arguments)

	return nil
}

// cursorOffset resolves the cursor position flags to a byte offset.
// --offset wins over --line/--col.
func cursorOffset(cmd *cli.Command, text string) (int, error) {
	if offset := int(cmd.Int("offset")); offset >= 0 {
		if offset > len(text) {
			return 0, ErrBadPosition
		}

		return offset, nil
	}

	line := int(cmd.Int("line"))
	if line < 1 {
		return 0, ErrNoPosition
	}

	col := int(cmd.Int("col"))
	if col < 1 {
		col = 1
	}

	lines := strings.SplitAfter(text, "\n")
	if line > len(lines) {
		return 0, ErrLineNotFound
	}

	offset := 0
	for i := 0; i < line-1; i++ {
		offset += len(lines[i])
	}

	rest := lines[line-1]
	if col-1 > len(rest) {
		return 0, ErrBadPosition
	}

	return offset + col - 1, nil
}
