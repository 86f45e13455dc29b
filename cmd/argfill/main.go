// Command argfill fills call-site arguments in Java source from the
// command line.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:  "argfill",
		Usage: "Fill call-site arguments in Java source",
		Commands: []*cli.Command{
			fillCommand(),
			scanCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "argfill: %v\n", err)
		os.Exit(1)
	}
}
