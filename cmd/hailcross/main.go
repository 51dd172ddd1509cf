// Command hailcross counts hailstone pairs whose future paths cross inside a
// square test area.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/hailcross/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
