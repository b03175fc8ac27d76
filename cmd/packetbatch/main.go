// Command packetbatch sorts firewall packet records in fixed-size batches.
package main

import (
	"os"

	"github.com/rshade/packetbatch/internal/cli"
	"github.com/rshade/packetbatch/pkg/version"
)

func main() {
	os.Exit(run())
}

// run executes the CLI and returns the process exit code.
func run() int {
	return cli.Main(version.GetVersion())
}
