// mvnlens - Maven Build Log Analyzer
//
// mvnlens parses Maven build logs and reports where the build time went:
// per-module durations, test and compilation workload, health hints and
// cross-build aggregates.
package main

import (
	"os"

	"github.com/ccollicutt/mvnlens/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
