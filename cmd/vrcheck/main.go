// Program vrcheck compiles a validation-rules document and checks a
// configuration document against it.
//
// Usage: vrcheck --rules FILE --config FILE [--format yaml|toml] [--version N]
//
// It prints "ok" and exits 0 if the configuration document satisfies the
// rules, or prints the single validation error to stderr and exits 1
// (mirroring the teacher's exitIfError pattern).
package main

import (
	"fmt"
	"os"

	"github.com/pborman/getopt"

	"github.com/erbsland-dev/erbsland-go-vr/pkg/confvalue"
	"github.com/erbsland-dev/erbsland-go-vr/pkg/docio"
	"github.com/erbsland-dev/erbsland-go-vr/pkg/vr"
	"github.com/erbsland-dev/erbsland-go-vr/pkg/vr/vrmetrics"
)

// stop is a package variable so tests could swap it for something that
// doesn't kill the test binary; nothing in this module does so yet.
var stop = os.Exit

func exitIfError(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop(1)
	}
}

func formatFromFlag(name string) (docio.Format, error) {
	switch name {
	case "", "yaml":
		return docio.YAML, nil
	case "toml":
		return docio.TOML, nil
	default:
		return docio.YAML, fmt.Errorf("vrcheck: unknown --format %q, expected yaml or toml", name)
	}
}

func main() {
	var rulesPath, configPath, format string
	var version int
	var withMetrics bool
	getopt.StringVarLong(&rulesPath, "rules", 0, "path to the rules document", "FILE")
	getopt.StringVarLong(&configPath, "config", 0, "path to the configuration document to validate", "FILE")
	getopt.StringVarLong(&format, "format", 0, "document format: yaml or toml (default yaml)", "FORMAT")
	getopt.IntVarLong(&version, "version", 0, "document schema version", "N")
	getopt.BoolVarLong(&withMetrics, "metrics", 0, "record the run with pkg/vr/vrmetrics and print its run ID")
	getopt.SetParameters("")
	getopt.Parse()

	if rulesPath == "" || configPath == "" {
		fmt.Fprintln(os.Stderr, "vrcheck: both --rules and --config are required")
		getopt.PrintUsage(os.Stderr)
		stop(1)
		return
	}

	fmtKind, err := formatFromFlag(format)
	exitIfError(err)

	rulesRoot, err := docio.LoadFile(rulesPath, fmtKind)
	exitIfError(err)
	rules, err := vr.CompileRulesDocument(confvalue.WrapDocument(rulesRoot, int64(version)))
	exitIfError(err)

	configRoot, err := docio.LoadFile(configPath, fmtKind)
	exitIfError(err)

	validator := vr.NewDocumentValidator(rules.Root(), configRoot, int64(version))
	var collector *vrmetrics.Collector
	if withMetrics {
		collector = vrmetrics.NewCollector()
		validator.SetMetricsRecorder(collector)
	}
	err = validator.Validate()
	exitIfError(err)

	fmt.Println("ok")
	if withMetrics {
		fmt.Fprintf(os.Stderr, "run %s: validated successfully\n", validator.RunID())
	}
}
