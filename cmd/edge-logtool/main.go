// Command edge-logtool views and analyzes edge-supervisor protocol log
// files.
//
// Log files are created by edge-supervisor when run with the
// -protocol-log flag.
//
// Usage:
//
//	edge-logtool <command> [flags] <file.elog>
//
// Commands:
//
//	view     View log file in human-readable format
//	export   Export log file to JSON or CSV format
//	filter   Filter log file and write to new file
//	stats    Show statistics about the log file
//
// Examples:
//
//	# View all events
//	edge-logtool view bus.elog
//
//	# View only wire-layer events
//	edge-logtool view --layer wire bus.elog
//
//	# View only outgoing frames
//	edge-logtool view --direction out bus.elog
//
//	# Export to JSONL
//	edge-logtool export --format jsonl bus.elog
//
//	# Filter by unit and save to new file
//	edge-logtool filter --unit-id 5 -o filtered.elog bus.elog
//
//	# Show statistics
//	edge-logtool stats bus.elog
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/lobocorp/modbus-edge-supervisor/cmd/edge-logtool/commands"
)

const usage = `edge-logtool - Edge Supervisor Log Analyzer

Usage:
  edge-logtool <command> [flags] <file.elog>

Commands:
  view     View log file in human-readable format
  export   Export log file to JSON or CSV format
  filter   Filter log file and write to new file
  stats    Show statistics about the log file

Use "edge-logtool <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `edge-logtool view - View log file in human-readable format

Usage:
  edge-logtool view [flags] <file.elog>

Flags:
`)
		fs.PrintDefaults()
	}

	layer := fs.String("layer", "", "Filter by layer (transport, wire, arbiter, discovery, poller, alert, command)")
	direction := fs.String("direction", "", "Filter by direction (in, out)")
	category := fs.String("category", "", "Filter by category (frame, transaction, state, discovery, alert, error)")
	unitID := fs.Uint("unit-id", 0, "Filter by Modbus unit ID")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)

	var filter commands.ViewFilter
	filter.UnitID = uint8(*unitID)

	if *layer != "" {
		l, err := commands.ParseLayerFlag(*layer)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		filter.Layer = &l
	}

	if *direction != "" {
		d, err := commands.ParseDirectionFlag(*direction)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		filter.Direction = &d
	}

	if *category != "" {
		c, err := commands.ParseCategoryFlag(*category)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		filter.Category = &c
	}

	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `edge-logtool export - Export log file to JSON or CSV format

Usage:
  edge-logtool export [flags] <file.elog>

Flags:
`)
		fs.PrintDefaults()
	}

	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)

	if err := commands.RunExport(path, *format, *output); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runFilter(args []string) {
	fs := flag.NewFlagSet("filter", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `edge-logtool filter - Filter log file and write to new file

Usage:
  edge-logtool filter [flags] <file.elog>

Flags:
`)
		fs.PrintDefaults()
	}

	output := fs.String("o", "", "Output file (required)")
	transactionID := fs.String("transaction-id", "", "Filter by transaction ID")
	unitID := fs.String("unit-id", "", "Filter by Modbus unit ID")
	timeStart := fs.String("time-start", "", "Filter by start time (RFC3339)")
	timeEnd := fs.String("time-end", "", "Filter by end time (RFC3339)")
	layer := fs.String("layer", "", "Filter by layer (transport, wire, arbiter, discovery, poller, alert, command)")
	direction := fs.String("direction", "", "Filter by direction (in, out)")
	category := fs.String("category", "", "Filter by category (frame, transaction, state, discovery, alert, error)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)

	var unit uint8
	if *unitID != "" {
		n, err := strconv.Atoi(*unitID)
		if err != nil || n < 0 || n > 255 {
			fmt.Fprintf(os.Stderr, "Error: invalid unit-id: %s\n", *unitID)
			os.Exit(1)
		}
		unit = uint8(n)
	}

	opts := commands.FilterOptions{
		Output:        *output,
		TransactionID: *transactionID,
		UnitID:        unit,
		TimeStart:     *timeStart,
		TimeEnd:       *timeEnd,
		Layer:         *layer,
		Direction:     *direction,
		Category:      *category,
	}

	if err := commands.RunFilter(path, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `edge-logtool stats - Show statistics about the log file

Usage:
  edge-logtool stats <file.elog>

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
