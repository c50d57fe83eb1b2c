package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/wavesplatform/goserde/pkg/dataset"
	"github.com/wavesplatform/goserde/pkg/logging"
)

const (
	cmdSer       = "ser"
	cmdDe        = "de"
	cmdRoundtrip = "roundtrip"
	cmdEncode    = "encode"
	cmdCompare   = "compare"

	formatBinary = "binary"
	formatJSON   = "json"
	formatCBOR   = "cbor"

	syntheticDataset = "synthetic"
)

var (
	commands = []string{cmdSer, cmdDe, cmdRoundtrip, cmdEncode, cmdCompare}
	formats  = []string{formatBinary, formatJSON, formatCBOR}
)

type config struct {
	command    string
	dataset    string
	records    int
	iterations int
	workers    int
	format     string
	indent     string
	input      string
	output     string
	prometheus string
	lp         logging.Parameters
}

func datasets() []string {
	return append(dataset.Names(), syntheticDataset)
}

func (c *config) String() string {
	return fmt.Sprintf("{command: %s, dataset: %s, records: %d, iterations: %d, workers: %d, "+
		"format: %s, input: %q, output: %q, prometheus: %q, logging: %s}",
		c.command, c.dataset, c.records, c.iterations, c.workers, c.format, c.input, c.output,
		c.prometheus, c.lp.String())
}

func (c *config) parse(args []string) error {
	fs := pflag.NewFlagSet("serdebench", pflag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: serdebench [flags] <%s>\n", strings.Join(commands, "|"))
		fs.PrintDefaults()
	}
	fs.StringVarP(&c.dataset, "dataset", "d", syntheticDataset,
		fmt.Sprintf("Input document: %s.", strings.Join(datasets(), ", ")))
	fs.IntVarP(&c.records, "records", "n", 100, "Number of records in the synthetic document.")
	fs.IntVarP(&c.iterations, "iterations", "i", 1, "How many times to repeat the operation.")
	fs.IntVarP(&c.workers, "workers", "w", 4, "Number of concurrent workers of the roundtrip command.")
	fs.StringVarP(&c.format, "format", "f", formatBinary,
		fmt.Sprintf("Output format of the encode command: %s.", strings.Join(formats, ", ")))
	fs.StringVar(&c.indent, "indent", "", "Indentation of JSON output, compact if empty.")
	fs.StringVar(&c.input, "input", "", "File with a binary encoded document, required by the de command.")
	fs.StringVarP(&c.output, "output", "o", "", "File to write encoded documents to, stdout if empty.")
	fs.StringVar(&c.prometheus, "prometheus", "",
		"Serve collected metrics on the address after the command completes, until interrupted.")
	c.lp.Initialize(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	switch fs.NArg() {
	case 0:
		return errors.New("no command given")
	case 1:
		c.command = fs.Arg(0)
	default:
		return errors.Errorf("too many arguments %q", fs.Args())
	}
	return c.validate()
}

func (c *config) validate() error {
	if !slices.Contains(commands, c.command) {
		return errors.Errorf("unknown command %q", c.command)
	}
	if !slices.Contains(datasets(), c.dataset) {
		return errors.Errorf("unknown dataset %q", c.dataset)
	}
	if !slices.Contains(formats, c.format) {
		return errors.Errorf("unknown format %q", c.format)
	}
	if c.records < 0 {
		return errors.Errorf("invalid number of records %d", c.records)
	}
	if c.iterations <= 0 {
		return errors.Errorf("invalid number of iterations %d", c.iterations)
	}
	if c.workers <= 0 {
		return errors.Errorf("invalid number of workers %d", c.workers)
	}
	if c.command == cmdDe && c.input == "" {
		return errors.New("the de command requires an input file")
	}
	if c.indent != "" && c.format != formatJSON {
		return errors.New("indentation is supported by the json format only")
	}
	return nil
}
