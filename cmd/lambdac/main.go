package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"git.sr.ht/~sircmpwn/getopt"
	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/rfielding/lambda-beta/internal/session"
)

type options struct {
	cfg     session.Config
	expr    string
	metrics bool
	quiet   bool
	steps   bool
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: lambdac [options] [file ...]

Reduces each file (or standard input) to normal form and prints the result.

options:
  -e EXPR     reduce EXPR instead of reading files
  -s N        step limit per term (0 for none, default %d)
  -t DURATION time limit per term (0 for none, default %v)
  -r REPR     term representation: boxed, local or shared
  -c N        steps between limit checks
  -m          print reduction counters after each term
  -n          print the step count after each term
  -q          print only the reduced term
  -h          show this help
`, session.DefaultConfig().StepLimit, session.DefaultConfig().Timeout)
}

func parseOptions(args []string) (*options, []string, error) {
	opts := &options{cfg: session.DefaultConfig()}
	parsed, optind, err := getopt.Getopts(args, "e:s:t:r:c:mnqh")
	if err != nil {
		return nil, nil, err
	}
	for _, optV := range parsed {
		optarg := optV.Value
		switch optV.Option {
		case 'e':
			opts.expr = optarg
		case 's':
			value, err := strconv.ParseUint(optarg, 10, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("-s parameter not numeric: %q", optarg)
			}
			opts.cfg.StepLimit = value
		case 't':
			value, err := time.ParseDuration(optarg)
			if err != nil {
				return nil, nil, fmt.Errorf("-t parameter: %w", err)
			}
			opts.cfg.Timeout = value
		case 'r':
			r, err := session.ParseRealization(optarg)
			if err != nil {
				return nil, nil, err
			}
			opts.cfg.Realization = r
		case 'c':
			value, err := strconv.ParseUint(optarg, 10, 32)
			if err != nil || value == 0 {
				return nil, nil, fmt.Errorf("-c parameter must be a positive number: %q", optarg)
			}
			opts.cfg.ChunkSize = uint32(value)
		case 'm':
			opts.metrics = true
		case 'n':
			opts.steps = true
		case 'q':
			opts.quiet = true
		case 'h':
			return nil, nil, errHelp
		}
	}
	return opts, args[optind:], nil
}

var errHelp = errors.New("help requested")

type input struct {
	name string
	src  string
}

func readInputs(opts *options, files []string, stdin io.Reader) ([]input, error) {
	if opts.expr != "" {
		return []input{{name: "-e", src: opts.expr}}, nil
	}
	if len(files) == 0 {
		src, err := io.ReadAll(stdin)
		if err != nil {
			return nil, err
		}
		return []input{{name: "<stdin>", src: string(src)}}, nil
	}
	var out []input
	for _, f := range files {
		src, err := os.ReadFile(f)
		if err != nil {
			return nil, err
		}
		out = append(out, input{name: f, src: string(src)})
	}
	return out, nil
}

// run reduces every input and returns the process exit code.
func run(opts *options, inputs []input, stdout, stderr io.Writer) int {
	s := session.New(opts.cfg)
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	code := 0
	for _, in := range inputs {
		res, err := s.Evaluate(in.src)
		if res == nil {
			fmt.Fprintf(stderr, "%s:%s\n", in.name, red(err.Error()))
			code = 1
			continue
		}
		if !opts.quiet && len(inputs) > 1 {
			fmt.Fprintf(stdout, "%s:\n", in.name)
		}
		fmt.Fprintln(stdout, res.Output)
		if !opts.quiet {
			if res.IsNumeral {
				fmt.Fprintf(stdout, "-- = %d\n", res.Numeral)
			}
			if opts.steps {
				fmt.Fprintln(stdout, yellow(fmt.Sprintf("-- %d steps in %v", res.Steps, res.Elapsed)))
			}
			if opts.metrics {
				fmt.Fprint(stdout, res.Metrics.GenerateMetricsTable())
			}
		}
		if err != nil {
			fmt.Fprintf(stderr, "%s: %s\n", in.name, red(err.Error()))
			code = 2
		}
	}
	return code
}

func main() {
	color.NoColor = !term.IsTerminal(int(os.Stdout.Fd()))
	opts, files, err := parseOptions(os.Args)
	if errors.Is(err, errHelp) {
		usage()
		return
	}
	if err != nil {
		usage()
		log.Fatalln(err)
	}
	inputs, err := readInputs(opts, files, os.Stdin)
	if err != nil {
		log.Fatalln(err)
	}
	os.Exit(run(opts, inputs, os.Stdout, os.Stderr))
}
