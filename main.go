package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/peterh/liner"
	"golang.org/x/term"

	"github.com/rfielding/lambda-beta/internal/session"
	"github.com/rfielding/lambda-beta/syntax"
)

const (
	historyFile = ".lambda_beta_history"
	promptMain  = "λ> "
	promptCont  = ".. "
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	blue   = color.New(color.FgBlue).SprintFunc()
)

func main() {
	color.NoColor = !term.IsTerminal(int(os.Stdout.Fd()))
	s := session.New(session.DefaultConfig())

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		src, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			os.Exit(1)
		}
		r := &repl{session: s}
		if !r.evaluate(string(src)) {
			os.Exit(1)
		}
		return
	}
	os.Exit(runRepl(s))
}

type repl struct {
	session *session.Session
	last    *session.Result
}

func runRepl(s *session.Session) int {
	fmt.Println("=== lambda-beta: normal-order lambda calculus ===")
	fmt.Println("Type :help for commands, :quit to exit.")
	fmt.Println()

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt)
	defer signal.Stop(sigc)
	go func() {
		for range sigc {
			s.Interrupt()
		}
	}()

	r := &repl{session: s}
	for {
		src, ok := readSource(ln)
		if !ok {
			fmt.Println()
			return 0
		}
		trimmed := strings.TrimSpace(src)
		if trimmed == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		if strings.HasPrefix(trimmed, ":") {
			if r.command(trimmed) {
				return 0
			}
			continue
		}
		r.evaluate(src)
	}
}

// readSource keeps prompting while the input so far is an unfinished program.
// An empty continuation line submits what has been typed.
func readSource(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}
		if b.Len() > 0 {
			if strings.TrimSpace(line) == "" {
				return b.String(), true
			}
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		if _, perr := syntax.Parse(src); perr != nil && syntax.IsIncomplete(perr) {
			continue
		}
		return src, true
	}
}

func (r *repl) evaluate(src string) bool {
	res, err := r.session.Evaluate(src)
	if res == nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return false
	}
	r.last = res
	fmt.Println(green(res.Output))
	status := fmt.Sprintf("(%d steps, %v)", res.Steps, res.Elapsed.Round(time.Microsecond))
	if res.Cached {
		status = fmt.Sprintf("(%d steps, cached)", res.Steps)
	}
	fmt.Println(yellow(status))
	if res.IsNumeral {
		fmt.Println(blue(fmt.Sprintf("= %d", res.Numeral)))
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return false
	}
	return true
}

// command runs a REPL command and reports whether the REPL should exit.
func (r *repl) command(line string) bool {
	fields := strings.Fields(line)
	name, args := fields[0], fields[1:]
	cfg := r.session.Config()
	switch name {
	case ":quit", ":q":
		fmt.Println("Goodbye!")
		return true

	case ":help":
		printHelp()

	case ":config":
		fmt.Println(cfg)

	case ":limit":
		if len(args) != 1 {
			fmt.Println(red("usage: :limit N (0 for none)"))
			break
		}
		n, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			fmt.Println(red("invalid step limit: " + args[0]))
			break
		}
		cfg.StepLimit = n
		r.session.SetConfig(cfg)

	case ":timeout":
		if len(args) != 1 {
			fmt.Println(red("usage: :timeout DURATION (e.g. 5s, 0 for none)"))
			break
		}
		d, err := time.ParseDuration(args[0])
		if err != nil {
			fmt.Println(red("invalid duration: " + args[0]))
			break
		}
		cfg.Timeout = d
		r.session.SetConfig(cfg)

	case ":repr":
		if len(args) != 1 {
			fmt.Println(red("usage: :repr boxed|local|shared"))
			break
		}
		rz, err := session.ParseRealization(args[0])
		if err != nil {
			fmt.Println(red(err.Error()))
			break
		}
		cfg.Realization = rz
		r.session.SetConfig(cfg)

	case ":memo":
		if len(args) != 1 {
			fmt.Println(red("usage: :memo N"))
			break
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			fmt.Println(red("invalid memo size: " + args[0]))
			break
		}
		cfg.MemoSize = n
		r.session.SetConfig(cfg)

	case ":examples":
		fmt.Print(ExampleList())

	case ":example":
		if len(args) != 1 {
			fmt.Println(red("usage: :example NAME"))
			break
		}
		ex, ok := FindExample(args[0])
		if !ok {
			fmt.Println(red("no example named " + args[0]))
			break
		}
		fmt.Println(ex.Source)
		r.evaluate(ex.Source)

	case ":dot":
		if r.last == nil {
			fmt.Println(red("nothing evaluated yet"))
			break
		}
		if len(args) == 1 {
			if err := SaveGraphviz(r.last.Term, args[0]); err != nil {
				fmt.Println(red(err.Error()))
			}
			break
		}
		fmt.Print(GenerateGraphviz(r.last.Term))

	case ":metrics":
		fmt.Print(r.session.MetricsTable())

	default:
		fmt.Println("unknown command. Type :help for a list.")
	}
	return false
}

func printHelp() {
	fmt.Println("Enter a term such as (\\x. x) y, or a program starting with let.")
	fmt.Println("Commands:")
	fmt.Println("  :limit N          step limit per evaluation (0 for none)")
	fmt.Println("  :timeout D        wall-clock limit, e.g. 2s (0 for none)")
	fmt.Println("  :repr R           term representation: boxed, local or shared")
	fmt.Println("  :memo N           normal-form cache size for the shared representation")
	fmt.Println("  :config           show the current settings")
	fmt.Println("  :examples         list built-in examples")
	fmt.Println("  :example NAME     evaluate a built-in example")
	fmt.Println("  :dot [FILE]       Graphviz DOT of the last result")
	fmt.Println("  :metrics          reduction counters so far")
	fmt.Println("  :quit             exit")
	fmt.Println("Ctrl-C interrupts a running reduction.")
}
