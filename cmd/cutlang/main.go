package main

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"

	"github.com/peterh/liner"

	"cutlang"
)

const version = "0.1.0"

func usage(w io.Writer) {
	program := os.Args[0]
	fmt.Fprintf(w, `usage:
  %s [options] FILE
  %s [options] [-c|--command] COMMAND
  %s [options]

options:
  -c, --command     Evaluate the provided program text.
  --timebase NUM    Set the timebase, e.g. 30 or 30000/1001 (default 30).
  --frames N        Attach synthetic media with N frames.
  --strict          Fail on missing audio streams instead of keeping all.
  -h, --help        Display this help text and exit.

With no FILE and no command an interactive prompt is started.
`, program, program, program)
}

func parseTimebase(text string) (cutlang.Value, error) {
	rat, ok := new(big.Rat).SetString(text)
	if !ok || rat.Sign() <= 0 {
		return nil, fmt.Errorf("bad timebase %s", text)
	}
	return cutlang.NewRational(rat.Num().Int64(), rat.Denom().Int64()), nil
}

func printResults(results []cutlang.Value) {
	for _, result := range results {
		if _, ok := result.(*cutlang.Void); ok {
			continue
		}
		fmt.Println(result.String())
	}
}

// runProgram evaluates one program and reports whether the host should stop,
// along with the exit code requested by an explicit exit call.
func runProgram(interp *cutlang.Interpreter, source string) (stop bool, code int) {
	results, err := interp.Run(source)
	if err != nil {
		var exit cutlang.ExitError
		if errors.As(err, &exit) {
			return true, exit.Code
		}
		fmt.Printf("error: %v\n", err)
		return false, 1
	}
	printResults(results)
	return false, 0
}

func repl(interp *cutlang.Interpreter) int {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	fmt.Printf("cutlang %s\n", version)
	for {
		text, err := line.Prompt("> ")
		if err != nil {
			// EOF or interrupt ends the session.
			fmt.Println("")
			return 0
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		line.AppendHistory(text)
		if stop, code := runProgram(interp, text); stop {
			return code
		}
	}
}

func main() {
	var command *string
	var file *string
	timebase := "30"
	frames := 0
	strict := false

	argi := 1
	nextValue := func(flag string) string {
		argi += 1
		if argi >= len(os.Args) {
			fmt.Fprintf(os.Stderr, "error: %s expects a value\n", flag)
			os.Exit(1)
		}
		return os.Args[argi]
	}
	for argi < len(os.Args) {
		arg := os.Args[argi]
		switch {
		case arg == "-c" || arg == "--command":
			value := nextValue(arg)
			command = &value
		case arg == "--timebase":
			timebase = nextValue(arg)
		case arg == "--frames":
			if _, err := fmt.Sscanf(nextValue(arg), "%d", &frames); err != nil || frames < 0 {
				fmt.Fprintf(os.Stderr, "error: --frames expects a nonnegative integer\n")
				os.Exit(1)
			}
		case arg == "--strict":
			strict = true
		case arg == "-h" || arg == "--help":
			usage(os.Stdout)
			os.Exit(0)
		case strings.HasPrefix(arg, "-"):
			fmt.Fprintf(os.Stderr, "error: unknown flag %s\n", arg)
			usage(os.Stderr)
			os.Exit(1)
		default:
			if file != nil {
				fmt.Fprintf(os.Stderr, "error: more than one input file\n")
				os.Exit(1)
			}
			file = &arg
		}
		argi += 1
	}

	tb, err := parseTimebase(timebase)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	var bridge *cutlang.EditBridge
	if frames > 0 {
		bridge = cutlang.NewEditBridge(&cutlang.MemoryAnalyzer{Frames: frames}, strict)
	}

	interp := cutlang.NewInterpreter(bridge)
	interp.Define("timebase", tb)

	if command != nil {
		_, code := runProgram(interp, *command)
		os.Exit(code)
	}
	if file != nil {
		bytes, err := os.ReadFile(*file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		_, code := runProgram(interp, string(bytes))
		os.Exit(code)
	}
	os.Exit(repl(interp))
}
