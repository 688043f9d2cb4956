package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/paveg/tabular"
	"github.com/paveg/tabular/internal/config"
	"github.com/paveg/tabular/internal/monitoring"
	"github.com/paveg/tabular/internal/phonetic"
	"github.com/paveg/tabular/internal/quiz"
	"github.com/paveg/tabular/internal/version"
)

const (
	exitOK       = 0
	exitError    = 1
	exitUsage    = 2
	exitNotFound = 3

	defaultMissedFile = "states_to_learn.csv"
)

// cli carries the streams and resolved configuration shared by subcommands.
type cli struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	cfg    config.Config
	rec    *monitoring.Recorder
}

func usage(w io.Writer) func() {
	return func() {
		fmt.Fprintf(w, "tabular CLI (version %s)\n\n", version.Version)
		fmt.Fprintf(w, "Usage: tabular-cli [options] <command> [command options]\n\n")
		fmt.Fprintf(w, "Commands:\n")
		fmt.Fprintf(w, "  stats     Summarise numeric columns or aggregate one column\n")
		fmt.Fprintf(w, "  filter    Print or save the rows whose column equals a value\n")
		fmt.Fprintf(w, "  lookup    Print the first row whose column equals a key\n")
		fmt.Fprintf(w, "  counts    Count rows per distinct value of a column\n")
		fmt.Fprintf(w, "  phonetic  Spell words read from stdin with a code-word alphabet\n")
		fmt.Fprintf(w, "  states    Play the states guessing game on stdin\n\n")
		fmt.Fprintf(w, "Options:\n")
		fmt.Fprintf(w, "  -config FILE\n\t\tJSON or YAML configuration file\n")
		fmt.Fprintf(w, "  -timings\n\t\tPrint how long each step took to stderr\n")
		fmt.Fprintf(w, "  -v, -version\n\t\tPrint version information and exit\n")
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, in io.Reader, out, errOut io.Writer) int {
	fs := flag.NewFlagSet("tabular-cli", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.Usage = usage(errOut)
	versionFlag := fs.Bool("v", false, "Print version and exit")
	fs.BoolVar(versionFlag, "version", false, "Print version and exit") // alias
	configFlag := fs.String("config", "", "Configuration file")
	timingsFlag := fs.Bool("timings", false, "Print step timings")

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	if *versionFlag {
		fmt.Fprint(out, version.Info().String())
		return exitOK
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return exitUsage
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return exitUsage
	}
	level, _ := cfg.Level()
	slog.SetDefault(slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level})))

	c := &cli{in: in, out: out, errOut: errOut, cfg: cfg, rec: monitoring.NewRecorder(*timingsFlag)}

	command, rest := fs.Arg(0), fs.Args()[1:]
	var commandFn func([]string) error
	switch command {
	case "stats":
		commandFn = c.stats
	case "filter":
		commandFn = c.filter
	case "lookup":
		commandFn = c.lookup
	case "counts":
		commandFn = c.counts
	case "phonetic":
		commandFn = c.phonetic
	case "states":
		commandFn = c.states
	default:
		fmt.Fprintf(errOut, "Error: unknown command %q\n\n", command)
		fs.Usage()
		return exitUsage
	}

	err = c.rec.Record(command, func() error { return commandFn(rest) })
	if c.rec.Enabled() {
		c.rec.WriteSummary(errOut)
	}

	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, flag.ErrHelp), errors.Is(err, errUsage):
		return exitUsage
	case errors.Is(err, errNotFound):
		fmt.Fprintln(errOut, err)
		return exitNotFound
	default:
		slog.Debug("command failed", "command", command, "error", err)
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return exitError
	}
}

var (
	errUsage    = errors.New("usage")
	errNotFound = errors.New("not found")
)

func (c *cli) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	return fs
}

// requiredFlag pairs a flag name with its parsed value.
type requiredFlag struct {
	name  string
	value string
}

// require reports the first empty flag, in the order given.
func (c *cli) require(fs *flag.FlagSet, flags ...requiredFlag) error {
	for _, f := range flags {
		if f.value == "" {
			fmt.Fprintf(c.errOut, "Error: -%s is required\n", f.name)
			fs.Usage()
			return errUsage
		}
	}
	return nil
}

func (c *cli) load(path string) (*tabular.Table, error) {
	var t *tabular.Table
	err := c.rec.Record("load", func() error {
		var err error
		t, err = tabular.LoadFile(path, tabular.WithCSVOptions(c.cfg.CSVOptions()))
		return err
	})
	return t, err
}

func (c *cli) save(path string, t *tabular.Table, noIndex bool) error {
	options := c.cfg.CSVOptions()
	if noIndex {
		options.WriteIndex = false
	}
	err := c.rec.Record("save", func() error {
		return tabular.SaveFile(path, t, tabular.WithCSVOptions(options))
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Saved %d rows to %s\n", t.Len(), path)
	return nil
}

// parseKey reads raw as a number when the column is numeric, so "10" matches
// an int cell and "10.0" matches a float one.
func parseKey(t *tabular.Table, column, raw string) (any, error) {
	kind, err := t.Kind(column)
	if err != nil {
		return nil, err
	}
	if kind == tabular.TextColumn {
		return raw, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("column %q is numeric, got %q", column, raw)
	}
	return f, nil
}

func (c *cli) stats(args []string) error {
	fs := c.flagSet("stats")
	file := fs.String("file", "", "CSV file to read")
	column := fs.String("column", "", "Column to aggregate (default: describe every numeric column)")
	opName := fs.String("op", "mean", "Aggregation: mean, max, min or count")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.require(fs, requiredFlag{"file", *file}); err != nil {
		return err
	}

	return tabular.WithTable(func() (*tabular.Table, error) { return c.load(*file) }, func(t *tabular.Table) error {
		if *column == "" {
			summary, err := t.Describe()
			if err != nil {
				return err
			}
			defer summary.Release()
			fmt.Fprintln(c.out, summary)
			return nil
		}

		op, err := tabular.ParseOp(*opName)
		if err != nil {
			return err
		}
		value, err := t.Aggregate(*column, op)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "%s(%s) = %s\n", op, *column, value)
		return nil
	})
}

func (c *cli) filter(args []string) error {
	fs := c.flagSet("filter")
	file := fs.String("file", "", "CSV file to read")
	column := fs.String("column", "", "Column to compare")
	value := fs.String("value", "", "Value the column must equal")
	fold := fs.Bool("fold", false, "Compare text case-insensitively")
	maxOf := fs.String("max", "", "Keep the rows holding the column's maximum instead")
	output := fs.String("out", "", "Save the result to this file instead of printing it")
	noIndex := fs.Bool("no-index", false, "Do not write the row-index column")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.require(fs, requiredFlag{"file", *file}); err != nil {
		return err
	}

	return tabular.WithMemoryManager(func(m *tabular.MemoryManager) error {
		t, err := c.load(*file)
		if err != nil {
			return err
		}
		m.Track(t)

		var result *tabular.Table
		if *maxOf != "" {
			if result, err = t.WhereMax(*maxOf); err != nil {
				return err
			}
		} else {
			if err := c.require(fs, requiredFlag{"column", *column}); err != nil {
				return err
			}
			key, err := parseKey(t, *column, *value)
			if err != nil {
				return err
			}
			pred := tabular.Eq(*column, key)
			if *fold {
				pred = tabular.EqFold(*column, key)
			}
			if result, err = t.FilterWhere(pred, *column); err != nil {
				return err
			}
		}
		m.Track(result)

		if *output != "" {
			return c.save(*output, result, *noIndex)
		}
		fmt.Fprintln(c.out, result)
		return nil
	})
}

func (c *cli) lookup(args []string) error {
	fs := c.flagSet("lookup")
	file := fs.String("file", "", "CSV file to read")
	column := fs.String("column", "", "Key column")
	key := fs.String("key", "", "Key to look up")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.require(fs, requiredFlag{"file", *file}, requiredFlag{"column", *column}); err != nil {
		return err
	}

	return tabular.WithTable(func() (*tabular.Table, error) { return c.load(*file) }, func(t *tabular.Table) error {
		k, err := parseKey(t, *column, *key)
		if err != nil {
			return err
		}
		row, found, err := t.RowLookup(*column, k, tabular.WithFoldCase(c.cfg.LookupOptions().FoldCase))
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: no row with %s = %q", errNotFound, *column, *key)
		}
		for i, name := range row.Names() {
			fmt.Fprintf(c.out, "%s: %s\n", name, row.Values()[i])
		}
		return nil
	})
}

func (c *cli) counts(args []string) error {
	fs := c.flagSet("counts")
	file := fs.String("file", "", "CSV file to read")
	column := fs.String("column", "", "Column whose values are counted")
	output := fs.String("out", "", "Save the counts to this file instead of printing them")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.require(fs, requiredFlag{"file", *file}, requiredFlag{"column", *column}); err != nil {
		return err
	}

	return tabular.WithTable(func() (*tabular.Table, error) { return c.load(*file) }, func(t *tabular.Table) error {
		counts, err := t.ValueCounts(*column)
		if err != nil {
			return err
		}
		defer counts.Release()

		if *output != "" {
			return c.save(*output, counts, false)
		}
		fmt.Fprintln(c.out, counts)
		return nil
	})
}

func (c *cli) phonetic(args []string) error {
	fs := c.flagSet("phonetic")
	file := fs.String("alphabet", "", "CSV file with letter and code columns")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.require(fs, requiredFlag{"alphabet", *file}); err != nil {
		return err
	}

	return tabular.WithTable(func() (*tabular.Table, error) { return c.load(*file) }, func(t *tabular.Table) error {
		encoder, err := phonetic.NewEncoder(t)
		if err != nil {
			return err
		}

		scanner := bufio.NewScanner(c.in)
		for {
			fmt.Fprint(c.out, "Enter a word: ")
			if !scanner.Scan() {
				fmt.Fprintln(c.out)
				return scanner.Err()
			}
			codes, err := encoder.Encode(strings.TrimSpace(scanner.Text()))
			var unrecognized *phonetic.UnrecognizedError
			if errors.As(err, &unrecognized) {
				fmt.Fprintln(c.out, "Sorry, only letters in the alphabet please.")
				continue
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "[%s]\n", strings.Join(codes, ", "))
			return nil
		}
	})
}

func (c *cli) states(args []string) error {
	fs := c.flagSet("states")
	file := fs.String("file", "", "CSV file with state, x and y columns")
	missedFile := fs.String("missed", defaultMissedFile, "Where to save the states not guessed on exit")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.require(fs, requiredFlag{"file", *file}); err != nil {
		return err
	}

	return tabular.WithTable(func() (*tabular.Table, error) { return c.load(*file) }, func(t *tabular.Table) error {
		session, err := quiz.NewSession(t)
		if err != nil {
			return err
		}

		scanner := bufio.NewScanner(c.in)
		for !session.Done() {
			fmt.Fprintf(c.out, "%s States Correct. What's another state's name? ", session.Progress())
			if !scanner.Scan() {
				fmt.Fprintln(c.out)
				break
			}
			answer := quiz.Normalize(scanner.Text())
			if answer == quiz.ExitWord {
				break
			}

			result := session.Guess(answer)
			switch result.Outcome {
			case quiz.Correct:
				fmt.Fprintf(c.out, "%s is at (%s, %s)\n", result.State, result.X, result.Y)
			case quiz.AlreadyGuessed:
				fmt.Fprintf(c.out, "%s was already guessed\n", result.State)
			default:
				fmt.Fprintf(c.out, "%q is not a state\n", answer)
			}
		}
		if err := scanner.Err(); err != nil {
			return err
		}

		if session.Done() {
			fmt.Fprintf(c.out, "You named all %d states!\n", session.Total())
			return nil
		}

		missed := session.Missed()
		defer missed.Release()
		fmt.Fprintf(c.out, "Final score: %s\n", session.Progress())
		return c.save(*missedFile, missed, false)
	})
}
