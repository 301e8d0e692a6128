package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/drpcorg/dedupe"
	"github.com/drpcorg/dedupe/synced"
	"github.com/drpcorg/dedupe/utils"
	"github.com/ergochat/readline"
	"github.com/prometheus/client_golang/prometheus"
)

// REPL per se.
type REPL struct {
	Host *synced.Index[string, string]
	rl   *readline.Instance
	out  io.Writer
	eout io.Writer
	log  utils.Logger
	reg  *prometheus.Registry
	srv  *http.Server
}

var completer = readline.NewPrefixCompleter(
	readline.PcItem("help"),

	readline.PcItem("upsert"),
	readline.PcItem("remove"),
	readline.PcItem("apply"),
	readline.PcItem("rebuild"),

	readline.PcItem("root"),
	readline.PcItem("group"),
	readline.PcItem("rep"),
	readline.PcItem("stat"),

	readline.PcItem("metrics"),
	readline.PcItem("close"),
	readline.PcItem("exit"),
	readline.PcItem("quit"),
)

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

// NewREPL makes a shell over a fresh index, without a terminal attached.
func NewREPL(out, eout io.Writer, log utils.Logger) *REPL {
	reg := prometheus.NewRegistry()
	reg.MustRegister(dedupe.Collectors()...)
	return &REPL{
		Host: synced.NewIndex[string, string](
			&dedupe.LoggerOpt{Logger: log},
			&dedupe.NameOpt{Name: "repl"},
		),
		out:  out,
		eout: eout,
		log:  log,
		reg:  reg,
	}
}

func (repl *REPL) Open(history string) (err error) {
	repl.rl, err = readline.NewEx(&readline.Config{
		Prompt:          "◌ ",
		HistoryFile:     history,
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return
	}
	repl.rl.CaptureExitSignal()
	return
}

func (repl *REPL) Close() error {
	if repl.srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = repl.srv.Shutdown(ctx)
		repl.srv = nil
	}
	if repl.Host != nil {
		_ = repl.Host.Close()
		repl.Host = nil
	}
	if repl.rl != nil {
		_ = repl.rl.Close()
		repl.rl = nil
	}
	return nil
}

// REPL reads and executes one line.
func (repl *REPL) REPL() (err error) {
	var line string
	line, err = repl.rl.Readline()
	if err == readline.ErrInterrupt && len(line) != 0 {
		return nil
	}
	if err != nil {
		return err
	}
	return repl.Execute(line)
}

// Execute runs one command line; io.EOF means the session is over.
func (repl *REPL) Execute(line string) (err error) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return nil
	}
	cmd, args := args[0], args[1:]
	switch cmd {
	case "help":
		err = repl.CommandHelp(args)
	// ----- mutations -----
	case "upsert", "set":
		err = repl.CommandUpsert(args)
	case "remove", "rm", "delete":
		err = repl.CommandRemove(args)
	case "apply":
		err = repl.CommandApply(args)
	case "rebuild":
		err = repl.CommandRebuild(args)
	// ----- queries -----
	case "root":
		err = repl.CommandRoot(args)
	case "group":
		err = repl.CommandGroup(args)
	case "rep":
		err = repl.CommandRep(args)
	case "stat":
		err = repl.CommandStat(args)
	// ----- service -----
	case "metrics":
		err = repl.CommandMetrics(args)
	case "close":
		err = repl.CommandClose(args)
	case "exit", "quit":
		err = io.EOF
	default:
		_, _ = fmt.Fprintf(repl.eout, "command unknown: %s\n", cmd)
	}
	return
}

func main() {
	history := os.Getenv("DEDUPE_HISTORY")
	if history == "" {
		history = ".dedupe_cmd_log.txt"
	}
	level := utils.ParseLevel(os.Getenv("DEDUPE_LOG_LEVEL"), slog.LevelWarn)

	repl := NewREPL(os.Stdout, os.Stderr, utils.NewDefaultLogger(level))
	err := repl.Open(history)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(-1)
	}

	for err != io.EOF {
		if err != nil {
			_, _ = fmt.Fprintf(os.Stdout, "%s\n", err.Error())
		}
		err = repl.REPL()
	}
	_ = repl.Close()
}
