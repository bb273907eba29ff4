package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/oakwood-commons/jqx/internal/completion"
	"github.com/oakwood-commons/jqx/internal/config"
	"github.com/oakwood-commons/jqx/internal/executor"
	"github.com/oakwood-commons/jqx/internal/limiter"
	"github.com/oakwood-commons/jqx/pkg/core"
	"github.com/oakwood-commons/jqx/pkg/loader"
	"github.com/oakwood-commons/jqx/pkg/logger"
	"github.com/oakwood-commons/jqx/pkg/settings"
	"github.com/oakwood-commons/jqx/pkg/tui"
)

// errShowHelp is returned by loadInput when there is nothing to read and no
// query to evaluate, so the root command shows help instead of an empty editor.
var errShowHelp = errors.New("no input provided")

var (
	query          string
	jqPath         string
	internalEngine bool
	timeout        time.Duration
	maxSuggestions int
	scanAhead      int
	debounce       time.Duration
	historyFile    string
	noColor        bool
	configFile     string
	debug          bool
	headLines      int
	offsetLines    int
	tailLines      int
	windowWidth    int
	windowHeight   int
)

var rootCtx = context.Background()

var (
	stdinIsPiped     = func() bool { stat, _ := os.Stdin.Stat(); return (stat.Mode() & os.ModeCharDevice) == 0 }
	stdoutIsPiped    = func() bool { stat, _ := os.Stdout.Stat(); return (stat.Mode() & os.ModeCharDevice) == 0 }
	openTerminalIOFn = openTerminalIO
	termGetSize      = term.GetSize
	newResizeTicker  = func(d time.Duration) resizeTicker { return realResizeTicker{Ticker: time.NewTicker(d)} }
	sendWindowSize   = func(p *tea.Program, msg tea.WindowSizeMsg) { p.Send(msg) }
)

type resizeTicker interface {
	C() <-chan time.Time
	Stop()
}

type realResizeTicker struct {
	*time.Ticker
}

func (t realResizeTicker) C() <-chan time.Time { return t.Ticker.C }

var rootCmd = &cobra.Command{
	Use:   "jqx [file]",
	Short: "jqx - interactive jq query editor",
	Long: `jqx is an interactive editor for jq queries. It loads a JSON, YAML,
NDJSON, or TOML document, re-evaluates the query line on every pause in
typing, and suggests fields, jq builtins, and access patterns at the cursor.
Quitting prints the final query line so it can be reused with jq itself.

With --query the editor never starts: the query is evaluated once, the
result is printed, and a jq error is reported on stderr with exit code 1.`,
	Example: "\n  jqx data.json\n  curl -s https://api.example.com/users | jqx\n  jqx data.json -q '.users[].name'\n  jqx big.json -q '.records' --head 20\n  jq \"$(jqx data.json)\" data.json\n",
	Args:    cobra.MaximumNArgs(1),
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		// Map the debug flag to the zap level: debug => -1, else 0.
		var level int8 = 0
		if debug {
			level = -1
		}
		lgr := logger.Get(level)
		lgr = logger.WithValues(lgr, logger.RootCommandKey, settings.CliBinaryName, logger.SubCommandKey, cmd.Name())
		rootCtx = logger.WithLogger(context.Background(), lgr)
	},
	Run: func(cmd *cobra.Command, args []string) {
		limits := limiter.Config{Head: headLines, Offset: offsetLines, Tail: tailLines}
		if err := limits.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}

		cfg, err := resolveSettings(cmd)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		if cfg.Debug && !debug {
			// The config file can turn on debug logging without the flag.
			lgr := logger.WithValues(logger.Get(-1), logger.RootCommandKey, settings.CliBinaryName, logger.SubCommandKey, cmd.Name())
			rootCtx = logger.WithLogger(context.Background(), lgr)
		}
		lgr := logger.FromContext(rootCtx)

		doc, err := loadInput(args, query, *lgr)
		if err != nil {
			if errors.Is(err, errShowHelp) {
				_ = cmd.Help()
				return
			}
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}

		if cmd.Flags().Changed("query") {
			if err := runQuery(rootCtx, doc, cfg, limits); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			return
		}

		final, err := runEditor(doc, cfg, *lgr)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if final != "" {
			fmt.Println(final) //nolint:forbidigo
		}
	},
}

// resolveSettings merges defaults, the config file, and explicit flags, in
// that order. A --config-file that does not exist is an error; the default
// XDG location is allowed to be absent.
func resolveSettings(cmd *cobra.Command) (config.Settings, error) {
	s := config.Default()

	path := configFile
	optional := !cmd.Flags().Changed("config-file")
	if path == "" {
		path = config.DefaultConfigPath()
	}
	if path != "" {
		f, err := config.Load(path, optional)
		if err != nil {
			return s, fmt.Errorf("load config: %w", err)
		}
		s = s.Merge(f)
	}

	flags := cmd.Flags()
	if flags.Changed("jq") {
		s.JQPath = jqPath
	}
	if flags.Changed("internal") {
		s.Internal = internalEngine
	}
	if flags.Changed("timeout") {
		s.Timeout = timeout
	}
	if flags.Changed("max-suggestions") {
		s.MaxSuggestions = maxSuggestions
	}
	if flags.Changed("scan-ahead") {
		s.ScanAhead = scanAhead
	}
	if flags.Changed("debounce") {
		s.Debounce = debounce
	}
	if flags.Changed("history-file") {
		s.HistoryFile = historyFile
	}
	if flags.Changed("no-color") {
		s.NoColor = noColor
	}
	if flags.Changed("debug") {
		s.Debug = debug
	}

	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

// loadInput resolves the document from the file argument or stdin. A query
// with no input at all still runs, against an empty object, which keeps
// one-shot scripting usable the way jq --null-input is.
func loadInput(args []string, query string, lgr logr.Logger) (loader.Document, error) {
	if len(args) > 0 {
		doc, err := loader.LoadFile(args[0])
		if err != nil {
			return loader.Document{}, fmt.Errorf("load %s: %w", args[0], err)
		}
		lgr.V(1).Info("loaded document", "path", args[0], "format", string(doc.Format))
		return doc, nil
	}

	if !stdinIsPiped() {
		if query != "" {
			lgr.V(1).Info("no input, evaluating against an empty object")
			return loader.Load("{}")
		}
		return loader.Document{}, errShowHelp
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return loader.Document{}, fmt.Errorf("read stdin: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		data = []byte("{}")
	}
	doc, err := loader.Load(string(data))
	if err != nil {
		return loader.Document{}, fmt.Errorf("parse stdin: %w", err)
	}
	lgr.V(1).Info("loaded document from stdin", "bytes", len(data), "format", string(doc.Format))
	return doc, nil
}

// runQuery is the one-shot path: evaluate once, apply line limiting, print.
func runQuery(ctx context.Context, doc loader.Document, cfg config.Settings, limits limiter.Config) error {
	color := !cfg.NoColor && !stdoutIsPiped()

	opts := []core.Option{
		core.WithJQPath(cfg.JQPath),
		core.WithTimeout(cfg.Timeout),
		core.WithLogger(*logger.FromContext(ctx)),
	}
	if cfg.Internal {
		opts = append(opts, core.WithInternalEngine())
	}
	if !color {
		opts = append(opts, core.WithoutColor())
	}

	engine := core.NewFromDocument(doc, opts...)
	snap, err := engine.Evaluate(ctx, query)
	if err != nil {
		return err
	}

	text := snap.Output
	if color {
		text = snap.Rendered
	}
	fmt.Print(limits.ApplyText(text)) //nolint:forbidigo
	return nil
}

// runEditor opens the interactive editor and returns the final query line.
func runEditor(doc loader.Document, cfg config.Settings, lgr logr.Logger) (string, error) {
	progOpts, cleanup := getProgramOptions()
	defer cleanup()

	return tui.Run(doc, tui.Config{
		JQPath:         cfg.JQPath,
		Internal:       cfg.Internal,
		Timeout:        cfg.Timeout,
		MaxSuggestions: cfg.MaxSuggestions,
		ScanAhead:      cfg.ScanAhead,
		Debounce:       cfg.Debounce,
		StyledLines:    cfg.StyledLines,
		HistoryFile:    cfg.HistoryFile,
		Width:          windowWidth,
		Height:         windowHeight,
		NoColor:        cfg.NoColor,
		Logger:         lgr,
	}, progOpts...)
}

// getProgramOptions handles piped stdin by reopening the terminal for
// interactive input. The document arrives on stdin in the curl | jqx flow,
// so keyboard input and resize events need the real terminal device instead.
// Returns tea.ProgramOption values plus a cleanup for the reopened handles.
func getProgramOptions() ([]tea.ProgramOption, func()) {
	cleanup := func() {}
	if !stdinIsPiped() {
		return nil, cleanup
	}

	ttyIn, ttyOut, err := openTerminalIOFn()
	if err != nil {
		// No terminal device available (CI, nested pipes). The editor still
		// runs off the piped stdin; key handling just degrades.
		return nil, cleanup
	}
	cleanup = func() {
		_ = ttyIn.Close()
		if ttyOut != nil && ttyOut != ttyIn {
			_ = ttyOut.Close()
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithInput(ttyIn)}
	if ttyOut != nil {
		opts = append(opts, tea.WithOutput(ttyOut), withTTYResizeWatcher(ctx, ttyOut))
	}

	return opts, func() {
		cancel()
		cleanup()
	}
}

func openTerminalIO() (*os.File, *os.File, error) {
	in, out := terminalDeviceNames(runtime.GOOS)

	input, err := os.OpenFile(in, os.O_RDWR, 0)
	if err != nil {
		return nil, nil, err
	}
	if out == "" || out == in {
		return input, input, nil
	}

	output, err := os.OpenFile(out, os.O_RDWR, 0)
	if err != nil {
		return input, nil, err
	}
	return input, output, nil
}

func terminalDeviceNames(goos string) (input string, output string) {
	if goos == "windows" {
		return "CONIN$", "CONOUT$"
	}
	return "/dev/tty", "/dev/tty"
}

// withTTYResizeWatcher polls the terminal size and forwards changes as
// WindowSizeMsg when resize signals are unreliable (reopened device, piped
// stdin on Windows). Best-effort; stops when the context is canceled.
func withTTYResizeWatcher(ctx context.Context, out *os.File) tea.ProgramOption {
	return func(p *tea.Program) {
		if ctx == nil || out == nil {
			return
		}

		go func() {
			t := newResizeTicker(250 * time.Millisecond)
			defer t.Stop()

			lastW, lastH := 0, 0
			for {
				select {
				case <-ctx.Done():
					return
				case <-t.C():
					w, h, err := termGetSize(int(out.Fd()))
					if err != nil {
						continue
					}
					if w == lastW && h == lastH {
						continue
					}
					lastW, lastH = w, h
					sendWindowSize(p, tea.WindowSizeMsg{Width: w, Height: h})
				}
			}
		}()
	}
}

// cliVersionString builds the version string for --version and the version
// subcommand from build-time metadata.
func cliVersionString() string {
	v := settings.VersionInformation
	return fmt.Sprintf("%s %s (commit %s, built %s, %s)", settings.CliBinaryName, v.BuildVersion, v.Commit, v.BuildTime, runtime.Version())
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print jqx version",
	RunE: func(_ *cobra.Command, _ []string) error {
		fmt.Println(cliVersionString()) //nolint:forbidigo
		return nil
	},
}

// functionsCmd lists the jq builtins the suggestion engine knows about, so
// the popup contents can be inspected without opening the editor.
var functionsCmd = &cobra.Command{
	Use:   "functions [term]",
	Short: "List jq builtins known to the suggestion engine",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := completion.Builtins()
		out := cmd.OutOrStdout()

		if len(args) > 0 {
			matches := reg.Search(args[0])
			if len(matches) == 0 {
				return fmt.Errorf("no builtin matches %q", args[0])
			}
			printFunctions(out, matches)
			return nil
		}

		for i, cat := range reg.GetCategories() {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "%s\n", cat)
			printFunctions(out, reg.GetByCategory(cat))
		}
		return nil
	},
}

func printFunctions(w io.Writer, fns []completion.FunctionMetadata) {
	for _, fn := range fns {
		fmt.Fprintf(w, "  %-24s %s\n", fn.Signature, fn.Description)
	}
}

func init() { //nolint:gochecknoinits
	rootCmd.Flags().StringVarP(&query, "query", "q", "", "evaluate one query and print the result instead of opening the editor")
	rootCmd.Flags().StringVar(&jqPath, "jq", "", "path to the jq binary (default: jq from $PATH, embedded engine as fallback)")
	rootCmd.Flags().BoolVar(&internalEngine, "internal", false, "use the embedded engine even when a jq binary is available")
	rootCmd.Flags().DurationVar(&timeout, "timeout", executor.DefaultTimeout, "timeout for a single evaluation")
	rootCmd.Flags().IntVar(&maxSuggestions, "max-suggestions", completion.DefaultMaxSuggestions, "maximum rows in the suggestion popup")
	rootCmd.Flags().IntVar(&scanAhead, "scan-ahead", completion.DefaultScanAhead, "array elements scanned when collecting field suggestions")
	rootCmd.Flags().DurationVar(&debounce, "debounce", config.DefaultDebounce, "pause after the last keystroke before evaluating")
	rootCmd.Flags().StringVar(&historyFile, "history-file", "", "query history location (default: $XDG_DATA_HOME/jqx/history)")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "disable color output")
	rootCmd.Flags().StringVar(&configFile, "config-file", "", "path to a YAML config file (default: $XDG_CONFIG_HOME/jqx/config.yaml)")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.Flags().IntVar(&headLines, "head", 0, "print only the first N output lines (with --query)")
	rootCmd.Flags().IntVar(&offsetLines, "offset", 0, "skip the first N output lines (with --query)")
	rootCmd.Flags().IntVar(&tailLines, "tail", 0, "print only the last N output lines (mutually exclusive with --head)")
	rootCmd.Flags().IntVar(&windowWidth, "width", 0, "force the editor width in columns (default: track the terminal)")
	rootCmd.Flags().IntVar(&windowHeight, "height", 0, "force the editor height in rows (default: track the terminal)")

	rootCmd.Version = cliVersionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(functionsCmd)
}

func Execute() error {
	return rootCmd.Execute()
}
