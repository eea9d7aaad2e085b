package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/pmkowal/chatsnap"
	"github.com/pmkowal/chatsnap/fs"
	"github.com/pmkowal/chatsnap/goquery"
	"github.com/pmkowal/chatsnap/htmltomarkdown"
	"github.com/pmkowal/chatsnap/rod"
	snapslog "github.com/pmkowal/chatsnap/slog"
	"github.com/pmkowal/chatsnap/trafilatura"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Export directory. Set before calling Run().
	ExportDir string

	// Logger used by all wired components. Defaults to a quiet logger;
	// verbose mode switches it to stderr at info level.
	Logger *slog.Logger
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		ExportDir: defaultExportDir(),
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("chatsnap"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'chatsnap --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps.Logger = m.logger(cli.Verbose, stderr)

	// Platform adapters behind a detecting registry, with detection logging.
	registry := goquery.NewRegistry(goquery.NewDetector(), goquery.NewGenericAdapter())
	registerPlatformAdapters(registry)
	deps.Registry = snapslog.NewLoggingRegistry(registry, goquery.NewDetector(), deps.Logger)

	extractor := goquery.NewExtractor(deps.Registry)
	extractor.Titles = trafilatura.NewTitleExtractor()
	deps.Extractor = extractor

	deps.Converter = htmltomarkdown.NewConverter()
	deps.Writer = fs.NewWriter(m.ExportDir)

	// A live browser is only needed when an input is a URL.
	needsBrowser := (cmd == "capture" && cli.Capture.Browser) || (cmd == "export" && cli.Export.Browser)
	if needsBrowser {
		fetcher, err := rod.NewFetcher()
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		defer fetcher.Close()

		limited := rod.NewRateLimitedFetcher(fetcher, rod.NewDomainLimiter(1.0))
		deps.Fetcher = rod.NewLoggingFetcher(limited, deps.Logger)
	}

	return kongCtx.Run(deps)
}

func (m *Main) logger(verbose bool, stderr io.Writer) *slog.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	if verbose {
		return slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func defaultExportDir() string {
	if dir := os.Getenv("CHATSNAP_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "exports"
	}
	return filepath.Join(home, ".chatsnap", "exports")
}

// registerPlatformAdapters registers all platform-specific adapters with the registry.
func registerPlatformAdapters(registry chatsnap.AdapterRegistry) {
	registry.Register(chatsnap.PlatformChatGPT, goquery.NewChatGPTAdapter())
	registry.Register(chatsnap.PlatformClaude, goquery.NewClaudeAdapter())
	registry.Register(chatsnap.PlatformGemini, goquery.NewGeminiAdapter())
	registry.Register(chatsnap.PlatformDeepSeek, goquery.NewDeepSeekAdapter())
	registry.Register(chatsnap.PlatformGeneric, goquery.NewGenericAdapter())
}
