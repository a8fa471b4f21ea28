package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/jonwraymond/codeplay/backend"
	"github.com/jonwraymond/codeplay/backend/local"
	"github.com/jonwraymond/codeplay/classify"
	"github.com/jonwraymond/codeplay/config"
	"github.com/jonwraymond/codeplay/exec"
	"github.com/jonwraymond/codeplay/history"
	"github.com/jonwraymond/codeplay/logging"
)

// ExitError carries a process exit code for a failure that has already been
// reported to the user.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// extensions maps source file extensions to languages.
var extensions = map[string]string{
	".py":   "python",
	".star": "python",
	".js":   "javascript",
	".mjs":  "javascript",
	".cjs":  "javascript",
}

type options struct {
	configPath string
	logLevel   string
	logFormat  string
	lang       string
	locale     string
}

// app holds state shared by every subcommand.
type app struct {
	opts   options
	cfg    config.Config
	logger *slog.Logger
}

// load reads the configuration file, applies flag overrides and builds the
// logger. Logs go to logOut.
func (a *app) load(logOut io.Writer) error {
	cfg, err := config.Load(a.opts.configPath)
	if err != nil {
		return err
	}
	if a.opts.logLevel != "" {
		cfg.Log.Level = a.opts.logLevel
	}
	if a.opts.logFormat != "" {
		cfg.Log.Format = a.opts.logFormat
	}
	if a.opts.lang != "" {
		cfg.DefaultLanguage = a.opts.lang
	}
	if a.opts.locale != "" {
		cfg.Locale = a.opts.locale
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logging.NewLoggerWithWriter(logging.ParseLevel(cfg.Log.Level), cfg.Log.Format, logOut)
	return nil
}

// languageFor picks the language for a source path: the --lang flag, then
// the file extension, then the configured default.
func (a *app) languageFor(path string) string {
	if a.opts.lang != "" {
		return a.opts.lang
	}
	if lang, ok := extensions[strings.ToLower(filepath.Ext(path))]; ok {
		return lang
	}
	return a.cfg.DefaultLanguage
}

// playground is the set of language clients built from the configuration.
type playground struct {
	registry *backend.Registry
	agg      *backend.Aggregator
	clients  map[string]*exec.Client
	store    *history.SQLiteStore // nil when history is disabled
	cfg      config.Config
}

// newPlayground creates one client per enabled language. History is opened
// when withHistory is set and the configuration enables it.
func (a *app) newPlayground(ctx context.Context, withHistory bool) (*playground, error) {
	pg := &playground{
		registry: backend.NewRegistry(),
		clients:  make(map[string]*exec.Client),
		cfg:      a.cfg,
	}

	base := exec.Options{
		Classifier: classify.New(classify.WithLocale(a.cfg.Locale)),
		Logger:     a.logger,
	}
	if withHistory && a.cfg.History.Enabled {
		st, err := history.NewSQLiteStore(a.cfg.History.Path, a.logger)
		if err != nil {
			return nil, err
		}
		if err := st.Migrate(ctx); err != nil {
			_ = st.Close()
			return nil, err
		}
		pg.store = st
		base.Recorder = st
	}

	for _, name := range a.cfg.Enabled() {
		client, err := exec.NewFromConfig(name, a.cfg.Languages[name], base)
		if err != nil {
			_ = pg.Close()
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		pg.clients[name] = client
		if err := pg.registry.Register(local.NewLanguage(client)); err != nil {
			_ = pg.Close()
			return nil, err
		}
	}
	pg.agg = backend.NewAggregator(pg.registry)
	return pg, nil
}

// client returns the client for lang.
func (p *playground) client(lang string) (*exec.Client, error) {
	if c, ok := p.clients[lang]; ok {
		return c, nil
	}
	if l, ok := p.cfg.Languages[lang]; ok && !l.IsEnabled() {
		return nil, fmt.Errorf("language %q is disabled", lang)
	}
	return nil, fmt.Errorf("unknown language %q (available: %s)", lang, strings.Join(p.languages(), ", "))
}

// languages returns the enabled language names, sorted.
func (p *playground) languages() []string {
	out := make([]string, 0, len(p.clients))
	for name := range p.clients {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Close releases the history store.
func (p *playground) Close() error {
	if p.store != nil {
		return p.store.Close()
	}
	return nil
}

// interruptible returns a context cancelled by SIGINT or SIGTERM.
func interruptible(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

// readSource reads a program from path, or from stdin when path is "-".
func readSource(stdin io.Reader, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read source: %w", err)
	}
	return string(data), nil
}
