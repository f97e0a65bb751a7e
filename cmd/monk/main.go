package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/monk-manager/monk/pkg/ai"
	"github.com/monk-manager/monk/pkg/chat"
	"github.com/monk-manager/monk/pkg/config"
	"github.com/monk-manager/monk/pkg/render"
	"github.com/spf13/cobra"
)

// placeholderAPIKey lets the session start without a credential so the user
// can see the warning and the UI, but no real request will succeed with it.
const placeholderAPIKey = "demo-api-key"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "monk",
	Short: "AI programming assistant for your terminal",
	Long: `monk is a terminal AI assistant for code. Run it without arguments to
start an interactive chat session, or use 'monk explain' to get a one-shot
explanation of a source file.

The Anthropic API key is read from the ANTHROPIC_API_KEY environment
variable (a .env file in the working directory is honored).`,
	SilenceUsage: true,
	RunE:         runInteractive,
}

var explainCmd = &cobra.Command{
	Use:   "explain <file>",
	Short: "Explain the code in a file using AI",
	Long: `Read a source file and ask the model for a clear, concise explanation.

The programming language is detected from the file extension unless
--language is given. Output is a markdown report by default.`,
	Args: cobra.ExactArgs(1),
	RunE: runExplain,
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to config file")

	explainCmd.Flags().StringP("language", "l", "", "Programming language of the code")
	explainCmd.Flags().StringP("format", "f", "", "Output format: markdown, plain")

	rootCmd.AddCommand(explainCmd)
}

// setup loads configuration, resolves the credential, and builds the AI
// service. Configuration problems are fatal here, before any conversation
// begins.
func setup(cmd *cobra.Command) (*config.Config, *ai.Service, *slog.Logger, error) {
	// A .env file is optional; ignore its absence.
	_ = godotenv.Load()

	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading config: %w", err)
	}
	cfg.ApplyEnv()

	if cfg.AI.APIKey == "" {
		fmt.Fprintln(os.Stderr, render.Warning.Render(
			"WARNING: "+config.EnvAPIKey+" is not set; using a placeholder key."))
		fmt.Fprintln(os.Stderr, render.Warning.Render(
			"Requests will not work. Set "+config.EnvAPIKey+" to use the service."))
		cfg.AI.APIKey = placeholderAPIKey
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := newLogger(cfg.Logging.Level)

	svc, err := ai.NewService(cfg.AI, ai.WithLogger(logger))
	if err != nil {
		return nil, nil, nil, err
	}

	return cfg, svc, logger, nil
}

func runInteractive(cmd *cobra.Command, args []string) error {
	_, svc, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	dir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolving working directory: %w", err)
	}

	session := &chat.Session{
		In:       os.Stdin,
		Out:      os.Stdout,
		AI:       svc,
		Dir:      dir,
		Log:      logger,
		Renderer: render.NewRenderer(100),
	}
	return session.Run(cmd.Context())
}

func runExplain(cmd *cobra.Command, args []string) error {
	cfg, svc, _, err := setup(cmd)
	if err != nil {
		return err
	}

	file := args[0]
	code, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("reading file %s: %w", file, err)
	}

	language, _ := cmd.Flags().GetString("language")
	if language == "" {
		language = detectLanguage(file, cfg.Commands.DefaultLanguage)
	}

	format, _ := cmd.Flags().GetString("format")
	if format == "" {
		format = cfg.Commands.DefaultFormat
	}

	explanation, err := svc.Explain(cmd.Context(), string(code), language)
	if err != nil {
		return err
	}

	report, err := render.Explanation(file, language, explanation, format)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), report)
	return nil
}

// languageByExt maps common file extensions to language names the model
// understands better than the bare extension.
var languageByExt = map[string]string{
	"go":    "go",
	"rs":    "rust",
	"py":    "python",
	"js":    "javascript",
	"ts":    "typescript",
	"jsx":   "javascript",
	"tsx":   "typescript",
	"rb":    "ruby",
	"java":  "java",
	"c":     "c",
	"h":     "c",
	"cpp":   "cpp",
	"cc":    "cpp",
	"hpp":   "cpp",
	"cs":    "csharp",
	"php":   "php",
	"sh":    "shell",
	"sql":   "sql",
	"kt":    "kotlin",
	"swift": "swift",
	"lua":   "lua",
}

// detectLanguage guesses the language from the file extension, falling back
// to the configured default, then "unknown".
func detectLanguage(path, fallback string) string {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		if fallback != "" {
			return fallback
		}
		return "unknown"
	}
	if lang, ok := languageByExt[strings.ToLower(ext)]; ok {
		return lang
	}
	return ext
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
