package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/oukeidos/batrans/internal/checkpoint"
	"github.com/oukeidos/batrans/internal/cleanup"
	"github.com/oukeidos/batrans/internal/files"
	"github.com/oukeidos/batrans/internal/gemini"
	"github.com/oukeidos/batrans/internal/language"
	"github.com/oukeidos/batrans/internal/logger"
	"github.com/oukeidos/batrans/internal/mymemory"
	"github.com/oukeidos/batrans/internal/pipeline"
	"github.com/oukeidos/batrans/internal/translator"
)

type translateOptions struct {
	checkpointPath string
	outputPath     string
	interval       int
	maxRetries     int
	truncateLength int
	delay          time.Duration
	modelName      string
	sourceLangCode string
	targetLangCode string
	email          string
	configFile     string
	logFilePath    string
	fresh          bool
	quiet          bool
	allowEnv       bool
	envOnly        bool
	debug          bool
}

func newTranslateCmd() *cobra.Command {
	opts := translateOptions{}
	cmd := &cobra.Command{
		Use:   "translate <input.csv>",
		Short: "Translate a CSV summary column using Gemini with MyMemory fallback",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				_ = cmd.Usage()
				return fmt.Errorf("an input file is required")
			}
			return runTranslate(cmd, args, &opts)
		},
		SilenceUsage: true,
	}

	cmd.SetUsageTemplate(subcommandUsageTemplate)
	addTranslateFlags(cmd, &opts)
	return cmd
}

func addTranslateFlags(cmd *cobra.Command, opts *translateOptions) {
	cmd.Flags().StringVar(&opts.checkpointPath, "checkpoint", "", "Checkpoint file path (default: <input>.checkpoint.csv)")
	cmd.Flags().StringVarP(&opts.outputPath, "output", "o", "", "Output file path (default: <input>.translated.csv)")
	cmd.Flags().IntVar(&opts.interval, "interval", 10, "Save a checkpoint every N rows")
	cmd.Flags().IntVar(&opts.maxRetries, "max-retries", 5, "Attempts per provider per row")
	cmd.Flags().IntVar(&opts.truncateLength, "truncate", 150, "Maximum text length in grapheme clusters")
	cmd.Flags().DurationVar(&opts.delay, "delay", time.Second, "Pause between rows to avoid rate limiting")
	cmd.Flags().StringVar(&opts.modelName, "model", "gemini-3-flash-preview", "Gemini model name")
	cmd.Flags().StringVar(&opts.sourceLangCode, "source", "es", "Source language code (default: es)")
	cmd.Flags().StringVar(&opts.targetLangCode, "target", "en", "Target language code (default: en)")
	cmd.Flags().StringVar(&opts.email, "email", "", "Contact email for the MyMemory free quota")
	cmd.Flags().StringVar(&opts.configFile, "config", "", "Config file (default: .batrans.yaml in home or cwd)")
	cmd.Flags().StringVar(&opts.logFilePath, "log-file", "", "Path to save machine-readable JSONL logs")
	cmd.Flags().BoolVar(&opts.fresh, "fresh", false, "Discard an existing checkpoint and start over")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Suppress per-row progress output")
	cmd.Flags().BoolVar(&opts.allowEnv, "allow-env", false, "Allow reading the API key from GEMINI_API_KEY")
	cmd.Flags().BoolVar(&opts.envOnly, "env-only", false, "Use only the environment for the API key")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
}

func runTranslate(cmd *cobra.Command, args []string, opts *translateOptions) error {
	if len(args) < 1 {
		return fmt.Errorf("an input file is required")
	}
	if len(args) > 1 {
		fmt.Fprintf(os.Stderr, "Warning: expected 1 argument but got %d. Did you forget quotes around the file path?\n", len(args))
		fmt.Fprintf(os.Stderr, "  Using input: %s\n", args[0])
	}
	if err := validateTableExtension("input", args[0]); err != nil {
		return err
	}
	if err := applyConfigFile(cmd, opts); err != nil {
		return err
	}

	logLevel := logger.LevelInfo
	if opts.debug {
		logLevel = logger.LevelDebug
	}
	var logFileW io.Writer
	if opts.logFilePath != "" {
		if err := files.RejectSymlinkPath(opts.logFilePath); err != nil {
			return err
		}
		f, err := os.OpenFile(opts.logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		cleanup.Register(f.Close)
		logFileW = f
	}
	logger.Init(logLevel, logFileW)

	startTime := time.Now()

	actualKey, source, err := resolveAPIKey(opts.allowEnv, opts.envOnly)
	if err != nil {
		return err
	}
	logger.Info("Using API Key", "service", "gemini", "source", source)

	pair, ok := language.NewPair(opts.sourceLangCode, opts.targetLangCode)
	if !ok {
		return fmt.Errorf("unsupported language pair %q -> %q (see 'batrans list')",
			opts.sourceLangCode, opts.targetLangCode)
	}

	ctx, stop := signalContext()
	defer stop()

	primary, err := gemini.NewClient(ctx, actualKey, opts.modelName, pair)
	if err != nil {
		return fmt.Errorf("creating Gemini client: %w", err)
	}
	cleanup.Register(primary.Close)
	fallback := mymemory.NewClient(pair, opts.email)

	retrier := translator.NewRetrier(opts.maxRetries, time.Second)
	tr := translator.NewFallback(primary, fallback, retrier)

	cfg := pipeline.Config{
		InputPath:          args[0],
		CheckpointPath:     opts.checkpointPath,
		OutputPath:         opts.outputPath,
		CheckpointInterval: opts.interval,
		MaxRetries:         opts.maxRetries,
		TruncateLength:     opts.truncateLength,
		RateLimitDelay:     opts.delay,
		PrimaryPair:        pair,
		FallbackPair:       pair,
	}
	if !opts.quiet {
		cfg.OnRowProcessed = printRowProgress
	}
	cfg.Normalize()

	if opts.fresh {
		if err := checkpoint.NewStore(cfg.InputPath, cfg.CheckpointPath).Remove(); err != nil {
			return err
		}
	}

	runner, err := pipeline.NewRunner(cfg, tr)
	if err != nil {
		return err
	}

	stats, err := runner.Run(ctx)

	// Always print stats, even for an interrupted run.
	printRunStats(stats, time.Since(startTime), opts.modelName)

	if err != nil {
		if ctx.Err() != nil {
			logger.Warn("Translation canceled", "error", err)
			return nil
		}
		return err
	}
	return nil
}

// applyConfigFile layers values from an optional YAML config file and
// BATRANS_* environment variables under any flags the user did not set.
func applyConfigFile(cmd *cobra.Command, opts *translateOptions) error {
	if opts.configFile != "" {
		viper.SetConfigFile(opts.configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".batrans")
	}

	viper.SetEnvPrefix("BATRANS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if opts.configFile != "" {
		return fmt.Errorf("reading config file %s: %w", opts.configFile, err)
	}

	flags := cmd.Flags()
	if !flags.Changed("model") && viper.IsSet("model") {
		opts.modelName = viper.GetString("model")
	}
	if !flags.Changed("source") && viper.IsSet("source") {
		opts.sourceLangCode = viper.GetString("source")
	}
	if !flags.Changed("target") && viper.IsSet("target") {
		opts.targetLangCode = viper.GetString("target")
	}
	if !flags.Changed("interval") && viper.IsSet("interval") {
		opts.interval = viper.GetInt("interval")
	}
	if !flags.Changed("max-retries") && viper.IsSet("max_retries") {
		opts.maxRetries = viper.GetInt("max_retries")
	}
	if !flags.Changed("truncate") && viper.IsSet("truncate") {
		opts.truncateLength = viper.GetInt("truncate")
	}
	if !flags.Changed("delay") && viper.IsSet("delay") {
		opts.delay = viper.GetDuration("delay")
	}
	if !flags.Changed("email") && viper.IsSet("email") {
		opts.email = viper.GetString("email")
	}
	if !flags.Changed("checkpoint") && viper.IsSet("checkpoint") {
		opts.checkpointPath = viper.GetString("checkpoint")
	}
	if !flags.Changed("output") && viper.IsSet("output") {
		opts.outputPath = viper.GetString("output")
	}
	return nil
}

var supportedTableExtensions = map[string]struct{}{
	".csv": {},
}

const supportedTableExtensionsLabel = ".csv"

func validateTableExtension(kind, path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := supportedTableExtensions[ext]; ok {
		return nil
	}
	if ext == "" {
		ext = "(none)"
	}
	return fmt.Errorf("unsupported %s extension %q (supported: %s)", kind, ext, supportedTableExtensionsLabel)
}
