package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/ats-resume/internal/enhance"
	"github.com/spigell/ats-resume/internal/enhance/gemini"
	"github.com/spigell/ats-resume/internal/logger"
	"github.com/spigell/ats-resume/internal/pipeline"
	"github.com/spigell/ats-resume/internal/resume"
	"github.com/spigell/ats-resume/internal/secrets"
	"github.com/spigell/ats-resume/internal/templates"
)

const (
	app = "ats-resume"
)

type Config struct {
	Template     string    `mapstructure:"template"`
	TemplatesDir string    `mapstructure:"templates-dir"`
	Output       string    `mapstructure:"output"`
	Strict       bool      `mapstructure:"strict"`
	AI           *AIConfig `mapstructure:"ai"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
	Tone         string `mapstructure:"tone"`
	Keywords     string `mapstructure:"keywords"`
	Instructions string `mapstructure:"instructions"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "ats-resume turns structured resume data into ATS-friendly PDF documents",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	viper.SetDefault("template", templates.DefaultID)
	viper.SetDefault("ai.provider", gemini.Provider)
	viper.SetDefault("ai.gemini.model", "gemini-2.5-flash")
	viper.SetDefault("ai.gemini.max-retries", 3)
	viper.SetDefault("ai.gemini.max-log-length", 200)

	for key, env := range map[string]string{
		"template":               "ATS_RESUME_TEMPLATE",
		"templates-dir":          "ATS_RESUME_TEMPLATES_DIR",
		"ai.gemini.api-key-file": "GEMINI_API_KEY_FILE",
	} {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is ats-resume.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("templates-dir", "", "directory with additional template definitions")
	rootCmd.PersistentFlags().String("log-file", "", "write logs to this file instead of stderr")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("templates-dir", rootCmd.PersistentFlags().Lookup("templates-dir"))
	viper.BindPFlag("log-file", rootCmd.PersistentFlags().Lookup("log-file"))
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional, but a broken one is fatal.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config == nil {
		config = &Config{}
	}
	return config, nil
}

// setup builds the logger, reads the config and freezes the template registry.
// It exits the process on failure.
func setup() (*zap.Logger, *Config) {
	l, err := logger.New(logger.Options{
		JSON:  viper.GetBool("json"),
		Debug: viper.GetBool("debug"),
		File:  viper.GetString("log-file"),
	})
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		l.Fatal("getting a config", zap.Error(err))
	}

	if err := templates.Init(config.TemplatesDir); err != nil {
		l.Fatal("loading templates",
			zap.Error(err),
			zap.String("templates_dir", config.TemplatesDir),
		)
	}

	l.Debug("templates loaded", zap.Strings("ids", templates.Default().IDs()))
	return l, config
}

// applyFlags overrides config values with command flags that were set explicitly.
func applyFlags(cmd *cobra.Command, config *Config) {
	flags := cmd.Flags()
	if flags.Lookup("template") != nil && flags.Changed("template") {
		config.Template, _ = flags.GetString("template")
	}
	if flags.Lookup("output") != nil && flags.Changed("output") {
		config.Output, _ = flags.GetString("output")
	}
	if flags.Lookup("strict") != nil && flags.Changed("strict") {
		config.Strict, _ = flags.GetBool("strict")
	}
}

// jsonOutput returns the -o value of commands that print JSON. The configured
// output path belongs to render and is never used for JSON.
func jsonOutput(cmd *cobra.Command) string {
	out, _ := cmd.Flags().GetString("output")
	return out
}

// loadDocument reads a resume from a YAML or JSON file. A dash reads stdin.
func loadDocument(path string) (resume.Document, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return resume.Document{}, errors.New("input file is required (use -i)")
	}

	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(filepath.Clean(path))
	}
	if err != nil {
		return resume.Document{}, fmt.Errorf("reading %s: %w", path, err)
	}

	return resume.Decode(data)
}

// pipelineConfig maps the CLI configuration onto the preparation steps.
func pipelineConfig(config *Config, enhanceRequested bool) *pipeline.Config {
	cfg := &pipeline.Config{Strict: config.Strict}
	if config.AI == nil {
		if enhanceRequested {
			cfg.AI = &pipeline.AIConfig{Enabled: true, Provider: gemini.Provider, Gemini: &pipeline.GeminiConfig{}}
		}
		return cfg
	}

	cfg.AI = &pipeline.AIConfig{
		Enabled:  config.AI.Enabled || enhanceRequested,
		Provider: strings.ToLower(strings.TrimSpace(config.AI.Provider)),
	}
	if g := config.AI.Gemini; g != nil {
		cfg.AI.Gemini = &pipeline.GeminiConfig{
			Model:        g.Model,
			MaxRetries:   g.MaxRetries,
			MaxLogLength: g.MaxLogLength,
		}
	}
	return cfg
}

func newEnhancer(ctx context.Context, cfg *AIConfig, l *zap.Logger) (enhance.Enhancer, error) {
	if cfg == nil || cfg.Gemini == nil {
		return nil, errors.New("gemini configuration is required when enhancement is enabled")
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != gemini.Provider {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  cfg.Gemini.APIKeyFile,
		Env:   "GEMINI_API_KEY",
		Value: cfg.Gemini.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file, GEMINI_API_KEY_FILE or GEMINI_API_KEY)", err)
	}

	l = l.Named(gemini.Provider)
	generator, err := gemini.NewGenerator(ctx, gemini.Config{
		APIKey:       apiKey,
		Model:        cfg.Gemini.Model,
		MaxRetries:   cfg.Gemini.MaxRetries,
		MaxLogLength: cfg.Gemini.MaxLogLength,
	}, l)
	if err != nil {
		return nil, err
	}

	enhancer := gemini.NewEnhancer(generator, logger.WithCommonFields(l, gemini.Provider, generator.Model()))
	enhancer.SetPromptOverrides(gemini.PromptOverrides{
		Tone:             cfg.Gemini.Tone,
		Keywords:         cfg.Gemini.Keywords,
		UserInstructions: cfg.Gemini.Instructions,
	})
	return enhancer, nil
}
