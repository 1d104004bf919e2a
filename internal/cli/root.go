package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ppiankov/content-test-enforcer/internal/model"
)

var version = "v0.1.0"

const (
	configDirName = ".content-test-enforcer"
	envPrefix     = "CTENFORCE"
)

// FailedError reports that one or more notebooks failed their checks.
// The per-notebook diagnostics have already been printed.
type FailedError struct {
	Count int
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("problems detected in %d notebook(s)", e.Count)
}

// app holds per-invocation state shared by the commands
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *model.Config
	stderr  io.Writer
}

// logf writes a progress line to stderr in verbose mode
func (a *app) logf(format string, args ...any) {
	if a.cfg == nil || !a.cfg.Output.Verbose {
		return
	}
	fmt.Fprintf(a.stderr, format+"\n", args...)
}

// NewRootCmd builds the command tree with its own configuration state
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	defaults := model.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "content-test-enforcer [notebook.ipynb...]",
		Short: "Check that notebook content tests reference real markdown",
		Long: `content-test-enforcer checks Jupyter notebooks that embed content tests.

A content test is a code-cell line of the form

  #| content: The answer is 42.

For every notebook it verifies that:
- the referenced text (trimmed) appears verbatim in the notebook's markdown
- every cell holding a reference is tagged "remove-cell"

Exit status is 0 when every notebook passes and 1 otherwise.

Example:
  content-test-enforcer lesson.ipynb
  content-test-enforcer notebooks/*.ipynb --jobs 4
  content-test-enforcer --from-file notebooks.txt --format json`,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.stderr = cmd.ErrOrStderr()
			cfg, err := loadConfig(a.v, a.cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			a.cfg = cfg
			if used := a.v.ConfigFileUsed(); used != "" {
				a.logf("Using config file: %s", used)
			}
			return nil
		},
		RunE: a.runCheck,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: $HOME/"+configDirName+"/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	// Check flags
	flags := rootCmd.Flags()
	flags.String("marker", defaults.Check.Marker, "line prefix that declares a content reference")
	flags.String("tag", defaults.Check.Tag, "tag required on every cell holding a reference")
	flags.String("color", defaults.Output.Color, "color output (auto, always, never)")
	flags.String("format", defaults.Output.Format, "output format (text, json, yaml)")
	flags.IntP("jobs", "j", defaults.Concurrency.Workers, "number of notebooks checked concurrently")
	flags.Bool("no-cache", false, "parse every notebook afresh")
	flags.String("from-file", "", "read additional notebook paths from a file (one per line)")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(a))

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "content-test-enforcer %s\n", version)
		},
	}
}

// flagKeys maps command-line flags onto configuration keys
var flagKeys = map[string]string{
	"marker":  "check.marker",
	"tag":     "check.tag",
	"color":   "output.color",
	"format":  "output.format",
	"verbose": "output.verbose",
	"jobs":    "concurrency.workers",
}

// loadConfig layers flags over CTENFORCE_* env vars over the config file over defaults
func loadConfig(v *viper.Viper, cfgFile string, flags *pflag.FlagSet) (*model.Config, error) {
	defaults := model.DefaultConfig()
	v.SetDefault("check.marker", defaults.Check.Marker)
	v.SetDefault("check.tag", defaults.Check.Tag)
	v.SetDefault("output.format", defaults.Output.Format)
	v.SetDefault("output.color", defaults.Output.Color)
	v.SetDefault("output.verbose", defaults.Output.Verbose)
	v.SetDefault("concurrency.workers", defaults.Concurrency.Workers)
	v.SetDefault("cache.enabled", defaults.Cache.Enabled)
	v.SetDefault("cache.ttl", defaults.Cache.TTL)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, configDirName))
		v.SetConfigType("yaml")
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	for name, key := range flagKeys {
		if f := flags.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	cfg := model.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if noCache, err := flags.GetBool("no-cache"); err == nil && noCache {
		cfg.Cache.Enabled = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}
