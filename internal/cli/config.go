package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/content-test-enforcer/internal/model"
)

func newConfigCmd(a *app) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage content-test-enforcer configuration",
		Long:  `View and manage configuration settings.`,
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  `Display the effective configuration after applying defaults, config file, env vars and flags.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if used := a.v.ConfigFileUsed(); used != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Configuration file: %s\n\n", used)
			} else {
				fmt.Fprintf(cmd.ErrOrStderr(), "No configuration file found (using defaults)\n\n")
			}

			yamlData, err := yaml.Marshal(a.cfg)
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}
			fmt.Fprint(out, string(yamlData))

			fmt.Fprintln(out)
			fmt.Fprintln(out, "# Configuration hierarchy (highest to lowest priority):")
			fmt.Fprintln(out, "#   1. CLI flags")
			fmt.Fprintf(out, "#   2. Environment variables (%s_*, e.g. %s_CHECK_TAG)\n", envPrefix, envPrefix)
			fmt.Fprintf(out, "#   3. Config file (~/%s/config.yaml)\n", configDirName)
			fmt.Fprintln(out, "#   4. Defaults")
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Initialize default configuration file",
		Long:  `Create a default configuration file at ~/` + configDirName + `/config.yaml, or at --config if given.`,
		Args:  cobra.NoArgs,
		// The file being created may not exist yet, so skip loading it
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfgFile
			if path == "" {
				home, err := os.UserHomeDir()
				if err != nil {
					return fmt.Errorf("find home directory: %w", err)
				}
				path = filepath.Join(home, configDirName, "config.yaml")
			}

			if err := writeDefaultConfig(path); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Created default configuration: %s\n", path)
			return nil
		},
	})

	return configCmd
}

// writeDefaultConfig writes the documented default config, refusing to overwrite
func writeDefaultConfig(path string) (err error) {
	if _, statErr := os.Stat(path); statErr == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	yamlData, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close config file: %w", closeErr)
		}
	}()

	header := "# content-test-enforcer configuration\n" +
		"#\n" +
		"# check.marker  line prefix that declares a content reference\n" +
		"# check.tag     tag required on every cell holding a reference\n" +
		"# output.color  auto, always or never\n" +
		"# output.format text, json or yaml\n\n"

	if _, err := f.WriteString(header); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if _, err := f.Write(yamlData); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}
