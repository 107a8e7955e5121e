package main

import (
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"smallsh/internal/config"
	"smallsh/internal/shell"
)

var (
	cfgPath string
	verbose bool
	color   bool
)

var rootCmd = &cobra.Command{
	Use:   "smallsh",
	Short: "A small interactive shell",
	Long: `smallsh runs commands in the foreground or, with a trailing &, in the
background. Ctrl-Z toggles foreground-only mode.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		s, err := shell.New(cfg)
		if err != nil {
			return err
		}
		os.Exit(s.Run())
		return nil
	},
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgPath != "" {
		cfg, err = config.Load(afero.NewOsFs(), cfgPath)
	} else {
		cfg, err = config.Default()
	}
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = verbose
	}
	if cmd.Flags().Changed("color") {
		cfg.Color = color
	}
	return cfg, nil
}

func init() {
	rootCmd.Flags().StringVar(&cfgPath, "config", "", "path to a YAML config file")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "trace every launched command on stderr")
	rootCmd.Flags().BoolVar(&color, "color", false, "color error output")
}

func main() {
	// A launched child re-enters here and never returns from RunChild.
	shell.RunChild()

	cobra.CheckErr(rootCmd.Execute())
}
