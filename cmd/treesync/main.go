package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/text/language"

	"github.com/aatuh/treesync/internal/config"
	"github.com/aatuh/treesync/internal/logging"
)

var version = "dev"

// cli carries what every command needs once flags and config are resolved.
type cli struct {
	cfgFile  string
	v        *viper.Viper
	settings config.Settings
	logger   *logrus.Logger

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// flagKeys maps command-line flags onto config keys.
var flagKeys = map[string]string{
	"root":         "root",
	"scan-path":    "scan_paths",
	"endpoint":     "endpoint",
	"token":        "token",
	"timeout":      "timeout",
	"state":        "state_file",
	"expand-depth": "expand_depth",
	"log-level":    "log.level",
	"locale":       "locale",
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &cli{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	if err := newRootCmd(c).ExecuteContext(ctx); err != nil {
		stop()
		exitWithError(err)
	}
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "treesync",
		Short:         "Build sorted project trees from file scan results",
		Long:          "treesync turns flat or nested file listings into a sorted project tree.\nDirectories come first, names compare case-insensitively, and entries that\ncannot be placed are reported instead of silently dropped.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.init(cmd)
		},
	}
	root.SetIn(c.stdin)
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "config file (default is $HOME/.config/treesync/config.yaml)")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.String("state", "", "view state file")
	flags.Int("expand-depth", 1, "expand directories shallower than this unless toggled")

	root.AddCommand(newBuildCmd(c))
	root.AddCommand(newFlattenCmd(c))
	root.AddCommand(newStateCmd(c))
	root.AddCommand(newVersionCmd(c))
	return root
}

func (c *cli) init(cmd *cobra.Command) error {
	v, err := config.New(c.cfgFile)
	if err != nil {
		return err
	}
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	settings, err := config.Resolve(v)
	if err != nil {
		return err
	}
	logger, err := logging.New(settings.LogLevel, c.stderr)
	if err != nil {
		return err
	}

	c.v = v
	c.settings = settings
	c.logger = logger
	return nil
}

func (c *cli) log(component string) *logrus.Entry {
	return c.logger.WithField("component", component)
}

func (c *cli) locale() (language.Tag, error) {
	if c.settings.Locale == "" {
		return language.Und, nil
	}
	tag, err := language.Parse(c.settings.Locale)
	if err != nil {
		return language.Und, fmt.Errorf("locale %q: %w", c.settings.Locale, err)
	}
	return tag, nil
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
