package main

import (
	"flag"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/fatih/color"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	dskit_log "github.com/grafana/dskit/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"

	"github.com/grafana/treedump/pkg/astdump"
	"github.com/grafana/treedump/pkg/cfg"
	"github.com/grafana/treedump/pkg/treefmt"
	util_log "github.com/grafana/treedump/pkg/util/log"
)

const (
	configFileFlag      = "config.file"
	configExpandEnvFlag = "config.expand-env"
)

// Config is the treedump configuration. Every field can be set in the YAML
// file given with -config.file and overridden on the command line.
type Config struct {
	LogLevel    dskit_log.Level `yaml:"log_level"`
	Color       bool            `yaml:"color"`
	Parallelism int             `yaml:"parallelism"`

	Dump                astdump.Config `yaml:"dump"`
	ComplexityThreshold int            `yaml:"complexity_threshold"`
	Demo                treefmt.Config `yaml:"demo"`
}

func (c *Config) RegisterFlags(f *flag.FlagSet) {
	c.LogLevel.RegisterFlags(f)
	f.BoolVar(&c.Color, "color", false, "Colour output headers.")
	f.IntVar(&c.Parallelism, "parallelism", 4, "Maximum number of files parsed at once by count, complexity and cfg.")
	c.Dump.RegisterFlagsWithPrefix("dump.", f)
	f.IntVar(&c.ComplexityThreshold, "complexity.threshold", 10, "Report functions with at least this cyclomatic complexity.")
	c.Demo.RegisterFlagsWithPrefix("demo.", f)
}

type cli struct {
	cfg    Config
	fs     afero.Fs
	stdout io.Writer
	stderr io.Writer
	logger log.Logger
	reg    *prometheus.Registry
}

func main() {
	if err := run(os.Args[1:], afero.NewOsFs(), os.Stdout, os.Stderr); err != nil {
		logFailure(err)
		os.Exit(1)
	}
}

func logFailure(err error) {
	level.Error(util_log.Logger).Log("msg", "treedump failed", "err", err)
}

// run executes the command line args. Configuration is read from the flag
// defaults, then the config file, then the flags themselves. Until the flags
// are parsed, util_log.Logger logs to stderr at info level.
func run(args []string, fs afero.Fs, stdout, stderr io.Writer) error {
	var lvl dskit_log.Level
	_ = lvl.Set("info")
	c := &cli{
		fs:     fs,
		stdout: stdout,
		stderr: stderr,
		logger: util_log.InitLogger(stderr, lvl),
		reg:    prometheus.NewRegistry(),
	}
	configFile := cfg.FileFromArgs(args, configFileFlag)
	expandEnv := cfg.BoolFromArgs(args, configExpandEnvFlag)
	if err := cfg.Unmarshal(&c.cfg, cfg.Defaults(), cfg.YAMLFile(fs, configFile, expandEnv)); err != nil {
		return err
	}

	app := kingpin.New("treedump", "Print Go syntax trees, control flow graphs and tree descriptions as box-drawn text trees.")
	app.UsageWriter(stderr)
	app.ErrorWriter(stderr)
	app.HelpFlag.Short('h')
	app.Flag(configFileFlag, "YAML configuration file. Command line flags take precedence.").PlaceHolder("FILE").String()
	app.Flag(configExpandEnvFlag, "Expand ${VAR} and ${VAR:-default} references in the config file from the environment.").Bool()
	app.Flag("log.level", "Only log messages with the given severity or above. One of [debug, info, warn, error].").SetValue(&c.cfg.LogLevel)
	app.Flag("color", "Colour output headers.").BoolVar(&c.cfg.Color)
	app.Flag("parallelism", "Maximum number of files parsed at once by count, complexity and cfg.").IntVar(&c.cfg.Parallelism)
	app.PreAction(c.setup)

	c.addDumpCommand(app)
	c.addCountCommand(app)
	c.addComplexityCommand(app)
	c.addCFGCommand(app)
	c.addTokensCommand(app)
	c.addRenderCommand(app)
	c.addDemoCommand(app)

	_, err := app.Parse(args)
	return err
}

func (c *cli) setup(_ *kingpin.ParseContext) error {
	c.logger = util_log.InitLogger(c.stderr, c.cfg.LogLevel)
	color.NoColor = !c.cfg.Color
	return nil
}

func (c *cli) header(format string, args ...interface{}) {
	bold := color.New(color.Bold)
	bold.Fprintf(c.stdout, format+"\n", args...)
}
