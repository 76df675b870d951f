package config

import (
	"flag"
	"os"
	"strconv"
	"time"
)

// isFlagSet reports whether a flag was given on the command line.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// isDefined reports whether the flag exists for the current subcommand.
func isDefined(fs *flag.FlagSet, name string) bool {
	return fs.Lookup(name) != nil
}

// envOverride maps a SYSMON_ key to the flag it shadows.
type envOverride struct {
	envKey string
	flag   string
	apply  func(*AppConfig, string)
}

var envOverrides = []envOverride{
	{"PROC", "proc", func(c *AppConfig, v string) { c.ProcRoot = v }},
	{"LOG_LEVEL", "log-level", func(c *AppConfig, v string) { c.LogLevel = v }},
	{"LOG_FILE", "log-file", func(c *AppConfig, v string) { c.LogFile = v }},
	{"METRICS_ADDR", "metrics-addr", func(c *AppConfig, v string) { c.MetricsAddr = v }},
	{"SORT", "sort", func(c *AppConfig, v string) { c.Sort = v }},
	{"WORKERS", "workers", func(c *AppConfig, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Workers = parsed
		}
	}},

	{"ROWS", "rows", func(c *AppConfig, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Rows = parsed
		}
	}},
	{"N", "n", func(c *AppConfig, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Iterations = parsed
		}
	}},
	{"FORMAT", "format", func(c *AppConfig, v string) { c.Format = v }},

	{"CPU", "cpu", func(c *AppConfig, v string) {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.CPUThreshold = parsed
		}
	}},
	{"MEM", "mem", func(c *AppConfig, v string) {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.MemThreshold = parsed
		}
	}},
	{"COOLDOWN", "cooldown", func(c *AppConfig, v string) {
		if parsed, err := time.ParseDuration(v); err == nil {
			c.Cooldown = parsed
		}
	}},
	{"WEBHOOK", "webhook", func(c *AppConfig, v string) { c.WebhookURL = v }},
}

// applyEnvOverrides fills in environment values for flags that exist on
// this subcommand but were not set explicitly. Unparseable values are
// ignored and the default stays.
func applyEnvOverrides(cfg *AppConfig, fs *flag.FlagSet) {
	for _, o := range envOverrides {
		if !isDefined(fs, o.flag) || isFlagSet(fs, o.flag) {
			continue
		}
		if val := os.Getenv(EnvPrefix + o.envKey); val != "" {
			o.apply(cfg, val)
		}
	}
}
