package utils

import (
	"errors"
	"flag"
	"io"
	"testing"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mut     func(*Config)
		wantErr bool
	}{
		{"nothing selected", func(c *Config) {}, true},
		{"memory only", func(c *Config) { c.MemUtil = true }, false},
		{"swap only", func(c *Config) { c.SwapUtil = true }, false},
		{"cpu only", func(c *Config) { c.CPUUtil = true }, false},
		{
			"disk without path",
			func(c *Config) { c.DiskSpaceUtil = true },
			true,
		},
		{
			"path without disk metric",
			func(c *Config) {
				c.MemUtil = true
				c.DiskPaths = []string{"/"}
			},
			true,
		},
		{
			"disk with path",
			func(c *Config) {
				c.DiskSpaceUtil = true
				c.DiskPaths = []string{"/", "/data"}
			},
			false,
		},
		{
			"bad memory units",
			func(c *Config) {
				c.MemUtil = true
				c.MemoryUnits = "Terabytes"
			},
			true,
		},
		{
			"bad disk units",
			func(c *Config) {
				c.DiskSpaceUtil = true
				c.DiskPaths = []string{"/"}
				c.DiskSpaceUnits = "Blocks"
			},
			true,
		},
		{
			"non-positive cpu interval",
			func(c *Config) {
				c.CPUUtil = true
				c.CPUSampleInterval = 0
			},
			true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewConfig()
			tc.mut(cfg)

			err := cfg.Validate()
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("Validate = %v, want ErrInvalidConfig", err)
				}
			} else if err != nil {
				t.Errorf("Validate: %v", err)
			}
		})
	}
}

func parseFlags(t *testing.T, args ...string) *Config {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cfg := NewConfig()
	apply := GetFlags(fs, cfg)
	if err := fs.Parse(args); err != nil {
		t.Fatal(err)
	}
	apply()
	return cfg
}

func TestFlagParsing(t *testing.T) {
	cfg := parseFlags(t,
		"--mem-util", "--disk-space-util",
		"--disk-path=/", "--disk-path=/data",
		"--memory-units=Bytes", "--cpu-sample-interval=0.5",
		"--verify")

	if !cfg.MemUtil || !cfg.DiskSpaceUtil || !cfg.Verify {
		t.Errorf("flags not applied: %+v", cfg)
	}
	if len(cfg.DiskPaths) != 2 || cfg.DiskPaths[0] != "/" || cfg.DiskPaths[1] != "/data" {
		t.Errorf("DiskPaths = %v", cfg.DiskPaths)
	}
	if cfg.MemoryUnits != "Bytes" || cfg.CPUSampleInterval != 0.5 {
		t.Errorf("options not applied: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestFlagImplications(t *testing.T) {
	cfg := parseFlags(t, "--mem-util", "--aggregated-only", "--auto-scaling-only")
	if !cfg.Aggregated || !cfg.AutoScaling {
		t.Errorf("-only variants must imply their base modes: %+v", cfg)
	}

	cfg = parseFlags(t, "--mem-util", "--from-cron", "--verbose")
	if cfg.Verbose {
		t.Errorf("cron mode must run quietly")
	}
}

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	if cfg.MemoryUnits != "Megabytes" || cfg.DiskSpaceUnits != "Gigabytes" {
		t.Errorf("unexpected default units: %q %q", cfg.MemoryUnits, cfg.DiskSpaceUnits)
	}
	if cfg.CPUSampleInterval != 1.0 {
		t.Errorf("default CPU sample interval = %f", cfg.CPUSampleInterval)
	}
	if cfg.RunID == "" {
		t.Errorf("run id must be assigned")
	}
}
