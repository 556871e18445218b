// internal/config/config.go
//
// Optional TOML configuration file, grounded on the decode idiom in
// Pieczasz-smf/internal/parser/toml/parser.go. Command-line flags always
// take precedence over a config file's values; Load returns the zero
// Config (every field empty/zero) when no file is present so callers can
// apply flag defaults on top.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config mirrors the settings gatordb's CLI also exposes as flags.
type Config struct {
	DataDir    string `toml:"data_dir"`
	CSVFile    string `toml:"csv_file"`
	Delimiter  string `toml:"delimiter"`
	Table      string `toml:"table"`
	AutoCreate bool   `toml:"autocreate"`
}

// Load reads a TOML config file at path. A missing file is not an error;
// it yields a zero Config.
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	if _, err := toml.NewDecoder(f).Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return cfg, nil
}

// Merge returns a Config with every zero string field of override filled
// in from base, so CLI flags (override) win over a config file (base)
// without callers having to special-case "was this flag set". AutoCreate
// is a plain bool with no unset state to detect this way; callers merge
// it themselves using their flag library's "was this flag set" check
// (see cmd/gatordb/main.go's use of cobra's Flags().Changed).
func Merge(base, override Config) Config {
	merged := override
	if merged.DataDir == "" {
		merged.DataDir = base.DataDir
	}
	if merged.CSVFile == "" {
		merged.CSVFile = base.CSVFile
	}
	if merged.Delimiter == "" {
		merged.Delimiter = base.Delimiter
	}
	if merged.Table == "" {
		merged.Table = base.Table
	}
	return merged
}
