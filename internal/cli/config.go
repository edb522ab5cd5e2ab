package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
	"github.com/tobsdb/tdblite/internal/auth"
	"github.com/tobsdb/tdblite/internal/builder"
	"github.com/tobsdb/tdblite/pkg"
)

const (
	DEFAULT_CONFIG_FILE  = "tdblite.yaml"
	DEFAULT_ADDR         = ":7085"
	DEFAULT_HISTORY_FILE = ".tdblite_history"
	ENV_PREFIX           = "TDB_"
)

const (
	OutputTable = "table"
	OutputJSON  = "json"
)

type AuthConfig struct {
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	Role     string `koanf:"role"`
}

type Config struct {
	DataDir     string     `koanf:"data_dir"`
	MetaFile    string     `koanf:"meta_file"`
	LogLevel    string     `koanf:"log_level"`
	Confirm     bool       `koanf:"confirm"`
	Output      string     `koanf:"output"`
	Addr        string     `koanf:"addr"`
	HistoryFile string     `koanf:"history_file"`
	Auth        AuthConfig `koanf:"auth"`
}

func defaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, DEFAULT_HISTORY_FILE)
}

// LoadConfig loads configuration from defaults, the config file, TDB_
// environment variables and explicitly set flags, in increasing order of
// precedence. A missing default config file is not an error.
func LoadConfig(cfg_file string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"data_dir":     builder.DEFAULT_DATA_DIR,
		"meta_file":    builder.DEFAULT_META_FILE,
		"log_level":    "error",
		"confirm":      true,
		"output":       OutputTable,
		"addr":         DEFAULT_ADDR,
		"history_file": defaultHistoryFile(),
		"auth.role":    auth.UserRoleReadWrite.String(),
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if cfg_file == "" {
		if _, err := os.Stat(DEFAULT_CONFIG_FILE); err == nil {
			cfg_file = DEFAULT_CONFIG_FILE
		}
	}
	if cfg_file != "" {
		if err := k.Load(file.Provider(cfg_file), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfg_file, err)
		}
		pkg.DebugLog("using config file", cfg_file)
	}

	// TDB_DATA_DIR -> data_dir, TDB_AUTH_PASSWORD -> auth.password
	if err := k.Load(env.Provider(ENV_PREFIX, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, ENV_PREFIX))
		if strings.HasPrefix(key, "auth_") {
			key = "auth." + strings.TrimPrefix(key, "auth_")
		}
		return key
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			switch key {
			case "config":
				return "", nil
			case "yes":
				yes, _ := flags.GetBool("yes")
				return "confirm", !yes
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if _, err := pkg.ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := auth.ParseUserRole(c.Auth.Role); err != nil {
		return err
	}
	switch c.Output {
	case OutputTable, OutputJSON:
	default:
		return fmt.Errorf("invalid output format %q; expected %s or %s", c.Output, OutputTable, OutputJSON)
	}
	if c.Auth.Password != "" && c.Auth.Username == "" {
		return fmt.Errorf("auth.password is set without auth.username")
	}
	return nil
}

func (c *Config) ApplyLogLevel() {
	level, _ := pkg.ParseLogLevel(c.LogLevel)
	pkg.SetLogLevel(level)
}

func (c *Config) WriteSettings() *builder.TDBWriteSettings {
	return builder.NewWriteSettings(c.MetaFile, c.DataDir)
}

// ServerUser returns the user connections must authenticate as, or nil
// when no username is configured.
func (c *Config) ServerUser() (*auth.User, error) {
	if c.Auth.Username == "" {
		return nil, nil
	}
	role, err := auth.ParseUserRole(c.Auth.Role)
	if err != nil {
		return nil, err
	}
	return auth.NewUser(c.Auth.Username, c.Auth.Password, role)
}
