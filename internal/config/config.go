package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	WatchDir   string `mapstructure:"watch_dir"`
	TargetDir  string `mapstructure:"target_dir"`
	ArchiveDir string `mapstructure:"archive_dir"`
	LogDir     string `mapstructure:"log_dir"`

	PollInterval     time.Duration `mapstructure:"poll_interval"`
	StabilityTimeout time.Duration `mapstructure:"stability_timeout"`
	MainBreak        time.Duration `mapstructure:"main_break"`
	SettleDelay      time.Duration `mapstructure:"settle_delay"`
	DailyEndingHour  int           `mapstructure:"daily_ending_hour"`
	DailyStartHour   int           `mapstructure:"daily_start_hour"`

	SampleAttempts int           `mapstructure:"sample_attempts"`
	SampleDelay    time.Duration `mapstructure:"sample_delay"`

	// Workers caps the pool; 0 means one slot per CPU minus the coordinator's.
	Workers    int      `mapstructure:"workers"`
	IgnoreList []string `mapstructure:"ignore_list"`

	DaemonPort int    `mapstructure:"daemon_port"`
	DBPath     string `mapstructure:"db_path"`
}

var Default = Config{
	PollInterval:     20 * time.Minute,
	StabilityTimeout: 2 * time.Hour,
	MainBreak:        5 * time.Minute,
	SettleDelay:      10 * time.Second,
	DailyEndingHour:  21,
	DailyStartHour:   6,
	SampleAttempts:   5,
	SampleDelay:      15 * time.Second,
	IgnoreList:       []string{},
	DaemonPort:       9101,
	DBPath:           "dropzone.db",
}

// Load reads the config file at path, or ~/.dropzone/config.yaml when path is
// empty, layering DROPZONE_* environment variables on top of the defaults.
func Load(path string) (Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("failed to get home dir: %w", err)
		}

		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(home, ".dropzone"))
	}

	setDefaults(v)

	v.SetEnvPrefix("DROPZONE")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := errors.AsType[viper.ConfigFileNotFoundError](err); !ok || path != "" {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	for _, key := range []string{"watch_dir", "target_dir", "archive_dir", "log_dir"} {
		v.SetDefault(key, "")
	}

	v.SetDefault("poll_interval", Default.PollInterval)
	v.SetDefault("stability_timeout", Default.StabilityTimeout)
	v.SetDefault("main_break", Default.MainBreak)
	v.SetDefault("settle_delay", Default.SettleDelay)
	v.SetDefault("daily_ending_hour", Default.DailyEndingHour)
	v.SetDefault("daily_start_hour", Default.DailyStartHour)
	v.SetDefault("sample_attempts", Default.SampleAttempts)
	v.SetDefault("sample_delay", Default.SampleDelay)
	v.SetDefault("workers", Default.Workers)
	v.SetDefault("ignore_list", Default.IgnoreList)
	v.SetDefault("daemon_port", Default.DaemonPort)
	v.SetDefault("db_path", Default.DBPath)
}

// Validate checks that every configured directory already exists and that the
// timing values are usable.
func (c Config) Validate() error {
	var errs []error

	dirs := []struct {
		key, path string
	}{
		{"watch_dir", c.WatchDir},
		{"target_dir", c.TargetDir},
		{"archive_dir", c.ArchiveDir},
		{"log_dir", c.LogDir},
	}
	for _, d := range dirs {
		if d.path == "" {
			errs = append(errs, fmt.Errorf("%s is required", d.key))
			continue
		}

		info, err := os.Stat(d.path)
		if err != nil || !info.IsDir() {
			errs = append(errs, fmt.Errorf("%s: %s does not exist", d.key, d.path))
		}
	}

	if c.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("poll_interval must be positive"))
	}
	if c.StabilityTimeout <= 0 {
		errs = append(errs, fmt.Errorf("stability_timeout must be positive"))
	}
	if c.MainBreak <= 0 {
		errs = append(errs, fmt.Errorf("main_break must be positive"))
	}
	if c.SettleDelay < 0 {
		errs = append(errs, fmt.Errorf("settle_delay must not be negative"))
	}
	if c.DailyEndingHour < 0 || c.DailyEndingHour > 23 {
		errs = append(errs, fmt.Errorf("daily_ending_hour must be within 0-23"))
	}
	if c.DailyStartHour < 0 || c.DailyStartHour > 23 {
		errs = append(errs, fmt.Errorf("daily_start_hour must be within 0-23"))
	}
	if c.SampleAttempts < 1 {
		errs = append(errs, fmt.Errorf("sample_attempts must be at least 1"))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative"))
	}

	return errors.Join(errs...)
}

// EndingTime returns the moment on now's day after which the daemon stops taking
// new work once idle.
func (c Config) EndingTime(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, c.DailyEndingHour, 0, 0, 0, now.Location())
}
