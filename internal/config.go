package internal

import (
	"errors"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Checkpoint drivers.
const (
	CheckpointDriverFile   = "file"
	CheckpointDriverSQLite = "sqlite"
)

// Config represents the application configuration.
type Config struct {
	App        ApplicationConfig `yaml:"app"`
	Tracking   TrackingConfig    `yaml:"tracking"`
	Backup     BackupConfig      `yaml:"backup"`
	Checkpoint CheckpointConfig  `yaml:"checkpoint"`
	Journal    JournalConfig     `yaml:"journal"`
	Palette    []string          `yaml:"palette"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Tracking.Validate(); err != nil {
		return err
	}
	if err := c.Backup.Validate(); err != nil {
		return err
	}
	if err := c.Checkpoint.Validate(); err != nil {
		return err
	}
	if c.Checkpoint.Driver == CheckpointDriverSQLite && c.Journal.Path == "" {
		return errors.New("checkpoint: driver is \"sqlite\" but journal.path is empty")
	}
	return validation.Validate(c.Palette,
		validation.Required.Error("palette needs at least one color"),
		validation.Each(validation.Required),
	)
}

// ApplicationConfig holds application-level configuration.
//
// Sweeps is the number of scheduled sweeps per run; 0 sweeps until the
// process is stopped. Interval is the pause between scheduled sweeps.
// An empty LogFile logs to the standard streams.
type ApplicationConfig struct {
	LogLevel      slog.Level    `yaml:"log_level"`
	LogFile       string        `yaml:"log_file"`
	LogMaxSizeMB  int           `yaml:"log_max_size_mb"`
	LogMaxBackups int           `yaml:"log_max_backups"`
	Interval      time.Duration `yaml:"interval"`
	Sweeps        int           `yaml:"sweeps"`
	Watch         bool          `yaml:"watch"`
	Debounce      time.Duration `yaml:"debounce"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Interval, validation.Min(time.Duration(0))),
		validation.Field(&c.Sweeps, validation.Min(0)),
		validation.Field(&c.Debounce, validation.Min(time.Duration(0))),
		validation.Field(&c.LogMaxSizeMB, validation.Min(0)),
		validation.Field(&c.LogMaxBackups, validation.Min(0)),
	)
}

// TrackingConfig locates the tracked-files list and the mind-map folder.
// An empty TemplatePath selects the embedded Minder template.
type TrackingConfig struct {
	ListFile       string `yaml:"list_file"`
	GraphFolder    string `yaml:"graph_folder"`
	GraphExtension string `yaml:"graph_extension"`
	TemplatePath   string `yaml:"template_path"`
}

// Validate validates the tracking configuration.
func (c *TrackingConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.ListFile, validation.Required),
		validation.Field(&c.GraphFolder, validation.Required),
		validation.Field(&c.GraphExtension, validation.Required),
	)
}

// BackupConfig holds outline snapshot settings. MaxFiles <= 0 keeps every
// snapshot.
type BackupConfig struct {
	Folder   string `yaml:"folder"`
	MaxFiles int    `yaml:"max_files"`
}

// Validate validates the backup configuration.
func (c *BackupConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Folder, validation.Required),
	)
}

// CheckpointConfig selects where the last-sync instant is kept. Path is
// used by the file driver only.
type CheckpointConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

// Validate validates the checkpoint configuration.
func (c *CheckpointConfig) Validate() error {
	if c.Driver == "" {
		c.Driver = CheckpointDriverFile
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Driver, validation.Required, validation.In(CheckpointDriverFile, CheckpointDriverSQLite)),
		validation.Field(&c.Path, validation.When(c.Driver == CheckpointDriverFile, validation.Required)),
	)
}

// JournalConfig holds the SQLite sync journal location. An empty Path
// disables the journal.
type JournalConfig struct {
	Path string `yaml:"path"`
}

// Enabled reports whether a journal is configured.
func (c *JournalConfig) Enabled() bool {
	return c.Path != ""
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel:      slog.LevelInfo,
			LogMaxSizeMB:  10,
			LogMaxBackups: 3,
			Interval:      30 * time.Second,
			Sweeps:        2,
			Debounce:      500 * time.Millisecond,
		},
		Tracking: TrackingConfig{
			ListFile:       "./tracked.txt",
			GraphFolder:    "./mindmaps",
			GraphExtension: "minder",
		},
		Backup: BackupConfig{
			Folder:   "./backups",
			MaxFiles: 50,
		},
		Checkpoint: CheckpointConfig{
			Driver: CheckpointDriverFile,
			Path:   "./last_sync",
		},
		Journal: JournalConfig{
			Path: "./mindsync.db",
		},
		Palette: []string{"Red", "Orange", "Yellow", "Green", "Blue", "Purple"},
	}
}
