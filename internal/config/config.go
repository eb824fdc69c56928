// Package config handles configuration management using Viper
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/bnema/desktopkit/internal/app"
	"github.com/bnema/desktopkit/internal/event"
	"github.com/bnema/desktopkit/internal/geometry"
	"github.com/bnema/desktopkit/internal/logger"
	"github.com/bnema/desktopkit/internal/remote"
)

// Config represents the application configuration
type Config struct {
	Application ApplicationConfig `mapstructure:"application"`

	// Defaults for windows a scenario does not size itself
	Window WindowConfig `mapstructure:"window"`

	Transfer TransferConfig `mapstructure:"transfer"`

	// Client-side decoration metrics
	Chrome ChromeConfig `mapstructure:"chrome"`

	// Remote access to the event monitor
	Monitor MonitorConfig `mapstructure:"monitor"`

	Logging LoggingConfig `mapstructure:"logging"`
}

// ApplicationConfig contains process-wide settings
type ApplicationConfig struct {
	AppID         string `mapstructure:"app_id"`
	RenderingMode string `mapstructure:"rendering_mode"` // auto, software or egl
	EventBuffer   int    `mapstructure:"event_buffer"`   // monitor channel capacity
}

// WindowConfig contains the default window parameters
type WindowConfig struct {
	Title                      string  `mapstructure:"title"`
	Width                      float64 `mapstructure:"width"`
	Height                     float64 `mapstructure:"height"`
	MinWidth                   float64 `mapstructure:"min_width"`
	MinHeight                  float64 `mapstructure:"min_height"`
	PreferClientSideDecoration bool    `mapstructure:"prefer_client_side_decoration"`
}

// TransferConfig contains clipboard and drag and drop settings
type TransferConfig struct {
	PasteTimeoutMs int      `mapstructure:"paste_timeout_ms"`
	DropMimeTypes  []string `mapstructure:"drop_mime_types"` // accepted in order
	PreferMove     bool     `mapstructure:"prefer_move"`
}

// ChromeConfig sizes the decorations drawn when the compositor asks for client-side ones
type ChromeConfig struct {
	TitlebarHeight float64 `mapstructure:"titlebar_height"`
	BorderSize     float64 `mapstructure:"border_size"`
	ButtonSize     float64 `mapstructure:"button_size"` // 0 means the titlebar height
}

// MonitorConfig contains the SSH endpoint of the event monitor
type MonitorConfig struct {
	Listen         string   `mapstructure:"listen"`          // empty disables remote viewers
	HostKeyPath    string   `mapstructure:"host_key_path"`   // generated when missing
	AuthorizedKeys []string `mapstructure:"authorized_keys"` // SHA256 fingerprints, empty accepts any key
	History        int      `mapstructure:"history"`         // messages replayed to late viewers
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	FileLogging bool   `mapstructure:"file_logging"` // Enable/disable file logging
	LogLevel    string `mapstructure:"log_level"`    // Override LOG_LEVEL env var
}

var (
	// DefaultConfig provides sensible defaults
	DefaultConfig = Config{
		Application: ApplicationConfig{
			AppID:         "dev.bnema.desktopkit",
			RenderingMode: "auto",
			EventBuffer:   256,
		},
		Window: WindowConfig{
			Title:     "desktopkit",
			Width:     800,
			Height:    600,
			MinWidth:  0,
			MinHeight: 0,
		},
		Transfer: TransferConfig{
			PasteTimeoutMs: 5000,
			DropMimeTypes:  []string{event.MimeTextPlain, event.MimeText},
			PreferMove:     false,
		},
		Chrome: ChromeConfig{
			TitlebarHeight: 55,
			BorderSize:     5,
		},
		Monitor: MonitorConfig{
			Listen:      "",
			HostKeyPath: "", // Empty means next to the log file
			History:     1000,
		},
		Logging: LoggingConfig{
			FileLogging: false,
			LogLevel:    "", // Empty means use LOG_LEVEL env var
		},
	}

	// Global config instance
	cfg *Config

	// Override config path if set
	configPathOverride string
)

// SetConfigPath allows overriding the config path
func SetConfigPath(path string) {
	configPathOverride = path
}

// Init initializes the configuration system
func Init() error {
	viper.SetConfigName("desktopkit")
	viper.SetConfigType("toml")

	if configPathOverride != "" {
		viper.SetConfigFile(configPathOverride)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "desktopkit"))
		}
		viper.AddConfigPath(".") // Current directory (lowest priority)
	}

	// Set defaults - need to set individual fields for proper merging
	for key, value := range flatten(&DefaultConfig) {
		viper.SetDefault(key, value)
	}

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	c := &Config{}
	if err := viper.Unmarshal(c); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}
	if _, err := event.ParseRenderingMode(c.Application.RenderingMode); err != nil {
		return fmt.Errorf("application.rendering_mode: %w", err)
	}
	cfg = c

	return nil
}

// Get returns the current configuration
func Get() *Config {
	if cfg == nil {
		// Return defaults if not initialized
		return &DefaultConfig
	}
	return cfg
}

// Set sets the current configuration (for testing)
func Set(c *Config) {
	cfg = c
}

// Save writes the current configuration to GetConfigPath
func Save() error {
	configPath := GetConfigPath()

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	for key, value := range flatten(Get()) {
		viper.Set(key, value)
	}

	if err := viper.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// flatten lists every key of c with its value
func flatten(c *Config) map[string]any {
	return map[string]any{
		"application.app_id":         c.Application.AppID,
		"application.rendering_mode": c.Application.RenderingMode,
		"application.event_buffer":   c.Application.EventBuffer,

		"window.title":                         c.Window.Title,
		"window.width":                         c.Window.Width,
		"window.height":                        c.Window.Height,
		"window.min_width":                     c.Window.MinWidth,
		"window.min_height":                    c.Window.MinHeight,
		"window.prefer_client_side_decoration": c.Window.PreferClientSideDecoration,

		"transfer.paste_timeout_ms": c.Transfer.PasteTimeoutMs,
		"transfer.drop_mime_types":  c.Transfer.DropMimeTypes,
		"transfer.prefer_move":      c.Transfer.PreferMove,

		"chrome.titlebar_height": c.Chrome.TitlebarHeight,
		"chrome.border_size":     c.Chrome.BorderSize,
		"chrome.button_size":     c.Chrome.ButtonSize,

		"monitor.listen":          c.Monitor.Listen,
		"monitor.host_key_path":   c.Monitor.HostKeyPath,
		"monitor.authorized_keys": c.Monitor.AuthorizedKeys,
		"monitor.history":         c.Monitor.History,

		"logging.file_logging": c.Logging.FileLogging,
		"logging.log_level":    c.Logging.LogLevel,
	}
}

// GetConfigPath returns the path to the config file
func GetConfigPath() string {
	if configPathOverride != "" {
		return configPathOverride
	}

	if viper.ConfigFileUsed() != "" {
		return viper.ConfigFileUsed()
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "desktopkit.toml"
	}

	return filepath.Join(home, ".config", "desktopkit", "desktopkit.toml")
}

// AppOptions builds the runtime options from the transfer and chrome sections
func (c *Config) AppOptions() app.Options {
	opts := app.DefaultOptions()
	if c.Transfer.PasteTimeoutMs > 0 {
		opts.PasteTimeout = time.Duration(c.Transfer.PasteTimeoutMs) * time.Millisecond
	}
	if len(c.Transfer.DropMimeTypes) > 0 {
		opts.DropPolicy.MimeTypes = c.Transfer.DropMimeTypes
	}
	if c.Transfer.PreferMove {
		opts.DropPolicy.Preferred = event.ActionPtr(event.ActionMove)
	}
	if c.Chrome.TitlebarHeight > 0 {
		opts.Chrome.TitlebarHeight = c.Chrome.TitlebarHeight
	}
	if c.Chrome.BorderSize > 0 {
		opts.Chrome.BorderSize = c.Chrome.BorderSize
	}
	opts.Chrome.ButtonSize = c.Chrome.ButtonSize
	return opts
}

// WindowDefaults returns the parameters used for windows that leave them unset
func (c *Config) WindowDefaults() (event.WindowParams, error) {
	mode, err := event.ParseRenderingMode(c.Application.RenderingMode)
	if err != nil {
		return event.WindowParams{}, err
	}
	return event.WindowParams{
		AppID:                      c.Application.AppID,
		Title:                      c.Window.Title,
		Size:                       geometry.LogicalSize{Width: c.Window.Width, Height: c.Window.Height},
		MinSize:                    geometry.LogicalSize{Width: c.Window.MinWidth, Height: c.Window.MinHeight},
		PreferClientSideDecoration: c.Window.PreferClientSideDecoration,
		RenderingMode:              mode,
	}, nil
}

// RemoteMonitor returns the SSH endpoint settings. listen overrides the
// configured address when set.
func (c *Config) RemoteMonitor(listen string) remote.Config {
	if listen == "" {
		listen = c.Monitor.Listen
	}
	keyPath := c.Monitor.HostKeyPath
	if keyPath == "" {
		keyPath = filepath.Join(filepath.Dir(logger.LogPath()), "monitor_ed25519")
	}
	return remote.Config{
		Addr:           listen,
		HostKeyPath:    keyPath,
		AuthorizedKeys: c.Monitor.AuthorizedKeys,
		History:        c.Monitor.History,
	}
}
