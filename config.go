package tessera

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config is the host-level configuration: which map to load, the window, the
// camera and logging. Values come from defaults, then a config file, then
// TESSERA_* environment variables, then bound flags.
type Config struct {
	Map           string         `mapstructure:"map"`
	Assets        string         `mapstructure:"assets"`
	Debug         bool           `mapstructure:"debug"`
	ScreenshotDir string         `mapstructure:"screenshot_dir"`
	Window        WindowConfig   `mapstructure:"window"`
	Camera        CameraSettings `mapstructure:"camera"`
	Log           LogConfig      `mapstructure:"log"`
}

// WindowConfig sizes the viewport and window.
type WindowConfig struct {
	Title   string `mapstructure:"title"`
	Width   int    `mapstructure:"width"`
	Height  int    `mapstructure:"height"`
	ShowFPS bool   `mapstructure:"show_fps"`
}

// CameraSettings is the file form of CameraConfig.
type CameraSettings struct {
	Model      string  `mapstructure:"model"`
	Speed      float64 `mapstructure:"speed"`
	Lerp       float64 `mapstructure:"lerp"`
	CurveSpeed float64 `mapstructure:"curve_speed"`
	ZoomSpeed  float64 `mapstructure:"zoom_speed"`
	Zoom       float64 `mapstructure:"zoom"`
	MinZoom    float64 `mapstructure:"min_zoom"`
	MaxZoom    float64 `mapstructure:"max_zoom"`
}

// LogConfig selects the log level and an optional rotating log file.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	// Quiet keeps logs off stderr, for front ends that own the terminal.
	Quiet bool `mapstructure:"quiet"`
}

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() Config {
	cam := DefaultCameraConfig()
	return Config{
		Map:           "arena",
		Assets:        "assets",
		ScreenshotDir: "screenshots",
		Window: WindowConfig{
			Title:  "tessera",
			Width:  640,
			Height: 480,
		},
		Camera: CameraSettings{
			Model:      cam.Model.String(),
			Speed:      cam.Speed,
			Lerp:       cam.Lerp,
			CurveSpeed: cam.CurveSpeed,
			ZoomSpeed:  cam.ZoomSpeed,
			Zoom:       cam.Zoom,
			MinZoom:    cam.MinZoom,
			MaxZoom:    cam.MaxZoom,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
	}
}

// LoadConfig reads configuration from path (skipped when empty), the
// environment and flags (skipped when nil).
func LoadConfig(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix("TESSERA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("tessera: read config %s: %w", path, err)
		}
	}
	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("tessera: bind flags: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("tessera: decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("map", d.Map)
	v.SetDefault("assets", d.Assets)
	v.SetDefault("debug", d.Debug)
	v.SetDefault("screenshot_dir", d.ScreenshotDir)
	v.SetDefault("window.title", d.Window.Title)
	v.SetDefault("window.width", d.Window.Width)
	v.SetDefault("window.height", d.Window.Height)
	v.SetDefault("window.show_fps", d.Window.ShowFPS)
	v.SetDefault("camera.model", d.Camera.Model)
	v.SetDefault("camera.speed", d.Camera.Speed)
	v.SetDefault("camera.lerp", d.Camera.Lerp)
	v.SetDefault("camera.curve_speed", d.Camera.CurveSpeed)
	v.SetDefault("camera.zoom_speed", d.Camera.ZoomSpeed)
	v.SetDefault("camera.zoom", d.Camera.Zoom)
	v.SetDefault("camera.min_zoom", d.Camera.MinZoom)
	v.SetDefault("camera.max_zoom", d.Camera.MaxZoom)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.max_age_days", d.Log.MaxAgeDays)
	v.SetDefault("log.quiet", d.Log.Quiet)
}

// Validate checks values that cannot be defaulted silently.
func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("tessera: window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if _, err := ParseMotionModel(c.Camera.Model); err != nil {
		errs = append(errs, err)
	}
	if c.Camera.MinZoom <= 0 || c.Camera.MaxZoom < c.Camera.MinZoom {
		errs = append(errs, fmt.Errorf("tessera: zoom range [%g, %g] is invalid", c.Camera.MinZoom, c.Camera.MaxZoom))
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("tessera: log level: %w", err))
	}
	return errors.Join(errs...)
}

// CameraConfig converts the settings into a CameraConfig. Fields left at zero
// keep their DefaultCameraConfig values.
func (c Config) CameraConfig() (CameraConfig, error) {
	cfg := DefaultCameraConfig()
	m, err := ParseMotionModel(c.Camera.Model)
	if err != nil {
		return cfg, err
	}
	cfg.Model = m
	setIfPositive(&cfg.Speed, c.Camera.Speed)
	setIfPositive(&cfg.Lerp, c.Camera.Lerp)
	setIfPositive(&cfg.CurveSpeed, c.Camera.CurveSpeed)
	setIfPositive(&cfg.ZoomSpeed, c.Camera.ZoomSpeed)
	setIfPositive(&cfg.Zoom, c.Camera.Zoom)
	setIfPositive(&cfg.MinZoom, c.Camera.MinZoom)
	setIfPositive(&cfg.MaxZoom, c.Camera.MaxZoom)
	return cfg, nil
}

func setIfPositive(dst *float64, v float64) {
	if v > 0 {
		*dst = v
	}
}

// Apply configures l with the level and, when File is set, a rotating log
// file alongside stderr (instead of it when Quiet). The returned closer
// releases the file; it is a no-op when no file is used.
func (c LogConfig) Apply(l *logrus.Logger) (io.Closer, error) {
	lvl, err := logrus.ParseLevel(c.Level)
	if err != nil {
		return nopCloser{}, fmt.Errorf("tessera: log level: %w", err)
	}
	l.SetLevel(lvl)
	if c.File == "" {
		if c.Quiet {
			l.SetOutput(io.Discard)
		}
		return nopCloser{}, nil
	}
	lj := &lumberjack.Logger{
		Filename:   c.File,
		MaxSize:    c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAge:     c.MaxAgeDays,
	}
	if c.Quiet {
		l.SetOutput(lj)
	} else {
		l.SetOutput(io.MultiWriter(os.Stderr, lj))
	}
	return lj, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
