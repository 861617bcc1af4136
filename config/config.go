// Package config holds the playback options applied to the engine at
// construction, backed by viper with environment overrides.
package config

import (
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Configuration keys.
const (
	PlaybackHWDec    = "playback.hwdec"
	PlaybackVolume   = "playback.volume"
	PlaybackKeepOpen = "playback.keep_open"

	SubtitlesFontSize    = "subtitles.font_size"
	SubtitlesColor       = "subtitles.color"
	SubtitlesBorderColor = "subtitles.border_color"
	SubtitlesBorderSize  = "subtitles.border_size"
	SubtitlesPosition    = "subtitles.position"

	LogsLevel = "logs.level"
)

// Default values for every known key.
var Default = map[string]any{
	PlaybackHWDec:    "auto-safe",
	PlaybackVolume:   100,
	PlaybackKeepOpen: true,

	SubtitlesFontSize:    32,
	SubtitlesColor:       "#FFFFFFFF",
	SubtitlesBorderColor: "#FF000000",
	SubtitlesBorderSize:  2.0,
	SubtitlesPosition:    95,

	LogsLevel: "info",
}

// EnvKeyReplacer maps nested keys to environment variable shape,
// e.g. playback.hwdec -> CLIPLAB_PLAYBACK_HWDEC.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup installs defaults and enables environment overrides. An optional
// config file in the working directory is honored when present.
func Setup() error {
	for name, value := range Default {
		viper.SetDefault(name, value)
	}

	viper.SetEnvPrefix("cliplab")
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	viper.AutomaticEnv()

	viper.SetConfigName("cliplab")
	viper.SetConfigType("toml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}
	return nil
}

// SubtitleStyle carries the rendered subtitle appearance handed to mpv.
type SubtitleStyle struct {
	FontSize    int
	Color       string
	BorderColor string
	BorderSize  float64
	Position    int
}

// Playback is the snapshot of options the engine reads at construction.
type Playback struct {
	HWDec    string
	Volume   int
	KeepOpen bool
	Subtitle SubtitleStyle
}

// LoadPlayback materializes the current viper state into a Playback.
// Volume is clamped to mpv's accepted 0-150 range.
func LoadPlayback() *Playback {
	return &Playback{
		HWDec:    viper.GetString(PlaybackHWDec),
		Volume:   lo.Clamp(viper.GetInt(PlaybackVolume), 0, 150),
		KeepOpen: viper.GetBool(PlaybackKeepOpen),
		Subtitle: SubtitleStyle{
			FontSize:    viper.GetInt(SubtitlesFontSize),
			Color:       viper.GetString(SubtitlesColor),
			BorderColor: viper.GetString(SubtitlesBorderColor),
			BorderSize:  viper.GetFloat64(SubtitlesBorderSize),
			Position:    viper.GetInt(SubtitlesPosition),
		},
	}
}
