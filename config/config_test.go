package config

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		Convey("Should initialize without error", func() {
			So(Setup(), ShouldBeNil)
		})

		Convey("Should have default values populated", func() {
			_ = Setup()
			for name := range Default {
				So(viper.Get(name), ShouldNotBeNil)
			}
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			So(EnvKeyReplacer.Replace("playback.keep_open"), ShouldEqual, "playback_keep_open")
		})
	})
}

func TestLoadPlayback(t *testing.T) {
	Convey("LoadPlayback", t, func() {
		So(Setup(), ShouldBeNil)

		Convey("Should materialize the defaults", func() {
			p := LoadPlayback()
			So(p.HWDec, ShouldEqual, "auto-safe")
			So(p.Volume, ShouldEqual, 100)
			So(p.KeepOpen, ShouldBeTrue)
			So(p.Subtitle.FontSize, ShouldEqual, 32)
			So(p.Subtitle.Position, ShouldEqual, 95)
		})

		Convey("Should clamp out-of-range volume", func() {
			viper.Set(PlaybackVolume, 500)
			defer viper.Set(PlaybackVolume, Default[PlaybackVolume])
			So(LoadPlayback().Volume, ShouldEqual, 150)

			viper.Set(PlaybackVolume, -10)
			So(LoadPlayback().Volume, ShouldEqual, 0)
		})
	})
}
