package libmpv

import (
	"errors"
	"runtime"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestErrorCodes(t *testing.T) {
	Convey("Error codes", t, func() {
		Convey("errorFrom should map success to nil", func() {
			So(errorFrom(0), ShouldBeNil)
			So(errorFrom(5), ShouldBeNil)
		})

		Convey("errorFrom should map failures to typed errors", func() {
			err := errorFrom(-13)
			So(err, ShouldNotBeNil)
			var mpvErr Error
			So(errors.As(err, &mpvErr), ShouldBeTrue)
			So(mpvErr, ShouldEqual, ErrLoadingFailed)
			So(err.Error(), ShouldEqual, "loading failed")
		})

		Convey("Unknown codes should still produce a message", func() {
			So(Error(-99).Error(), ShouldEqual, "unknown mpv error -99")
		})

		Convey("Every defined code should carry a message", func() {
			for code := ErrGeneric; code <= ErrEventQueueFull; code++ {
				So(errorMessages[code], ShouldNotBeEmpty)
			}
		})
	})
}

func TestCandidatePaths(t *testing.T) {
	Convey("candidatePaths", t, func() {
		Convey("Should honor the override variable first", func() {
			t.Setenv("CLIPLAB_MPV_LIB", "/tmp/custom/libmpv.so")
			paths := candidatePaths()
			So(len(paths), ShouldBeGreaterThan, 1)
			So(paths[0], ShouldEqual, "/tmp/custom/libmpv.so")
		})

		Convey("Should offer platform defaults without the override", func() {
			t.Setenv("CLIPLAB_MPV_LIB", "")
			paths := candidatePaths()
			So(len(paths), ShouldBeGreaterThan, 0)

			switch runtime.GOOS {
			case "windows":
				So(paths, ShouldContain, "mpv-2.dll")
			case "darwin":
				So(paths, ShouldContain, "libmpv.2.dylib")
			default:
				So(paths, ShouldContain, "libmpv.so.2")
			}
		})
	})
}
