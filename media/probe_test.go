package media

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestProbe(t *testing.T) {
	Convey("Probe", t, func() {
		Convey("Should fail on a nonexistent path", func() {
			info, err := Probe(filepath.Join(t.TempDir(), "missing.mp4"))
			So(err, ShouldNotBeNil)
			So(info, ShouldBeNil)
		})

		Convey("Should fail on a file with no video stream", func() {
			path := filepath.Join(t.TempDir(), "not-a-video.mp4")
			So(os.WriteFile(path, []byte("plain text"), 0o644), ShouldBeNil)
			info, err := Probe(path)
			So(err, ShouldNotBeNil)
			So(info, ShouldBeNil)
		})
	})
}
