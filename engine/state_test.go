package engine

import (
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestPlaybackState(t *testing.T) {
	Convey("PlaybackState", t, func() {
		s := &PlaybackState{}

		Convey("Should start at zero and paused=false", func() {
			So(s.Position(), ShouldEqual, time.Duration(0))
			So(s.Duration(), ShouldEqual, time.Duration(0))
			So(s.Paused(), ShouldBeFalse)
		})

		Convey("Should round-trip the counters", func() {
			s.setPosition(90 * time.Second)
			s.setDuration(2 * time.Hour)
			s.setPaused(true)
			So(s.Position(), ShouldEqual, 90*time.Second)
			So(s.Duration(), ShouldEqual, 2*time.Hour)
			So(s.Paused(), ShouldBeTrue)
		})

		Convey("Should tolerate concurrent reads against a writer", func() {
			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < 1000; i++ {
					s.setPosition(time.Duration(i) * time.Millisecond)
					s.setPaused(i%2 == 0)
				}
			}()
			for i := 0; i < 1000; i++ {
				So(s.Position(), ShouldBeLessThanOrEqualTo, time.Second)
				_ = s.Paused()
			}
			wg.Wait()
		})
	})
}

func TestSecondsToDuration(t *testing.T) {
	Convey("secondsToDuration", t, func() {
		So(secondsToDuration(0), ShouldEqual, time.Duration(0))
		So(secondsToDuration(1.5), ShouldEqual, 1500*time.Millisecond)
		So(secondsToDuration(120.25), ShouldEqual, 120250*time.Millisecond)
	})
}

func TestFrameBuffer(t *testing.T) {
	Convey("FrameBuffer", t, func() {
		fb := newFrameBuffer(4, 3)

		Convey("Should size the backing store to width*height*4", func() {
			w, h := fb.Dimensions()
			So(w, ShouldEqual, 4)
			So(h, ShouldEqual, 3)
			So(len(fb.Snapshot(nil)), ShouldEqual, 4*3*4)
		})

		Convey("Snapshot should reuse a large enough dst", func() {
			dst := make([]byte, 4*3*4)
			out := fb.Snapshot(dst)
			So(&out[0], ShouldEqual, &dst[0])
		})

		Convey("fill should expose the pixels a later Snapshot sees", func() {
			err := fb.fill(func(pix []byte) error {
				for i := range pix {
					pix[i] = 0x7F
				}
				return nil
			})
			So(err, ShouldBeNil)
			pix := fb.Snapshot(nil)
			So(pix[0], ShouldEqual, byte(0x7F))
			So(pix[len(pix)-1], ShouldEqual, byte(0x7F))
		})

		Convey("Readers should never see a torn frame", func() {
			done := make(chan struct{})
			go func() {
				defer close(done)
				for i := 0; i < 200; i++ {
					v := byte(i)
					_ = fb.fill(func(pix []byte) error {
						for j := range pix {
							pix[j] = v
						}
						return nil
					})
				}
			}()
			torn := false
			for i := 0; i < 200 && !torn; i++ {
				pix := fb.Snapshot(nil)
				for _, b := range pix {
					if b != pix[0] {
						torn = true
						break
					}
				}
			}
			<-done
			So(torn, ShouldBeFalse)
		})
	})
}

func TestViewportSize(t *testing.T) {
	Convey("viewportSize", t, func() {
		Convey("Should take the configured share of the host bounds", func() {
			w, h := viewportSize(Bounds{Width: 1920, Height: 1080})
			So(w, ShouldEqual, 1459) // 1920 * 0.76
			So(h, ShouldEqual, 810)  // 1080 * 0.75
		})

		Convey("Should clamp degenerate bounds to one pixel", func() {
			w, h := viewportSize(Bounds{Width: 0, Height: 0})
			So(w, ShouldEqual, 1)
			So(h, ShouldEqual, 1)
		})
	})
}
