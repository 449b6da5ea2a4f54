package timecode

import (
	"fmt"
	"math/big"
)

const (
	DefaultWidth        = 1920
	DefaultHeight       = 1080
	DefaultFrameRateNum = 24000
	DefaultFrameRateDen = 1001
)

// Format describes the frame size and exact frame rate of a project.
type Format struct {
	Width        int
	Height       int
	FrameRateNum int
	FrameRateDen int
}

// DefaultFormat is 1920x1080 at 23.976 fps.
func DefaultFormat() Format {
	return Format{
		Width:        DefaultWidth,
		Height:       DefaultHeight,
		FrameRateNum: DefaultFrameRateNum,
		FrameRateDen: DefaultFrameRateDen,
	}
}

func (f Format) FPS() float64 {
	if f.FrameRateDen == 0 {
		return 0
	}
	return float64(f.FrameRateNum) / float64(f.FrameRateDen)
}

// FrameDuration is the length of one frame in seconds.
func (f Format) FrameDuration() *big.Rat {
	return big.NewRat(int64(f.FrameRateDen), int64(f.FrameRateNum))
}

// Rate returns the frame rate as "num/den", the form ffmpeg's -r flag takes.
func (f Format) Rate() string {
	return fmt.Sprintf("%d/%d", f.FrameRateNum, f.FrameRateDen)
}

func (f Format) String() string {
	return fmt.Sprintf("%dx%d @ %d/%d (%.3f fps)", f.Width, f.Height, f.FrameRateNum, f.FrameRateDen, f.FPS())
}

// WithFrameDuration sets the frame rate from an FCPXML frameDuration such as
// "1001/24000s". The rate is the reduced inverse of the duration.
func (f Format) WithFrameDuration(text string) (Format, error) {
	d, err := Parse(text)
	if err != nil {
		return f, fmt.Errorf("frameDuration: %w", err)
	}
	if d.Sign() <= 0 || !d.Num().IsInt64() || !d.Denom().IsInt64() {
		return f, fmt.Errorf("invalid frameDuration %q", text)
	}
	f.FrameRateNum = int(d.Denom().Int64())
	f.FrameRateDen = int(d.Num().Int64())
	return f, nil
}

// Validate reports a format that cannot drive frame arithmetic.
func (f Format) Validate() error {
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("invalid frame size %dx%d", f.Width, f.Height)
	}
	if f.FrameRateNum <= 0 || f.FrameRateDen <= 0 {
		return fmt.Errorf("invalid frame rate %d/%d", f.FrameRateNum, f.FrameRateDen)
	}
	return nil
}
