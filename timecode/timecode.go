// Package timecode converts FCPXML rational time strings into exact seconds and
// frame counts.
package timecode

import (
	"fmt"
	"math/big"
	"strings"
)

// Parse reads an FCPXML time value such as "3600/2400s", "10s" or "1.5".
// A trailing "s" unit is stripped. Empty input yields zero.
func Parse(text string) (*big.Rat, error) {
	s := strings.TrimSpace(text)
	s = strings.TrimRight(s, "s")
	s = strings.TrimSpace(s)
	if s == "" {
		return new(big.Rat), nil
	}

	if num, den, ok := strings.Cut(s, "/"); ok {
		n, okN := new(big.Int).SetString(strings.TrimSpace(num), 10)
		d, okD := new(big.Int).SetString(strings.TrimSpace(den), 10)
		if !okN || !okD {
			return nil, fmt.Errorf("invalid rational time %q", text)
		}
		if d.Sign() == 0 {
			return nil, fmt.Errorf("invalid rational time %q: zero denominator", text)
		}
		return new(big.Rat).SetFrac(n, d), nil
	}

	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("invalid time value %q", text)
	}
	return r, nil
}

// MustParse is Parse for literals known to be valid. It panics on error.
func MustParse(text string) *big.Rat {
	r, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return r
}

// FrameCount returns floor(seconds * num / den). Sub-frame remainders are
// dropped, never rounded.
func FrameCount(seconds *big.Rat, f Format) int {
	if seconds == nil {
		return 0
	}
	r := new(big.Rat).Mul(seconds, big.NewRat(int64(f.FrameRateNum), int64(f.FrameRateDen)))
	q := new(big.Int)
	m := new(big.Int)
	// Euclidean division keeps floor semantics for negative inputs.
	q.DivMod(r.Num(), r.Denom(), m)
	return int(q.Int64())
}

// Seconds converts a frame count back to exact seconds.
func Seconds(frames int, f Format) *big.Rat {
	return new(big.Rat).SetFrac(
		big.NewInt(int64(frames)*int64(f.FrameRateDen)),
		big.NewInt(int64(f.FrameRateNum)),
	)
}

// Timecode renders a frame count as HH:MM:SS.mmm. Milliseconds are rounded
// half up on the exact value.
func Timecode(frames int, f Format) string {
	sign := ""
	if frames < 0 {
		sign = "-"
		frames = -frames
	}
	ms := new(big.Rat).Mul(Seconds(frames, f), big.NewRat(1000, 1))
	ms.Add(ms, big.NewRat(1, 2))
	total := new(big.Int).Quo(ms.Num(), ms.Denom()).Int64()

	millis := total % 1000
	secs := (total / 1000) % 60
	mins := (total / 60000) % 60
	hours := total / 3600000
	return fmt.Sprintf("%s%02d:%02d:%02d.%03d", sign, hours, mins, secs, millis)
}

// Float returns a float64 approximation for display only.
func Float(r *big.Rat) float64 {
	if r == nil {
		return 0
	}
	f, _ := r.Float64()
	return f
}
