package capture

import (
	"fmt"
	"strconv"
	"time"
)

// Args are the capture-quality arguments passed to every external capture,
// plus the overlay applied when processing is asked for.
type Args struct {
	Resolution string // eg "1280x720"
	Delay      int    // Seconds to wait before taking the frame.
	Overlay    Overlay
}

// Overlay is the banner drawn over processed images.
type Overlay struct {
	BannerColour    string
	Font            string
	TimestampFormat string // Go time layout.
	TitleFormat     string // %s is replaced by the device path.
}

// DefaultArgs returns the arguments used when none are configured.
func DefaultArgs() Args {
	return Args{
		Resolution: "1280x720",
		Delay:      1,
		Overlay: Overlay{
			BannerColour:    "#FF000000",
			Font:            "sans:24",
			TimestampFormat: "2006-01-02 15:04:05",
			TitleFormat:     "Camera %s",
		},
	}
}

// commandArgs returns the arguments of one external capture of input of the
// device at path, written to out with a .jpg suffix. A negative input leaves
// input selection to the tool.
//
// Exactly one of the overlay and --no-banner is present.
func (a Args) commandArgs(path string, input int, processing bool, out string, now time.Time) []string {
	args := []string{"-d", path}
	if input >= 0 {
		args = append(args, "-i", strconv.Itoa(input))
	}
	args = append(args,
		"-r", a.Resolution,
		"-D", strconv.Itoa(a.Delay),
	)
	if processing {
		args = append(args,
			"--banner-colour", a.Overlay.BannerColour,
			"--font", a.Overlay.Font,
			"--timestamp", now.Format(a.Overlay.TimestampFormat),
			"--title", fmt.Sprintf(a.Overlay.TitleFormat, path),
		)
	} else {
		args = append(args, "--no-banner")
	}
	return append(args, out+".jpg")
}
