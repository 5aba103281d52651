package native

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/blackjack/webcam"
	"github.com/disintegration/imaging"
)

const (
	pixFmtMJPEG webcam.PixelFormat = 'M' | 'J'<<8 | 'P'<<16 | 'G'<<24
	pixFmtYUYV  webcam.PixelFormat = 'Y' | 'U'<<8 | 'Y'<<16 | 'V'<<24
)

// DefaultCard is the V4L2 card name of the Raspberry Pi camera module driver.
const DefaultCard = "mmal service"

const sysfsDir = "/sys/class/video4linux"

var errNoModule = errors.New("no camera module found")

// Opts are options for acquiring the camera module.
type Opts struct {
	Enabled bool          // When false, Acquire returns an unavailable module.
	Device  string        // Device node. If empty, the node whose card name contains Card is used.
	Card    string        // Defaults to DefaultCard.
	Width   uint32        // Requested frame size, the driver may pick another.
	Height  uint32        // Requested frame height.
	Timeout time.Duration // How long to wait for a frame, defaults to 5s.
	Skip    int           // Frames dropped before the captured one, to let exposure settle.
}

// Webcam is a Camera reading frames straight from a V4L2 device.
type Webcam struct {
	cam     *webcam.Webcam
	format  webcam.PixelFormat
	width   int
	height  int
	timeout uint32
	skip    int
}

// Check that Webcam implements interface Camera.
var _ Camera = (*Webcam)(nil)

// OpenWebcam opens the camera module device and configures its frame format.
// It returns the camera and the device node it opened.
//
// Callers must call Close to clean up.
func OpenWebcam(opts Opts) (w *Webcam, path string, rerr error) {
	path = opts.Device
	if path == "" {
		card := opts.Card
		if card == "" {
			card = DefaultCard
		}
		var err error
		path, err = findByCard(sysfsDir, card)
		if err != nil {
			return nil, "", err
		}
	}

	cam, err := webcam.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("opening %s: %w", path, err)
	}

	// Ensure cleanup in case of failure.
	defer func() {
		if rerr != nil {
			cam.Close()
		}
	}()

	format, err := pickFormat(cam.GetSupportedFormats())
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	format, width, height, err := cam.SetImageFormat(format, opts.Width, opts.Height)
	if err != nil {
		return nil, "", fmt.Errorf("setting image format on %s: %w", path, err)
	}
	if err := cam.SetBufferCount(1); err != nil {
		return nil, "", fmt.Errorf("setting buffer count on %s: %w", path, err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	w = &Webcam{
		cam:     cam,
		format:  format,
		width:   int(width),
		height:  int(height),
		timeout: uint32((timeout + time.Second - 1) / time.Second),
		skip:    opts.Skip,
	}
	return w, path, nil
}

// CaptureTo streams until a frame arrives and writes it to path as JPEG.
func (w *Webcam) CaptureTo(path string) error {
	if err := w.cam.StartStreaming(); err != nil {
		return fmt.Errorf("starting stream: %w", err)
	}
	defer w.cam.StopStreaming()

	var frame []byte
	for i := 0; i <= w.skip; i++ {
		if err := w.cam.WaitForFrame(w.timeout); err != nil {
			return fmt.Errorf("waiting for frame: %w", err)
		}
		var err error
		frame, err = w.cam.ReadFrame()
		if err != nil {
			return fmt.Errorf("reading frame: %w", err)
		}
	}
	if len(frame) == 0 {
		return fmt.Errorf("empty frame")
	}

	if w.format == pixFmtMJPEG {
		return os.WriteFile(path, frame, 0o644)
	}
	img, err := yuyvToImage(frame, w.width, w.height)
	if err != nil {
		return err
	}
	return imaging.Save(img, path, imaging.JPEGQuality(90))
}

// Close closes the device.
func (w *Webcam) Close() error {
	return w.cam.Close()
}

// pickFormat prefers MJPEG, which needs no conversion, over YUYV.
func pickFormat(formats map[webcam.PixelFormat]string) (webcam.PixelFormat, error) {
	if _, ok := formats[pixFmtMJPEG]; ok {
		return pixFmtMJPEG, nil
	}
	if _, ok := formats[pixFmtYUYV]; ok {
		return pixFmtYUYV, nil
	}
	return 0, fmt.Errorf("no supported pixel format among %d formats", len(formats))
}

// findByCard returns the /dev node of the first video device, in name order,
// whose card name in sysfs contains card.
func findByCard(dir, card string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "video*", "name"))
	if err != nil {
		return "", err
	}
	sort.Strings(matches)
	for _, m := range matches {
		buf, err := os.ReadFile(m)
		if err != nil {
			continue
		}
		if strings.Contains(strings.TrimSpace(string(buf)), card) {
			return "/dev/" + filepath.Base(filepath.Dir(m)), nil
		}
	}
	return "", fmt.Errorf("%w with card name %q", errNoModule, card)
}

// yuyvToImage converts a packed YUYV 4:2:2 frame to an image.
func yuyvToImage(frame []byte, width, height int) (*image.YCbCr, error) {
	if width <= 0 || height <= 0 || width%2 != 0 {
		return nil, fmt.Errorf("bad yuyv frame size %dx%d", width, height)
	}
	if len(frame) < width*height*2 {
		return nil, fmt.Errorf("short yuyv frame, %d bytes for %dx%d", len(frame), width, height)
	}

	img := image.NewYCbCr(image.Rect(0, 0, width, height), image.YCbCrSubsampleRatio422)
	for y := 0; y < height; y++ {
		row := frame[y*width*2 : (y+1)*width*2]
		for x := 0; x < width; x += 2 {
			i := x * 2
			img.Y[y*img.YStride+x] = row[i]
			img.Cb[y*img.CStride+x/2] = row[i+1]
			img.Y[y*img.YStride+x+1] = row[i+2]
			img.Cr[y*img.CStride+x/2] = row[i+3]
		}
	}
	return img, nil
}
