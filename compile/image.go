package compile

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/zplgrid/zplgrid/layout"
	"github.com/zplgrid/zplgrid/template"
	"github.com/zplgrid/zplgrid/zpl"
)

func emitImage(z *zpl.Builder, el template.ImageElement, box layout.Rect, path string, dpi int) error {
	if box.W <= 0 || box.H <= 0 {
		return nil
	}

	raw, err := loadImageBytes(el.Source.Kind, el.Source.Data)
	if err != nil {
		return &template.UnsupportedError{Path: path, Message: err.Error()}
	}
	if len(raw) == 0 {
		return &template.UnsupportedError{Path: path, Message: "image source data is empty"}
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return &template.UnsupportedError{Path: path, Message: fmt.Sprintf("failed to decode image: %v", err)}
	}

	fit := el.Fit
	if fit == "" {
		fit = template.ImageFitContain
	}
	alignH := el.AlignH
	if alignH == "" {
		alignH = template.AlignHCenter
	}
	alignV := el.AlignV
	if alignV == "" {
		alignV = template.AlignVCenter
	}
	threshold := el.Threshold
	if threshold == 0 {
		threshold = 128
	}
	dither := el.Dither
	if dither == "" {
		dither = template.DitherNone
	}

	target, sizeW, sizeH := prepareImage(img, box.W, box.H, fit, el.InputDPI, dpi)
	if sizeW <= 0 || sizeH <= 0 {
		return nil
	}

	var x, y int
	if fit == template.ImageFitCover {
		x, y = box.X, box.Y
	} else {
		x, y = alignInRect(box, sizeW, sizeH, alignH, alignV)
	}

	data, bytesPerRow, totalBytes := imageToGFA(target, el.Invert, threshold, dither)
	z.FieldOrigin(x, y)
	z.GraphicField(totalBytes, bytesPerRow, data)
	z.FieldSeparator()
	return nil
}

func loadImageBytes(kind template.ImageSourceKind, data string) ([]byte, error) {
	switch kind {
	case template.ImageSourceBase64:
		payload := strings.TrimSpace(data)
		if idx := strings.Index(payload, ","); strings.HasPrefix(payload, "data:") && idx >= 0 {
			payload = payload[idx+1:]
		}
		decoded, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64 image data: %w", err)
		}
		return decoded, nil
	case template.ImageSourceURL:
		if !envFlagEnabled("ZPLGRID_ENABLE_IMAGE_URL") {
			return nil, fmt.Errorf("image url fetching is disabled (set ZPLGRID_ENABLE_IMAGE_URL=1 to enable)")
		}
		url := strings.TrimSpace(data)
		lower := strings.ToLower(url)
		if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
			return nil, fmt.Errorf("image url must start with http:// or https://")
		}
		timeout := envFloatSeconds("ZPLGRID_IMAGE_URL_TIMEOUT_S", 5.0)
		client := &http.Client{Timeout: time.Duration(timeout * float64(time.Second))}
		resp, err := client.Get(url)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch image url: %w", err)
		}
		defer resp.Body.Close()
		maxBytes := envInt("ZPLGRID_IMAGE_MAX_BYTES", 5_000_000)
		limited := resp.Body
		buf := make([]byte, 0, 4096)
		chunk := make([]byte, 4096)
		for {
			n, rerr := limited.Read(chunk)
			if n > 0 {
				buf = append(buf, chunk[:n]...)
				if maxBytes > 0 && len(buf) > maxBytes {
					return nil, fmt.Errorf("image exceeds max size (%d bytes > %d bytes)", len(buf), maxBytes)
				}
			}
			if rerr != nil {
				break
			}
		}
		return buf, nil
	default:
		return nil, fmt.Errorf("unsupported image source kind: %q", kind)
	}
}

func envFlagEnabled(name string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(name)))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}

func envFloatSeconds(name string, def float64) float64 {
	raw := os.Getenv(name)
	if raw == "" {
		return def
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return def
}

func envInt(name string, def int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return def
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	return def
}

// prepareImage scales the decoded image to its final render size per the
// element's fit policy, returning the scaled image and its final dot size.
func prepareImage(img image.Image, rectW, rectH int, fit template.ImageFit, inputDPI, targetDPI int) (image.Image, int, int) {
	if rectW <= 0 || rectH <= 0 {
		return img, 0, 0
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return img, 0, 0
	}

	switch fit {
	case template.ImageFitNone:
		if inputDPI > 0 {
			scale := float64(targetDPI) / float64(inputDPI)
			nw := maxInt(1, roundF(float64(w)*scale))
			nh := maxInt(1, roundF(float64(h)*scale))
			if nw != w || nh != h {
				img = resizeNearest(img, nw, nh)
			}
			return img, nw, nh
		}
		return img, w, h

	case template.ImageFitStretch:
		if w != rectW || h != rectH {
			img = resizeNearest(img, rectW, rectH)
		}
		return img, rectW, rectH

	case template.ImageFitCover:
		scale := maxF(float64(rectW)/float64(w), float64(rectH)/float64(h))
		tw := maxInt(1, roundF(float64(w)*scale))
		th := maxInt(1, roundF(float64(h)*scale))
		if tw != w || th != h {
			img = resizeNearest(img, tw, th)
		}
		left := maxInt(0, (tw-rectW)/2)
		top := maxInt(0, (th-rectH)/2)
		img = cropImage(img, left, top, rectW, rectH)
		return img, rectW, rectH

	default: // contain
		scale := minF(float64(rectW)/float64(w), float64(rectH)/float64(h))
		tw := maxInt(1, roundF(float64(w)*scale))
		th := maxInt(1, roundF(float64(h)*scale))
		if tw != w || th != h {
			img = resizeNearest(img, tw, th)
		}
		return img, tw, th
	}
}

func resizeNearest(img image.Image, w, h int) image.Image {
	src := img.Bounds()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	sw, sh := src.Dx(), src.Dy()
	for y := 0; y < h; y++ {
		sy := src.Min.Y + y*sh/h
		for x := 0; x < w; x++ {
			sx := src.Min.X + x*sw/w
			dst.Set(x, y, img.At(sx, sy))
		}
	}
	return dst
}

func cropImage(img image.Image, left, top, w, h int) image.Image {
	src := img.Bounds()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.Set(x, y, img.At(src.Min.X+left+x, src.Min.Y+top+y))
		}
	}
	return dst
}

func roundF(f float64) int {
	if f >= 0 {
		return int(f + 0.5)
	}
	return int(f - 0.5)
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

var bayerMatrix = [4][4]int{
	{0, 8, 2, 10},
	{12, 4, 14, 6},
	{3, 11, 1, 9},
	{15, 7, 13, 5},
}

// imageToGFA packs img into a 1-bit ZPL graphic field, MSB-first per row,
// rows padded to a whole byte.
func imageToGFA(img image.Image, invert bool, threshold int, dither template.ImageDither) (hexData string, bytesPerRow, totalBytes int) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	bytesPerRow = (w + 7) / 8

	blackAt := blackMask(img, threshold, dither)

	var out strings.Builder
	for y := 0; y < h; y++ {
		var b byte
		bit := 7
		for x := 0; x < w; x++ {
			isBlack := blackAt[y][x]
			if invert {
				isBlack = !isBlack
			}
			if isBlack {
				b |= 1 << uint(bit)
			}
			bit--
			if bit < 0 {
				out.WriteString(fmt.Sprintf("%02X", b))
				totalBytes++
				b = 0
				bit = 7
			}
		}
		if bit != 7 {
			out.WriteString(fmt.Sprintf("%02X", b))
			totalBytes++
		}
	}
	return out.String(), bytesPerRow, totalBytes
}

// blackMask returns a per-pixel black/white decision grid, applying the
// requested halftoning method.
func blackMask(img image.Image, threshold int, dither template.ImageDither) [][]bool {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	mask := make([][]bool, h)
	for y := range mask {
		mask[y] = make([]bool, w)
	}

	if dither == template.DitherFloydSteinberg {
		gray := make([][]float64, h)
		for y := 0; y < h; y++ {
			gray[y] = make([]float64, w)
			for x := 0; x < w; x++ {
				gray[y][x] = float64(grayAt(img, bounds.Min.X+x, bounds.Min.Y+y))
			}
		}
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				old := gray[y][x]
				var newVal float64
				if old < float64(threshold) {
					newVal = 0
					mask[y][x] = true
				} else {
					newVal = 255
				}
				err := old - newVal
				if x+1 < w {
					gray[y][x+1] += err * 7 / 16
				}
				if y+1 < h {
					if x > 0 {
						gray[y+1][x-1] += err * 3 / 16
					}
					gray[y+1][x] += err * 5 / 16
					if x+1 < w {
						gray[y+1][x+1] += err * 1 / 16
					}
				}
			}
		}
		return mask
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			gray := grayAt(img, bounds.Min.X+x, bounds.Min.Y+y)
			if dither == template.DitherBayer {
				offset := threshold - 128
				t := (bayerMatrix[y%4][x%4] + 0) * 16
				mask[y][x] = (gray + offset) < t
			} else {
				mask[y][x] = gray < threshold
			}
		}
	}
	return mask
}

func grayAt(img image.Image, x, y int) int {
	r, g, b, _ := img.At(x, y).RGBA()
	// luma approximation in 16-bit channel space, scaled back to 8-bit.
	y16 := (299*r + 587*g + 114*b) / 1000
	return int(y16 >> 8)
}
