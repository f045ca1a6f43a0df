package receipt

import (
	"bytes"
	"image"

	"github.com/skip2/go-qrcode"
)

// ESC/POS control bytes.
const (
	escByte byte = 0x1B
	gsByte  byte = 0x1D
	nlByte  byte = 0x0A
)

// EscposOptions carries the per-printer toggles the byte stream honors.
type EscposOptions struct {
	AutoCut    bool
	CashDrawer bool
	// QRContent, when non-empty, is rendered as a raster QR code in the
	// footer (typically the order id).
	QRContent string
}

// RenderEscpos converts a composed line sequence into a raw ESC/POS byte
// stream for direct spooling. The output is a pure function of its inputs:
// the same lines, layout and options always produce identical bytes.
func RenderEscpos(lines []Line, p Parameters, opts EscposOptions) []byte {
	w := escposWriter{}
	w.init()

	for _, line := range lines {
		if line.Role == RoleBlank {
			w.lineFeed()
			continue
		}
		style := StyleFor(line.Role, p)
		w.setSize(1, charHeight(style.FontSize, p))
		w.setEmphasize(style.Bold)
		w.buf.WriteString(line.Text)
		w.lineFeed()
	}
	w.setSize(1, 1)
	w.setEmphasize(false)

	if opts.QRContent != "" {
		w.lineFeed()
		w.setAlign(1)
		w.qrCode(opts.QRContent, p.PaperWidth)
		w.setAlign(0)
	}

	w.lineFeed()
	w.lineFeed()
	if opts.AutoCut {
		w.cut()
	} else {
		w.lineFeed()
	}
	if opts.CashDrawer {
		w.cashDrawer()
	}

	return w.buf.Bytes()
}

// charHeight maps the shared font tiers onto the printer's character height
// multiplier: the title tier prints double height, everything else single.
func charHeight(fontSize int, p Parameters) byte {
	if fontSize >= p.TitleFont {
		return 2
	}
	return 1
}

type escposWriter struct {
	buf bytes.Buffer
}

func (w *escposWriter) init() {
	w.buf.Write([]byte{escByte, '@'})
	// Code page 850 keeps accented Latin text printable alongside ASCII.
	w.buf.Write([]byte{escByte, 't', 2})
}

func (w *escposWriter) lineFeed() {
	w.buf.WriteByte(nlByte)
}

func (w *escposWriter) setAlign(a byte) {
	w.buf.Write([]byte{escByte, 'a', a})
}

func (w *escposWriter) setEmphasize(on bool) {
	var e byte
	if on {
		e = 1
	}
	w.buf.Write([]byte{escByte, 'E', e})
}

func (w *escposWriter) setSize(width, height byte) {
	size := ((width - 1) << 4) | (height - 1)
	w.buf.Write([]byte{gsByte, '!', size})
}

func (w *escposWriter) cut() {
	w.buf.Write([]byte{gsByte, 'V', 66, 0})
}

func (w *escposWriter) cashDrawer() {
	w.buf.Write([]byte{escByte, 'p', 0, 25, 250})
}

// qrCode renders content as a GS v 0 raster bitmap sized to the paper.
// 58mm paper fits 288 dots at 203 DPI, 80mm fits 384.
func (w *escposWriter) qrCode(content string, paperWidth int) {
	qr, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return
	}
	maxDots := 384
	if paperWidth <= 58 {
		maxDots = 288
	}
	size := 256
	if size > maxDots {
		size = maxDots
	}
	w.rasterImage(qr.Image(size))
	w.lineFeed()
}

// rasterImage writes a monochrome GS v 0 bitmap, 8 pixels per byte, dark
// pixels printed black.
func (w *escposWriter) rasterImage(img image.Image) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	widthBytes := (width + 7) / 8

	w.buf.Write([]byte{gsByte, 'v', '0', 0})
	w.buf.WriteByte(byte(widthBytes % 256))
	w.buf.WriteByte(byte(widthBytes / 256))
	w.buf.WriteByte(byte(height % 256))
	w.buf.WriteByte(byte(height / 256))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x += 8 {
			var b byte
			for bit := 0; bit < 8; bit++ {
				px := x + bit
				if px >= width {
					continue
				}
				r, g, bl, _ := img.At(bounds.Min.X+px, bounds.Min.Y+y).RGBA()
				gray := (299*(r>>8) + 587*(g>>8) + 114*(bl>>8)) / 1000
				if gray < 128 {
					b |= 1 << uint(7-bit)
				}
			}
			w.buf.WriteByte(b)
		}
	}
}
