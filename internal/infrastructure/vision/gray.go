package vision

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// Grayscale переводит кадр в серый буфер с началом координат в (0,0).
// Серый считается до уменьшения: так дешевле, чем уменьшать цветной кадр.
func Grayscale(img image.Image) *image.Gray {
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))

	if rgba, ok := img.(*image.RGBA); ok {
		for y := 0; y < b.Dy(); y++ {
			src := rgba.Pix[rgba.PixOffset(b.Min.X, b.Min.Y+y):]
			dst := gray.Pix[y*gray.Stride : y*gray.Stride+b.Dx()]
			for x := range dst {
				p := src[x*4 : x*4+3 : x*4+3]
				r := uint32(p[0]) * 0x101
				g := uint32(p[1]) * 0x101
				bl := uint32(p[2]) * 0x101
				// те же коэффициенты, что у color.GrayModel
				dst[x] = uint8((19595*r + 38470*g + 7471*bl + 1<<15) >> 24)
			}
		}
		return gray
	}

	xdraw.Draw(gray, gray.Bounds(), img, b.Min, xdraw.Src)
	return gray
}

// Downsample уменьшает серый буфер ближайшим соседом до width x height
func Downsample(gray *image.Gray, width, height int) *image.Gray {
	b := gray.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return gray
	}

	dst := image.NewGray(image.Rect(0, 0, width, height))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), gray, b, xdraw.Src, nil)
	return dst
}
