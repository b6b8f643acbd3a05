package vision

import (
	"image"
	"image/color"
)

func flatGray(w, h int, v uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

// squareImage тёмный фон с одним светлым квадратом [x0,x1) x [y0,y1)
func squareImage(w, h, x0, y0, x1, y1 int) *image.Gray {
	img := flatGray(w, h, 0)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	return img
}

// dotsImage сетка одиночных светлых точек с шагом 10, начиная с (5,5)
func dotsImage(cols, rows int) (*image.Gray, int) {
	img := flatGray(cols*10, rows*10, 0)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			img.SetGray(5+c*10, 5+r*10, color.Gray{Y: 255})
		}
	}
	return img, cols * rows
}
