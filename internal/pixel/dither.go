package pixel

// FloydSteinberg binarises a grayscale buffer by error diffusion. Each pixel
// starts as an accumulator of 64·(luma/255 − 0.5); pixels are visited row by
// row, left to right, and the quantisation error is pushed to the unvisited
// neighbours with weights 7/16, 3/16, 5/16 and 1/16. Integer division
// truncates toward zero.
func FloydSteinberg(src *RGB) *Bilevel {
	w, h := src.Width, src.Height
	out := NewBilevel(w, h)

	acc := make([]int, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b := src.At(x, y)
			lum := (float64(r)*0.299 + float64(g)*0.587 + float64(b)*0.114) / 255
			acc[y*w+x] = int(64 * (lum - 0.5))
		}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := acc[y*w+x]
			light := v > 0
			out.Set(x, y, !light)

			level := -32
			if light {
				level = 32
			}
			e := v - level

			if x < w-1 {
				acc[y*w+x+1] += 7 * e / 16
			}
			if y < h-1 {
				below := (y + 1) * w
				if x > 0 {
					acc[below+x-1] += 3 * e / 16
				}
				acc[below+x] += 5 * e / 16
				if x < w-1 {
					acc[below+x+1] += e / 16
				}
			}
		}
	}

	return out
}
