// Package toolpath turns a raster into laser motion commands.
package toolpath

// Range is the machine power interval. Min is used for white pixels and Max
// for black ones. The bounds are not checked: Min > Max simply reverses the
// mapping.
type Range struct {
	Min, Max float64
}

// Power maps an intensity linearly onto the range, darker meaning more power.
func (r Range) Power(intensity uint8) float64 {
	return r.Min + float64(255-int(intensity))*(r.Max-r.Min)/255
}
