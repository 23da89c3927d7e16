package imgproc

// SwapRedBlue converts RGBA bytes to BGRA (and back) into a new buffer.
// A trailing partial pixel is copied as is.
func SwapRedBlue(pix []byte) []byte {
	out := make([]byte, len(pix))
	copy(out, pix)
	for i := 0; i+3 < len(out); i += 4 {
		out[i], out[i+2] = out[i+2], out[i]
	}
	return out
}
