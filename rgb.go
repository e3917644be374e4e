package wfc

// RGB is a single opaque 8-bit-per-channel pixel; alpha is discarded on load.
type RGB [3]uint8

// Black is the zero pixel, used to initialize freshly allocated buffers.
var Black = RGB{0, 0, 0}
