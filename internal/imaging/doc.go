// Package imaging provides the pixel-level primitives the card pipeline is
// built from.
//
// It covers scene loading (with a thread-safe cache and EXIF
// auto-orientation), grayscale conversion, Gaussian smoothing, fixed and
// Otsu thresholding, grayscale crop and resize, and the overlay renderer that
// draws detected cards back onto a scene.
//
// # Coordinate System
//
// All coordinates are 0-based with (0,0) at the top-left, X increasing to
// the right and Y increasing downward. Rectangles follow image.Rectangle:
// Min is inclusive, Max is exclusive.
//
// # Masks
//
// Binary masks are *image.Gray values holding only 0 and 255. Functions that
// produce masks keep the bounds of their input; CropGray and ResizeGray return
// images whose Bounds().Min is (0,0).
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. Every other function is stateless
// and only reads its inputs, except Invert which modifies its argument in
// place.
package imaging
