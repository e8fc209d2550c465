package importer

import "errors"

// ErrImageDecode is returned when an uploaded file cannot be decoded as an image.
var ErrImageDecode = errors.New("image could not be decoded")

// ErrOCRFailed hides the engine's internal error behind one user-facing message.
var ErrOCRFailed = errors.New("failed to extract text from image; try a clearer image")
