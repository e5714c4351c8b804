// Package ocr reads the text inside labeled components using Tesseract.
//
// Each component's bounding box is cropped from the source image, padded
// by a few pixels and handed to Tesseract through gosseract/v2. Word
// boxes come back in source image coordinates so they can be matched
// against other components.
//
// # Prerequisites
//
// Tesseract and the data for each requested language must be installed:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// The default language is English ("eng").
package ocr
