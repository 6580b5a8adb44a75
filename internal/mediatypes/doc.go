// Package mediatypes provides shared type definitions and utilities for media
// file classification across the gallery generator.
//
// This package exists as a dependency-free foundation that can be imported by
// other packages without creating import cycles. It contains primitive types,
// constants, and pure utility functions with no external dependencies beyond
// the standard library.
//
// # File Types
//
// The package defines a FileType enum for categorizing entries:
//
//	mediatypes.FileTypeFolder // Directories
//	mediatypes.FileTypeImage  // Supported image formats (jpg, png, gif, webp, bmp)
//	mediatypes.FileTypeVideo  // Supported video formats (mp4, mov, webm, ogg, mkv)
//	mediatypes.FileTypeOther  // Unrecognized or unsupported files
//
// # Extension Detection
//
// Use GetFileType to determine the type of a file based on its extension.
// Matching is case-insensitive as long as the caller lowercases the extension
// first:
//
//	ext := strings.ToLower(filepath.Ext(filename))
//	fileType := mediatypes.GetFileType(ext)
//
// Files whose extension maps to FileTypeOther are not part of the gallery and
// are skipped by the tree builder without a warning.
//
// # MIME Types
//
// Use GetMimeType to get the appropriate MIME type for HTTP responses from
// the preview server:
//
//	ext := strings.ToLower(filepath.Ext(filename))
//	mimeType := mediatypes.GetMimeType(ext) // e.g., "image/jpeg"
package mediatypes
