// Package io reads source images and writes rendered artifacts to disk.
//
// # Import
//
// Use [ImportImage] to decode an image file, or [ReadImage] to decode from
// any io.Reader:
//
//	img, format, err := io.ImportImage("portrait.jpg")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The decoders for PNG, JPEG and GIF come from the standard library; BMP,
// TIFF and WebP come from golang.org/x/image. The image header is inspected
// before the pixels are decoded, so oversized inputs are rejected without
// allocating their full buffers (see [MaxPixels]).
//
// Decode failures carry the INVALID_IMAGE error code and missing files
// FILE_NOT_FOUND, so the CLI and the HTTP API can report them uniformly.
//
// # Export
//
// Use [ExportFile] to write one artifact and [ExportArtifacts] to write a set
// of them next to each other:
//
//	paths := io.ArtifactPaths("out/portrait", []string{"png", "svg"}, pipeline.Extensions)
//	written, err := io.ExportArtifacts(result.Artifacts, paths)
//
// Files are written to a temporary sibling first and renamed into place, so a
// cancelled run never leaves a truncated artifact behind.
package io
