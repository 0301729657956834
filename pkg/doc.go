// Package pkg provides the core libraries for stringart, a generator that
// approximates a photograph with a single thread wound around nails.
//
// # Overview
//
// The engine places nails on a circular or rectangular frame, then greedily
// picks the next nail whose straight line best matches what the target image
// still needs. The result is a plan (the ordered list of nails to visit)
// which can be rendered to PNG, JPEG or SVG at any output size.
//
// # Architecture
//
// The typical data flow:
//
//	Photo (png, jpeg, gif, bmp, tiff, webp)
//	         ↓
//	    [io] package (decode with size limits)
//	         ↓
//	    [preprocess] package (crop, resize, grayscale)
//	         ↓
//	    [nails] package (frame layout)
//	         ↓
//	    [optimize] package (greedy pull selection)
//	         ↓
//	    [plan] package (pull order + nails, JSON)
//	         ↓
//	    [render] package (PNG, JPEG, SVG)
//
// [pipeline] ties these stages together behind a [cache] so that repeated
// runs with the same photo and settings skip optimization entirely.
//
// # Quick Start
//
//	img, _, _ := io.ImportImage("portrait.jpg")
//
//	c, _ := cache.NewFileCache(dir)
//	runner := pipeline.NewRunner(c, nil, logger)
//
//	opts := pipeline.Options{Config: config.Default(), Formats: []string{"png", "json"}}
//	res, _ := runner.Execute(ctx, img, opts)
//
//	os.WriteFile("portrait.png", res.Artifacts["png"], 0o644)
//
// # Main Packages
//
// ## Engine
//
// [raster] - Integer points and row-major intensity fields in [0,1].
//
// [line] - Bresenham rasterization of a string between two nails.
//
// [nails] - Nail placement on circle and rectangle frames.
//
// [preprocess] - Square crop, resize and grayscale conversion of the input.
//
// [optimize] - The greedy solver. Scores candidate lines against the target,
// optionally in parallel, and stops after a pull budget or repeated failures.
//
// [render] - Replays a pull order onto a canvas or into an SVG document.
//
// ## Data
//
// [config] - The immutable run configuration and its TOML file format.
//
// [plan] - The serialized result of a run.
//
// [errors] - Coded errors shared by the CLI and the HTTP API.
//
// ## Infrastructure
//
// [pipeline] - Prepare, optimize and render with caching, used by the CLI and
// the API alike.
//
// [cache] - File, Redis and MongoDB backends keyed by content hashes.
//
// [io] - Image decoding and atomic artifact export.
//
// [httputil] - JSON responses and error mapping for the HTTP API.
//
// [observability] - Hooks for pipeline, cache and HTTP events.
//
// [buildinfo] - Version information injected at link time.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/optimize/...           # Specific package
//
// [raster]: https://pkg.go.dev/github.com/matzehuels/stringart/pkg/raster
// [line]: https://pkg.go.dev/github.com/matzehuels/stringart/pkg/line
// [nails]: https://pkg.go.dev/github.com/matzehuels/stringart/pkg/nails
// [preprocess]: https://pkg.go.dev/github.com/matzehuels/stringart/pkg/preprocess
// [optimize]: https://pkg.go.dev/github.com/matzehuels/stringart/pkg/optimize
// [render]: https://pkg.go.dev/github.com/matzehuels/stringart/pkg/render
// [config]: https://pkg.go.dev/github.com/matzehuels/stringart/pkg/config
// [plan]: https://pkg.go.dev/github.com/matzehuels/stringart/pkg/plan
// [errors]: https://pkg.go.dev/github.com/matzehuels/stringart/pkg/errors
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/stringart/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/stringart/pkg/cache
// [io]: https://pkg.go.dev/github.com/matzehuels/stringart/pkg/io
// [httputil]: https://pkg.go.dev/github.com/matzehuels/stringart/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/matzehuels/stringart/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/stringart/pkg/buildinfo
package pkg
