// Package optimize chooses the order in which a single string is wound
// around the nails so that the accumulated strokes approximate a target
// image.
//
// # Algorithm
//
// The search is greedy. Starting at nail 0 with a blank working canvas, every
// iteration:
//
//  1. stops if the pull budget is spent or three iterations in a row failed
//  2. draws the candidate nails (a seeded random subset, or every nail)
//  3. scores each candidate by the squared-error reduction its line would
//     achieve if stroked onto the canvas
//  4. rejects the iteration when the best score is not positive, leaving the
//     canvas and pull order untouched
//  5. otherwise appends the winner, strokes its line for real and moves there
//
// Ties go to the candidate enumerated last. Every nail, including the current
// one, is a candidate; a line from a nail to itself covers a single pixel.
//
// # Canvas ownership
//
// The working canvas belongs to [Optimizer.Run] for the whole run. Candidate
// scoring only reads it, so scoring may fan out across [Options.Workers]
// goroutines; the winner is reduced sequentially in candidate order and the
// stroke is applied after all workers finished. Results do not depend on the
// number of workers.
//
// # Reproducibility
//
// Candidate subsampling draws from a PCG generator seeded with
// [Options.Seed], so a given target, nail set and options always produce the
// same pull order.
//
// # Cancellation
//
// Run checks its context between iterations. A cancelled run returns the
// partial result together with the context error.
package optimize
