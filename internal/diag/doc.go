// Package diag defines the diagnostic model the expansion engine accumulates
// and renders.
//
// # Purpose
//
//   - Provide deterministic data structures for problems a generation routine
//     reports against source locations: Message, Note, Error.
//   - Offer the per-invocation accumulation sink (Emitter) that lets routines
//     report several problems without aborting the expansion.
//   - Render failure outcomes into synthetic token nodes the host compiler
//     displays as compile-time errors.
//
// # Data model
//
// Message is the central record: one reportable problem with a primary
// source.Span, human text, optional spanned Notes, and optional labeled
// attachments (error/warning/note/help) folded into the rendered text.
// Messages are immutable after construction; the With* helpers return copies.
//
// Error is a non-empty ordered collection of Messages representing one
// failure outcome. Join concatenates two Errors preserving relative order and
// never dropping or deduplicating messages. The only Error with zero messages
// is the conversion of Silent, which renders nothing.
//
// Emitter is a mutable, append-only sink owned by exactly one invocation.
// Emit never fails; IntoResult is the checkpoint that drains pending messages
// into an Error (or returns nil when empty). The Emitter stays usable after a
// checkpoint, so a routine may checkpoint several times.
//
// # Layering
//
// Package diag performs no IO and no terminal formatting. Human-readable and
// JSON presentation lives in internal/diagfmt; the dispatch logic that decides
// when diagnostics reach the output stream lives in internal/expand.
package diag
