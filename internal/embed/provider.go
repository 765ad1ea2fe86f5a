// Package embed provides the Provider capability interface that Index and
// Retrieve use as their embedding oracle, following the teacher's
// provider-as-interface shape so the core stays agnostic to which model
// backs it (local daemon, remote HTTP, or a test stub).
package embed

import "context"

// Mode specifies how a text should be embedded. Query and passage
// embeddings may use different instruction prefixes on an asymmetric
// model; contextvault embeds queries in Mode Query and entry title+body
// in Mode Passage.
type Mode string

const (
	ModeQuery   Mode = "query"
	ModePassage Mode = "passage"
)

// Dimensions is the fixed embedding width used throughout the index
// (D = 384 in the reference implementation).
const Dimensions = 384

// Provider converts text into fixed-dimension unit-length vectors. It is
// the sole mandatory suspension point in the core (spec.md §5); the rest
// of Index and Retrieve may run synchronously.
type Provider interface {
	// Embed converts texts into vectors, one per input, in the same order.
	Embed(ctx context.Context, texts []string, mode Mode) ([][]float32, error)

	// EmbedDimensions returns the dimensionality of vectors this provider
	// produces.
	EmbedDimensions() int

	// Close releases resources held by the provider (connections,
	// subprocesses). Safe to call once.
	Close() error
}
