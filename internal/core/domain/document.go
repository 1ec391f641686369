package domain

// Document is one discovered input item. The body is carried unchanged
// from discovery to routing; validation never mutates it.
type Document struct {
	// ID is the stable identifier, the item's name at the source.
	ID string
	// Path is where the document was discovered.
	Path string
	// Content is the raw body as read at discovery time.
	Content []byte
	// ReadErr is set when the body could not be read; the document is
	// still routed (invalid) so it reaches a terminal state.
	ReadErr error
}

// Resource is a parsed clinical document body. Fields keeps the whole
// decoded object so rule checks can reach any element.
type Resource struct {
	Type   string
	Fields map[string]any
}
