package source

// FileID identifies the input a tree was parsed from. It is assigned by the
// external loader and only carried through spans.
type FileID uint32
