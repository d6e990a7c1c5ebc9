package extract

//go:generate go tool go-enum

// Side of the record relative to the aligned region.
// ENUM(left, right)
type Side int
