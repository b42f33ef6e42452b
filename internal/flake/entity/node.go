package entity

// Node is a registered generator, identified by the value packed into the
// identifier field of every id it issues.
type Node struct {
	Identifier uint64
	Issued     uint64
}
