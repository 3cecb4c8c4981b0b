package graph

import (
	"fmt"
	"io"

	"github.com/zeebo/xxh3"
)

// Fingerprint hashes the ordered functions of an analysis: for each name in
// order, its location and body. Two runs over the same inputs produce the
// same fingerprint.
func Fingerprint(g *DependencyGraph, order []string) string {
	h := xxh3.New()
	for _, name := range order {
		n, ok := g.Node(name)
		if !ok {
			continue
		}
		io.WriteString(h, n.Name)
		h.Write([]byte{0})
		io.WriteString(h, n.Location)
		h.Write([]byte{0})
		io.WriteString(h, n.Body)
		h.Write([]byte{0xff})
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
