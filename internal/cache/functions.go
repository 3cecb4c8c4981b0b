// Package cache holds the per-run function cache: every function definition
// discovered across the scanned files, keyed by bare name.
//
// The cache is write-once per key. The first definition of a name wins and
// later ones are discarded, so feeding files in a fixed order makes the
// contents reproducible. A FunctionCache is built once per analysis run and
// is not safe for concurrent use.
package cache

// FunctionRecord is a stored function definition.
type FunctionRecord struct {
	Name     string `json:"name"`
	Location string `json:"location"` // source path the definition came from
	Body     string `json:"body"`
}

// FunctionCache maps function names to their first-seen definition.
type FunctionCache struct {
	records        map[string]FunctionRecord
	order          []string // names in insertion order
	filesProcessed int
}

// NewFunctionCache creates an empty cache.
func NewFunctionCache() *FunctionCache {
	return &FunctionCache{
		records: make(map[string]FunctionRecord),
	}
}

// Add stores a definition for name unless one is already present.
// It reports whether the record was stored.
func (c *FunctionCache) Add(name, location, body string) bool {
	if _, exists := c.records[name]; exists {
		return false
	}
	c.records[name] = FunctionRecord{Name: name, Location: location, Body: body}
	c.order = append(c.order, name)
	return true
}

// Get returns the definition stored for name.
func (c *FunctionCache) Get(name string) (FunctionRecord, bool) {
	rec, ok := c.records[name]
	return rec, ok
}

// Has reports whether name has a stored definition.
func (c *FunctionCache) Has(name string) bool {
	_, ok := c.records[name]
	return ok
}

// MarkFileProcessed counts one more file whose contents were extracted.
func (c *FunctionCache) MarkFileProcessed() {
	c.filesProcessed++
}

// FilesProcessed returns the number of files extracted into the cache.
func (c *FunctionCache) FilesProcessed() int {
	return c.filesProcessed
}

// FunctionsFound returns the number of distinct names stored.
func (c *FunctionCache) FunctionsFound() int {
	return len(c.order)
}

// Names returns the stored names in the order they were first added.
func (c *FunctionCache) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}
