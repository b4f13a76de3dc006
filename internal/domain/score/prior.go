package score

// Prior is an immutable view of the results completed earlier in the
// pipeline. Engines scheduled later are never visible.
type Prior struct {
	results map[EngineID]Result
}

// NewPrior builds a view from completed results. The results are copied.
func NewPrior(results ...Result) Prior {
	p := Prior{results: make(map[EngineID]Result, len(results))}
	for _, r := range results {
		p.results[r.Engine] = r.Clone()
	}
	return p
}

// Get returns a copy of the stored result for id.
func (p Prior) Get(id EngineID) (Result, bool) {
	r, ok := p.results[id]
	if !ok {
		return Result{}, false
	}
	return r.Clone(), true
}

// Synthesis returns the stored synthesis for id.
func (p Prior) Synthesis(id EngineID) (Synthesis, bool) {
	r, ok := p.results[id]
	return r.Synthesis, ok
}

// Has reports whether id already completed.
func (p Prior) Has(id EngineID) bool {
	_, ok := p.results[id]
	return ok
}

// Len is the number of completed engines.
func (p Prior) Len() int {
	return len(p.results)
}
