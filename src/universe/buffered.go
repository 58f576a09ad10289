package universe

/*
	Generator with two buffers
	All cells state is calculated to the spare buffer which is then swapped with the current one,
	the replaced grid becomes the spare buffer for the next call, so there are no allocations in the steady state
*/
type bufferedGenerator struct {
	spare Grid
}

func newBufferedGenerator() *bufferedGenerator {
	return &bufferedGenerator{}
}

func (b *bufferedGenerator) next(cur Grid, rules RuleSet) (next Grid, live int, changed bool) {
	//the world was resized or loaded since the last call
	if b.spare.Size != cur.Size {
		b.spare = NewGrid(cur.Size)
	}
	next = b.spare
	live, changed = calcRows(cur, next, rules, 0, cur.Size)
	b.spare = cur
	return
}
