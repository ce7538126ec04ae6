package text

// Ratio measures the similarity of two strings as 2*M/T, where M is the
// number of characters covered by the longest matching blocks and T is the
// combined length. Two empty strings score 1. The result is in [0, 1].
//
// This mirrors Python's difflib.SequenceMatcher.ratio(), which the scoring
// backend has always used, minus the popularity heuristic (sentences here are
// short enough that it never triggers).
func Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}

	m := newMatcher(ra, rb)
	matches := 0
	for _, block := range m.matchingBlocks() {
		matches += block.size
	}
	return 2.0 * float64(matches) / float64(total)
}

type matchBlock struct {
	a, b, size int
}

type matcher struct {
	a, b []rune
	b2j  map[rune][]int
}

func newMatcher(a, b []rune) *matcher {
	m := &matcher{a: a, b: b, b2j: make(map[rune][]int, len(b))}
	for j, c := range b {
		m.b2j[c] = append(m.b2j[c], j)
	}
	return m
}

// longestMatch finds the longest block of matching runes in
// a[alo:ahi] x b[blo:bhi].
func (m *matcher) longestMatch(alo, ahi, blo, bhi int) matchBlock {
	besti, bestj, bestsize := alo, blo, 0
	j2len := make(map[int]int)

	for i := alo; i < ahi; i++ {
		newj2len := make(map[int]int)
		for _, j := range m.b2j[m.a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}

	return matchBlock{a: besti, b: bestj, size: bestsize}
}

// matchingBlocks recursively splits around each longest match. Block order
// is irrelevant for Ratio, so no final sort is done.
func (m *matcher) matchingBlocks() []matchBlock {
	type span struct {
		alo, ahi, blo, bhi int
	}

	queue := []span{{0, len(m.a), 0, len(m.b)}}
	var blocks []matchBlock

	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		block := m.longestMatch(s.alo, s.ahi, s.blo, s.bhi)
		if block.size == 0 {
			continue
		}
		blocks = append(blocks, block)

		if s.alo < block.a && s.blo < block.b {
			queue = append(queue, span{s.alo, block.a, s.blo, block.b})
		}
		if block.a+block.size < s.ahi && block.b+block.size < s.bhi {
			queue = append(queue, span{block.a + block.size, s.ahi, block.b + block.size, s.bhi})
		}
	}

	return blocks
}
