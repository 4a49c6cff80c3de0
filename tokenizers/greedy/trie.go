package greedy

// byteTrie is a byte-indexed trie over vocabulary token byte sequences.
//
// Nodes live in a single slice that acts as the arena: children are stored as
// indices into that slice, so growing it with append never invalidates a
// reference already handed out. Node 0 is the root and is never a child, which
// lets 0 double as the "no child" marker.
type byteTrie struct {
	nodes []trieNode
}

type trieNode struct {
	// id of the vocabulary token ending at this node, or -1 when the node is
	// not terminal.
	id       int32
	children [256]int32
}

const noMatch = -1

// newByteTrie creates a trie with capacity for sizeHint nodes pre-reserved.
func newByteTrie(sizeHint int) *byteTrie {
	if sizeHint < 1 {
		sizeHint = 1
	}
	t := &byteTrie{nodes: make([]trieNode, 1, sizeHint)}
	t.nodes[0].id = noMatch
	return t
}

func (t *byteTrie) alloc() int32 {
	t.nodes = append(t.nodes, trieNode{id: noMatch})
	return int32(len(t.nodes) - 1)
}

// insert adds token as a path from the root whose terminal node carries id.
// Inserting the same token twice overwrites the id.
func (t *byteTrie) insert(token string, id int) {
	cur := int32(0)
	for i := 0; i < len(token); i++ {
		b := token[i]
		next := t.nodes[cur].children[b]
		if next == 0 {
			next = t.alloc()
			t.nodes[cur].children[b] = next
		}
		cur = next
	}
	t.nodes[cur].id = int32(id)
}

// walkPrefix advances the cursor from node through every byte of prefix.
// It returns the reached node and true, or 0 and false if the path does not
// exist in the trie.
func (t *byteTrie) walkPrefix(node int32, prefix string) (int32, bool) {
	for i := 0; i < len(prefix); i++ {
		node = t.nodes[node].children[prefix[i]]
		if node == 0 {
			return 0, false
		}
	}
	return node, true
}

// byteSeq admits the two byte-addressable views the segmenter works with: the
// pre-split fragments (strings) and the reusable Metaspace working buffer.
type byteSeq interface {
	~string | ~[]byte
}

// matchLongestFrom walks the trie from the given node against buf[start:],
// remembering the last terminal hit. It returns the terminal's id and the
// number of input bytes consumed, or (noMatch, 0) if no prefix of length >= 1
// ends at a terminal. Matching is purely byte-wise.
func matchLongestFrom[T byteSeq](t *byteTrie, node int32, buf T, start int) (id, length int) {
	id, length = noMatch, 0
	cur := node
	for i := start; i < len(buf); i++ {
		cur = t.nodes[cur].children[buf[i]]
		if cur == 0 {
			break
		}
		if tid := t.nodes[cur].id; tid != noMatch {
			id = int(tid)
			length = i - start + 1
		}
	}
	return
}

// matchLongest is matchLongestFrom starting at the root.
func matchLongest[T byteSeq](t *byteTrie, buf T, start int) (id, length int) {
	return matchLongestFrom(t, 0, buf, start)
}

// size returns the number of allocated nodes, root included.
func (t *byteTrie) size() int {
	return len(t.nodes)
}
