package chained

// node is a single link in a bucket's chain
type node struct {
	key  int
	next *node
}

// bucket is a singly linked chain of keys kept in arrival order. The tail
// pointer makes appending constant time.
type bucket struct {
	head *node
	tail *node
	size int
}

// search returns the 0-based position of key and the number of keys that
// were compared to find it (or to give up)
func (b *bucket) search(key int) (int, int, bool) {
	pos := 0
	for current := b.head; current != nil; current = current.next {
		if current.key == key {
			return pos, pos + 1, true
		}
		pos++
	}
	return -1, b.size, false
}

// insert appends key to the end of the chain. It returns the position the
// key was stored at, or false if the key is already chained here.
func (b *bucket) insert(key int) (int, bool) {
	if _, _, ok := b.search(key); ok {
		// already exists
		return -1, false
	}
	n := &node{key: key}
	if b.tail == nil {
		b.head = n
	} else {
		b.tail.next = n
	}
	b.tail = n
	b.size++
	return b.size - 1, true
}

// delete unlinks key from the chain, leaving everything else in order
func (b *bucket) delete(key int) bool {
	var previous *node
	for current := b.head; current != nil; current = current.next {
		if current.key != key {
			previous = current
			continue
		}
		if previous == nil {
			b.head = current.next
		} else {
			previous.next = current.next
		}
		if b.tail == current {
			b.tail = previous
		}
		b.size--
		return true
	}
	return false
}

// scan calls it for every key in chain order until it returns false
func (b *bucket) scan(it func(pos, key int) bool) {
	pos := 0
	for current := b.head; current != nil; current = current.next {
		if !it(pos, current.key) {
			return
		}
		pos++
	}
}

// keys returns the chain as a slice
func (b *bucket) keys() []int {
	keys := make([]int, 0, b.size)
	b.scan(func(_, key int) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}
