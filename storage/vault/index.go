package vault

import "sync"

// nameIndex maps document ids to their current on-disk filenames.
//
// It is ephemeral by design: rebuilt in full from every directory scan
// and never persisted. A process that has not scanned yet simply has an
// empty index, and writes and deletes fall back to scanning. The vault
// owns its index instance; nothing else mutates it.
type nameIndex struct {
	mu   sync.RWMutex
	byID map[string]string
}

func newNameIndex() *nameIndex {
	return &nameIndex{byID: make(map[string]string)}
}

// get returns the filename for an id, if known.
func (n *nameIndex) get(id string) (string, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	name, ok := n.byID[id]
	return name, ok
}

// set records the current filename for an id.
func (n *nameIndex) set(id, name string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.byID[id] = name
}

// delete removes an id from the index.
func (n *nameIndex) delete(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.byID, id)
}

// deleteByFile removes whichever id currently maps to the given
// filename. Used when an external change reports only the filename.
func (n *nameIndex) deleteByFile(name string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for id, f := range n.byID {
		if f == name {
			delete(n.byID, id)
			return
		}
	}
}

// replaceAll swaps in a freshly scanned mapping.
func (n *nameIndex) replaceAll(byID map[string]string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.byID = byID
}

// clear empties the index.
func (n *nameIndex) clear() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.byID = make(map[string]string)
}
