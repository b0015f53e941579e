package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/vault/errors"
)

///////////////////////////////////////////////////////
// From Items to Iterator

// collectBtree returns all btree items within the [start, end) range in
// ascending order. A nil boundary means no limit.
//
// Items are copied out so that the btree can be modified while the iterator
// is in use.
func collectBtree(bt *btree.BTree, start, end []byte) []keyer {
	var items []keyer
	insert := func(item btree.Item) bool {
		items = append(items, item.(keyer))
		return true
	}

	if start == nil && end == nil {
		bt.Ascend(insert)
	} else if start == nil { // end != nil
		bt.AscendLessThan(bkey{end}, insert)
	} else if end == nil { // start != nil
		bt.AscendGreaterOrEqual(bkey{start}, insert)
	} else { // both != nil
		bt.AscendRange(bkey{start}, bkey{end}, insert)
	}
	return items
}

// source marks where the current item comes from
type source int32

const (
	us source = iota
	parent
	both
	none
)

// itemIter combines btree items with the parent iterator, taking into
// consideration overwrites and deletes.
type itemIter struct {
	items []keyer
	// if we are iterating in a cache-wrap (and who isn't),
	// we need to combine this iterator with the parent
	parent  Iterator
	reverse bool

	// The parent iterator next item, read ahead.
	parentKey    []byte
	parentValue  []byte
	parentLoaded bool
	parentDone   bool
}

var _ Iterator = (*itemIter)(nil)

func newItemIter(items []keyer, parent Iterator, reverse bool) *itemIter {
	return &itemIter{
		items:   items,
		parent:  parent,
		reverse: reverse,
	}
}

// Next returns the next item from either this cache or the parent. Deleted
// items are skipped.
func (i *itemIter) Next() (key, value []byte, err error) {
	for {
		if err := i.loadParent(); err != nil {
			return nil, nil, err
		}

		switch i.firstKey() {
		case none:
			return nil, nil, errors.ErrIteratorDone
		case parent:
			key, value := i.parentKey, i.parentValue
			i.parentLoaded = false
			return key, value, nil
		case both:
			// Cached value overwrites the parent.
			i.parentLoaded = false
		}

		item := i.items[0]
		i.items = i.items[1:]
		if s, ok := item.(setItem); ok {
			return s.key, s.value, nil
		}
		// deletedItem, continue with the next one
	}
}

// loadParent reads ahead one item from the parent iterator, if needed.
func (i *itemIter) loadParent() error {
	if i.parentLoaded || i.parentDone {
		return nil
	}
	key, value, err := i.parent.Next()
	switch {
	case errors.ErrIteratorDone.Is(err):
		i.parentDone = true
	case err != nil:
		return err
	default:
		i.parentKey, i.parentValue = key, value
		i.parentLoaded = true
	}
	return nil
}

// firstKey selects the iterator with the lowest key is any
func (i *itemIter) firstKey() source {
	hasUs := len(i.items) > 0
	hasParent := i.parentLoaded

	// if only one or none is valid, it is clear which to use
	switch {
	case !hasUs && !hasParent:
		return none
	case !hasUs:
		return parent
	case !hasParent:
		return us
	}

	cmp := bytes.Compare(i.items[0].Key(), i.parentKey)
	if i.reverse {
		cmp = -cmp
	}
	switch {
	case cmp < 0:
		return us
	case cmp > 0:
		return parent
	default:
		return both
	}
}

// Release releases the Iterator.
func (i *itemIter) Release() {
	i.parent.Release()
	i.items = nil
}
