package fake

import "go.entwine.ch/weblounge/store/kv"

// InMemoryDB is a fake implementation of a key/value database keeping its
// buckets in memory.
//
// - implements kv.DB
type InMemoryDB struct {
	buckets map[string]*Bucket
	ErrView error
}

// NewInMemoryDB creates a new empty database.
func NewInMemoryDB() *InMemoryDB {
	return &InMemoryDB{
		buckets: make(map[string]*Bucket),
	}
}

// NewBadViewDB creates a database failing on read transactions.
func NewBadViewDB() *InMemoryDB {
	db := NewInMemoryDB()
	db.ErrView = fakeErr
	return db
}

// View implements kv.DB.
func (db *InMemoryDB) View(bucket []byte, fn func(kv.Bucket) error) error {
	if db.ErrView != nil {
		return db.ErrView
	}

	b, found := db.buckets[string(bucket)]
	if !found {
		return kv.ErrBucketNotFound
	}

	return fn(b)
}

// Update implements kv.DB.
func (db *InMemoryDB) Update(bucket []byte, fn func(kv.Bucket) error) error {
	b, found := db.buckets[string(bucket)]
	if !found {
		b = &Bucket{values: make(map[string][]byte)}
		db.buckets[string(bucket)] = b
	}

	return fn(b)
}

// Close implements kv.DB.
func (db *InMemoryDB) Close() error {
	return nil
}

// Bucket is a fake implementation of a database bucket. It can be set up to
// return errors on writes.
//
// - implements kv.Bucket
type Bucket struct {
	values   map[string][]byte
	ErrWrite error
}

// Get implements kv.Bucket.
func (b *Bucket) Get(key []byte) []byte {
	return b.values[string(key)]
}

// Set implements kv.Bucket.
func (b *Bucket) Set(key, value []byte) error {
	b.values[string(key)] = value

	return b.ErrWrite
}

// Delete implements kv.Bucket.
func (b *Bucket) Delete(key []byte) error {
	delete(b.values, string(key))

	return b.ErrWrite
}

// ForEach implements kv.Bucket.
func (b *Bucket) ForEach(fn func(k, v []byte) error) error {
	for k, v := range b.values {
		err := fn([]byte(k), v)
		if err != nil {
			return err
		}
	}

	return nil
}
