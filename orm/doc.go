/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
Each bucket contains only one type of Model and each model
is stored under a unique key inside the bucket, which is
the bucket name prefix followed by the model key.

Buckets can maintain any number of secondary indexes. An
index maps a value computed from the model (for example
its status) to all primary keys of models indexed under it.

Sequence provides monotonically increasing counters that are
used to generate primary keys. Keys are 8 bytes big endian,
so that the lexicographical order of keys is the order in
which they were created.
*/
package orm
