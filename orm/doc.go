/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
* Each bucket contains only one type of model.
* Models are stored under a primary key, prefixed by the bucket name.
* Easy queries for one and iteration over a key prefix.

Models are serialized with protobuf.
*/
package orm
