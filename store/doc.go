// Package store provides the DynamoDB record store for marketplace identity data.
//
// A single table holds every item variant defined in package schema. The
// store writes items with an atomic create-if-absent condition, reads them
// back as schema variants, and queries the two secondary indexes.
//
// # Configuration
//
// The table name is supplied explicitly through [Config]; the store never
// reads it from the environment:
//
//	s, err := store.New(dynamodb.NewFromConfig(awsCfg), store.DefaultConfig("users"))
//
// # Errors
//
// The package defines these errors:
//
//   - [ErrAlreadyExists] - an item already occupies the target primary key
//   - [ErrNotFound] - no item exists at the key, or no profile matches an email
//   - [ErrWrongType] - the stored item is a different variant than requested
//   - [OperationalError] - any other DynamoDB failure (throttling, permissions,
//     connectivity, malformed request); test with [IsOperational]
package store
