package store

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
)

var (
	// ErrNotFound is returned when no item exists at the requested key.
	ErrNotFound = errors.New("keystone: item not found")

	// ErrAlreadyExists is returned when a conditional create finds an existing item.
	ErrAlreadyExists = errors.New("keystone: item already exists")

	// ErrWrongType is returned when a stored item is not the requested variant.
	ErrWrongType = errors.New("keystone: item has unexpected type")

	// ErrNoTable is returned when the store is configured without a table name.
	ErrNoTable = errors.New("keystone: table name is required")
)

// OperationalError wraps a DynamoDB failure other than a failed condition.
type OperationalError struct {
	// Op is the DynamoDB operation that failed (e.g. "PutItem").
	Op string

	// Code is the AWS error code, when the failure came from the service.
	Code string

	Err error
}

func (e *OperationalError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("keystone: %s failed (%s): %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("keystone: %s failed: %v", e.Op, e.Err)
}

func (e *OperationalError) Unwrap() error {
	return e.Err
}

// IsOperational reports whether err is an [OperationalError].
func IsOperational(err error) bool {
	var opErr *OperationalError
	return errors.As(err, &opErr)
}

// operational wraps err, recording the AWS error code if there is one.
func operational(op string, err error) error {
	opErr := &OperationalError{Op: op, Err: err}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		opErr.Code = apiErr.ErrorCode()
	}
	return opErr
}
