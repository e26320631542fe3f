package models

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrNotFound      = status.Errorf(codes.NotFound, "not found")
	ErrStoreNotFound = status.Errorf(codes.NotFound, "store not found")
	ErrQueryTooShort = status.Errorf(codes.InvalidArgument, "Query parameter is required (minimum 2 characters)")
	ErrQueryTooLong  = status.Errorf(codes.InvalidArgument, "Query is too long (maximum 200 characters)")
	ErrCacheFull     = status.Errorf(codes.ResourceExhausted, "cache is full")

	ErrAlternateNotConfigured = errors.New("alternate source not configured")
	ErrInvalidProduct         = errors.New("invalid product")
)

// Code extracts the grpc code carried by err, looking through wrapped errors.
func Code(err error) codes.Code {
	if err == nil {
		return codes.OK
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		if st, ok := status.FromError(e); ok {
			return st.Code()
		}
	}
	return codes.Unknown
}

// Message returns the client facing text of a status error, or err.Error()
// for plain errors.
func Message(err error) string {
	var gs interface{ GRPCStatus() *status.Status }
	if errors.As(err, &gs) && gs.GRPCStatus() != nil {
		return gs.GRPCStatus().Message()
	}
	return err.Error()
}
