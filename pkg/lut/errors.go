package lut

import (
	"errors"
	"fmt"
)

var (
	ErrDecompression            = errors.New("decompression failure")
	ErrSizeMismatch             = errors.New("buffer size is not a multiple of seed range size")
	ErrHeaderTooSmall           = errors.New("buffer smaller than header")
	ErrRecordOverrun            = errors.New("record overruns data section")
	ErrUnrecognizedRecordLength = errors.New("unrecognized record length")
	ErrUnknownJewel             = errors.New("unknown jewel type")
	ErrAlreadyExists            = errors.New("jewel table already exists")
)

// DecompressionError is returned when the input is not a complete deflate stream.
type DecompressionError struct {
	Size int
	Err  error
}

func (e *DecompressionError) Error() string {
	return fmt.Sprintf("%s (%d compressed bytes): %v", ErrDecompression, e.Size, e.Err)
}

func (e *DecompressionError) Unwrap() []error { return []error{ErrDecompression, e.Err} }

// SizeMismatchError records the bytes dropped from a flat buffer.
type SizeMismatchError struct {
	Len       int
	SeedSize  int
	NodeCount int
	Remainder int
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("%s: %d bytes / %d seeds = %d nodes, %d trailing bytes ignored",
		ErrSizeMismatch, e.Len, e.SeedSize, e.NodeCount, e.Remainder)
}

func (e *SizeMismatchError) Unwrap() error { return ErrSizeMismatch }

// HeaderTooSmallError is returned when a headered buffer cannot hold its header.
type HeaderTooSmallError struct {
	Len        int
	HeaderSize int
}

func (e *HeaderTooSmallError) Error() string {
	return fmt.Sprintf("%s: have %d bytes, header needs %d", ErrHeaderTooSmall, e.Len, e.HeaderSize)
}

func (e *HeaderTooSmallError) Unwrap() error { return ErrHeaderTooSmall }

// RecordOverrunError records where a seed was abandoned.
type RecordOverrunError struct {
	Seed      uint32
	Node      int
	Length    int
	Cursor    int
	Remaining int
}

func (e *RecordOverrunError) Error() string {
	return fmt.Sprintf("%s: seed %d node %d wants %d bytes at offset %d, %d remaining",
		ErrRecordOverrun, e.Seed, e.Node, e.Length, e.Cursor, e.Remaining)
}

func (e *RecordOverrunError) Unwrap() error { return ErrRecordOverrun }

// UnrecognizedLengthError records a record decoded with the fallback split.
type UnrecognizedLengthError struct {
	Seed   uint32
	Node   int
	Length int
	Stats  int
	Rolls  int
}

func (e *UnrecognizedLengthError) Error() string {
	return fmt.Sprintf("%s %d at seed %d node %d: split as %d stats / %d rolls",
		ErrUnrecognizedRecordLength, e.Length, e.Seed, e.Node, e.Stats, e.Rolls)
}

func (e *UnrecognizedLengthError) Unwrap() error { return ErrUnrecognizedRecordLength }
