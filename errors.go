package ifs

import "errors"

var (
	// ErrMalformedArchive indicates the archive header fails structural checks.
	ErrMalformedArchive = errors.New("malformed archive")
	// ErrInvalidPixelData indicates a decompressed payload is not a sample buffer.
	ErrInvalidPixelData = errors.New("invalid pixel data")
	// ErrSizeOverflow indicates a size or dimension exceeds supported limits.
	ErrSizeOverflow = errors.New("size overflow")
	// ErrReadEntry indicates an entry payload could not be read.
	ErrReadEntry = errors.New("read entry failed")
	// ErrEntryRange indicates an entry index outside the scanned list.
	ErrEntryRange = errors.New("entry index out of range")
	// ErrCandidateRange indicates a candidate index outside the candidate list.
	ErrCandidateRange = errors.New("candidate index out of range")
	// ErrPixelRange indicates pixel coordinates outside the candidate size.
	ErrPixelRange = errors.New("pixel coordinates out of range")
	// ErrOpenFile indicates archive open failed.
	ErrOpenFile = errors.New("open file failed")
	// ErrStatFile indicates archive stat failed.
	ErrStatFile = errors.New("stat file failed")
	// ErrCreateFile indicates output file creation failed.
	ErrCreateFile = errors.New("create file failed")
	// ErrCreateDir indicates output directory creation failed.
	ErrCreateDir = errors.New("create directory failed")
	// ErrInvalidFormat indicates an unsupported DDS pixel format.
	ErrInvalidFormat = errors.New("invalid format")
	// ErrEncodeImage indicates BCn/RGBA encoding of an image failed.
	ErrEncodeImage = errors.New("encode image failed")
	// ErrEncodePNG indicates PNG encoding failed.
	ErrEncodePNG = errors.New("encode PNG failed")
	// ErrWriteDDSMagic indicates DDS magic write failed.
	ErrWriteDDSMagic = errors.New("writing DDS magic failed")
	// ErrWriteDDSHeader indicates DDS header write failed.
	ErrWriteDDSHeader = errors.New("writing DDS header failed")
	// ErrWriteDDSData indicates DDS surface data write failed.
	ErrWriteDDSData = errors.New("writing DDS data failed")
	// ErrUnknownCodec indicates an unsupported dump codec.
	ErrUnknownCodec = errors.New("unknown dump codec")
	// ErrUnknownExportFormat indicates an unsupported export format.
	ErrUnknownExportFormat = errors.New("unknown export format")
	// ErrDumpWrite indicates writing a raw dump failed.
	ErrDumpWrite = errors.New("writing dump failed")
	// ErrDumpRead indicates opening a raw dump for reading failed.
	ErrDumpRead = errors.New("reading dump failed")
	// ErrGuessesRead indicates the guess memo file could not be read.
	ErrGuessesRead = errors.New("reading guesses failed")
	// ErrGuessesWrite indicates the guess memo file could not be written.
	ErrGuessesWrite = errors.New("writing guesses failed")
	// ErrCreateCache indicates decoded entry cache creation failed.
	ErrCreateCache = errors.New("create cache failed")
)
