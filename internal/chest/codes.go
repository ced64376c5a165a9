package chest

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"

	"github.com/slaner/DataChest/internal/encryption"
	"github.com/slaner/DataChest/internal/fileutil"
	"github.com/slaner/DataChest/internal/header"
	"github.com/slaner/DataChest/internal/keys"
)

// Code is a numeric operation result, used as the process exit status.
type Code int

// Result codes.
const (
	Success                        Code = 0
	CleanupFailed                  Code = 1
	NoInputFile                    Code = 12
	InvalidAlgorithm               Code = 40
	InvalidSignature               Code = 41
	InvalidHeaderFieldValue        Code = 42
	InvalidHeader                  Code = 43
	InvalidPassword                Code = 45
	InvalidBufferSize              Code = 47
	AlgorithmInitiateFailure       Code = 70
	IOError                        Code = 71
	StreamReadError                Code = 75
	StreamWriteError               Code = 76
	OutOfMemory                    Code = 77
	PathTooLong                    Code = 78
	AccessDenied                   Code = 79
	InvalidParameter               Code = 87
	FileNotFound                   Code = 90
	FileAlreadyExists              Code = 91
	DirectoryNotFound              Code = 92
	NotSupportedVersion            Code = 100
	AmbiguousOption                Code = 101
	IncorrectHeaderChecksum        Code = 110
	IncorrectRawDataChecksum       Code = 111
	IncorrectEncryptedDataChecksum Code = 112
	HeaderVersionMismatch          Code = 121
	InvalidPasswordOrDataCorrupted Code = 130
	InvalidKeySize                 Code = 131
	Failure                        Code = 255
)

//nolint:gochecknoglobals
var codeNames = map[Code]string{
	Success:                        "Success",
	CleanupFailed:                  "CleanupFailed",
	NoInputFile:                    "NoInputFile",
	InvalidAlgorithm:               "InvalidAlgorithm",
	InvalidSignature:               "InvalidSignature",
	InvalidHeaderFieldValue:        "InvalidHeaderFieldValue",
	InvalidHeader:                  "InvalidHeader",
	InvalidPassword:                "InvalidPassword",
	InvalidBufferSize:              "InvalidBufferSize",
	AlgorithmInitiateFailure:       "AlgorithmInitiateFailure",
	IOError:                        "IOError",
	StreamReadError:                "StreamReadError",
	StreamWriteError:               "StreamWriteError",
	OutOfMemory:                    "OutOfMemory",
	PathTooLong:                    "PathTooLong",
	AccessDenied:                   "AccessDenied",
	InvalidParameter:               "InvalidParameter",
	FileNotFound:                   "FileNotFound",
	FileAlreadyExists:              "FileAlreadyExists",
	DirectoryNotFound:              "DirectoryNotFound",
	NotSupportedVersion:            "NotSupportedVersion",
	AmbiguousOption:                "AmbiguousOption",
	IncorrectHeaderChecksum:        "IncorrectHeaderChecksum",
	IncorrectRawDataChecksum:       "IncorrectRawDataChecksum",
	IncorrectEncryptedDataChecksum: "IncorrectEncryptedDataChecksum",
	HeaderVersionMismatch:          "HeaderVersionMismatch",
	InvalidPasswordOrDataCorrupted: "InvalidPasswordOrDataCorrupted",
	InvalidKeySize:                 "InvalidKeySize",
	Failure:                        "Failure",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}

	return fmt.Sprintf("Code(%d)", int(c))
}

// codeTable is checked in order; the first match wins.
//
//nolint:gochecknoglobals
var codeTable = []struct {
	target error
	code   Code
}{
	{ErrCleanupFailed, CleanupFailed},
	{ErrIncorrectEncryptedDataChecksum, IncorrectEncryptedDataChecksum},
	{ErrIncorrectRawDataChecksum, IncorrectRawDataChecksum},
	{ErrAmbiguousOption, AmbiguousOption},
	{ErrNoInputFile, NoInputFile},
	{ErrOutputIsInput, InvalidParameter},
	{ErrInvalidParameter, InvalidParameter},
	{ErrDirectoryNotFound, DirectoryNotFound},

	{header.ErrInvalidSignature, InvalidSignature},
	{header.ErrNotSupportedVersion, NotSupportedVersion},
	{header.ErrHeaderVersionMismatch, HeaderVersionMismatch},
	{header.ErrInvalidHeaderFieldValue, InvalidHeaderFieldValue},
	{header.ErrIncorrectHeaderChecksum, IncorrectHeaderChecksum},
	{header.ErrTruncatedHeader, InvalidHeader},
	{header.ErrCommentNotSupported, InvalidParameter},
	{header.ErrCommentTooLong, InvalidParameter},

	{encryption.ErrOutOfMemory, OutOfMemory},
	{encryption.ErrStreamRead, StreamReadError},
	{encryption.ErrStreamWrite, StreamWriteError},
	{encryption.ErrInvalidPasswordOrDataCorrupted, InvalidPasswordOrDataCorrupted},
	{encryption.ErrInvalidAlgorithm, InvalidAlgorithm},
	{encryption.ErrAlgorithmInit, AlgorithmInitiateFailure},
	{encryption.ErrInvalidBufferSize, InvalidBufferSize},

	{keys.ErrInvalidKeySize, InvalidKeySize},
	{keys.ErrInvalidSource, InvalidPassword},

	{fileutil.ErrFileAlreadyExists, FileAlreadyExists},
	{fs.ErrExist, FileAlreadyExists},
	{fs.ErrNotExist, FileNotFound},
	{fs.ErrPermission, AccessDenied},
	{syscall.ENAMETOOLONG, PathTooLong},
}

// CodeOf classifies err. A nil error is Success.
func CodeOf(err error) Code {
	if err == nil {
		return Success
	}

	for _, entry := range codeTable {
		if errors.Is(err, entry.target) {
			return entry.code
		}
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return IOError
	}

	return Failure
}
