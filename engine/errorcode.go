package engine

import "fmt"

// ErrorCode is the integer fault signal of an engine. Zero means no error.
type ErrorCode int

// Codes reported by the engine that the driver and the replay engine use.
const (
	NoError             ErrorCode = 0
	ErrMemory           ErrorCode = 101
	ErrInput            ErrorCode = 200
	ErrFileNames        ErrorCode = 301
	ErrInputFile        ErrorCode = 303
	ErrReportFile       ErrorCode = 305
	ErrOutputFile       ErrorCode = 307
	ErrOutputWrite      ErrorCode = 309
	ErrSystem           ErrorCode = 401
	ErrProjectStillOpen ErrorCode = 402
	ErrNotOpen          ErrorCode = 403
	ErrFileSize         ErrorCode = 405
)

var messages = map[ErrorCode]string{
	ErrMemory:           "memory allocation error",
	ErrInput:            "one or more errors in input file",
	ErrFileNames:        "files share same names",
	ErrInputFile:        "cannot open input file",
	ErrReportFile:       "cannot open report file",
	ErrOutputFile:       "cannot open binary results file",
	ErrOutputWrite:      "error writing to binary results file",
	ErrSystem:           "general system error",
	ErrProjectStillOpen: "cannot open new project while current project still open",
	ErrNotOpen:          "project not open or last run not ended",
	ErrFileSize:         "amount of output produced will exceed maximum file size",
}

// OK returns true if the code signals no error.
func (c ErrorCode) OK() bool {
	return c == NoError
}

// String returns the engine message associated with the code.
func (c ErrorCode) String() string {
	if c == NoError {
		return "no error"
	}

	if msg, ok := messages[c]; ok {
		return fmt.Sprintf("ERROR %d: %s", int(c), msg)
	}

	return fmt.Sprintf("error code %d", int(c))
}

// FirstFault returns the first nonzero code in the list.
func FirstFault(codes ...ErrorCode) ErrorCode {
	for _, c := range codes {
		if c != NoError {
			return c
		}
	}

	return NoError
}

// FormatVersion renders a version number of the form xyzzz as x.y.zzz.
func FormatVersion(v int) string {
	if v <= 0 {
		return "unknown"
	}

	major := v / 10000
	minor := (v / 1000) % 10
	build := v % 1000

	return fmt.Sprintf("%d.%d.%03d", major, minor, build)
}
