package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spboyer/grader-exec/internal/protocol"
)

// Exit codes for different failure modes
const (
	ExitSuccess        = 0 // Verdict written, whether or not it passed
	ExitMalformedInput = 1 // Request on stdin was not a valid grade request
	ExitError          = 2 // Configuration or runtime error
)

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var malformed *protocol.MalformedInputError
	if errors.As(err, &malformed) {
		return ExitMalformedInput
	}

	return ExitError
}
