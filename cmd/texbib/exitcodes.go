package main

// Exit codes shared by all commands.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (bad flag values, invalid paths)
	ExitKeyType     = 3 // Key-type enforcement failed; nothing was fetched
	ExitExhausted   = 4 // One or more keys exhausted their fallback chain
)
