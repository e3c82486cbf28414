package ui

import "strings"

type command int

const (
	cmdNone command = iota
	cmdCrop
	cmdLocation
	cmdLogout
	cmdQuit
	cmdUnknown
)

// parseCommand recognizes slash commands typed into the chat input. Anything
// not starting with "/" is a plain message.
func parseCommand(input string) (command, string) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return cmdNone, ""
	}

	name, arg, _ := strings.Cut(input[1:], " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case "crop":
		return cmdCrop, arg
	case "location":
		return cmdLocation, arg
	case "logout":
		return cmdLogout, ""
	case "quit", "exit":
		return cmdQuit, ""
	}
	return cmdUnknown, name
}
