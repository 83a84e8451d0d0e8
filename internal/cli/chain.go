package cli

// chainableCommands are the operations that may be named several times in a
// single invocation, each with its own flags.
var chainableCommands = map[string]bool{
	"imap-dump":    true,
	"pop3-dump":    true,
	"send-message": true,
}

// valueFlags are the flags that consume the next token. A subcommand name
// sitting in one of their value slots is a value, not a chain break.
var valueFlags = map[string]bool{
	"--server":        true,
	"-u":              true,
	"--username":      true,
	"-P":              true,
	"--password":      true,
	"-o":              true,
	"--output-folder": true,
	"-t":              true,
	"--to-address":    true,
	"-m":              true,
	"--message-text":  true,
}

// splitChain turns one argv naming several subcommands into standalone argv
// slices, replaying the leading global flags into each.
func splitChain(args []string, commands map[string]bool) [][]string {
	isCommand := func(i int) bool {
		return commands[args[i]] && (i == 0 || !valueFlags[args[i-1]])
	}

	i := 0
	for i < len(args) && !isCommand(i) {
		i++
	}
	if i == len(args) {
		return [][]string{args}
	}
	globals := args[:i]

	var segments [][]string
	current := newSegment(globals, args[i])
	for i++; i < len(args); i++ {
		if isCommand(i) {
			segments = append(segments, current)
			current = newSegment(globals, args[i])
			continue
		}
		current = append(current, args[i])
	}
	return append(segments, current)
}

func newSegment(globals []string, command string) []string {
	segment := make([]string, 0, len(globals)+1)
	segment = append(segment, globals...)
	return append(segment, command)
}
