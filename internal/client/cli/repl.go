package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	helpText() string
	Exec(ctx context.Context, name string, args []string) error
}

// runREPL starts a simple read–eval–print loop for the console.
//
// It reads a line from reader, parses the first token as the command and
// hands it with the remaining tokens to a.Exec. Command errors are printed
// and the loop goes on. The loop exits on EOF, when ctx is done or when the
// user types "exit" or "quit".
//
// The same reader is used by commands that prompt for input, so prompts and
// the REPL never compete for buffered stdin.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("%s > ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn(a.helpText())

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			if err := a.Exec(ctx, cmd, args); err != nil {
				if errors.Is(err, errUnknownCommand) {
					printlnFn("Unknown command:", cmd)
					continue
				}
				printlnFn("Error:", err)
			}
		}
	}
}
