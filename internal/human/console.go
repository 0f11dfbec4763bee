package human

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// ConsoleAsker prints the question and reads one line of response from the
// terminal. Used in devmode, where a person is watching the process.
type ConsoleAsker struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewConsoleAsker creates a ConsoleAsker over stdin/stdout.
func NewConsoleAsker() *ConsoleAsker {
	return NewConsoleAskerIO(os.Stdin, os.Stdout)
}

// NewConsoleAskerIO creates a ConsoleAsker over the given streams.
func NewConsoleAskerIO(in io.Reader, out io.Writer) *ConsoleAsker {
	return &ConsoleAsker{in: bufio.NewScanner(in), out: out}
}

// Ask prints the question and blocks on the next input line. The read happens
// in a goroutine so a cancelled ctx unblocks the caller even though stdin
// stays open.
func (c *ConsoleAsker) Ask(ctx context.Context, question string) (string, error) {
	fmt.Fprintf(c.out, "Agent asks: %s\n", question)
	fmt.Fprint(c.out, "Your response: ")

	type scanResult struct {
		line string
		ok   bool
	}
	scanned := make(chan scanResult, 1)
	go func() {
		ok := c.in.Scan()
		scanned <- scanResult{line: c.in.Text(), ok: ok}
	}()

	select {
	case res := <-scanned:
		if !res.ok {
			if err := c.in.Err(); err != nil {
				return "", fmt.Errorf("read response: %w", err)
			}
			return "", io.EOF
		}
		return strings.TrimSpace(res.line), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
