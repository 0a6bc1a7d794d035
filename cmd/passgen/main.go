// Command passgen prints secure random passwords.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/passagent/passagent-go/internal/crypto"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run parses args, prints the passwords to stdout and returns the exit code.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("passgen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	length := fs.Int("length", crypto.DefaultLength, "password length")
	special := fs.Bool("special", true, "include punctuation characters")
	count := fs.Int("n", 1, "number of passwords to print")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *count < 1 {
		fmt.Fprintln(stderr, "passgen: -n must be at least 1")
		return 2
	}

	for i := 0; i < *count; i++ {
		password, err := crypto.Generate(*length, *special)
		if err != nil {
			fmt.Fprintf(stderr, "passgen: %v\n", err)
			return 1
		}
		fmt.Fprintln(stdout, password)
	}
	return 0
}
