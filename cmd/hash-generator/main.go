// Command hash-generator prints bcrypt hashes for passwords read from the
// command line or, when no arguments are given, one per line from stdin.
// It is used to seed accounts such as ADMIN users that are provisioned
// directly in the database rather than through signup.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/topster/topster-api/internal/service/auth"
)

func main() {
	cost := flag.Int("cost", 10, "bcrypt cost factor")
	flag.Parse()

	passwords := flag.Args()
	if len(passwords) == 0 {
		var err error
		passwords, err = readPasswords(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading passwords: %v\n", err)
			os.Exit(1)
		}
	}

	if err := writeHashes(os.Stdout, auth.NewBcryptHasher(*cost), passwords); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func readPasswords(r io.Reader) ([]string, error) {
	var passwords []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			passwords = append(passwords, line)
		}
	}
	return passwords, scanner.Err()
}

// writeHashes writes one hash per line in input order.
func writeHashes(w io.Writer, hasher auth.PasswordHasher, passwords []string) error {
	for i, password := range passwords {
		hash, err := hasher.Hash(password)
		if err != nil {
			return fmt.Errorf("password %d: %w", i+1, err)
		}
		if _, err := fmt.Fprintln(w, hash); err != nil {
			return err
		}
	}
	return nil
}
