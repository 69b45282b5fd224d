// Package creds resolves candidate credential lists from flags and files.
package creds

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Load concatenates directly supplied values with the lines of an optional
// wordlist file, in that order. Blank lines (after trimming whitespace) are
// discarded; everything else is kept verbatim, duplicates included.
func Load(direct []string, file string) ([]string, error) {
	values := make([]string, 0, len(direct))
	values = append(values, direct...)

	if file == "" {
		return values, nil
	}

	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("opening wordlist: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		values = append(values, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading wordlist %s: %w", file, err)
	}

	return values, nil
}
