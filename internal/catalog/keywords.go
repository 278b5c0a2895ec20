package catalog

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadKeywords reads keywords from the file named by arg, one per line.
// When arg does not name a regular file it is split on commas.
// Blank entries are dropped.
func LoadKeywords(arg string) ([]string, error) {
	info, err := os.Stat(arg)
	if err != nil || info.IsDir() {
		return splitKeywords(strings.Split(arg, ",")), nil
	}

	f, err := os.Open(arg)
	if err != nil {
		return nil, fmt.Errorf("open keyword file: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read keyword file: %w", err)
	}
	return splitKeywords(lines), nil
}

func splitKeywords(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
