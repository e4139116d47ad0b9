// Package textio reads and writes simple line-oriented files: one value per
// line, commonly gene lists.
package textio

import (
	"bufio"
	"fmt"
	"os"
	"sort"
)

// ReadLines returns every line of the file as a string, in file order.
// Empty trailing lines are dropped.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var out []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		out = append(out, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out, nil
}

// ReadSet returns the lines of the file as a set.
func ReadSet(path string) (map[string]struct{}, error) {
	lines, err := ReadLines(path)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		set[l] = struct{}{}
	}
	return set, nil
}

// WriteLines writes one value per line.
func WriteLines(path string, lines []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return w.Flush()
}

// WriteSet writes the set sorted, one value per line.
func WriteSet(path string, set map[string]struct{}) error {
	lines := make([]string, 0, len(set))
	for v := range set {
		lines = append(lines, v)
	}
	sort.Strings(lines)
	return WriteLines(path, lines)
}
