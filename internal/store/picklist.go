package store

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var picklistNameFilter = regexp.MustCompile(`[^A-Za-z0-9]+`)

// SavePicklist writes a picklist as plain text: the title on the first
// line, then one team number per line. The filename is the title stripped
// to letters and digits.
func (s *Store) SavePicklist(title string, teams []string) (string, error) {
	name := picklistNameFilter.ReplaceAllString(title, "")
	if name == "" {
		name = "picklist"
	}
	path := filepath.Join(s.root, "picklists", name+".csv")
	content := title + "\n" + strings.Join(teams, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("saving picklist %s: %w", path, err)
	}
	return path, nil
}

// LoadPicklist reads a picklist back via the same line-based format.
func (s *Store) LoadPicklist(path string) (title string, teams []string, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("loading picklist %s: %w", path, err)
	}
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	title = lines[0]
	for _, line := range lines[1:] {
		if line = strings.TrimSpace(line); line != "" {
			teams = append(teams, line)
		}
	}
	return title, teams, nil
}
