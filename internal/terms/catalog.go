// internal/terms/catalog.go
//
// Default term catalog loading.
//
// Initialization behavior (LoadCatalog):
//   1. If a path is given (TERMS_FILE), read one term per line from that file.
//   2. Otherwise fall back to the catalog embedded in the assets package.
//
// Constraints:
//   • Blank lines and lines starting with "#" are skipped.
//   • Entries are trimmed; case is preserved (they are display labels).
//   • Duplicates are dropped case-insensitively, first occurrence wins.

package terms

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/robalobadob/spooky-bingo/assets"
)

// LoadCatalog returns the default term catalog, read from path when set.
func LoadCatalog(path string) ([]string, error) {
	var (
		list []string
		err  error
	)
	if path != "" {
		list, err = readCatalogFile(path)
	} else {
		list, err = assets.TermsList()
	}
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	list = normalizeCatalog(list)
	if len(list) == 0 {
		return nil, fmt.Errorf("load catalog: no terms found")
	}
	return list, nil
}

// readCatalogFile loads one term per line from a file.
func readCatalogFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		out = append(out, sc.Text())
	}
	return out, sc.Err()
}

func normalizeCatalog(lines []string) []string {
	seen := make(map[string]struct{}, len(lines))
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		s := strings.TrimSpace(line)
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		k := key(s)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	return out
}
