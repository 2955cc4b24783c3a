// assets/embed.go
//
// Embedded static data for the bingo server.
// Currently holds the default spooky term catalog (terms.txt).

package assets

import (
	"bufio"
	"embed"
	"strings"
)

//go:embed terms.txt
var FS embed.FS

// readLines returns the trimmed, non-empty, non-comment lines of an embedded file.
// Case is preserved: catalog entries are display labels.
func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

// TermsList returns the embedded default term catalog in file order.
func TermsList() ([]string, error) {
	return readLines("terms.txt")
}
