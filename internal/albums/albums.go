package albums

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var ErrUnknownAlbum = errors.New("unknown album")

// Album is a named list of notes played as a sequence of notifications.
type Album struct {
	Name  string
	Notes []string
}

var builtin = []Album{
	{Name: "US State Capitals", Notes: stateCapitals},
	{Name: "Double Nobel Prize Winners", Notes: doubleNobelWinners},
}

// Builtin returns copies of the albums shipped with flashnote, sorted by name.
func Builtin() []Album {
	out := make([]Album, len(builtin))
	for i, a := range builtin {
		out[i] = Album{Name: a.Name, Notes: append([]string(nil), a.Notes...)}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup finds a built-in album by name, ignoring case.
func Lookup(name string) (Album, error) {
	want := strings.TrimSpace(name)
	for _, a := range builtin {
		if strings.EqualFold(a.Name, want) {
			return Album{Name: a.Name, Notes: append([]string(nil), a.Notes...)}, nil
		}
	}
	return Album{}, fmt.Errorf("%w: %q", ErrUnknownAlbum, name)
}

// Parse reads one note per line. Blank lines and lines starting with # are skipped.
func Parse(r io.Reader) ([]string, error) {
	var notes []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		notes = append(notes, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read notes: %w", err)
	}
	return notes, nil
}

// LoadFile reads an album from a notes file. When name is empty the file's
// base name without extension is used.
func LoadFile(path, name string) (Album, error) {
	f, err := os.Open(path)
	if err != nil {
		return Album{}, fmt.Errorf("failed to open notes file: %w", err)
	}
	defer f.Close()

	notes, err := Parse(f)
	if err != nil {
		return Album{}, err
	}

	if strings.TrimSpace(name) == "" {
		base := filepath.Base(path)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return Album{Name: name, Notes: notes}, nil
}
