package dict

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileAppender appends words to the personal dictionary file, one per line.
// The file and its parent directories are created on first use.
type FileAppender struct {
	Path string
}

// Append writes word followed by a newline to the end of the file.
func (a FileAppender) Append(word string) error {
	if a.Path == "" {
		return errors.New("personal dictionary path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(a.Path), 0o755); err != nil {
		return fmt.Errorf("create dictionary dir: %w", err)
	}
	// #nosec G304 -- path comes from user configuration
	f, err := os.OpenFile(a.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open personal dictionary: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	if _, err := fmt.Fprintln(f, word); err != nil {
		return fmt.Errorf("append to personal dictionary: %w", err)
	}
	return nil
}

// LoadPersonal reads the personal dictionary at path into the registry.
// A missing file is not an error: the dictionary simply has no words yet.
func LoadPersonal(reg *Registry, path string) error {
	f, err := os.Open(path) // #nosec G304 -- path comes from user configuration
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	words, err := ParseWordList(f)
	if err != nil {
		return err
	}
	reg.Load(Dictionary{Tag: "personal", Words: words, Origin: OriginPersonal})
	return nil
}
