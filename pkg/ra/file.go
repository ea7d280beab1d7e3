package ra

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ucscGenomeBrowser/kent-sub001/logger"
	"github.com/ucscGenomeBrowser/kent-sub001/pkg/ordered"
	"go.uber.org/zap"
)

// Record is a stanza flavor a File can be built from.
type Record interface {
	ReadStanza(lines []string) (string, string, error)
	Name() string
	String() string
}

// File is an ordered collection of stanzas keyed by stanza name. The factory
// decides which stanza flavor each block of text becomes.
type File[S Record] struct {
	path    string
	stanzas *ordered.Map[S]
	factory func() S
}

func NewFile[S Record](factory func() S) *File[S] {
	return &File[S]{
		stanzas: ordered.New[S](),
		factory: factory,
	}
}

// NewRaFile builds a File of plain stanzas.
func NewRaFile() *File[*Stanza] {
	return NewFile(func() *Stanza { return NewStanza() })
}

// ReadPath opens and parses an RA file of plain stanzas.
func ReadPath(path string) (*File[*Stanza], error) {
	f := NewRaFile()
	if err := f.Read(path); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *File[S]) Path() string {
	return f.path
}

// Read parses path into the file. The file must exist and end in a newline.
func (f *File[S]) Read(path string) error {
	fh, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open ra file: %w", err)
	}
	defer fh.Close()

	f.path = path
	return f.ReadFrom(fh)
}

// ReadFrom parses stanzas from r. Stanzas are separated by blank lines.
func (f *File[S]) ReadFrom(r io.Reader) error {
	reader := bufio.NewReader(r)

	var buffer []string
	lineNo, start := 0, 0

	flush := func() error {
		if len(buffer) == 0 {
			return nil
		}
		defer func() { buffer = buffer[:0] }()
		if err := f.readStanza(buffer); err != nil {
			return &ParseError{Path: f.path, Line: start, Err: err}
		}
		return nil
	}

	for {
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("read ra file: %w", err)
		}
		if err == io.EOF && line != "" {
			return &ParseError{Path: f.path, Line: lineNo + 1, Err: ErrNoTrailingNewline}
		}
		if err == io.EOF {
			break
		}
		lineNo++

		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) == "" {
			if flushErr := flush(); flushErr != nil {
				return flushErr
			}
			continue
		}
		if len(buffer) == 0 {
			start = lineNo
		}
		buffer = append(buffer, line)
	}
	return flush()
}

func (f *File[S]) readStanza(lines []string) error {
	// a block made only of comments is file level commentary, not a stanza
	allComments := true
	for _, l := range lines {
		if !strings.HasPrefix(strings.TrimSpace(l), "#") {
			allComments = false
			break
		}
	}
	if allComments {
		logger.Debug("Skipping comment block", zap.String("path", f.path), zap.Int("lines", len(lines)))
		return nil
	}

	stanza := f.factory()
	if _, _, err := stanza.ReadStanza(lines); err != nil {
		return err
	}
	return f.Add(stanza)
}

// Add inserts a stanza; names must be unique within a file.
func (f *File[S]) Add(stanza S) error {
	if f.stanzas.Contains(stanza.Name()) {
		return fmt.Errorf("%w: %s", ErrDuplicateStanza, stanza.Name())
	}
	f.stanzas.Set(stanza.Name(), stanza)
	return nil
}

func (f *File[S]) Get(name string) (S, bool) {
	return f.stanzas.Get(name)
}

func (f *File[S]) MustGet(name string) (S, error) {
	s, ok := f.stanzas.Get(name)
	if !ok {
		return s, fmt.Errorf("%w: %s", ErrStanzaNotFound, name)
	}
	return s, nil
}

func (f *File[S]) Has(name string) bool {
	return f.stanzas.Contains(name)
}

func (f *File[S]) Delete(name string) bool {
	return f.stanzas.Delete(name)
}

func (f *File[S]) Names() []string {
	return f.stanzas.Keys()
}

// Stanzas returns every stanza in file order.
func (f *File[S]) Stanzas() []S {
	return f.stanzas.Values()
}

func (f *File[S]) Len() int {
	return f.stanzas.Len()
}

// Filter returns the stanzas for which pred holds, in file order.
func (f *File[S]) Filter(pred func(S) bool) []S {
	return FilterMap(f, pred, func(s S) S { return s })
}

// FilterMap applies proj to every stanza for which pred holds.
func FilterMap[S Record, T any](f *File[S], pred func(S) bool, proj func(S) T) []T {
	var out []T
	for _, s := range f.stanzas.Values() {
		if pred(s) {
			out = append(out, proj(s))
		}
	}
	return out
}

// String renders the file as RA text, stanzas separated by blank lines.
func (f *File[S]) String() string {
	var b strings.Builder
	for i, s := range f.stanzas.Values() {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(s.String())
	}
	return b.String()
}
