package invoice

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sahilm/fuzzy"
	"gopkg.in/yaml.v3"
)

const (
	bookVersion  = 1
	numberPrefix = "INV-"
)

// ErrNotFound is returned when an invoice ID is not present in the book.
var ErrNotFound = errors.New("invoice: not found")

// idNamespace seeds the IDs derived for records stored without one.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("tally:invoice"))

type bookFile struct {
	Version  int       `yaml:"version"`
	Invoices []Invoice `yaml:"invoices"`
}

// Book is the YAML-backed set of invoices. Every mutation is written back to
// disk before it returns. Declaration order in the file is preserved.
type Book struct {
	path string

	mu       sync.RWMutex
	invoices []Invoice
}

// LoadBook reads the book at path. A missing file yields an empty book that
// will be created on the first write.
func LoadBook(path string) (*Book, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("invoice: book path is required")
	}
	b := &Book{path: path}
	if err := b.Reload(); err != nil {
		return nil, err
	}
	return b, nil
}

// Path returns the file backing the book.
func (b *Book) Path() string {
	if b == nil {
		return ""
	}
	return b.path
}

// Reload replaces the in-memory records with the file contents.
func (b *Book) Reload() error {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			b.mu.Lock()
			b.invoices = nil
			b.mu.Unlock()
			return nil
		}
		return fmt.Errorf("invoice: read %s: %w", b.path, err)
	}
	var parsed bookFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("invoice: parse %s: %w", b.path, err)
	}
	seen := make(map[string]struct{}, len(parsed.Invoices))
	for i := range parsed.Invoices {
		inv := &parsed.Invoices[i]
		inv.normalize()
		if inv.ID == "" {
			inv.ID = derivedID(*inv, i, seen)
		}
		if _, dup := seen[inv.ID]; dup {
			return fmt.Errorf("invoice: parse %s: duplicate id %s", b.path, inv.ID)
		}
		seen[inv.ID] = struct{}{}
	}
	b.mu.Lock()
	b.invoices = parsed.Invoices
	b.mu.Unlock()
	return nil
}

// List returns a copy of every invoice in book order.
func (b *Book) List() []Invoice {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Invoice(nil), b.invoices...)
}

// Len reports how many invoices the book holds.
func (b *Book) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.invoices)
}

// Get returns the invoice with the given ID.
func (b *Book) Get(id string) (Invoice, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	idx := b.indexOf(id)
	if idx < 0 {
		return Invoice{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return b.invoices[idx], nil
}

// StatusOf returns the current status of an invoice. Unknown IDs report
// StatusUnset so callers can treat "no record" and "no status" alike.
func (b *Book) StatusOf(id string) Status {
	if b == nil {
		return StatusUnset
	}
	inv, err := b.Get(id)
	if err != nil {
		return StatusUnset
	}
	return inv.Status
}

// Put inserts or replaces an invoice. Missing IDs and numbers are assigned.
func (b *Book) Put(inv Invoice) (Invoice, error) {
	inv.normalize()
	if !inv.Status.IsValid() {
		return Invoice{}, fmt.Errorf("invoice: unknown status %q", string(inv.Status))
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	if inv.Number == "" {
		inv.Number = b.nextNumber()
	}
	if idx := b.indexOf(inv.ID); idx >= 0 {
		b.invoices[idx] = inv
	} else {
		b.invoices = append(b.invoices, inv)
	}
	if err := b.save(); err != nil {
		return Invoice{}, err
	}
	return inv, nil
}

// Remove deletes an invoice.
func (b *Book) Remove(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	idx := b.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	b.invoices = append(b.invoices[:idx], b.invoices[idx+1:]...)
	return b.save()
}

// Duplicate copies an invoice under a fresh ID and number. The copy starts
// as a draft and is never archived.
func (b *Book) Duplicate(id string) (Invoice, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	idx := b.indexOf(id)
	if idx < 0 {
		return Invoice{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	clone := b.invoices[idx]
	clone.ID = uuid.NewString()
	clone.Number = b.nextNumber()
	clone.Status = StatusDraft
	clone.Archived = false
	b.invoices = append(b.invoices, clone)
	if err := b.save(); err != nil {
		return Invoice{}, err
	}
	return clone, nil
}

// SetStatus records a status change performed by the caller.
func (b *Book) SetStatus(id string, status Status) error {
	if !status.IsValid() {
		return fmt.Errorf("invoice: unknown status %q", string(status))
	}
	return b.update(id, func(inv *Invoice) { inv.Status = status })
}

// SetArchived flags or unflags an invoice as archived.
func (b *Book) SetArchived(id string, archived bool) error {
	return b.update(id, func(inv *Invoice) { inv.Archived = archived })
}

// Search returns invoices whose number or supplier fuzzily matches term,
// best match first. Ties keep book order. A blank term returns every invoice.
func (b *Book) Search(term string) []Invoice {
	all := b.List()
	term = strings.TrimSpace(term)
	if term == "" {
		return all
	}
	matches := fuzzy.FindFrom(term, searchSource(all))
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Index < matches[j].Index
	})
	out := make([]Invoice, 0, len(matches))
	for _, match := range matches {
		out = append(out, all[match.Index])
	}
	return out
}

type searchSource []Invoice

func (s searchSource) String(i int) string { return s[i].searchText() }
func (s searchSource) Len() int            { return len(s) }

func (b *Book) update(id string, mutate func(*Invoice)) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	idx := b.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	mutate(&b.invoices[idx])
	return b.save()
}

// derivedID gives a record stored without an id the same ID on every load.
// The number is used when it is unique so far, the position otherwise.
func derivedID(inv Invoice, position int, seen map[string]struct{}) string {
	if inv.Number != "" {
		id := uuid.NewSHA1(idNamespace, []byte("number:"+inv.Number)).String()
		if _, dup := seen[id]; !dup {
			return id
		}
	}
	return uuid.NewSHA1(idNamespace, []byte("position:"+strconv.Itoa(position))).String()
}

func (b *Book) indexOf(id string) int {
	id = strings.TrimSpace(id)
	for i := range b.invoices {
		if b.invoices[i].ID == id {
			return i
		}
	}
	return -1
}

func (b *Book) nextNumber() string {
	highest := 0
	for _, inv := range b.invoices {
		if !strings.HasPrefix(inv.Number, numberPrefix) {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimPrefix(inv.Number, numberPrefix)); err == nil && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s%04d", numberPrefix, highest+1)
}

// save must be called with b.mu held.
func (b *Book) save() error {
	if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return fmt.Errorf("invoice: ensure book dir: %w", err)
	}
	data, err := yaml.Marshal(bookFile{Version: bookVersion, Invoices: b.invoices})
	if err != nil {
		return fmt.Errorf("invoice: encode book: %w", err)
	}
	tmp := b.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("invoice: write book: %w", err)
	}
	if err := os.Rename(tmp, b.path); err != nil {
		return fmt.Errorf("invoice: replace book: %w", err)
	}
	return nil
}
