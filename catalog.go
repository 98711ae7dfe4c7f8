package main

import (
	"context"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// CatalogProvider defines possible operations on the library catalog.
type CatalogProvider interface {
	Add(ctx context.Context, isbn, title, author string, year int) (Book, error)
	Remove(ctx context.Context, isbn string) (Book, error)
	Update(ctx context.Context, isbn, title, author string, year int) (Book, error)
	Borrow(ctx context.Context, isbn, borrower string) (Book, error)
	Return(ctx context.Context, isbn string) (Book, error)
	GetOne(ctx context.Context, isbn string) (Book, error)
	GetAll(ctx context.Context) []Book
	SearchByTitle(ctx context.Context, term string) []Book
	SearchByAuthor(ctx context.Context, term string) []Book
	Search(ctx context.Context, query string) []ScoredBook
	Len() int
}

// Catalog holds the in-memory record set and mirrors it to its storage
// backend after each mutation. The mutex guards the whole mutate-then-flush
// sequence so each persisted snapshot reflects exactly one completed
// operation. Books and byISBN reference the same records: books keeps
// the insertion order used for listing, byISBN serves key lookups.
type Catalog struct {
	logger  *zap.Logger
	clock   Clocker
	storage CatalogStorage

	mu     sync.Mutex
	books  []*Book
	byISBN map[string]*Book
}

// NewCatalog loads the persisted snapshot and provides a ready to use
// catalog. A snapshot which cannot be loaded is not fatal: the failure
// is reported as a warning and the catalog starts empty.
func NewCatalog(ctx context.Context, logger *zap.Logger, clock Clocker, storage CatalogStorage) *Catalog {
	c := &Catalog{
		logger:  logger,
		clock:   clock,
		storage: storage,
		byISBN:  make(map[string]*Book),
	}

	books, err := storage.Load(ctx)
	if err != nil {
		logger.Warn("catalog: failed to load the snapshot. starting fresh catalog", zap.Error(err))
		return c
	}
	for i := range books {
		book := books[i]
		c.books = append(c.books, &book)
		c.byISBN[book.ISBN] = &book
	}
	logger.Info("catalog: snapshot loaded", zap.Int("books", len(c.books)))
	return c
}

// Add inserts a new available book record then flushes the catalog.
func (c *Catalog) Add(ctx context.Context, isbn, title, author string, year int) (Book, error) {
	if err := ValidateBookFields(isbn, title, author); err != nil {
		return Book{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.byISBN[isbn]; exists {
		return Book{}, ErrDuplicateBook
	}

	now := c.clock.Now().UTC().String()
	book := &Book{
		ISBN:      isbn,
		Title:     title,
		Author:    author,
		Year:      year,
		Available: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	c.byISBN[isbn] = book
	c.books = append(c.books, book)
	c.flush(ctx)
	return *book, nil
}

// Remove deletes an existing book record then flushes the catalog.
func (c *Catalog) Remove(ctx context.Context, isbn string) (Book, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	book, exists := c.byISBN[isbn]
	if !exists {
		return Book{}, ErrBookNotFound
	}
	delete(c.byISBN, isbn)
	for i, b := range c.books {
		if b == book {
			c.books = append(c.books[:i], c.books[i+1:]...)
			break
		}
	}
	c.flush(ctx)
	return *book, nil
}

// Update overwrites the three descriptive fields of an existing record.
// The availability state and the borrower are left untouched.
func (c *Catalog) Update(ctx context.Context, isbn, title, author string, year int) (Book, error) {
	if err := ValidateBookFields(isbn, title, author); err != nil {
		return Book{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	book, exists := c.byISBN[isbn]
	if !exists {
		return Book{}, ErrBookNotFound
	}
	book.Title = title
	book.Author = author
	book.Year = year
	book.UpdatedAt = c.clock.Now().UTC().String()
	c.flush(ctx)
	return *book, nil
}

// Borrow hands an available book over to the given borrower.
func (c *Catalog) Borrow(ctx context.Context, isbn, borrower string) (Book, error) {
	if len(borrower) == 0 {
		return Book{}, missingFieldError("borrower")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	book, exists := c.byISBN[isbn]
	if !exists {
		return Book{}, ErrBookNotFound
	}
	if !book.Available {
		return Book{}, ErrBookUnavailable
	}
	book.Available = false
	book.Borrower = borrower
	book.UpdatedAt = c.clock.Now().UTC().String()
	c.flush(ctx)
	return *book, nil
}

// Return puts a book back on the shelf. Returning a book which is
// already available succeeds as a no-op.
func (c *Catalog) Return(ctx context.Context, isbn string) (Book, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	book, exists := c.byISBN[isbn]
	if !exists {
		return Book{}, ErrBookNotFound
	}
	book.Available = true
	book.Borrower = ""
	book.UpdatedAt = c.clock.Now().UTC().String()
	c.flush(ctx)
	return *book, nil
}

// GetOne retrieves a copy of a book record based on its ISBN.
func (c *Catalog) GetOne(_ context.Context, isbn string) (Book, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	book, exists := c.byISBN[isbn]
	if !exists {
		return Book{}, ErrBookNotFound
	}
	return *book, nil
}

// GetAll retrieves copies of all book records in insertion order. Callers
// cannot mutate the catalog through the returned slice.
func (c *Catalog) GetAll(_ context.Context) []Book {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// SearchByTitle retrieves all books whose title contains the given term,
// case-insensitively, in catalog order. An empty term matches everything.
func (c *Catalog) SearchByTitle(_ context.Context, term string) []Book {
	c.mu.Lock()
	defer c.mu.Unlock()

	term = strings.ToLower(term)
	matches := []Book{}
	for _, book := range c.books {
		if strings.Contains(strings.ToLower(book.Title), term) {
			matches = append(matches, *book)
		}
	}
	return matches
}

// SearchByAuthor retrieves all books whose author contains the given term,
// case-insensitively, in catalog order. An empty term matches everything.
func (c *Catalog) SearchByAuthor(_ context.Context, term string) []Book {
	c.mu.Lock()
	defer c.mu.Unlock()

	term = strings.ToLower(term)
	matches := []Book{}
	for _, book := range c.books {
		if strings.Contains(strings.ToLower(book.Author), term) {
			matches = append(matches, *book)
		}
	}
	return matches
}

// Search splits the query into lowercase keywords and ranks the whole
// catalog by relevance. Each keyword found anywhere in the title, author
// or ISBN of a record is worth 3 points, plus 2 more when it also appears
// in the title. Records scoring zero are excluded. Results come back by
// descending score, with ties kept in catalog order.
func (c *Catalog) Search(_ context.Context, query string) []ScoredBook {
	c.mu.Lock()
	defer c.mu.Unlock()

	keywords := strings.Fields(strings.ToLower(query))
	results := []ScoredBook{}
	for _, book := range c.books {
		text := strings.ToLower(book.Title + " " + book.Author + " " + book.ISBN)
		title := strings.ToLower(book.Title)
		score := 0
		for _, keyword := range keywords {
			if !strings.Contains(text, keyword) {
				continue
			}
			score += 3
			if strings.Contains(title, keyword) {
				score += 2
			}
		}
		if score > 0 {
			results = append(results, ScoredBook{Book: *book, Score: score})
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// Len returns the number of books currently in the catalog.
func (c *Catalog) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.books)
}

// flush rewrites the whole snapshot on the storage backend. A failed
// flush keeps the in-memory state authoritative: it is reported as a
// warning and the triggering operation still succeeds.
func (c *Catalog) flush(ctx context.Context) {
	if err := c.storage.Save(ctx, c.snapshotLocked()); err != nil {
		c.logger.Warn("catalog: failed to persist the snapshot. in-memory state kept unpersisted", zap.Error(err))
		return
	}
	c.logger.Debug("catalog: snapshot persisted", zap.Int("books", len(c.books)))
}

// snapshotLocked copies the record set in insertion order. Callers must hold the mutex.
func (c *Catalog) snapshotLocked() []Book {
	books := make([]Book, 0, len(c.books))
	for _, book := range c.books {
		books = append(books, *book)
	}
	return books
}
