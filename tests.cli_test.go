package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestCLI provides a menu interface over a scripted input
// and an in-memory catalog.
func newTestCLI(t *testing.T, script string) (*CLI, *Catalog, *bytes.Buffer) {
	t.Helper()
	store := &MockCatalogStorage{
		LoadFunc: func(_ context.Context) ([]Book, error) {
			return []Book{}, nil
		},
		SaveFunc: func(_ context.Context, _ []Book) error {
			return nil
		},
	}
	catalog := NewCatalog(context.TODO(), zap.NewNop(), NewMockClocker(), store)
	out := &bytes.Buffer{}
	cli := NewCLI(zap.NewNop(), &Config{}, NewMockUIDHandler("0", true), catalog, strings.NewReader(script), out)
	return cli, catalog, out
}

// Ensure a whole add/borrow/return session drives the catalog and the
// printed status lines follow the borrow state.
func TestCLI_AddBorrowReturnSession(t *testing.T) {
	script := strings.Join([]string{
		"1", "100", "Go", "Alice", "2020", // add
		"5", "100", "Bob", // borrow
		"7",        // list
		"6", "100", // return
		"7", // list
		"9", // exit
	}, "\n") + "\n"
	cli, catalog, out := newTestCLI(t, script)

	require.NoError(t, cli.Start(context.Background()))
	output := out.String()

	assert.Contains(t, output, "Book added successfully!")
	assert.Contains(t, output, "Book borrowed successfully!")
	assert.Contains(t, output, "Status: Borrowed by: Bob")
	assert.Contains(t, output, "Book returned successfully!")
	assert.Contains(t, output, "Exiting system...")

	// the second listing shows the book available again.
	borrowed := strings.Index(output, "Status: Borrowed by: Bob")
	available := strings.LastIndex(output, "Status: Available")
	assert.Greater(t, available, borrowed)

	book, err := catalog.GetOne(context.TODO(), "100")
	require.NoError(t, err)
	assert.True(t, book.Available)
}

// Ensure malformed menu choices and years are recovered at the boundary:
// a message is printed and the loop keeps accepting commands.
func TestCLI_MalformedInputs(t *testing.T) {
	script := strings.Join([]string{
		"abc",                                 // not a number
		"42",                                  // not a menu entry
		"1", "100", "Go", "Alice", "twenty",   // year is not a number
		"9",
	}, "\n") + "\n"
	cli, catalog, out := newTestCLI(t, script)

	require.NoError(t, cli.Start(context.Background()))
	output := out.String()

	assert.Contains(t, output, "Please enter a valid number!")
	assert.Contains(t, output, "Invalid choice!")
	assert.Contains(t, output, "Exiting system...")
	assert.Equal(t, 0, catalog.Len())
}

// Ensure catalog failures surface as messages without ending the session.
func TestCLI_CatalogErrorsAreRecovered(t *testing.T) {
	script := strings.Join([]string{
		"1", "100", "Go", "Alice", "2020", // add
		"1", "100", "Go", "Alice", "2020", // duplicate add
		"4", "404", // remove unknown
		"5", "100", "Bob", // borrow
		"5", "100", "Carol", // borrow again
		"9",
	}, "\n") + "\n"
	cli, catalog, out := newTestCLI(t, script)

	require.NoError(t, cli.Start(context.Background()))
	output := out.String()

	assert.Contains(t, output, "Error: "+ErrDuplicateBook.Error())
	assert.Contains(t, output, "Error: "+ErrBookNotFound.Error())
	assert.Contains(t, output, "Error: "+ErrBookUnavailable.Error())
	assert.Contains(t, output, "Exiting system...")
	assert.Equal(t, 1, catalog.Len())
}

// Ensure both search commands print their results.
func TestCLI_Searches(t *testing.T) {
	script := strings.Join([]string{
		"1", "1", "Java Basics", "A", "2001",
		"1", "2", "C Basics", "Java Corp", "2002",
		"2", "java", // substring search
		"8", "java", // advanced search
		"8", "quantum", // advanced search without matches
		"9",
	}, "\n") + "\n"
	cli, _, out := newTestCLI(t, script)

	require.NoError(t, cli.Start(context.Background()))
	output := out.String()

	assert.Contains(t, output, "Matching by Title:")
	assert.Contains(t, output, "Matching by Author:")
	assert.Contains(t, output, "Search Results (Relevance Score):")
	assert.Contains(t, output, "| Relevance: 5")
	assert.Contains(t, output, "| Relevance: 3")
	assert.Contains(t, output, "No matching books found!")
}

// Ensure an exhausted input stream ends the session cleanly.
func TestCLI_EndOfInput(t *testing.T) {
	cli, _, _ := newTestCLI(t, "7\n")
	assert.NoError(t, cli.Start(context.Background()))
}

// Ensure a done context ends the session cleanly.
func TestCLI_ContextCancellation(t *testing.T) {
	cli, _, _ := newTestCLI(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, cli.Start(ctx))
}

// Ensure the update command overwrites the descriptive fields.
func TestCLI_UpdateBook(t *testing.T) {
	script := strings.Join([]string{
		"1", "100", "Go", "Alice", "2020",
		"3", "100", "Go Second Edition", "Alice Smith", "2024",
		"9",
	}, "\n") + "\n"
	cli, catalog, out := newTestCLI(t, script)

	require.NoError(t, cli.Start(context.Background()))
	assert.Contains(t, out.String(), "Book updated successfully!")

	book, err := catalog.GetOne(context.TODO(), "100")
	require.NoError(t, err)
	assert.Equal(t, "Go Second Edition", book.Title)
	assert.Equal(t, "Alice Smith", book.Author)
	assert.Equal(t, 2024, book.Year)
}
