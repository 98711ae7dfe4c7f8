package main

import "fmt"

// Book represents a single catalog record. The ISBN acts as the unique
// key of the record and never changes once the book has been added.
// The borrower field is set only while the book is not available.
type Book struct {
	ISBN      string `json:"isbn"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Year      int    `json:"year"`
	Available bool   `json:"available"`
	Borrower  string `json:"borrower,omitempty"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// Status renders the availability part of the book summary line.
func (b Book) Status() string {
	if b.Available {
		return "Available"
	}
	return "Borrowed by: " + b.Borrower
}

// String renders the one-record-per-line summary used by the menu interface.
func (b Book) String() string {
	return fmt.Sprintf("ISBN: %s | Title: %-25s | Author: %-20s | Year: %d | Status: %s",
		b.ISBN, b.Title, b.Author, b.Year, b.Status())
}

// ScoredBook pairs a book with the relevance score computed
// for it during an advanced search.
type ScoredBook struct {
	Book  Book `json:"book"`
	Score int  `json:"score"`
}
