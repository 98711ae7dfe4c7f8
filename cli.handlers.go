package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// AddBook collects a new book definition and inserts it into the catalog.
func (cli *CLI) AddBook(ctx context.Context) {
	commandID := GetValueFromContext(ctx, CommandIDContextKey)
	fmt.Fprintln(cli.out, "\n--- Add New Book ---")

	isbn, err := cli.prompt(ctx, "Enter ISBN: ")
	if err != nil {
		return
	}
	title, err := cli.prompt(ctx, "Enter Title: ")
	if err != nil {
		return
	}
	author, err := cli.prompt(ctx, "Enter Author: ")
	if err != nil {
		return
	}
	yearInput, err := cli.prompt(ctx, "Enter Publication Year: ")
	if err != nil {
		return
	}
	year, err := ParseNumber(yearInput)
	if err != nil {
		fmt.Fprintln(cli.out, "Please enter a valid number!")
		return
	}

	book, err := cli.catalog.Add(ctx, isbn, title, author, year)
	if err != nil {
		cli.logger.Error("cli: failed to add book",
			zap.String("command.id", commandID), zap.String("book.isbn", isbn), zap.Error(err))
		fmt.Fprintln(cli.out, "Error:", err)
		return
	}
	cli.logger.Info("cli: book added",
		zap.String("command.id", commandID), zap.String("book.isbn", book.ISBN))
	fmt.Fprintln(cli.out, "Book added successfully!")
}

// SearchBooks runs the same term against title and author searches.
func (cli *CLI) SearchBooks(ctx context.Context) {
	fmt.Fprintln(cli.out, "\n--- Search Books ---")
	term, err := cli.prompt(ctx, "Enter search term: ")
	if err != nil {
		return
	}

	fmt.Fprintln(cli.out, "\nMatching by Title:")
	for _, book := range cli.catalog.SearchByTitle(ctx, term) {
		fmt.Fprintln(cli.out, book)
	}

	fmt.Fprintln(cli.out, "\nMatching by Author:")
	for _, book := range cli.catalog.SearchByAuthor(ctx, term) {
		fmt.Fprintln(cli.out, book)
	}
}

// UpdateBook collects new descriptive fields for an existing book.
func (cli *CLI) UpdateBook(ctx context.Context) {
	commandID := GetValueFromContext(ctx, CommandIDContextKey)
	fmt.Fprintln(cli.out, "\n--- Update Book ---")

	isbn, err := cli.prompt(ctx, "Enter ISBN of book to update: ")
	if err != nil {
		return
	}
	title, err := cli.prompt(ctx, "Enter new title: ")
	if err != nil {
		return
	}
	author, err := cli.prompt(ctx, "Enter new author: ")
	if err != nil {
		return
	}
	yearInput, err := cli.prompt(ctx, "Enter new publication year: ")
	if err != nil {
		return
	}
	year, err := ParseNumber(yearInput)
	if err != nil {
		fmt.Fprintln(cli.out, "Please enter a valid number!")
		return
	}

	book, err := cli.catalog.Update(ctx, isbn, title, author, year)
	if err != nil {
		cli.logger.Error("cli: failed to update book",
			zap.String("command.id", commandID), zap.String("book.isbn", isbn), zap.Error(err))
		fmt.Fprintln(cli.out, "Error:", err)
		return
	}
	cli.logger.Info("cli: book updated",
		zap.String("command.id", commandID), zap.String("book.isbn", book.ISBN))
	fmt.Fprintln(cli.out, "Book updated successfully!")
}

// RemoveBook deletes a book record from the catalog.
func (cli *CLI) RemoveBook(ctx context.Context) {
	commandID := GetValueFromContext(ctx, CommandIDContextKey)
	fmt.Fprintln(cli.out, "\n--- Remove Book ---")

	isbn, err := cli.prompt(ctx, "Enter ISBN of book to remove: ")
	if err != nil {
		return
	}

	book, err := cli.catalog.Remove(ctx, isbn)
	if err != nil {
		cli.logger.Error("cli: failed to remove book",
			zap.String("command.id", commandID), zap.String("book.isbn", isbn), zap.Error(err))
		fmt.Fprintln(cli.out, "Error:", err)
		return
	}
	cli.logger.Info("cli: book removed",
		zap.String("command.id", commandID), zap.String("book.isbn", book.ISBN))
	fmt.Fprintln(cli.out, "Book removed successfully!")
}

// BorrowBook hands a book over to a borrower.
func (cli *CLI) BorrowBook(ctx context.Context) {
	commandID := GetValueFromContext(ctx, CommandIDContextKey)
	fmt.Fprintln(cli.out, "\n--- Borrow Book ---")

	isbn, err := cli.prompt(ctx, "Enter ISBN of book to borrow: ")
	if err != nil {
		return
	}
	borrower, err := cli.prompt(ctx, "Enter borrower name: ")
	if err != nil {
		return
	}

	book, err := cli.catalog.Borrow(ctx, isbn, borrower)
	if err != nil {
		cli.logger.Error("cli: failed to borrow book",
			zap.String("command.id", commandID), zap.String("book.isbn", isbn), zap.Error(err))
		fmt.Fprintln(cli.out, "Error:", err)
		return
	}
	cli.logger.Info("cli: book borrowed",
		zap.String("command.id", commandID), zap.String("book.isbn", book.ISBN),
		zap.String("book.borrower", book.Borrower))
	fmt.Fprintln(cli.out, "Book borrowed successfully!")
}

// ReturnBook puts a borrowed book back on the shelf.
func (cli *CLI) ReturnBook(ctx context.Context) {
	commandID := GetValueFromContext(ctx, CommandIDContextKey)
	fmt.Fprintln(cli.out, "\n--- Return Book ---")

	isbn, err := cli.prompt(ctx, "Enter ISBN of book to return: ")
	if err != nil {
		return
	}

	book, err := cli.catalog.Return(ctx, isbn)
	if err != nil {
		cli.logger.Error("cli: failed to return book",
			zap.String("command.id", commandID), zap.String("book.isbn", isbn), zap.Error(err))
		fmt.Fprintln(cli.out, "Error:", err)
		return
	}
	cli.logger.Info("cli: book returned",
		zap.String("command.id", commandID), zap.String("book.isbn", book.ISBN))
	fmt.Fprintln(cli.out, "Book returned successfully!")
}

// ListBooks prints the whole catalog in insertion order.
func (cli *CLI) ListBooks(ctx context.Context) {
	fmt.Fprintln(cli.out, "\n--- All Books ---")
	for _, book := range cli.catalog.GetAll(ctx) {
		fmt.Fprintln(cli.out, book)
	}
}

// AdvancedSearch runs the relevance-ranked keyword search.
func (cli *CLI) AdvancedSearch(ctx context.Context) {
	fmt.Fprintln(cli.out, "\n--- Advanced Search ---")
	query, err := cli.prompt(ctx, "Enter search query: ")
	if err != nil {
		return
	}

	results := cli.catalog.Search(ctx, query)
	if len(results) == 0 {
		fmt.Fprintln(cli.out, "No matching books found!")
		return
	}

	fmt.Fprintln(cli.out, "\nSearch Results (Relevance Score):")
	for _, result := range results {
		fmt.Fprintf(cli.out, "%s | Relevance: %d\n", result.Book, result.Score)
	}
}
