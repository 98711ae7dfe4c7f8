package main

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
)

const menu = `
===== Library Management System =====
1. Add New Book
2. Search Books
3. Update Book Details
4. Remove Book
5. Borrow Book
6. Return Book
7. List All Books
8. Advanced Search
9. Exit
`

// CLI drives the interactive menu over line-based input and output.
// Each executed command maps 1:1 to a catalog operation. Every failure
// is recovered here: a message is printed and the menu loop continues.
type CLI struct {
	logger  *zap.Logger
	config  *Config
	ids     UIDHandler
	catalog CatalogProvider
	in      io.Reader
	out     io.Writer
	lines   chan string
}

// NewCLI provides a ready to use menu interface on top of the catalog.
func NewCLI(logger *zap.Logger, config *Config, ids UIDHandler, catalog CatalogProvider, in io.Reader, out io.Writer) *CLI {
	return &CLI{
		logger:  logger,
		config:  config,
		ids:     ids,
		catalog: catalog,
		in:      in,
		out:     out,
		lines:   make(chan string),
	}
}

// scan funnels input lines into a channel so that reads
// can be abandoned once the context is done.
func (cli *CLI) scan() {
	scanner := bufio.NewScanner(cli.in)
	for scanner.Scan() {
		cli.lines <- scanner.Text()
	}
	close(cli.lines)
}

// readLine waits for the next input line or for the context to be done.
func (cli *CLI) readLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-cli.lines:
		if !ok {
			return "", io.EOF
		}
		return line, nil
	}
}

// prompt displays a label and waits for the user answer.
func (cli *CLI) prompt(ctx context.Context, label string) (string, error) {
	fmt.Fprint(cli.out, label)
	return cli.readLine(ctx)
}

// Start runs the menu loop until the user exits, the input stream ends
// or the context is done. Commands run to completion, flush included,
// before the next one is accepted.
func (cli *CLI) Start(ctx context.Context) error {
	sessionID := cli.ids.Generate(SessionIDPrefix)
	logger := cli.logger.With(zap.String("session.id", sessionID))
	logger.Info("cli: menu session started")
	go cli.scan()

	for {
		fmt.Fprint(cli.out, menu)
		choiceInput, err := cli.prompt(ctx, "Enter choice: ")
		if err != nil {
			logger.Info("cli: menu session ended", zap.NamedError("reason", err))
			return nil
		}

		choice, err := ParseNumber(choiceInput)
		if err != nil {
			fmt.Fprintln(cli.out, "Please enter a valid number!")
			continue
		}

		cctx := context.WithValue(ctx, CommandIDContextKey, cli.ids.Generate(CommandIDPrefix))
		switch choice {
		case 1:
			cli.AddBook(cctx)
		case 2:
			cli.SearchBooks(cctx)
		case 3:
			cli.UpdateBook(cctx)
		case 4:
			cli.RemoveBook(cctx)
		case 5:
			cli.BorrowBook(cctx)
		case 6:
			cli.ReturnBook(cctx)
		case 7:
			cli.ListBooks(cctx)
		case 8:
			cli.AdvancedSearch(cctx)
		case 9:
			fmt.Fprintln(cli.out, "Exiting system...")
			logger.Info("cli: menu session ended", zap.String("reason", "requested by user"))
			return nil
		default:
			fmt.Fprintln(cli.out, "Invalid choice!")
		}
	}
}
