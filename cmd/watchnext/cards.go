package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"watchnext/internal/browse"
)

const overviewColumnWidth = 60

// cardPrinter collects cards for a page and, on a terminal, announces
// each batch of placeholder slots while the lookups are in flight.
type cardPrinter struct {
	mu       sync.Mutex
	out      io.Writer
	progress bool
	cards    []browse.Card
	empty    bool
}

func newCardPrinter(out io.Writer, progress bool) *cardPrinter {
	return &cardPrinter{out: out, progress: progress}
}

func (p *cardPrinter) NoMoreItems(string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.empty = true
}

func (p *cardPrinter) BeginBatch(_ string, offset int, titles []string) {
	if !p.progress {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "fetching %d-%d\n", offset+1, offset+len(titles))
	for _, title := range titles {
		fmt.Fprintf(p.out, "  · %s\n", title)
	}
}

func (p *cardPrinter) Card(_ string, card browse.Card) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cards = append(p.cards, card)
}

// render prints the collected page as a table, or the no-more-items
// notice when the page was empty.
func (p *cardPrinter) render() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.empty || len(p.cards) == 0 {
		fmt.Fprintln(p.out, "No more movies to show.")
		return
	}

	ordered := make([]browse.Card, len(p.cards))
	for _, card := range p.cards {
		ordered[card.Slot] = card
	}
	fmt.Fprintln(p.out, renderCardsTable(ordered))
}

func renderCardsTable(cards []browse.Card) string {
	rows := make([][]string, 0, len(cards))
	for _, card := range cards {
		rows = append(rows, []string{
			fmt.Sprintf("%d", card.Slot+1),
			card.Meta.Title,
			card.Meta.Year,
			card.Meta.Rating,
			truncate(card.Meta.Overview, overviewColumnWidth),
			card.SearchURL,
		})
	}
	return renderTable([]string{"#", "Title", "Year", "Rating", "Overview", "Search"}, rows, 1, 4)
}

func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if len(value) <= limit {
		return value
	}
	return strings.TrimSpace(value[:limit-1]) + "…"
}
