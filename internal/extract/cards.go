package extract

import "fmt"

// CardSource resolves the live list of result cards. Every call sees the page as it is now.
type CardSource interface {
	CountCards(selector string) (int, error)
	CardAt(selector string, index int) (Card, error)
}

// CardEnumerator walks result cards by position. The results view re-renders in place after a
// card is activated, so references are never kept: each step resolves the list again and takes
// whatever sits at that index. The number of steps is fixed when the enumerator is created.
type CardEnumerator struct {
	src      CardSource
	selector string
	total    int
}

func NewCardEnumerator(src CardSource, selector string) (*CardEnumerator, error) {
	n, err := src.CountCards(selector)
	if err != nil {
		return nil, fmt.Errorf("count cards %q: %w", selector, err)
	}
	return &CardEnumerator{src: src, selector: selector, total: n}, nil
}

// Len is the card count seen at construction.
func (e *CardEnumerator) Len() int {
	return e.total
}

// At returns the card currently at index i. Cards removed since construction surface as errors.
func (e *CardEnumerator) At(i int) (Card, error) {
	if i < 0 || i >= e.total {
		return nil, fmt.Errorf("card index %d out of range [0,%d)", i, e.total)
	}
	card, err := e.src.CardAt(e.selector, i)
	if err != nil {
		return nil, fmt.Errorf("resolve card %d: %w", i, err)
	}
	return card, nil
}
