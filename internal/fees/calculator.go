package fees

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownService          = errors.New("unknown service type")
	ErrUnknownSubType          = errors.New("unknown service sub type")
	ErrInvalidLine             = errors.New("invalid service line")
	ErrNoServices              = errors.New("no services")
	ErrCopiesNotSupported      = errors.New("additional copies are not priced for this service")
	ErrTranslationNotSupported = errors.New("bundled translation is not available for this service")
)

// Input limits. Within them the largest possible quote, VAT included, fits in Money.
const (
	// MaxUnits bounds quantity, copies and pages of a line.
	MaxUnits = 10_000
	// MaxWords bounds the word count of a line.
	MaxWords = 10_000_000
	// MaxLines bounds the number of lines in one quote.
	MaxLines = 100
)

// Line is one requested service in a calculation.
type Line struct {
	Type               ServiceType `json:"type"`
	SubType            string      `json:"sub_type,omitempty"`
	Quantity           int         `json:"quantity"`
	Copies             int         `json:"copies"`
	Pages              int         `json:"pages"`
	Words              int         `json:"words"`
	IncludeTranslation bool        `json:"include_translation"`
	Description        string      `json:"description,omitempty"`
}

// BreakdownItem is one human readable step of a line's price.
type BreakdownItem struct {
	Text   string `json:"text"`
	Calc   string `json:"calc"`
	Amount Money  `json:"amount"`
}

// PricedLine is a normalized Line together with its price.
type PricedLine struct {
	Line
	UnitPrice Money           `json:"unit_price"`
	Items     []BreakdownItem `json:"items"`
	Cost      Money           `json:"cost"`
}

// Quote is the priced result for a set of lines.
type Quote struct {
	Lines    []PricedLine `json:"lines"`
	Subtotal Money        `json:"subtotal"`
	VAT      Money        `json:"vat"`
	Total    Money        `json:"total"`
}

// TranslationBreakdown prices a translation certificate by word count:
// the first 100 words, then each started 100 up to 1000, then each started 100 beyond.
func TranslationBreakdown(words int) ([]BreakdownItem, Money) {
	if words <= 0 {
		return nil, 0
	}

	items := []BreakdownItem{{
		Text:   "first 100 words",
		Calc:   "1 × " + translationFirst100.String(),
		Amount: translationFirst100,
	}}
	total := translationFirst100

	switch {
	case words <= 100:
	case words <= 1000:
		remaining := words - 100
		hundreds := ceilDiv(remaining, 100)
		amount := translationPer100To1000.Times(hundreds)
		items = append(items, BreakdownItem{
			Text:   fmt.Sprintf("%d additional words (%d × 100)", remaining, hundreds),
			Calc:   fmt.Sprintf("%d × %s", hundreds, translationPer100To1000),
			Amount: amount,
		})
		total += amount
	default:
		mid := translationPer100To1000.Times(9)
		items = append(items, BreakdownItem{
			Text:   "next 900 words (100-1000)",
			Calc:   "9 × " + translationPer100To1000.String(),
			Amount: mid,
		})
		total += mid

		remaining := words - 1000
		hundreds := ceilDiv(remaining, 100)
		amount := translationPer100Beyond.Times(hundreds)
		items = append(items, BreakdownItem{
			Text:   fmt.Sprintf("%d words beyond 1000 (%d × 100)", remaining, hundreds),
			Calc:   fmt.Sprintf("%d × %s", hundreds, translationPer100Beyond),
			Amount: amount,
		})
		total += amount
	}
	return items, total
}

// TranslationCost returns the price of a single translation certificate.
func TranslationCost(words int) Money {
	_, total := TranslationBreakdown(words)
	return total
}

// HalfTranslationCost is charged when a translation is bundled with another document.
func HalfTranslationCost(words int) Money {
	return TranslationCost(words).Half()
}

// PhotocopyBreakdown prices certified photocopies. The first copy starts at the full
// first-page rate, every further copy at the reduced one; additional pages cost the same on all copies.
func PhotocopyBreakdown(pages, copies int) ([]BreakdownItem, Money) {
	if pages <= 0 || copies <= 0 {
		return nil, 0
	}

	var (
		items []BreakdownItem
		total Money
	)
	extraPages := photocopyAdditionalPage.Times(pages - 1)
	for i := 1; i <= copies; i++ {
		first := photocopyCopyFirstPage
		if i == 1 {
			first = photocopyFirstPage
		}
		items = append(items, BreakdownItem{
			Text:   fmt.Sprintf("copy #%d, first page", i),
			Calc:   first.String(),
			Amount: first,
		})
		if pages > 1 {
			items = append(items, BreakdownItem{
				Text:   fmt.Sprintf("copy #%d, %d additional pages", i, pages-1),
				Calc:   fmt.Sprintf("%d × %s", pages-1, photocopyAdditionalPage),
				Amount: extraPages,
			})
		}
		total += first + extraPages
	}
	return items, total
}

// PhotocopyCost returns the total for all copies of a photocopied document.
func PhotocopyCost(pages, copies int) Money {
	_, total := PhotocopyBreakdown(pages, copies)
	return total
}

// PriceLine normalizes a line and computes its cost.
func PriceLine(l Line) (PricedLine, error) {
	if l.Quantity < 0 || l.Copies < 0 || l.Pages < 0 || l.Words < 0 {
		return PricedLine{}, fmt.Errorf("%w: negative value", ErrInvalidLine)
	}
	if l.Quantity > MaxUnits || l.Copies > MaxUnits || l.Pages > MaxUnits {
		return PricedLine{}, fmt.Errorf("%w: quantity, copies and pages are limited to %d", ErrInvalidLine, MaxUnits)
	}
	if l.Words > MaxWords {
		return PricedLine{}, fmt.Errorf("%w: words are limited to %d", ErrInvalidLine, MaxWords)
	}
	svc, ok := Lookup(l.Type)
	if !ok {
		return PricedLine{}, fmt.Errorf("%w: %q", ErrUnknownService, l.Type)
	}
	l.Quantity = atLeastOne(l.Quantity)
	l.Copies = atLeastOne(l.Copies)
	l.Pages = atLeastOne(l.Pages)

	if !svc.Pages {
		l.Pages = 1
	}
	if !svc.Words && !svc.Translation {
		l.Words = 0
	}
	if l.Copies > 1 && svc.CopyRate == 0 {
		return PricedLine{}, fmt.Errorf("%w: %s", ErrCopiesNotSupported, svc.Type)
	}
	if l.IncludeTranslation && !svc.Translation {
		return PricedLine{}, fmt.Errorf("%w: %s", ErrTranslationNotSupported, svc.Type)
	}

	out := PricedLine{Line: l}

	switch svc.Type {
	case Translation:
		l.SubType = ""
		items, single := TranslationBreakdown(l.Words)
		out.Line = l
		out.UnitPrice = single
		out.Items = items
		out.Cost = single.Times(l.Quantity)
		if l.Quantity > 1 {
			out.Items = append(out.Items, BreakdownItem{
				Text:   fmt.Sprintf("%d documents", l.Quantity),
				Calc:   fmt.Sprintf("%d × %s", l.Quantity, single),
				Amount: out.Cost,
			})
		}
		if l.Copies > 1 {
			copies := svc.CopyRate.Times(l.Copies - 1)
			out.Items = append(out.Items, copyItem(l.Copies-1, svc.CopyRate, copies))
			out.Cost += copies
		}
	case Photocopy:
		l.SubType = ""
		items, single := PhotocopyBreakdown(l.Pages, l.Copies)
		out.Line = l
		out.UnitPrice = single
		out.Items = items
		out.Cost = single.Times(l.Quantity)
		if l.Quantity > 1 {
			out.Items = append(out.Items, BreakdownItem{
				Text:   fmt.Sprintf("%d documents", l.Quantity),
				Calc:   fmt.Sprintf("%d × %s", l.Quantity, single),
				Amount: out.Cost,
			})
		}
	default:
		st, ok := svc.SubType(l.SubType)
		if !ok {
			return PricedLine{}, fmt.Errorf("%w: %s/%s", ErrUnknownSubType, svc.Type, l.SubType)
		}
		l.SubType = st.Value
		out.Line = l
		out.UnitPrice = st.Price
		base := st.Price.Times(l.Quantity)
		out.Items = []BreakdownItem{{
			Text:   st.Label,
			Calc:   fmt.Sprintf("%d × %s", l.Quantity, st.Price),
			Amount: base,
		}}
		out.Cost = base
		if l.Copies > 1 {
			copies := svc.CopyRate.Times(l.Copies - 1).Times(l.Quantity)
			out.Items = append(out.Items, copyItem((l.Copies-1)*l.Quantity, svc.CopyRate, copies))
			out.Cost += copies
		}
		if l.IncludeTranslation && l.Words > 0 {
			half := HalfTranslationCost(l.Words).Times(l.Quantity)
			out.Items = append(out.Items, BreakdownItem{
				Text:   fmt.Sprintf("bundled translation, %d words (half rate)", l.Words),
				Calc:   fmt.Sprintf("%d × %s ÷ 2", l.Quantity, TranslationCost(l.Words)),
				Amount: half,
			})
			out.Cost += half
		}
	}

	if out.Description == "" {
		out.Description = describe(svc, out.Line)
	}
	return out, nil
}

// Calculate prices every line and adds VAT on the subtotal.
func Calculate(lines []Line) (*Quote, error) {
	if len(lines) == 0 {
		return nil, ErrNoServices
	}
	if len(lines) > MaxLines {
		return nil, fmt.Errorf("%w: at most %d lines", ErrInvalidLine, MaxLines)
	}
	q := &Quote{Lines: make([]PricedLine, 0, len(lines))}
	for i, l := range lines {
		pl, err := PriceLine(l)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		q.Lines = append(q.Lines, pl)
		q.Subtotal += pl.Cost
	}
	q.VAT = VAT(q.Subtotal)
	q.Total = q.Subtotal + q.VAT
	return q, nil
}

// VAT returns the tax on a subtotal, rounded half up to the agora.
func VAT(subtotal Money) Money {
	return divRound(subtotal*VATPercent, 100)
}

func describe(svc Service, l Line) string {
	if len(svc.SubTypes) <= 1 || svc.Type == Translation || svc.Type == Photocopy {
		return svc.Label
	}
	st, _ := svc.SubType(l.SubType)
	return svc.Label + " - " + st.Label
}

func copyItem(n int, rate, amount Money) BreakdownItem {
	return BreakdownItem{
		Text:   fmt.Sprintf("%d additional copies", n),
		Calc:   fmt.Sprintf("%d × %s", n, rate),
		Amount: amount,
	}
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
