package domain

import "time"

// Till receipts carry dates as "YY.MM.DD HH:mm"; the ledger stores the
// canonical "YYYY-MM-DD HH:mm" form.
var ticketDateLayouts = []string{
	"06.01.02 15:04",
	"2006-01-02 15:04",
}

const canonicalTicketDate = "2006-01-02 15:04"

// NormalizeTicketDate parses a till-submitted date and reformats it to the
// canonical form. Returns ErrInvalidTicketDate when no known layout matches.
func NormalizeTicketDate(raw string) (string, error) {
	for _, layout := range ticketDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(canonicalTicketDate), nil
		}
	}
	return "", ErrInvalidTicketDate
}
