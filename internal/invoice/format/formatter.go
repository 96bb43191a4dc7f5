package format

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	seqPadRe = regexp.MustCompile(`\{SEQ(\d+)\}`)
)

// DefaultInvoiceNumberTemplate renders INV-{tenant}-{YYYYMM}-{zero padded sequence}.
const DefaultInvoiceNumberTemplate = "INV-{TENANT}-{YYYY}{MM}-{SEQ6}"

// FormatInvoiceNumber renders template for a tenant, an issue time and a
// sequence value. Padded sequences keep growing past their width instead of
// failing, so sequence 1000000 renders as 1000000 under {SEQ6}.
//
// Date tokens use issuedAt's own location; callers convert to the business
// timezone first.
func FormatInvoiceNumber(template string, tenantID int64, issuedAt time.Time, seq int64) (string, error) {
	if template == "" {
		return "", fmt.Errorf("invoice number template is empty")
	}
	if seq <= 0 {
		return "", fmt.Errorf("invalid invoice sequence: %d", seq)
	}

	out := template
	out = strings.ReplaceAll(out, "{TENANT}", strconv.FormatInt(tenantID, 10))
	out = strings.ReplaceAll(out, "{YYYY}", issuedAt.Format("2006"))
	out = strings.ReplaceAll(out, "{YY}", issuedAt.Format("06"))
	out = strings.ReplaceAll(out, "{MM}", issuedAt.Format("01"))
	out = strings.ReplaceAll(out, "{DD}", issuedAt.Format("02"))
	out = strings.ReplaceAll(out, "{SEQ}", strconv.FormatInt(seq, 10))

	out = seqPadRe.ReplaceAllStringFunc(out, func(m string) string {
		match := seqPadRe.FindStringSubmatch(m)
		width, err := strconv.Atoi(match[1])
		if err != nil || width <= 0 {
			return m
		}
		return fmt.Sprintf("%0*d", width, seq)
	})

	if strings.ContainsAny(out, "{}") {
		return "", fmt.Errorf("unresolved token in invoice format: %s", out)
	}
	return out, nil
}

// Period returns the YYYYMM bucket an invoice issued at t belongs to.
func Period(t time.Time) string {
	return t.Format("200601")
}
