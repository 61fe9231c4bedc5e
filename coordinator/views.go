// ABOUTME: The enumerated panel views and their display titles
// ABOUTME: ParseView is the only way surfaces turn user input into a View
package coordinator

import (
	"fmt"
	"strings"
)

// View identifies one panel.
type View string

const (
	Dashboard      View = "dashboard"
	Campaigns      View = "campaigns"
	SalesPitch     View = "sales_pitch"
	MarketAnalysis View = "market_analysis"
	LeadScoring    View = "lead_scoring"
	Insights       View = "insights"
)

// Views lists every panel in sidebar order.
var Views = []View{Dashboard, Campaigns, SalesPitch, MarketAnalysis, LeadScoring, Insights}

// ParseView accepts exactly the enumerated view ids.
func ParseView(s string) (View, error) {
	for _, v := range Views {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownView, s)
}

// Title turns a view id into a header, e.g. "sales_pitch" becomes "Sales Pitch".
func Title(v View) string {
	words := strings.Split(string(v), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func (v View) String() string {
	return string(v)
}
