package usecase

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/nguyentranbao-ct/shop-assistant/internal/models"
)

const (
	MinQueryLength = 2
	MaxQueryLength = 200
)

var unsafeQueryChars = strings.NewReplacer("<", "", ">", "", `"`, "", "'", "")

// NormalizeQuery trims query, checks its length and strips characters that
// could break out of HTML or quoted contexts.
func NormalizeQuery(query string) (string, error) {
	q := strings.TrimSpace(query)
	n := utf8.RuneCountInString(q)
	if n < MinQueryLength {
		return "", models.ErrQueryTooShort
	}
	if n > MaxQueryLength {
		return "", models.ErrQueryTooLong
	}
	q = strings.TrimSpace(unsafeQueryChars.Replace(q))
	if q == "" {
		return "", models.ErrQueryTooShort
	}
	return q, nil
}

type ParsedQuery struct {
	Query    string `json:"query"`
	MinPrice int    `json:"min_price,omitempty"`
	MaxPrice int    `json:"max_price,omitempty"`
	Currency string `json:"currency"`
}

type pricePattern struct {
	re   *regexp.Regexp
	kind string
}

var (
	pricePatterns = []pricePattern{
		{regexp.MustCompile(`(?i)under\s+(\d+)`), "max"},
		{regexp.MustCompile(`(?i)below\s+(\d+)`), "max"},
		{regexp.MustCompile(`(?i)less\s+than\s+(\d+)`), "max"},
		{regexp.MustCompile(`(?i)over\s+(\d+)`), "min"},
		{regexp.MustCompile(`(?i)above\s+(\d+)`), "min"},
		{regexp.MustCompile(`(?i)more\s+than\s+(\d+)`), "min"},
		{regexp.MustCompile(`(\d+)\s*-\s*(\d+)`), "range"},
	}
	pricePhrase   = regexp.MustCompile(`(?i)\b(?:under|below|over|above|less\s+than|more\s+than)\s+\d+|\d+\s*-\s*\d+`)
	currencyToken = regexp.MustCompile(`(?i)\b(egp|usd|eur)\b|[£€$]`)
	spaces        = regexp.MustCompile(`\s+`)

	searchCommand = regexp.MustCompile(`(?i)^/(search|find)\b`)
	searchPhrase  = regexp.MustCompile(`(?i)^(find|search|show|look for|get me|i need|i want|looking for|where can i buy|where to buy|buy|purchase)\s+`)
	trailingPrice = regexp.MustCompile(`(?i)\s+(under|below|over|above|for|of|in|at)\s+\d+`)

	searchIntents = []*regexp.Regexp{
		regexp.MustCompile(`(find|search|show|look for|get me|i need|i want|looking for).*(clothing|clothes|fashion|dress|shirt|pants|jeans|shoes|jacket|sweater|t-shirt|tshirt)`),
		regexp.MustCompile(`(find|search|show|look for|get me|i need|i want|looking for).*\b(under|below|over|above)\s+\d+`),
		regexp.MustCompile(`(where can i buy|where to buy|buy|purchase)`),
		regexp.MustCompile(`(price|cost|how much).*(for|of)`),
	}
)

// ParseSearchQuery pulls a price range and currency out of a natural language
// query and returns what is left as the search terms.
func ParseSearchQuery(text string) ParsedQuery {
	out := ParsedQuery{Currency: "EGP"}
	for _, p := range pricePatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		switch p.kind {
		case "max":
			out.MaxPrice, _ = strconv.Atoi(m[1])
		case "min":
			out.MinPrice, _ = strconv.Atoi(m[1])
		case "range":
			out.MinPrice, _ = strconv.Atoi(m[1])
			out.MaxPrice, _ = strconv.Atoi(m[2])
		}
		break
	}
	if m := currencyToken.FindString(text); m != "" {
		out.Currency = strings.ToUpper(m)
	}

	q := pricePhrase.ReplaceAllString(text, "")
	q = currencyToken.ReplaceAllString(q, "")
	out.Query = strings.TrimSpace(spaces.ReplaceAllString(q, " "))
	return out
}

// IsSearchQuery reports whether a chat message asks for products.
func IsSearchQuery(message string) bool {
	lower := strings.ToLower(strings.TrimSpace(message))
	if len(lower) < MinQueryLength {
		return false
	}
	if searchCommand.MatchString(lower) {
		return true
	}
	for _, re := range searchIntents {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

// ExtractSearchQuery strips commands, search phrases and prices from message.
func ExtractSearchQuery(message string) string {
	message = strings.TrimSpace(message)
	if loc := searchCommand.FindStringIndex(message); loc != nil {
		return strings.TrimSpace(message[loc[1]:])
	}
	q := searchPhrase.ReplaceAllString(message, "")
	q = trailingPrice.ReplaceAllString(q, "")
	q = currencyToken.ReplaceAllString(q, "")
	q = strings.TrimSpace(spaces.ReplaceAllString(q, " "))
	if q == "" {
		return message
	}
	return q
}
