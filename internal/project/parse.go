package project

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	datePattern    = regexp.MustCompile(`(\d{4})\D+(\d{1,2})\D+(\d{1,2})`)
	integerPattern = regexp.MustCompile(`-?\d+`)
	indexSplit     = regexp.MustCompile(`[^0-9]+`)
)

var (
	yesTokens = map[string]bool{"y": true, "yes": true, "是": true, "有": true, "true": true, "1": true}
	noTokens  = map[string]bool{"n": true, "no": true, "否": true, "无": true, "false": true, "0": true}
)

// cleanCell trims a table cell and normalises line endings. Inner
// newlines are kept; they carry meaning in specification text.
func cleanCell(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.TrimSpace(s)
}

// parseFlag accepts y/yes/是/有/true/1 and n/no/否/无/false/0. An empty
// value is false.
func parseFlag(s string) (bool, error) {
	token := strings.ToLower(cleanCell(s))
	switch {
	case token == "":
		return false, nil
	case yesTokens[token]:
		return true, nil
	case noTokens[token]:
		return false, nil
	}
	return false, errors.New("expected y or n")
}

// parseDate accepts year, month and day separated by any non-digits,
// e.g. 2024年3月15日, 2024-03-15 or 2024/3/15.
func parseDate(s string) (time.Time, error) {
	m := datePattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, errors.New("expected a date such as 2024年3月15日")
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])

	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || int(d.Month()) != month || d.Day() != day {
		return time.Time{}, fmt.Errorf("%04d-%02d-%02d is not a calendar date", year, month, day)
	}
	return d, nil
}

// parseCount returns the first integer in s, ignoring thousands
// separators: "1,200台" is 1200.
func parseCount(s string) (int, error) {
	s = strings.NewReplacer(",", "", "，", "").Replace(s)
	m := integerPattern.FindString(s)
	if m == "" {
		return 0, errors.New("expected a whole number")
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errors.New("must not be negative")
	}
	return n, nil
}

// parseAmount parses a monetary amount such as "1,234,567.89元".
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.NewReplacer(",", "", "，", "", "元", "", "¥", "", "￥", "", " ", "").Replace(s)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.New("expected an amount such as 1234567.89")
	}
	if d.IsNegative() {
		return decimal.Zero, errors.New("must not be negative")
	}
	return d, nil
}

// parseIndices reads a list of goods keys such as "1 3 5" or "1、3".
// "N", "无" and empty mean none.
func parseIndices(s string) ([]int, error) {
	s = cleanCell(s)
	switch strings.ToLower(s) {
	case "", "n", "no", "无", "none", "-":
		return nil, nil
	}
	if strings.IndexFunc(s, func(r rune) bool { return r >= '0' && r <= '9' }) < 0 {
		return nil, errors.New("expected goods numbers such as 1 3 5")
	}

	var out []int
	for _, part := range indexSplit.Split(s, -1) {
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
