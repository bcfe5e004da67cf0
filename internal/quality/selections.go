// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package quality

import (
	"regexp"
	"strings"
)

var (
	tickerRe   = regexp.MustCompile(`\b[A-Z]{2,5}\b`)
	ordinalRe  = regexp.MustCompile(`第\s*(\d+|[一二三四五六七八九十]+)\s*[只支个]`)
	numberedRe = regexp.MustCompile(`(?m)^\s*(\d{1,2})\s*[.)、）]`)
)

// stopWords are uppercase tokens that look like tickers but are not picks:
// abbreviations and the plain English words these posts use in headings.
var stopWords = map[string]bool{
	"AI": true, "AM": true, "PM": true, "OK": true, "VS": true, "US": true,
	"USA": true, "USD": true, "RMB": true, "CNY": true, "HK": true,
	"THE": true, "AND": true, "FOR": true, "NEW": true, "TOP": true,
	"BUY": true, "SELL": true, "HOLD": true, "PICK": true, "PICKS": true,
	"ALPHA": true, "SA": true, "CEO": true, "CFO": true, "ETF": true,
	"IPO": true, "EPS": true, "PE": true, "YTD": true, "GDP": true,
	"CPI": true, "FED": true, "SEC": true, "NYSE": true, "API": true,
	"APP": true, "FAQ": true, "PDF": true, "TIPS": true,
	"OCR": true, "LLM": true, "VIP": true, "FAQS": true, "INFO": true,
	"STOCK": true, "LIST": true, "LISTS": true, "TODAY": true, "WEEK": true,
	"NOTE": true, "NOTES": true, "RATE": true, "RATES": true, "DAILY": true,
	"NEWS": true, "YEAR": true, "MONTH": true, "DATE": true, "TIME": true,
	"PRICE": true, "SHARE": true, "TRADE": true, "WATCH": true, "RANK": true,
	"BEST": true, "HOT": true, "MUST": true, "MORE": true, "FREE": true,
	"LINK": true, "DATA": true, "BULL": true, "BEAR": true, "LONG": true,
	"SHORT": true, "HIGH": true, "LOW": true, "UP": true, "DOWN": true,
	"NOW": true, "ALL": true, "ONE": true, "TWO": true, "OF": true,
	"IN": true, "ON": true, "TO": true, "IS": true, "IT": true,
	"BY": true, "AT": true, "OR": true, "AN": true, "NO": true,
	"MY": true, "WE": true, "BE": true, "DO": true, "GO": true,
}

// CountSelections counts the selection tokens in text. Three families are
// recognized: distinct ticker symbols, distinct ordinal markers (第3只), and
// distinct numbered list markers at line start (1. 2) 3、). The largest
// family count wins, so a numbered list of tickers is not counted twice.
func CountSelections(text string) int {
	tickers := map[string]bool{}
	for _, t := range tickerRe.FindAllString(text, -1) {
		if !stopWords[t] {
			tickers[t] = true
		}
	}

	ordinals := map[string]bool{}
	for _, m := range ordinalRe.FindAllStringSubmatch(text, -1) {
		ordinals[strings.TrimSpace(m[1])] = true
	}

	numbered := map[string]bool{}
	for _, m := range numberedRe.FindAllStringSubmatch(text, -1) {
		numbered[strings.TrimLeft(m[1], "0")] = true
	}

	return max(len(tickers), len(ordinals), len(numbered))
}
