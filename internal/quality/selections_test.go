// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountSelections(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"none", "今天没有推荐", 0},
		{"three tickers", "AAPL, NVDA 和 TSLA", 3},
		{"dollar tickers", "$AAPL $MSFT $GOOG", 3},
		{"duplicates count once", "AAPL AAPL NVDA AAPL", 2},
		{"stop words ignored", "THE CEO of AAPL said USD ETF", 1},
		{"mixed case words are not tickers", "Alpha Picks Seeking Alpha", 0},
		{"ordinal markers", "第一只是苹果，第二只是英伟达，第3只是特斯拉", 3},
		{"ordinal repeated", "第一只 第一只", 1},
		{"numbered list", "1. 苹果\n2) 英伟达\n3、特斯拉", 3},
		{"numbered list of tickers not doubled", "1. AAPL\n2. NVDA\n3. TSLA", 3},
		{"numbers mid line ignored", "涨了 1. 2 个点", 0},
		{"long words not tickers", "NVIDIACORP", 0},
		{"heading words with one ticker", "SEEKING ALPHA 本周 STOCK LIST: AAPL", 1},
		{"today heading with two tickers", "Alpha Picks TODAY 更新: AAPL NVDA", 2},
		{"english heading words", "DAILY NEWS UPDATE: WEEK NOTE, RATE, OCR, LLM", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountSelections(tt.text))
		})
	}
}
