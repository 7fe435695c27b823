package matchers

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoundedAt_Latin(t *testing.T) {
	text := "hello world"
	assert.True(t, BoundedAt(text, 0, 5))
	assert.True(t, BoundedAt(text, 6, 11))
	assert.False(t, BoundedAt(text, 1, 5))
	assert.False(t, BoundedAt(text, 6, 10))
}

func TestBoundedAt_Hangul(t *testing.T) {
	text := "토토로 보러 갑니다"
	assert.False(t, BoundedAt(text, 0, len("토토")), "syllable after the span is a letter")
	assert.True(t, BoundedAt(text, 0, len("토토로")))
}

func TestBoundedAt_Punctuation(t *testing.T) {
	text := "(대출DB)"
	start := len("(")
	end := start + len("대출DB")
	assert.True(t, BoundedAt(text, start, end))
}

func TestBoundedAt_OutOfRange(t *testing.T) {
	assert.False(t, BoundedAt("abc", -1, 2))
	assert.False(t, BoundedAt("abc", 0, 4))
	assert.False(t, BoundedAt("abc", 2, 1))
}

func TestMatchesBounded(t *testing.T) {
	re := regexp.MustCompile(`(?i)토토`)
	assert.True(t, MatchesBounded("사설 토토 추천", re))
	assert.False(t, MatchesBounded("토토로 정말 재밌다", re))
	assert.True(t, MatchesBounded("토토로 말고 토토!", re), "second occurrence is bounded")
	assert.False(t, MatchesBounded("", re))
}

func TestContainsLoose(t *testing.T) {
	assert.True(t, ContainsLoose("대출 D-B 판매", "대출db"))
	assert.True(t, ContainsLoose("Loan_DB list", "loan db"))
	assert.False(t, ContainsLoose("대출 상담", "대출db"))
	assert.False(t, ContainsLoose("anything", " - "))
}

func TestContainsAny(t *testing.T) {
	assert.True(t, ContainsAny("주식db 거래 가능", []string{"판매", "거래"}))
	assert.False(t, ContainsAny("주식db 문의", []string{"판매", "거래"}))
	assert.False(t, ContainsAny("anything", []string{""}))
	assert.False(t, ContainsAny("anything", nil))
}
