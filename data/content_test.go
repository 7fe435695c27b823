package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeContent(t *testing.T) {
	assert.Equal(t, "대출DB 판매합니다", NormalizeContent("  대출DB\n\n판매합니다\t"))
	assert.Equal(t, "대출DB 판매", NormalizeContent("None 대출DB 판매"))
	assert.Equal(t, "대출DB 판매", NormalizeContent("null undefined\n대출DB   판매"))
	assert.Equal(t, "", NormalizeContent("None"))
	assert.Equal(t, "", NormalizeContent(""))
}

func TestContentHash(t *testing.T) {
	assert.Equal(t, ContentHash("대출DB 판매"), ContentHash("None\n대출DB    판매 "))
	assert.NotEqual(t, ContentHash("대출DB 판매"), ContentHash("주식DB 판매"))
	assert.Len(t, ContentHash("x"), 64)
}
