package detector

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kova98/adwatch.api/enums"
)

var unfiltered = DetectOptions{EnableSecondaryFilter: false}

func newTestEngine(t *testing.T, catalog *Catalog, mode enums.SearchMode, ind *Indicators) *Engine {
	t.Helper()
	e, err := New(catalog, Options{SearchMode: mode, Indicators: ind, Logger: quietLogger()})
	require.NoError(t, err)
	return e
}

func singleCategory(cat Category, keywords ...string) *Catalog {
	entries := make([]Entry, 0, len(keywords))
	for _, kw := range keywords {
		entries = append(entries, Entry{Category: cat, Keyword: kw})
	}
	return NewCatalog(entries, nil)
}

func TestDetect_ScenarioA(t *testing.T) {
	e := newTestEngine(t, singleCategory("personal_db", "대출DB"), enums.SearchModeExact, nil)

	res := e.Detect("대출DB 판매합니다 연락주세요", DefaultDetectOptions())

	require.Len(t, res, 1)
	hits := res["personal_db"]
	require.Len(t, hits, 1)
	assert.Equal(t, Category("personal_db"), hits[0].Category)
	assert.Equal(t, "대출DB", hits[0].Keyword)
	assert.Equal(t, "대출DB", hits[0].MatchedText)
	assert.Equal(t, 0, hits[0].Start)
	assert.Equal(t, len("대출DB"), hits[0].End)
	assert.Equal(t, "**대출DB** 판매합니다 연락주세요", hits[0].Context)
}

func TestDetect_ScenarioB(t *testing.T) {
	catalog := NewCatalog(
		[]Entry{{Category: "personal_db", Keyword: "대출DB"}},
		map[Category][]string{"personal_db": {"신고 방법"}},
	)
	e := newTestEngine(t, catalog, enums.SearchModeExact, nil)
	text := "대출DB 관련 신고 방법 안내 (예시일 뿐 실제 판매 아님)"

	assert.Empty(t, e.Detect(text, DefaultDetectOptions()))
	assert.Empty(t, e.Detect(text, unfiltered), "false positive phrase applies without the secondary filter")

	plain := newTestEngine(t, singleCategory("personal_db", "대출DB"), enums.SearchModeExact, nil)
	assert.Len(t, plain.Detect(text, unfiltered)["personal_db"], 1)
}

func TestDetect_ScenarioC(t *testing.T) {
	ind := &Indicators{
		Aliases:  DefaultIndicators().Aliases,
		Required: map[Category][]string{"loan_db": {"거래"}},
		Negative: []string{"예시"},
	}
	e := newTestEngine(t, singleCategory("loan_db", "주식DB"), enums.SearchModeExact, ind)

	res := e.Detect("주식DB 거래 가능합니다", DefaultDetectOptions())
	require.Len(t, res["loan_db"], 1)
	assert.Equal(t, "주식DB", res["loan_db"][0].MatchedText)

	assert.Empty(t, e.Detect("주식DB 거래 예시입니다", DefaultDetectOptions()))

	ind.Negative = nil
	ind.CategoryNegative = map[Category][]string{"loan_db": {"예시"}}
	e = newTestEngine(t, singleCategory("loan_db", "주식DB"), enums.SearchModeExact, ind)
	assert.Len(t, e.Detect("주식DB 거래 가능합니다", DefaultDetectOptions())["loan_db"], 1)
	assert.Empty(t, e.Detect("주식DB 거래 예시입니다", DefaultDetectOptions()))

	other := newTestEngine(t, singleCategory("stock", "주식DB"), enums.SearchModeExact, &Indicators{
		Trade:            []string{"거래"},
		CategoryNegative: map[Category][]string{"loan_db": {"예시"}},
	})
	assert.Len(t, other.Detect("주식DB 거래 예시입니다", DefaultDetectOptions())["stock"], 1, "category negatives stay in their category")
}

func TestDetect_AliasSymmetry(t *testing.T) {
	e := newTestEngine(t, singleCategory("gambling", "토토DB"), enums.SearchModeExact, nil)

	for text, matched := range map[string]string{
		"토토DB 팝니다":    "토토DB",
		"토토 디비 팝니다":  "토토 디비",
		"토토 D B 팝니다": "토토 D B",
		"토토ＤＢ 팝니다":    "토토ＤＢ",
	} {
		res := e.Detect(text, unfiltered)
		require.Len(t, res["gambling"], 1, text)
		assert.Equal(t, "토토DB", res["gambling"][0].Keyword, text)
		assert.Equal(t, matched, res["gambling"][0].MatchedText, text)
	}
}

func TestDetect_LiteralMatchSoundness(t *testing.T) {
	keywords := []string{"대출DB", "토토사이트", "카톡 ID 판매", "ＶＩＰ회원", "바카라", "작업 대출"}

	for _, kw := range keywords {
		e := newTestEngine(t, singleCategory("c", kw), enums.SearchModeExact, nil)
		text := "안녕하세요. " + kw + " 문의 바랍니다"

		res := e.Detect(text, unfiltered)
		require.NotEmpty(t, res["c"], kw)
		found := false
		for _, h := range res["c"] {
			assert.Equal(t, text[h.Start:h.End], h.MatchedText)
			if e.Normalize(h.MatchedText) == e.Normalize(kw) {
				found = true
			}
		}
		assert.True(t, found, kw)
	}
}

func TestDetect_OffsetsAddressOriginalText(t *testing.T) {
	e := newTestEngine(t, singleCategory("personal_db", "대출DB"), enums.SearchModeExact, nil)
	text := "최신 디비 판매 대출DB 및 대출 디비"

	hits := e.Detect(text, unfiltered)["personal_db"]

	require.Len(t, hits, 2)
	assert.Equal(t, "대출DB", hits[0].MatchedText)
	assert.Equal(t, "대출DB", text[hits[0].Start:hits[0].End])
	assert.Equal(t, "대출 디비", hits[1].MatchedText)
	assert.Equal(t, "대출 디비", text[hits[1].Start:hits[1].End])
	for _, h := range hits {
		assert.True(t, 0 <= h.Start && h.Start < h.End && h.End <= len(text))
	}
}

func TestDetect_OverlapKeepsLongestKeyword(t *testing.T) {
	e := newTestEngine(t, singleCategory("gambling", "토토", "토토사이트"), enums.SearchModeExact, nil)

	hits := e.Detect("토토사이트 추천 토토", unfiltered)["gambling"]

	require.Len(t, hits, 2)
	assert.Equal(t, "토토사이트", hits[0].Keyword)
	assert.Equal(t, "토토", hits[1].Keyword)
	assert.Less(t, hits[0].End, hits[1].Start+1)
}

func TestDetect_PartialSuperset(t *testing.T) {
	catalog := singleCategory("personal_db", "대출DB")
	exact := newTestEngine(t, catalog, enums.SearchModeExact, nil)
	partial := newTestEngine(t, catalog, enums.SearchModePartial, nil)

	texts := []string{
		"대출DB 판매",
		"저금리 대출 상담 DB 문의",
		"대출 디비 팝니다",
		"아무 관련 없는 글",
	}
	for _, text := range texts {
		for _, opts := range []DetectOptions{unfiltered, DefaultDetectOptions()} {
			exactRes := exact.Detect(text, opts)
			partialRes := partial.Detect(text, opts)
			for cat, hits := range exactRes {
				for _, h := range hits {
					assert.Contains(t, partialRes[cat], h, text)
				}
			}
		}
	}

	assert.Empty(t, exact.Detect("저금리 대출 상담 DB 문의", unfiltered))
	hits := partial.Detect("저금리 대출 상담 DB 문의", unfiltered)["personal_db"]
	require.Len(t, hits, 2)
	assert.Equal(t, "대출", hits[0].MatchedText)
	assert.Equal(t, "DB", hits[1].MatchedText)
	assert.Equal(t, "대출DB", hits[0].Keyword)
}

func TestDetect_PartialReportsWholeKeyword(t *testing.T) {
	e := newTestEngine(t, singleCategory("personal_db", "대출DB"), enums.SearchModePartial, nil)

	for _, opts := range []DetectOptions{unfiltered, DefaultDetectOptions()} {
		hits := e.Detect("대출DB 판매합니다", opts)["personal_db"]
		require.Len(t, hits, 1)
		assert.Equal(t, "대출DB", hits[0].MatchedText)
		assert.Equal(t, 0, hits[0].Start)
		assert.Equal(t, len("대출DB"), hits[0].End)
		assert.Equal(t, "**대출DB** 판매합니다", hits[0].Context)
	}
}

func TestDetect_CombinationPrecision(t *testing.T) {
	e := newTestEngine(t, singleCategory("personal_db", "대출DB"), enums.SearchModePartial, nil)
	opts := DetectOptions{RequireFullCombination: true}

	assert.Empty(t, e.Detect("대출 상담 문의", opts))
	assert.Empty(t, e.Detect("DB 구축 문의", opts))

	for text, matched := range map[string]string{
		"대출 D B 팝니다": "대출 D B",
		"대출디비 팝니다":   "대출디비",
		"대출d.b 팝니다":  "대출d.b",
	} {
		hits := e.Detect(text, opts)["personal_db"]
		require.Len(t, hits, 1, text)
		assert.Equal(t, matched, hits[0].MatchedText, text)
		assert.Equal(t, 0, hits[0].Start)
	}
}

func TestDetect_SecondaryFilterRejectsPartialWords(t *testing.T) {
	e := newTestEngine(t, singleCategory("gambling", "토토"), enums.SearchModeExact, nil)

	assert.Empty(t, e.Detect("토토로 보러 가요 배팅", DefaultDetectOptions()))
	assert.Len(t, e.Detect("사설 토토 배팅 환영", DefaultDetectOptions())["gambling"], 1)
	assert.Empty(t, e.Detect("사설 토토 배팅 피해 신고", DefaultDetectOptions()))
}

func TestDetect_LooseContainmentWhenNoPatternFits(t *testing.T) {
	e := newTestEngine(t, singleCategory("personal_db", "대출DB"), enums.SearchModeExact, nil)

	hits := e.Detect("대출 D B 팝니다", DefaultDetectOptions())["personal_db"]
	require.Len(t, hits, 1)
	assert.Equal(t, "대출 D B", hits[0].MatchedText)

	assert.Len(t, e.Detect("대출, D.B 팝니다", unfiltered)["personal_db"], 1)
	assert.Empty(t, e.Detect("대출, D.B 팝니다", DefaultDetectOptions()), "punctuation survives the loose check")
}

func TestDetect_KeywordOutsideCategoryPatterns(t *testing.T) {
	e := newTestEngine(t, singleCategory("gambling", "먹튀검증"), enums.SearchModeExact, nil)

	hits := e.Detect("먹튀검증 사이트 배팅 환영", DefaultDetectOptions())["gambling"]
	require.Len(t, hits, 1)
	assert.Equal(t, "먹튀검증", hits[0].MatchedText)

	assert.Len(t, e.Detect("먹튀 검증 배팅", DefaultDetectOptions())["gambling"], 1)

	assert.Len(t, e.Detect("먹튀.검증 배팅", unfiltered)["gambling"], 1)
	assert.Empty(t, e.Detect("먹튀.검증 배팅", DefaultDetectOptions()))
}

func TestDetect_SelfEvidentDBKeyword(t *testing.T) {
	personal := newTestEngine(t, singleCategory("personal_db", "주식DB"), enums.SearchModeExact, nil)
	assert.Len(t, personal.Detect("주식DB", DefaultDetectOptions())["personal_db"], 1)

	other := newTestEngine(t, singleCategory("loan_db", "주식DB"), enums.SearchModeExact, nil)
	assert.Empty(t, other.Detect("주식DB", DefaultDetectOptions()), "no trade or required evidence")
	assert.Len(t, other.Detect("주식DB 판매", DefaultDetectOptions())["loan_db"], 1)
}

func TestDetect_EmptyCatalogAndText(t *testing.T) {
	e := newTestEngine(t, NewCatalog(nil, nil), enums.SearchModeExact, nil)

	res := e.Detect("대출DB 판매합니다", DefaultDetectOptions())
	assert.NotNil(t, res)
	assert.Empty(t, res)

	e = newTestEngine(t, singleCategory("personal_db", "대출DB"), enums.SearchModeExact, nil)
	assert.Empty(t, e.Detect("", DefaultDetectOptions()))
}

func TestDetect_Deterministic(t *testing.T) {
	catalog := NewCatalog([]Entry{
		{Category: "personal_db", Keyword: "대출DB"},
		{Category: "personal_db", Keyword: "주식DB"},
		{Category: "gambling", Keyword: "토토"},
		{Category: "gambling", Keyword: "토토사이트"},
	}, nil)
	e := newTestEngine(t, catalog, enums.SearchModePartial, nil)
	text := "주식DB 대출 디비 판매, 토토사이트 가입코드 배팅"

	first := e.Detect(text, unfiltered)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, e.Detect(text, unfiltered))
	}
}

func TestDetect_ConcurrentUse(t *testing.T) {
	e := newTestEngine(t, singleCategory("personal_db", "대출DB", "주식DB"), enums.SearchModeExact, nil)
	text := "대출DB 판매 주식 디비 팝니다"
	want := e.Detect(text, DefaultDetectOptions())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				assert.Equal(t, want, e.Detect(text, DefaultDetectOptions()))
			}
		}()
	}
	wg.Wait()
}

func TestNew_InvalidPatternIsFatal(t *testing.T) {
	ind := DefaultIndicators()
	ind.Patterns = map[Category][]string{"personal_db": {"(unclosed"}}

	_, err := New(singleCategory("personal_db", "대출DB"), Options{Indicators: &ind, Logger: quietLogger()})
	assert.Error(t, err)
}

func TestNew_InvalidSearchMode(t *testing.T) {
	_, err := New(NewCatalog(nil, nil), Options{SearchMode: "broad", Logger: quietLogger()})
	assert.Error(t, err)
}

func TestResult_Count(t *testing.T) {
	r := Result{
		"a": {{Keyword: "x"}, {Keyword: "y"}},
		"b": {{Keyword: "z"}},
	}
	assert.Equal(t, 3, r.Count())
}
