package detector

import (
	"regexp"
	"unicode"
)

// AliasRule rewrites every case-insensitive match of Pattern to Replacement
// before case folding and separator removal.
type AliasRule struct {
	Pattern     string
	Replacement string
}

// Indicators is the static configuration of the normalizer and the
// secondary filter. Rule lists are applied in order.
type Indicators struct {
	Aliases []AliasRule

	// Trade words signal intent to buy or sell.
	Trade []string
	// Negative words mark reporting, warnings or examples and suppress a hit.
	Negative         []string
	CategoryNegative map[Category][]string
	// Required words are category evidence used when no trade word is present.
	Required map[Category][]string
	// Patterns are case-insensitive regular expressions checked around a hit.
	Patterns map[Category][]string
	// SelfEvident categories accept any keyword carrying a DB marker
	// unless a negative word is present.
	SelfEvident []Category

	// KeywordSeparators and MeaningfulPatterns drive partial-mode fragment
	// extraction.
	KeywordSeparators  []string
	MeaningfulPatterns []string
}

const (
	narrowWindow  = 10
	wideWindow    = 150
	displayWindow = 50
)

var dbMarkers = []string{"db", "디비", "d.b", "d b"}

// markerSwaps produce the alias variants of a keyword in both directions
// for the DB and ID marker families.
var markerSwaps = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`(?i)디\s*비`), "DB"},
	{regexp.MustCompile(`(?i)아이\s*디`), "ID"},
	{regexp.MustCompile(`(?i)D\s*B`), "디비"},
	{regexp.MustCompile(`(?i)I\s*D`), "아이디"},
}

// markerAlternations replace a marker run in combination patterns.
var markerAlternations = []struct {
	head *regexp.Regexp
	alt  string
}{
	{regexp.MustCompile(`^(?i:D\s*B|디\s*비)`), `(?:D\s*\.?\s*B|디\s*비)`},
	{regexp.MustCompile(`^(?i:I\s*D|아\s*이\s*디)`), `(?:I\s*\.?\s*D|아\s*이\s*디)`},
}

// isSeparator reports whether r is dropped during normalization.
func isSeparator(r rune) bool {
	return unicode.IsSpace(r) ||
		unicode.IsPunct(r) ||
		unicode.IsSymbol(r) ||
		unicode.IsControl(r) ||
		unicode.Is(unicode.Cf, r)
}

// DefaultIndicators returns a fresh copy of the built-in tables.
func DefaultIndicators() Indicators {
	return Indicators{
		Aliases: []AliasRule{
			{Pattern: `디\s*비`, Replacement: "DB"},
			{Pattern: `아이\s*디`, Replacement: "ID"},
		},
		Trade: []string{
			"판매", "팝니다", "판매중", "구매", "삽니다", "매입", "거래", "양도", "분양",
			"구합니다", "단가", "건당", "시세", "입금", "최저가", "텔레", "카톡", "연락",
		},
		Negative: []string{
			"신고", "예방", "주의", "피해", "경고", "처벌", "단속", "검거", "수사",
			"뉴스", "기사", "예시", "사례", "아님", "금지", "차단",
		},
		CategoryNegative: map[Category][]string{
			"gambling": {"중독", "치료", "상담센터"},
			"drug":     {"치료", "재활", "의약품 안전"},
		},
		Required: map[Category][]string{
			"personal_db":     {"개인정보", "명단", "리스트", "회원", "고객", "연락처", "최신"},
			"gambling":        {"배팅", "베팅", "충전", "환전", "가입코드", "먹튀", "첫충", "꽁머니"},
			"adult":           {"출장", "만남", "조건", "후불", "마사지", "애인대행"},
			"drug":            {"작대기", "아이스", "던지기", "떨", "캔디", "직거래"},
			"fake_document":   {"위조", "제작", "졸업장", "신분증", "재직증명서"},
			"account_trade":   {"계정", "아이디", "통장", "대포", "명의", "유심"},
			"illegal_finance": {"작업대출", "급전", "무직자", "신불자", "당일"},
		},
		Patterns: map[Category][]string{
			"personal_db": {
				`(?:대출|주식|코인|보험|카지노|토토|개인|회원|고객|병원|부동산)\s*(?:db|디비)(?:를|을|는|은|가|이|도)?`,
				`(?:db|디비)\s*(?:판매|팝니다|구매|삽니다|거래)`,
			},
			"gambling": {
				`(?:사설|메이저|안전|먹튀)?\s*토토(?:사이트)?`,
				`(?:온라인|라이브)?\s*(?:카지노|바카라|홀덤|슬롯)`,
			},
		},
		SelfEvident: []Category{"personal_db"},
		KeywordSeparators: []string{
			`\s+`,
			`[-_/|·,.]`,
			`(?i:db|디비|id|아이디)`,
		},
		MeaningfulPatterns: []string{
			`[가-힣]{2,}`,
			`[A-Za-z]{2,}`,
			`[가-힣]+[A-Za-z0-9]+`,
			`[A-Za-z0-9]+[가-힣]+`,
		},
	}
}
