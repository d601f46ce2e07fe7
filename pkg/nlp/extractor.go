package nlp

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// PostFunc converts a raw capture into a field value. ok=false drops the field.
type PostFunc func(raw string) (interface{}, bool)

// Rule is one extractable field: the first pattern whose first group matches wins.
type Rule struct {
	Field    string
	Patterns []*regexp.Regexp
	Post     PostFunc
}

// Params is the sparse field map produced for one input. Absent fields are
// never filled with zero values.
type Params map[string]interface{}

func (p Params) Has(key string) bool {
	_, ok := p[key]
	return ok
}

func (p Params) String(key string) (string, bool) {
	v, ok := p[key].(string)
	return v, ok && v != ""
}

func (p Params) Float(key string) (float64, bool) {
	switch v := p[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

func (p Params) Int(key string) (int, bool) {
	switch v := p[key].(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	}
	return 0, false
}

type IExtractor interface {
	Extract(text string, intent *Intent) Params
}

type Extractor struct {
	rules map[Domain][]Rule
}

func NewExtractor(rules map[Domain][]Rule) IExtractor {
	return &Extractor{rules: rules}
}

// Extract is a pure function of the text and the intent's domain. Patterns
// are lowercase and run against the Turkish-folded text.
func (e *Extractor) Extract(text string, intent *Intent) Params {
	params := Params{}
	if intent == nil {
		return params
	}

	text = Normalize(text)
	folded, offsets := foldTurkish(text)
	for _, rule := range e.rules[intent.Domain] {
		for _, pattern := range rule.Patterns {
			m := pattern.FindStringSubmatchIndex(folded)
			if len(m) < 4 || m[2] < 0 || m[2] == m[3] {
				continue
			}
			// Captures come from the original text so values keep their casing.
			raw := text[offsets[m[2]]:offsets[m[3]]]

			post := rule.Post
			if post == nil {
				post = Trim
			}
			if v, ok := post(raw); ok {
				params[rule.Field] = v
				break
			}
		}
	}

	return params
}

// foldTurkish lowers text rune by rune with Turkish casing (I->ı, İ->i).
// offsets[i] is the byte offset in text of the rune that produced folded
// byte i; offsets[len(folded)] == len(text).
func foldTurkish(text string) (string, []int) {
	var b strings.Builder
	b.Grow(len(text))
	offsets := make([]int, 0, len(text)+1)
	for i, r := range text {
		lower := unicode.TurkishCase.ToLower(r)
		b.WriteRune(lower)
		for n := utf8.RuneLen(lower); n > 0; n-- {
			offsets = append(offsets, i)
		}
	}
	offsets = append(offsets, len(text))
	return b.String(), offsets
}

func Trim(raw string) (interface{}, bool) {
	s := strings.TrimSpace(raw)
	return s, s != ""
}

// Decimal accepts both "12.5" and "12,5".
func Decimal(raw string) (interface{}, bool) {
	f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(raw), ",", "."), 64)
	if err != nil {
		return nil, false
	}
	return f, true
}

func Integer(raw string) (interface{}, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil, false
	}
	return n, true
}

func Phone(raw string) (interface{}, bool) {
	s := strings.Join(strings.Fields(raw), " ")
	return s, s != ""
}

func fieldPatterns(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(strings.ReplaceAll(p, "{L}", letters)))
	}
	return out
}

const (
	number  = `([0-9]+(?:[.,][0-9]+)?)`
	signed  = `(-?[0-9]+(?:[.,][0-9]+)?)`
	newName = `yeni\s+(?:adı|ad|ismi|isim)\s+([{L}0-9\s]+?)(?:\s+(?:açıklama|telefon|email|e-posta|fiyat|kısaltma)|$)`
	renamed = `adını\s+([{L}0-9\s]+?)\s+(?:olarak|yap)`
)

// DefaultRules returns the Turkish extraction table per domain.
func DefaultRules() map[Domain][]Rule {
	description := Rule{
		Field:    "description",
		Patterns: fieldPatterns(`açıklama(?:sı)?\s+([{L}0-9\s]+?)(?:\.|$)`),
	}
	newNameRule := Rule{Field: "new_name", Patterns: fieldPatterns(newName, renamed)}

	return map[Domain][]Rule{
		DomainCategory: {
			{
				Field: "name",
				Patterns: fieldPatterns(
					`adı\s+([{L}\s]+?)(?:\s+açıklama|$)`,
					`([{L}]+)\s+adında`,
				),
			},
			description,
			{
				Field: "ref",
				Patterns: fieldPatterns(
					`([{L}0-9]+)\s+kategorisin(?:i|in)`,
					`kategori(?:yi)?\s+(?:sil|kaldır|güncelle|düzenle)\s+([{L}0-9\s]+?)(?:\s+(?:yeni|adını|açıklama)|$)`,
				),
			},
			newNameRule,
			{
				Field: "parent_name",
				Patterns: fieldPatterns(
					`([{L}]+)['’]y?[ea]\s+[{L}]+\s+alt\s+kategori`,
					`([{L}]+)\s+kategorisine\s+[{L}]+\s+alt`,
				),
			},
			{
				Field: "sub_name",
				Patterns: fieldPatterns(
					`[{L}]+['’]y?[ea]\s+([{L}]+)\s+alt\s+kategori`,
					`[{L}]+\s+kategorisine\s+([{L}]+)\s+alt`,
				),
			},
		},
		DomainProduct: {
			{Field: "barcode", Patterns: fieldPatterns(`barkod(?:u)?\s+([0-9]+)`)},
			{
				Field: "name",
				Patterns: fieldPatterns(
					`adı\s+([{L}0-9\s]+?)(?:\s+(?:fiyat|kategori|açıklama|stok|barkod)|$)`,
					`stok\s+(?:güncelle|düzenle)\s+([{L}0-9\s]+?)\s+(?:yeni\s+stok|stok)`,
				),
			},
			{Field: "price_selling", Patterns: fieldPatterns(`fiyat(?:ı|ını)?\s+`+number), Post: Decimal},
			{Field: "stock_warehouse", Patterns: fieldPatterns(`stok(?:u|unu)?\s+([0-9]+)`), Post: Integer},
			{
				Field:    "category_name",
				Patterns: fieldPatterns(`kategori(?:si)?\s+([{L}\s]+?)(?:\s+(?:fiyat|stok|açıklama|barkod)|$)`),
			},
			description,
			{
				Field: "ref",
				Patterns: fieldPatterns(
					`([{L}0-9]+)\s+ürünün(?:ü|ün)`,
					`ürün(?:ü)?\s+(?:sil|kaldır|güncelle|düzenle)\s+([{L}0-9\s]+?)(?:\s+(?:yeni|fiyat|stok|açıklama)|$)`,
				),
			},
			newNameRule,
		},
		DomainSupplier: {
			{
				Field:    "name",
				Patterns: fieldPatterns(`adı\s+([{L}\s]+?)(?:\s+(?:telefon|email|e-posta|adres|yetkili)|$)`),
			},
			{Field: "phone", Patterns: fieldPatterns(`telefon(?:u)?\s+([0-9][0-9\s-]*[0-9])`), Post: Phone},
			{Field: "email", Patterns: fieldPatterns(`(?:email|e-posta)\s+([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+)`)},
			{
				Field:    "contact_person",
				Patterns: fieldPatterns(`yetkili(?:si)?\s+([{L}\s]+?)(?:\s+(?:telefon|email|e-posta|adres)|$)`),
			},
			{
				Field: "ref",
				Patterns: fieldPatterns(
					`([{L}0-9]+)\s+tedarikçisin(?:i|in)`,
					`tedarikçi(?:yi)?\s+(?:sil|kaldır|güncelle|düzenle)\s+([{L}0-9\s]+?)(?:\s+(?:yeni|telefon|email|e-posta)|$)`,
				),
			},
			newNameRule,
		},
		DomainUnit: {
			{Field: "name", Patterns: fieldPatterns(`adı\s+([{L}\s]+?)(?:\s+(?:kısaltma|kısa)|$)`)},
			{Field: "short_name", Patterns: fieldPatterns(`(?:kısaltması|kısaltma|kısa\s+adı)\s+([{L}0-9.]+)`)},
			{
				Field: "ref",
				Patterns: fieldPatterns(
					`([{L}0-9]+)\s+birimin(?:i|in)`,
					`birim(?:i)?\s+(?:sil|kaldır|güncelle|düzenle)\s+([{L}0-9\s]+?)(?:\s+(?:yeni|kısaltma)|$)`,
				),
			},
			newNameRule,
		},
		DomainStockMovement: {
			{
				Field:    "name",
				Patterns: fieldPatterns(`ürün(?:ü)?\s+([{L}\s]+?)(?:\s+(?:miktar|adet|fiyat|açıklama)|\s+[0-9]|$)`),
			},
			{
				Field:    "quantity",
				Patterns: fieldPatterns(`miktar(?:ı)?\s+`+signed, signed+`\s+adet`),
				Post:     Decimal,
			},
			description,
		},
	}
}
