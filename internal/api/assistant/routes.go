package assistant

import (
	"strings"
	"unicode/utf8"

	"StokAsistan/pkg/nlp"
)

var paths = map[string]string{
	"ürün":             "/products",
	"ürünler":          "/products",
	"kategori":         "/categories",
	"kategoriler":      "/categories",
	"stok":             "/stock-movements",
	"stok hareket":     "/stock-movements",
	"stok hareketleri": "/stock-movements",
	"tedarikçi":        "/suppliers",
	"tedarikçiler":     "/suppliers",
	"birim":            "/units",
	"birimler":         "/units",
	"ayarlar":          "/settings",
	"anasayfa":         "/",
	"ana sayfa":        "/",
	"dashboard":        "/",
	"rapor":            "/reports",
	"raporlar":         "/reports",
	"analiz":           "/analysis",
}

var modalTypes = map[string]string{
	"ürün":         "product",
	"kategori":     "category",
	"stok":         "stockMovement",
	"stok hareket": "stockMovement",
	"stok giriş":   "stockMovement",
	"stok çıkış":   "stockMovement",
	"sayım":        "stockCounting",
	"stok sayım":   "stockCounting",
	"tedarikçi":    "supplier",
	"birim":        "unit",
}

const ModalStockCounting = "stockCounting"

// ResolvePath tries the target's word suffixes, full phrase first.
func ResolvePath(target string) (string, bool) {
	return lookup(paths, target)
}

func ResolveModal(target string) (string, bool) {
	return lookup(modalTypes, target)
}

func lookup(table map[string]string, target string) (string, bool) {
	for _, key := range nlp.Suffixes(nlp.Lower(target)) {
		if v, ok := table[key]; ok {
			return v, true
		}
		if v, ok := table[trimDative(key)]; ok {
			return v, true
		}
	}
	return "", false
}

// dativeEndings is ordered longest first: "sayfaya" -> "sayfa", "ürünlere" -> "ürünler".
var dativeEndings = []string{"ya", "ye", "a", "e"}

// trimDative drops a dative ending from the phrase's last word, keeping at
// least three letters of stem. Phrases without one come back unchanged.
func trimDative(phrase string) string {
	for _, ending := range dativeEndings {
		stem := strings.TrimSuffix(phrase, ending)
		if stem == phrase {
			continue
		}
		last := stem[strings.LastIndex(stem, " ")+1:]
		if utf8.RuneCountInString(last) >= 3 {
			return stem
		}
	}
	return phrase
}
