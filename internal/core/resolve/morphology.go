package resolve

import "strings"

// Words whose form never changes between singular and plural.
var invariableWords = map[string]struct{}{
	"latte": {}, "pepe": {}, "formaggio": {}, "sale": {}, "olio": {},
	"aceto": {}, "caffè": {}, "tè": {}, "miele": {}, "marmellata": {},
	"pane": {}, "curry": {}, "senape": {}, "maionese": {}, "ketchup": {},
	"wasabi": {}, "miglio": {}, "quinoa": {}, "orzo": {}, "burro": {},
	"farro": {}, "yogurt": {}, "riso": {}, "grano": {}, "semola": {},
	"amido": {}, "zucchero": {}, "farina": {}, "mais": {}, "lievito": {},
	"brodo": {}, "pelati": {}, "acqua": {}, "lattuga": {},
}

// Words that only occur in plural form in the reference table.
var alwaysPlural = map[string]struct{}{
	"olive": {}, "alici": {}, "acciughe": {}, "anacardi": {}, "arachidi": {},
	"capperi": {}, "funghi": {}, "spinaci": {}, "asparagi": {}, "lenticchie": {},
	"fagioli": {}, "ceci": {}, "piselli": {}, "pinoli": {}, "pistacchi": {},
	"mandorle": {}, "noci": {}, "nocciole": {}, "datteri": {}, "fichi": {},
	"prugne": {}, "uvetta": {}, "albicocche": {}, "molluschi": {},
	"gamberetti": {}, "cozze": {}, "vongole": {}, "calamari": {}, "seppie": {},
	"broccoli": {},
}

// wordVariants returns singular/plural alternates of a single word under
// the regular Italian ending rules (-a/-e, -e/-i, -o/-i). Words marked
// invariable or inherently plural produce no variants.
func wordVariants(w string) []string {
	if len(w) < 3 {
		return nil
	}
	if _, ok := invariableWords[w]; ok {
		return nil
	}
	if _, ok := alwaysPlural[w]; ok {
		return nil
	}

	stem := w[:len(w)-1]
	switch w[len(w)-1] {
	case 'a':
		return []string{stem + "e"}
	case 'o':
		return []string{stem + "i"}
	case 'e':
		// -e is singular (limone -> limoni) or a plural of -a (mele -> mela).
		return []string{stem + "i", stem + "a"}
	case 'i':
		// -i pluralizes both -o and -e.
		return []string{stem + "o", stem + "e"}
	}
	return nil
}

// Variants generates morphological alternates of a normalized name by
// swapping the singular/plural ending of one word at a time. The input
// itself is never included.
func Variants(norm string) []string {
	words := strings.Fields(norm)
	if len(words) == 0 {
		return nil
	}

	seen := map[string]struct{}{norm: {}}
	var out []string
	for i, w := range words {
		for _, alt := range wordVariants(w) {
			candidate := make([]string, len(words))
			copy(candidate, words)
			candidate[i] = alt
			v := strings.Join(candidate, " ")
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}
