package normalize

import "strings"

// Color adjectives that recipe drafts attach to ingredient names but the
// reference table does not carry ("peperone rosso" vs "Peperone").
// All gender/number endings are listed explicitly.
var colorWords = map[string]struct{}{
	"rosso": {}, "rossa": {}, "rossi": {}, "rosse": {},
	"giallo": {}, "gialla": {}, "gialli": {}, "gialle": {},
	"verde": {}, "verdi": {},
	"nero": {}, "nera": {}, "neri": {}, "nere": {},
	"bianco": {}, "bianca": {}, "bianchi": {}, "bianche": {},
	"viola": {},
	"arancione": {}, "arancioni": {},
}

// Normalize canonicalizes a raw ingredient name for matching: lower-case,
// color words removed, whitespace collapsed. Total and idempotent.
func Normalize(raw string) string {
	fields := strings.Fields(strings.ToLower(raw))
	kept := fields[:0]
	for _, f := range fields {
		if _, isColor := colorWords[f]; isColor {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}
