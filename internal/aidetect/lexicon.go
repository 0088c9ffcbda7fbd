package aidetect

import "regexp"

var stockVocabulary = map[string]struct{}{
	"delve": {}, "delves": {}, "delving": {}, "tapestry": {}, "furthermore": {}, "moreover": {},
	"additionally": {}, "crucial": {}, "pivotal": {}, "leverage": {}, "leveraging": {}, "seamless": {},
	"seamlessly": {}, "robust": {}, "comprehensive": {}, "multifaceted": {}, "intricate": {},
	"navigate": {}, "navigating": {}, "landscape": {}, "realm": {}, "testament": {}, "underscore": {},
	"underscores": {}, "foster": {}, "fostering": {}, "utilize": {}, "utilizes": {}, "utilizing": {},
	"enhance": {}, "enhancing": {}, "vibrant": {}, "paramount": {}, "meticulous": {}, "meticulously": {},
	"showcasing": {}, "embark": {}, "unwavering": {}, "transformative": {}, "holistic": {},
	"nuanced": {}, "invaluable": {}, "notably": {}, "consequently": {}, "subsequently": {},
	"facilitate": {}, "streamline": {}, "optimize": {}, "endeavor": {}, "myriad": {},
	"incredibly": {}, "extremely": {}, "profoundly": {}, "undeniably": {}, "truly": {},
}

var stockFramePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bit is important to note\b`),
	regexp.MustCompile(`\bit is worth noting\b`),
	regexp.MustCompile(`\bin today's (?:fast-paced|digital|modern) world\b`),
	regexp.MustCompile(`\bplays? a (?:crucial|vital|pivotal|key) role\b`),
	regexp.MustCompile(`\bin conclusion\b`),
	regexp.MustCompile(`\bin summary\b`),
	regexp.MustCompile(`\ba wide (?:range|array|variety) of\b`),
	regexp.MustCompile(`\bwhen it comes to\b`),
	regexp.MustCompile(`\bnot only\b.*\bbut also\b`),
	regexp.MustCompile(`\bserves as a testament\b`),
	regexp.MustCompile(`\bever-evolving\b`),
}

var informalMarkers = map[string]struct{}{
	"lol": {}, "gonna": {}, "wanna": {}, "kinda": {}, "sorta": {}, "yeah": {}, "nope": {},
	"ok": {}, "okay": {}, "guess": {}, "honestly": {}, "stuff": {}, "anyway": {}, "huh": {},
	"dunno": {}, "pretty": {}, "super": {}, "totally": {}, "basically": {},
}
