package enums

type Strategy string

const (
	StrategyDirect     Strategy = "direct"
	StrategyHTML       Strategy = "html"
	StrategyViewerData Strategy = "viewer_data"
	StrategyAPI        Strategy = "api"
	StrategyRegex      Strategy = "regex"
	StrategyJSONLD     Strategy = "jsonld"
	StrategyBrowser    Strategy = "browser"
	StrategyNone       Strategy = "none"
)

func ParseStrategy(name string) (Strategy, bool) {
	switch s := Strategy(name); s {
	case StrategyHTML, StrategyViewerData, StrategyAPI,
		StrategyRegex, StrategyJSONLD, StrategyBrowser:
		return s, true
	}
	return "", false
}
