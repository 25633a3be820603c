package store

// DefaultGroup is the watchlist scanned when the config names none.
const DefaultGroup = "high_volume"

var watchlistGroups = map[string][]string{
	"high_volume": {"SPY", "QQQ", "AAPL", "TSLA", "NVDA"},
	"volatile":    {"GME", "AMC", "PLTR", "NIO", "COIN"},
	"tech_giants": {"AAPL", "MSFT", "GOOGL", "AMZN", "META"},
	"ev_sector":   {"TSLA", "RIVN", "LCID", "NIO", "XPEV"},
}

// WatchlistGroup returns a copy of the named symbol group, falling back
// to the default group for unknown names.
func WatchlistGroup(name string) []string {
	group, ok := watchlistGroups[name]
	if !ok {
		group = watchlistGroups[DefaultGroup]
	}
	out := make([]string, len(group))
	copy(out, group)
	return out
}

// WatchlistGroups lists the available group names.
func WatchlistGroups() []string {
	names := make([]string, 0, len(watchlistGroups))
	for name := range watchlistGroups {
		names = append(names, name)
	}
	return names
}
