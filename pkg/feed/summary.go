package feed

// SummarizedRoute holds the next few departures for one line and direction at one stop.
type SummarizedRoute struct {
	StationName string
	LineName    string
	Direction   string
	Type        string
	Entries     []Entry
}

// SummarizeByRoute groups a merged feed by stop, line and direction,
// limiting the output to maxPerRoute departures per unique route.
// Routes appear in the order of their first departure, so the input is
// expected to come from Merge.
// This prevents high-frequency routes from drowning out the rest of the board.
func SummarizeByRoute(entries []Entry, maxPerRoute int) []SummarizedRoute {
	routeMap := make(map[string]*SummarizedRoute)
	var routeKeys []string // order of first appearance

	for _, e := range entries {
		key := e.StopID + "|" + e.Line + "|" + e.Direction
		route, exists := routeMap[key]
		if !exists {
			route = &SummarizedRoute{
				StationName: e.StationName,
				LineName:    e.Line,
				Direction:   e.Direction,
				Type:        e.Type,
			}
			routeMap[key] = route
			routeKeys = append(routeKeys, key)
		}

		if len(route.Entries) < maxPerRoute {
			route.Entries = append(route.Entries, e)
		}
	}

	result := make([]SummarizedRoute, 0, len(routeKeys))
	for _, key := range routeKeys {
		result = append(result, *routeMap[key])
	}

	return result
}
