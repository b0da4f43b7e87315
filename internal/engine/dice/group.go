package dice

// MajorityOf returns ceil(n/2), the successes a group of n rolls needs
func MajorityOf(n int) int {
	return (n + 1) / 2
}

// GroupOutcomes aggregates pass/fail rolls by check name in order of first
// appearance. Damage, healing and unresolved rolls are left out.
func GroupOutcomes(rolls []Roll) []GroupOutcome {
	var order []string
	groups := make(map[string]*GroupOutcome)

	for _, r := range rolls {
		if !r.Outcome.IsPassFail() {
			continue
		}

		key := r.Request.groupKey()
		g, ok := groups[key]
		if !ok {
			g = &GroupOutcome{CheckName: key}
			groups[key] = g
			order = append(order, key)
		}
		g.Total++
		if r.Outcome.IsSuccess() {
			g.Successes++
		}
	}

	out := make([]GroupOutcome, 0, len(order))
	for _, key := range order {
		g := groups[key]
		g.Required = MajorityOf(g.Total)
		g.IsGroupSuccess = g.Successes >= g.Required
		out = append(out, *g)
	}
	return out
}
