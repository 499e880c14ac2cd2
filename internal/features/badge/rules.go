package badge

// Rule awards Badge once a user has completed at least Threshold courses.
type Rule struct {
	Threshold int
	Badge     string
}

const (
	FirstStep        = "First Step"
	DedicatedLearner = "Dedicated Learner"
)

// DefaultRules is the fixed rule table.
var DefaultRules = []Rule{
	{Threshold: 1, Badge: FirstStep},
	{Threshold: 5, Badge: DedicatedLearner},
}

// Met returns the badges whose thresholds completed reaches, in rule order.
func Met(rules []Rule, completed int) []string {
	names := make([]string, 0, len(rules))
	for _, r := range rules {
		if completed >= r.Threshold {
			names = append(names, r.Badge)
		}
	}
	return names
}
