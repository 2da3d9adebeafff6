package css

// WalkRelativeSelectors calls fn with every relative selector of every style
// rule in ss, in document order, descending into nested rules and at-rule
// blocks. Keyframe steps have no selectors and are never visited. fn may
// modify the selector in place.
func WalkRelativeSelectors(ss *StyleSheet, fn func(*RelativeSelector)) {
	walkRules(ss.Rules, fn)
}

func walkRules(rules []Rule, fn func(*RelativeSelector)) {
	for i := range rules {
		r := &rules[i]
		switch r.Kind {
		case RuleStyle:
			for j := range r.Selectors {
				children := r.Selectors[j].Children
				for k := range children {
					fn(&children[k])
				}
			}
		case RuleAt:
			if r.IsKeyframes() {
				continue
			}
		case RuleKeyframe:
			continue
		}
		walkRules(r.Rules, fn)
	}
}

// WalkRules calls fn for every rule in ss, parents before children.
// Returning false skips the rule's nested rules.
func WalkRules(ss *StyleSheet, fn func(*Rule) bool) {
	var walk func([]Rule)
	walk = func(rules []Rule) {
		for i := range rules {
			if fn(&rules[i]) {
				walk(rules[i].Rules)
			}
		}
	}
	walk(ss.Rules)
}
