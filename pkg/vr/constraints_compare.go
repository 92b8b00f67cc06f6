package vr

// comparisonText renders the verb phrase used in comparison-style
// constraint error messages ("the value {comparisonText} {bound}"),
// flipped for a negated constraint (original_source: MinMaxConstraint,
// EqualsConstraint, InConstraint, MultipleConstraint all build their
// message the same way).
func comparisonText(ct ConstraintType, negated bool) string {
	switch ct {
	case Minimum:
		if negated {
			return "must be less than"
		}
		return "must be at least"
	case Maximum:
		if negated {
			return "must be greater than"
		}
		return "must be at most"
	case Equals:
		if negated {
			return "must not be"
		}
		return "must be"
	case In:
		if negated {
			return "must not be one of"
		}
		return "must be one of"
	case Multiple:
		if negated {
			return "must not be a multiple of"
		}
		return "must be a multiple of"
	default:
		return "must satisfy"
	}
}
