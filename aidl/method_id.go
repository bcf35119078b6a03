package aidl

const (
	MinUserSetMethodID = 0
	MaxUserSetMethodID = 16777214
)

// AssignMethodIDs numbers methods in declaration order unless every method
// carries an explicit id, in which case the ids are checked for range and
// uniqueness. Mixing the two styles is an error.
func AssignMethodIDs(filename string, methods []*Method) error {
	hasUnassigned := false
	hasAssigned := false
	used := map[int]bool{}

	for _, m := range methods {
		if m.HasID() {
			hasAssigned = true
			if used[m.ID()] {
				return errorf(m.Location, "Found duplicate method id (%d) for method %s", m.ID(), m.Name)
			}
			used[m.ID()] = true
			if m.ID() < MinUserSetMethodID || m.ID() > MaxUserSetMethodID {
				return errorf(m.Location,
					"Found out of bounds id (%d) for method %s. Value for id must be between %d and %d inclusive.",
					m.ID(), m.Name, MinUserSetMethodID, MaxUserSetMethodID)
			}
		} else {
			hasUnassigned = true
		}

		if hasAssigned && hasUnassigned {
			return errorf(FileLocation(filename), "You must either assign id's to all methods or to none of them.")
		}
	}

	if !hasAssigned {
		for i, m := range methods {
			m.assignID(i)
		}
	}
	return nil
}
