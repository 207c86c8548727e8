package dedupe

// Suggestion is the keep/delete verdict of a row.
type Suggestion int

const (
	Keep Suggestion = iota
	Delete
)

func (s Suggestion) String() string {
	if s == Delete {
		return "DELETE"
	}
	return "KEEP"
}

// MarshalText renders the suggestion as KEEP or DELETE.
func (s Suggestion) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// KeeperPolicy picks the surviving row of a group. members holds row positions
// in original order and is never empty; current is the verdict state left by
// earlier passes.
type KeeperPolicy func(members []int, derived []Derived, current []Suggestion) int

// FirstInOrder keeps the first member of the group.
func FirstInOrder(members []int, _ []Derived, _ []Suggestion) int {
	return members[0]
}

// PreferGTIN keeps the first member carrying a GTIN, then the first member
// still marked Keep, then the first member.
func PreferGTIN(members []int, derived []Derived, current []Suggestion) int {
	for _, i := range members {
		if !derived[i].Missing {
			return i
		}
	}
	for _, i := range members {
		if current[i] == Keep {
			return i
		}
	}
	return members[0]
}

// GroupPass is one grouping rule of keeper selection: the rows it admits, the
// key they are grouped by and the policy choosing each group's keeper.
type GroupPass struct {
	Name   string
	Admit  func(i int) bool
	Key    func(d Derived) string
	Keeper KeeperPolicy
}

// KeeperPasses returns the passes in precedence order: exact GTIN+category,
// exact text for GTIN-less rows, then normalised text preferring a GTIN keeper.
//
// The normalised pass admits rows by the raw NormCount table rather than the
// ByNormKey flag, so a GTIN-less row whose only collision is through
// NormHasGTIN is flagged duplicate but never grouped and stays Keep.
func KeeperPasses(derived []Derived, flags []Flags, t Tables) []GroupPass {
	return []GroupPass{
		{
			Name:   "gtin",
			Admit:  func(i int) bool { return flags[i].ByGTIN },
			Key:    func(d Derived) string { return d.PairKey },
			Keeper: FirstInOrder,
		},
		{
			Name:   "raw_key",
			Admit:  func(i int) bool { return flags[i].ByRawKey },
			Key:    func(d Derived) string { return d.RawKey },
			Keeper: FirstInOrder,
		},
		{
			Name:   "norm_key",
			Admit:  func(i int) bool { return t.NormCount[derived[i].NormKey] > 1 },
			Key:    func(d Derived) string { return d.NormKey },
			Keeper: PreferGTIN,
		},
	}
}

// SelectKeepers runs the keeper passes over the row set. Every row starts as
// Keep; within each group every non-keeper becomes Delete. A pass never turns
// a Delete back into Keep.
func SelectKeepers(derived []Derived, flags []Flags, t Tables) []Suggestion {
	current, _ := SelectKeepersTraced(derived, flags, t)
	return current
}

// SelectKeepersTraced is SelectKeepers that also returns, per row, the Name of
// the last pass that marked it Delete ("" for keepers).
//
// A later pass can delete the keeper of an earlier pass's group. A GTIN pair
// group whose first row shares a normalised key with an earlier GTIN-bearing
// row therefore ends with no keeper at all.
func SelectKeepersTraced(derived []Derived, flags []Flags, t Tables) ([]Suggestion, []string) {
	current := make([]Suggestion, len(derived))
	deletedBy := make([]string, len(derived))
	for _, p := range KeeperPasses(derived, flags, t) {
		for _, members := range groupMembers(derived, p) {
			keeper := p.Keeper(members, derived, current)
			for _, i := range members {
				if i != keeper {
					current[i] = Delete
					deletedBy[i] = p.Name
				}
			}
		}
	}
	return current, deletedBy
}

// groupMembers groups the admitted rows of a pass by key. Groups come back in
// order of first appearance and members in original order.
func groupMembers(derived []Derived, p GroupPass) [][]int {
	index := make(map[string]int)
	var groups [][]int
	for i, d := range derived {
		if !p.Admit(i) {
			continue
		}
		k := p.Key(d)
		g, ok := index[k]
		if !ok {
			g = len(groups)
			index[k] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], i)
	}
	return groups
}
