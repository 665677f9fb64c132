// Package domainindex implements FiltersByDomain, the domain-partitioned
// sub-index of spec §3/§4.2: a map from domain to the set of filter texts
// restricted to it, each carrying an include/exclude flag, with a compact
// one-entry specialization for the overwhelmingly common case of one filter
// per domain.
package domainindex

// entry is the value type FiltersByDomain stores per domain.  It is a sum
// type in spirit — exactly one of the two fields is meaningful at a time —
// kept as a single struct (rather than an interface) so that the common,
// single-filter case allocates nothing beyond the struct itself.
type entry struct {
	// many holds the FilterMap form.  Non-nil iff the domain has more than
	// one associated filter, or its one filter has include == false.
	many *FilterMap

	// single holds the bare-filter form: text, with include implied true.
	// Meaningful iff many == nil.
	single string
}

// FilterMap is an insertion-ordered `filterText → include` mapping, used
// once a domain has more than one associated filter (or its sole filter has
// include == false).  Per spec §3, a FilterMap is never a singleton of
// (text, true) — that collapses back to the bare-filter form.
type FilterMap struct {
	index map[string]int
	pairs []filterInclude
}

type filterInclude struct {
	text    string
	include bool
}

func newFilterMap() (m *FilterMap) {
	return &FilterMap{index: map[string]int{}}
}

// Get returns the include flag recorded for text, if any.
func (m *FilterMap) Get(text string) (include bool, ok bool) {
	if m == nil {
		return false, false
	}

	i, ok := m.index[text]
	if !ok {
		return false, false
	}

	return m.pairs[i].include, true
}

// Len returns the number of filters recorded in m.
func (m *FilterMap) Len() (n int) {
	if m == nil {
		return 0
	}

	return len(m.pairs)
}

// Range calls f for every (text, include) pair in insertion order, until f
// returns false.
func (m *FilterMap) Range(f func(text string, include bool) (cont bool)) {
	if m == nil {
		return
	}

	for _, p := range m.pairs {
		if !f(p.text, p.include) {
			return
		}
	}
}

func (m *FilterMap) set(text string, include bool) {
	if i, ok := m.index[text]; ok {
		m.pairs[i].include = include

		return
	}

	m.index[text] = len(m.pairs)
	m.pairs = append(m.pairs, filterInclude{text: text, include: include})
}

func (m *FilterMap) delete(text string) {
	i, ok := m.index[text]
	if !ok {
		return
	}

	m.pairs = append(m.pairs[:i], m.pairs[i+1:]...)
	delete(m.index, text)

	for j := i; j < len(m.pairs); j++ {
		m.index[m.pairs[j].text] = j
	}
}

// soleIncludedText returns the text of m's only entry if m has exactly one
// entry and it is included, so the caller can collapse m back to bare-filter
// form.
func (m *FilterMap) soleIncludedText() (text string, ok bool) {
	if len(m.pairs) != 1 || !m.pairs[0].include {
		return "", false
	}

	return m.pairs[0].text, true
}

// FiltersByDomain maps domain → entry, where an entry is either a bare
// filter text (include implied true) or a FilterMap.  The blank-string
// domain key is reserved for "applies everywhere".
type FiltersByDomain struct {
	domains map[string]entry
	order   []string
}

// New returns an empty FiltersByDomain.
func New() (fbd *FiltersByDomain) {
	return &FiltersByDomain{domains: map[string]entry{}}
}

// Size returns the number of distinct domain keys currently stored.
func (fbd *FiltersByDomain) Size() (n int) {
	return len(fbd.domains)
}

// Has reports whether domain has an entry.
func (fbd *FiltersByDomain) Has(domain string) (ok bool) {
	_, ok = fbd.domains[domain]

	return ok
}

// Get returns the entry for domain as a FilterMap view, regardless of
// whether it was stored in bare or FilterMap form, so callers (the matcher's
// domain-suffix walk) don't need to special-case the bare form.  The
// returned FilterMap must not be mutated; ok is false if domain has no
// entry.
func (fbd *FiltersByDomain) Get(domain string) (m *FilterMap, ok bool) {
	e, ok := fbd.domains[domain]
	if !ok {
		return nil, false
	}

	if e.many != nil {
		return e.many, true
	}

	single := newFilterMap()
	single.set(e.single, true)

	return single, true
}

// Entries calls f for every (domain, filterMap) pair in domain-insertion
// order, until f returns false.
func (fbd *FiltersByDomain) Entries(f func(domain string, m *FilterMap) (cont bool)) {
	for _, d := range fbd.order {
		m, _ := fbd.Get(d)
		if !f(d, m) {
			return
		}
	}
}

// Clear empties fbd.
func (fbd *FiltersByDomain) Clear() {
	fbd.domains = map[string]entry{}
	fbd.order = nil
}

// Add records (text, include) for every domain in domains, per spec §4.2.
// A nil domains is treated as the single pair ("", true).  The pair
// ("", false) is always skipped — it carries no information (it's the
// default for an inclusion-restricted filter and would never legitimately
// appear standing alone).
func (fbd *FiltersByDomain) Add(text string, domains map[string]bool) {
	if len(domains) == 0 {
		fbd.addOne(text, "", true)

		return
	}

	for domain, include := range domains {
		if domain == "" && !include {
			continue
		}

		fbd.addOne(text, domain, include)
	}
}

func (fbd *FiltersByDomain) addOne(text, domain string, include bool) {
	e, ok := fbd.domains[domain]
	if !ok {
		fbd.order = append(fbd.order, domain)

		if include {
			fbd.domains[domain] = entry{single: text}
		} else {
			m := newFilterMap()
			m.set(text, false)
			fbd.domains[domain] = entry{many: m}
		}

		return
	}

	if e.many == nil {
		if e.single == text {
			return
		}

		m := newFilterMap()
		m.set(e.single, true)
		m.set(text, include)
		fbd.domains[domain] = entry{many: m}

		return
	}

	e.many.set(text, include)
}

// Remove undoes Add(text, domains) with the same arguments, per spec §4.2:
// the resulting structure equals its pre-add shape.
func (fbd *FiltersByDomain) Remove(text string, domains map[string]bool) {
	if len(domains) == 0 {
		fbd.removeOne(text, "")

		return
	}

	for domain, include := range domains {
		if domain == "" && !include {
			continue
		}

		fbd.removeOne(text, domain)
	}
}

func (fbd *FiltersByDomain) removeOne(text, domain string) {
	e, ok := fbd.domains[domain]
	if !ok {
		return
	}

	if e.many == nil {
		if e.single == text {
			fbd.deleteDomain(domain)
		}

		return
	}

	e.many.delete(text)

	switch {
	case e.many.Len() == 0:
		fbd.deleteDomain(domain)
	default:
		if sole, ok := e.many.soleIncludedText(); ok {
			fbd.domains[domain] = entry{single: sole}
		}
	}
}

func (fbd *FiltersByDomain) deleteDomain(domain string) {
	delete(fbd.domains, domain)

	for i, d := range fbd.order {
		if d == domain {
			fbd.order = append(fbd.order[:i], fbd.order[i+1:]...)

			break
		}
	}
}
