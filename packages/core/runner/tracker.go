package runner

// Tracker is an ordered set of resource ids created during a run.
type Tracker struct {
	ids []string
}

// Add appends id unless it is empty or already tracked.
func (t *Tracker) Add(id string) {
	if id == "" || t.Contains(id) {
		return
	}
	t.ids = append(t.ids, id)
}

// Remove drops id, keeping the order of the rest. It reports whether id was tracked.
func (t *Tracker) Remove(id string) bool {
	for i, v := range t.ids {
		if v == id {
			t.ids = append(t.ids[:i], t.ids[i+1:]...)
			return true
		}
	}
	return false
}

func (t *Tracker) Contains(id string) bool {
	for _, v := range t.ids {
		if v == id {
			return true
		}
	}
	return false
}

// IDs returns a copy of the tracked ids in insertion order.
func (t *Tracker) IDs() []string {
	return append([]string(nil), t.ids...)
}

func (t *Tracker) Len() int {
	return len(t.ids)
}
