package board

import "slices"

// AddEdge adds a directed edge between two existing panels.
// If an edge with the same (source, target) pair already exists, the
// existing edge is returned with created == false - a duplicate insert is
// not an error. Returns ErrUnknownSourcePanel or ErrUnknownTargetPanel if
// an endpoint is missing.
func (b *Board) AddEdge(source, target, style string) (Edge, bool, error) {
	if _, ok := b.panels[source]; !ok {
		return Edge{}, false, ErrUnknownSourcePanel
	}
	if _, ok := b.panels[target]; !ok {
		return Edge{}, false, ErrUnknownTargetPanel
	}
	id := EdgeID(source, target)
	for _, e := range b.edges {
		if e.ID == id {
			return e, false, nil
		}
	}
	if style == "" {
		style = EdgeStyleSolid
	}
	e := Edge{ID: id, Source: source, Target: target, Style: style}
	b.edges = append(b.edges, e)
	b.outgoing[source] = append(b.outgoing[source], target)
	b.incoming[target] = append(b.incoming[target], source)
	b.markDirty()
	return e, true, nil
}

// RemoveEdge removes the edge with the given ID.
// Returns false if no such edge exists.
func (b *Board) RemoveEdge(id string) bool {
	idx := slices.IndexFunc(b.edges, func(e Edge) bool { return e.ID == id })
	if idx < 0 {
		return false
	}
	e := b.edges[idx]
	b.edges = slices.Delete(b.edges, idx, idx+1)
	b.outgoing[e.Source] = slices.DeleteFunc(b.outgoing[e.Source], func(s string) bool { return s == e.Target })
	b.incoming[e.Target] = slices.DeleteFunc(b.incoming[e.Target], func(s string) bool { return s == e.Source })
	b.markDirty()
	return true
}

// Edge returns the edge with the given ID and true, or the zero edge and
// false if not found.
func (b *Board) Edge(id string) (Edge, bool) {
	for _, e := range b.edges {
		if e.ID == id {
			return e, true
		}
	}
	return Edge{}, false
}

// Edges returns a copy of all edges in insertion order.
func (b *Board) Edges() []Edge { return slices.Clone(b.edges) }

// EdgeCount returns the number of edges on the board.
func (b *Board) EdgeCount() int { return len(b.edges) }

// PruneEdges drops edges whose endpoints no longer exist and returns the
// pruned edges. A dangling edge is a reconciliation artifact of panel
// removal, never an error.
func (b *Board) PruneEdges() []Edge {
	var pruned []Edge
	b.edges = slices.DeleteFunc(b.edges, func(e Edge) bool {
		_, srcOK := b.panels[e.Source]
		_, dstOK := b.panels[e.Target]
		if srcOK && dstOK {
			return false
		}
		pruned = append(pruned, e)
		return true
	})
	if len(pruned) == 0 {
		return nil
	}
	// Rebuild adjacency from the surviving edge list.
	b.outgoing = make(map[string][]string)
	b.incoming = make(map[string][]string)
	for _, e := range b.edges {
		b.outgoing[e.Source] = append(b.outgoing[e.Source], e.Target)
		b.incoming[e.Target] = append(b.incoming[e.Target], e.Source)
	}
	b.markDirty()
	return pruned
}

// ConnectedComponent returns the IDs of all panels reachable from the
// given panel via edges in either direction, including the panel itself.
// Returns nil if the panel does not exist. The result is sorted.
func (b *Board) ConnectedComponent(id string) []string {
	if _, ok := b.panels[id]; !ok {
		return nil
	}
	visited := map[string]bool{id: true}
	queue := []string{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range b.outgoing[cur] {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
		for _, next := range b.incoming[cur] {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	component := make([]string, 0, len(visited))
	for pid := range visited {
		component = append(component, pid)
	}
	slices.Sort(component)
	return component
}

// ExpandComponent expands every collapsed member of the connected
// component of the given panel and returns the IDs that changed.
// Already-expanded members are never touched, so the operation is
// idempotent: a second invocation changes nothing.
func (b *Board) ExpandComponent(id string) []string {
	var changed []string
	for _, pid := range b.ConnectedComponent(id) {
		if p := b.panels[pid]; p.Collapsed {
			p.Collapsed = false
			changed = append(changed, pid)
		}
	}
	if len(changed) > 0 {
		b.markDirty()
	}
	return changed
}

// ToggleComponent applies the bulk collapse/expand policy to the connected
// component of the given panel and returns the IDs whose collapse state
// changed.
//
// The policy is asymmetric: if every member is expanded, all members
// collapse; if any member is collapsed, only the collapsed members expand.
// Expanding never collapses a panel as a side effect, so repeated
// invocations converge to all-expanded and stay there.
func (b *Board) ToggleComponent(id string) []string {
	component := b.ConnectedComponent(id)
	if len(component) == 0 {
		return nil
	}

	for _, pid := range component {
		if b.panels[pid].Collapsed {
			// Mixed or fully collapsed: expand only collapsed members.
			return b.ExpandComponent(id)
		}
	}

	// Fully expanded: collapse everything.
	changed := make([]string, 0, len(component))
	for _, pid := range component {
		b.panels[pid].Collapsed = true
		changed = append(changed, pid)
	}
	b.markDirty()
	return changed
}
