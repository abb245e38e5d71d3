package diff

import (
	"sort"

	"github.com/dominikbraun/graph"

	"github.com/mvp-joe/apidiff/internal/model"
)

// groupChanges buckets the flat change list by enclosing documentation
// group. Group membership is read from the group entities' child links
// (new snapshot for added/modified records, old snapshot for deletions).
// Buckets are ordered by a stable topological sort of the group
// containment graph, so parent groups render before their subgroups; the
// anonymous bucket, when present, renders first.
func groupChanges(changes []*Change, newc, oldc *model.Collection) []*GroupChanges {
	newOwner := ownerIndex(newc)
	oldOwner := ownerIndex(oldc)

	buckets := make(map[string][]*Change)
	for _, c := range changes {
		var name string
		if c.Action == ActionDeleted {
			name = oldOwner[c.Old.ID]
		} else {
			name = newOwner[c.New.ID]
		}
		buckets[name] = append(buckets[name], c)
	}

	var result []*GroupChanges
	if anon, ok := buckets[""]; ok {
		result = append(result, &GroupChanges{Changes: anon})
	}
	for _, name := range groupOrder(newc, oldc) {
		if bucket, ok := buckets[name]; ok && name != "" {
			result = append(result, &GroupChanges{
				Name:    name,
				Title:   groupTitle(name, newc, oldc),
				Changes: bucket,
			})
		}
	}
	return result
}

// ownerIndex maps entity ID to the name of its directly enclosing group.
// The first group claiming a child wins.
func ownerIndex(c *model.Collection) map[string]string {
	owner := make(map[string]string)
	for _, e := range c.Entities {
		if e.Kind != model.KindGroup {
			continue
		}
		for _, child := range e.ChildIDs {
			if _, ok := owner[child]; !ok {
				owner[child] = e.Name
			}
		}
	}
	return owner
}

// groupOrder returns every group name of both snapshots, parents before
// subgroups. The containment edges come from group-to-group child links;
// a cycle (malformed input) degrades to alphabetical order.
func groupOrder(newc, oldc *model.Collection) []string {
	g := graph.New(graph.StringHash, graph.Directed(), graph.PreventCycles())

	var names []string
	addGroups := func(c *model.Collection) {
		for _, e := range c.Entities {
			if e.Kind != model.KindGroup {
				continue
			}
			if err := g.AddVertex(e.Name); err == nil {
				names = append(names, e.Name)
			}
		}
	}
	addGroups(newc)
	addGroups(oldc)

	addEdges := func(c *model.Collection) {
		for _, e := range c.Entities {
			if e.Kind != model.KindGroup {
				continue
			}
			for _, childID := range e.ChildIDs {
				child := c.ByID(childID)
				if child != nil && child.Kind == model.KindGroup {
					_ = g.AddEdge(e.Name, child.Name)
				}
			}
		}
	}
	addEdges(newc)
	addEdges(oldc)

	order, err := graph.StableTopologicalSort(g, func(a, b string) bool { return a < b })
	if err != nil {
		sort.Strings(names)
		return names
	}
	return order
}

func groupTitle(name string, newc, oldc *model.Collection) string {
	for _, c := range []*model.Collection{newc, oldc} {
		for _, e := range c.ByShortID(string(model.KindGroup) + ":" + name) {
			if e.Title != "" {
				return e.Title
			}
		}
	}
	return ""
}
