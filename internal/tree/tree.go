// Package tree keeps a partial, lazily-fetched materialization of a
// user's content hierarchy. Nodes live in an arena keyed by id; each
// directory carries an explicit resolved/unresolved children state, so
// "do I need to fetch" is a field check rather than a sentinel child.
package tree

import (
	"fmt"

	"github.com/joaopmafra/sapie/internal/client"
)

// Fetcher is the slice of the API client the tree needs.
type Fetcher interface {
	Root() (*client.Content, error)
	Children(parentID string) ([]client.Content, error)
}

// ChildState tracks whether a directory's children have been fetched.
type ChildState int

const (
	// ChildrenUnresolved means the node may have children the tree has
	// not fetched yet.
	ChildrenUnresolved ChildState = iota
	// ChildrenResolved means Children holds the complete (possibly
	// empty) child list.
	ChildrenResolved
)

// Node is an arena entry: the content record plus the ordered ids of its
// known children.
type Node struct {
	Content  client.Content
	Children []string
	State    ChildState
}

// Tree is the client-side hierarchy cache. Not safe for concurrent use;
// callers drive it from a single goroutine the way a UI event loop would.
type Tree struct {
	fetcher Fetcher
	nodes   map[string]*Node
	rootID  string
}

func New(fetcher Fetcher) *Tree {
	return &Tree{
		fetcher: fetcher,
		nodes:   make(map[string]*Node),
	}
}

// Load fetches the root directory and its immediate children. The root is
// resolved after loading; directory children start unresolved so the UI
// can show them as expandable without further round trips.
func (t *Tree) Load() error {
	root, err := t.fetcher.Root()
	if err != nil {
		return fmt.Errorf("loading root: %w", err)
	}

	t.nodes = make(map[string]*Node)
	t.rootID = root.ID
	t.nodes[root.ID] = &Node{Content: *root}

	children, err := t.fetcher.Children(root.ID)
	if err != nil {
		return fmt.Errorf("loading root children: %w", err)
	}
	t.attach(root.ID, children)
	return nil
}

// Expand makes a node's children available, fetching them only on the
// first call. Re-expanding a resolved node returns the cached ids without
// touching the network; an empty fetch result still flips the node to
// resolved so it stops offering expansion.
func (t *Tree) Expand(id string) ([]string, error) {
	node, ok := t.nodes[id]
	if !ok {
		return nil, fmt.Errorf("unknown node %s", id)
	}
	if node.State == ChildrenResolved {
		return node.Children, nil
	}

	children, err := t.fetcher.Children(id)
	if err != nil {
		return nil, fmt.Errorf("expanding %s: %w", id, err)
	}
	t.attach(id, children)
	return t.nodes[id].Children, nil
}

// attach merges fetched children into the arena and marks the parent
// resolved. Notes are leaves, so they enter already resolved; directories
// stay unresolved until their own Expand.
func (t *Tree) attach(parentID string, children []client.Content) {
	parent := t.nodes[parentID]
	parent.Children = make([]string, 0, len(children))
	parent.State = ChildrenResolved

	for _, child := range children {
		node := &Node{Content: child}
		if !child.IsDirectory() {
			node.State = ChildrenResolved
		}
		t.nodes[child.ID] = node
		parent.Children = append(parent.Children, child.ID)
	}
}

// Node returns the arena entry for an id.
func (t *Tree) Node(id string) (*Node, bool) {
	node, ok := t.nodes[id]
	return node, ok
}

// RootID returns the id of the loaded root, or "" before Load.
func (t *Tree) RootID() string {
	return t.rootID
}

// Len returns the number of materialized nodes.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Path walks parent references from id up to the root and returns the
// names from root to id. Unfetched ancestors cut the walk short.
func (t *Tree) Path(id string) []string {
	var names []string
	for {
		node, ok := t.nodes[id]
		if !ok {
			break
		}
		names = append([]string{node.Content.Name}, names...)
		if node.Content.ParentID == nil {
			break
		}
		id = *node.Content.ParentID
	}
	return names
}

// Refresh drops every cached node and reloads from the server.
func (t *Tree) Refresh() error {
	return t.Load()
}
