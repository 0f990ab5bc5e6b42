package pkg

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
)

// RenderGraph draws the owned partition's adjacency snapshot. Node
// labels carry the current rank mass, edge labels the net multiplicity.
func RenderGraph(snapshot []NodeState, format graphviz.Format) ([]byte, error) {
	g := graphviz.New()
	graph, err := g.Graph(graphviz.Directed)
	if err != nil {
		return nil, fmt.Errorf("could not create graph: %w", err)
	}
	defer func() {
		graph.Close()
		g.Close()
	}()

	nodes := make(map[NodeID]*cgraph.Node)
	ensure := func(key NodeID) (*cgraph.Node, error) {
		if n, ok := nodes[key]; ok {
			return n, nil
		}
		n, err := graph.CreateNode(strconv.FormatUint(uint64(key), 10))
		if err != nil {
			return nil, err
		}
		nodes[key] = n
		return n, nil
	}

	for _, state := range snapshot {
		from, err := ensure(state.Key)
		if err != nil {
			return nil, fmt.Errorf("could not create node %d: %w", state.Key, err)
		}
		from.SetLabel(fmt.Sprintf("%d\nmass %d", state.Key, state.Rank))
		for _, edge := range state.Edges {
			to, err := ensure(edge.Node)
			if err != nil {
				return nil, fmt.Errorf("could not create node %d: %w", edge.Node, err)
			}
			e, err := graph.CreateEdge("", from, to)
			if err != nil {
				return nil, fmt.Errorf("could not create edge %d->%d: %w", state.Key, edge.Node, err)
			}
			if edge.Diff != 1 {
				e.SetLabel(strconv.FormatInt(edge.Diff, 10))
			}
		}
	}

	var buf bytes.Buffer
	if err := g.Render(graph, format, &buf); err != nil {
		return nil, fmt.Errorf("could not render graph: %w", err)
	}
	return buf.Bytes(), nil
}
