package pkg

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseEdgeList converts a plain-text edge list (one "from to" or
// "from,to" pair per line, # and // comments allowed) into +1 edge
// events, ready to be injected as one initial burst.
func ParseEdgeList(contents []byte) ([]EdgeEvent, error) {
	var events []EdgeEvent
	// Split file contents in lines (based on newline delimiter)
	lines := strings.Split(strings.ReplaceAll(string(contents), "\r\n", "\n"), "\n")
	for _, line := range lines {
		from, to, skip, err := convertLine(line)
		if err != nil {
			return nil, err
		}
		// Comment line -> no edge to add
		if skip {
			continue
		}
		events = append(events, EdgeEvent{Source: from, Dest: to, Delta: 1})
	}
	return events, nil
}

func convertLine(line string) (NodeID, NodeID, bool, error) {
	// Skip comment lines
	if strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") || strings.TrimSpace(line) == "" {
		return 0, 0, true, nil
	}
	// Convert line to csv format
	line = strings.Replace(line, " ", ",", 1)
	// Split line in FromNode and ToNode
	tokens := strings.Split(line, ",")
	if len(tokens) < 2 {
		return 0, 0, false, fmt.Errorf("could not split line %q into an edge", line)
	}
	from, err := strconv.ParseUint(strings.TrimSpace(tokens[0]), 10, 32)
	if err != nil {
		return 0, 0, false, fmt.Errorf("could not convert FromNode %s", tokens[0])
	}
	to, err := strconv.ParseUint(strings.TrimSpace(tokens[1]), 10, 32)
	if err != nil {
		return 0, 0, false, fmt.Errorf("could not convert ToNode %s", tokens[1])
	}
	return NodeID(from), NodeID(to), false, nil
}
