package domain

// Mind map shapes follow the React Flow contract consumed downstream:
// nodes carry string ids, a position, and a data.label; edges reference
// node ids. This is the one semi-stable external data contract the core
// owns.

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type NodeData struct {
	Label   string `json:"label"`
	Content string `json:"content,omitempty"`
}

type MindMapNode struct {
	ID       string   `json:"id"`
	Type     string   `json:"type,omitempty"`
	Data     NodeData `json:"data"`
	Position Position `json:"position"`
}

type MindMapEdge struct {
	ID       string `json:"id"`
	Source   string `json:"source"`
	Target   string `json:"target"`
	Type     string `json:"type,omitempty"`
	Animated bool   `json:"animated,omitempty"`
}

type MindMap struct {
	Nodes []MindMapNode `json:"nodes"`
	Edges []MindMapEdge `json:"edges"`
}
