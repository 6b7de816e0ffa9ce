package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/AswanthAllu/agentic/internal/core/domain"
	"github.com/AswanthAllu/agentic/internal/core/ports"
)

// MindMapUseCase turns a document into a React Flow graph. Generation
// degrades through four strategies: LLM-structured extraction, heading
// hierarchy parsing, key-sentence mapping, and finally a single-root
// excerpt. The caller always gets a non-empty map for a readable file.
type MindMapUseCase struct {
	gateway   *LLMGateway
	repo      ports.FileRepository
	extractor ports.TextExtractor
}

func NewMindMapUseCase(
	gateway *LLMGateway,
	repo ports.FileRepository,
	extractor ports.TextExtractor,
) *MindMapUseCase {
	return &MindMapUseCase{
		gateway:   gateway,
		repo:      repo,
		extractor: extractor,
	}
}

func (uc *MindMapUseCase) Generate(ctx context.Context, ownerID, fileID string) (*domain.MindMap, error) {
	file, err := uc.repo.GetByID(ctx, ownerID, fileID)
	if err != nil {
		return nil, fmt.Errorf("fetch file by id: %w", err)
	}

	text, err := uc.extractor.Extract(ctx, file.StoragePath, file.MimeType)
	if err != nil {
		return nil, domain.WrapError(domain.ErrExtraction, "mindmap source", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "mindmap source", fmt.Errorf("file has no extractable text"))
	}

	title := strings.TrimSuffix(file.Filename, ext(file.Filename))

	if tree, err := uc.gateway.MindMapData(ctx, text); err == nil {
		if m := mapFromTree(tree); m != nil {
			return m, nil
		}
	}

	if m := mapFromHeadings(title, text); m != nil {
		return m, nil
	}

	if m := mapFromSentences(title, text); m != nil {
		return m, nil
	}

	return excerptMap(title, text), nil
}

func ext(name string) string {
	if idx := strings.LastIndex(name, "."); idx > 0 {
		return name[idx:]
	}
	return ""
}

// mapFromTree flattens the LLM's {"title", "children"} hierarchy.
func mapFromTree(tree map[string]any) *domain.MindMap {
	title, _ := tree["title"].(string)
	if strings.TrimSpace(title) == "" {
		return nil
	}

	b := newMapBuilder(title)
	b.addChildren(b.rootID, tree["children"], 1)
	if len(b.nodes) < 2 {
		return nil
	}
	return b.build()
}

// mapFromHeadings derives hierarchy from markdown-style headings and
// indented lines.
func mapFromHeadings(title, text string) *domain.MindMap {
	b := newMapBuilder(title)
	parentAtDepth := map[int]string{0: b.rootID}

	for _, line := range strings.Split(text, "\n") {
		label, depth, ok := headingLine(line)
		if !ok {
			continue
		}
		parent, found := parentAtDepth[depth-1]
		if !found {
			parent = b.rootID
		}
		id := b.addNode(parent, label, depth)
		parentAtDepth[depth] = id
	}

	if len(b.nodes) < 3 {
		return nil
	}
	return b.build()
}

func headingLine(line string) (label string, depth int, ok bool) {
	trimmed := strings.TrimLeft(line, " \t")
	indent := len(line) - len(trimmed)

	switch {
	case strings.HasPrefix(trimmed, "#"):
		level := 0
		for level < len(trimmed) && trimmed[level] == '#' {
			level++
		}
		label = strings.TrimSpace(trimmed[level:])
		depth = level
	case strings.HasPrefix(trimmed, "-"), strings.HasPrefix(trimmed, "*"):
		label = strings.TrimSpace(trimmed[1:])
		depth = indent/2 + 2
	default:
		return "", 0, false
	}

	if label == "" || len(label) > 120 {
		return "", 0, false
	}
	return label, depth, true
}

// mapFromSentences builds a flat one-level map from the first substantial
// sentences of the text.
func mapFromSentences(title, text string) *domain.MindMap {
	b := newMapBuilder(title)
	count := 0
	for _, sentence := range strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '\n'
	}) {
		sentence = strings.TrimSpace(sentence)
		if len(sentence) < 40 {
			continue
		}
		b.addNode(b.rootID, truncateForPrompt(sentence, 80), 1)
		count++
		if count == 6 {
			break
		}
	}
	if count == 0 {
		return nil
	}
	return b.build()
}

// excerptMap is the last rung: the title plus an opening excerpt.
func excerptMap(title, text string) *domain.MindMap {
	b := newMapBuilder(title)
	b.addNode(b.rootID, truncateForPrompt(strings.TrimSpace(text), 100), 1)
	return b.build()
}

// mapBuilder assigns React Flow ids, positions, and smoothstep animated
// edges as nodes are added.
type mapBuilder struct {
	rootID  string
	nodes   []domain.MindMapNode
	edges   []domain.MindMapEdge
	perRow  map[int]int
	counter int
}

func newMapBuilder(rootLabel string) *mapBuilder {
	b := &mapBuilder{perRow: map[int]int{}}
	b.rootID = b.place(rootLabel, 0, "input")
	return b
}

func (b *mapBuilder) addNode(parentID, label string, depth int) string {
	id := b.place(label, depth, "default")
	b.edges = append(b.edges, domain.MindMapEdge{
		ID:       fmt.Sprintf("e%s-%s", parentID, id),
		Source:   parentID,
		Target:   id,
		Type:     "smoothstep",
		Animated: true,
	})
	return id
}

func (b *mapBuilder) addChildren(parentID string, raw any, depth int) {
	children, ok := raw.([]any)
	if !ok || depth > 3 {
		return
	}
	for _, child := range children {
		node, ok := child.(map[string]any)
		if !ok {
			continue
		}
		label, _ := node["title"].(string)
		if strings.TrimSpace(label) == "" {
			continue
		}
		id := b.addNode(parentID, label, depth)
		b.addChildren(id, node["children"], depth+1)
	}
}

func (b *mapBuilder) place(label string, depth int, nodeType string) string {
	b.counter++
	id := fmt.Sprintf("%d", b.counter)
	col := b.perRow[depth]
	b.perRow[depth] = col + 1
	b.nodes = append(b.nodes, domain.MindMapNode{
		ID:   id,
		Type: nodeType,
		Data: domain.NodeData{Label: label},
		Position: domain.Position{
			X: float64(col * 220),
			Y: float64(depth * 120),
		},
	})
	return id
}

func (b *mapBuilder) build() *domain.MindMap {
	return &domain.MindMap{Nodes: b.nodes, Edges: b.edges}
}
