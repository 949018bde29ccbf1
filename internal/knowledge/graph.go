// ABOUTME: Knowledge graph extraction over chunked text
// ABOUTME: Capitalized-phrase entities, co-occurrence edges, degree centrality, DOT export
package knowledge

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/aniruddha1321/Athena/internal/models"
)

// entityPattern matches capitalized phrases: one or more capitalized words
// in sequence, allowing inner initials ("Neural Networks", "J. Smith").
var entityPattern = regexp.MustCompile(`\b[A-Z][a-zA-Z]*(?:\.? [A-Z][a-zA-Z]*)*\b`)

// sentenceStarters are capitalized function words that the heuristic would
// otherwise mistake for entities at sentence starts.
var sentenceStarters = map[string]struct{}{
	"The": {}, "A": {}, "An": {}, "This": {}, "That": {}, "These": {},
	"Those": {}, "It": {}, "In": {}, "On": {}, "At": {}, "For": {},
	"We": {}, "Our": {}, "They": {}, "He": {}, "She": {}, "If": {},
	"As": {}, "By": {}, "To": {}, "Of": {}, "And": {}, "But": {},
	"However": {}, "Therefore": {}, "Thus": {}, "Here": {}, "There": {},
	"When": {}, "Where": {}, "While": {}, "With": {}, "Figure": {},
	"Table": {}, "Section": {},
}

// Entity is one extracted node with its mention count.
type Entity struct {
	Label    string `json:"label"`
	Mentions int    `json:"mentions"`
}

// Edge links two entities that co-occur in at least one chunk; Weight is
// the number of shared chunks.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Weight int    `json:"weight"`
}

// Graph is the extracted knowledge graph.
type Graph struct {
	entities map[string]*Entity
	edges    map[[2]string]int
}

// BuildGraph extracts entities from each chunk and connects entities that
// share a chunk. Chunks are the co-occurrence window, so the chunker's
// granularity directly controls edge density.
func BuildGraph(chunks []models.Chunk) *Graph {
	g := &Graph{
		entities: make(map[string]*Entity),
		edges:    make(map[[2]string]int),
	}

	for _, chunk := range chunks {
		labels := extractEntities(chunk.Text)
		for _, label := range labels {
			if e, ok := g.entities[label]; ok {
				e.Mentions++
			} else {
				g.entities[label] = &Entity{Label: label, Mentions: 1}
			}
		}
		for i := 0; i < len(labels); i++ {
			for j := i + 1; j < len(labels); j++ {
				g.edges[edgeKey(labels[i], labels[j])]++
			}
		}
	}
	return g
}

// edgeKey canonicalizes an undirected pair.
func edgeKey(a, b string) [2]string {
	if a > b {
		a, b = b, a
	}
	return [2]string{a, b}
}

// extractEntities returns the unique capitalized phrases in text, filtered
// and order-preserving.
func extractEntities(text string) []string {
	matches := entityPattern.FindAllString(text, -1)
	seen := make(map[string]struct{}, len(matches))
	var out []string
	for _, m := range matches {
		m = strings.TrimSpace(m)
		if _, skip := sentenceStarters[m]; skip {
			continue
		}
		// Single letters and all-caps noise under 2 chars are not entities.
		if len(m) < 2 {
			continue
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}

// EntityCount reports the number of distinct entities.
func (g *Graph) EntityCount() int { return len(g.entities) }

// EdgeCount reports the number of distinct co-occurrence edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Edges returns all edges sorted by descending weight, then label order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, len(g.edges))
	for key, weight := range g.edges {
		out = append(out, Edge{Source: key[0], Target: key[1], Weight: weight})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		return out[i].Target < out[j].Target
	})
	return out
}

// Centrality returns the weighted degree of each entity: the sum of the
// weights of its incident edges.
func (g *Graph) Centrality() map[string]int {
	degree := make(map[string]int, len(g.entities))
	for label := range g.entities {
		degree[label] = 0
	}
	for key, weight := range g.edges {
		degree[key[0]] += weight
		degree[key[1]] += weight
	}
	return degree
}

// TopEntities returns up to n entities ranked by weighted degree, ties
// broken by mention count and then label for determinism.
func (g *Graph) TopEntities(n int) []Entity {
	degree := g.Centrality()
	out := make([]Entity, 0, len(g.entities))
	for _, e := range g.entities {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := degree[out[i].Label], degree[out[j].Label]
		if di != dj {
			return di > dj
		}
		if out[i].Mentions != out[j].Mentions {
			return out[i].Mentions > out[j].Mentions
		}
		return out[i].Label < out[j].Label
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// DOT renders the graph in Graphviz format for external visualization.
func (g *Graph) DOT() string {
	var b strings.Builder
	b.WriteString("graph knowledge {\n")
	b.WriteString("  node [shape=ellipse];\n")

	for _, e := range g.TopEntities(0) {
		fmt.Fprintf(&b, "  %q [label=%q];\n", e.Label,
			fmt.Sprintf("%s (%d)", e.Label, e.Mentions))
	}
	for _, edge := range g.Edges() {
		fmt.Fprintf(&b, "  %q -- %q [weight=%d];\n", edge.Source, edge.Target, edge.Weight)
	}

	b.WriteString("}\n")
	return b.String()
}
