package intmap

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/btree-query-bench/intmap/stack"
)

// Dump writes every live entry of m in ascending key order, framed by a
// header carrying the representation and a storage estimate. It does not
// change the map.
func (m *Map[V]) Dump(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# ==== IntMap %s Size = %d Entries = %d\n", m.Kind(), m.Storage(), m.entries)
	for k, v := range m.All(math.MinInt64, math.MaxInt64) {
		fmt.Fprintf(bw, "# %5d : %v\n", k, v)
	}
	fmt.Fprintln(bw, "# ==== IntMap End")
	return bw.Flush()
}

// ExportDOT writes the tree shape of m as a Graphviz digraph, one record
// per bucket. Maps that are not trees produce a graph with a single node
// or none.
func (m *Map[V]) ExportDOT(w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "digraph IntMap {")
	fmt.Fprintln(bw, "  graph [ranksep=0.6, nodesep=0.4, bgcolor=\"#ffffff\", rankdir=TB];")
	fmt.Fprintln(bw, "  node [shape=none, fontname=\"Helvetica\", fontsize=10];")
	fmt.Fprintln(bw, "  edge [arrowsize=0.8, color=\"#444444\"];")

	switch m.Kind() {
	case Single:
		fmt.Fprintf(bw, "  single [label=<<B>%d</B> %s>];\n", m.maxKey, preview(m.value))
	case Tree:
		names := make(map[*node[V]]string)
		name := func(n *node[V]) string {
			if s, ok := names[n]; ok {
				return s
			}
			s := fmt.Sprintf("node%d", len(names))
			names[n] = s
			return s
		}

		var todo stack.Stack[*node[V]]
		if m.tree.root != nil {
			todo.Push(m.tree.root)
		}
		for !todo.Empty() {
			n := todo.Pop()
			fmt.Fprintf(bw, "  %s [label=%s];\n", name(n), bucketLabel(n))
			if n.left != nil {
				fmt.Fprintf(bw, "  %s -> %s [label=\"L\"];\n", name(n), name(n.left))
				todo.Push(n.left)
			}
			if n.right != nil {
				fmt.Fprintf(bw, "  %s -> %s [label=\"R\"];\n", name(n), name(n.right))
				todo.Push(n.right)
			}
		}
	}

	fmt.Fprintln(bw, "}")
	return bw.Flush()
}

func bucketLabel[V any](n *node[V]) string {
	var b strings.Builder
	b.WriteString(`<<TABLE BORDER="0" CELLBORDER="1" CELLSPACING="0" CELLPADDING="4">`)
	fmt.Fprintf(&b, `<TR><TD COLSPAN="%d" BGCOLOR="#DAE8FC"><B>BUCKET %d</B></TD></TR><TR>`, BucketSize, n.key)
	for s := 0; s < BucketSize; s++ {
		if n.occupied(s) {
			fmt.Fprintf(&b, `<TD BGCOLOR="#D5E8D4"><B>%d</B>%s</TD>`, n.key+int64(s), preview(n.vals[s]))
		} else {
			b.WriteString(`<TD BGCOLOR="#F5F5F5">-</TD>`)
		}
	}
	b.WriteString(`</TR></TABLE>>`)
	return b.String()
}

func preview(v any) string {
	var text string
	if b, ok := v.([]byte); ok {
		text = string(b)
	} else {
		text = fmt.Sprint(v)
	}
	if len(text) > 3 {
		text = text[:3] + ".."
	}
	if text == "" {
		return ""
	}
	return fmt.Sprintf("<BR/><FONT POINT-SIZE=\"8\" COLOR=\"#666666\">[%s]</FONT>", htmlEscape(text))
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func htmlEscape(s string) string { return htmlEscaper.Replace(s) }
