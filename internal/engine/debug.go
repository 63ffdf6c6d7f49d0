package engine

import (
	"fmt"
	"io"
	"strings"
)

// Fprint печатает граф в глубину, по два пробела отступа на уровень:
//
//	group ->
//	  to_optional_int ->
//	    delimsum ->
//	      fanout elves (n: 2):
//	        max ->
//	          print
//	        topn ->
//	          sum ->
//	            print
func Fprint(w io.Writer, p *Pipeline) error {
	if p == nil || p.Head == nil {
		_, err := fmt.Fprintln(w, "<empty pipeline>")
		return err
	}
	return printNode(w, p.Head, 0)
}

// String возвращает отладочное представление графа.
func (p *Pipeline) String() string {
	var sb strings.Builder
	_ = Fprint(&sb, p)
	return sb.String()
}

func printNode(w io.Writer, n *Node, depth int) error {
	indent := strings.Repeat("  ", depth)

	switch {
	case n.Fanout != nil:
		if _, err := fmt.Fprintf(w, "%sfanout %s (n: %d):\n", indent, n.Fanout.Name, len(n.Fanout.Children)); err != nil {
			return err
		}
		for _, child := range n.Fanout.Children {
			if err := printNode(w, child, depth+1); err != nil {
				return err
			}
		}
		return nil

	case n.Next != nil:
		if _, err := fmt.Fprintf(w, "%s%s ->\n", indent, n.Name()); err != nil {
			return err
		}
		return printNode(w, n.Next, depth+1)

	default:
		_, err := fmt.Fprintf(w, "%s%s\n", indent, n.Name())
		return err
	}
}
