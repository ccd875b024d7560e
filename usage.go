package cmdtree

import "bytes"

const (
	// UsageOptionalOpen/Close bracket an optional fragment.
	UsageOptionalOpen  rune = '['
	UsageOptionalClose rune = ']'
	// UsageRequiredOpen/Close parenthesize a required choice among siblings.
	UsageRequiredOpen  rune = '('
	UsageRequiredClose rune = ')'
	// UsageOr separates alternatives inside a required-choice group.
	UsageOr rune = '|'
)

// AllUsage lists every executable command reachable from node, one string
// per terminal, in "simple" form. The path to node itself is never
// prepended.
func (t *Tree) AllUsage(node CommandNode, sender any, restricted bool) []string {
	return allUsage(node, sender, nil, "", restricted)
}

func allUsage(node CommandNode, sender any, result []string, prefix string, restricted bool) []string {
	if restricted && !node.Permission().Allows(sender) {
		return result
	}
	if node.Command() != nil {
		result = append(result, prefix)
	}
	for _, child := range node.ChildrenOrdered() {
		p := child.UsageText()
		if prefix != "" {
			p = prefix + string(ArgumentSeparator) + p
		}
		result = allUsage(child, sender, result, p, restricted)
	}
	return result
}

// SmartUsageEntry pairs a child node with its compressed usage fragment,
// preserving the declaration order ChildrenOrdered produces.
type SmartUsageEntry struct {
	Node  CommandNode
	Usage string
}

// SmartUsage compresses node's reachable commands into one "smart" usage
// string per immediate child, mixing [arg], literal, [optional] and
// (either|or) forms. Output is restricted to what sender may use.
func (t *Tree) SmartUsage(node CommandNode, sender any) []SmartUsageEntry {
	optional := node.Command() != nil
	var entries []SmartUsageEntry
	for _, child := range node.ChildrenOrdered() {
		usage := smartUsage(child, sender, optional, false)
		if usage != "" {
			entries = append(entries, SmartUsageEntry{Node: child, Usage: usage})
		}
	}
	return entries
}

func smartUsage(node CommandNode, sender any, optional, deep bool) string {
	if !node.Permission().Allows(sender) {
		return ""
	}

	b := new(bytes.Buffer)
	if optional {
		b.WriteRune(UsageOptionalOpen)
		b.WriteString(node.UsageText())
		b.WriteRune(UsageOptionalClose)
	} else {
		b.WriteString(node.UsageText())
	}
	if deep {
		return b.String()
	}

	childOptional := node.Command() != nil
	openChar, closeChar := UsageRequiredOpen, UsageRequiredClose
	if childOptional {
		openChar, closeChar = UsageOptionalOpen, UsageOptionalClose
	}

	var children []CommandNode
	for _, child := range node.ChildrenOrdered() {
		if child.Permission().Allows(sender) {
			children = append(children, child)
		}
	}

	switch len(children) {
	case 0:
		// leaf
	case 1:
		usage := smartUsage(children[0], sender, childOptional, childOptional)
		if usage != "" {
			b.WriteRune(ArgumentSeparator)
			b.WriteString(usage)
		}
	default:
		var childUsage []string
		seen := map[string]struct{}{}
		for _, child := range children {
			usage := smartUsage(child, sender, optional, true)
			if usage == "" {
				continue
			}
			if _, ok := seen[usage]; ok {
				continue
			}
			seen[usage] = struct{}{}
			childUsage = append(childUsage, usage)
		}
		if len(childUsage) == 1 {
			b.WriteRune(ArgumentSeparator)
			if childOptional {
				b.WriteRune(UsageOptionalOpen)
				b.WriteString(childUsage[0])
				b.WriteRune(UsageOptionalClose)
			} else {
				b.WriteString(childUsage[0])
			}
		} else if len(childUsage) > 1 {
			s := new(bytes.Buffer)
			s.WriteRune(openChar)
			for i, u := range childUsage {
				if i != 0 {
					s.WriteRune(UsageOr)
				}
				s.WriteString(u)
			}
			s.WriteRune(closeChar)
			b.WriteRune(ArgumentSeparator)
			_, _ = s.WriteTo(b)
		}
	}
	return b.String()
}
