package value

import (
	"strconv"
	"strings"
)

// PathElem is one step from a container to its child: a mapping key or a sequence index.
type PathElem struct {
	Key   string
	Index int
	IsKey bool
}

func KeyElem(key string) PathElem {
	return PathElem{Key: key, IsKey: true}
}

func IndexElem(i int) PathElem {
	return PathElem{Index: i}
}

// Path locates a node inside a Value tree, rendered as `$.statuses[3].user`.
type Path []PathElem

func (p Path) String() string {
	sb := strings.Builder{}
	sb.WriteByte('$')
	for _, e := range p {
		switch {
		case !e.IsKey:
			sb.WriteByte('[')
			sb.WriteString(strconv.Itoa(e.Index))
			sb.WriteByte(']')
		case isIdentifier(e.Key):
			sb.WriteByte('.')
			sb.WriteString(e.Key)
		default:
			sb.WriteByte('[')
			sb.WriteString(strconv.Quote(e.Key))
			sb.WriteByte(']')
		}
	}
	return sb.String()
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
