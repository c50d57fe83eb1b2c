package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathString(t *testing.T) {
	for _, test := range []struct {
		path Path
		exp  string
	}{
		{nil, "$"},
		{Path{KeyElem("statuses"), IndexElem(3), KeyElem("user")}, "$.statuses[3].user"},
		{Path{KeyElem("7")}, `$["7"]`},
		{Path{KeyElem("a b"), KeyElem("_x1")}, `$["a b"]._x1`},
		{Path{KeyElem("")}, `$[""]`},
	} {
		assert.Equal(t, test.exp, test.path.String())
	}
}
