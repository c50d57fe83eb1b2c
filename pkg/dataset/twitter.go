package dataset

import (
	_ "embed"
	"strconv"

	"github.com/pkg/errors"
	"github.com/wavesplatform/goserde/pkg/jsontext"
	"github.com/wavesplatform/goserde/pkg/value"
)

const (
	twitterStatuses = 100
	statusIDStep    = 4099
	userIDStep      = 7919
)

//go:embed twitter_seed.json
var twitterSeed []byte

func buildTwitter() value.Value {
	seed, err := jsontext.Decode(twitterSeed)
	if err != nil {
		panic(errors.Wrap(err, "embedded twitter seed"))
	}
	root := mustMapping(seed)
	templates := mustSequence(mustGet(root, "statuses"))
	if templates.Len() == 0 {
		panic(errors.New("embedded twitter seed has no statuses"))
	}
	statuses := make([]value.Value, twitterStatuses)
	for i := range statuses {
		statuses[i] = expandStatus(mustMapping(templates.At(i%templates.Len())), i)
	}
	return value.NewMappingBuilder().
		MustAdd("statuses", value.NewSequence(statuses...)).
		MustAdd("search_metadata", mustGet(root, "search_metadata")).
		Build()
}

// expandStatus derives the i-th status from a template, giving it its own ids, author and counters.
func expandStatus(tpl value.Mapping, i int) value.Value {
	id := int64(mustInt(mustGet(tpl, "id"))) - int64(i)*statusIDStep
	user := mustMapping(mustGet(tpl, "user"))
	userID := int64(mustInt(mustGet(user, "id"))) + int64(i)*userIDStep
	screenName := string(mustString(mustGet(user, "screen_name"))) + "_" + strconv.Itoa(i)
	user = replace(user, map[string]value.Value{
		"id":              value.Int(userID),
		"id_str":          value.String(strconv.FormatInt(userID, 10)),
		"screen_name":     value.String(screenName),
		"followers_count": value.Int(int64(i * i % 997)),
		"statuses_count":  value.Int(int64(1000 + i*31)),
	})
	return replace(tpl, map[string]value.Value{
		"id":             value.Int(id),
		"id_str":         value.String(strconv.FormatInt(id, 10)),
		"user":           user,
		"retweet_count":  value.Int(int64(i % 17)),
		"favorite_count": value.Int(int64(i % 5)),
	})
}

// replace returns a copy of m where the values of the listed keys are substituted. Keys keep
// their positions; keys absent from m are ignored.
func replace(m value.Mapping, with map[string]value.Value) value.Mapping {
	b := value.NewMappingBuilder()
	for k, v := range m.All() {
		if r, ok := with[k]; ok {
			v = r
		}
		b.MustAdd(k, v)
	}
	return b.Build()
}

func mustGet(m value.Mapping, key string) value.Value {
	v, ok := m.Get(key)
	if !ok {
		panic(errors.Errorf("embedded twitter seed: missing key %q", key))
	}
	return v
}

func mustMapping(v value.Value) value.Mapping {
	return mustKind[value.Mapping](v)
}

func mustSequence(v value.Value) value.Sequence {
	return mustKind[value.Sequence](v)
}

func mustInt(v value.Value) value.Int {
	return mustKind[value.Int](v)
}

func mustString(v value.Value) value.String {
	return mustKind[value.String](v)
}

func mustKind[T value.Value](v value.Value) T {
	t, ok := v.(T)
	if !ok {
		panic(errors.Errorf("embedded twitter seed: unexpected %s", v.Kind()))
	}
	return t
}
