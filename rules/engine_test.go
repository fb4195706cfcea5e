package rules

import (
	"testing"

	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/logwrap/impl/discard"
	"github.com/stretchr/testify/assert"
)

const testPolicy = `
default: false
rules:
  - description: writable booleans of a single byte are fine
    filter: Writable && Type == 1 && Length == 1
    accept: true
  - description: attribute 900 is locked down regardless
    filter: AttrID == 900
    accept: false
  - description: short writes to the diagnostic range
    filter: AttrID >= 1000 && AttrID < 1100 && Length <= 4
    accept: true
`

func TestEngine(t *testing.T) {
	t.Run("loads and evaluates rules in order", func(t *testing.T) {
		e := &Engine{}
		assert.NoError(t, e.LoadString(testPolicy))

		accepted, err := e.Execute(Input{AttrID: 5, Length: 1, Type: 1, Writable: true})
		assert.NoError(t, err)
		assert.True(t, accepted)

		accepted, err = e.Execute(Input{AttrID: 1050, Length: 4})
		assert.NoError(t, err)
		assert.True(t, accepted)

		accepted, err = e.Execute(Input{AttrID: 1050, Length: 5})
		assert.NoError(t, err)
		assert.False(t, accepted, "falls through to the default")
	})

	t.Run("an earlier rule wins over a later one", func(t *testing.T) {
		e := &Engine{}
		assert.NoError(t, e.LoadString(testPolicy))

		// 900 matches the boolean rule first when writable.
		accepted, err := e.Execute(Input{AttrID: 900, Length: 1, Type: 1, Writable: true})
		assert.NoError(t, err)
		assert.True(t, accepted)

		accepted, err = e.Execute(Input{AttrID: 900, Length: 8})
		assert.NoError(t, err)
		assert.False(t, accepted)
	})

	t.Run("the default can accept as well as reject", func(t *testing.T) {
		e := &Engine{}
		assert.NoError(t, e.LoadString("default: true\nrules: []\n"))

		accepted, err := e.Execute(Input{AttrID: 1})
		assert.NoError(t, err)
		assert.True(t, accepted)
	})

	t.Run("a filter that does not compile is reported with its description", func(t *testing.T) {
		e := &Engine{}

		err := e.LoadString(`
default: false
rules:
  - description: broken
    filter: AttrID ==
    accept: true
`)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "broken")
	})

	t.Run("a failed load leaves the previous rule set in place", func(t *testing.T) {
		e := &Engine{}
		assert.NoError(t, e.LoadString(testPolicy))
		assert.Error(t, e.LoadString("rules: [ { filter: '!!', accept: true } ]"))

		accepted, err := e.Execute(Input{AttrID: 5, Length: 1, Type: 1, Writable: true})
		assert.NoError(t, err)
		assert.True(t, accepted)
	})
}

func TestNewSetHandler(t *testing.T) {
	t.Run("consults the engine with request and profile data", func(t *testing.T) {
		e := &Engine{}
		assert.NoError(t, e.LoadString(`
default: false
rules:
  - description: accept two byte writes
    filter: Length == 2
    accept: true
`))

		h := NewSetHandler(e, nil, logwrap.New(discard.Discard()))

		assert.True(t, h.HandleSet(1, []byte{0x01, 0x02}))
		assert.False(t, h.HandleSet(1, []byte{0x01}))
	})
}
