// Package alpha generates short, sequential identifiers (aa, ab, ... az,
// ba, ...) one at a time. The copy machinery in xslt uses it to mint a
// fresh namespace prefix when a namespace URI it must bind has no
// declaration in scope on the copy or the result tree.
package alpha

// Namer yields successive identifiers from a Reset starting point.
type Namer interface {
	Next() (string, error)
	Reset()
}

// char is a single cyclic letter/digit counter: it advances like one
// digit of an odometer and reports whether it rolled over.
type char struct {
	curr rune
	min  rune
	max  rune
}

func newLower() *char {
	return &char{curr: 'a', min: 'a', max: 'z'}
}

func newNumber() *char {
	return &char{curr: '0', min: '0', max: '9'}
}

func (c *char) get() rune {
	return c.curr
}

func (c *char) reset() {
	c.curr = c.min
}

// next advances the counter by one position, wrapping back to min and
// reporting true ("carry") when it overflows max.
func (c *char) next() bool {
	if c.curr == c.max {
		c.curr = c.min
		return true
	}
	c.curr++
	return false
}

// chain composes a fixed number of chars into an odometer: the last
// char advances every call, carrying into its left neighbour on
// rollover, exactly like incrementing a multi-digit counter.
type chain struct {
	list []*char
}

func newChain(size int, create func() *char) *chain {
	c := &chain{}
	for i := 0; i < size; i++ {
		c.list = append(c.list, create())
	}
	return c
}

// NewLowerString builds a Namer producing size-character lowercase
// sequences: aa, ab, ... az, ba, ... zz for size=2 (size fixed at
// construction, so after zz it wraps back to aa rather than growing).
func NewLowerString(size int) Namer {
	return newChain(size, newLower)
}

// NewNumberString builds a Namer producing size-digit numeric
// sequences: 00, 01, 02, ... 99 for size=2.
func NewNumberString(size int) Namer {
	return newChain(size, newNumber)
}

func (c *chain) Reset() {
	for _, x := range c.list {
		x.reset()
	}
}

func (c *chain) Next() (string, error) {
	buf := make([]byte, len(c.list))
	for i := range c.list {
		buf[i] = byte(c.list[i].get())
	}
	c.advance()
	return string(buf), nil
}

func (c *chain) advance() {
	for i := len(c.list) - 1; i >= 0; i-- {
		if carry := c.list[i].next(); !carry {
			break
		}
	}
}

// Compose chains several Namers together, concatenating one value from
// each with sep; every call advances each of the Namers by one.
type compose struct {
	list []Namer
	sep  string
}

func NewCompose(sep string, list ...Namer) Namer {
	return &compose{list: list, sep: sep}
}

func (c *compose) Reset() {
	for _, n := range c.list {
		n.Reset()
	}
}

func (c *compose) Next() (string, error) {
	parts := make([]string, len(c.list))
	for i, n := range c.list {
		v, err := n.Next()
		if err != nil {
			return "", err
		}
		parts[i] = v
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out += c.sep + p
	}
	return out, nil
}
